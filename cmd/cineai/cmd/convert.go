package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/temcen/cineai/internal/catalog"
)

var convertCmd = &cobra.Command{
	Use:   "convert <matrix.json> <matrix.bin>",
	Short: "Convert a JSON similarity matrix to gonum binary",
	Long: `Read an N×N JSON similarity matrix, check it against the catalog size,
and write it in the binary encoding the server loads fastest.

Example:
  cineai convert data/similarity.json data/similarity.bin`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	c, err := catalog.Load(catalogPath, loadOptions())
	if err != nil {
		return err
	}
	if err := convertMatrix(args[0], args[1], c.Len()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %dx%d matrix to %s\n", c.Len(), c.Len(), args[1])
	return nil
}

func convertMatrix(src, dst string, n int) error {
	if catalog.FormatForPath(dst) == catalog.FormatJSON {
		return fmt.Errorf("destination %s must not be a .json file", dst)
	}
	m, err := catalog.LoadMatrix(src, n)
	if err != nil {
		return err
	}

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	w := bufio.NewWriter(f)
	if err := m.WriteBinary(w); err != nil {
		f.Close()
		return fmt.Errorf("encode matrix: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
