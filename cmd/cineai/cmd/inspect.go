package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/temcen/cineai/internal/catalog"
)

const symmetryTolerance = 1e-9

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Summarize the catalog and similarity matrix",
	Long: `Load both artifacts and report the catalog size, titles that appear
more than once, and whether the matrix is symmetric.

Example:
  cineai inspect --catalog data/movie_list.json --similarity data/similarity.bin`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, _ []string) error {
	engine, err := catalog.LoadEngine(catalogPath, similarityPath, loadOptions())
	if err != nil {
		return err
	}
	return writeInspection(cmd.OutOrStdout(), engine)
}

func writeInspection(w io.Writer, engine *catalog.Engine) error {
	c := engine.Catalog()
	dupes := c.Duplicates()

	fmt.Fprintf(w, "titles:     %d\n", c.Len())
	fmt.Fprintf(w, "matrix:     %dx%d\n", engine.Matrix().Size(), engine.Matrix().Size())
	fmt.Fprintf(w, "symmetric:  %t\n", engine.Matrix().IsSymmetric(symmetryTolerance))
	fmt.Fprintf(w, "duplicates: %d\n", len(dupes))
	for _, title := range dupes {
		fmt.Fprintf(w, "  - %s\n", title)
	}
	return nil
}
