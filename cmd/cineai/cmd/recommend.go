package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/temcen/cineai/internal/catalog"
)

var recommendK int

var recommendCmd = &cobra.Command{
	Use:   "recommend <title>",
	Short: "List the titles most similar to a title",
	Long: `Run the same ranking the API uses, straight from the artifacts.

Example:
  cineai recommend "The Dark Knight" -k 10`,
	Args: cobra.ExactArgs(1),
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().IntVarP(&recommendK, "count", "k", catalog.DefaultK, "number of recommendations")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	if recommendK <= 0 {
		return fmt.Errorf("count must be positive, got %d", recommendK)
	}
	engine, err := catalog.LoadEngine(catalogPath, similarityPath, loadOptions())
	if err != nil {
		return err
	}
	return writeRecommendations(cmd.OutOrStdout(), engine, args[0], recommendK)
}

func writeRecommendations(w io.Writer, engine *catalog.Engine, title string, k int) error {
	recs, err := engine.Recommend(title, k)
	if err != nil {
		return err
	}
	for _, r := range recs {
		fmt.Fprintf(w, "%2d. %-40s %.4f\n", r.Position, r.Title, r.Score)
	}
	return nil
}
