package cmd

import (
	"github.com/spf13/cobra"

	"github.com/temcen/cineai/internal/catalog"
)

var (
	catalogPath    string
	similarityPath string
	rejectDupes    bool
)

var rootCmd = &cobra.Command{
	Use:   "cineai",
	Short: "cineai - offline tools for the movie similarity artifacts",
	Long: `Inspect, convert and query the catalog and similarity matrix
served by the cineai API, without starting the server.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadOptions() catalog.LoadOptions {
	return catalog.LoadOptions{RejectDuplicateTitles: rejectDupes}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "./data/movie_list.json", "path to the catalog JSON")
	rootCmd.PersistentFlags().StringVar(&similarityPath, "similarity", "./data/similarity.bin", "path to the similarity matrix (.json or gonum binary)")
	rootCmd.PersistentFlags().BoolVar(&rejectDupes, "reject-duplicates", false, "fail when the catalog contains duplicate titles")

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(recommendCmd)
}
