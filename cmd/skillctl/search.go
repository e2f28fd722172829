package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skillctl/skillctl/pkg/presenter"
)

// searchSuggestionDistance is looser than the install threshold: search is
// discovery, so broader matches are welcome.
const searchSuggestionDistance = 4

type SearchConfig struct {
	Category string
}

func NewSearchConfig() *SearchConfig {
	return &SearchConfig{}
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the skill catalog",
	Long: `Search skill names, descriptions, categories, and tags for a
case-insensitive substring match.

Examples:
  skillctl search pdf
  skillctl search spreadsheet --category documents`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getSearchConfigFromFlags(cmd)
		cat := loadCatalog(cmd.Context())

		results := cat.Search(args[0], cfg.Category)
		if len(results) == 0 {
			presenter.Info(fmt.Sprintf("No skills match %q", args[0]))
			if suggestions := cat.SuggestSimilar(args[0], searchSuggestionDistance); len(suggestions) > 0 {
				presenter.Info(fmt.Sprintf("Did you mean: %s", strings.Join(suggestions, ", ")))
			}
			return
		}
		printRecords(results)
	},
}

func init() {
	defaults := NewSearchConfig()
	searchCmd.Flags().String("category", defaults.Category, "Restrict results to a category")
}

func getSearchConfigFromFlags(cmd *cobra.Command) *SearchConfig {
	config := NewSearchConfig()
	if category, err := cmd.Flags().GetString("category"); err == nil {
		config.Category = category
	}
	return config
}
