package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/skillctl/skillctl/pkg/browse"
	"github.com/skillctl/skillctl/pkg/presenter"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the catalog interactively",
	Long: `Open an interactive browser over the skill catalog. Navigate categories
and skills with the arrow keys and install with enter.

Examples:
  skillctl browse
  skillctl browse --agent cursor`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		userCfg, _ := loadUserConfig(ctx)
		cat := loadCatalog(ctx)

		if cat.Len() == 0 {
			presenter.Info("The catalog is empty, nothing to browse")
			return
		}

		agent := resolveAgents(cmd, userCfg)[0]
		if err := browse.Run(ctx, cat, newPipeline(), agent); err != nil {
			presenter.Error(err, "Browser failed")
			os.Exit(1)
		}
	},
}
