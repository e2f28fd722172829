package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/skillctl/skillctl/pkg/installer"
	"github.com/skillctl/skillctl/pkg/presenter"
)

type UpdateConfig struct {
	All    bool
	DryRun bool
}

func NewUpdateConfig() *UpdateConfig {
	return &UpdateConfig{
		All:    false,
		DryRun: false,
	}
}

var updateCmd = &cobra.Command{
	Use:   "update [skill]",
	Short: "Update installed skills from the catalog",
	Long: `Update an installed skill to the current catalog copy (a full replace,
not a merge), or update everything installed with --all.

Examples:
  skillctl update pdf
  skillctl update --all
  skillctl update --all --agent cursor --dry-run`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := getUpdateConfigFromFlags(cmd)
		userCfg, _ := loadUserConfig(ctx)
		pipeline := newPipeline()
		opts := installer.Options{DryRun: cfg.DryRun}

		if !cfg.All && len(args) == 0 {
			presenter.Error(fmt.Errorf("a skill name or --all is required"), "Nothing to update")
			cmd.Usage()
			os.Exit(1)
		}

		failed := 0
		for _, agent := range resolveAgents(cmd, userCfg) {
			if cfg.All {
				batch, err := pipeline.UpdateAll(ctx, agent, opts)
				if err != nil {
					failed++
					presenter.Error(err, fmt.Sprintf("Failed to update skills for %s", agent))
					continue
				}
				for _, report := range batch.Updated {
					reportUpdate(report)
				}
				if batch.Errors != nil {
					presenter.Error(batch.Errors, fmt.Sprintf("Some updates failed for %s", agent))
				}
				presenter.Info(fmt.Sprintf("%s: %d updated, %d failed", agent, len(batch.Updated), batch.Failed))
				if batch.Failed > 0 {
					failed++
				}
				continue
			}

			report, err := pipeline.Update(ctx, args[0], agent, opts)
			if err != nil {
				failed++
				presenter.Error(err, fmt.Sprintf("Failed to update %q for %s", args[0], agent))
				hintInstalled(pipeline, agent, err)
				continue
			}
			reportUpdate(*report)
		}

		if failed > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewUpdateConfig()
	updateCmd.Flags().Bool("all", defaults.All, "Update every installed skill")
	updateCmd.Flags().Bool("dry-run", defaults.DryRun, "Report what would be updated without writing anything")
}

func getUpdateConfigFromFlags(cmd *cobra.Command) *UpdateConfig {
	config := NewUpdateConfig()
	if all, err := cmd.Flags().GetBool("all"); err == nil {
		config.All = all
	}
	if dryRun, err := cmd.Flags().GetBool("dry-run"); err == nil {
		config.DryRun = dryRun
	}
	return config
}

func reportUpdate(report installer.Report) {
	if report.DryRun {
		presenter.Info(fmt.Sprintf("[dry-run] would update %q at %s", report.Skill, report.Dest))
		return
	}
	presenter.Success(fmt.Sprintf("Updated %q (%s) at %s", report.Skill, humanize.IBytes(uint64(report.Size)), report.Dest))
}
