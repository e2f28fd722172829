package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skillctl/skillctl/pkg/agents"
	"github.com/skillctl/skillctl/pkg/installer"
	"github.com/skillctl/skillctl/pkg/presenter"
)

type UninstallConfig struct {
	DryRun bool
}

func NewUninstallConfig() *UninstallConfig {
	return &UninstallConfig{
		DryRun: false,
	}
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <skill>",
	Short: "Remove an installed skill",
	Long: `Remove an installed skill from one or more agents.

Examples:
  skillctl uninstall pdf
  skillctl uninstall pdf --agent cursor
  skillctl uninstall pdf --all-agents --dry-run`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := getUninstallConfigFromFlags(cmd)
		userCfg, _ := loadUserConfig(ctx)
		pipeline := newPipeline()

		failed := 0
		for _, agent := range resolveAgents(cmd, userCfg) {
			report, err := pipeline.Uninstall(ctx, args[0], agent, installer.Options{DryRun: cfg.DryRun})
			if err != nil {
				failed++
				presenter.Error(err, fmt.Sprintf("Failed to uninstall %q for %s", args[0], agent))
				hintInstalled(pipeline, agent, err)
				continue
			}
			if report.DryRun {
				presenter.Info(fmt.Sprintf("[dry-run] would remove %s", report.Dest))
				continue
			}
			presenter.Success(fmt.Sprintf("Removed %q from %s", report.Skill, report.Dest))
		}

		if failed > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewUninstallConfig()
	uninstallCmd.Flags().Bool("dry-run", defaults.DryRun, "Report what would be removed without removing anything")
}

func getUninstallConfigFromFlags(cmd *cobra.Command) *UninstallConfig {
	config := NewUninstallConfig()
	if dryRun, err := cmd.Flags().GetBool("dry-run"); err == nil {
		config.DryRun = dryRun
	}
	return config
}

// hintInstalled lists what is actually installed when the target was not,
// as a remediation hint.
func hintInstalled(pipeline *installer.Pipeline, agent agents.Agent, err error) {
	if !errors.Is(err, installer.ErrNotInstalled) {
		return
	}
	installed, listErr := pipeline.Installed(agent)
	if listErr != nil || len(installed) == 0 {
		return
	}
	names := make([]string, 0, len(installed))
	for _, skill := range installed {
		names = append(names, skill.Name)
	}
	presenter.Info(fmt.Sprintf("Installed skills for %s: %s", agent, strings.Join(names, ", ")))
}
