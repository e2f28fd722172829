package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/skillctl/skillctl/pkg/agents"
	"github.com/skillctl/skillctl/pkg/catalog"
	"github.com/skillctl/skillctl/pkg/installer"
	"github.com/skillctl/skillctl/pkg/presenter"
)

// installSuggestionDistance is the edit-distance threshold for "did you
// mean" feedback after a failed install; typo-sized, not discovery-sized.
const installSuggestionDistance = 3

type InstallConfig struct {
	DryRun bool
}

func NewInstallConfig() *InstallConfig {
	return &InstallConfig{
		DryRun: false,
	}
}

var installCmd = &cobra.Command{
	Use:   "install <skill|path|owner/repo[/skill]>",
	Short: "Install a skill",
	Long: `Install a skill for one or more agents. The target can be:

  - A catalog skill name: skillctl install pdf
  - A local directory:    skillctl install ./my-skill
  - A GitHub repository:  skillctl install owner/repo
  - A skill in a repo:    skillctl install owner/repo/skill-name

Examples:
  skillctl install pdf
  skillctl install pdf --agent cursor
  skillctl install pdf --agents claude,cursor --dry-run
  skillctl install anthropics/skills/pdf --all-agents`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := getInstallConfigFromFlags(cmd)
		userCfg, _ := loadUserConfig(ctx)
		cat := loadCatalog(ctx)
		pipeline := newPipeline()

		targets := resolveAgents(cmd, userCfg)
		opts := installer.Options{DryRun: cfg.DryRun}

		if userCfg.AutoUpdate && !cfg.DryRun {
			autoUpdate(cmd, pipeline, targets)
		}

		failed := 0
		for _, agent := range targets {
			reports, err := pipeline.Install(ctx, args[0], agent, opts)
			if err != nil {
				failed++
				presenter.Error(err, fmt.Sprintf("Failed to install %q for %s", args[0], agent))
				suggestAlternatives(cat, args[0], err)
				continue
			}
			for _, report := range reports {
				reportInstall(report)
			}
		}

		if failed > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewInstallConfig()
	installCmd.Flags().Bool("dry-run", defaults.DryRun, "Report what would be installed without writing anything")
}

func getInstallConfigFromFlags(cmd *cobra.Command) *InstallConfig {
	config := NewInstallConfig()
	if dryRun, err := cmd.Flags().GetBool("dry-run"); err == nil {
		config.DryRun = dryRun
	}
	return config
}

func reportInstall(report installer.Report) {
	size := humanize.IBytes(uint64(report.Size))
	if report.DryRun {
		presenter.Info(fmt.Sprintf("[dry-run] would install %q (%s) from %s to %s", report.Skill, size, report.Source, report.Dest))
		return
	}
	presenter.Success(fmt.Sprintf("Installed %q (%s) to %s", report.Skill, size, report.Dest))
	if guidance := agents.Guidance(report.Agent); guidance != "" {
		presenter.Info("  " + guidance)
	}
}

// suggestAlternatives prints "did you mean" candidates for not-found
// catalog names.
func suggestAlternatives(cat *catalog.Catalog, target string, err error) {
	if !errors.Is(err, installer.ErrNotFound) || strings.ContainsAny(target, `/\~.`) {
		return
	}
	suggestions := cat.SuggestSimilar(target, installSuggestionDistance)
	if len(suggestions) > 0 {
		presenter.Info(fmt.Sprintf("Did you mean: %s", strings.Join(suggestions, ", ")))
	}
}

// autoUpdate refreshes installed skills before an install when the user has
// opted in. Failures are reported but never block the install itself.
func autoUpdate(cmd *cobra.Command, pipeline *installer.Pipeline, targets []agents.Agent) {
	ctx := cmd.Context()
	for _, agent := range targets {
		batch, err := pipeline.UpdateAll(ctx, agent, installer.Options{})
		if err != nil {
			presenter.Warning(fmt.Sprintf("Auto-update failed for %s: %v", agent, err))
			continue
		}
		if batch.Failed > 0 {
			presenter.Warning(fmt.Sprintf("Auto-update for %s: %d updated, %d failed", agent, len(batch.Updated), batch.Failed))
		}
	}
}
