// Command skillctl installs, updates, and removes agent skills: directories
// carrying a SKILL.md marker file, copied into per-agent destination roots
// from a bundled catalog, a local path, or a remote GitHub repository.
package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skillctl/skillctl/pkg/agents"
	"github.com/skillctl/skillctl/pkg/catalog"
	"github.com/skillctl/skillctl/pkg/config"
	"github.com/skillctl/skillctl/pkg/installer"
	"github.com/skillctl/skillctl/pkg/logger"
	"github.com/skillctl/skillctl/pkg/presenter"
)

var rootCmd = &cobra.Command{
	Use:   "skillctl",
	Short: "Package manager for agent skills",
	Long: `skillctl installs, updates, and removes skills — directories containing a
SKILL.md file plus supporting assets — into agent-specific directories such
as ~/.claude/skills or .cursor/skills.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if quiet, err := cmd.Flags().GetBool("quiet"); err == nil {
			presenter.SetQuiet(quiet)
		}
		if level := viper.GetString("log_level"); level != "" {
			if err := logger.SetLogLevel(level); err != nil {
				presenter.Warning("Invalid log level, using default")
			}
		}
		logger.SetLogFormat(viper.GetString("log_format"))
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

func init() {
	viper.SetEnvPrefix("SKILLCTL")
	viper.AutomaticEnv()
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("log_format", "fmt")

	rootCmd.PersistentFlags().String("agent", "", "Target agent (claude, codex, cursor, windsurf, vscode, copilot, project)")
	rootCmd.PersistentFlags().String("agents", "", "Comma-separated list of target agents")
	rootCmd.PersistentFlags().Bool("all-agents", false, "Target every known agent")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress non-error output")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "fmt", "Log format (fmt, json)")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// skillsHome is where the bundled manifest and skills directory live:
// SKILLCTL_HOME when set, else the directory of the running executable,
// else the working directory.
func skillsHome() string {
	if home := viper.GetString("home"); home != "" {
		return home
	}
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			return filepath.Dir(resolved)
		}
		return filepath.Dir(exe)
	}
	return "."
}

func manifestPath() string {
	return filepath.Join(skillsHome(), "skills.json")
}

func bundledSkillsDir() string {
	return filepath.Join(skillsHome(), "skills")
}

// loadCatalog loads the manifest, terminating the process when it is
// corrupt: no query can proceed meaningfully on partial data.
func loadCatalog(ctx context.Context) *catalog.Catalog {
	cat, err := catalog.Load(ctx, manifestPath())
	if err != nil {
		presenter.Error(err, "Failed to load skill catalog")
		os.Exit(1)
	}
	return cat
}

func loadUserConfig(ctx context.Context) (*config.Config, string) {
	path, err := config.Path()
	if err != nil {
		presenter.Error(err, "Failed to locate config file")
		os.Exit(1)
	}
	return config.Load(ctx, path), path
}

func newPipeline() *installer.Pipeline {
	return installer.New(bundledSkillsDir())
}

func agentSelectionFromFlags(cmd *cobra.Command) agents.Selection {
	sel := agents.Selection{}
	if agent, err := cmd.Flags().GetString("agent"); err == nil {
		sel.Agent = agent
	}
	if list, err := cmd.Flags().GetString("agents"); err == nil {
		sel.Agents = list
	}
	if all, err := cmd.Flags().GetBool("all-agents"); err == nil {
		sel.All = all
	}
	return sel
}

func resolveAgents(cmd *cobra.Command, cfg *config.Config) []agents.Agent {
	return agents.Resolve(agentSelectionFromFlags(cmd), cfg)
}

func main() {
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
