package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skillctl/skillctl/pkg/agents"
	"github.com/skillctl/skillctl/pkg/presenter"
	"github.com/skillctl/skillctl/pkg/skillfile"
)

var infoCmd = &cobra.Command{
	Use:   "info <skill>",
	Short: "Show details for a catalog skill",
	Long: `Show the catalog record for a skill and where it is installed.

Examples:
  skillctl info pdf`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cat := loadCatalog(cmd.Context())

		record := cat.Get(args[0])
		if record == nil {
			presenter.Warning(fmt.Sprintf("Skill %q is not in the catalog", args[0]))
			if suggestions := cat.SuggestSimilar(args[0], installSuggestionDistance); len(suggestions) > 0 {
				presenter.Info(fmt.Sprintf("Did you mean: %s", strings.Join(suggestions, ", ")))
			}
			return
		}

		presenter.Section(record.Name)
		presenter.Info(record.Description)
		presenter.Info("")
		presenter.Info(fmt.Sprintf("Category: %s", record.Category))
		if len(record.Tags) > 0 {
			presenter.Info(fmt.Sprintf("Tags:     %s", strings.Join(record.Tags, ", ")))
		}
		if record.Author != "" {
			presenter.Info(fmt.Sprintf("Author:   %s", record.Author))
		}
		if record.License != "" {
			presenter.Info(fmt.Sprintf("License:  %s", record.License))
		}
		if record.Source != "" {
			presenter.Info(fmt.Sprintf("Source:   %s", record.Source))
		}
		if record.LastUpdated != "" {
			presenter.Info(fmt.Sprintf("Updated:  %s", record.LastUpdated))
		}
		if record.Featured {
			presenter.Info("Featured: yes")
		}
		if record.Verified {
			presenter.Info("Verified: yes")
		}

		presenter.Info("")
		printInstallLocations(record.Name)
	},
}

// printInstallLocations reports, per agent, whether the skill is present at
// the destination root. "Installed" is purely the marker-file predicate.
func printInstallLocations(name string) {
	var installed []string
	for _, agent := range agents.All() {
		root, err := agents.SkillsDir(agent)
		if err != nil {
			continue
		}
		if skillfile.IsSkillDir(filepath.Join(root, name)) {
			installed = append(installed, string(agent))
		}
	}
	if len(installed) == 0 {
		presenter.Info("Not installed for any agent")
		return
	}
	presenter.Info(fmt.Sprintf("Installed for: %s", strings.Join(installed, ", ")))
}
