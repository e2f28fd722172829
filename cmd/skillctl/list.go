package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skillctl/skillctl/pkg/catalog"
	"github.com/skillctl/skillctl/pkg/presenter"
)

type ListConfig struct {
	Category  string
	Tags      string
	Installed bool
}

func NewListConfig() *ListConfig {
	return &ListConfig{}
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog or installed skills",
	Long: `List the skills available in the catalog, optionally filtered by
category or tags, or list what is installed with --installed.

Examples:
  skillctl list
  skillctl list --category documents
  skillctl list --tags pdf,excel
  skillctl list --installed --agent cursor`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		cfg := getListConfigFromFlags(cmd)

		if cfg.Installed {
			listInstalled(cmd)
			return
		}

		cat := loadCatalog(ctx)
		records := cat.All()
		switch {
		case cfg.Category != "":
			records = cat.FilterByCategory(cfg.Category)
		case cfg.Tags != "":
			records = cat.FilterByTags(cfg.Tags)
		}

		if len(records) == 0 {
			presenter.Info("No skills match")
			return
		}
		printRecords(records)
	},
}

func init() {
	defaults := NewListConfig()
	listCmd.Flags().String("category", defaults.Category, "Filter by category (case-insensitive exact match)")
	listCmd.Flags().String("tags", defaults.Tags, "Filter by comma-separated tags (any match)")
	listCmd.Flags().Bool("installed", defaults.Installed, "List installed skills instead of the catalog")
}

func getListConfigFromFlags(cmd *cobra.Command) *ListConfig {
	config := NewListConfig()
	if category, err := cmd.Flags().GetString("category"); err == nil {
		config.Category = category
	}
	if tags, err := cmd.Flags().GetString("tags"); err == nil {
		config.Tags = tags
	}
	if installed, err := cmd.Flags().GetBool("installed"); err == nil {
		config.Installed = installed
	}
	return config
}

// maxDisplayTags keeps tag columns readable; tags keep insertion order so
// truncation is stable.
const maxDisplayTags = 3

func printRecords(records []catalog.SkillRecord) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCATEGORY\tTAGS\tDESCRIPTION")
	fmt.Fprintln(tw, "----\t--------\t----\t-----------")
	for _, r := range records {
		tags := r.Tags
		if len(tags) > maxDisplayTags {
			tags = append(tags[:maxDisplayTags:maxDisplayTags], "…")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", displayName(r), r.Category, strings.Join(tags, ","), truncate(r.Description, 60))
	}
	tw.Flush()
}

func displayName(r catalog.SkillRecord) string {
	name := r.Name
	if r.Featured {
		name = "★ " + name
	}
	if r.Verified {
		name += " ✔"
	}
	return name
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func listInstalled(cmd *cobra.Command) {
	ctx := cmd.Context()
	userCfg, _ := loadUserConfig(ctx)
	pipeline := newPipeline()

	for _, agent := range resolveAgents(cmd, userCfg) {
		installed, err := pipeline.Installed(agent)
		if err != nil {
			presenter.Error(err, fmt.Sprintf("Failed to list skills for %s", agent))
			continue
		}

		presenter.Section(fmt.Sprintf("%s (%d installed)", agent, len(installed)))
		if len(installed) == 0 {
			continue
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, skill := range installed {
			fmt.Fprintf(tw, "%s\t%s\n", skill.Name, truncate(skill.Description, 70))
		}
		tw.Flush()
	}
}
