package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skillctl/skillctl/pkg/agents"
	"github.com/skillctl/skillctl/pkg/config"
	"github.com/skillctl/skillctl/pkg/presenter"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Get and set skillctl configuration",
	Long: `Read and write persistent configuration: defaultAgent, agents, and
autoUpdate. The config file lives at ~/.skillctl/config.yaml.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show configuration values",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _ := loadUserConfig(cmd.Context())

		if len(args) == 0 {
			presenter.Info(fmt.Sprintf("defaultAgent: %s", cfg.DefaultAgent))
			presenter.Info(fmt.Sprintf("agents:       %s", strings.Join(cfg.Agents, ", ")))
			presenter.Info(fmt.Sprintf("autoUpdate:   %t", cfg.AutoUpdate))
			return
		}

		switch args[0] {
		case "defaultAgent":
			presenter.Info(cfg.DefaultAgent)
		case "agents":
			presenter.Info(strings.Join(cfg.Agents, ", "))
		case "autoUpdate":
			presenter.Info(strconv.FormatBool(cfg.AutoUpdate))
		default:
			presenter.Error(fmt.Errorf("unknown key %q", args[0]), "Failed to read config")
			os.Exit(1)
		}
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and persist the whole config file.

Examples:
  skillctl config set defaultAgent cursor
  skillctl config set agents claude,cursor
  skillctl config set autoUpdate true`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg, path := loadUserConfig(ctx)
		key, value := args[0], args[1]

		switch key {
		case "defaultAgent":
			agent, ok := agents.Parse(value)
			if !ok {
				presenter.Error(fmt.Errorf("unknown agent %q", value), "Failed to set config")
				os.Exit(1)
			}
			cfg.DefaultAgent = string(agent)
		case "agents":
			var list []string
			for _, token := range strings.Split(value, ",") {
				agent, ok := agents.Parse(token)
				if !ok {
					presenter.Error(fmt.Errorf("unknown agent %q", token), "Failed to set config")
					os.Exit(1)
				}
				list = append(list, string(agent))
			}
			cfg.Agents = list
		case "autoUpdate":
			enabled, err := strconv.ParseBool(value)
			if err != nil {
				presenter.Error(err, "autoUpdate must be true or false")
				os.Exit(1)
			}
			cfg.AutoUpdate = enabled
		default:
			presenter.Error(fmt.Errorf("unknown key %q", key), "Failed to set config")
			os.Exit(1)
		}

		if err := config.Save(cfg, path); err != nil {
			presenter.Error(err, "Failed to save config")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Set %s = %s", key, value))
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
