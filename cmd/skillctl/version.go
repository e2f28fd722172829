package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillctl/skillctl/pkg/presenter"
	"github.com/skillctl/skillctl/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, _ []string) {
		if jsonOutput, err := cmd.Flags().GetBool("json"); err == nil && jsonOutput {
			out, err := version.Get().JSON()
			if err != nil {
				presenter.Error(err, "Failed to render version")
				os.Exit(1)
			}
			fmt.Println(out)
			return
		}
		fmt.Println(version.Get().String())
	},
}

func init() {
	versionCmd.Flags().Bool("json", false, "Output version information as JSON")
}
