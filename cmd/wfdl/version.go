package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"workflow-downloader/internal/api"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "wfdl v%s\n", api.ServiceVersion)
	},
}
