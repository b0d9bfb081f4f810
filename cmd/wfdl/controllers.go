package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"workflow-downloader/internal/repository"
	"workflow-downloader/internal/services"
)

var controllersCmd = &cobra.Command{
	Use:   "controllers",
	Short: "List the controllers available for download",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db := dbFlags.apply(cmd, cfg.DB)
		if err := db.Validate(); err != nil {
			return err
		}

		catalog := services.NewControllerCatalog(repository.OpenPostgres, logger)
		controllers, err := catalog.List(cmd.Context(), db)
		if err != nil {
			return &exitError{code: exitFailure, err: fmt.Errorf("Error fetching controllers: %w", err)}
		}

		if flagJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(controllers)
		}

		if len(controllers) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No controllers found")
			return nil
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tVERSION")
		for _, c := range controllers {
			fmt.Fprintf(tw, "%s\t%d\n", c.Name, c.Version)
		}
		return tw.Flush()
	},
}

func init() {
	addDBFlags(controllersCmd)
}
