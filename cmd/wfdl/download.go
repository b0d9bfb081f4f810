package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"workflow-downloader/internal/repository"
	"workflow-downloader/internal/services"
	"workflow-downloader/pkg/models"
)

var (
	successStyle = color.New(color.FgGreen)
	errorStyle   = color.New(color.FgRed)
	mutedStyle   = color.New(color.Faint)
)

var (
	flagName    string
	flagVersion int
	flagOutput  string
	dbFlags     dbOverrides
)

// dbOverrides are command-line replacements for the configured db section.
type dbOverrides struct {
	server   string
	database string
	user     string
	port     int
	encrypt  bool
}

func (o dbOverrides) apply(cmd *cobra.Command, db models.DBConfig) models.DBConfig {
	if o.server != "" {
		db.Server = o.server
	}
	if o.database != "" {
		db.Database = o.database
	}
	if o.user != "" {
		db.User = o.user
	}
	if o.port != 0 {
		db.Port = o.port
	}
	if cmd.Flags().Changed("db-encrypt") {
		db.Options.Encrypt = o.encrypt
	}
	return db
}

func addDBFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&dbFlags.server, "db-server", "", "database host (overrides db.server)")
	cmd.Flags().StringVar(&dbFlags.database, "db-name", "", "database name (overrides db.database)")
	cmd.Flags().StringVar(&dbFlags.user, "db-user", "", "database user (overrides db.user); set the password with WFDL_DB_PASSWORD")
	cmd.Flags().IntVar(&dbFlags.port, "db-port", 0, "database port (overrides db.port)")
	cmd.Flags().BoolVar(&dbFlags.encrypt, "db-encrypt", false, "require TLS to the database (overrides db.options.encrypt)")
}

var downloadCmd = &cobra.Command{
	Use:   "download --name <controller> --version <n>",
	Short: "Download a controller's workflows to JSON files",
	Long: `Download every workflow of one automation controller version to
<output>/<controller>/v<version>/<workflow>.json. Existing files are
overwritten. The command exits non-zero when the controller is missing,
has no workflows, or any step fails.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		output := flagOutput
		if output == "" {
			output = cfg.Download.OutputRoot
		}
		db := dbFlags.apply(cmd, cfg.DB)

		req := models.DownloadRequest{
			DB: &db,
			Download: &models.DownloadConfig{
				ControllerName:    flagName,
				ControllerVersion: models.FlexibleInt(flagVersion),
				OutputPath:        output,
			},
		}

		downloads := services.NewDownloadService(repository.OpenPostgres, afero.NewOsFs(), logger)
		outcome := downloads.Download(cmd.Context(), req)

		if flagJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(outcome); err != nil {
				return err
			}
		} else {
			printOutcome(cmd.OutOrStdout(), outcome)
		}

		if !outcome.Success {
			return &exitError{code: exitFailure, err: fmt.Errorf("%s", outcome.Message)}
		}
		return nil
	},
}

func init() {
	downloadCmd.Flags().StringVarP(&flagName, "name", "n", "", "controller name")
	downloadCmd.Flags().IntVarP(&flagVersion, "version", "v", 0, "controller version")
	downloadCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output root (overrides download.output_root)")
	_ = downloadCmd.MarkFlagRequired("name")
	_ = downloadCmd.MarkFlagRequired("version")
	addDBFlags(downloadCmd)
}

// printOutcome writes the extraction log followed by the summary line.
func printOutcome(w io.Writer, outcome *models.Outcome) {
	for _, line := range outcome.Logs {
		switch {
		case strings.Contains(line, "] ERROR: "):
			errorStyle.Fprintln(w, line)
		case strings.Contains(line, "] ✓ "):
			successStyle.Fprintln(w, line)
		default:
			mutedStyle.Fprintln(w, line)
		}
	}

	fmt.Fprintln(w)
	if outcome.Success {
		successStyle.Fprintln(w, outcome.Message)
		fmt.Fprintf(w, "Output directory: %s\n", outcome.OutputDir)
		return
	}
	errorStyle.Fprintln(w, outcome.Message)
}
