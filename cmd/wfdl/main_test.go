package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflow-downloader/pkg/models"
)

func TestPrintOutcome_Success(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	printOutcome(&buf, &models.Outcome{
		Success:   true,
		Message:   "Successfully downloaded 1 workflow(s)",
		OutputDir: "/exports/Billing/v2",
		Logs: []string{
			"[09:30:00] Connected successfully",
			"[09:30:01] ✓ Saved: Invoice.json",
			"[09:30:02] ✓ SUCCESS: All workflows downloaded successfully",
		},
	})

	assert.Equal(t, "[09:30:00] Connected successfully\n"+
		"[09:30:01] ✓ Saved: Invoice.json\n"+
		"[09:30:02] ✓ SUCCESS: All workflows downloaded successfully\n"+
		"\n"+
		"Successfully downloaded 1 workflow(s)\n"+
		"Output directory: /exports/Billing/v2\n", buf.String())
}

func TestPrintOutcome_Failure(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	printOutcome(&buf, &models.Outcome{
		Message: "No workflows found for this controller",
		Logs:    []string{"[09:30:00] ERROR: No workflows found"},
	})

	assert.Equal(t, "[09:30:00] ERROR: No workflows found\n\nNo workflows found for this controller\n", buf.String())
	assert.NotContains(t, buf.String(), "Output directory")
}

func TestDBOverrides_Apply(t *testing.T) {
	base := models.DBConfig{User: "svc", Password: "secret", Server: "localhost", Database: "automation", Port: 5432}

	cmd := &cobra.Command{Use: "test"}
	var o dbOverrides
	cmd.Flags().BoolVar(&o.encrypt, "db-encrypt", false, "")

	unchanged := o.apply(cmd, base)
	assert.Equal(t, base, unchanged)

	o.server = "db01"
	o.port = 6543
	require.NoError(t, cmd.Flags().Set("db-encrypt", "true"))

	got := o.apply(cmd, base)
	assert.Equal(t, "db01", got.Server)
	assert.Equal(t, 6543, got.Port)
	assert.True(t, got.Options.Encrypt)
	assert.Equal(t, "secret", got.Password)
	assert.Equal(t, "localhost", base.Server)
}
