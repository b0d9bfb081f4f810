package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func steppingClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		t := current
		current = current.Add(step)
		return t
	}
}

func TestExtractionLog_RendersSeverityPrefixes(t *testing.T) {
	start := time.Date(2026, 3, 1, 14, 5, 9, 0, time.UTC)
	log := NewExtractionLog(steppingClock(start, time.Second))

	log.Info("Connecting to database: %s/%s", "db01", "automation")
	log.Error("Controller not found")
	log.Success("Saved: %s", "Invoice.json")

	assert.Equal(t, []string{
		"[14:05:09] Connecting to database: db01/automation",
		"[14:05:10] ERROR: Controller not found",
		"[14:05:11] ✓ Saved: Invoice.json",
	}, log.Lines())
	assert.Equal(t, 3, log.Len())
}

func TestExtractionLog_TimestampsNeverDecrease(t *testing.T) {
	start := time.Date(2026, 3, 1, 14, 5, 9, 0, time.UTC)
	log := NewExtractionLog(steppingClock(start, -time.Second))

	log.Info("one")
	log.Info("two")
	log.Info("three")

	entries := log.Entries()
	require.Len(t, entries, 3)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].Time.Before(entries[i-1].Time))
	}
}

func TestExtractionLog_EntriesAreCopies(t *testing.T) {
	log := NewExtractionLog(nil)
	log.Info("first")

	entries := log.Entries()
	entries[0].Message = "mutated"

	assert.Equal(t, "first", log.Entries()[0].Message)
}

func TestExtractionLog_OnAppend(t *testing.T) {
	log := NewExtractionLog(nil)
	var seen []Severity
	log.OnAppend(func(e LogEntry) { seen = append(seen, e.Severity) })

	log.Info("a")
	log.Error("b")

	assert.Equal(t, []Severity{SeverityInfo, SeverityError}, seen)
}

func TestDownloadRequest_Validate(t *testing.T) {
	db := &DBConfig{User: "sa", Password: "pw", Server: "db01", Database: "automation"}
	dl := &DownloadConfig{ControllerName: "Billing", ControllerVersion: 2, OutputPath: "/data"}

	tests := []struct {
		name string
		req  DownloadRequest
		want error
	}{
		{"valid", DownloadRequest{DB: db, Download: dl}, nil},
		{"missing db", DownloadRequest{Download: dl}, ErrMissingSections},
		{"missing download", DownloadRequest{DB: db}, ErrMissingSections},
		{"missing password", DownloadRequest{DB: &DBConfig{User: "sa", Server: "db01", Database: "automation"}, Download: dl}, ErrMissingDBFields},
		{"missing version", DownloadRequest{DB: db, Download: &DownloadConfig{ControllerName: "Billing", OutputPath: "/data"}}, ErrMissingDownloadFields},
		{"missing output", DownloadRequest{DB: db, Download: &DownloadConfig{ControllerName: "Billing", ControllerVersion: 2}}, ErrMissingDownloadFields},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.Validate())
		})
	}
}

func TestDownloadRequest_DecodesVersionAsNumberOrString(t *testing.T) {
	for _, body := range []string{
		`{"dbConfig":{},"downloadConfig":{"controllerName":"Billing","controllerVersion":2,"outputPath":"/data"}}`,
		`{"dbConfig":{},"downloadConfig":{"controllerName":"Billing","controllerVersion":"2","outputPath":"/data"}}`,
	} {
		var req DownloadRequest
		require.NoError(t, json.Unmarshal([]byte(body), &req))
		assert.Equal(t, ControllerRef{Name: "Billing", Version: 2}, req.Download.Ref())
	}

	var req DownloadRequest
	err := json.Unmarshal([]byte(`{"downloadConfig":{"controllerVersion":"two"}}`), &req)
	assert.Error(t, err)
}

func TestOutcome_JSONShape(t *testing.T) {
	out := Outcome{
		Success:       true,
		Message:       "Successfully downloaded 2 workflow(s)",
		WorkflowCount: 2,
		OutputDir:     "/data/Billing/v2",
		Logs:          []string{"[10:00:00] Connected successfully"},
		Status:        StatusSucceeded,
	}
	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": true,
		"message": "Successfully downloaded 2 workflow(s)",
		"workflowCount": 2,
		"outputDir": "/data/Billing/v2",
		"logs": ["[10:00:00] Connected successfully"]
	}`, string(data))

	failed, err := json.Marshal(Outcome{Message: "No workflows found for this controller", Logs: []string{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"message":"No workflows found for this controller","logs":[]}`, string(failed))
}
