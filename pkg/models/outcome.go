package models

// State is a stage of a download.
type State string

const (
	StateConnecting State = "connecting"
	StateResolving  State = "resolving"
	StateExtracting State = "extracting"
	StateWriting    State = "writing"
	StateClosed     State = "closed"
)

// Status is the terminal state of a download.
type Status string

const (
	StatusSucceeded        Status = "succeeded"
	StatusNotFound         Status = "not_found"
	StatusEmptyResult      Status = "empty_result"
	StatusTechnicalFailure Status = "technical_failure"
	// StatusInvalidRequest is reported when a request fails boundary
	// validation before any connection is attempted.
	StatusInvalidRequest Status = "invalid_request"
)

// Outcome is the result of a download, returned on every path.
type Outcome struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message"`
	WorkflowCount int      `json:"workflowCount,omitempty"`
	OutputDir     string   `json:"outputDir,omitempty"`
	Logs          []string `json:"logs"`

	Status      Status     `json:"-"`
	FailedStage State      `json:"-"`
	Entries     []LogEntry `json:"-"`
}
