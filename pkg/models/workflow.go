// Package models defines the domain models shared by the workflow downloader.
package models

import (
	"fmt"
)

// ControllerID identifies a stored automation controller. It is only valid
// for the duration of a single extraction.
type ControllerID string

// ControllerRef is the user-supplied selection key for a controller.
// Name alone is not unique; Name and Version together are.
type ControllerRef struct {
	Name    string `json:"name"`
	Version int    `json:"version"`
}

// String renders the ref the way it appears in log lines, e.g. "Billing (v2)".
func (r ControllerRef) String() string {
	return fmt.Sprintf("%s (v%d)", r.Name, r.Version)
}

// WorkflowRecord is one workflow row belonging to a controller. Payload is
// an opaque serialized document and is never parsed.
type WorkflowRecord struct {
	DisplayName string `json:"display_name"`
	Payload     string `json:"workflow"`
}
