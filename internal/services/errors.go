package services

import (
	"errors"

	"workflow-downloader/pkg/models"
)

var (
	// ErrControllerNotFound is returned when no controller matches the
	// requested name and version.
	ErrControllerNotFound = errors.New("controller not found")
	// ErrNoWorkflows is returned when a controller owns no workflows.
	ErrNoWorkflows = errors.New("no workflows found")
	// ErrInvalidName is returned when a name cannot be turned into a path
	// component.
	ErrInvalidName = errors.New("invalid name")
)

// StageError is a technical failure tagged with the stage it happened in.
// Its message is the message of the underlying error.
type StageError struct {
	Stage models.State
	Err   error
}

func (e *StageError) Error() string {
	return e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}
