package repository

import (
	"context"

	"workflow-downloader/pkg/models"
)

// Session is a connected handle to the automation database. A session is
// owned by one request and closed exactly once by that request.
type Session interface {
	// FindControllerIDs returns the ids of controllers whose name and
	// version match exactly, in storage order.
	FindControllerIDs(ctx context.Context, name string, version int) ([]models.ControllerID, error)
	// ListWorkflows returns the workflows owned by a controller, in the
	// order the database returns them.
	ListWorkflows(ctx context.Context, controllerID models.ControllerID) ([]models.WorkflowRecord, error)
	// ListControllers returns the distinct controller name/version pairs,
	// name ascending then version descending.
	ListControllers(ctx context.Context) ([]models.ControllerRef, error)
	// Close releases the session.
	Close()
}

// Opener opens a Session against the database described by cfg.
type Opener func(ctx context.Context, cfg models.DBConfig) (Session, error)
