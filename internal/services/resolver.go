package services

import (
	"context"

	"workflow-downloader/internal/repository"
	"workflow-downloader/pkg/models"
)

// ControllerResolver resolves a ControllerRef to the id of the stored controller.
type ControllerResolver struct{}

// Resolve looks up ref over session. It returns ErrControllerNotFound when
// nothing matches and a *StageError when the query fails. If several rows
// match, the first one wins.
func (ControllerResolver) Resolve(ctx context.Context, session repository.Session, ref models.ControllerRef, xlog *models.ExtractionLog) (models.ControllerID, error) {
	xlog.Info("Querying controller: %s", ref)

	ids, err := session.FindControllerIDs(ctx, ref.Name, ref.Version)
	if err != nil {
		xlog.Error("%v", err)
		return "", &StageError{Stage: models.StateResolving, Err: err}
	}
	if len(ids) == 0 {
		xlog.Error("Controller not found")
		return "", ErrControllerNotFound
	}

	xlog.Info("Found controller ID: %s", ids[0])
	return ids[0], nil
}
