package services

import (
	"context"

	"workflow-downloader/internal/logging"
	"workflow-downloader/internal/repository"
	"workflow-downloader/pkg/models"
)

// ControllerCatalog lists the controllers available for download.
type ControllerCatalog struct {
	open   repository.Opener
	logger *logging.Logger
}

// NewControllerCatalog creates a ControllerCatalog that opens sessions with open.
func NewControllerCatalog(open repository.Opener, logger *logging.Logger) *ControllerCatalog {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ControllerCatalog{open: open, logger: logger}
}

// List opens a session, returns every distinct controller name/version pair
// (name ascending, version descending) and closes the session.
func (c *ControllerCatalog) List(ctx context.Context, db models.DBConfig) ([]models.ControllerRef, error) {
	session, err := c.open(ctx, db)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	controllers, err := session.ListControllers(ctx)
	if err != nil {
		return nil, err
	}
	if controllers == nil {
		controllers = []models.ControllerRef{}
	}
	c.logger.Debug("listed controllers", "server", db.Server, "database", db.Database, "count", len(controllers))
	return controllers, nil
}
