package services

import (
	"context"

	"workflow-downloader/pkg/models"
)

// Downloader extracts a controller's workflows to disk.
type Downloader interface {
	// Download runs one extraction and reports its outcome.
	Download(ctx context.Context, req models.DownloadRequest) *models.Outcome
}

// Catalog lists the controllers stored in a database.
type Catalog interface {
	// List returns the distinct controller name/version pairs.
	List(ctx context.Context, db models.DBConfig) ([]models.ControllerRef, error)
}

var (
	_ Downloader = (*DownloadService)(nil)
	_ Catalog    = (*ControllerCatalog)(nil)
)
