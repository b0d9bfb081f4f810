package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"workflow-downloader/internal/repository"
	"workflow-downloader/pkg/models"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Extraction summarises a completed extraction.
type Extraction struct {
	WorkflowCount int
	OutputDir     string
}

// WorkflowExtractor fetches the workflows of a controller and writes each
// one to its own file.
type WorkflowExtractor struct {
	fs afero.Fs
}

// NewWorkflowExtractor creates a WorkflowExtractor writing to fs.
func NewWorkflowExtractor(fs afero.Fs) *WorkflowExtractor {
	return &WorkflowExtractor{fs: fs}
}

type plannedFile struct {
	name    string
	payload string
}

// Extract writes every workflow of controllerID to
// outputRoot/<name>/v<version>/<displayName>.json. It returns ErrNoWorkflows
// without touching the filesystem when the controller has no workflows, and
// a *StageError on any query or filesystem failure. Writes are sequential
// and the first failure aborts the rest.
func (e *WorkflowExtractor) Extract(ctx context.Context, session repository.Session, controllerID models.ControllerID, ref models.ControllerRef, outputRoot string, xlog *models.ExtractionLog) (*Extraction, error) {
	xlog.Info("Querying workflows for controller...")
	workflows, err := session.ListWorkflows(ctx, controllerID)
	if err != nil {
		xlog.Error("%v", err)
		return nil, &StageError{Stage: models.StateExtracting, Err: err}
	}

	xlog.Info("Found %d workflow(s)", len(workflows))
	if len(workflows) == 0 {
		xlog.Error("No workflows found")
		return nil, ErrNoWorkflows
	}

	// Names are checked up front so a bad row never leaves a half-written directory.
	outputDir, err := OutputDirectory(outputRoot, ref)
	if err != nil {
		xlog.Error("%v", err)
		return nil, &StageError{Stage: models.StateWriting, Err: err}
	}
	files := make([]plannedFile, 0, len(workflows))
	for _, wf := range workflows {
		name, err := WorkflowFileName(wf.DisplayName)
		if err != nil {
			xlog.Error("%v", err)
			return nil, &StageError{Stage: models.StateWriting, Err: err}
		}
		files = append(files, plannedFile{name: name, payload: wf.Payload})
	}

	xlog.Info("Creating output directory: %s", outputDir)
	if err := e.fs.MkdirAll(outputDir, dirPerm); err != nil {
		err = fmt.Errorf("failed to create output directory: %w", err)
		xlog.Error("%v", err)
		return nil, &StageError{Stage: models.StateWriting, Err: err}
	}
	xlog.Info("Directory created successfully")

	xlog.Info("Saving workflows to disk...")
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			xlog.Error("%v", err)
			return nil, &StageError{Stage: models.StateWriting, Err: err}
		}
		path := filepath.Join(outputDir, f.name)
		if err := afero.WriteFile(e.fs, path, []byte(f.payload), filePerm); err != nil {
			err = fmt.Errorf("failed to write %s: %w", f.name, err)
			xlog.Error("%v", err)
			return nil, &StageError{Stage: models.StateWriting, Err: err}
		}
		xlog.Success("Saved: %s", f.name)
	}
	xlog.Info("Wrote %d workflow file(s) to %s", len(files), outputDir)

	return &Extraction{WorkflowCount: len(files), OutputDir: outputDir}, nil
}
