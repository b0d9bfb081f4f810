package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/metric"

	"workflow-downloader/internal/logging"
	"workflow-downloader/internal/repository"
	"workflow-downloader/pkg/models"
)

// DownloadService runs the connect, resolve, extract and close sequence for
// a single download request.
type DownloadService struct {
	open      repository.Opener
	resolver  ControllerResolver
	extractor *WorkflowExtractor
	logger    *logging.Logger
	now       func() time.Time
	meters    metric.MeterProvider
	metrics   *downloadMetrics
}

// Option configures a DownloadService.
type Option func(*DownloadService)

// WithClock overrides the clock used to stamp log entries.
func WithClock(now func() time.Time) Option {
	return func(s *DownloadService) { s.now = now }
}

// WithMeterProvider records download metrics on mp instead of the global
// meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *DownloadService) { s.meters = mp }
}

// NewDownloadService creates a DownloadService that opens sessions with
// open and writes workflow files to fs.
func NewDownloadService(open repository.Opener, fs afero.Fs, logger *logging.Logger, opts ...Option) *DownloadService {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &DownloadService{
		open:      open,
		extractor: NewWorkflowExtractor(fs),
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics = newDownloadMetrics(s.meters)
	return s
}

// Download extracts the controller selected by req. It never returns an
// error: every failure is reported through the outcome, which always
// carries the full log. Once opened, the session is closed exactly once
// before the outcome is returned.
func (s *DownloadService) Download(ctx context.Context, req models.DownloadRequest) *models.Outcome {
	started := time.Now()
	logger := s.logger.With("request_id", uuid.NewString())
	if req.Download != nil {
		logger = logger.With("controller", req.Download.ControllerName, "version", int(req.Download.ControllerVersion))
	}

	xlog := models.NewExtractionLog(s.now)
	xlog.OnAppend(func(e models.LogEntry) {
		switch e.Severity {
		case models.SeverityError:
			logger.Warn(e.Message)
		default:
			logger.Debug(e.Message)
		}
	})

	outcome := s.download(ctx, req, xlog)
	outcome.Logs = xlog.Lines()
	outcome.Entries = xlog.Entries()

	s.metrics.record(ctx, outcome, time.Since(started).Seconds())
	if outcome.Success {
		logger.Info("download finished", "workflows", outcome.WorkflowCount, "output_dir", outcome.OutputDir)
	} else {
		logger.Error("download failed", "status", outcome.Status, "stage", outcome.FailedStage, "message", outcome.Message)
	}
	return outcome
}

func (s *DownloadService) download(ctx context.Context, req models.DownloadRequest, xlog *models.ExtractionLog) (outcome *models.Outcome) {
	if err := req.Validate(); err != nil {
		xlog.Error("%v", err)
		return &models.Outcome{Message: err.Error(), Status: models.StatusInvalidRequest}
	}
	db, dl := *req.DB, *req.Download

	xlog.Info("Connecting to database: %s/%s", db.Server, db.Database)
	session, err := s.open(ctx, db)
	if err != nil {
		xlog.Error("%v", err)
		return technicalFailure(&StageError{Stage: models.StateConnecting, Err: err})
	}
	xlog.Info("Connected successfully")

	// A panic below still closes the session once and becomes a technical
	// failure tagged with the stage that was running.
	stage := models.StateResolving
	closed := false
	defer func() {
		var panicErr error
		if r := recover(); r != nil {
			panicErr = fmt.Errorf("%v", r)
			xlog.Error("%v", panicErr)
		}
		if !closed {
			closed = true
			session.Close()
			xlog.Info("Database connection closed")
		}
		if panicErr != nil {
			outcome = technicalFailure(&StageError{Stage: stage, Err: panicErr})
		}
	}()

	outcome = s.extract(ctx, session, dl, &stage, xlog)

	closed = true
	session.Close()
	xlog.Info("Database connection closed")

	if outcome.Success {
		xlog.Success("SUCCESS: All workflows downloaded successfully")
	}
	return outcome
}

// extract runs the resolve and extract stages over an open session,
// recording the running stage in stage.
func (s *DownloadService) extract(ctx context.Context, session repository.Session, dl models.DownloadConfig, stage *models.State, xlog *models.ExtractionLog) *models.Outcome {
	ref := dl.Ref()

	*stage = models.StateResolving
	controllerID, err := s.resolver.Resolve(ctx, session, ref, xlog)
	if errors.Is(err, ErrControllerNotFound) {
		return &models.Outcome{
			Message:     fmt.Sprintf("AutomationController '%s' version %d not found", ref.Name, ref.Version),
			Status:      models.StatusNotFound,
			FailedStage: models.StateResolving,
		}
	}
	if err != nil {
		return technicalFailure(err)
	}

	*stage = models.StateExtracting
	result, err := s.extractor.Extract(ctx, session, controllerID, ref, dl.OutputPath, xlog)
	if errors.Is(err, ErrNoWorkflows) {
		return &models.Outcome{
			Message:     "No workflows found for this controller",
			Status:      models.StatusEmptyResult,
			FailedStage: models.StateExtracting,
		}
	}
	if err != nil {
		return technicalFailure(err)
	}

	return &models.Outcome{
		Success:       true,
		Message:       fmt.Sprintf("Successfully downloaded %d workflow(s)", result.WorkflowCount),
		WorkflowCount: result.WorkflowCount,
		OutputDir:     result.OutputDir,
		Status:        models.StatusSucceeded,
	}
}

func technicalFailure(err error) *models.Outcome {
	out := &models.Outcome{
		Message: "Error: " + err.Error(),
		Status:  models.StatusTechnicalFailure,
	}
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		out.FailedStage = stageErr.Stage
	}
	return out
}
