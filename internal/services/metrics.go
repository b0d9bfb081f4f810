package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"workflow-downloader/pkg/models"
)

const meterName = "workflow-downloader/services"

type downloadMetrics struct {
	downloads    metric.Int64Counter
	filesWritten metric.Int64Counter
	duration     metric.Float64Histogram
}

// newDownloadMetrics registers instruments on mp, or on the global meter
// provider when mp is nil. An instrument that fails to register is reported
// through otel.Handle and skipped.
func newDownloadMetrics(mp metric.MeterProvider) *downloadMetrics {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(meterName)
	m := &downloadMetrics{}
	var err error
	if m.downloads, err = meter.Int64Counter("workflow_downloader.downloads",
		metric.WithDescription("Completed download requests by terminal status")); err != nil {
		otel.Handle(err)
	}
	if m.filesWritten, err = meter.Int64Counter("workflow_downloader.files_written",
		metric.WithDescription("Workflow files written to disk")); err != nil {
		otel.Handle(err)
	}
	if m.duration, err = meter.Float64Histogram("workflow_downloader.download.duration",
		metric.WithDescription("Download duration"), metric.WithUnit("s")); err != nil {
		otel.Handle(err)
	}
	return m
}

func (m *downloadMetrics) record(ctx context.Context, out *models.Outcome, seconds float64) {
	attrs := metric.WithAttributes(attribute.String("status", string(out.Status)))
	if m.downloads != nil {
		m.downloads.Add(ctx, 1, attrs)
	}
	if m.duration != nil {
		m.duration.Record(ctx, seconds, attrs)
	}
	if m.filesWritten != nil && out.WorkflowCount > 0 {
		m.filesWritten.Add(ctx, int64(out.WorkflowCount))
	}
}
