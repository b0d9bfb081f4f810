// Package api contains the HTTP handlers for the workflow downloader
package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"workflow-downloader/internal/logging"
	"workflow-downloader/internal/services"
)

// ServiceName and ServiceVersion are reported by the health endpoint.
const (
	ServiceName    = "workflow-downloader"
	ServiceVersion = "1.0.0"
)

// Handler contains HTTP handlers for the workflow downloader REST API
type Handler struct {
	downloads services.Downloader
	catalog   services.Catalog
	logger    *logging.Logger
}

// NewHandler creates a new Handler with required dependencies
func NewHandler(downloads services.Downloader, catalog services.Catalog, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handler{downloads: downloads, catalog: catalog, logger: logger}
}

// RegisterHandlers mounts the API routes on g.
func RegisterHandlers(g *echo.Group, h *Handler) {
	g.GET("/health", h.HandleHealth)
	g.POST("/download", h.HandleDownload)
	g.POST("/controllers", h.HandleControllers)
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
}

// HandleHealth returns basic health status (always returns 200 OK)
// (GET /api/health)
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthStatus{
		Status:    "ok",
		Message:   "Server is running",
		Timestamp: time.Now(),
		Service:   ServiceName,
		Version:   ServiceVersion,
	})
}

// Failure is the body returned for rejected or failed requests.
type Failure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeFailure(c echo.Context, status int, message string) error {
	return c.JSON(status, Failure{Success: false, Message: message})
}
