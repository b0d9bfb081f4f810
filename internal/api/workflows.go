package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"workflow-downloader/internal/auth"
	"workflow-downloader/pkg/models"
)

// HandleDownload extracts a controller's workflows to disk. Domain and
// technical failures are reported in the body with 200 OK; only malformed
// or incomplete requests get 400.
// (POST /api/download)
func (h *Handler) HandleDownload(c echo.Context) error {
	var req models.DownloadRequest
	if err := c.Bind(&req); err != nil {
		return writeFailure(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if err := req.Validate(); err != nil {
		return writeFailure(c, http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	h.logger.Info("download requested",
		"subject", auth.Subject(ctx),
		"controller", req.Download.ControllerName,
		"version", int(req.Download.ControllerVersion),
		"output_path", req.Download.OutputPath,
	)

	return c.JSON(http.StatusOK, h.downloads.Download(ctx, req))
}

// ControllersRequest is the body of a controller listing request.
type ControllersRequest struct {
	DB *models.DBConfig `json:"dbConfig"`
}

// ControllersResponse lists the controllers available for download.
type ControllersResponse struct {
	Success     bool                   `json:"success"`
	Controllers []models.ControllerRef `json:"controllers"`
}

// HandleControllers lists the distinct controller name/version pairs.
// (POST /api/controllers)
func (h *Handler) HandleControllers(c echo.Context) error {
	var req ControllersRequest
	if err := c.Bind(&req); err != nil {
		return writeFailure(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if req.DB == nil {
		return writeFailure(c, http.StatusBadRequest, "Missing required field: dbConfig")
	}
	if err := req.DB.Validate(); err != nil {
		return writeFailure(c, http.StatusBadRequest, err.Error())
	}

	controllers, err := h.catalog.List(c.Request().Context(), *req.DB)
	if err != nil {
		h.logger.Error("failed to list controllers", "server", req.DB.Server, "database", req.DB.Database, "error", err)
		return writeFailure(c, http.StatusInternalServerError, "Error fetching controllers: "+err.Error())
	}

	return c.JSON(http.StatusOK, ControllersResponse{Success: true, Controllers: controllers})
}
