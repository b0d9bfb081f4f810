package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"workflow-downloader/internal/services"
	"workflow-downloader/pkg/models"
)

// Defaults supplies the database and output root used by tool calls, which
// do not carry connection details of their own.
type Defaults struct {
	DB         models.DBConfig
	OutputRoot string
}

type Server struct {
	mcpServer *server.MCPServer
	downloads services.Downloader
	catalog   services.Catalog
	defaults  Defaults
}

func NewServer(downloads services.Downloader, catalog services.Catalog, defaults Defaults) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"Workflow Downloader",
			"1.0.0",
			server.WithToolCapabilities(true),
		),
		downloads: downloads,
		catalog:   catalog,
		defaults:  defaults,
	}

	s.registerTools()
	return s
}

func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_controllers",
			mcp.WithDescription("List the automation controllers stored in the configured database"),
		),
		s.handleListControllers,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"download_workflows",
			mcp.WithDescription("Download every workflow of an automation controller to JSON files"),
			mcp.WithString("name", mcp.Required(), mcp.Description("The controller name")),
			mcp.WithNumber("version", mcp.Required(), mcp.Description("The controller version")),
			mcp.WithString("output_path", mcp.Description("Root directory for the export; defaults to the configured output root")),
		),
		s.handleDownloadWorkflows,
	)
}

func (s *Server) handleListControllers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	controllers, err := s.catalog.List(ctx, s.defaults.DB)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error fetching controllers: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(controllers)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleDownloadWorkflows(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	name, ok := args["name"].(string)
	if !ok || name == "" {
		return mcp.NewToolResultError("Missing required parameter: name"), nil
	}

	version, ok := args["version"].(float64)
	if !ok || version != float64(int(version)) {
		return mcp.NewToolResultError("Missing required parameter: version"), nil
	}

	outputPath, _ := args["output_path"].(string)
	if outputPath == "" {
		outputPath = s.defaults.OutputRoot
	}

	db := s.defaults.DB
	req := models.DownloadRequest{
		DB: &db,
		Download: &models.DownloadConfig{
			ControllerName:    name,
			ControllerVersion: models.FlexibleInt(version),
			OutputPath:        outputPath,
		},
	}
	if err := req.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	outcome := s.downloads.Download(ctx, req)
	jsonBytes, _ := json.Marshal(outcome)
	if !outcome.Success {
		return mcp.NewToolResultError(string(jsonBytes)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func MountHTTPHandlers(mux *http.ServeMux, mcpServer *server.MCPServer) {
	// Use SSE server for /mcp/sse and /mcp/message endpoints
	sseServer := server.NewSSEServer(mcpServer, server.WithStaticBasePath("/mcp"))

	mux.HandleFunc("/mcp/sse", sseServer.ServeHTTP)
	mux.HandleFunc("/mcp/message", sseServer.ServeHTTP)
}
