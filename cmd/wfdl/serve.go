package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"workflow-downloader/internal/api"
	"workflow-downloader/internal/auth"
	"workflow-downloader/internal/config"
	"workflow-downloader/internal/logging"
	"workflow-downloader/internal/mcp"
	"workflow-downloader/internal/repository"
	"workflow-downloader/internal/services"
	"workflow-downloader/internal/tls"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the download API",
	Long: `Serve the HTTP API: GET /api/health, POST /api/download and
POST /api/controllers, with the OpenAPI document at /openapi.yaml and
Swagger UI at /docs. When mcp.enable is set the same operations are
exposed as MCP tools under /mcp.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}
		return serve(cmd.Context(), cfg, logger)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func serve(ctx context.Context, cfg *config.Config, logger *logging.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger.Info("Starting workflow downloader", "config_file", cfg.File())

	downloads := services.NewDownloadService(repository.OpenPostgres, afero.NewOsFs(), logger)
	catalog := services.NewControllerCatalog(repository.OpenPostgres, logger)

	logger.Info("Service layer initialized")

	// Create Echo server
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(otelecho.Middleware(api.ServiceName))

	// Initialize authentication
	authz, err := auth.New(ctx, cfg.Auth.Issuer, cfg.Auth.ClientID, logger)
	if err != nil {
		logger.Error("failed to initialize auth", "error", err)
		return err
	}
	if !authz.Enabled() {
		logger.Warn("auth.issuer is empty; API requests are not authenticated")
	}

	// Mount REST API handlers
	apiGroup := e.Group("/api")
	apiGroup.Use(echo.WrapMiddleware(authz.RequireAuth))
	api.RegisterHandlers(apiGroup, api.NewHandler(downloads, catalog, logger))
	api.RegisterDocs(e)

	logger.Info("REST API handlers mounted")

	// Mount MCP protocol handlers
	if cfg.MCP.Enable {
		mcpServer := mcp.NewServer(downloads, catalog, mcp.Defaults{
			DB:         cfg.DB,
			OutputRoot: cfg.Download.OutputRoot,
		})
		mcpHandlers := http.NewServeMux()
		mcp.MountHTTPHandlers(mcpHandlers, mcpServer.GetMCPServer())
		e.Any("/mcp/*", echo.WrapHandler(mcpHandlers), echo.WrapMiddleware(authz.RequireAuth))

		logger.Info("MCP protocol handlers mounted")
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      e,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	if cfg.TLS.Enable {
		if cfg.TLS.CertFile == "" || cfg.TLS.KeyFile == "" {
			return errors.New("tls.enable is set but tls.cert_file or tls.key_file is empty")
		}
		generated, err := tls.EnsureCertificate(afero.NewOsFs(), cfg.TLS.CertFile, cfg.TLS.KeyFile, cfg.TLS.Hostnames)
		if err != nil {
			logger.Error("failed to prepare TLS certificate", "error", err)
			return err
		}
		if generated {
			logger.Warn("generated self-signed certificate", "cert_file", cfg.TLS.CertFile, "hostnames", cfg.TLS.Hostnames)
		}
	}

	// Graceful shutdown handling
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", cfg.Server.Addr, "tls", cfg.TLS.Enable)
		if cfg.TLS.Enable {
			serverErrors <- server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
			return
		}
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for shutdown signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			return err
		}
	case sig := <-shutdown:
		logger.Info("Shutdown signal received", "signal", sig.String())

		// Create shutdown context with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			if err := server.Close(); err != nil {
				logger.Error("Server close error", "error", err)
			}
		}

		logger.Info("Server stopped gracefully")
	}
	return nil
}
