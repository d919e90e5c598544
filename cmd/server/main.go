package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"propbill.app/server/common/id"
	"propbill.app/server/common/llm"
	"propbill.app/server/common/logger"
	"propbill.app/server/common/otel"
	"propbill.app/server/core/config"
	"propbill.app/server/core/db"
	"propbill.app/server/internal/ai"
	"propbill.app/server/internal/blob"
	"propbill.app/server/internal/extract"
	"propbill.app/server/internal/gmail"
	"propbill.app/server/internal/http/middleware"
	httprouter "propbill.app/server/internal/http/router"
	"propbill.app/server/internal/service"
	"propbill.app/server/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		// Can't use slog yet — OTel failed before logger setup
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "propbill starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	if err := database.Migrate(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to run migrations", "error", err)
		os.Exit(1)
	}

	blobs, err := blob.New(ctx, cfg.Blob)
	if err != nil {
		slog.ErrorContext(ctx, "failed to initialize blob store", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "blob store ready", "backend", cfg.Blob.Backend)

	fields := ai.NewDisabledFieldExtractor()
	if cfg.ExtractorLLM.Enabled() {
		llmClient, err := llm.New(llm.Config{
			Provider: cfg.ExtractorLLM.Provider,
			APIKey:   cfg.ExtractorLLM.APIKey,
			BaseURL:  cfg.ExtractorLLM.BaseURL,
			Model:    cfg.ExtractorLLM.Model,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to initialize llm client", "error", err)
			os.Exit(1)
		}
		fields = ai.NewFieldExtractor(llmClient, cfg.ExtractorLLM.MaxTokens)
		slog.InfoContext(ctx, "field extractor ready",
			"provider", cfg.ExtractorLLM.Provider, "model", cfg.ExtractorLLM.Model)
	} else {
		slog.WarnContext(ctx, "no extractor llm configured, automatic derivation disabled")
	}

	stores := store.NewStores(database.Pool())

	services := service.NewServices(
		stores,
		service.NewTxRunner(database),
		blobs,
		extract.New(),
		fields,
		gmail.NewClientFactory(cfg.Google),
		cfg.Google,
		cfg.JWT,
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		DashboardURL: cfg.DashboardURL,
		IsProduction: cfg.IsProduction(),
	})

	return router
}

const banner = `
██████╗ ██████╗  ██████╗ ██████╗ ██████╗ ██╗██╗     ██╗
██╔══██╗██╔══██╗██╔═══██╗██╔══██╗██╔══██╗██║██║     ██║
██████╔╝██████╔╝██║   ██║██████╔╝██████╔╝██║██║     ██║
██╔═══╝ ██╔══██╗██║   ██║██╔═══╝ ██╔══██╗██║██║     ██║
██║     ██║  ██║╚██████╔╝██║     ██████╔╝██║███████╗███████╗
╚═╝     ╚═╝  ╚═╝ ╚═════╝ ╚═╝     ╚═════╝ ╚═╝╚══════╝╚══════╝
`
