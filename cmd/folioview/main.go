package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/folioview/folioview/internal/application"
	"github.com/folioview/folioview/internal/domain"
	"github.com/folioview/folioview/internal/infrastructure/config"
	"github.com/folioview/folioview/internal/infrastructure/marketdata/twelvedata"
	"github.com/folioview/folioview/internal/infrastructure/persistence/memory"
	"github.com/folioview/folioview/internal/infrastructure/persistence/sqldb"
	httpHandler "github.com/folioview/folioview/internal/interfaces/http"
	"github.com/folioview/folioview/internal/listview"
	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "github.com/sijms/go-ora/v2"
)

// setupLogger configures and returns a structured logger with source information
func setupLogger(level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     lvl,
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, opts))
	slog.SetDefault(logger)
	return logger
}

// initializeRepository selects the asset store and, for SQL backends,
// runs migrations.
func initializeRepository(cfg *config.Config) (domain.AssetRepository, error) {
	var db *sql.DB
	var dialect sqldb.Dialect
	var err error

	switch cfg.DBDriver {
	case config.DBDriverMemory:
		return memory.NewAssetRepository(), nil
	case config.DBDriverPostgres:
		db, err = sql.Open("pgx", cfg.DBDSN)
		dialect = &sqldb.PostgresDialect{}
	case config.DBDriverOracle:
		db, err = sql.Open("oracle", cfg.DBDSN)
		dialect = &sqldb.OracleDialect{}
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.DBDriver)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	wrapper := sqldb.New(db, dialect)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := wrapper.Dialect.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return sqldb.NewRepository(wrapper), nil
}

// buildServer creates and configures the HTTP server with all routes and handlers
func buildServer(cfg *config.Config, feedService *application.FeedService) *http.Server {
	router := gin.Default()
	handler := httpHandler.NewHandler(feedService)
	httpHandler.SetupRoutes(router, handler)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return server
}

func windowConfig(cfg *config.Config) listview.Config {
	return listview.Config{
		InitialRenderCount: cfg.FeedInitialRenderCount,
		RenderBatchSize:    cfg.FeedRenderBatchSize,
		LookAhead:          cfg.FeedLookAhead,
		ItemHeight:         cfg.FeedItemHeight,
	}
}

// serverHooks log the collaborator hand-offs. In the server deployment
// there is no card UI to open; the interesting part is that the asset
// reference crossed the boundary.
func serverHooks() application.CollaboratorHooks {
	return application.CollaboratorHooks{
		OpenInsights: func(asset domain.Holding) {
			slog.Info("Insights requested", "asset_id", asset.Base().ID)
		},
		Manage: func(asset domain.Holding) {
			slog.Info("Manage requested", "asset_id", asset.Base().ID)
		},
	}
}

// App wraps the application components for easier testing
type App struct {
	Server        *http.Server
	PriceUpdater  *application.PriceUpdater
	CancelContext context.CancelFunc
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down application...")

	a.PriceUpdater.Stop()
	a.CancelContext()

	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	return nil
}

// run contains the main application logic without os.Exit calls
func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	setupLogger(cfg.LogLevel)

	marketDataClient := twelvedata.NewClient(cfg.TwelveDataAPIKey)

	repo, err := initializeRepository(cfg)
	if err != nil {
		return fmt.Errorf("repository initialization failed: %w", err)
	}
	slog.Info("Using asset store", "driver", cfg.DBDriver)

	feedService := application.NewFeedService(repo, marketDataClient, windowConfig(cfg), serverHooks())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := feedService.Reload(ctx); err != nil {
		return fmt.Errorf("initial feed load failed: %w", err)
	}

	priceUpdater := application.NewPriceUpdater(feedService, cfg.PriceRefreshInterval)
	go priceUpdater.Start(ctx)

	server := buildServer(cfg, feedService)

	app := &App{
		Server:        server,
		PriceUpdater:  priceUpdater,
		CancelContext: cancel,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "host", cfg.ServerHost, "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
		slog.Info("Received shutdown signal")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := app.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	slog.Info("Server exited gracefully")
	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("Application error", "error", err)
		os.Exit(1)
	}
}
