package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/FACorreiaa/statement-ingest/internal/domain/categorization"
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/dates"
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/handler"
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/repository"
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/service"
	"github.com/FACorreiaa/statement-ingest/pkg/config"
	"github.com/FACorreiaa/statement-ingest/pkg/cron"
	"github.com/FACorreiaa/statement-ingest/pkg/db"
	"github.com/FACorreiaa/statement-ingest/pkg/storage"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config   *config.Config
	DB       *db.DB
	Logger   *slog.Logger
	Registry *prometheus.Registry

	// Repositories
	ExpenseRepo repository.ExpenseRepository

	// Services
	StatementService *service.StatementService
	FileStorage      storage.Storage
	Scheduler        *cron.Scheduler

	// Handlers
	StatementHandler *handler.StatementHandler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	deps.initRepositories()

	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}
	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (d *Dependencies) initRepositories() {
	d.ExpenseRepo = repository.NewPostgresExpenseRepository(d.DB.Pool)
	d.Logger.Info("repositories initialized")
}

// initServices wires the statement service with its optional collaborators.
func (d *Dependencies) initServices() error {
	policy, err := dates.ParseYearPolicy(d.Config.Statement.YearPolicy)
	if err != nil {
		return err
	}

	d.StatementService = service.NewStatementService(d.ExpenseRepo, d.Logger).
		WithResolver(dates.NewResolver(dates.WithYearPolicy(policy)))

	if d.Config.Observability.MetricsEnabled {
		d.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		d.StatementService.WithMetrics(service.NewMetrics(d.Registry))
	}

	if d.Config.Statement.Categorize {
		d.StatementService.WithCategorizer(categorization.NewCategorizer(nil))
	}

	if d.Config.Archive.Enabled {
		fileStorage, err := storage.New(context.Background(), &storage.Config{
			Type:               storage.StorageType(d.Config.Archive.StorageType),
			LocalPath:          d.Config.Archive.LocalPath,
			GCSBucket:          d.Config.Archive.GCSBucket,
			GCSCredentialsFile: d.Config.Archive.GCSCredentialsFile,
		})
		if err != nil {
			return fmt.Errorf("failed to init file storage: %w", err)
		}
		d.FileStorage = fileStorage
		d.StatementService.WithArchive(fileStorage)
		d.Scheduler = cron.NewScheduler(fileStorage, d.Config.Archive.RetentionDays, d.Logger).
			WithSchedule(d.Config.Archive.SweepSchedule)
	}

	d.Logger.Info("services initialized",
		slog.String("year_policy", policy.String()),
		slog.Bool("categorize", d.Config.Statement.Categorize),
		slog.Bool("archive", d.Config.Archive.Enabled))
	return nil
}

func (d *Dependencies) initHandlers() {
	d.StatementHandler = handler.NewStatementHandler(d.StatementService, d.Logger).
		WithMaxUploadBytes(d.Config.Statement.MaxUploadBytes)
	d.Logger.Info("handlers initialized")
}

// Router builds the HTTP surface.
func (d *Dependencies) Router() http.Handler {
	cfg := handler.RouterConfig{
		JWTSecret:          []byte(d.Config.Auth.JWTSecret),
		RateLimitPerSecond: d.Config.Server.RateLimitPerSecond,
		RateLimitBurst:     d.Config.Server.RateLimitBurst,
		AllowedOrigins:     d.Config.Server.CORSAllowedOrigins,
	}
	if d.Config.Observability.MetricsEnabled {
		cfg.Metrics = promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})
	}
	return handler.Router(d.StatementHandler, cfg, d.Logger)
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.Scheduler != nil {
		<-d.Scheduler.Stop().Done()
	}
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
