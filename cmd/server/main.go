package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	eventapp "github.com/ngochangjelly/rental-management-platform-sub000/internal/application/event"
	investorapp "github.com/ngochangjelly/rental-management-platform-sub000/internal/application/investor"
	ledgerapp "github.com/ngochangjelly/rental-management-platform-sub000/internal/application/ledger"
	settlementapp "github.com/ngochangjelly/rental-management-platform-sub000/internal/application/settlement"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/infrastructure/auth"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/infrastructure/cache"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/infrastructure/config"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/infrastructure/event"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/infrastructure/logger"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/infrastructure/persistence"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/infrastructure/printing"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/infrastructure/storage"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/infrastructure/telemetry"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/interfaces/http/handler"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/interfaces/http/middleware"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const version = "1.0.0"

//	@title			Property Ledger API
//	@version		1.0
//	@description	Monthly property ledgers, investor rosters and investor settlements
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting property ledger",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer shutdownWithin(log, "tracer provider", tracerProvider.Shutdown)

	db, err := openDatabase(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	// Repositories
	recordRepo := persistence.NewGormFinancialRecordRepository(db.DB)
	investorRepo := persistence.NewGormInvestorRepository(db.DB)

	// Domain events are logged as an activity trail
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(eventapp.NewActivityLogHandler(log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() { _ = eventBus.Stop(context.Background()) }()

	objectStorage, err := newObjectStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	chrome, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
		ExecPath:       cfg.Export.ChromePath,
		DefaultTimeout: cfg.Export.Timeout,
		NoSandbox:      true,
		Logger:         log,
	})
	if err != nil {
		log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
	}
	defer func() { _ = chrome.Close() }()

	statementRenderer, err := printing.NewStatementRenderer(chrome, printing.ParsePaperSize(cfg.Export.PaperSize), log)
	if err != nil {
		log.Fatal("Failed to initialize statement renderer", zap.Error(err))
	}

	// Application services
	reportService := ledgerapp.NewFinancialReportService(recordRepo, log)
	reportService.SetEventPublisher(eventBus)
	reportService.SetRosterSource(investorRepo)

	rosterService := investorapp.NewRosterService(investorRepo, log)
	rosterService.SetEventPublisher(eventBus)

	attachmentService := ledgerapp.NewAttachmentService(objectStorage)
	attachmentConfig := ledgerapp.DefaultAttachmentServiceConfig()
	if cfg.Storage.PresignExpiration > 0 {
		attachmentConfig.UploadURLExpiry = cfg.Storage.PresignExpiration
		attachmentConfig.DownloadURLExpiry = cfg.Storage.PresignExpiration
	}
	attachmentService.SetConfig(attachmentConfig)

	settlementService := settlementapp.NewService(reportService, investorRepo, statementRenderer, objectStorage,
		settlementapp.ServiceConfig{
			Currency:          cfg.Export.Currency,
			DownloadURLExpiry: cfg.Storage.PresignExpiration,
		}, log)

	engineConfig := router.EngineConfig{
		HTTP:    cfg.HTTP,
		Tracing: middleware.TracingConfig{ServiceName: cfg.Telemetry.ServiceName, Enabled: cfg.Telemetry.Enabled},
		Logger:  log,
	}

	if cfg.JWT.Enabled {
		engineConfig.TokenValidator = auth.NewJWTService(cfg.JWT)
	} else {
		log.Warn("JWT authentication disabled; the API is open")
	}

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		go limiter.Run(ctx)
		engineConfig.RateLimiter = limiter
	}

	if cfg.Idempotency.Enabled {
		store, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore(ctx)
		if err != nil {
			log.Fatal("Failed to initialize idempotency store", zap.Error(err))
		}
		defer func() { _ = store.Close() }()
		engineConfig.IdempotencyStore = store
		engineConfig.IdempotencyTTL = cfg.Idempotency.TTL
	}

	engine := router.NewEngine(engineConfig, router.Handlers{
		Reports:     handler.NewFinancialReportHandler(reportService),
		Settlements: handler.NewSettlementHandler(settlementService),
		Attachments: handler.NewAttachmentHandler(attachmentService),
		Investors:   handler.NewInvestorHandler(rosterService),
		Health:      handler.NewHealthHandler(db, version),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("Server exited gracefully")
}

// openDatabase connects and, for sqlite, creates the schema.
// Postgres schemas are managed by cmd/migrate.
func openDatabase(cfg *config.Config, log *zap.Logger) (*persistence.Database, error) {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		return nil, err
	}

	if cfg.Telemetry.DBTraceEnabled {
		tracingConfig := telemetry.DefaultDBTracingConfig()
		tracingConfig.Enabled = true
		if cfg.Database.Driver == config.DriverSQLite {
			tracingConfig.DBSystem = "sqlite"
		}
		if err := telemetry.NewDBTracingPlugin(tracingConfig, log).Register(db.DB); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	if cfg.Database.Driver == config.DriverSQLite {
		if err := db.AutoMigrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("SQLite schema ready", zap.String("path", cfg.Database.Path))
	}
	log.Info("Database connected successfully")
	return db, nil
}

// objectStore is what the services need from object storage
type objectStore interface {
	ledgerapp.ObjectStorageService
	settlementapp.StatementStore
}

func newObjectStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (objectStore, error) {
	if !cfg.Storage.Enabled {
		log.Warn("Object storage disabled, keeping uploads in memory")
		return storage.NewMemoryObjectStorage(""), nil
	}
	s3, err := storage.NewS3ObjectStorage(&cfg.Storage)
	if err != nil {
		return nil, err
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	log.Info("Using S3 object storage",
		zap.String("endpoint", cfg.Storage.Endpoint),
		zap.String("bucket", s3.Bucket()),
	)
	return s3, nil
}

func shutdownWithin(log *zap.Logger, name string, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Error("Failed to shut down "+name, zap.Error(err))
	}
}
