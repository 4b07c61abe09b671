package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	printingapp "github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/application/printing"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/printing"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/shared/valueobject"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/infrastructure/auth"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/infrastructure/cache"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/infrastructure/config"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/infrastructure/logger"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/infrastructure/persistence"
	infra "github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/infrastructure/printing"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/infrastructure/storage"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/interfaces/http/handler"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/interfaces/http/middleware"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/interfaces/http/router"
)

const version = "1.0.0"

//	@title			FitRobit Print API
//	@version		1.0
//	@description	Composes club receipts, workout and nutrition programs and progress reports into PDFs

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
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

	log.Info("Starting print service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("storage", cfg.Storage.Driver),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	jobRepo := persistence.NewGormPrintJobRepository(db.DB)

	pdfStorage, err := newPDFStorage(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize PDF storage", zap.Error(err))
	}

	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).CreateStore()
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	brand, err := brandFromConfig(cfg.Printing)
	if err != nil {
		log.Fatal("Invalid brand configuration", zap.Error(err))
	}

	engine := infra.NewEngine(&infra.EngineConfig{
		DefaultBrand: brand,
		Logger:       logger.Named(log, "engine"),
	})
	defer func() {
		_ = engine.Close()
	}()

	serviceConfig := printingapp.DefaultServiceConfig()
	serviceConfig.DefaultPaperSize = printing.PaperSize(strings.ToUpper(cfg.Printing.DefaultPaperSize))
	serviceConfig.RenderTimeout = cfg.Printing.RenderTimeout
	serviceConfig.IdempotencyTTL = cfg.Printing.IdempotencyTTL

	printService := printingapp.NewPrintService(
		jobRepo, engine, pdfStorage, idempotencyStore, brand, serviceConfig,
		logger.Named(log, "print"),
	)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	r := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := r.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	r.Use(middleware.RequestID())
	r.Use(logger.Recovery(log))
	r.Use(logger.GinMiddleware(log))
	r.Use(middleware.Secure())
	r.Use(middleware.CORSWithConfig(corsConfig))
	r.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	var jwtService *auth.JWTService
	if cfg.JWT.Secret != "" {
		jwtService = auth.NewJWTService(cfg.JWT)
	} else {
		log.Warn("JWT secret not set, reading caller identity from X-Tenant-ID and X-User-ID headers")
	}
	authConfig := middleware.DefaultAuthConfig(jwtService)
	authConfig.Logger = log

	checks := map[string]handler.HealthCheck{
		"database": db.Ping,
	}
	if redisStore, ok := idempotencyStore.(*cache.RedisIdempotencyStore); ok {
		checks["redis"] = func(ctx context.Context) error {
			return redisStore.GetClient().Ping(ctx).Err()
		}
	}
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, checks)

	// Health endpoints stay outside the versioned API for load balancers
	r.GET("/health", systemHandler.Health)
	r.GET("/api/v1/health", systemHandler.Health)

	api := router.NewRouter(r, router.WithAPIVersion("v1"))
	printRoutes := handler.PrintRoutes(handler.NewPrintHandler(printService), middleware.Auth(authConfig))
	systemRoutes := handler.SystemRoutes(systemHandler)
	api.Register(printRoutes).Register(systemRoutes)
	api.Setup()

	for _, group := range []*router.DomainGroup{printRoutes, systemRoutes} {
		for _, route := range group.Routes() {
			log.Debug("Route registered",
				zap.String("method", route.Method),
				zap.String("path", api.BasePath()+route.Path),
			)
		}
	}

	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	defer stopCleanup()
	if cfg.Storage.RetentionDays > 0 {
		retention := time.Duration(cfg.Storage.RetentionDays) * 24 * time.Hour
		go runRetentionCleanup(cleanupCtx, printService, retention, time.Hour, logger.Named(log, "retention"))
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        r,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")
	stopCleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

// newPDFStorage opens the configured storage driver
func newPDFStorage(cfg *config.Config, log *zap.Logger) (infra.PDFStorage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverS3:
		s3Storage, err := storage.NewS3PDFStorage(&cfg.Storage,
			storage.WithLogger(logger.Named(log, "s3")),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		log.Info("Using S3 PDF storage", zap.String("bucket", s3Storage.GetBucket()))
		return s3Storage, nil
	default:
		fsStorage, err := infra.NewFileSystemStorage(&infra.FileSystemStorageConfig{
			BasePath:      cfg.Storage.BasePath,
			BaseURL:       cfg.Storage.BaseURL,
			RetentionDays: cfg.Storage.RetentionDays,
			Logger:        logger.Named(log, "storage"),
		})
		if err != nil {
			return nil, err
		}
		log.Info("Using filesystem PDF storage", zap.String("path", cfg.Storage.BasePath))
		return fsStorage, nil
	}
}

// brandFromConfig overlays the configured club identity on the stock brand
func brandFromConfig(cfg config.PrintingConfig) (*printing.Brand, error) {
	brand := printing.DefaultBrand()
	if cfg.BrandName != "" {
		brand.Name = cfg.BrandName
	}
	if cfg.Tagline != "" {
		brand.Tagline = cfg.Tagline
	}
	if len(cfg.ContactLines) > 0 {
		brand.ContactLines = cfg.ContactLines
	}
	if cfg.Currency != "" {
		brand.Currency = valueobject.Currency(strings.ToUpper(cfg.Currency))
	}
	if cfg.ClosingNote != "" {
		brand.ClosingNote = cfg.ClosingNote
	}
	brand.LetterheadPath = cfg.LetterheadPath
	if cfg.PrimaryColor != "" {
		primary, err := printing.ParseColor(cfg.PrimaryColor)
		if err != nil {
			return nil, fmt.Errorf("printing.primary_color: %w", err)
		}
		brand.Palette.Primary = primary
		brand.Palette.HighlightFill = primary.Tint(0.75)
	}
	if err := brand.Validate(); err != nil {
		return nil, err
	}
	return brand, nil
}

// runRetentionCleanup purges expired jobs and files until ctx is cancelled
func runRetentionCleanup(ctx context.Context, svc *printingapp.PrintService, retention, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			jobs, files, err := svc.CleanupExpired(ctx, retention)
			if err != nil {
				log.Warn("Retention cleanup failed", zap.Error(err))
				continue
			}
			if jobs > 0 || files > 0 {
				log.Info("Retention cleanup finished",
					zap.Int64("jobs", jobs),
					zap.Int("files", files),
				)
			}
		}
	}
}
