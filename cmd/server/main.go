package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/Maxx-Protein/compliance-companion/internal/cache"
	"github.com/Maxx-Protein/compliance-companion/internal/config"
	"github.com/Maxx-Protein/compliance-companion/internal/handler"
	"github.com/Maxx-Protein/compliance-companion/internal/logger"
	"github.com/Maxx-Protein/compliance-companion/internal/metrics"
	"github.com/Maxx-Protein/compliance-companion/internal/port"
	"github.com/Maxx-Protein/compliance-companion/internal/repository/postgres"
	"github.com/Maxx-Protein/compliance-companion/internal/router"
	"github.com/Maxx-Protein/compliance-companion/internal/service"
	s3storage "github.com/Maxx-Protein/compliance-companion/internal/storage/s3"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Setup(cfg.Log); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	invoiceRepo := postgres.NewInvoiceRepo(db)
	filingRepo := postgres.NewFilingRepo(db)
	profileRepo := postgres.NewSellerProfileRepo(db)
	productRepo := postgres.NewProductRepo(db)

	checks := map[string]handler.ReadinessCheck{
		"database": func(ctx context.Context) error { return postgres.Ping(ctx, db) },
	}

	// Summary cache
	reportCache := cache.NewNoopReportCache()
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to initialize redis client: %w", err)
		}
		defer rdb.Close()
		reportCache = cache.NewRedisReportCache(rdb, cfg.Redis.KeyPrefix)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().Str("addr", cfg.Redis.Addr).Msg("summary cache enabled")
	}

	// Report archive storage
	var archive port.ObjectStorage
	if cfg.S3.Enabled() {
		archive, err = s3storage.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("report archive enabled")
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	loc := cfg.Report.Location()

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWT)
	calcSvc := service.NewCalculatorService(m)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, profileRepo, productRepo, m, loc)
	filingSvc := service.NewFilingService(filingRepo, loc)
	summarySvc := service.NewSummaryService(invoiceRepo, filingRepo, reportCache, cfg.Report.CacheTTL, m)
	exportSvc := service.NewExportService(summarySvc, archive, cfg.S3.Bucket, cfg.S3.PresignExpiry)
	profileSvc := service.NewProfileService(profileRepo)
	productSvc := service.NewProductService(productRepo)

	// Setup router
	r := router.Setup(authSvc, router.Handlers{
		Health:     handler.NewHealthHandler(checks),
		Calculator: handler.NewCalculatorHandler(calcSvc),
		Invoice:    handler.NewInvoiceHandler(invoiceSvc),
		Filing:     handler.NewFilingHandler(filingSvc),
		Report:     handler.NewReportHandler(summarySvc, exportSvc, loc),
		Profile:    handler.NewProfileHandler(profileSvc),
		Product:    handler.NewProductHandler(productSvc),
	}, router.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Metrics:        m,
		Gatherer:       prometheus.DefaultGatherer,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
