package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	exportapp "github.com/shopfront/exporter/internal/application/export"
	"github.com/shopfront/exporter/internal/domain/export"
	"github.com/shopfront/exporter/internal/infrastructure/artifact"
	"github.com/shopfront/exporter/internal/infrastructure/capture"
	"github.com/shopfront/exporter/internal/infrastructure/config"
	"github.com/shopfront/exporter/internal/infrastructure/invoice"
	"github.com/shopfront/exporter/internal/infrastructure/logger"
	"github.com/shopfront/exporter/internal/infrastructure/media"
	"github.com/shopfront/exporter/internal/infrastructure/ordersapi"
	"github.com/shopfront/exporter/internal/infrastructure/persistence"
	"github.com/shopfront/exporter/internal/interfaces/http/handler"
	"github.com/shopfront/exporter/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer log.Sync() //nolint:errcheck

	log.Info("starting exporter",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port))

	// Export job tracking
	db, err := persistence.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	jobs := persistence.NewGormJobRepository(db)
	if err := jobs.Migrate(); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	// Invoice rendering
	resolver := media.NewResolver(media.Config{
		APIBaseURL:        cfg.Media.APIBaseURL,
		BackendOrigin:     cfg.Media.BackendOrigin,
		ObjectStorageHost: cfg.Media.ObjectStorageHost,
		PlaceholderPath:   cfg.Media.PlaceholderPath,
	})
	renderer := invoice.NewRenderer(resolver, invoice.Config{
		ShippingFeeAsFree: cfg.PDF.ShippingFeeAsFree,
	})

	orders := ordersapi.NewClient(ordersapi.Config{
		BaseURL: cfg.Orders.BaseURL,
		Token:   cfg.Orders.Token,
		Timeout: cfg.Orders.Timeout,
	}, log.Named("orders"))

	// Rasterization
	wait := capture.WaitStrategyFor(cfg.Capture.WaitStrategy, cfg.Capture.WaitDelay)
	capturer, err := capture.NewChromedpCapturer(&capture.ChromedpConfig{
		DefaultTimeout: cfg.Capture.Timeout,
		RemoteURL:      cfg.Capture.RemoteURL,
		NoSandbox:      cfg.Capture.NoSandbox,
		Scale:          cfg.Capture.Scale,
		Wait:           wait,
		Logger:         log.Named("capture"),
	})
	if err != nil {
		log.Fatal("failed to initialize capturer", zap.Error(err))
	}
	defer capturer.Close() //nolint:errcheck

	// Assembly and storage
	assembler := artifact.NewPDFAssembler(artifact.Strategy(cfg.PDF.Strategy), log.Named("assembler"))
	storage, err := newStorage(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize artifact storage", zap.Error(err))
	}

	margin, err := export.ParseMargin(cfg.PDF.Margin)
	if err != nil {
		log.Fatal("invalid pdf.margin", zap.Error(err))
	}
	service := exportapp.NewService(orders, renderer, capturer, assembler, storage, jobs,
		exportapp.Config{
			PaperSize:   export.PaperSize(cfg.PDF.PaperSize),
			Orientation: export.Orientation(cfg.PDF.Orientation),
			MarginMM:    margin,
		}, log.Named("export"))

	exportHandler := handler.NewExportHandler(service)
	engine := router.New(router.Config{
		Env:            cfg.App.Env,
		TrustedProxies: cfg.HTTP.TrustedProxies,
	}, log, exportHandler)
	engine.GET("/health", exportHandler.Health)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()
	log.Info("server listening", zap.String("addr", srv.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}

// newStorage builds the configured artifact storage backend
func newStorage(cfg *config.Config, log *zap.Logger) (artifact.Storage, error) {
	if cfg.Storage.Backend == "s3" {
		s3Storage, err := artifact.NewS3Storage(&artifact.S3StorageConfig{
			Bucket:            cfg.Storage.Bucket,
			Endpoint:          cfg.Storage.Endpoint,
			Region:            cfg.Storage.Region,
			AccessKey:         cfg.Storage.AccessKey,
			SecretKey:         cfg.Storage.SecretKey,
			UseSSL:            cfg.Storage.UseSSL,
			UsePathStyle:      cfg.Storage.UsePathStyle,
			PresignExpiration: cfg.Storage.PresignExpiration,
			Logger:            log.Named("storage"),
		})
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s3Storage, nil
	}
	return artifact.NewFileSystemStorage(&artifact.FileSystemStorageConfig{
		BasePath: cfg.Storage.BasePath,
		BaseURL:  cfg.Storage.BaseURL,
		Logger:   log.Named("storage"),
	})
}
