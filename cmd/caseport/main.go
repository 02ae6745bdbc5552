package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"caseport"
	fiberadapter "caseport/adapters/fiber"
	pgxadapter "caseport/adapters/pgx"
	s3adapter "caseport/adapters/s3"
	"caseport/pkg/config"
	"caseport/pkg/logger"
	"caseport/pkg/metrics"
)

func main() {
	configPath := flag.String("config", "caseport.yaml", "path to the YAML config file")
	flag.Parse()

	log := logger.SetupDefault(os.Stdout)

	if err := run(*configPath, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, log *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}

	blobs, err := s3adapter.NewFromConfig(ctx, s3adapter.Config{
		Bucket:         cfg.Storage.Bucket,
		Region:         cfg.Storage.Region,
		Endpoint:       cfg.Storage.Endpoint,
		KeyPrefix:      cfg.Storage.KeyPrefix,
		ForcePathStyle: cfg.Storage.ForcePathStyle,
	})
	if err != nil {
		return err
	}

	db := pgxadapter.New(pool)
	provider := &caseport.ProviderSet{
		Credentials: db,
		Roles:       db,
		Records:     db,
		Blobs:       blobs,
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	app := fiber.New()
	app.Use(fiberlogger.New())
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(registry)))

	appConfig := caseport.Config{
		Secret:       cfg.Auth.Secret,
		Provider:     provider,
		HTTP:         fiberadapter.New(app).WithMetrics(collector),
		RoleCacheTTL: cfg.Auth.RoleCacheTTL,
		BasePath:     cfg.Server.BasePath,
		Logger:       log,
	}
	if cfg.Auth.SessionTTL > 0 {
		appConfig.SessionConfig = &caseport.SessionConfig{MaxAge: cfg.Auth.SessionTTL}
	}
	if cfg.Upload.MaxSizeBytes > 0 {
		uploadConfig := caseport.DefaultUploadConfig()
		uploadConfig.MaxSize = cfg.Upload.MaxSizeBytes
		appConfig.UploadConfig = &uploadConfig
	}

	if _, err := caseport.New(appConfig); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.Server.Addr)
	}()

	log.Info("server started", "addr", cfg.Server.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
