//	@title			Filedrop API
//	@version		1.0
//	@description	Anonymous file hand-off: upload a file, share its key, download it by key.
//
//	@host		localhost:5000
//	@BasePath	/

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/op/go-logging"

	"github.com/filedrop/service/internal/config"
	"github.com/filedrop/service/internal/db"
	"github.com/filedrop/service/internal/file"
	"github.com/filedrop/service/internal/index"
	"github.com/filedrop/service/internal/logger"
	"github.com/filedrop/service/internal/server"
	"github.com/filedrop/service/internal/storage"

	_ "github.com/filedrop/service/docs/swagger"
)

var log *logging.Logger

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	var logFile string
	log, logFile, err = logger.Init(cfg.LogDir, logger.ParseLevel(cfg.LogLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	if logFile != "" {
		fmt.Printf("logging to %s\n", logFile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("object storage init failed: %v", err)
	}

	idx, closeIndex, err := openIndex(ctx, cfg)
	if err != nil {
		log.Fatalf("index init failed: %v", err)
	}
	defer closeIndex()

	// Wire dependencies: storage + index → service → handler
	fileSvc := file.NewService(store, idx, file.Options{
		MaxUploadBytes: cfg.MaxUploadBytes,
		Retention:      cfg.Retention,
		EnforceExpiry:  cfg.EnforceExpiry,
		PrefixResolve:  cfg.ResolveMode == config.ResolvePrefix,
	})
	fileHandler := file.NewHandler(fileSvc, cfg.PublicBaseURL)

	if fileSvc.NeedsRebuild() {
		n, err := fileSvc.Rebuild(ctx)
		if err != nil {
			log.Fatalf("index rebuild failed: %v", err)
		}
		log.Infof("indexed %d stored files", n)
	}
	if cfg.EnforceExpiry {
		go fileSvc.RunSweeper(ctx, cfg.SweepInterval)
		log.Infof("expiry enforced, sweeping every %s", cfg.SweepInterval)
	}

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: server.NewRouter(fileHandler, server.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			PublicDir:      cfg.PublicDir,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Infof("server listening on :%s (env=%s, storage=%s, index=%s, resolve=%s)",
			cfg.Port, cfg.AppEnv, cfg.StorageBackend, cfg.IndexBackend, cfg.ResolveMode)
		if !cfg.IsProduction() {
			log.Infof("swagger UI at http://localhost:%s/swagger/", cfg.Port)
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("forced shutdown: %v", err)
		return
	}

	log.Info("server stopped")
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.Backend, error) {
	switch cfg.StorageBackend {
	case config.StorageMinio:
		return storage.NewMinioStorage(ctx,
			cfg.StorageEndpoint,
			cfg.StorageAccessKey,
			cfg.StorageSecretKey,
			cfg.StorageBucket,
			cfg.StorageRegion,
			cfg.StorageUseSSL,
		)
	case config.StorageS3:
		return storage.NewS3Storage(ctx, storage.S3Config{
			BucketName: cfg.StorageBucket,
			Region:     cfg.StorageRegion,
			Endpoint:   cfg.StorageEndpoint,
			AccessKey:  cfg.StorageAccessKey,
			SecretKey:  cfg.StorageSecretKey,
			UseSSL:     cfg.StorageUseSSL,
		})
	default:
		return storage.NewLocal(cfg.StorageDir)
	}
}

func openIndex(ctx context.Context, cfg *config.Config) (index.Index, func(), error) {
	switch cfg.IndexBackend {
	case config.IndexPostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return index.NewPostgres(pool), pool.Close, nil
	case config.IndexRedis:
		client, err := db.ConnectRedis(db.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return index.NewRedis(client, cfg.RedisPrefix), func() { _ = client.Close() }, nil
	default:
		return index.NewMemory(), func() {}, nil
	}
}
