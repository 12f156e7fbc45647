package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"photo-archive/internal/blobstore"
	"photo-archive/internal/catalog"
	"photo-archive/internal/deletion"
	"photo-archive/internal/handlers"
	"photo-archive/internal/ingest"
	"photo-archive/internal/logging"
	"photo-archive/internal/middleware"
	"photo-archive/internal/preview"
	"photo-archive/internal/startup"
)

func main() {
	startTime := time.Now()

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	ctx := context.Background()

	// Initialize the catalog
	catStart := time.Now()
	cat, err := catalog.New(ctx, config.DatabasePath)
	if err != nil {
		startup.LogFatal("Failed to initialize catalog: %v", err)
	}
	defer cat.Close()
	logging.Info("catalog ready in %s", time.Since(catStart).Round(time.Millisecond))

	// Initialize the blob store
	store, err := blobstore.NewS3(ctx, blobstore.S3Config{
		Endpoint:  config.S3Endpoint,
		Region:    config.S3Region,
		Bucket:    config.S3Bucket,
		AccessKey: config.S3AccessKey,
		SecretKey: config.S3SecretKey,
	})
	if err != nil {
		startup.LogFatal("Failed to initialize blob store: %v", err)
	}

	pipe := ingest.New(cat, store, config.UploadBatchSize, config.ThumbnailsEnabled)
	del := deletion.New(cat, store, preview.ThumbKey)

	h := handlers.New(cat, store, pipe, del, config)
	router := h.Router()

	// Apply logging middleware
	logged := middleware.Logger(middleware.DefaultLoggingConfig())(router)

	// Apply metrics middleware
	handler := middleware.Metrics(middleware.DefaultMetricsConfig())(logged)

	srv := &http.Server{
		Addr:    ":" + config.Port,
		Handler: handler,
		// WriteTimeout stays 0 so large object downloads are not cut off.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go handleShutdown(srv)

	startup.LogServerStarted(config.Port, time.Since(startTime))
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func handleShutdown(srv *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdown("received " + sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdown("stopping HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	}
	startup.LogShutdown("complete")
}
