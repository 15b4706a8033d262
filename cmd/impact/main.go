package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/precinctlabs/impact/internal/database"
	"github.com/precinctlabs/impact/internal/limiter"
	"github.com/precinctlabs/impact/internal/logging"
	"github.com/precinctlabs/impact/internal/metrics"
	"github.com/precinctlabs/impact/internal/server"
	"github.com/precinctlabs/impact/internal/storage"
	"github.com/precinctlabs/impact/internal/store"
)

const auditRetention = 90 * 24 * time.Hour

func main() {
	port := os.Getenv("IMPACT_PORT")
	if port == "" {
		port = "8080"
	}

	production := os.Getenv("IMPACT_ENV") == "production"
	logger := logging.Setup(os.Getenv("IMPACT_LOG_LEVEL"), production)
	metrics.Init()

	bucket := os.Getenv("IMPACT_BUCKET")
	if bucket == "" {
		log.Fatal("IMPACT_BUCKET is required")
	}

	reports := storage.New(storage.Config{
		Endpoint:  os.Getenv("IMPACT_S3_ENDPOINT"),
		Bucket:    bucket,
		Region:    os.Getenv("IMPACT_S3_REGION"),
		AccessKey: os.Getenv("IMPACT_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("IMPACT_S3_SECRET_KEY"),
	}, logger.With("component", "storage"))

	lim := limiter.New(os.Getenv("IMPACT_REDIS_ADDR"), os.Getenv("IMPACT_REDIS_PASSWORD"), logger.With("component", "limiter"))

	dbPath := os.Getenv("IMPACT_DB_PATH")
	if dbPath == "" {
		dbPath = "impact.db"
	}
	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	audit := store.NewAccessEventStore(db)

	srv := server.New(reports, lim, audit, production, logger)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Daily audit retention sweep
	purgeDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				n, err := audit.PurgeOlderThan(time.Now().UTC().Add(-auditRetention))
				if err != nil {
					logger.Warn("audit purge failed", "error", err)
				} else if n > 0 {
					logger.Info("purged audit events", "count", n)
				}
			case <-purgeDone:
				return
			}
		}
	}()

	go func() {
		logger.Info("impact server listening", "port", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	close(purgeDone)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
