package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/azure/reddit-analyzer/internal/analyzer"
	"github.com/azure/reddit-analyzer/internal/config"
	"github.com/azure/reddit-analyzer/internal/notifications"
	"github.com/azure/reddit-analyzer/internal/ratelimit"
	"github.com/azure/reddit-analyzer/internal/scheduler"
	"github.com/azure/reddit-analyzer/internal/server"
	"github.com/azure/reddit-analyzer/internal/sources"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting Reddit Analyzer")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// The gate is process local; every replica admits its own requests
	gate := ratelimit.NewGate(cfg.RateLimitInterval)
	source := sources.NewRedditSource(cfg.RedditBaseURL, cfg.UserAgent, cfg.FetchTimeout)
	analyzerService := analyzer.NewService(source, gate, analyzer.NewMetrics(registry))

	// Digest is optional; without a schedule the trigger endpoint reports it as unconfigured
	var digest scheduler.Job
	if cfg.DigestEnabled() {
		digest = analyzer.NewDigestRunner(cfg, analyzerService, notifications.NewService(cfg))
	}

	schedulerService := scheduler.NewService(cfg, digest)
	if err := schedulerService.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer schedulerService.Stop()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      server.New(analyzerService, digest, cfg.DefaultLimit, registry),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.FetchTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server in a goroutine
	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
