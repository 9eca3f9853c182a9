package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/hackmate/backend/internal/notify"
	"github.com/anonto42/hackmate/backend/internal/realtime"
	"github.com/anonto42/hackmate/backend/internal/repositories"
	"github.com/anonto42/hackmate/backend/internal/router"
	"github.com/anonto42/hackmate/backend/pkg/config"
	"github.com/anonto42/hackmate/backend/pkg/firebase"
	"github.com/anonto42/hackmate/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()
	config.SetupLogging(cfg)

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	ctx := context.Background()
	if err := repositories.AutoMigrate(db.Postgres); err != nil {
		logrus.Fatalf("Failed to auto migrate models: %v", err)
	}
	if err := repositories.EnsureMongoIndexes(ctx, db.MongoDB); err != nil {
		logrus.Fatalf("Failed to create MongoDB indexes: %v", err)
	}

	deps := router.Deps{Config: cfg, Postgres: db.Postgres, Mongo: db.MongoDB}

	// Firebase is optional: without it firebase-login and uploads are disabled
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseStorageBucket)
		if err != nil {
			logrus.Fatalf("Failed to initialize Firebase: %v", err)
		}
		deps.FirebaseAuth = firebaseApp.AuthClient
		if cfg.FirebaseStorageBucket != "" {
			uploader, err := firebaseApp.Uploader(ctx, cfg.FirebaseStorageBucket)
			if err != nil {
				logrus.Fatalf("Failed to initialize storage: %v", err)
			}
			deps.Uploader = uploader
		}
	} else {
		logrus.Warn("FIREBASE_CREDENTIALS_PATH not set, Firebase features disabled.")
	}

	dispatcher := notify.NewDispatcher(repositories.NewPostgresNotificationRepository(db.Postgres), cfg.NotifyWorkers, cfg.NotifyQueueSize)
	dispatcher.Start()
	defer dispatcher.Close()
	deps.Notifier = dispatcher

	hub := realtime.NewHub()
	if cfg.RedisAddr != "" {
		bus, err := realtime.NewRedisBus(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logrus.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer bus.Close()
		if err := hub.UseBus(bus); err != nil {
			logrus.Fatalf("Failed to attach realtime bus: %v", err)
		}
	}
	deps.Hub = hub

	// Metrics
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		logrus.Infof("Metrics listening on :%s", cfg.MetricsPort)
		if err := http.ListenAndServe(":"+cfg.MetricsPort, mux); err != nil && err != http.ErrServerClosed {
			logrus.Errorf("Metrics server stopped: %v", err)
		}
	}()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	// Setup global middleware
	config.SetupMiddleware(e, cfg)

	// Setup routes and dependencies
	router.SetupRoutes(e, deps)

	// Start server
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server shutdown failed: %v", err)
	}
}
