package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/auth"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/config"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/events"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/handler"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/jobs"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/repository"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/service"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/session"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/utils/email"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	repo := repository.NewRepository(sqlx.NewDb(db, "postgres"))
	if err := repo.Migrate(ctx); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Session revocation list
	var sessions session.Store = session.NewMemoryStore()
	if cfg.RedisURL != "" {
		rs, err := session.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rs.Close()
		sessions = rs
	} else {
		logger.Warn("REDIS_URL not set, sign-outs are kept in memory")
	}

	// Ledger events
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQPURL != "" {
		p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			logger.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer p.Close()
		publisher = p
	}

	// Initialize layers
	mailer := email.NewSender(cfg, logger)
	tokens := auth.NewIssuer(cfg.JWTSecret, cfg.SessionTTL)
	svc := service.NewService(repo, sessions, tokens, publisher, mailer, logger, cfg)
	h := handler.NewHandler(svc, logger)

	// Background reconciliation
	scheduler, err := jobs.NewReconciler(repo, mailer, cfg.AdminEmail, logger).Schedule(cfg.ReconcileSchedule)
	if err != nil {
		logger.Fatalf("Failed to schedule reconciliation: %v", err)
	}
	if scheduler != nil {
		scheduler.Start()
		defer scheduler.Stop()
	} else {
		logger.Warn("RECONCILE_SCHEDULE is empty, ledger reconciliation disabled")
	}

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      h.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Server shutdown failed: %v", err)
		}
	}()

	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Server failed: %v", err)
	}
	logger.Info("Server stopped")
}
