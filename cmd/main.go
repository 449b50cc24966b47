/**
 * @description
 * This is the main entry point for the subscription tracker API. It wires
 * together configuration, database connection and migrations, repositories,
 * services, the workflow engine client, the optional event producer, and the
 * HTTP router, then runs the server until a shutdown signal arrives.
 */
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/subtrackr/subscription-api/internal/api"
	"github.com/subtrackr/subscription-api/internal/app"
	"github.com/subtrackr/subscription-api/internal/config"
	"github.com/subtrackr/subscription-api/internal/store"
	"github.com/subtrackr/subscription-api/pkg/mailer"
	"github.com/subtrackr/subscription-api/pkg/rabbitmq"
	"github.com/subtrackr/subscription-api/pkg/workflow"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, relying on environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if err := store.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
		logger.Error("failed to run database migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("database migrations applied")

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Error("unable to parse database URL", "error", err)
		os.Exit(1)
	}
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	logger.Info("database connection established")

	// The event producer is optional: without a broker URL lifecycle events
	// are simply not published.
	var events app.EventPublisher
	if cfg.RabbitMQURL != "" {
		producer, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL)
		if err != nil {
			logger.Error("unable to connect to RabbitMQ", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		events = producer
		logger.Info("event producer connected")
	} else {
		logger.Info("RABBITMQ_URL not set, lifecycle events disabled")
	}

	subscriptionRepo := store.NewSubscriptionRepository(dbpool)
	userRepo := store.NewUserRepository(dbpool)

	dispatcher := workflow.NewClient(cfg.WorkflowURL, cfg.WorkflowToken)
	reminderMailer := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom)
	callbackURL := fmt.Sprintf("%s/api/v1/workflows/reminders", cfg.ServerURL)

	subscriptionService := app.NewSubscriptionService(subscriptionRepo, dispatcher, events, callbackURL, logger)
	authService := app.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiresIn)
	userService := app.NewUserService(userRepo)
	reminderService := app.NewReminderService(subscriptionRepo, userRepo, reminderMailer, events, logger)

	router := api.NewRouter(api.Handlers{
		Subscriptions: api.NewSubscriptionHandler(subscriptionService),
		Auth:          api.NewAuthHandler(authService),
		Users:         api.NewUserHandler(userService),
		Workflows:     api.NewWorkflowHandler(reminderService),
	}, authService.Secret())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router,
	}

	go func() {
		logger.Info("starting server", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCh
	logger.Info("shutdown signal received, gracefully shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}

	logger.Info("server stopped")
}
