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

	// Application Layer
	appService "nlreminder/internal/application/service"
	"nlreminder/internal/config"

	// Domain Layer
	"nlreminder/internal/domain/timeexpr"

	// Infrastructure Layer
	"nlreminder/internal/infrastructure/database"
	lineClient "nlreminder/internal/infrastructure/line"
	"nlreminder/internal/infrastructure/scheduler"

	// Interfaces Layer
	"nlreminder/internal/interfaces/api/handler"
	"nlreminder/internal/interfaces/api/router"

	// Packages
	appLogger "nlreminder/internal/pkg/logger"

	"gorm.io/gorm"
)

func gracefulShutdown(apiServer *http.Server, cronScheduler *scheduler.Scheduler, db *gorm.DB, log appLogger.Logger, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info("Shutting down gracefully, press Ctrl+C again to force")

	// Stop the scheduler first.
	cronScheduler.Stop()

	// The server has 5 seconds to finish the request it is currently handling.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err)
	}

	if err := database.Close(db); err != nil {
		log.Error("Error closing database", err)
	} else {
		log.Info("Database connection closed.")
	}

	log.Info("Server exiting")
	done <- true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	appLog := appLogger.New(appLogger.Options{Level: cfg.LogLevel, Console: cfg.LogConsole})
	if err := cfg.Validate(); err != nil {
		appLog.Error("Invalid configuration", err)
		os.Exit(1)
	}
	appLog.Info("Configuration loaded.", "port", cfg.Port, "utc_offset_hours", cfg.UTCOffsetHours,
		"delivery_cron", cfg.DeliveryCron, "scheduler_enabled", cfg.SchedulerEnabled)

	// --- Infrastructure ---
	db, err := database.Open(database.Options{DatabaseURL: cfg.DatabaseURL, SQLitePath: cfg.SQLitePath}, appLog)
	if err != nil {
		appLog.Error("Failed to open database", err)
		os.Exit(1)
	}
	reminderRepo := database.NewReminderRepository(db)

	line, err := lineClient.NewClient(lineClient.Config{
		ChannelSecret:      cfg.ChannelSecret,
		ChannelAccessToken: cfg.ChannelAccessToken,
		EndpointBase:       cfg.LineAPIEndpoint,
		Timeout:            cfg.RequestTimeout,
	}, appLog)
	if err != nil {
		appLog.Error("Failed to create LINE client", err)
		os.Exit(1)
	}

	// --- Application Services ---
	parser := timeexpr.NewParser(cfg.Location())
	intakeSvc := appService.NewIntakeService(reminderRepo, line, parser, cfg.RequestTimeout, appLog)
	deliverySvc := appService.NewDeliveryService(reminderRepo, line, appService.DeliveryConfig{
		Window:  cfg.DeliveryWindow,
		CatchUp: cfg.DeliveryCatchUp,
		Timeout: cfg.RequestTimeout,
	}, appLog)
	appLog.Info("Application services initialized.")

	// --- Scheduler ---
	cronScheduler := scheduler.NewScheduler(appLog)
	if cfg.SchedulerEnabled {
		// Each run is bounded by one window.
		_, err := cronScheduler.AddJob(cfg.DeliveryCron, func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.DeliveryWindow)
			defer cancel()
			if _, err := deliverySvc.Run(ctx); err != nil {
				appLog.Error("Scheduled delivery run failed", err)
			}
		})
		if err != nil {
			appLog.Error("Failed to schedule delivery", err)
			os.Exit(1)
		}
		cronScheduler.Start()
		for _, entry := range cronScheduler.Entries() {
			appLog.Info("Delivery scheduled", "entry_id", int(entry.ID), "next_run", entry.Next)
		}
	} else {
		appLog.Info("In-process scheduler disabled; deliveries are triggered externally.")
	}

	// --- Router ---
	routerCfg := &router.Config{
		LineHandler: handler.NewLineHandler(line, intakeSvc, appLog),
		Logger:      appLog,
	}
	if !cfg.SchedulerEnabled {
		if cfg.DeliveryToken == "" {
			appLog.Warn("DELIVERY_TRIGGER_TOKEN is not set; POST /tasks/deliver is disabled, use cmd/sender instead")
		}
		routerCfg.DeliveryHandler = handler.NewDeliveryHandler(deliverySvc, appLog)
		routerCfg.DeliveryToken = cfg.DeliveryToken
	}
	echoRouter := router.NewRouter(routerCfg)

	// --- HTTP Server ---
	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      echoRouter,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, cronScheduler, db, appLog, done)

	appLog.Info("Server starting", "port", cfg.Port)
	if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		appLog.Error("HTTP server ListenAndServe error", err)
		os.Exit(1)
	}

	<-done
	appLog.Info("Graceful shutdown complete.")
}
