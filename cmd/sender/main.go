// Command sender runs one delivery pass and exits. It is meant to be invoked by
// an external scheduler (cron, Cloud Scheduler, a Kubernetes CronJob) when the
// API process runs with SCHEDULER_ENABLED=false.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	appService "nlreminder/internal/application/service"
	"nlreminder/internal/config"
	"nlreminder/internal/infrastructure/database"
	lineClient "nlreminder/internal/infrastructure/line"
	appLogger "nlreminder/internal/pkg/logger"

	flag "github.com/spf13/pflag"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 1
	}

	window := flag.Duration("window", cfg.DeliveryWindow, "width of the due window starting now")
	catchUp := flag.Bool("catch-up", cfg.DeliveryCatchUp, "also deliver pending reminders whose due time has passed")
	deadline := flag.Duration("deadline", 50*time.Second, "maximum duration of the run")
	flag.Parse()

	log := appLogger.New(appLogger.Options{Level: cfg.LogLevel, Console: cfg.LogConsole, Out: os.Stderr})
	if err := cfg.Validate(); err != nil {
		log.Error("Invalid configuration", err)
		return 1
	}

	db, err := database.Open(database.Options{DatabaseURL: cfg.DatabaseURL, SQLitePath: cfg.SQLitePath}, log)
	if err != nil {
		log.Error("Failed to open database", err)
		return 1
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error("Error closing database", err)
		}
	}()

	line, err := lineClient.NewClient(lineClient.Config{
		ChannelSecret:      cfg.ChannelSecret,
		ChannelAccessToken: cfg.ChannelAccessToken,
		EndpointBase:       cfg.LineAPIEndpoint,
		Timeout:            cfg.RequestTimeout,
	}, log)
	if err != nil {
		log.Error("Failed to create LINE client", err)
		return 1
	}

	svc := appService.NewDeliveryService(database.NewReminderRepository(db), line, appService.DeliveryConfig{
		Window:  *window,
		CatchUp: *catchUp,
		Timeout: cfg.RequestTimeout,
	}, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *deadline)
	defer cancel()

	summary, err := svc.Run(ctx)
	if err != nil {
		log.Error("Delivery run failed", err)
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		log.Error("Failed to write summary", err)
		return 1
	}
	return 0
}
