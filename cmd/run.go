package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"partnertrack/config"
	"partnertrack/database"
	"partnertrack/events"
	"partnertrack/models"
	"partnertrack/repository"
	"partnertrack/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting partnertrack...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	log.Println("Initializing services...")
	rollupService := service.NewRollupService(uowFactory)
	log.Println("Services initialized successfully")

	// Start the rollup worker
	rollupInterval := time.Duration(cfg.RollupIntervalMinutes) * time.Minute
	go runRollupWorker(ctx, rollupService, rollupInterval)

	log.Printf("Running in %s mode, rollup every %s...", cfg.Environment, rollupInterval)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}

// runRollupWorker periodically recomputes the weekly and monthly ledger rows
// covering the current time. Rollups are idempotent so overlapping runs after
// a restart are harmless.
func runRollupWorker(ctx context.Context, rollups service.RollupService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now().UTC()
			for _, period := range []models.Period{models.PeriodWeekly, models.PeriodMonthly} {
				if err := rollups.RollupPeriod(ctx, period, now); err != nil {
					log.Printf("Rollup %s failed: %v", period, err)
				}
			}
		}
	}
}
