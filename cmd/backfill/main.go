package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gameinsight/database"
	"gameinsight/internal/config"
	"gameinsight/internal/http-api/models"
	"gameinsight/internal/ingestion/rawg"
)

// backfill crawls the upstream catalog by release window and merges every
// record into the local database. The range is split into month-sized units
// (year-sized before 2000) that run through the worker pool.
func main() {
	startYear := flag.Int("start", 1990, "first release year to backfill")
	endYear := flag.Int("end", time.Now().Year(), "last release year to backfill")
	flag.Parse()

	if *startYear > *endYear {
		log.Fatalf("[Fatal] start year %d is after end year %d", *startYear, *endYear)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("[Fatal] could not load config: %v", err)
	}

	db, err := database.OpenGorm(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[Fatal] failed to connect to database: %v", err)
	}
	log.Println("[Database] connected")

	notifier := rawg.NewNotifier(cfg.RedisURL, cfg.RedisPassword)
	syncService := rawg.NewSyncService(rawg.SyncConfig{
		BaseURL:     cfg.RawgAPIURL,
		APIKey:      cfg.RawgAPIKey,
		PageSize:    cfg.RawgPageSize,
		WorkerCount: cfg.SyncWorkers,
	}, db, notifier)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("[Shutdown] received shutdown signal, finishing current units...")
		cancel()
	}()

	units := rawg.BackfillUnits(*startYear, *endYear)
	log.Printf("[Backfill] running %d units covering %d..%d with %d workers",
		len(units), *startYear, *endYear, cfg.SyncWorkers)

	started := time.Now()
	reports := syncService.RunUnits(ctx, units)

	var attempted, created, updated, failed, truncated int
	for _, rep := range reports {
		attempted += rep.Attempted
		created += rep.Created
		updated += rep.Updated
		failed += rep.Failed
		if rep.Status == models.RunStatusPartiallyFailed {
			truncated++
		}
	}
	log.Printf("[Backfill] done in %s: attempted=%d created=%d updated=%d failed=%d partial_units=%d",
		time.Since(started).Round(time.Second), attempted, created, updated, failed, truncated)

	if truncated > 0 {
		os.Exit(1)
	}
}
