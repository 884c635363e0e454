package main

import (
	"context"
	"flag"
	"log"
	"os"

	"gameinsight/database"
	"gameinsight/internal/config"
	"gameinsight/internal/http-api/models"
	"gameinsight/internal/ingestion/rawg"
)

// seed loads a JSON export of raw game records into the database without
// touching the upstream API. Handy for local development and demo data.
func main() {
	file := flag.String("file", "", "path to a JSON export of raw game records")
	flag.Parse()

	if *file == "" {
		log.Fatal("[Fatal] -file is required")
	}
	if _, err := os.Stat(*file); err != nil {
		log.Fatalf("[Fatal] cannot read %s: %v", *file, err)
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

	syncService := rawg.NewSyncService(rawg.SyncConfig{
		PageSize:    cfg.RawgPageSize,
		WorkerCount: 1,
	}, db, rawg.NewNotifier("", ""))

	report := syncService.RunUnit(context.Background(), rawg.FileUnit(*file))
	log.Printf("[Seed] %s", report)

	if report.Status == models.RunStatusPartiallyFailed {
		os.Exit(1)
	}
}
