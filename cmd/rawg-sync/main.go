package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gameinsight/database"
	"gameinsight/internal/config"
	"gameinsight/internal/ingestion/rawg"
)

func main() {
	log.Println("===========================================")
	log.Println("   RAWG Sync Service Starting...")
	log.Println("===========================================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("[Fatal] could not load config: %v", err)
	}

	db, err := database.OpenGorm(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[Fatal] failed to connect to database: %v", err)
	}
	log.Println("[Database] connected")

	log.Println("[Config] loaded configuration:")
	log.Printf("  - API URL: %s", cfg.RawgAPIURL)
	log.Printf("  - API Key: %s", maskAPIKey(cfg.RawgAPIKey))
	log.Printf("  - Page Size: %d", cfg.RawgPageSize)
	log.Printf("  - Workers: %d", cfg.SyncWorkers)
	log.Printf("  - Weekly Interval: %s", cfg.WeeklyInterval)
	log.Printf("  - Claim Interval: %s", cfg.ClaimInterval)

	notifier := rawg.NewNotifier(cfg.RedisURL, cfg.RedisPassword)

	syncService := rawg.NewSyncService(rawg.SyncConfig{
		BaseURL:     cfg.RawgAPIURL,
		APIKey:      cfg.RawgAPIKey,
		PageSize:    cfg.RawgPageSize,
		WorkerCount: cfg.SyncWorkers,
	}, db, notifier)
	log.Println("[SyncService] initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("[Shutdown] received shutdown signal, stopping...")
		cancel()
	}()

	syncService.StartPollers(ctx, cfg.WeeklyInterval, cfg.ClaimInterval)

	log.Println("[Service] RAWG sync service is running")
	log.Println("[Service] press Ctrl+C to stop")

	<-ctx.Done()
	log.Println("[Shutdown] service stopped")
}

func maskAPIKey(apiKey string) string {
	if apiKey == "" {
		return "(not set)"
	}
	if len(apiKey) <= 8 {
		return "***"
	}
	return apiKey[:4] + "..." + apiKey[len(apiKey)-4:]
}
