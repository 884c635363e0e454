package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"gameinsight/database"
	"gameinsight/internal/config"
	"gameinsight/internal/http-api/handler"
	"gameinsight/internal/http-api/middleware"
	"gameinsight/internal/http-api/repository"
	"gameinsight/internal/http-api/service"
	"gameinsight/internal/ingestion/rawg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	db, err := database.OpenGorm(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
	log.Println("[Database] connected")

	cache, err := repository.NewGameCache(cfg.RedisURL, cfg.RedisPassword, cfg.CacheTTL)
	if err != nil {
		log.Printf("[Cache] unavailable, serving without cache: %v", err)
	}
	defer cache.Close()
	go cache.ListenForInvalidations(context.Background(), rawg.NotifyChannel)

	gameRepo := repository.NewGameRepo(db)
	lookupRepo := repository.NewLookupRepo(db)
	runRepo := repository.NewRunRepo(db)
	userRepo := repository.NewUserRepository(db)

	gameSvc := service.NewGameService(gameRepo, cache)
	lookupSvc := service.NewLookupService(lookupRepo)
	ingestionSvc := service.NewIngestionService(runRepo)
	authSvc := service.NewAuthService(userRepo, cfg)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := database.SQLDB(db)
		if err != nil || sqlDB.Ping() != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	handler.NewAuthHandler(authSvc).RegisterRoutes(api.Group("/auth"))
	handler.NewGameHandler(gameSvc).RegisterRoutes(api.Group("/games"))
	handler.NewLookupHandler(lookupSvc).RegisterRoutes(api)

	ingestion := api.Group("/ingestion")
	ingestion.Use(middleware.AuthMiddleware(authSvc))
	handler.NewIngestionHandler(ingestionSvc).RegisterRoutes(ingestion)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	log.Printf("[Server] listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
