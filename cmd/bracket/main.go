package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/fieldhouse/bracket/internal/api"
	"github.com/fieldhouse/bracket/internal/cache"
	"github.com/fieldhouse/bracket/internal/config"
	"github.com/fieldhouse/bracket/internal/security"
	"github.com/fieldhouse/bracket/internal/service"
	"github.com/fieldhouse/bracket/internal/store"
	"github.com/fieldhouse/bracket/internal/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found, reading configuration from the environment")
	}

	dbCfg := config.LoadDatabaseConfig()
	db, err := config.NewDatabaseConnection(dbCfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	blobStore := store.NewPostgresStore(db)
	if err := blobStore.Ensure(context.Background()); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	redisCfg := config.LoadRedisConfig()
	redisClient := config.NewRedisClient(redisCfg)
	logger := log.Default()
	cacheStore := cache.NewStore(redisClient, logger)
	if err := cacheStore.Ping(context.Background()); err != nil {
		log.Printf("cache unavailable, dashboard listing will read through to storage: %v", err)
	}

	hub := ws.NewHub(logger)

	adminCfg := config.LoadAdminConfig()
	tokens := security.NewTokenService(adminCfg.JWTSecret)

	svc := service.NewTournamentService(blobStore, cacheStore, hub, logger)

	serverCfg := config.LoadServerConfig()
	router := api.NewRouter(svc, hub, tokens, adminCfg, serverCfg)

	log.Printf("bracket service starting on port %s", serverCfg.Port)
	if err := http.ListenAndServe(":"+serverCfg.Port, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
