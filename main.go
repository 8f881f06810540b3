package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/cmrentals/property_map_service/cache"
	"github.com/cmrentals/property_map_service/config"
	"github.com/cmrentals/property_map_service/routes"
	"github.com/cmrentals/property_map_service/storage"
)

func buildStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StoreBackend {
	case "mongo":
		return storage.NewMongoStore(cfg.MongoURI, cfg.MongoDB)
	case "postgres":
		return storage.NewPostgresStore(cfg.DSN(), cfg.ListingsTable, cfg.DefaultLocationTable)
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}

// connectRedis returns nil when no Redis address is configured; the
// cache then runs local-only.
func connectRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       0,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Connected to Redis")
	return client
}

func main() {
	cfg := config.Load()

	store, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to the store: %v", err)
	}
	defer func() {
		if err := store.Close(context.TODO()); err != nil {
			log.Printf("Error closing store connection: %v", err)
		}
	}()

	redisClient := connectRedis(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	tableCache := cache.New(cfg.CacheLocalMax, cfg.CacheTTL, redisClient)
	repo := storage.NewRepository(store, tableCache, cfg.ListingsTable, cfg.DefaultLocationTable, cfg.RequestTimeout)

	router := mux.NewRouter()
	routes.Routes(router, repo, cfg.MapZoom)

	corsOptions := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})
	handler := corsOptions.Handler(router)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        handler,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	<-sigCh

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Error during server shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
