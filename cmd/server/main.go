package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mlockett42/bingo-live/internal/api"
	"github.com/mlockett42/bingo-live/internal/config"
	"github.com/mlockett42/bingo-live/internal/events"
	"github.com/mlockett42/bingo-live/internal/repository/postgres"
	"github.com/mlockett42/bingo-live/internal/service"
	"github.com/mlockett42/bingo-live/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Initialize event bridge
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	publisher := events.NewRedisPublisher(redisClient)

	// Initialize WebSocket hub and attach it to the bridge
	hub := websocket.NewHub()
	go hub.Run()

	subCtx, subCancel := context.WithCancel(context.Background())
	subscriber := events.NewSubscriber(redisClient, hub)
	go subscriber.Run(subCtx)

	// Initialize services
	services := service.NewServices(repos, publisher, cfg)

	// Initialize router
	router := api.NewRouter(services, hub, repos, cfg)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	services.Scheduler.StopAll()
	subCancel()
	hub.Stop()
	redisClient.Close()

	log.Println("Server stopped")
}
