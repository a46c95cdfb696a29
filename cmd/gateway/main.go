// cmd/gateway/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/your-org/pos-terminal-gateway/internal/backend"
	"github.com/your-org/pos-terminal-gateway/internal/config"
	"github.com/your-org/pos-terminal-gateway/internal/infrastructure/database/redis"
	"github.com/your-org/pos-terminal-gateway/internal/interfaces/http"
	"github.com/your-org/pos-terminal-gateway/internal/interfaces/http/middleware"
	"github.com/your-org/pos-terminal-gateway/internal/session"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)
	log.Printf("🖥️  Terminal %s against %s", cfg.Terminal.ID, cfg.Backend.BaseURL)

	logger := middleware.NewLogger(cfg)

	// Connect to Redis
	redisClient, err := redis.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	if err := redisClient.Health(); err != nil {
		log.Fatalf("Redis health check failed: %v", err)
	}

	// Wire the session store, backend client and session manager
	store := session.NewRedisStore(redisClient.GetClient(), cfg.Terminal.ID)
	client := backend.NewClient(cfg, store, logger)
	manager := session.NewManager(store, client, logger)

	log.Println("✅ All systems operational!")

	// Create and start HTTP server
	server := http.NewServer(cfg, client, manager, redisClient.GetClient(), logger)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("👋 Shutting down gracefully...")

	// Give server 30 seconds to shutdown gracefully
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.Printf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	log.Println("✅ Server shutdown completed")
}
