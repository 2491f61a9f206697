package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cardledger/backend/internal/api"
	"github.com/cardledger/backend/internal/auth"
	"github.com/cardledger/backend/internal/config"
	"github.com/cardledger/backend/internal/services"
)

func main() {
	// Load .env if present, then the real configuration
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Access gate
	authenticator := auth.NewStaticPassphrase(cfg.Auth.Passphrase)
	sessions := auth.NewSessionStore(cfg.Auth.SessionTTL)

	// External service clients
	catalogService, err := services.NewPokemonTCGService(cfg.Catalog)
	if err != nil {
		log.Fatalf("Failed to initialize catalog client: %v", err)
	}
	advisorService := services.NewAdvisorService(cfg.Advisor)

	// Pipeline
	inventoryService := services.NewInventoryService(catalogService, advisorService)

	// Setup router
	router := api.SetupRouter(cfg.Server, authenticator, sessions, inventoryService)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests a deadline to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
