package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"matchmaking_server/config"
	"matchmaking_server/middleware"
	"matchmaking_server/routes"
	"matchmaking_server/services"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	ctx := context.Background()

	// Initialize storage, search and services
	log.Println("Initializing services...")
	svc, err := services.NewServices(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize services: %v", err)
	}
	defer svc.Close(context.Background())

	// Initialize the router
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger)

	// Register routes
	routes.RegisterRoutes(r)
	routes.RegisterMatchRoutes(
		r,
		svc.Match,
		middleware.Auth([]byte(cfg.JWTSecret), svc.Profiles),
		middleware.NewUserRateLimiter(cfg.RefillRatePerMinute),
	)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
		AllowCredentials: true,
	}).Handler(r)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s...\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Graceful shutdown failed: %v", err)
	}
}
