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
	"github.com/rs/cors"
	"go.uber.org/atomic"
	"golang.org/x/time/rate"

	"github.com/akazakov/cookbook/internal/api"
	"github.com/akazakov/cookbook/internal/config"
	"github.com/akazakov/cookbook/internal/imagestore"
	"github.com/akazakov/cookbook/internal/repository/postgres"
	"github.com/akazakov/cookbook/internal/service"
	"github.com/akazakov/cookbook/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel)
	l.Info("Starting cookbook...")

	// Database
	db, err := config.NewDatabase(cfg.DatabaseURL, l)
	if err != nil {
		l.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ready := atomic.NewBool(false)

	// Run migrations
	if err := db.Migrate(cfg.MigrationsDir); err != nil {
		l.Fatalf("Failed to run migrations: %v", err)
	}
	ready.Store(true)

	// Image storage for recipe uploads
	images, err := imagestore.New(cfg.MediaDir, l)
	if err != nil {
		l.Fatalf("Failed to set up image store: %v", err)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db.DB)
	ingredientRepo := postgres.NewIngredientRepository(db.DB)
	tagRepo := postgres.NewTagRepository(db.DB)
	recipeRepo := postgres.NewRecipeRepository(db.DB)
	favoriteRepo := postgres.NewFavoriteRepository(db.DB)
	cartRepo := postgres.NewCartRepository(db.DB)
	subscriptionRepo := postgres.NewSubscriptionRepository(db.DB)

	// Service layer
	svc := service.New(l, images,
		userRepo, ingredientRepo, tagRepo, recipeRepo,
		favoriteRepo, cartRepo, subscriptionRepo,
	)

	// HTTP server
	tokens := api.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	apiServer := api.NewServer(svc, l, tokens, ready)

	handler := apiServer.Handler()
	handler = api.RateLimitMiddleware(rate.Limit(cfg.RateLimitRPS), int(cfg.RateLimitRPS)*2)(handler)
	corsOpts := cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}
	// Credentialed responses need an explicit origin list; rs/cors drops
	// them for the wildcard.
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		corsOpts.AllowCredentials = true
	}
	handler = cors.New(corsOpts).Handler(handler)
	handler = api.LoggingMiddleware(l)(handler)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		l.Info("Received shutdown signal...")
		cancel()
	}()

	go func() {
		l.Infof("HTTP server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Errorf("HTTP server error: %v", err)
			cancel()
		}
	}()

	l.Info("Cookbook started successfully")

	<-ctx.Done()

	l.Info("Shutting down HTTP server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		l.Errorf("HTTP server shutdown failed: %v", err)
	}

	l.Info("Cookbook stopped")
}
