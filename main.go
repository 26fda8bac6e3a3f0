package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hushhly/app"
	"hushhly/config"
	"hushhly/handler"
	appLogger "hushhly/logger"
	"hushhly/middleware"
	"hushhly/reminder"

	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize logger
	appLogger.Initialize()

	// Load configuration
	cfg := config.MustLoadConfig()
	appLogger.SetLevel(cfg.Logging.Level)
	log.Info().Msg("Configuration loaded successfully")

	// Refuse to issue forgeable tokens
	if err := cfg.Auth.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid auth configuration")
	}

	// Storage and services
	a, err := app.New(cfg, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if _, err := a.Services.Promos.Seed(seedCtx); err != nil {
		log.Error().Err(err).Msg("Failed to seed promo codes")
	}
	seedCancel()

	// Reminder dispatcher
	var dispatcher *reminder.Dispatcher
	if cfg.Reminders.Enabled {
		dispatcher = reminder.NewDispatcher(a.Services.Reminders, a.Notifier(), cfg.Reminders.Schedule)
		if err := dispatcher.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start reminder dispatcher")
		}
	} else {
		log.Info().Msg("Reminders disabled in configuration")
	}

	// Create handler with dependency injection
	apiHandler := handler.NewHandler(a.Services, a.Redis, a.Cache, cfg)

	// Set up router
	r := handler.NewRouter(apiHandler,
		middleware.NewUserAuth(a.JWT),
		middleware.NewAdminAuth(cfg.Admin.APIKey, cfg.Admin.Enabled),
	)

	// Apply global middleware
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	r.Use(middleware.RequestLogger)
	r.Use(rateLimiter.Limit)

	// Configure HTTP server
	serverAddress := fmt.Sprintf("%s:%s", cfg.WebServer.IP, cfg.WebServer.Port)
	server := &http.Server{
		Addr:         serverAddress,
		Handler:      middleware.CORS(cfg.WebServer.AllowedOrigin)(r), // outside the router so preflights reach it
		ReadTimeout:  time.Duration(cfg.WebServer.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WebServer.WriteTimeout) * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("address", serverAddress).
			Str("storage", cfg.Storage.Backend).
			Msg("Starting server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.WebServer.ShutdownTimeout)*time.Second)
	defer cancel()

	if dispatcher != nil {
		select {
		case <-dispatcher.Stop().Done():
		case <-ctx.Done():
			log.Warn().Msg("Reminder dispatch still running at shutdown")
		}
	}

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	a.Close()

	log.Info().Msg("Server stopped gracefully")
}
