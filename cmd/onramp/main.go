package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	cfg "github.com/winr/fiat-onramp-app/backend/config"
	chatclients "github.com/winr/fiat-onramp-app/backend/internal/chat/clients"
	"github.com/winr/fiat-onramp-app/backend/internal/core/ports"
	"github.com/winr/fiat-onramp-app/backend/internal/handlers"
	"github.com/winr/fiat-onramp-app/backend/internal/metrics"
	"github.com/winr/fiat-onramp-app/backend/internal/usecases"
	"github.com/winr/fiat-onramp-app/backend/internal/usecases/repository"
	"github.com/winr/fiat-onramp-app/backend/internal/workers"
)

// Server timeout constants.
const (
	readTimeoutSeconds     = 15
	writeTimeoutSeconds    = 15
	idleTimeoutSeconds     = 60
	shutdownTimeoutSeconds = 5
)

func main() {
	time.Local = time.UTC

	// Parse configuration
	config, err := cfg.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	// Setup logging
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	if config.App.Debug {
		opts.Level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, opts))
	logger.Warn("Starting application with configuration",
		"debug", config.App.Debug,
		"server_port", config.HTTP.Port,
		"confirmation_window_ms", config.Ramp.ConfirmationWindowMs,
		"deposit_poll_interval_ms", config.Ramp.DepositPollIntervalMs,
		"kyc_poll_interval_ms", config.Ramp.KYCPollIntervalMs)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	window := time.Duration(config.Ramp.ConfirmationWindowMs) * time.Millisecond
	depositInterval := time.Duration(config.Ramp.DepositPollIntervalMs) * time.Millisecond
	kycInterval := time.Duration(config.Ramp.KYCPollIntervalMs) * time.Millisecond

	m := metrics.New()

	// Create repositories (process-lifetime, in-memory by design)
	kycRepository := repository.NewKYCRepository(logger)
	depositsRepository := repository.NewDepositsRepository(logger, m, window, nil)

	// Create services
	var kycService ports.KYCService = usecases.NewKYCService(logger, kycRepository, m, nil)
	var depositService ports.DepositService = usecases.NewDepositService(logger, depositsRepository, m, window, nil)
	swapService := usecases.NewSwapService(logger, nil)

	chatClient := chatclients.NewOpenRouterClient(logger, config.Chat.APIKey, config.Chat.APIURL, config.Chat.Model)

	// Mint gate worker: its pollers outlive requests and die with ctx.
	mintGate := workers.NewMintGate(logger, depositService, kycService, m, depositInterval, kycInterval)
	defer mintGate.Stop()

	// Create handlers
	websocketManager := handlers.NewWebSocketManager(logger)
	httpHandler := handlers.NewHTTPHandler(logger, ctx, kycService, depositService, swapService, chatClient, mintGate)
	wsHandler := handlers.NewWebSocketHandler(logger, depositService, websocketManager, depositInterval)

	// Create router
	router := mux.NewRouter()

	// Register WebSocket routes before HTTP routes
	wsHandler.RegisterRoutes(router)
	httpHandler.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	// Wrap router in CORS middleware
	handler := c.Handler(router)

	// Create HTTP server with timeouts
	server := &http.Server{
		Addr:         ":" + config.HTTP.Port,
		Handler:      handler,
		ReadTimeout:  readTimeoutSeconds * time.Second,
		WriteTimeout: writeTimeoutSeconds * time.Second,
		IdleTimeout:  idleTimeoutSeconds * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", "address", server.Addr)
		if err = server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			log.Fatal(err)
		}
	}()

	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")
	stop()

	// Give 5 seconds to complete current requests
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeoutSeconds*time.Second)
	defer cancel()

	if err = server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
		return
	}

	logger.Info("Server exited properly")
}
