package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/adapters/messaging"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/adapters/outbox"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/config"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/logger"
)

type probe func() bool

func healthHandler(check probe) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "UP"
		httpStatus := http.StatusOK
		if !check() {
			status = "DOWN"
			httpStatus = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(httpStatus)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":    status,
			"component": "outbox-relay",
		})
	}
}

func main() {
	config.LoadDotEnv()

	cfg, err := config.LoadRelayConfig()
	if err != nil {
		log.Fatalf("failed to load relay config: %v", err)
	}

	zlog, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()
	zap.ReplaceGlobals(zlog)

	zlog.Info("starting outbox relay", zap.String("queue", cfg.EventQueueName))

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	broker, err := messaging.NewRabbitMQBroker(cfg.RabbitMQURL, cfg.EventQueueName)
	if err != nil {
		zlog.Fatal("failed to connect to rabbitmq", zap.Error(err))
	}
	defer broker.Close()

	relay := outbox.NewRelay(db, cfg.DatabaseURL, broker, zlog.Named("relay"))

	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/health", healthHandler(relay.IsHealthy))
	healthMux.HandleFunc("/health/live", healthHandler(relay.IsHealthy))
	healthMux.HandleFunc("/health/ready", healthHandler(func() bool {
		return relay.IsReady() && broker.IsOpen()
	}))

	healthServer := &http.Server{
		Addr:              ":" + cfg.HealthPort,
		Handler:           healthMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		zlog.Info("relay health server listening", zap.String("port", cfg.HealthPort))
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("health server error", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		if err := relay.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		zlog.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-errChan:
		zlog.Error("relay worker failed, shutting down", zap.Error(err))
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		zlog.Error("health server shutdown failed", zap.Error(err))
	}

	zlog.Info("relay shutdown complete")
}
