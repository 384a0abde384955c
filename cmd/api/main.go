package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/adapters/handler"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/adapters/lock"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/adapters/middleware"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/adapters/payment"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/adapters/repository"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/config"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/services"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/logger"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	dotenv := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()
	zap.ReplaceGlobals(zlog)

	zlog.Info("starting doctors portal api",
		zap.String("env", cfg.Environment),
		zap.Bool("dotenv", dotenv),
	)

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		zlog.Fatal("failed to migrate database", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		// the unique index still rejects duplicates without the lock
		zlog.Warn("redis unavailable at startup", zap.Error(err))
	}
	cancelPing()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewCollector(registry)

	optionRepo := repository.NewAppointmentOptionRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	userRepo := repository.NewUserRepository(db)
	doctorRepo := repository.NewDoctorRepository(db)

	locker := lock.NewRedisBookingLocker(redisClient, lock.DefaultLockTTL, zlog)
	processor := payment.NewStripeProcessor(cfg.StripeSecretKey)

	userService := services.NewUserService(userRepo, zlog)

	limiterConfig := middleware.DefaultRateLimiterConfig()
	limiterConfig.TrustedProxies, err = middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		zlog.Fatal("invalid TRUSTED_PROXIES", zap.Error(err))
	}
	rateLimiter := middleware.NewRateLimiter(limiterConfig, zlog)
	defer rateLimiter.Stop()

	router := handler.NewRouter(&handler.RouterDeps{
		Logger:             zlog,
		Metrics:            recorder,
		MetricsHandler:     metrics.Handler(registry),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        rateLimiter,
		Auth:               middleware.NewAuthMiddleware(cfg.JWTPublicKey, userService, zlog),

		CatalogService: services.NewCatalogService(optionRepo, bookingRepo, zlog),
		BookingService: services.NewBookingService(bookingRepo, locker, recorder, zlog),
		PaymentService: services.NewPaymentService(paymentRepo, processor, recorder, zlog),
		AuthService:    services.NewAuthService(userRepo, cfg.JWTPrivateKey, recorder, zlog),
		UserService:    userService,
		DoctorService:  services.NewDoctorService(doctorRepo, zlog),

		Health: handler.NewHealthHandler(db, redisClient, cfg.AppVersion),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		zlog.Info("doctor-portal server is running", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		zlog.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-errChan:
		zlog.Error("server error, shutting down", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}

	zlog.Info("shutdown complete")
}
