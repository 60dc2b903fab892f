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

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/quitcoach/client/internal/auth"
	"github.com/quitcoach/client/internal/config"
	httphandler "github.com/quitcoach/client/internal/http"
	"github.com/quitcoach/client/internal/http/handlers"
	"github.com/quitcoach/client/internal/logging"
	"github.com/quitcoach/client/internal/middleware"
	"github.com/quitcoach/client/internal/stub"
	"go.uber.org/zap"
)

func main() {
	// env vars override .env
	_ = godotenv.Load(".env")

	cfg, err := config.LoadStub()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.DevMode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Seed the in-memory backend
	backend := stub.NewBackend()
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	authService := backend.AuthService(jwtService)

	fixtures, err := stub.LoadFixtures(cfg.Fixtures)
	if err != nil {
		logger.Fatal("failed to load fixtures", zap.Error(err))
	}
	if err := backend.Seed(ctx, fixtures, authService); err != nil {
		logger.Fatal("failed to seed backend", zap.Error(err))
	}
	logger.Info("backend seeded",
		zap.Int("smokers", backend.Smokers.Len()),
		zap.Int("coaches", backend.Coaches.Len()),
		zap.Int("requests", backend.Requests.Len()),
	)

	loginLimiter := middleware.NewRateLimiter(time.Minute, 10)
	go loginLimiter.Run(ctx, time.Minute)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router, err := httphandler.NewRouter(httphandler.RouterConfig{
		Backend:      backend,
		AuthService:  authService,
		JWTService:   jwtService,
		Images:       handlers.NewImageHandler(cfg.PublicURL, cfg.UploadPreset, logger),
		LoginLimiter: loginLimiter,
		Registry:     registry,
		Logger:       logger,
		RequestLog:   true,
	})
	if err != nil {
		logger.Fatal("failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("stub API starting", zap.String("port", cfg.Port), zap.String("public_url", cfg.PublicURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("server exited")
}
