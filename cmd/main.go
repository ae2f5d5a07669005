package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/matchpoint-app/tournament-config/brackets"
	"github.com/matchpoint-app/tournament-config/config"
	"github.com/matchpoint-app/tournament-config/db"
	"github.com/matchpoint-app/tournament-config/handlers"
	"github.com/matchpoint-app/tournament-config/repositories"
	api "github.com/matchpoint-app/tournament-config/routes"
	"github.com/matchpoint-app/tournament-config/services"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	previewHub := brackets.NewHub(logger)
	go previewHub.Run()
	logger.Info("preview hub started")

	sessionRepo := repositories.NewPostgresSessionRepository(dbConn)

	categoryService := services.NewCategoryService()
	categoryValidator := services.NewCategoryValidator()
	formatService := services.NewFormatService()
	sessionService := services.NewSessionService(sessionRepo, categoryValidator, formatService, logger)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	projector := brackets.NewProjector(brackets.RandShuffler(rng))
	logger.Info("services initialized")

	sessionHandler := handlers.NewSessionHandler(sessionService)
	categoryHandler := handlers.NewCategoryHandler(sessionService, categoryService, categoryValidator, previewHub)
	formatHandler := handlers.NewFormatHandler(sessionService, formatService, projector, previewHub)
	webSocketHandler := handlers.NewWebSocketHandler(previewHub, logger)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.AllowedOrigins,
		sessionHandler,
		categoryHandler,
		formatHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
