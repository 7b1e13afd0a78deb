package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver
	"github.com/user/football-manager/config"
	"github.com/user/football-manager/internal/api"
	"github.com/user/football-manager/internal/game"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "./config/config.json", "Path to configuration file")
	flag.Parse()

	// Set up logger
	logger, level := setupLogger()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if parsed, err := zapcore.ParseLevel(cfg.Server.LogLevel); err == nil {
		level.SetLevel(parsed)
	}

	ctx := context.Background()

	// Open snapshot storage
	storage, closeStorage, err := game.OpenSnapshotStore(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to open snapshot storage", zap.Error(err))
	}
	defer closeStorage()

	// Resume or start the session
	gameManager, err := game.OpenSession(ctx, cfg, storage, logger)
	if err != nil {
		logger.Fatal("Failed to open game session", zap.Error(err))
	}

	// Start the auto-pilot when configured
	if cfg.Game.AutoAdvanceSeconds > 0 {
		autoPilot := game.NewAutoPilotSystem(gameManager, time.Duration(cfg.Game.AutoAdvanceSeconds)*time.Second)
		autoPilot.Start()
		defer autoPilot.Stop()
		logger.Info("Auto-pilot started", zap.Int("seconds_per_day", cfg.Game.AutoAdvanceSeconds))
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: api.NewRouter(gameManager, logger, cfg.Server.AllowedOrigins),
	}

	// Start HTTP server
	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	waitForShutdown(logger)

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down HTTP server", zap.Error(err))
	}

	if err := gameManager.Save(shutdownCtx); err != nil {
		logger.Error("Failed to save game", zap.Error(err))
	} else {
		logger.Info("Game saved", zap.Time("date", gameManager.CurrentDate()))
	}
}

func setupLogger() (*zap.Logger, zap.AtomicLevel) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger, config.Level
}

func waitForShutdown(logger *zap.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
}
