package main

import (
	"context"
	"flag"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/user/football-manager/config"
	"github.com/user/football-manager/internal/game"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	configPath := flag.String("config", "./config/config.json", "Path to configuration file")
	flag.Parse()

	// Logs go to stderr; stdout carries the protocol
	logger, level := setupLogger()
	defer logger.Sync()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if parsed, err := zapcore.ParseLevel(cfg.Server.LogLevel); err == nil {
		level.SetLevel(parsed)
	}

	ctx := context.Background()

	storage, closeStorage, err := game.OpenSnapshotStore(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to open snapshot storage", zap.Error(err))
	}
	defer closeStorage()

	gameManager, err := game.OpenSession(ctx, cfg, storage, logger)
	if err != nil {
		logger.Fatal("Failed to open game session", zap.Error(err))
	}

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "football-manager",
			Version: "0.1.0",
		},
		nil,
	)
	registerTools(server, newToolset(gameManager))

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		logger.Error("MCP server stopped", zap.Error(err))
	}

	if err := gameManager.Save(ctx); err != nil {
		logger.Error("Failed to save game", zap.Error(err))
	}
}

func setupLogger() (*zap.Logger, zap.AtomicLevel) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger, config.Level
}
