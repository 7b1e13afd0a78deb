package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/football-manager/config"
	"github.com/user/football-manager/internal/interfaces"
	"go.uber.org/zap"
)

// OpenSnapshotStore returns the store configured in cfg and a function that releases it.
// Driver "file" uses a JSON file at DSN; any other driver name goes through database/sql.
func OpenSnapshotStore(ctx context.Context, cfg config.DatabaseConfig) (interfaces.SnapshotStore, func() error, error) {
	if cfg.Driver == "file" {
		return NewGameStateStorage(cfg.DSN), func() error { return nil }, nil
	}

	storage, err := NewSQLiteStorage(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	return storage, storage.Close, nil
}

// OpenSession resumes the latest stored snapshot or starts a new game when none exists
func OpenSession(ctx context.Context, cfg config.Config, storage interfaces.SnapshotStore, logger *zap.Logger) (*GameManager, error) {
	gm, err := NewGame(cfg, logger)
	if err != nil {
		return nil, err
	}
	gm.SetStorage(storage)

	err = gm.Load(ctx)
	switch {
	case err == nil:
		logger.Info("Resumed saved game", zap.Time("date", gm.CurrentDate()))
	case errors.Is(err, ErrSnapshotNotFound):
		logger.Info("Started new game",
			zap.Time("date", gm.CurrentDate()),
			zap.Uint64("seed", cfg.Game.Seed))
	default:
		return nil, fmt.Errorf("failed to resume game: %w", err)
	}
	return gm, nil
}
