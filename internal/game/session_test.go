package game

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/football-manager/config"
	"go.uber.org/zap"
)

func TestOpenSnapshotStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	// Test case 1: file driver
	store, release, err := OpenSnapshotStore(ctx, config.DatabaseConfig{Driver: "file", DSN: filepath.Join(dir, "game.json")})
	require.NoError(t, err)
	assert.IsType(t, &GameStateStorage{}, store)
	assert.NoError(t, release())

	// Test case 2: sqlite driver
	store, release, err = OpenSnapshotStore(ctx, config.DatabaseConfig{Driver: "sqlite3", DSN: filepath.Join(dir, "game.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStorage{}, store)
	assert.NoError(t, release())

	// Test case 3: unknown driver
	_, _, err = OpenSnapshotStore(ctx, config.DatabaseConfig{Driver: "nope", DSN: "x"})
	assert.Error(t, err)
}

func TestOpenSessionResumes(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	store := NewGameStateStorage(filepath.Join(t.TempDir(), "game.json"))

	// Test case 1: nothing stored starts a new game
	gm, err := OpenSession(ctx, cfg, store, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, testStart, gm.CurrentDate())

	for i := 0; i < 3; i++ {
		gm.AdvanceDay()
	}
	require.NoError(t, gm.Save(ctx))

	// Test case 2: the saved session is resumed
	resumed, err := OpenSession(ctx, cfg, store, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, testStart.AddDate(0, 0, 3), resumed.CurrentDate())
	assert.Equal(t, stateJSON(t, gm), stateJSON(t, resumed))
}

func TestOpenSessionRejectsCorruptSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

	_, err := OpenSession(context.Background(), testConfig(t), NewGameStateStorage(path), zap.NewNop())
	assert.Error(t, err)
}
