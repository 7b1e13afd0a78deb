package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/user/football-manager/internal/interfaces"
	"github.com/user/football-manager/internal/types"
)

var (
	// ErrSnapshotNotFound is returned when a store holds no snapshot
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrUnsupportedSnapshotVersion is returned for snapshots written by another layout
	ErrUnsupportedSnapshotVersion = errors.New("unsupported snapshot version")
)

// GameStateStorage persists snapshots as a JSON file
type GameStateStorage struct {
	savePath  string
	stateLock sync.RWMutex
}

var _ interfaces.SnapshotStore = (*GameStateStorage)(nil)

// NewGameStateStorage creates a new file snapshot store
func NewGameStateStorage(savePath string) *GameStateStorage {
	return &GameStateStorage{
		savePath: savePath,
	}
}

// Save writes the snapshot to disk
func (gss *GameStateStorage) Save(ctx context.Context, snapshot *types.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	gss.stateLock.Lock()
	defer gss.stateLock.Unlock()

	// Create directory if it doesn't exist
	dir := filepath.Dir(gss.savePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	// Write to a temp file and rename into place
	tmp := gss.savePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, gss.savePath); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	return nil
}

// Load reads the snapshot from disk
func (gss *GameStateStorage) Load(ctx context.Context) (*types.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	gss.stateLock.RLock()
	defer gss.stateLock.RUnlock()

	data, err := os.ReadFile(gss.savePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	return decodeSnapshot(data)
}

// decodeSnapshot parses a stored snapshot and checks its version
func decodeSnapshot(data []byte) (*types.Snapshot, error) {
	var snapshot types.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if snapshot.Version != types.SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d: %w", snapshot.Version, ErrUnsupportedSnapshotVersion)
	}
	if snapshot.State == nil {
		return nil, fmt.Errorf("failed to parse snapshot: missing state")
	}
	ensureMaps(snapshot.State)
	return &snapshot, nil
}

// ensureMaps initializes collections a hand-edited or older file may omit
func ensureMaps(state *types.GameState) {
	if state.Teams == nil {
		state.Teams = make(map[string]*types.Team)
	}
	if state.Players == nil {
		state.Players = make(map[string]*types.Player)
	}
	if state.Leagues == nil {
		state.Leagues = make(map[string]*types.League)
	}
	if state.Offers == nil {
		state.Offers = make([]*types.TransferOffer, 0)
	}
	if state.Inbox == nil {
		state.Inbox = make([]types.Notification, 0)
	}
	if state.Season != nil && state.Season.Leagues == nil {
		state.Season.Leagues = make(map[string]*types.SeasonLeague)
	}
}
