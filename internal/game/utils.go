package game

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"sort"

	"github.com/google/uuid"
	"github.com/user/football-manager/internal/types"
)

// DiceRoller is the explicit random stream threaded through every simulation step.
// Two rollers built from the same seed produce identical sequences.
type DiceRoller struct {
	src *rand.PCG
	rng *rand.Rand
}

// NewDiceRoller creates a dice roller seeded deterministically
func NewDiceRoller(seed uint64) *DiceRoller {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &DiceRoller{
		src: src,
		rng: rand.New(src),
	}
}

// IntN returns a value in [0,n)
func (dr *DiceRoller) IntN(n int) int {
	return dr.rng.IntN(n)
}

// Between returns a value in [min,max]
func (dr *DiceRoller) Between(min, max int) int {
	if max <= min {
		return min
	}
	return min + dr.rng.IntN(max-min+1)
}

// Float64 returns a value in [0,1)
func (dr *DiceRoller) Float64() float64 {
	return dr.rng.Float64()
}

// Chance reports true with probability p
func (dr *DiceRoller) Chance(p float64) bool {
	return dr.rng.Float64() < p
}

// Weighted picks an index with probability proportional to weights.
// A zero total picks index 0.
func (dr *DiceRoller) Weighted(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0
	}
	roll := dr.rng.Float64() * total
	for i, w := range weights {
		roll -= w
		if roll <= 0 {
			return i
		}
	}
	return len(weights) - 1
}

// Read fills p from the stream, so the roller can seed uuid generation
func (dr *DiceRoller) Read(p []byte) (int, error) {
	for i := 0; i < len(p); i += 8 {
		v := dr.rng.Uint64()
		for j := 0; j < 8 && i+j < len(p); j++ {
			p[i+j] = byte(v >> (8 * j))
		}
	}
	return len(p), nil
}

// NewID returns a random UUID drawn from the stream
func (dr *DiceRoller) NewID() string {
	id, err := uuid.NewRandomFromReader(dr)
	if err != nil {
		// Read never fails
		panic(err)
	}
	return id.String()
}

// MarshalBinary captures the stream position so a restored session continues identically
func (dr *DiceRoller) MarshalBinary() ([]byte, error) {
	return dr.src.MarshalBinary()
}

// UnmarshalBinary restores a stream position captured by MarshalBinary
func (dr *DiceRoller) UnmarshalBinary(data []byte) error {
	if dr.src == nil {
		dr.src = &rand.PCG{}
	}
	if err := dr.src.UnmarshalBinary(data); err != nil {
		return err
	}
	dr.rng = rand.New(dr.src)
	return nil
}

// DataLoader handles loading roster data from files
type DataLoader struct {
	path string
}

// NewDataLoader creates a new data loader
func NewDataLoader(path string) *DataLoader {
	return &DataLoader{
		path: path,
	}
}

// Exists reports whether the roster file is present
func (dl *DataLoader) Exists() bool {
	_, err := os.Stat(dl.path)
	return err == nil
}

// LoadRoster loads the roster import file
func (dl *DataLoader) LoadRoster() (*Roster, error) {
	data, err := os.ReadFile(dl.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}

	var roster Roster
	if err := json.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("failed to parse roster data: %w", err)
	}

	return &roster, nil
}

// SaveRoster writes a roster to the loader's path
func (dl *DataLoader) SaveRoster(roster *Roster) error {
	data, err := json.MarshalIndent(roster, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal roster: %w", err)
	}
	if err := os.WriteFile(dl.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write roster: %w", err)
	}
	return nil
}

// sortedKeys returns the keys of m in ascending order; map iteration order
// would otherwise leak into the random stream.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// notify appends a message to the user's inbox
func notify(state *types.GameState, dice *DiceRoller, kind, message string) {
	state.Inbox = append(state.Inbox, types.Notification{
		ID:      dice.NewID(),
		Date:    state.CurrentDate,
		Kind:    kind,
		Message: message,
	})
}
