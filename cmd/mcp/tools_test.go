package main

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/football-manager/config"
	"github.com/user/football-manager/internal/game"
	"github.com/user/football-manager/internal/types"
	"go.uber.org/zap"
)

func newTestToolset(t *testing.T) (*toolset, *game.GameManager) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Game.Seed = 3
	cfg.Game.RosterPath = filepath.Join(t.TempDir(), "roster.json")
	cfg.Game.Synthetic = config.SyntheticRosterConfig{Leagues: 1, GroupsPerLeague: 1, TeamsPerGroup: 4, SquadSize: 22}

	gm, err := game.NewGame(cfg, zap.NewNop())
	require.NoError(t, err)
	return newToolset(gm), gm
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestAdvanceDays(t *testing.T) {
	ctx := context.Background()
	ts, gm := newTestToolset(t)
	start := gm.CurrentDate()

	// Test case 1: default of one day
	res, _, err := ts.advanceDays(ctx, nil, AdvanceArgs{})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, start.AddDate(0, 0, 1), gm.CurrentDate())

	// Test case 2: several days
	res, _, _ = ts.advanceDays(ctx, nil, AdvanceArgs{Days: 4})
	assert.Contains(t, resultText(t, res), start.AddDate(0, 0, 5).Format("2006-01-02"))

	// Test case 3: out of range
	res, _, _ = ts.advanceDays(ctx, nil, AdvanceArgs{Days: maxAdvanceDays + 1})
	assert.True(t, res.IsError)
	assert.Equal(t, start.AddDate(0, 0, 5), gm.CurrentDate())

	// Test case 4: cancelled context stops before simulating
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	res, _, _ = ts.advanceDays(cancelled, nil, AdvanceArgs{Days: 3})
	assert.True(t, res.IsError)
	assert.Equal(t, start.AddDate(0, 0, 5), gm.CurrentDate())
}

func TestGetTeamTool(t *testing.T) {
	ctx := context.Background()
	ts, _ := newTestToolset(t)

	res, _, err := ts.getTeam(ctx, nil, TeamArgs{TeamID: "team001"})
	require.NoError(t, err)
	var team types.Team
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &team))
	assert.Equal(t, "team001", team.ID)
	assert.Len(t, team.PlayerIDs, 22)

	res, _, _ = ts.getTeam(ctx, nil, TeamArgs{TeamID: "nope"})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "not found")
}

func TestLineupTools(t *testing.T) {
	ctx := context.Background()
	ts, gm := newTestToolset(t)

	res, _, _ := ts.suggestedLineup(ctx, nil, TeamArgs{TeamID: "team001"})
	var suggestion struct {
		PlayerIDs []string `json:"player_ids"`
		Formation string   `json:"formation"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &suggestion))
	require.Len(t, suggestion.PlayerIDs, 11)

	res, _, _ = ts.setLineup(ctx, nil, LineupArgs{TeamID: "team001", PlayerIDs: suggestion.PlayerIDs, Formation: suggestion.Formation})
	assert.False(t, res.IsError)
	team, _ := gm.GetTeam("team001")
	assert.Equal(t, suggestion.PlayerIDs, team.Lineup)

	res, _, _ = ts.setLineup(ctx, nil, LineupArgs{TeamID: "team001", PlayerIDs: suggestion.PlayerIDs[:5], Formation: "4-4-2"})
	assert.True(t, res.IsError)
}

func TestOfferTools(t *testing.T) {
	ctx := context.Background()
	ts, gm := newTestToolset(t)
	other, _ := gm.GetTeam("team002")

	// Test case 1: a bid in the open window
	res, _, _ := ts.makeOffer(ctx, nil, OfferArgs{PlayerID: other.PlayerIDs[3], BuyerTeamID: "team001", Amount: 100000})
	require.False(t, res.IsError, resultText(t, res))
	var created map[string]string
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &created))
	assert.NotEmpty(t, created["offer_id"])

	res, _, _ = ts.listOffers(ctx, nil, OffersArgs{TeamID: "team001"})
	assert.Contains(t, resultText(t, res), created["offer_id"])

	// Test case 2: invalid response names never reach the market
	res, _, _ = ts.respondOffer(ctx, nil, RespondArgs{OfferID: created["offer_id"], Response: "maybe"})
	assert.True(t, res.IsError)

	// Test case 3: unknown offers
	res, _, _ = ts.respondOffer(ctx, nil, RespondArgs{OfferID: "missing", Response: "accept"})
	assert.True(t, res.IsError)
}

func TestSimulateMatchTool(t *testing.T) {
	ctx := context.Background()
	ts, gm := newTestToolset(t)
	match := gm.GetUpcomingMatches("team001", 1)[0]

	first, _, _ := ts.simulateMatch(ctx, nil, SimulateArgs{MatchID: match.ID, Seed: 9})
	second, _, _ := ts.simulateMatch(ctx, nil, SimulateArgs{MatchID: match.ID, Seed: 9})
	assert.Equal(t, resultText(t, first), resultText(t, second))

	res, _, _ := ts.simulateMatch(ctx, nil, SimulateArgs{MatchID: "missing"})
	assert.True(t, res.IsError)
}

func TestSessionTools(t *testing.T) {
	ctx := context.Background()
	ts, gm := newTestToolset(t)

	// Test case 1: no storage configured
	res, _, _ := ts.saveGame(ctx, nil, NoArgs{})
	assert.True(t, res.IsError)

	// Test case 2: save, advance, load
	gm.SetStorage(game.NewGameStateStorage(filepath.Join(t.TempDir(), "game.json")))
	res, _, _ = ts.saveGame(ctx, nil, NoArgs{})
	require.False(t, res.IsError)
	saved := gm.CurrentDate()

	ts.advanceDays(ctx, nil, AdvanceArgs{Days: 2})
	res, _, _ = ts.loadGame(ctx, nil, NoArgs{})
	require.False(t, res.IsError)
	assert.Equal(t, saved, gm.CurrentDate())

	res, _, _ = ts.finances(ctx, nil, TeamArgs{TeamID: "team001"})
	assert.Contains(t, resultText(t, res), "projected_balance")
}
