package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/user/football-manager/config"
	"github.com/user/football-manager/internal/types"
	"go.uber.org/zap"
)

var testStart = time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC)

// newTestState builds a one-group league of the given size from a synthetic roster.
// The user manages team001.
func newTestState(t *testing.T, teams int) (*types.GameState, *DiceRoller) {
	t.Helper()

	dice := NewDiceRoller(7)
	roster := GenerateRoster(config.SyntheticRosterConfig{
		Leagues:         1,
		GroupsPerLeague: 1,
		TeamsPerGroup:   teams,
		SquadSize:       24,
	}, dice)

	state, err := BuildGameState(roster, BootstrapOptions{
		ManagerName: "Tester",
		StartYear:   2024,
	}, dice, zap.NewNop())
	require.NoError(t, err)
	return state, dice
}

// uniformAttributes sets every attribute to v
func uniformAttributes(v int, goalkeeper bool) types.Attributes {
	attrs := types.Attributes{
		Passing: v, Shooting: v, Dribbling: v, Tackling: v, Heading: v, Crossing: v, Finishing: v,
		FirstTouch: v, FreeKick: v, Penalty: v, Pace: v, Strength: v, Stamina: v, Agility: v, Jumping: v,
		Vision: v, Composure: v, Aggression: v, Positioning: v, WorkRate: v, Leadership: v,
	}
	if goalkeeper {
		attrs.Goalkeeping = &types.GoalkeepingAttributes{Reflexes: v, Handling: v, Positioning: v, Diving: v, Kicking: v}
	}
	return attrs
}

func testPlayer(id string, pos types.Position, overall int) *types.Player {
	return &types.Player{
		ID:              id,
		Name:            "Player " + id,
		Position:        pos,
		Age:             25,
		Attributes:      uniformAttributes(overall, pos == types.PosGK),
		Overall:         overall,
		Potential:       overall,
		ContractEnd:     testStart.AddDate(3, 0, 0),
		Salary:          1000,
		Condition:       100,
		Morale:          60,
		TransferHistory: make([]types.TransferRecord, 0),
	}
}

// addTeam registers a team holding players in a fresh state
func addTeam(state *types.GameState, id string, players ...*types.Player) *types.Team {
	team := &types.Team{
		ID:        id,
		Name:      "Team " + id,
		League:    "primeraFederacion",
		Group:     "group1",
		PlayerIDs: make([]string, 0, len(players)),
		Formation: defaultFormation,
		Budget:    1000000,
		AIPersonality: types.AIPersonality{
			TransferActivity: types.ActivityModerate,
			YouthFocus:       50,
			RiskTolerance:    50,
		},
	}
	for _, p := range players {
		p.TeamID = id
		state.Players[p.ID] = p
		team.PlayerIDs = append(team.PlayerIDs, p.ID)
	}
	refreshWages(state, team)
	team.WagesBudget = team.CurrentWages * 2
	state.Teams[id] = team
	return team
}

// fullSquad returns an eleven covering 4-4-2 plus two substitutes
func fullSquad(prefix string, overall int) []*types.Player {
	positions := []types.Position{
		types.PosGK, types.PosRB, types.PosCB, types.PosCB, types.PosLB,
		types.PosRM, types.PosCM, types.PosCM, types.PosLM, types.PosST, types.PosST,
		types.PosGK, types.PosCM,
	}
	players := make([]*types.Player, len(positions))
	for i, pos := range positions {
		players[i] = testPlayer(prefix+string(rune('a'+i)), pos, overall)
	}
	return players
}
