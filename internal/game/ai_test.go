package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/football-manager/internal/types"
	"go.uber.org/zap"
)

func newTestAI(state *types.GameState) *ClubAI {
	dice := NewDiceRoller(9)
	market := NewTransferMarket(state, dice, zap.NewNop())
	return NewClubAI(state, market, dice, zap.NewNop())
}

func TestAnalyzeSquadWeaknesses(t *testing.T) {
	state := types.NewGameState(testStart)
	team := addTeam(state, "t",
		testPlayer("gk", types.PosGK, 70),
		testPlayer("cb1", types.PosCB, 70),
		testPlayer("cb2", types.PosCB, 70),
		testPlayer("cb3", types.PosCB, 70),
		testPlayer("cb4", types.PosCB, 70),
		testPlayer("cm1", types.PosCM, 60),
	)

	weak := newTestAI(state).AnalyzeSquadWeaknesses(team)

	// Shortages first, in priority order, then thin quality
	assert.Equal(t, []types.Position{
		types.PosGK, types.PosRB, types.PosLB, types.PosCDM, types.PosCM,
		types.PosCAM, types.PosRW, types.PosLW, types.PosST,
	}, weak)
	assert.NotContains(t, weak, types.PosCB)
}

func TestAnalyzeSquadWeaknessesQuality(t *testing.T) {
	state := types.NewGameState(testStart)
	players := make([]*types.Player, 0)
	for _, req := range squadMinimums {
		for i := 0; i < req.min; i++ {
			players = append(players, testPlayer(string(req.pos)+string(rune('0'+i)), req.pos, 70))
		}
	}
	players[len(players)-1].Overall = 60
	players[len(players)-2].Overall = 60
	team := addTeam(state, "t", players...)

	assert.Equal(t, []types.Position{types.PosST}, newTestAI(state).AnalyzeSquadWeaknesses(team))
}

func TestChooseFormation(t *testing.T) {
	build := func(counts map[types.Position]int) []*types.Player {
		players := make([]*types.Player, 0)
		for pos, n := range counts {
			for i := 0; i < n; i++ {
				players = append(players, testPlayer(string(pos)+string(rune('a'+i)), pos, 60))
			}
		}
		return players
	}

	assert.Equal(t, "4-3-3", ChooseFormation(build(map[types.Position]int{types.PosCM: 4, types.PosST: 2, types.PosRW: 1, types.PosLW: 1})))
	assert.Equal(t, "4-5-1", ChooseFormation(build(map[types.Position]int{types.PosCM: 5, types.PosST: 1})))
	assert.Equal(t, "5-3-2", ChooseFormation(build(map[types.Position]int{types.PosCB: 5, types.PosCM: 3})))
	assert.Equal(t, "4-4-2", ChooseFormation(build(map[types.Position]int{types.PosCB: 4, types.PosCM: 4, types.PosST: 2})))
	assert.Equal(t, defaultFormation, ChooseFormation(nil))
}

func TestSelectBestLineup(t *testing.T) {
	squad := fullSquad("p", 60)
	squad[11].Overall = 75 // reserve keeper outrates the first choice

	lineup := SelectBestLineup(squad, "4-4-2")

	require.Len(t, lineup, lineupSize)
	assert.Equal(t, squad[11].ID, lineup[0].ID)
	seen := make(map[string]bool)
	for i, p := range lineup {
		assert.False(t, seen[p.ID], "player %s picked twice", p.ID)
		seen[p.ID] = true
		assert.True(t, CanPlay(p.Position, Formations["4-4-2"][i]), "%s in slot %s", p.Position, Formations["4-4-2"][i])
	}

	// Unknown formations fall back to the default shape
	assert.Len(t, SelectBestLineup(squad, "2-2-6"), lineupSize)
}

func TestSelectBestLineupPrefersNaturalPosition(t *testing.T) {
	natural := testPlayer("natural", types.PosRB, 60)
	covering := testPlayer("covering", types.PosRM, 64)

	lineup := SelectBestLineup([]*types.Player{covering, natural}, "4-4-2")

	// natural takes RB on the bonus, covering then takes RM
	require.Len(t, lineup, 2)
	assert.Equal(t, "natural", lineup[0].ID)
	assert.Equal(t, "covering", lineup[1].ID)
}

func TestSuggestLineupSkipsUnavailable(t *testing.T) {
	state := types.NewGameState(testStart)
	squad := fullSquad("p", 60)
	squad[0].Injured = true
	addTeam(state, "t", squad...)

	ids, formation := newTestAI(state).SuggestLineup("t")

	// Five midfielders remain available
	assert.Equal(t, "4-5-1", formation)
	assert.Len(t, ids, lineupSize)
	assert.NotContains(t, ids, squad[0].ID)
	assert.Contains(t, ids, squad[11].ID)

	ids, formation = newTestAI(state).SuggestLineup("missing")
	assert.Empty(t, ids)
	assert.Equal(t, defaultFormation, formation)
}

func TestPlanNextSeason(t *testing.T) {
	state := types.NewGameState(testStart)
	state.UserTeamID = "user"
	veterans := fullSquad("v", 60)
	for _, p := range veterans {
		p.Age = 31
	}
	top := addTeam(state, "top", veterans...)
	top.SeasonStats.Position = 2
	top.AIPersonality.TransferActivity = types.ActivityAggressive
	bottom := addTeam(state, "bottom", fullSquad("b", 60)...)
	bottom.SeasonStats.Position = 19
	user := addTeam(state, "user", fullSquad("u", 60)...)
	user.SeasonStats.Position = 20

	newTestAI(state).ProcessSeasonEnd()

	assert.Equal(t, types.ActivityModerate, top.AIPersonality.TransferActivity)
	assert.Equal(t, 70, top.AIPersonality.YouthFocus)
	assert.Equal(t, types.ActivityAggressive, bottom.AIPersonality.TransferActivity)
	assert.Equal(t, 70, bottom.AIPersonality.RiskTolerance)
	assert.Equal(t, 50, bottom.AIPersonality.YouthFocus)

	// The user's club is never touched
	assert.Equal(t, types.ActivityModerate, user.AIPersonality.TransferActivity)
	assert.Equal(t, 50, user.AIPersonality.RiskTolerance)
}

func TestProcessDailyDebtMakesClubAggressive(t *testing.T) {
	state := types.NewGameState(testStart)
	state.UserTeamID = "user"
	broke := addTeam(state, "broke", fullSquad("b", 60)...)
	broke.Budget = -1
	user := addTeam(state, "user", fullSquad("u", 60)...)
	user.Budget = -1

	newTestAI(state).ProcessDaily()

	assert.Equal(t, types.ActivityAggressive, broke.AIPersonality.TransferActivity)
	assert.Equal(t, types.ActivityModerate, user.AIPersonality.TransferActivity)
}

func TestRebidMeetsCounter(t *testing.T) {
	state, market := newMarketState()
	state.UserTeamID = "ai"
	state.Teams["user"].Budget = 10000000
	ai := NewClubAI(state, market, NewDiceRoller(1), zap.NewNop())

	// "user" is AI-controlled here; its bid for a player of the human club "ai" is countered
	offer, ok := market.MakeOffer("ab", "user", 1000)
	require.True(t, ok)
	require.True(t, market.RespondToOffer(offer.ID, types.ResponseCounter, 20000))

	ai.rebid(state.Teams["user"])
	require.Len(t, state.Offers, 2)
	assert.Equal(t, int64(20000), state.Offers[1].Amount)
	assert.True(t, state.Offers[1].Pending())

	// The following day the counter is stale
	state.CurrentDate = state.CurrentDate.AddDate(0, 0, 1)
	ai.rebid(state.Teams["user"])
	assert.Len(t, state.Offers, 2)
}

func TestCanPlay(t *testing.T) {
	assert.True(t, CanPlay(types.PosST, types.PosST))
	assert.True(t, CanPlay(types.PosCB, types.PosCDM))
	assert.False(t, CanPlay(types.PosGK, types.PosCB))
	assert.False(t, CanPlay(types.PosCB, types.PosGK))
}
