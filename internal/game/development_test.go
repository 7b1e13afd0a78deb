package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/football-manager/internal/types"
	"go.uber.org/zap"
)

func TestCalculateOverallUniform(t *testing.T) {
	for _, pos := range types.Positions {
		attrs := uniformAttributes(72, pos == types.PosGK)
		assert.Equal(t, 72, CalculateOverall(pos, &attrs), pos)
	}

	// A keeper record without goalkeeping fields rates them as 50
	attrs := uniformAttributes(90, false)
	assert.Equal(t, 50, CalculateOverall(types.PosGK, &attrs))
}

func TestCalculateOverallWeights(t *testing.T) {
	attrs := uniformAttributes(50, false)
	attrs.Finishing = 90

	// Finishing carries a quarter of a striker's rating and nothing for a defender
	assert.Equal(t, 60, CalculateOverall(types.PosST, &attrs))
	assert.Equal(t, 50, CalculateOverall(types.PosCB, &attrs))
}

func TestGenerateAttributesInRange(t *testing.T) {
	pd := NewPlayerDevelopment(zap.NewNop())
	dice := NewDiceRoller(11)

	for _, pos := range types.Positions {
		for _, overall := range []int{1, 40, 75, 99} {
			attrs := pd.GenerateAttributes(pos, overall, 30, dice)
			for _, attr := range attrs.Present() {
				v, ok := attrs.Get(attr)
				require.True(t, ok)
				assert.GreaterOrEqual(t, v, 1)
				assert.LessOrEqual(t, v, 99)
			}
			assert.Equal(t, pos == types.PosGK, attrs.Goalkeeping != nil)
		}
	}
}

func TestGeneratePotential(t *testing.T) {
	pd := NewPlayerDevelopment(zap.NewNop())
	dice := NewDiceRoller(5)

	for age := 16; age <= 36; age++ {
		for _, overall := range []int{40, 70, 95, 99} {
			potential := pd.GeneratePotential(age, overall, dice)
			assert.GreaterOrEqual(t, potential, overall)
			assert.LessOrEqual(t, potential, 99)
		}
	}

	// Teenagers get at least fifteen points of headroom when there is room for it
	assert.GreaterOrEqual(t, pd.GeneratePotential(17, 50, dice), 65)
}

func TestProcessWeekly(t *testing.T) {
	state := types.NewGameState(testStart)
	low := testPlayer("low", types.PosCM, 60)
	low.Morale = 40
	low.Condition = 50
	high := testPlayer("high", types.PosCM, 60)
	high.Morale = 80
	hurt := testPlayer("hurt", types.PosCM, 60)
	hurt.Injured = true
	hurt.Condition = 40
	for _, p := range []*types.Player{low, high, hurt} {
		state.Players[p.ID] = p
	}

	NewPlayerDevelopment(zap.NewNop()).ProcessWeekly(state, NewDiceRoller(1))

	assert.Equal(t, 42, low.Morale)
	assert.Equal(t, 60, low.Condition)
	assert.Equal(t, 79, high.Morale)
	assert.Equal(t, 100, high.Condition)
	assert.Equal(t, 40, hurt.Condition)
}

func TestNudgeUpRespectsPotential(t *testing.T) {
	pd := NewPlayerDevelopment(zap.NewNop())
	dice := NewDiceRoller(2)
	player := testPlayer("p", types.PosST, 60)
	player.Potential = 62

	for i := 0; i < 500; i++ {
		pd.nudgeUp(player, dice)
		assert.LessOrEqual(t, player.Overall, player.Potential)
		assert.Equal(t, CalculateOverall(player.Position, &player.Attributes), player.Overall)
	}
	assert.Equal(t, 62, player.Overall)
}

func TestProcessSeasonEndKeepsInvariants(t *testing.T) {
	state, dice := newTestState(t, 4)
	pd := NewPlayerDevelopment(zap.NewNop())

	ages := make(map[string]int)
	for id, p := range state.Players {
		ages[id] = p.Age
		p.SeasonStats.Goals = 3
	}

	for season := 1; season <= 5; season++ {
		pd.ProcessSeasonEnd(state, dice)

		for id, p := range state.Players {
			assert.Equal(t, ages[id]+season, p.Age)
			assert.LessOrEqual(t, p.Overall, p.Potential, id)
			assert.Equal(t, CalculateOverall(p.Position, &p.Attributes), p.Overall)
			assert.Zero(t, p.SeasonStats.Goals)
			for _, attr := range p.Attributes.Present() {
				v, _ := p.Attributes.Get(attr)
				assert.GreaterOrEqual(t, v, 1)
				assert.LessOrEqual(t, v, 99)
			}
		}
	}
}

func TestVeteransDecline(t *testing.T) {
	pd := NewPlayerDevelopment(zap.NewNop())
	dice := NewDiceRoller(4)
	state := types.NewGameState(testStart)
	veteran := testPlayer("vet", types.PosRW, 80)
	veteran.Age = 34
	state.Players[veteran.ID] = veteran

	for i := 0; i < 10; i++ {
		pd.ProcessSeasonEnd(state, dice)
	}

	assert.Equal(t, 44, veteran.Age)
	assert.Less(t, veteran.Overall, 80)
}
