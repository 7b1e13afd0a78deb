package game

import (
	"math"

	"github.com/user/football-manager/internal/types"
	"go.uber.org/zap"
)

// physicalDeclineChance is the share of decline nudges that hit a physical attribute
const physicalDeclineChance = 0.6

// moraleBaseline is the value morale drifts toward each week
const moraleBaseline = 60

type attributeWeight struct {
	attr   types.Attribute
	weight int
}

var (
	goalkeeperWeights = []attributeWeight{
		{types.AttrReflexes, 25}, {types.AttrHandling, 20}, {types.AttrGKPositioning, 20},
		{types.AttrDiving, 20}, {types.AttrKicking, 15},
	}
	defenderWeights = []attributeWeight{
		{types.AttrTackling, 20}, {types.AttrPositioning, 15}, {types.AttrStrength, 15}, {types.AttrHeading, 15},
		{types.AttrPace, 10}, {types.AttrPassing, 10}, {types.AttrStamina, 10}, {types.AttrComposure, 5},
	}
	centralMidfielderWeights = []attributeWeight{
		{types.AttrPassing, 20}, {types.AttrVision, 15}, {types.AttrTackling, 15}, {types.AttrStamina, 15},
		{types.AttrPositioning, 10}, {types.AttrFirstTouch, 10}, {types.AttrWorkRate, 10}, {types.AttrShooting, 5},
	}
	attackingMidfielderWeights = []attributeWeight{
		{types.AttrPassing, 18}, {types.AttrVision, 15}, {types.AttrDribbling, 15}, {types.AttrPace, 12},
		{types.AttrShooting, 12}, {types.AttrFirstTouch, 10}, {types.AttrCrossing, 10}, {types.AttrStamina, 8},
	}
	wingerWeights = []attributeWeight{
		{types.AttrPace, 20}, {types.AttrDribbling, 18}, {types.AttrCrossing, 15}, {types.AttrPassing, 12},
		{types.AttrShooting, 12}, {types.AttrFirstTouch, 10}, {types.AttrAgility, 8}, {types.AttrStamina, 5},
	}
	strikerWeights = []attributeWeight{
		{types.AttrFinishing, 25}, {types.AttrShooting, 20}, {types.AttrPositioning, 15}, {types.AttrHeading, 10},
		{types.AttrFirstTouch, 10}, {types.AttrPace, 10}, {types.AttrComposure, 10},
	}
)

func overallWeights(pos types.Position) []attributeWeight {
	switch pos {
	case types.PosGK:
		return goalkeeperWeights
	case types.PosCB, types.PosRB, types.PosLB:
		return defenderWeights
	case types.PosCDM, types.PosCM:
		return centralMidfielderWeights
	case types.PosCAM, types.PosRM, types.PosLM:
		return attackingMidfielderWeights
	case types.PosRW, types.PosLW:
		return wingerWeights
	}
	return strikerWeights
}

// CalculateOverall derives the overall rating from the position-weighted attributes.
// Attributes the record does not carry count as 50.
func CalculateOverall(pos types.Position, attrs *types.Attributes) int {
	total, weightSum := 0, 0
	for _, w := range overallWeights(pos) {
		total += attrs.GetOr(w.attr, 50) * w.weight
		weightSum += w.weight
	}
	return int(math.Round(float64(total) / float64(weightSum)))
}

// positionBonus skews generated attributes toward what a position needs
var positionBonus = map[types.Position]map[types.Attribute]int{
	types.PosGK:  {types.AttrReflexes: 20, types.AttrHandling: 15, types.AttrDiving: 15, types.AttrGKPositioning: 15, types.AttrKicking: 10},
	types.PosCB:  {types.AttrTackling: 15, types.AttrHeading: 15, types.AttrStrength: 15, types.AttrPositioning: 10},
	types.PosRB:  {types.AttrPace: 15, types.AttrTackling: 10, types.AttrCrossing: 10, types.AttrStamina: 10},
	types.PosLB:  {types.AttrPace: 15, types.AttrTackling: 10, types.AttrCrossing: 10, types.AttrStamina: 10},
	types.PosCDM: {types.AttrTackling: 15, types.AttrPassing: 10, types.AttrPositioning: 10, types.AttrStrength: 10},
	types.PosCM:  {types.AttrPassing: 15, types.AttrVision: 10, types.AttrStamina: 10, types.AttrFirstTouch: 10},
	types.PosCAM: {types.AttrVision: 15, types.AttrPassing: 15, types.AttrDribbling: 10, types.AttrShooting: 10},
	types.PosRM:  {types.AttrPace: 15, types.AttrCrossing: 15, types.AttrDribbling: 10},
	types.PosLM:  {types.AttrPace: 15, types.AttrCrossing: 15, types.AttrDribbling: 10},
	types.PosRW:  {types.AttrPace: 20, types.AttrDribbling: 15, types.AttrCrossing: 10},
	types.PosLW:  {types.AttrPace: 20, types.AttrDribbling: 15, types.AttrCrossing: 10},
	types.PosST:  {types.AttrFinishing: 20, types.AttrShooting: 15, types.AttrPositioning: 10},
	types.PosCF:  {types.AttrFinishing: 15, types.AttrShooting: 15, types.AttrDribbling: 10, types.AttrVision: 10},
}

// PlayerDevelopment evolves player attributes on weekly and season cadences
type PlayerDevelopment struct {
	logger *zap.Logger
}

// NewPlayerDevelopment creates a development system
func NewPlayerDevelopment(logger *zap.Logger) *PlayerDevelopment {
	return &PlayerDevelopment{logger: logger}
}

// GenerateAttributes builds an attribute record around a target overall
func (pd *PlayerDevelopment) GenerateAttributes(pos types.Position, overall, age int, dice *DiceRoller) types.Attributes {
	bonus := positionBonus[pos]
	roll := func(offset int, attr types.Attribute) int {
		variance := dice.IntN(20) - 10
		return types.ClampAttribute(overall + offset + variance + bonus[attr])
	}

	attrs := types.Attributes{
		Passing:    roll(0, types.AttrPassing),
		Shooting:   roll(0, types.AttrShooting),
		Dribbling:  roll(0, types.AttrDribbling),
		Tackling:   roll(-10, types.AttrTackling),
		Heading:    roll(-5, types.AttrHeading),
		Crossing:   roll(-5, types.AttrCrossing),
		Finishing:  roll(-5, types.AttrFinishing),
		FirstTouch: roll(0, types.AttrFirstTouch),
		FreeKick:   types.ClampAttribute(overall - 10 + dice.IntN(20) - 10),
		Penalty:    types.ClampAttribute(overall - 5 + dice.IntN(20) - 10),

		Pace:     roll(0, types.AttrPace),
		Strength: roll(-5, types.AttrStrength),
		Stamina:  roll(0, types.AttrStamina),
		Agility:  types.ClampAttribute(overall + dice.IntN(20) - 10),
		Jumping:  types.ClampAttribute(overall - 5 + dice.IntN(20) - 10),

		Vision:      roll(-5, types.AttrVision),
		Composure:   types.ClampAttribute(overall - 5 + dice.IntN(20) - 10),
		Aggression:  types.ClampAttribute(50 + dice.IntN(30)),
		Positioning: roll(0, types.AttrPositioning),
		WorkRate:    types.ClampAttribute(60 + dice.IntN(30)),
		Leadership:  types.ClampAttribute(30 + age + dice.IntN(20)),
	}

	if pos == types.PosGK {
		attrs.Goalkeeping = &types.GoalkeepingAttributes{
			Reflexes:    types.ClampAttribute(overall + dice.IntN(20) - 10 + 15),
			Handling:    types.ClampAttribute(overall + dice.IntN(20) - 10 + 10),
			Positioning: types.ClampAttribute(overall + dice.IntN(20) - 10 + 10),
			Diving:      types.ClampAttribute(overall + dice.IntN(20) - 10 + 10),
			Kicking:     types.ClampAttribute(overall + dice.IntN(20) - 10),
		}
	}

	return attrs
}

// GeneratePotential rolls a growth ceiling; younger players get more headroom
func (pd *PlayerDevelopment) GeneratePotential(age, overall int, dice *DiceRoller) int {
	var potential int
	switch {
	case age < 19:
		potential = overall + 15 + dice.IntN(15)
	case age < 22:
		potential = overall + 10 + dice.IntN(10)
	case age < 25:
		potential = overall + 5 + dice.IntN(5)
	default:
		potential = overall + dice.IntN(3)
	}
	return clampInt(potential, overall, 99)
}

func improvementChance(age int) float64 {
	switch {
	case age < 21:
		return 0.15
	case age < 24:
		return 0.10
	case age < 28:
		return 0.05
	}
	return 0.02
}

// ProcessWeekly runs a training week for every player
func (pd *PlayerDevelopment) ProcessWeekly(state *types.GameState, dice *DiceRoller) {
	improved := 0
	for _, id := range sortedKeys(state.Players) {
		player := state.Players[id]
		if player.Injured {
			continue
		}

		if dice.Chance(improvementChance(player.Age)) && pd.nudgeUp(player, dice) {
			improved++
		}

		player.Condition = clampInt(player.Condition+10, 0, 100)

		if player.Morale < moraleBaseline {
			player.Morale = min(moraleBaseline, player.Morale+2)
		} else if player.Morale > moraleBaseline {
			player.Morale = max(moraleBaseline, player.Morale-1)
		}
	}

	pd.logger.Debug("Processed weekly training", zap.Int("improved", improved))
}

// ProcessSeasonEnd ages every player one year, applies growth or decline and
// resets season statistics
func (pd *PlayerDevelopment) ProcessSeasonEnd(state *types.GameState, dice *DiceRoller) {
	for _, id := range sortedKeys(state.Players) {
		player := state.Players[id]
		player.Age++

		switch {
		case player.Age < 24:
			pd.applyGrowth(player, 2, 5, dice)
		case player.Age < 28:
			pd.applyGrowth(player, 0, 2, dice)
		case player.Age < 32:
			pd.applyDecline(player, 0, 2, dice)
		default:
			pd.applyDecline(player, 2, 5, dice)
		}

		player.Overall = CalculateOverall(player.Position, &player.Attributes)
		player.SeasonStats = types.PlayerSeasonStats{}
	}

	pd.logger.Info("Processed season-end development", zap.Int("players", len(state.Players)))
}

func (pd *PlayerDevelopment) applyGrowth(player *types.Player, lo, hi int, dice *DiceRoller) {
	if player.Overall >= player.Potential {
		return
	}
	growth := min(dice.Between(lo, hi), player.Potential-player.Overall)
	for i := 0; i < growth; i++ {
		if !pd.nudgeUp(player, dice) {
			return
		}
	}
}

// nudgeUp raises one random attribute by 1 and refreshes the cached overall.
// A nudge that would lift overall past potential is undone and reported false.
func (pd *PlayerDevelopment) nudgeUp(player *types.Player, dice *DiceRoller) bool {
	present := player.Attributes.Present()
	attr := present[dice.IntN(len(present))]
	before := player.Attributes.GetOr(attr, 0)
	if before >= 99 {
		return false
	}

	player.Attributes.Adjust(attr, 1)
	overall := CalculateOverall(player.Position, &player.Attributes)
	if overall > player.Potential {
		player.Attributes.Adjust(attr, -1)
		return false
	}
	player.Overall = overall
	return true
}

func (pd *PlayerDevelopment) applyDecline(player *types.Player, lo, hi int, dice *DiceRoller) {
	decline := dice.Between(lo, hi)
	for i := 0; i < decline; i++ {
		var attr types.Attribute
		if dice.Chance(physicalDeclineChance) {
			attr = types.PhysicalAttributes[dice.IntN(len(types.PhysicalAttributes))]
		} else {
			present := player.Attributes.Present()
			attr = present[dice.IntN(len(present))]
		}
		player.Attributes.Adjust(attr, -1)
	}
}
