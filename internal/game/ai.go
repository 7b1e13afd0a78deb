package game

import (
	"math"

	"github.com/user/football-manager/internal/types"
	"go.uber.org/zap"
)

const (
	dailyDecisionChance = 0.1
	weakQuality         = 65
	maxBudgetShare      = 0.3
	naturalSlotBonus    = 5
	defaultFormation    = "4-4-2"
)

// squadMinimums is the smallest healthy count per position, in priority order
var squadMinimums = []struct {
	pos types.Position
	min int
}{
	{types.PosGK, 2}, {types.PosCB, 4}, {types.PosRB, 2}, {types.PosLB, 2}, {types.PosCDM, 2},
	{types.PosCM, 3}, {types.PosCAM, 1}, {types.PosRW, 2}, {types.PosLW, 2}, {types.PosST, 2},
}

// actChance is the probability a club with a weakness goes to the market
var actChance = map[string]float64{
	types.ActivityPassive:    0.2,
	types.ActivityModerate:   0.5,
	types.ActivityAggressive: 0.8,
}

// Formations maps each known formation to its slots
var Formations = map[string][]types.Position{
	"4-4-2": {types.PosGK, types.PosRB, types.PosCB, types.PosCB, types.PosLB, types.PosRM, types.PosCM, types.PosCM, types.PosLM, types.PosST, types.PosST},
	"4-3-3": {types.PosGK, types.PosRB, types.PosCB, types.PosCB, types.PosLB, types.PosCDM, types.PosCM, types.PosCM, types.PosRW, types.PosST, types.PosLW},
	"4-5-1": {types.PosGK, types.PosRB, types.PosCB, types.PosCB, types.PosLB, types.PosRM, types.PosCM, types.PosCDM, types.PosCM, types.PosLM, types.PosST},
	"5-3-2": {types.PosGK, types.PosRB, types.PosCB, types.PosCB, types.PosCB, types.PosLB, types.PosCM, types.PosCM, types.PosCM, types.PosST, types.PosST},
	"3-5-2": {types.PosGK, types.PosCB, types.PosCB, types.PosCB, types.PosRM, types.PosCM, types.PosCDM, types.PosCM, types.PosLM, types.PosST, types.PosST},
}

// compatible lists the slots a player can cover besides their own
var compatible = map[types.Position][]types.Position{
	types.PosGK:  {},
	types.PosCB:  {types.PosCDM},
	types.PosRB:  {types.PosRM, types.PosRW},
	types.PosLB:  {types.PosLM, types.PosLW},
	types.PosCDM: {types.PosCB, types.PosCM},
	types.PosCM:  {types.PosCDM, types.PosCAM},
	types.PosCAM: {types.PosCM, types.PosCF},
	types.PosRM:  {types.PosRB, types.PosRW},
	types.PosLM:  {types.PosLB, types.PosLW},
	types.PosRW:  {types.PosRM, types.PosST},
	types.PosLW:  {types.PosLM, types.PosST},
	types.PosST:  {types.PosCF, types.PosRW, types.PosLW},
	types.PosCF:  {types.PosST, types.PosCAM},
}

// CanPlay reports whether a player of position pos can fill slot
func CanPlay(pos, slot types.Position) bool {
	if pos == slot {
		return true
	}
	for _, p := range compatible[pos] {
		if p == slot {
			return true
		}
	}
	return false
}

// ClubAI makes transfer and lineup decisions for computer-controlled clubs
type ClubAI struct {
	state  *types.GameState
	market *TransferMarket
	dice   *DiceRoller
	logger *zap.Logger
}

// NewClubAI creates the club AI
func NewClubAI(state *types.GameState, market *TransferMarket, dice *DiceRoller, logger *zap.Logger) *ClubAI {
	return &ClubAI{state: state, market: market, dice: dice, logger: logger}
}

// ProcessDaily gives every AI club its daily chance to act on the market
func (ai *ClubAI) ProcessDaily() {
	for _, id := range sortedKeys(ai.state.Teams) {
		if ai.state.IsUserTeam(id) {
			continue
		}
		team := ai.state.Teams[id]

		if team.Budget < 0 {
			team.AIPersonality.TransferActivity = types.ActivityAggressive
		}

		ai.rebid(team)

		if ai.dice.Chance(dailyDecisionChance) {
			ai.makeTransferDecision(team)
		}
	}
}

// rebid meets the asking price of offers countered today, once
func (ai *ClubAI) rebid(team *types.Team) {
	for _, offer := range ai.state.Offers {
		if offer.BuyerTeamID != team.ID || offer.Status != types.OfferCountered || offer.ClosedAt == nil {
			continue
		}
		if !sameDay(*offer.ClosedAt, ai.state.CurrentDate) {
			continue
		}
		if float64(offer.CounterAmount) > float64(team.Budget)*maxBudgetShare {
			continue
		}
		ai.market.MakeOffer(offer.PlayerID, team.ID, offer.CounterAmount)
	}
}

func (ai *ClubAI) makeTransferDecision(team *types.Team) {
	weaknesses := ai.AnalyzeSquadWeaknesses(team)
	if len(weaknesses) == 0 {
		return
	}
	if !ai.dice.Chance(actChance[team.AIPersonality.TransferActivity]) {
		return
	}

	target := weaknesses[0]
	maxFee := int64(float64(team.Budget) * maxBudgetShare)

	ai.logger.Debug("AI club searching market",
		zap.String("team", team.ID),
		zap.String("position", string(target)),
		zap.Int64("max_fee", maxFee))

	if ai.signFreeAgent(team, target) {
		return
	}
	if !ai.state.TransferWindowOpen || maxFee <= 0 {
		return
	}

	for _, player := range ai.market.FindTargets(target, maxFee, team.ID) {
		if ai.hasOpenBid(team.ID, player.ID) {
			continue
		}
		value := ai.market.CalculateMarketValue(player)
		share := 0.8 + 0.2*float64(team.AIPersonality.RiskTolerance)/100
		bid := min(int64(math.Round(float64(value)*share)), maxFee)
		ai.market.MakeOffer(player.ID, team.ID, bid)
		return
	}
}

func (ai *ClubAI) signFreeAgent(team *types.Team, pos types.Position) bool {
	for _, player := range ai.market.GetFreeAgents() {
		if player.Position != pos {
			continue
		}
		salary := EstimateSalary(ai.market.CalculateMarketValue(player))
		if ai.market.SignFreeAgent(player.ID, team.ID, ai.dice.Between(1, 3), salary) {
			return true
		}
	}
	return false
}

func (ai *ClubAI) hasOpenBid(teamID, playerID string) bool {
	for _, offer := range ai.state.Offers {
		if offer.Pending() && offer.BuyerTeamID == teamID && offer.PlayerID == playerID {
			return true
		}
	}
	return false
}

// AnalyzeSquadWeaknesses lists positions below their minimum count, followed by
// positions whose best player is rated under 65
func (ai *ClubAI) AnalyzeSquadWeaknesses(team *types.Team) []types.Position {
	counts := make(map[types.Position]int)
	best := make(map[types.Position]int)
	for _, player := range ai.state.RosterPlayers(team) {
		counts[player.Position]++
		best[player.Position] = max(best[player.Position], player.Overall)
	}

	weak := make([]types.Position, 0)
	flagged := make(map[types.Position]bool)
	for _, req := range squadMinimums {
		if counts[req.pos] < req.min {
			weak = append(weak, req.pos)
			flagged[req.pos] = true
		}
	}
	for _, pos := range types.Positions {
		if counts[pos] > 0 && best[pos] < weakQuality && !flagged[pos] {
			weak = append(weak, pos)
		}
	}
	return weak
}

// ProcessSeasonEnd adjusts every AI club's personality for the coming season
func (ai *ClubAI) ProcessSeasonEnd() {
	for _, id := range sortedKeys(ai.state.Teams) {
		if ai.state.IsUserTeam(id) {
			continue
		}
		ai.planNextSeason(ai.state.Teams[id])
	}
}

func (ai *ClubAI) planNextSeason(team *types.Team) {
	players := ai.state.RosterPlayers(team)
	personality := &team.AIPersonality

	if len(players) > 0 {
		totalAge := 0
		for _, p := range players {
			totalAge += p.Age
		}
		if float64(totalAge)/float64(len(players)) > 28 {
			personality.YouthFocus = min(100, personality.YouthFocus+20)
		}
	}

	position := team.SeasonStats.Position
	switch {
	case position <= 0:
	case position <= 3:
		personality.TransferActivity = types.ActivityModerate
	case position >= 18:
		personality.TransferActivity = types.ActivityAggressive
		personality.RiskTolerance = min(100, personality.RiskTolerance+20)
	}
}

// SuggestLineup picks a formation for the selectable players and fills it
func (ai *ClubAI) SuggestLineup(teamID string) ([]string, string) {
	team, ok := ai.state.Teams[teamID]
	if !ok {
		return []string{}, defaultFormation
	}

	players := make([]*types.Player, 0, len(team.PlayerIDs))
	for _, p := range ai.state.RosterPlayers(team) {
		if p.Available() {
			players = append(players, p)
		}
	}

	formation := ChooseFormation(players)
	lineup := SelectBestLineup(players, formation)
	ids := make([]string, len(lineup))
	for i, p := range lineup {
		ids[i] = p.ID
	}
	return ids, formation
}

// ChooseFormation picks a formation from positional depth
func ChooseFormation(players []*types.Player) string {
	defenders, midfielders, attackers := 0, 0, 0
	for _, p := range players {
		switch p.Position {
		case types.PosCB, types.PosRB, types.PosLB:
			defenders++
		case types.PosCDM, types.PosCM, types.PosCAM, types.PosRM, types.PosLM:
			midfielders++
		case types.PosST, types.PosCF, types.PosRW, types.PosLW:
			attackers++
		}
	}

	switch {
	case attackers >= 4 && midfielders >= 4:
		return "4-3-3"
	case midfielders >= 5:
		return "4-5-1"
	case defenders >= 5:
		return "5-3-2"
	}
	return defaultFormation
}

// SelectBestLineup fills each slot of formation with the best unused eligible player.
// A player in their natural position scores a bonus; slots nobody can cover stay empty.
func SelectBestLineup(players []*types.Player, formation string) []*types.Player {
	slots, ok := Formations[formation]
	if !ok {
		slots = Formations[defaultFormation]
	}

	type slotScore struct {
		player *types.Player
		score  int
	}

	lineup := make([]*types.Player, 0, len(slots))
	used := make(map[string]bool)
	for _, slot := range slots {
		var best *slotScore
		for _, p := range players {
			if used[p.ID] || !CanPlay(p.Position, slot) {
				continue
			}
			score := p.Overall
			if p.Position == slot {
				score += naturalSlotBonus
			}
			if best == nil || score > best.score {
				best = &slotScore{player: p, score: score}
			}
		}
		if best != nil {
			lineup = append(lineup, best.player)
			used[best.player.ID] = true
		}
	}
	return lineup
}
