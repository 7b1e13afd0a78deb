package game

import (
	"math"
	"sort"

	"github.com/user/football-manager/internal/types"
)

const (
	lineupSize      = 11
	homeAdvantage   = 5.0
	regulationTime  = 90
	eventChance     = 0.05
	assistChance    = 0.7
	redCardShare    = 0.1
	defaultReflexes = 50
	emptyStrength   = 50.0
)

// MatchSimulator resolves a fixture minute by minute
type MatchSimulator struct{}

// NewMatchSimulator creates a match simulator
func NewMatchSimulator() *MatchSimulator {
	return &MatchSimulator{}
}

// side is one team's view of a match in progress
type side struct {
	teamID  string
	lineup  []*types.Player
	sentOff map[string]bool
	index   int
}

func (s *side) active() []*types.Player {
	if len(s.sentOff) == 0 {
		return s.lineup
	}
	players := make([]*types.Player, 0, len(s.lineup))
	for _, p := range s.lineup {
		if !s.sentOff[p.ID] {
			players = append(players, p)
		}
	}
	return players
}

func (s *side) lineupIDs() []string {
	ids := make([]string, len(s.lineup))
	for i, p := range s.lineup {
		ids[i] = p.ID
	}
	return ids
}

// Simulate plays match against state and returns a played copy. Neither the
// match nor the state is modified; identical inputs and dice produce identical output.
func (ms *MatchSimulator) Simulate(match *types.Match, state *types.GameState, dice *DiceRoller) *types.Match {
	home := &side{
		teamID:  match.HomeTeamID,
		lineup:  ms.ResolveLineup(state, state.Teams[match.HomeTeamID]),
		sentOff: map[string]bool{},
		index:   0,
	}
	away := &side{
		teamID:  match.AwayTeamID,
		lineup:  ms.ResolveLineup(state, state.Teams[match.AwayTeamID]),
		sentOff: map[string]bool{},
		index:   1,
	}

	homeStrength := TeamStrength(home.lineup, true)
	awayStrength := TeamStrength(away.lineup, false)

	result := &types.MatchResult{
		Events:     make([]types.MatchEvent, 0),
		HomeLineup: home.lineupIDs(),
		AwayLineup: away.lineupIDs(),
	}
	result.Minutes = regulationTime + dice.IntN(5)

	homeShare := homeStrength / (homeStrength + awayStrength)
	for minute := 1; minute <= result.Minutes; minute++ {
		if !dice.Chance(eventChance) {
			continue
		}

		attack, defence := home, away
		if !dice.Chance(homeShare) {
			attack, defence = away, home
		}

		roll := dice.Float64()
		switch {
		case roll < 0.4:
			ms.shot(minute, result, attack, defence, dice)
		case roll < 0.6:
			ms.foul(minute, result, attack, defence, dice)
		case roll < 0.65:
			result.Stats.Corners[attack.index]++
		}
	}

	ms.finishStats(&result.Stats, homeShare, dice)

	played := *match
	played.Result = result
	return &played
}

// ResolveLineup returns the team's configured lineup when it holds eleven
// selectable roster players, and an automatic selection otherwise
func (ms *MatchSimulator) ResolveLineup(state *types.GameState, team *types.Team) []*types.Player {
	if team == nil {
		return []*types.Player{}
	}
	if len(team.Lineup) == lineupSize {
		lineup := make([]*types.Player, 0, lineupSize)
		for _, id := range team.Lineup {
			p, ok := state.Players[id]
			if !ok || !team.HasPlayer(id) || p.Injured || p.Suspended {
				break
			}
			lineup = append(lineup, p)
		}
		if len(lineup) == lineupSize {
			return lineup
		}
	}
	return AutoSelectLineup(state.RosterPlayers(team))
}

// AutoSelectLineup picks the best available goalkeeper and the ten best available
// outfield players. Without an available goalkeeper the best outfield player stands in.
func AutoSelectLineup(players []*types.Player) []*types.Player {
	available := make([]*types.Player, 0, len(players))
	for _, p := range players {
		if p.Available() {
			available = append(available, p)
		}
	}
	sort.SliceStable(available, func(i, j int) bool {
		return available[i].Overall > available[j].Overall
	})

	lineup := make([]*types.Player, 0, lineupSize)
	outfield := make([]*types.Player, 0, len(available))
	for _, p := range available {
		if p.Position == types.PosGK && len(lineup) == 0 {
			lineup = append(lineup, p)
			continue
		}
		if p.Position != types.PosGK {
			outfield = append(outfield, p)
		}
	}

	for _, p := range outfield {
		if len(lineup) == lineupSize {
			break
		}
		lineup = append(lineup, p)
	}
	return lineup
}

// TeamStrength is the mean overall plus home advantage and a condition modifier
func TeamStrength(lineup []*types.Player, home bool) float64 {
	if len(lineup) == 0 {
		return emptyStrength
	}
	overall, condition := 0, 0
	for _, p := range lineup {
		overall += p.Overall
		condition += p.Condition
	}
	n := float64(len(lineup))
	strength := float64(overall)/n + (float64(condition)/n-70)/30*10
	if home {
		strength += homeAdvantage
	}
	return strength
}

func shooterWeight(p *types.Player) float64 {
	var weight float64
	switch p.Position {
	case types.PosST, types.PosCF:
		weight = 4
	case types.PosRW, types.PosLW, types.PosCAM:
		weight = 3
	case types.PosCM, types.PosRM, types.PosLM:
		weight = 2
	case types.PosCDM:
		weight = 1
	default:
		weight = 0.5
	}
	return weight * float64(p.Attributes.Shooting) / 50
}

func (ms *MatchSimulator) shot(minute int, result *types.MatchResult, attack, defence *side, dice *DiceRoller) {
	shooters := attack.active()
	if len(shooters) == 0 {
		return
	}
	weights := make([]float64, len(shooters))
	for i, p := range shooters {
		weights[i] = shooterWeight(p)
	}
	shooter := shooters[dice.Weighted(weights)]
	result.Stats.Shots[attack.index]++

	if !dice.Chance(0.3 + float64(shooter.Attributes.Shooting)/100*0.4) {
		return
	}
	result.Stats.ShotsOnTarget[attack.index]++

	reflexes := defaultReflexes
	for _, p := range defence.active() {
		if p.Position == types.PosGK {
			reflexes = p.Attributes.GetOr(types.AttrReflexes, defaultReflexes)
			break
		}
	}
	goalChance := 0.1 + float64(shooter.Attributes.Finishing)/100*0.3 - float64(reflexes)/100*0.2
	if !dice.Chance(goalChance) {
		return
	}

	if attack.index == 0 {
		result.HomeScore++
	} else {
		result.AwayScore++
	}

	assister := ms.assister(shooters, shooter, dice)
	goal := types.MatchEvent{Minute: minute, Type: types.EventGoal, PlayerID: shooter.ID, TeamID: attack.teamID}
	if assister != nil {
		goal.RelatedPlayerID = assister.ID
	}
	result.Events = append(result.Events, goal)
	if assister != nil {
		result.Events = append(result.Events, types.MatchEvent{
			Minute:          minute,
			Type:            types.EventAssist,
			PlayerID:        assister.ID,
			TeamID:          attack.teamID,
			RelatedPlayerID: shooter.ID,
		})
	}
}

func (ms *MatchSimulator) assister(lineup []*types.Player, shooter *types.Player, dice *DiceRoller) *types.Player {
	if !dice.Chance(assistChance) {
		return nil
	}
	candidates := make([]*types.Player, 0, len(lineup))
	weights := make([]float64, 0, len(lineup))
	for _, p := range lineup {
		if p.ID == shooter.ID {
			continue
		}
		candidates = append(candidates, p)
		weights = append(weights, float64(p.Attributes.Vision+p.Attributes.Passing)/100)
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[dice.Weighted(weights)]
}

func (ms *MatchSimulator) foul(minute int, result *types.MatchResult, attack, defence *side, dice *DiceRoller) {
	defenders := defence.active()
	if len(defenders) == 0 {
		return
	}
	fouler := defenders[dice.IntN(len(defenders))]
	result.Stats.Fouls[defence.index]++

	if !dice.Chance(0.1 + float64(fouler.Attributes.Aggression)/100*0.2) {
		return
	}

	event := types.MatchEvent{Minute: minute, Type: types.EventYellow, PlayerID: fouler.ID, TeamID: defence.teamID}
	if dice.Chance(redCardShare) {
		event.Type = types.EventRed
		result.Stats.RedCards[defence.index]++
		defence.sentOff[fouler.ID] = true
	} else {
		result.Stats.YellowCards[defence.index]++
	}
	result.Events = append(result.Events, event)
}

// finishStats fills the figures the event stream does not produce
func (ms *MatchSimulator) finishStats(stats *types.MatchStats, homeShare float64, dice *DiceRoller) {
	homePossession := int(math.Round(homeShare * 100))
	stats.Possession = [2]int{homePossession, 100 - homePossession}

	for i := 0; i < 2; i++ {
		possession := stats.Possession[i]
		stats.Offsides[i] = dice.IntN(5)
		stats.Passes[i] = 200 + possession*4 + dice.IntN(100)
		stats.PassAccuracy[i] = clampInt(70+(possession-50)/5+dice.IntN(15), 50, 95)
	}
}
