package game

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/user/football-manager/config"
	"github.com/user/football-manager/internal/types"
	"go.uber.org/zap"
)

// ErrTeamNotFound is returned when a team ID does not resolve
var ErrTeamNotFound = errors.New("team not found")

// Roster is the import record the game state is built from
type Roster struct {
	Leagues map[string]RosterLeague `json:"leagues"`
	Teams   map[string]RosterTeam   `json:"teams"`
	Players map[string]RosterPlayer `json:"players"`
}

// RosterLeague is an imported league with its groups
type RosterLeague struct {
	Name   string                 `json:"name"`
	Groups map[string]RosterGroup `json:"groups"`
}

// RosterGroup is an imported group membership list
type RosterGroup struct {
	Name    string   `json:"name"`
	TeamIDs []string `json:"team_ids"`
}

// RosterTeam is an imported club
type RosterTeam struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	League      string   `json:"league"`
	Group       string   `json:"group"`
	MarketValue int64    `json:"market_value"`
	PlayerIDs   []string `json:"player_ids"`
}

// RosterPlayer is an imported player; attributes are generated on import
type RosterPlayer struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Position      string     `json:"position"`
	Age           int        `json:"age"`
	Nationalities []string   `json:"nationalities"`
	MarketValue   int64      `json:"market_value"`
	ContractEnd   *time.Time `json:"contract_end,omitempty"`
}

// BootstrapOptions chooses who manages which club and when the game starts
type BootstrapOptions struct {
	UserTeamID  string
	ManagerName string
	StartYear   int
}

// SeasonStart is the first day of the season starting in year
func SeasonStart(year int) time.Time {
	return time.Date(year, time.August, 1, 0, 0, 0, 0, time.UTC)
}

// BuildGameState turns an imported roster into a fresh game state dated at the start of
// the first season. An empty user team ID picks the first club by ID.
func BuildGameState(roster *Roster, opts BootstrapOptions, dice *DiceRoller, logger *zap.Logger) (*types.GameState, error) {
	if len(roster.Teams) == 0 {
		return nil, fmt.Errorf("roster has no teams: %w", ErrTeamNotFound)
	}

	start := SeasonStart(opts.StartYear)
	state := types.NewGameState(start)
	state.ManagerName = opts.ManagerName
	state.TransferWindowOpen = IsTransferWindow(start)
	development := NewPlayerDevelopment(logger)

	for _, id := range sortedKeys(roster.Players) {
		state.Players[id] = importPlayer(id, roster.Players[id], start, development, dice)
	}

	for _, id := range sortedKeys(roster.Teams) {
		raw := roster.Teams[id]
		team := &types.Team{
			ID:            id,
			Name:          raw.Name,
			ShortName:     shortName(raw.Name),
			League:        raw.League,
			Group:         raw.Group,
			PlayerIDs:     make([]string, 0, len(raw.PlayerIDs)),
			Formation:     defaultFormation,
			SeasonStats:   types.TeamSeasonStats{Form: make([]string, 0, types.FormLength)},
			AIPersonality: randomPersonality(dice),
		}

		var squadValue int64
		for _, pid := range raw.PlayerIDs {
			player, ok := state.Players[pid]
			if !ok || !player.IsFreeAgent() {
				continue
			}
			player.TeamID = id
			team.PlayerIDs = append(team.PlayerIDs, pid)
			squadValue += player.MarketValue
		}
		if squadValue < 100000 {
			squadValue = 2000000 + int64(dice.Float64()*3000000)
		}

		team.MarketValue = squadValue
		team.Budget = int64(math.Round(float64(squadValue) * 0.3))
		team.WagesBudget = int64(math.Round(float64(squadValue) * 0.5))
		refreshWages(state, team)
		state.Teams[id] = team
	}

	for _, leagueID := range sortedKeys(roster.Leagues) {
		raw := roster.Leagues[leagueID]
		league := &types.League{ID: leagueID, Name: raw.Name, Groups: make(map[string]*types.Group)}
		for _, groupID := range sortedKeys(raw.Groups) {
			group := &types.Group{ID: groupID, Name: raw.Groups[groupID].Name, TeamIDs: make([]string, 0)}
			for _, teamID := range raw.Groups[groupID].TeamIDs {
				team, ok := state.Teams[teamID]
				if !ok {
					continue
				}
				team.League, team.Group = leagueID, groupID
				group.TeamIDs = append(group.TeamIDs, teamID)
			}
			league.Groups[groupID] = group
		}
		state.Leagues[leagueID] = league
	}

	state.UserTeamID = opts.UserTeamID
	if state.UserTeamID == "" {
		state.UserTeamID = sortedKeys(state.Teams)[0]
	}
	if _, ok := state.Teams[state.UserTeamID]; !ok {
		return nil, fmt.Errorf("user team %q: %w", state.UserTeamID, ErrTeamNotFound)
	}

	logger.Info("Built game state from roster",
		zap.Int("teams", len(state.Teams)),
		zap.Int("players", len(state.Players)),
		zap.String("user_team", state.UserTeamID))

	return state, nil
}

func importPlayer(id string, raw RosterPlayer, start time.Time, development *PlayerDevelopment, dice *DiceRoller) *types.Player {
	age := raw.Age
	if age <= 0 {
		age = 25
	}
	pos := types.Position(strings.ToUpper(raw.Position))
	if !pos.Valid() {
		pos = types.PosCM
	}

	attrs := development.GenerateAttributes(pos, EstimateOverall(raw.MarketValue, age, dice), age, dice)
	overall := CalculateOverall(pos, &attrs)

	marketValue := raw.MarketValue
	if marketValue <= 0 {
		marketValue = int64(overall) * 10000
	}

	contractEnd := time.Date(start.Year()+dice.Between(1, 4), time.June, 30, 0, 0, 0, 0, time.UTC)
	if raw.ContractEnd != nil {
		contractEnd = raw.ContractEnd.UTC()
	}

	return &types.Player{
		ID:              id,
		Name:            raw.Name,
		Position:        pos,
		Age:             age,
		Nationalities:   append([]string(nil), raw.Nationalities...),
		TeamID:          types.FreeAgent,
		Attributes:      attrs,
		Overall:         overall,
		Potential:       development.GeneratePotential(age, overall, dice),
		ContractEnd:     contractEnd,
		Salary:          EstimateSalary(marketValue),
		MarketValue:     marketValue,
		Condition:       80 + dice.IntN(20),
		Morale:          60 + dice.IntN(30),
		TransferHistory: make([]types.TransferRecord, 0),
	}
}

// EstimateOverall guesses a rating from market value and age
func EstimateOverall(marketValue int64, age int, dice *DiceRoller) int {
	var overall float64
	mv := float64(marketValue)
	switch {
	case marketValue <= 0:
		overall = float64(50 + dice.IntN(15))
	case marketValue < 100000:
		overall = 45 + math.Floor(mv/10000)*1.5
	case marketValue < 1000000:
		overall = 55 + math.Floor((mv-100000)/100000)*1.5
	case marketValue < 10000000:
		overall = 70 + math.Floor((mv-1000000)/1000000)*1.5
	default:
		overall = 85 + math.Floor((mv-10000000)/10000000)
	}

	switch {
	case age < 21:
		overall -= 3
	case age < 24:
		overall--
	case age > 33:
		overall += 3
	case age > 30:
		overall += 2
	}

	overall += float64(dice.IntN(6) - 3)
	return clampInt(int(math.Round(overall)), 40, 95)
}

// EstimateSalary derives a weekly wage from market value
func EstimateSalary(marketValue int64) int64 {
	weekly := float64(marketValue) * 0.007 / 52
	return max(500, int64(math.Round(weekly/100))*100)
}

func shortName(name string) string {
	initials := make([]rune, 0, 3)
	for _, word := range strings.Fields(name) {
		if len(initials) == 3 {
			break
		}
		r, _ := utf8.DecodeRuneInString(word)
		initials = append(initials, unicode.ToUpper(r))
	}
	return string(initials)
}

func randomPersonality(dice *DiceRoller) types.AIPersonality {
	activities := []string{types.ActivityPassive, types.ActivityModerate, types.ActivityAggressive}
	styles := []string{"defensive", "balanced", "attacking"}
	return types.AIPersonality{
		TransferActivity: activities[dice.IntN(len(activities))],
		PlayStyle:        styles[dice.IntN(len(styles))],
		YouthFocus:       30 + dice.IntN(50),
		RiskTolerance:    30 + dice.IntN(50),
	}
}

// squadTemplate is the positional make-up of a generated squad
var squadTemplate = []types.Position{
	types.PosGK, types.PosGK,
	types.PosCB, types.PosCB, types.PosCB, types.PosCB,
	types.PosRB, types.PosRB, types.PosLB, types.PosLB,
	types.PosCDM, types.PosCDM, types.PosCM, types.PosCM, types.PosCM,
	types.PosCAM, types.PosRM, types.PosLM,
	types.PosRW, types.PosRW, types.PosLW, types.PosLW,
	types.PosST, types.PosST,
}

var (
	syntheticLeagueIDs = []string{"primeraFederacion", "segundaFederacion"}
	syntheticTowns     = []string{"Arenal", "Bellavista", "Castrillo", "Dosrios", "Encinar", "Fuentemar", "Granadal", "Hontoria", "Isleta", "Jarama", "Lagoverde", "Miraflores", "Navalcruz", "Olmedo", "Peñalta", "Quintana", "Riberas", "Sotillo", "Torrecilla", "Valdemar"}
	syntheticSuffixes  = []string{"CF", "CD", "UD", "Atlético", "Deportivo"}
	syntheticFirst     = []string{"Adrián", "Bruno", "Carlos", "Diego", "Enzo", "Fabio", "Gonzalo", "Hugo", "Iker", "Jorge", "Luca", "Mario", "Nico", "Óscar", "Pablo", "Raúl", "Sergio", "Tomás", "Unai", "Víctor"}
	syntheticLast      = []string{"Alonso", "Blanco", "Castro", "Díaz", "Esteban", "Fernández", "García", "Herrera", "Iglesias", "Jiménez", "López", "Moreno", "Navarro", "Ortega", "Pérez", "Ramos", "Santos", "Torres", "Ureña", "Vidal"}
)

// GenerateRoster builds a synthetic roster sized by cfg
func GenerateRoster(cfg config.SyntheticRosterConfig, dice *DiceRoller) *Roster {
	roster := &Roster{
		Leagues: make(map[string]RosterLeague),
		Teams:   make(map[string]RosterTeam),
		Players: make(map[string]RosterPlayer),
	}

	teamNo, playerNo := 0, 0
	for l := 0; l < cfg.Leagues; l++ {
		leagueID := fmt.Sprintf("league%d", l+1)
		if l < len(syntheticLeagueIDs) {
			leagueID = syntheticLeagueIDs[l]
		}
		league := RosterLeague{Name: fmt.Sprintf("League %d", l+1), Groups: make(map[string]RosterGroup)}

		for g := 0; g < cfg.GroupsPerLeague; g++ {
			groupID := fmt.Sprintf("group%d", g+1)
			group := RosterGroup{Name: fmt.Sprintf("Group %d", g+1), TeamIDs: make([]string, 0, cfg.TeamsPerGroup)}

			for t := 0; t < cfg.TeamsPerGroup; t++ {
				teamNo++
				teamID := fmt.Sprintf("team%03d", teamNo)
				name := fmt.Sprintf("%s %s", syntheticSuffixes[(teamNo-1)%len(syntheticSuffixes)], syntheticTowns[(teamNo-1)%len(syntheticTowns)])
				if teamNo > len(syntheticTowns) {
					name = fmt.Sprintf("%s %d", name, (teamNo-1)/len(syntheticTowns)+1)
				}
				team := RosterTeam{ID: teamID, Name: name, League: leagueID, Group: groupID, PlayerIDs: make([]string, 0, cfg.SquadSize)}

				for s := 0; s < cfg.SquadSize; s++ {
					playerNo++
					playerID := fmt.Sprintf("player%05d", playerNo)
					value := int64(50000 + dice.IntN(30)*100000)
					roster.Players[playerID] = RosterPlayer{
						ID:            playerID,
						Name:          syntheticFirst[dice.IntN(len(syntheticFirst))] + " " + syntheticLast[dice.IntN(len(syntheticLast))],
						Position:      string(squadTemplate[s%len(squadTemplate)]),
						Age:           dice.Between(17, 35),
						Nationalities: []string{"ES"},
						MarketValue:   value,
					}
					team.PlayerIDs = append(team.PlayerIDs, playerID)
					team.MarketValue += value
				}

				roster.Teams[teamID] = team
				group.TeamIDs = append(group.TeamIDs, teamID)
			}
			league.Groups[groupID] = group
		}
		roster.Leagues[leagueID] = league
	}

	return roster
}
