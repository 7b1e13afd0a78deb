package game

import (
	"fmt"
	"sort"
	"time"

	"github.com/user/football-manager/internal/types"
	"go.uber.org/zap"
)

// byePlaceholder pads odd-sized groups; fixtures against it are dropped
const byePlaceholder = "BYE"

// matchFatigue is the condition a starter loses by playing a match
const matchFatigue = 15

// MaxGroupTeams is the largest group whose double round-robin ends by June 30
const MaxGroupTeams = 22

// SeasonAnchor is the date of the first round of the season starting in year
func SeasonAnchor(year int) time.Time {
	return time.Date(year, time.August, 15, 0, 0, 0, 0, time.UTC)
}

// GenerateFixtures builds a double round-robin with the circle method.
// Rounds are a week apart from anchor; the second half mirrors the first with
// home and away swapped, after a two week break. Fewer than two teams yields no fixtures.
func GenerateFixtures(teamIDs []string, leagueID, groupID string, season int, anchor time.Time) []*types.Match {
	if len(teamIDs) < 2 {
		return []*types.Match{}
	}

	seen := make(map[string]struct{}, len(teamIDs))
	for _, id := range teamIDs {
		if _, dup := seen[id]; dup {
			panic(fmt.Sprintf("game: duplicate team %q in fixture list for %s/%s", id, leagueID, groupID))
		}
		seen[id] = struct{}{}
	}

	teams := append([]string(nil), teamIDs...)
	if len(teams)%2 != 0 {
		teams = append(teams, byePlaceholder)
	}

	numTeams := len(teams)
	numRounds := numTeams - 1
	perRound := numTeams / 2
	fixtures := make([]*types.Match, 0, numRounds*perRound*2)
	matchday := 1

	half := func(start time.Time, reversed bool) {
		for round := 0; round < numRounds; round++ {
			date := start.AddDate(0, 0, round*7)
			for slot := 0; slot < perRound; slot++ {
				home := (round + slot) % (numTeams - 1)
				away := (numTeams - 1 - slot + round) % (numTeams - 1)
				if slot == 0 {
					away = numTeams - 1
				}
				if teams[home] == byePlaceholder || teams[away] == byePlaceholder {
					continue
				}
				homeID, awayID := teams[home], teams[away]
				if reversed {
					homeID, awayID = awayID, homeID
				}
				fixtures = append(fixtures, &types.Match{
					ID:         fmt.Sprintf("s%d_%s_%s_%d_%d", season, leagueID, groupID, matchday, slot),
					HomeTeamID: homeID,
					AwayTeamID: awayID,
					Date:       date,
					League:     leagueID,
					Group:      groupID,
					Matchday:   matchday,
				})
			}
			matchday++
		}
	}

	half(anchor, false)
	half(anchor.AddDate(0, 0, numRounds*7+14), true)

	return fixtures
}

// SortStandings orders teams by points, goal difference and goals scored, all
// descending. Exact ties keep their incoming order. Positions are rewritten 1-based.
func SortStandings(teams []*types.Team) {
	sort.SliceStable(teams, func(i, j int) bool {
		a, b := teams[i].SeasonStats, teams[j].SeasonStats
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference() != b.GoalDifference() {
			return a.GoalDifference() > b.GoalDifference()
		}
		return a.GoalsFor > b.GoalsFor
	})
	for i, team := range teams {
		team.SeasonStats.Position = i + 1
	}
}

// LeagueManager manages fixtures, results and standings
type LeagueManager struct {
	state  *types.GameState
	logger *zap.Logger
}

// NewLeagueManager creates a league manager over state
func NewLeagueManager(state *types.GameState, logger *zap.Logger) *LeagueManager {
	return &LeagueManager{state: state, logger: logger}
}

// GenerateSeasonFixtures replaces the active season's fixture lists
func (lm *LeagueManager) GenerateSeasonFixtures(season, year int) {
	anchor := SeasonAnchor(year)
	lm.state.Season = &types.Season{
		Number:    season,
		StartDate: time.Date(year, time.August, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(year+1, time.June, 30, 0, 0, 0, 0, time.UTC),
		Leagues:   make(map[string]*types.SeasonLeague),
	}

	total := 0
	for _, leagueID := range sortedKeys(lm.state.Leagues) {
		league := lm.state.Leagues[leagueID]
		seasonLeague := &types.SeasonLeague{Groups: make(map[string]*types.SeasonGroup)}
		for _, groupID := range sortedKeys(league.Groups) {
			group := league.Groups[groupID]
			fixtures := GenerateFixtures(group.TeamIDs, leagueID, groupID, season, anchor)
			if n := len(fixtures); n > 0 && fixtures[n-1].Date.After(lm.state.Season.EndDate) {
				lm.logger.Warn("Group schedule runs past the end of the season",
					zap.String("league", leagueID),
					zap.String("group", groupID),
					zap.Int("teams", len(group.TeamIDs)),
					zap.Int("max_teams", MaxGroupTeams),
					zap.Time("last_fixture", fixtures[n-1].Date))
			}
			seasonLeague.Groups[groupID] = &types.SeasonGroup{
				TeamIDs:  append([]string(nil), group.TeamIDs...),
				Fixtures: fixtures,
			}
			total += len(fixtures)
		}
		lm.state.Season.Leagues[leagueID] = seasonLeague
	}

	lm.logger.Info("Generated season fixtures",
		zap.Int("season", season),
		zap.Int("fixtures", total))
}

// eachFixture visits every fixture of the active season in a stable order
func (lm *LeagueManager) eachFixture(visit func(*types.Match)) {
	if lm.state.Season == nil {
		return
	}
	for _, leagueID := range sortedKeys(lm.state.Season.Leagues) {
		league := lm.state.Season.Leagues[leagueID]
		for _, groupID := range sortedKeys(league.Groups) {
			for _, match := range league.Groups[groupID].Fixtures {
				visit(match)
			}
		}
	}
}

// MatchesForDate returns the unplayed fixtures scheduled on date's calendar day
func (lm *LeagueManager) MatchesForDate(date time.Time) []*types.Match {
	matches := make([]*types.Match, 0)
	lm.eachFixture(func(m *types.Match) {
		if !m.Played() && sameDay(m.Date, date) {
			matches = append(matches, m)
		}
	})
	return matches
}

// FindMatch looks up a fixture of the active season by ID
func (lm *LeagueManager) FindMatch(matchID string) *types.Match {
	var found *types.Match
	lm.eachFixture(func(m *types.Match) {
		if found == nil && m.ID == matchID {
			found = m
		}
	})
	return found
}

// NextMatchForTeam returns the team's earliest unplayed fixture, or nil
func (lm *LeagueManager) NextMatchForTeam(teamID string) *types.Match {
	upcoming := lm.UpcomingMatches(teamID, 1)
	if len(upcoming) == 0 {
		return nil
	}
	return upcoming[0]
}

// UpcomingMatches returns up to count unplayed fixtures of the team, soonest first
func (lm *LeagueManager) UpcomingMatches(teamID string, count int) []*types.Match {
	matches := make([]*types.Match, 0)
	lm.eachFixture(func(m *types.Match) {
		if !m.Played() && m.Involves(teamID) {
			matches = append(matches, m)
		}
	})
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Date.Before(matches[j].Date)
	})
	return limit(matches, count)
}

// RecentResults returns up to count played fixtures of the team, latest first
func (lm *LeagueManager) RecentResults(teamID string, count int) []*types.Match {
	matches := make([]*types.Match, 0)
	lm.eachFixture(func(m *types.Match) {
		if m.Played() && m.Involves(teamID) {
			matches = append(matches, m)
		}
	})
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Date.After(matches[j].Date)
	})
	return limit(matches, count)
}

// Table returns the group's teams in standings order
func (lm *LeagueManager) Table(leagueID, groupID string) []*types.Team {
	league, ok := lm.state.Leagues[leagueID]
	if !ok {
		return []*types.Team{}
	}
	group, ok := league.Groups[groupID]
	if !ok {
		return []*types.Team{}
	}

	teams := make([]*types.Team, 0, len(group.TeamIDs))
	for _, id := range group.TeamIDs {
		if team, ok := lm.state.Teams[id]; ok {
			teams = append(teams, team)
		}
	}
	SortStandings(teams)
	return teams
}

// RecordResult folds a played match into standings and player records
func (lm *LeagueManager) RecordResult(match *types.Match) {
	result := match.Result
	if result == nil {
		return
	}

	home, away := lm.state.Teams[match.HomeTeamID], lm.state.Teams[match.AwayTeamID]
	if home != nil {
		applyTeamResult(&home.SeasonStats, result.HomeScore, result.AwayScore)
		lm.serveSuspensions(home, result.HomeLineup)
	}
	if away != nil {
		applyTeamResult(&away.SeasonStats, result.AwayScore, result.HomeScore)
		lm.serveSuspensions(away, result.AwayLineup)
	}

	lm.recordAppearances(result.HomeLineup, result.Minutes, result.AwayScore == 0)
	lm.recordAppearances(result.AwayLineup, result.Minutes, result.HomeScore == 0)

	for _, event := range result.Events {
		player, ok := lm.state.Players[event.PlayerID]
		if !ok {
			continue
		}
		switch event.Type {
		case types.EventGoal:
			player.SeasonStats.Goals++
		case types.EventAssist:
			player.SeasonStats.Assists++
		case types.EventYellow:
			player.SeasonStats.YellowCards++
		case types.EventRed:
			player.SeasonStats.RedCards++
			player.Suspended = true
			player.SuspendedMatches = 1
		}
	}

	lm.Table(match.League, match.Group)
}

func applyTeamResult(stats *types.TeamSeasonStats, scored, conceded int) {
	stats.Played++
	stats.GoalsFor += scored
	stats.GoalsAgainst += conceded
	switch {
	case scored > conceded:
		stats.Won++
		stats.Points += 3
		stats.PushForm(types.FormWin)
	case scored < conceded:
		stats.Lost++
		stats.PushForm(types.FormLoss)
	default:
		stats.Drawn++
		stats.Points++
		stats.PushForm(types.FormDraw)
	}
}

// serveSuspensions counts the match against bans of players left out of the lineup
func (lm *LeagueManager) serveSuspensions(team *types.Team, lineup []string) {
	inLineup := make(map[string]bool, len(lineup))
	for _, id := range lineup {
		inLineup[id] = true
	}
	for _, player := range lm.state.RosterPlayers(team) {
		if !player.Suspended || inLineup[player.ID] {
			continue
		}
		player.SuspendedMatches--
		if player.SuspendedMatches <= 0 {
			player.Suspended = false
			player.SuspendedMatches = 0
		}
	}
}

func (lm *LeagueManager) recordAppearances(lineup []string, minutes int, cleanSheet bool) {
	for _, id := range lineup {
		player, ok := lm.state.Players[id]
		if !ok {
			continue
		}
		player.SeasonStats.Appearances++
		player.SeasonStats.MinutesPlayed += minutes
		player.Condition = clampInt(player.Condition-matchFatigue, 0, 100)
		if cleanSheet && player.Position == types.PosGK {
			player.SeasonStats.CleanSheets++
		}
	}
}

// ProcessSeasonEnd archives the final standings of every group
func (lm *LeagueManager) ProcessSeasonEnd() {
	season := 0
	if lm.state.Season != nil {
		season = lm.state.Season.Number
	}

	for _, leagueID := range sortedKeys(lm.state.Leagues) {
		league := lm.state.Leagues[leagueID]
		for _, groupID := range sortedKeys(league.Groups) {
			table := lm.Table(leagueID, groupID)
			if len(table) == 0 {
				continue
			}

			summary := types.SeasonSummary{
				Season:     season,
				LeagueID:   leagueID,
				GroupID:    groupID,
				ChampionID: table[0].ID,
			}
			summary.TopScorerID, summary.TopScorerGoals = lm.topScorer(table)
			lm.state.SeasonHistory = append(lm.state.SeasonHistory, summary)

			if len(table) >= 4 {
				lm.logger.Info("Season standings settled",
					zap.String("league", leagueID),
					zap.String("group", groupID),
					zap.Strings("promotion_zone", teamNames(table[:4])),
					zap.Strings("relegation_zone", teamNames(table[len(table)-4:])))
			}

			for _, team := range table {
				if lm.state.IsUserTeam(team.ID) {
					entry := types.ManagerHistoryEntry{
						Season:         season,
						TeamID:         team.ID,
						LeaguePosition: team.SeasonStats.Position,
						Achievements:   make([]string, 0),
					}
					if team.SeasonStats.Position == 1 {
						entry.Achievements = append(entry.Achievements, fmt.Sprintf("%s champions", groupID))
					}
					lm.state.ManagerHistory = append(lm.state.ManagerHistory, entry)
				}
			}
		}
	}
}

func (lm *LeagueManager) topScorer(table []*types.Team) (string, int) {
	bestID, bestGoals := "", -1
	for _, team := range table {
		for _, player := range lm.state.RosterPlayers(team) {
			goals := player.SeasonStats.Goals
			if goals > bestGoals || (goals == bestGoals && player.ID < bestID) {
				bestID, bestGoals = player.ID, goals
			}
		}
	}
	if bestGoals < 0 {
		return "", 0
	}
	return bestID, bestGoals
}

// ResetStandings clears every team's season record for a new season
func (lm *LeagueManager) ResetStandings() {
	for _, team := range lm.state.Teams {
		team.SeasonStats = types.TeamSeasonStats{Form: make([]string, 0, types.FormLength)}
	}
}

func teamNames(teams []*types.Team) []string {
	names := make([]string, len(teams))
	for i, team := range teams {
		names[i] = team.Name
	}
	return names
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func limit(matches []*types.Match, count int) []*types.Match {
	if count >= 0 && len(matches) > count {
		return matches[:count]
	}
	return matches
}
