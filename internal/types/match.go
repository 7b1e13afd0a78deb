package types

import "time"

// Match event kinds
const (
	EventGoal   = "goal"
	EventAssist = "assist"
	EventYellow = "yellow"
	EventRed    = "red"
)

// Match is a fixture. Result is nil until the match is played, and is set exactly once.
type Match struct {
	ID         string       `json:"id"`
	HomeTeamID string       `json:"home_team_id"`
	AwayTeamID string       `json:"away_team_id"`
	Date       time.Time    `json:"date"`
	League     string       `json:"league"`
	Group      string       `json:"group"`
	Matchday   int          `json:"matchday"`
	Result     *MatchResult `json:"result,omitempty"`
}

// Played reports whether the match has a result
func (m *Match) Played() bool {
	return m.Result != nil
}

// Involves reports whether teamID plays in the match
func (m *Match) Involves(teamID string) bool {
	return m.HomeTeamID == teamID || m.AwayTeamID == teamID
}

// MatchResult is the played state of a match
type MatchResult struct {
	HomeScore  int          `json:"home_score"`
	AwayScore  int          `json:"away_score"`
	Minutes    int          `json:"minutes"`
	Events     []MatchEvent `json:"events"`
	Stats      MatchStats   `json:"stats"`
	HomeLineup []string     `json:"home_lineup"`
	AwayLineup []string     `json:"away_lineup"`
}

// Winner returns the winning team ID, or "" for a draw
func (m *Match) Winner() string {
	if m.Result == nil {
		return ""
	}
	switch {
	case m.Result.HomeScore > m.Result.AwayScore:
		return m.HomeTeamID
	case m.Result.AwayScore > m.Result.HomeScore:
		return m.AwayTeamID
	}
	return ""
}

// MatchEvent is one entry of a match timeline
type MatchEvent struct {
	Minute          int    `json:"minute"`
	Type            string `json:"type"`
	PlayerID        string `json:"player_id"`
	TeamID          string `json:"team_id"`
	RelatedPlayerID string `json:"related_player_id,omitempty"`
}

// MatchStats holds [home, away] pairs
type MatchStats struct {
	Possession    [2]int `json:"possession"`
	Shots         [2]int `json:"shots"`
	ShotsOnTarget [2]int `json:"shots_on_target"`
	Corners       [2]int `json:"corners"`
	Fouls         [2]int `json:"fouls"`
	YellowCards   [2]int `json:"yellow_cards"`
	RedCards      [2]int `json:"red_cards"`
	Offsides      [2]int `json:"offsides"`
	Passes        [2]int `json:"passes"`
	PassAccuracy  [2]int `json:"pass_accuracy"`
}
