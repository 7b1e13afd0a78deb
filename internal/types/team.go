package types

// FormLength is the number of recent results kept in a team's form
const FormLength = 5

// Form results
const (
	FormWin  = "W"
	FormDraw = "D"
	FormLoss = "L"
)

// Transfer activity levels of an AI club
const (
	ActivityPassive    = "passive"
	ActivityModerate   = "moderate"
	ActivityAggressive = "aggressive"
)

// Team is a club, owned by GameState.Teams
type Team struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	ShortName string   `json:"short_name"`
	League    string   `json:"league"`
	Group     string   `json:"group"`
	PlayerIDs []string `json:"player_ids"`

	// Lineup holds zero or exactly eleven player IDs
	Lineup    []string `json:"lineup"`
	Formation string   `json:"formation"`

	// Finances. WagesBudget and CurrentWages are annual figures.
	Budget       int64 `json:"budget"`
	WagesBudget  int64 `json:"wages_budget"`
	CurrentWages int64 `json:"current_wages"`
	MarketValue  int64 `json:"market_value"`

	SeasonStats   TeamSeasonStats `json:"season_stats"`
	AIPersonality AIPersonality   `json:"ai_personality"`
}

// HasPlayer reports whether playerID is on the roster
func (t *Team) HasPlayer(playerID string) bool {
	for _, id := range t.PlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// RemovePlayer drops playerID from the roster and the lineup
func (t *Team) RemovePlayer(playerID string) {
	t.PlayerIDs = removeID(t.PlayerIDs, playerID)
	if len(t.Lineup) > 0 {
		before := len(t.Lineup)
		t.Lineup = removeID(t.Lineup, playerID)
		if len(t.Lineup) != before {
			// a partial lineup is invalid; fall back to auto-selection
			t.Lineup = nil
		}
	}
}

// AddPlayer appends playerID to the roster if absent
func (t *Team) AddPlayer(playerID string) {
	if !t.HasPlayer(playerID) {
		t.PlayerIDs = append(t.PlayerIDs, playerID)
	}
}

func removeID(ids []string, target string) []string {
	out := ids[:0:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

// TeamSeasonStats is a team's standings record
type TeamSeasonStats struct {
	Played       int      `json:"played"`
	Won          int      `json:"won"`
	Drawn        int      `json:"drawn"`
	Lost         int      `json:"lost"`
	GoalsFor     int      `json:"goals_for"`
	GoalsAgainst int      `json:"goals_against"`
	Points       int      `json:"points"`
	Position     int      `json:"position"`
	Form         []string `json:"form"`
}

// GoalDifference is goals for minus goals against
func (s TeamSeasonStats) GoalDifference() int {
	return s.GoalsFor - s.GoalsAgainst
}

// PushForm appends a result, keeping the last FormLength entries
func (s *TeamSeasonStats) PushForm(result string) {
	s.Form = append(s.Form, result)
	if len(s.Form) > FormLength {
		s.Form = s.Form[len(s.Form)-FormLength:]
	}
}

// AIPersonality drives the decisions of computer-controlled clubs
type AIPersonality struct {
	TransferActivity string `json:"transfer_activity"`
	PlayStyle        string `json:"play_style"`
	YouthFocus       int    `json:"youth_focus"`
	RiskTolerance    int    `json:"risk_tolerance"`
}

// FinancialHealth is a coarse rating of a club's finances
type FinancialHealth string

// Financial health ratings
const (
	HealthExcellent FinancialHealth = "excellent"
	HealthGood      FinancialHealth = "good"
	HealthStable    FinancialHealth = "stable"
	HealthPoor      FinancialHealth = "poor"
	HealthCritical  FinancialHealth = "critical"
)
