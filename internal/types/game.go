package types

import "time"

// FreeAgent is the team ID carried by players without a club
const FreeAgent = ""

// Position is one of the thirteen playing positions
type Position string

// Playing positions
const (
	PosGK  Position = "GK"
	PosCB  Position = "CB"
	PosRB  Position = "RB"
	PosLB  Position = "LB"
	PosCDM Position = "CDM"
	PosCM  Position = "CM"
	PosCAM Position = "CAM"
	PosRM  Position = "RM"
	PosLM  Position = "LM"
	PosRW  Position = "RW"
	PosLW  Position = "LW"
	PosST  Position = "ST"
	PosCF  Position = "CF"
)

// Positions lists every position in canonical order
var Positions = []Position{PosGK, PosCB, PosRB, PosLB, PosCDM, PosCM, PosCAM, PosRM, PosLM, PosRW, PosLW, PosST, PosCF}

// Valid reports whether p is one of the known positions
func (p Position) Valid() bool {
	for _, known := range Positions {
		if p == known {
			return true
		}
	}
	return false
}

// GameState is the root aggregate of a simulation session.
// Cross-entity links are IDs into the Teams and Players maps.
type GameState struct {
	CurrentDate        time.Time             `json:"current_date"`
	UserTeamID         string                `json:"user_team_id"`
	ManagerName        string                `json:"manager_name"`
	Teams              map[string]*Team      `json:"teams"`
	Players            map[string]*Player    `json:"players"`
	Leagues            map[string]*League    `json:"leagues"`
	Season             *Season               `json:"season"`
	TransferWindowOpen bool                  `json:"transfer_window_open"`
	Offers             []*TransferOffer      `json:"offers"`
	ManagerHistory     []ManagerHistoryEntry `json:"manager_history"`
	SeasonHistory      []SeasonSummary       `json:"season_history"`
	Inbox              []Notification        `json:"inbox"`
}

// NewGameState returns an empty state with all maps initialized
func NewGameState(date time.Time) *GameState {
	return &GameState{
		CurrentDate: date,
		Teams:       make(map[string]*Team),
		Players:     make(map[string]*Player),
		Leagues:     make(map[string]*League),
		Season: &Season{
			Leagues: make(map[string]*SeasonLeague),
		},
		Offers:         make([]*TransferOffer, 0),
		ManagerHistory: make([]ManagerHistoryEntry, 0),
		SeasonHistory:  make([]SeasonSummary, 0),
		Inbox:          make([]Notification, 0),
	}
}

// IsUserTeam reports whether teamID is controlled by the human manager
func (s *GameState) IsUserTeam(teamID string) bool {
	return teamID != "" && teamID == s.UserTeamID
}

// RosterPlayers resolves a team's roster, dropping IDs that point nowhere
func (s *GameState) RosterPlayers(team *Team) []*Player {
	players := make([]*Player, 0, len(team.PlayerIDs))
	for _, id := range team.PlayerIDs {
		if p, ok := s.Players[id]; ok {
			players = append(players, p)
		}
	}
	return players
}

// League is static league membership, independent of any season
type League struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Groups map[string]*Group `json:"groups"`
}

// Group is one division (or regional group) of a league
type Group struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	TeamIDs []string `json:"team_ids"`
}

// Season holds the fixture lists of the active season
type Season struct {
	Number    int                      `json:"number"`
	StartDate time.Time                `json:"start_date"`
	EndDate   time.Time                `json:"end_date"`
	Leagues   map[string]*SeasonLeague `json:"leagues"`
}

// SeasonLeague holds the per-group fixtures of one league
type SeasonLeague struct {
	Groups map[string]*SeasonGroup `json:"groups"`
}

// SeasonGroup is the fixture list and membership of one group for a season
type SeasonGroup struct {
	TeamIDs  []string `json:"team_ids"`
	Fixtures []*Match `json:"fixtures"`
}

// ManagerHistoryEntry records the user's finishing position for a season
type ManagerHistoryEntry struct {
	Season         int      `json:"season"`
	TeamID         string   `json:"team_id"`
	LeaguePosition int      `json:"league_position"`
	Achievements   []string `json:"achievements"`
}

// SeasonSummary archives the outcome of one group at season end
type SeasonSummary struct {
	Season         int    `json:"season"`
	LeagueID       string `json:"league_id"`
	GroupID        string `json:"group_id"`
	ChampionID     string `json:"champion_id"`
	TopScorerID    string `json:"top_scorer_id"`
	TopScorerGoals int    `json:"top_scorer_goals"`
}

// Notification is an inbox message for the user's club
type Notification struct {
	ID      string    `json:"id"`
	Date    time.Time `json:"date"`
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
}

// Notification kinds
const (
	NoticeOffer    = "offer"
	NoticeTransfer = "transfer"
	NoticeFinance  = "finance"
	NoticeContract = "contract"
	NoticeSeason   = "season"
)

// SnapshotVersion is the snapshot layout written by this build
const SnapshotVersion = 1

// Snapshot is a complete, versioned save of a session. RNG holds the random
// stream position so a restored session continues identically.
type Snapshot struct {
	Version int        `json:"version"`
	SavedAt time.Time  `json:"saved_at"`
	State   *GameState `json:"state"`
	RNG     []byte     `json:"rng"`
}
