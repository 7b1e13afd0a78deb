package types

import "time"

// Attribute identifies one field of Attributes
type Attribute int

// Attribute identifiers. Goalkeeping ones resolve only when the record carries goalkeeping fields.
const (
	AttrPassing Attribute = iota
	AttrShooting
	AttrDribbling
	AttrTackling
	AttrHeading
	AttrCrossing
	AttrFinishing
	AttrFirstTouch
	AttrFreeKick
	AttrPenalty
	AttrPace
	AttrStrength
	AttrStamina
	AttrAgility
	AttrJumping
	AttrVision
	AttrComposure
	AttrAggression
	AttrPositioning
	AttrWorkRate
	AttrLeadership
	AttrReflexes
	AttrHandling
	AttrGKPositioning
	AttrDiving
	AttrKicking
)

// OutfieldAttributes are present on every player
var OutfieldAttributes = []Attribute{
	AttrPassing, AttrShooting, AttrDribbling, AttrTackling, AttrHeading, AttrCrossing, AttrFinishing,
	AttrFirstTouch, AttrFreeKick, AttrPenalty, AttrPace, AttrStrength, AttrStamina, AttrAgility, AttrJumping,
	AttrVision, AttrComposure, AttrAggression, AttrPositioning, AttrWorkRate, AttrLeadership,
}

// GoalkeeperAttributeIDs are present only when Attributes.Goalkeeping is set
var GoalkeeperAttributeIDs = []Attribute{AttrReflexes, AttrHandling, AttrGKPositioning, AttrDiving, AttrKicking}

// PhysicalAttributes decline fastest with age
var PhysicalAttributes = []Attribute{AttrPace, AttrStamina, AttrAgility, AttrJumping}

// Attributes is the fixed skill record of a player, every value in [1,99]
type Attributes struct {
	// Technical
	Passing    int `json:"passing"`
	Shooting   int `json:"shooting"`
	Dribbling  int `json:"dribbling"`
	Tackling   int `json:"tackling"`
	Heading    int `json:"heading"`
	Crossing   int `json:"crossing"`
	Finishing  int `json:"finishing"`
	FirstTouch int `json:"first_touch"`
	FreeKick   int `json:"free_kick"`
	Penalty    int `json:"penalty"`

	// Physical
	Pace     int `json:"pace"`
	Strength int `json:"strength"`
	Stamina  int `json:"stamina"`
	Agility  int `json:"agility"`
	Jumping  int `json:"jumping"`

	// Mental
	Vision      int `json:"vision"`
	Composure   int `json:"composure"`
	Aggression  int `json:"aggression"`
	Positioning int `json:"positioning"`
	WorkRate    int `json:"work_rate"`
	Leadership  int `json:"leadership"`

	// Goalkeeping, nil for outfield players
	Goalkeeping *GoalkeepingAttributes `json:"goalkeeping,omitempty"`
}

// GoalkeepingAttributes is only meaningful for goalkeepers
type GoalkeepingAttributes struct {
	Reflexes    int `json:"reflexes"`
	Handling    int `json:"handling"`
	Positioning int `json:"positioning"`
	Diving      int `json:"diving"`
	Kicking     int `json:"kicking"`
}

// Present lists the attributes this record carries
func (a *Attributes) Present() []Attribute {
	if a.Goalkeeping == nil {
		return OutfieldAttributes
	}
	all := make([]Attribute, 0, len(OutfieldAttributes)+len(GoalkeeperAttributeIDs))
	all = append(all, OutfieldAttributes...)
	return append(all, GoalkeeperAttributeIDs...)
}

// field returns a pointer to the storage of attr, or nil when absent
func (a *Attributes) field(attr Attribute) *int {
	switch attr {
	case AttrPassing:
		return &a.Passing
	case AttrShooting:
		return &a.Shooting
	case AttrDribbling:
		return &a.Dribbling
	case AttrTackling:
		return &a.Tackling
	case AttrHeading:
		return &a.Heading
	case AttrCrossing:
		return &a.Crossing
	case AttrFinishing:
		return &a.Finishing
	case AttrFirstTouch:
		return &a.FirstTouch
	case AttrFreeKick:
		return &a.FreeKick
	case AttrPenalty:
		return &a.Penalty
	case AttrPace:
		return &a.Pace
	case AttrStrength:
		return &a.Strength
	case AttrStamina:
		return &a.Stamina
	case AttrAgility:
		return &a.Agility
	case AttrJumping:
		return &a.Jumping
	case AttrVision:
		return &a.Vision
	case AttrComposure:
		return &a.Composure
	case AttrAggression:
		return &a.Aggression
	case AttrPositioning:
		return &a.Positioning
	case AttrWorkRate:
		return &a.WorkRate
	case AttrLeadership:
		return &a.Leadership
	}
	if a.Goalkeeping == nil {
		return nil
	}
	switch attr {
	case AttrReflexes:
		return &a.Goalkeeping.Reflexes
	case AttrHandling:
		return &a.Goalkeeping.Handling
	case AttrGKPositioning:
		return &a.Goalkeeping.Positioning
	case AttrDiving:
		return &a.Goalkeeping.Diving
	case AttrKicking:
		return &a.Goalkeeping.Kicking
	}
	return nil
}

// Get returns the value of attr and whether the record carries it
func (a *Attributes) Get(attr Attribute) (int, bool) {
	f := a.field(attr)
	if f == nil {
		return 0, false
	}
	return *f, true
}

// GetOr returns the value of attr, or fallback when absent
func (a *Attributes) GetOr(attr Attribute, fallback int) int {
	if v, ok := a.Get(attr); ok {
		return v
	}
	return fallback
}

// Adjust adds delta to attr, clamped to [1,99]. It reports false when attr is absent.
func (a *Attributes) Adjust(attr Attribute, delta int) bool {
	f := a.field(attr)
	if f == nil {
		return false
	}
	*f = ClampAttribute(*f + delta)
	return true
}

// ClampAttribute bounds an attribute value to [1,99]
func ClampAttribute(v int) int {
	if v < 1 {
		return 1
	}
	if v > 99 {
		return 99
	}
	return v
}

// Player is a footballer, owned by GameState.Players
type Player struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Position      Position   `json:"position"`
	Age           int        `json:"age"`
	Nationalities []string   `json:"nationalities"`
	TeamID        string     `json:"team_id"`
	Attributes    Attributes `json:"attributes"`
	Overall       int        `json:"overall"`
	Potential     int        `json:"potential"`

	// Contract
	ContractEnd time.Time `json:"contract_end"`
	Salary      int64     `json:"salary"` // weekly

	MarketValue int64 `json:"market_value"`

	// Current state
	Condition        int        `json:"condition"`
	Morale           int        `json:"morale"`
	Injured          bool       `json:"injured"`
	InjuryReturn     *time.Time `json:"injury_return,omitempty"`
	Suspended        bool       `json:"suspended"`
	SuspendedMatches int        `json:"suspended_matches"`

	SeasonStats     PlayerSeasonStats `json:"season_stats"`
	TransferHistory []TransferRecord  `json:"transfer_history"`
}

// IsFreeAgent reports whether the player has no club
func (p *Player) IsFreeAgent() bool {
	return p.TeamID == FreeAgent
}

// Available reports whether the player can be picked for a match
func (p *Player) Available() bool {
	return !p.Injured && !p.Suspended && p.Condition > 30
}

// PlayerSeasonStats accumulate over one season and reset at its end
type PlayerSeasonStats struct {
	Appearances   int `json:"appearances"`
	Goals         int `json:"goals"`
	Assists       int `json:"assists"`
	YellowCards   int `json:"yellow_cards"`
	RedCards      int `json:"red_cards"`
	MinutesPlayed int `json:"minutes_played"`
	CleanSheets   int `json:"clean_sheets"`
}

// Transfer record kinds
const (
	RecordTransfer = "transfer"
	RecordFree     = "free"
	RecordRelease  = "release"
)

// TransferRecord is one entry of a player's append-only transfer log
type TransferRecord struct {
	Date       time.Time `json:"date"`
	FromTeamID string    `json:"from_team_id"`
	ToTeamID   string    `json:"to_team_id"`
	Fee        int64     `json:"fee"`
	Type       string    `json:"type"`
}
