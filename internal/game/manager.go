package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/user/football-manager/config"
	"github.com/user/football-manager/internal/interfaces"
	"github.com/user/football-manager/internal/types"
	"go.uber.org/zap"
)

// maxAdvanceDays bounds AdvanceToNextMatch; fixtures are never further apart
const maxAdvanceDays = 400

// GameManager drives one session: the daily pipeline and every front-end operation.
// All access goes through stateLock.
type GameManager struct {
	state      *types.GameState
	stateLock  sync.RWMutex
	storage    interfaces.SnapshotStore
	config     config.Config
	Logger     *zap.Logger
	diceRoller *DiceRoller

	league      *LeagueManager
	simulator   *MatchSimulator
	market      *TransferMarket
	development *PlayerDevelopment
	ai          *ClubAI
	economy     *Economy
}

// Ensure GameManager satisfies the interfaces.Engine interface
var _ interfaces.Engine = (*GameManager)(nil)

// NewGameManager wraps an existing state and random stream
func NewGameManager(cfg config.Config, state *types.GameState, dice *DiceRoller) *GameManager {
	gm := &GameManager{
		state:      state,
		config:     cfg,
		Logger:     zap.NewNop(), // Will be set by the server
		diceRoller: dice,
	}
	gm.wire()
	return gm
}

// NewGame starts a fresh session from the configured roster file, or from a
// synthetic roster when the file is absent
func NewGame(cfg config.Config, logger *zap.Logger) (*GameManager, error) {
	dice := NewDiceRoller(cfg.Game.Seed)

	var roster *Roster
	loader := NewDataLoader(cfg.Game.RosterPath)
	if loader.Exists() {
		loaded, err := loader.LoadRoster()
		if err != nil {
			return nil, err
		}
		roster = loaded
	} else {
		logger.Info("Roster file not found, generating synthetic roster", zap.String("path", cfg.Game.RosterPath))
		roster = GenerateRoster(cfg.Game.Synthetic, dice)
	}

	state, err := BuildGameState(roster, BootstrapOptions{
		UserTeamID:  cfg.Game.UserTeamID,
		ManagerName: cfg.Game.ManagerName,
		StartYear:   cfg.Game.StartYear,
	}, dice, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build game state: %w", err)
	}

	gm := NewGameManager(cfg, state, dice)
	gm.SetLogger(logger)
	gm.league.GenerateSeasonFixtures(1, cfg.Game.StartYear)
	return gm, nil
}

// wire rebuilds the subsystems over the current state and stream
func (gm *GameManager) wire() {
	gm.league = NewLeagueManager(gm.state, gm.Logger)
	gm.simulator = NewMatchSimulator()
	gm.market = NewTransferMarket(gm.state, gm.diceRoller, gm.Logger)
	gm.development = NewPlayerDevelopment(gm.Logger)
	gm.ai = NewClubAI(gm.state, gm.market, gm.diceRoller, gm.Logger)
	gm.economy = NewEconomy(gm.state, gm.diceRoller, gm.Logger)
}

// SetLogger sets the logger used by the manager and its subsystems
func (gm *GameManager) SetLogger(logger *zap.Logger) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	gm.Logger = logger
	gm.wire()
}

// SetStorage sets the snapshot store used by Save and Load
func (gm *GameManager) SetStorage(storage interfaces.SnapshotStore) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	gm.storage = storage
}

// IsTransferWindow reports whether date falls in the summer window (July and August)
// or the winter window (January)
func IsTransferWindow(date time.Time) bool {
	switch date.Month() {
	case time.July, time.August, time.January:
		return true
	}
	return false
}

// AdvanceDay runs one simulated day to completion
func (gm *GameManager) AdvanceDay() {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	gm.advanceDay()
}

func (gm *GameManager) advanceDay() {
	today := gm.state.CurrentDate

	matches := gm.league.MatchesForDate(today)
	for _, match := range matches {
		played := gm.simulator.Simulate(match, gm.state, gm.diceRoller)
		match.Result = played.Result
		gm.league.RecordResult(match)
		gm.economy.ProcessMatchIncome(match)
	}

	gm.market.ProcessDaily()
	gm.ai.ProcessDaily()
	gm.processConditions()

	gm.state.CurrentDate = today.AddDate(0, 0, 1)
	gm.checkCalendar()

	gm.Logger.Debug("Advanced day",
		zap.Time("date", gm.state.CurrentDate),
		zap.Int("matches", len(matches)))
}

// processConditions recovers fitness and clears injuries that have run their course
func (gm *GameManager) processConditions() {
	today := gm.state.CurrentDate
	for _, id := range sortedKeys(gm.state.Players) {
		player := gm.state.Players[id]
		if player.Injured {
			if player.InjuryReturn != nil && !player.InjuryReturn.After(today) {
				player.Injured = false
				player.InjuryReturn = nil
			}
			continue
		}
		player.Condition = clampInt(player.Condition+2, 0, 100)
	}
}

func (gm *GameManager) checkCalendar() {
	date := gm.state.CurrentDate

	open := IsTransferWindow(date)
	if open != gm.state.TransferWindowOpen {
		gm.state.TransferWindowOpen = open
		state := "closed"
		if open {
			state = "opened"
		}
		notify(gm.state, gm.diceRoller, types.NoticeTransfer, fmt.Sprintf("The transfer window has %s", state))
		gm.Logger.Info("Transfer window changed", zap.Bool("open", open))
	}

	if date.Weekday() == time.Monday {
		gm.development.ProcessWeekly(gm.state, gm.diceRoller)
		gm.economy.ProcessWeeklyExpenses()
	}

	switch {
	case date.Month() == time.June && date.Day() == 30:
		gm.endSeason()
	case date.Month() == time.August && date.Day() == 1:
		gm.startNewSeason()
	}
}

func (gm *GameManager) endSeason() {
	gm.league.ProcessSeasonEnd()
	gm.development.ProcessSeasonEnd(gm.state, gm.diceRoller)
	gm.market.ProcessContractExpirations()
	gm.ai.ProcessSeasonEnd()
	gm.refreshMarketValues()

	season := 0
	if gm.state.Season != nil {
		season = gm.state.Season.Number
	}
	if team, ok := gm.state.Teams[gm.state.UserTeamID]; ok {
		notify(gm.state, gm.diceRoller, types.NoticeSeason,
			fmt.Sprintf("Season %d finished: %s ended in position %d", season, team.Name, team.SeasonStats.Position))
	}
	gm.Logger.Info("Season ended", zap.Int("season", season))
}

func (gm *GameManager) startNewSeason() {
	season := 1
	if gm.state.Season != nil {
		season = gm.state.Season.Number + 1
	}

	gm.economy.ProcessNewSeasonBudgets()
	gm.league.ResetStandings()
	gm.league.GenerateSeasonFixtures(season, gm.state.CurrentDate.Year())

	gm.Logger.Info("Season started", zap.Int("season", season))
}

// refreshMarketValues revalues every player and every squad
func (gm *GameManager) refreshMarketValues() {
	for _, player := range gm.state.Players {
		player.MarketValue = MarketValue(player, gm.state.CurrentDate)
	}
	for _, team := range gm.state.Teams {
		var total int64
		for _, player := range gm.state.RosterPlayers(team) {
			total += player.MarketValue
		}
		team.MarketValue = total
	}
}

// AdvanceToNextMatch advances days until the team's next fixture is due.
// It reports false when the team has no upcoming fixture this season.
func (gm *GameManager) AdvanceToNextMatch(teamID string) bool {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	next := gm.league.NextMatchForTeam(teamID)
	if next == nil {
		return false
	}
	for days := 0; days < maxAdvanceDays && gm.state.CurrentDate.Before(next.Date) && !next.Played(); days++ {
		gm.advanceDay()
	}
	return true
}

// CurrentDate returns the simulated date
func (gm *GameManager) CurrentDate() time.Time {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	return gm.state.CurrentDate
}

// TransferWindowOpen reports whether offers can be made today
func (gm *GameManager) TransferWindowOpen() bool {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	return gm.state.TransferWindowOpen
}

// MakeTransferOffer bids for a player and returns the new offer's ID
func (gm *GameManager) MakeTransferOffer(playerID, buyerTeamID string, amount int64) (string, bool) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	offer, ok := gm.market.MakeOffer(playerID, buyerTeamID, amount)
	if !ok {
		return "", false
	}
	return offer.ID, true
}

// RespondToOffer answers a pending offer
func (gm *GameManager) RespondToOffer(offerID string, response types.OfferResponse, counterAmount int64) bool {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	return gm.market.RespondToOffer(offerID, response, counterAmount)
}

// SignFreeAgent contracts an unattached player
func (gm *GameManager) SignFreeAgent(playerID, teamID string, years int, weeklySalary int64) bool {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	return gm.market.SignFreeAgent(playerID, teamID, years, weeklySalary)
}

// GetOffers lists the offers a team is buyer or seller in; an empty team ID lists all
func (gm *GameManager) GetOffers(teamID string) []types.TransferOffer {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	offers := make([]types.TransferOffer, 0, len(gm.state.Offers))
	for _, offer := range gm.state.Offers {
		if teamID == "" || offer.BuyerTeamID == teamID || offer.SellerTeamID == teamID {
			offers = append(offers, offer.Clone())
		}
	}
	return offers
}

// GetFreeAgents lists unattached players, best first
func (gm *GameManager) GetFreeAgents() []types.Player {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	agents := gm.market.GetFreeAgents()
	players := make([]types.Player, len(agents))
	for i, p := range agents {
		players[i] = p.Clone()
	}
	return players
}

// SetLineup fixes a team's starting eleven. It fails unless the team exists, the
// formation is known and playerIDs are eleven distinct roster players.
func (gm *GameManager) SetLineup(teamID string, playerIDs []string, formation string) bool {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	team, ok := gm.state.Teams[teamID]
	if !ok || len(playerIDs) != lineupSize {
		return false
	}
	if _, ok := Formations[formation]; !ok {
		return false
	}
	seen := make(map[string]bool, lineupSize)
	for _, id := range playerIDs {
		if seen[id] || !team.HasPlayer(id) {
			return false
		}
		if _, ok := gm.state.Players[id]; !ok {
			return false
		}
		seen[id] = true
	}

	team.Lineup = append([]string(nil), playerIDs...)
	team.Formation = formation
	return true
}

// GetSuggestedLineup proposes a lineup and formation for a team
func (gm *GameManager) GetSuggestedLineup(teamID string) ([]string, string) {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	return gm.ai.SuggestLineup(teamID)
}

// GetTeam returns a copy of a team
func (gm *GameManager) GetTeam(teamID string) (types.Team, bool) {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	team, ok := gm.state.Teams[teamID]
	if !ok {
		return types.Team{}, false
	}
	return team.Clone(), true
}

// GetPlayer returns a copy of a player
func (gm *GameManager) GetPlayer(playerID string) (types.Player, bool) {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	player, ok := gm.state.Players[playerID]
	if !ok {
		return types.Player{}, false
	}
	return player.Clone(), true
}

// GetLeagueTable returns a group's standings
func (gm *GameManager) GetLeagueTable(leagueID, groupID string) []types.Team {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	return copyTeams(gm.league.Table(leagueID, groupID))
}

// GetUpcomingMatches lists a team's next fixtures
func (gm *GameManager) GetUpcomingMatches(teamID string, count int) []types.Match {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	return copyMatches(gm.league.UpcomingMatches(teamID, count))
}

// GetRecentResults lists a team's latest results
func (gm *GameManager) GetRecentResults(teamID string, count int) []types.Match {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	return copyMatches(gm.league.RecentResults(teamID, count))
}

// SimulateMatch plays a fixture on a separate stream seeded by seed, outside the day
// pipeline. The session is not modified.
func (gm *GameManager) SimulateMatch(matchID string, seed uint64) (types.Match, bool) {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	match := gm.league.FindMatch(matchID)
	if match == nil {
		return types.Match{}, false
	}
	return *gm.simulator.Simulate(match, gm.state, NewDiceRoller(seed)), true
}

// GetFinancialHealth rates a team's finances
func (gm *GameManager) GetFinancialHealth(teamID string) types.FinancialHealth {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	return gm.economy.GetFinancialHealth(teamID)
}

// GetProjectedBalance estimates a team's budget at season end
func (gm *GameManager) GetProjectedBalance(teamID string) int64 {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	return gm.economy.GetProjectedBalance(teamID)
}

// GetInbox returns the user's notifications, oldest first
func (gm *GameManager) GetInbox() []types.Notification {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	return append([]types.Notification(nil), gm.state.Inbox...)
}

// Snapshot captures a detached copy of the session
func (gm *GameManager) Snapshot() (*types.Snapshot, error) {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	snapshot, err := gm.snapshot()
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(snapshot.State)
	if err != nil {
		return nil, fmt.Errorf("failed to copy game state: %w", err)
	}
	snapshot.State = &types.GameState{}
	if err := json.Unmarshal(data, snapshot.State); err != nil {
		return nil, fmt.Errorf("failed to copy game state: %w", err)
	}
	return snapshot, nil
}

func (gm *GameManager) snapshot() (*types.Snapshot, error) {
	rng, err := gm.diceRoller.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to capture random stream: %w", err)
	}
	return &types.Snapshot{
		Version: types.SnapshotVersion,
		SavedAt: time.Now().UTC(),
		State:   gm.state,
		RNG:     rng,
	}, nil
}

// Restore replaces the session with a snapshot
func (gm *GameManager) Restore(snapshot *types.Snapshot) error {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	return gm.restore(snapshot)
}

func (gm *GameManager) restore(snapshot *types.Snapshot) error {
	if snapshot.Version != types.SnapshotVersion {
		return fmt.Errorf("snapshot version %d: %w", snapshot.Version, ErrUnsupportedSnapshotVersion)
	}
	if snapshot.State == nil {
		return errors.New("snapshot has no state")
	}

	dice := &DiceRoller{}
	if err := dice.UnmarshalBinary(snapshot.RNG); err != nil {
		return fmt.Errorf("failed to restore random stream: %w", err)
	}

	gm.state = snapshot.State
	gm.diceRoller = dice
	gm.wire()
	return nil
}

// Save writes the session to the configured store
func (gm *GameManager) Save(ctx context.Context) error {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	if gm.storage == nil {
		return errors.New("no snapshot storage configured")
	}
	snapshot, err := gm.snapshot()
	if err != nil {
		return err
	}
	if err := gm.storage.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to save game state: %w", err)
	}
	return nil
}

// Load replaces the session with the latest stored snapshot
func (gm *GameManager) Load(ctx context.Context) error {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	if gm.storage == nil {
		return errors.New("no snapshot storage configured")
	}
	snapshot, err := gm.storage.Load(ctx)
	if err != nil {
		return err
	}
	return gm.restore(snapshot)
}

func copyTeams(teams []*types.Team) []types.Team {
	out := make([]types.Team, len(teams))
	for i, t := range teams {
		out[i] = t.Clone()
	}
	return out
}

func copyMatches(matches []*types.Match) []types.Match {
	out := make([]types.Match, len(matches))
	for i, m := range matches {
		out[i] = m.Clone()
	}
	return out
}
