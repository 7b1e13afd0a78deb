package interfaces

import (
	"context"
	"time"

	"github.com/user/football-manager/internal/types"
)

// SnapshotStore persists session snapshots
type SnapshotStore interface {
	Save(ctx context.Context, snapshot *types.Snapshot) error
	Load(ctx context.Context) (*types.Snapshot, error)
}

// Engine defines the operations a front end drives a session with.
// Reads return copies; mutations report failure with false and leave state unchanged.
type Engine interface {
	AdvanceDay()
	AdvanceToNextMatch(teamID string) bool
	CurrentDate() time.Time
	TransferWindowOpen() bool

	MakeTransferOffer(playerID, buyerTeamID string, amount int64) (string, bool)
	RespondToOffer(offerID string, response types.OfferResponse, counterAmount int64) bool
	SignFreeAgent(playerID, teamID string, years int, weeklySalary int64) bool
	GetOffers(teamID string) []types.TransferOffer
	GetFreeAgents() []types.Player

	SetLineup(teamID string, playerIDs []string, formation string) bool
	GetSuggestedLineup(teamID string) ([]string, string)

	GetTeam(teamID string) (types.Team, bool)
	GetPlayer(playerID string) (types.Player, bool)
	GetLeagueTable(leagueID, groupID string) []types.Team
	GetUpcomingMatches(teamID string, count int) []types.Match
	GetRecentResults(teamID string, count int) []types.Match
	SimulateMatch(matchID string, seed uint64) (types.Match, bool)

	GetFinancialHealth(teamID string) types.FinancialHealth
	GetProjectedBalance(teamID string) int64
	GetInbox() []types.Notification

	Save(ctx context.Context) error
	Load(ctx context.Context) error
}
