package game

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/user/football-manager/internal/types"
	"go.uber.org/zap"
)

const (
	// offerRetention is how long an offer stays listed, pending or closed
	offerRetention = 7 * 24 * time.Hour

	acceptRatio   = 0.9
	counterRatio  = 0.7
	counterMarkup = 1.1
)

// TransferMarket runs the offer lifecycle and free-agent signings
type TransferMarket struct {
	state  *types.GameState
	dice   *DiceRoller
	logger *zap.Logger
}

// NewTransferMarket creates a transfer market over state
func NewTransferMarket(state *types.GameState, dice *DiceRoller, logger *zap.Logger) *TransferMarket {
	return &TransferMarket{state: state, dice: dice, logger: logger}
}

// MakeOffer lists a pending bid by buyerTeamID. It fails with no state change when the
// window is closed, the player or buyer is unknown, the player is a free agent or
// already at the buyer, or the buyer cannot cover amount.
func (tm *TransferMarket) MakeOffer(playerID, buyerTeamID string, amount int64) (*types.TransferOffer, bool) {
	if !tm.state.TransferWindowOpen {
		return nil, false
	}
	player, ok := tm.state.Players[playerID]
	if !ok || player.IsFreeAgent() || player.TeamID == buyerTeamID {
		return nil, false
	}
	buyer, ok := tm.state.Teams[buyerTeamID]
	if !ok || amount <= 0 || buyer.Budget < amount {
		return nil, false
	}

	offer := &types.TransferOffer{
		ID:           tm.dice.NewID(),
		PlayerID:     playerID,
		SellerTeamID: player.TeamID,
		BuyerTeamID:  buyerTeamID,
		Amount:       amount,
		Status:       types.OfferPending,
		CreatedAt:    tm.state.CurrentDate,
	}
	tm.state.Offers = append(tm.state.Offers, offer)

	if tm.state.IsUserTeam(offer.SellerTeamID) {
		notify(tm.state, tm.dice, types.NoticeOffer,
			fmt.Sprintf("%s bid %d for %s", buyer.Name, amount, player.Name))
	}

	tm.logger.Debug("Transfer offer made",
		zap.String("offer", offer.ID),
		zap.String("player", playerID),
		zap.String("buyer", buyerTeamID),
		zap.Int64("amount", amount))

	return offer, true
}

// FindOffer looks up a listed offer by ID
func (tm *TransferMarket) FindOffer(offerID string) *types.TransferOffer {
	for _, offer := range tm.state.Offers {
		if offer.ID == offerID {
			return offer
		}
	}
	return nil
}

// RespondToOffer settles a pending offer. Accepting executes the transfer; countering
// needs a positive counterAmount. Anything else, or a non-pending offer, returns false.
func (tm *TransferMarket) RespondToOffer(offerID string, response types.OfferResponse, counterAmount int64) bool {
	offer := tm.FindOffer(offerID)
	if offer == nil || !offer.Pending() {
		return false
	}

	switch response {
	case types.ResponseAccept:
		return tm.executeTransfer(offer)
	case types.ResponseReject:
		tm.close(offer, types.OfferRejected)
		return true
	case types.ResponseCounter:
		if counterAmount <= 0 {
			return false
		}
		offer.CounterAmount = counterAmount
		tm.close(offer, types.OfferCountered)
		return true
	}
	return false
}

func (tm *TransferMarket) close(offer *types.TransferOffer, status types.OfferStatus) {
	closedAt := tm.state.CurrentDate
	offer.Status = status
	offer.ClosedAt = &closedAt

	if tm.state.IsUserTeam(offer.BuyerTeamID) && status != types.OfferAccepted {
		message := fmt.Sprintf("Offer for %s was %s", tm.playerName(offer.PlayerID), status)
		if status == types.OfferCountered {
			message = fmt.Sprintf("%s, asking %d", message, offer.CounterAmount)
		}
		notify(tm.state, tm.dice, types.NoticeOffer, message)
	}
}

// executeTransfer moves the player and the fee. It leaves the offer pending when the
// player has already left the seller or the buyer can no longer pay.
func (tm *TransferMarket) executeTransfer(offer *types.TransferOffer) bool {
	player, ok := tm.state.Players[offer.PlayerID]
	if !ok || player.TeamID != offer.SellerTeamID {
		return false
	}
	seller, ok := tm.state.Teams[offer.SellerTeamID]
	if !ok {
		return false
	}
	buyer, ok := tm.state.Teams[offer.BuyerTeamID]
	if !ok || buyer.Budget < offer.Amount {
		return false
	}

	buyer.Budget -= offer.Amount
	seller.Budget += offer.Amount

	seller.RemovePlayer(player.ID)
	buyer.AddPlayer(player.ID)
	player.TeamID = buyer.ID
	player.TransferHistory = append(player.TransferHistory, types.TransferRecord{
		Date:       tm.state.CurrentDate,
		FromTeamID: seller.ID,
		ToTeamID:   buyer.ID,
		Fee:        offer.Amount,
		Type:       types.RecordTransfer,
	})
	refreshWages(tm.state, seller)
	refreshWages(tm.state, buyer)

	tm.close(offer, types.OfferAccepted)

	if tm.state.IsUserTeam(buyer.ID) || tm.state.IsUserTeam(seller.ID) {
		notify(tm.state, tm.dice, types.NoticeTransfer,
			fmt.Sprintf("%s joined %s from %s for %d", player.Name, buyer.Name, seller.Name, offer.Amount))
	}

	tm.logger.Info("Transfer completed",
		zap.String("player", player.ID),
		zap.String("from", seller.ID),
		zap.String("to", buyer.ID),
		zap.Int64("fee", offer.Amount))

	return true
}

// CalculateMarketValue values a player from overall, age, growth headroom and contract length
func (tm *TransferMarket) CalculateMarketValue(player *types.Player) int64 {
	return MarketValue(player, tm.state.CurrentDate)
}

// MarketValue values player as of now
func MarketValue(player *types.Player, now time.Time) int64 {
	base := float64(player.Overall) * 10000

	var ageMod float64
	switch {
	case player.Age < 21:
		ageMod = 1.5
	case player.Age < 25:
		ageMod = 1.3
	case player.Age < 29:
		ageMod = 1.0
	case player.Age < 32:
		ageMod = 0.7
	default:
		ageMod = 0.4
	}

	potentialMod := 1 + float64(player.Potential-player.Overall)/100

	yearsLeft := player.ContractEnd.Sub(now).Hours() / (365 * 24)
	contractMod := clampFloat(yearsLeft/3, 0.3, 1.0)

	return int64(math.Round(base * ageMod * potentialMod * contractMod))
}

// DecideOffer is an AI seller's answer to amount for player
func (tm *TransferMarket) DecideOffer(player *types.Player, amount int64) (types.OfferResponse, int64) {
	marketValue := tm.CalculateMarketValue(player)
	if marketValue <= 0 {
		return types.ResponseAccept, 0
	}
	ratio := float64(amount) / float64(marketValue)
	switch {
	case ratio >= acceptRatio:
		return types.ResponseAccept, 0
	case ratio >= counterRatio:
		return types.ResponseCounter, int64(math.Round(float64(marketValue) * counterMarkup))
	}
	return types.ResponseReject, 0
}

// ProcessDaily lets AI sellers answer pending offers, lapses offers left pending
// for the retention period and purges closed offers past it
func (tm *TransferMarket) ProcessDaily() {
	now := tm.state.CurrentDate

	for _, offer := range tm.state.Offers {
		if !offer.Pending() || tm.state.IsUserTeam(offer.SellerTeamID) {
			continue
		}
		player, ok := tm.state.Players[offer.PlayerID]
		if !ok {
			tm.close(offer, types.OfferRejected)
			continue
		}
		response, counter := tm.DecideOffer(player, offer.Amount)
		tm.RespondToOffer(offer.ID, response, counter)
		tm.logger.Debug("AI answered offer",
			zap.String("offer", offer.ID),
			zap.String("response", string(response)))
	}

	for _, offer := range tm.state.Offers {
		if offer.Pending() && now.Sub(offer.CreatedAt) >= offerRetention {
			tm.close(offer, types.OfferRejected)
		}
	}

	kept := tm.state.Offers[:0]
	for _, offer := range tm.state.Offers {
		if offer.Pending() || offer.ClosedAt == nil || now.Sub(*offer.ClosedAt) < offerRetention {
			kept = append(kept, offer)
		}
	}
	tm.state.Offers = kept
}

// ProcessContractExpirations releases every contracted player whose deal ends on or
// before June 30 of the current year
func (tm *TransferMarket) ProcessContractExpirations() int {
	year := tm.state.CurrentDate.Year()
	cutoff := time.Date(year, time.June, 30, 23, 59, 59, 0, time.UTC)
	released := 0

	for _, id := range sortedKeys(tm.state.Players) {
		player := tm.state.Players[id]
		if player.IsFreeAgent() || player.ContractEnd.After(cutoff) {
			continue
		}

		from := player.TeamID
		if team, ok := tm.state.Teams[from]; ok {
			team.RemovePlayer(player.ID)
			refreshWages(tm.state, team)
			if tm.state.IsUserTeam(team.ID) {
				notify(tm.state, tm.dice, types.NoticeContract,
					fmt.Sprintf("%s left as a free agent", player.Name))
			}
		}
		player.TeamID = types.FreeAgent
		player.TransferHistory = append(player.TransferHistory, types.TransferRecord{
			Date:       tm.state.CurrentDate,
			FromTeamID: from,
			ToTeamID:   types.FreeAgent,
			Type:       types.RecordRelease,
		})
		released++
	}

	tm.logger.Info("Processed contract expirations", zap.Int("released", released))
	return released
}

// GetFreeAgents lists unattached players, best first
func (tm *TransferMarket) GetFreeAgents() []*types.Player {
	agents := make([]*types.Player, 0)
	for _, id := range sortedKeys(tm.state.Players) {
		if player := tm.state.Players[id]; player.IsFreeAgent() {
			agents = append(agents, player)
		}
	}
	sort.SliceStable(agents, func(i, j int) bool {
		return agents[i].Overall > agents[j].Overall
	})
	return agents
}

// SignFreeAgent contracts an unattached player for years at weeklySalary. It fails
// when the player has a club or the annual cost would break the wage budget.
func (tm *TransferMarket) SignFreeAgent(playerID, teamID string, years int, weeklySalary int64) bool {
	player, ok := tm.state.Players[playerID]
	if !ok || !player.IsFreeAgent() {
		return false
	}
	team, ok := tm.state.Teams[teamID]
	if !ok || years <= 0 || weeklySalary <= 0 {
		return false
	}
	annual := weeklySalary * 52
	if team.CurrentWages+annual > team.WagesBudget {
		return false
	}

	player.TeamID = team.ID
	player.Salary = weeklySalary
	player.ContractEnd = tm.state.CurrentDate.AddDate(years, 0, 0)
	team.AddPlayer(player.ID)
	team.CurrentWages += annual
	player.TransferHistory = append(player.TransferHistory, types.TransferRecord{
		Date:       tm.state.CurrentDate,
		FromTeamID: types.FreeAgent,
		ToTeamID:   team.ID,
		Type:       types.RecordFree,
	})

	tm.logger.Info("Free agent signed",
		zap.String("player", player.ID),
		zap.String("team", team.ID),
		zap.Int64("weekly_salary", weeklySalary))

	return true
}

// FindTargets lists contracted players at pos outside excludeTeamID whose market
// value fits maxFee, best first
func (tm *TransferMarket) FindTargets(pos types.Position, maxFee int64, excludeTeamID string) []*types.Player {
	targets := make([]*types.Player, 0)
	for _, id := range sortedKeys(tm.state.Players) {
		player := tm.state.Players[id]
		if player.Position != pos || player.IsFreeAgent() || player.TeamID == excludeTeamID {
			continue
		}
		if tm.CalculateMarketValue(player) > maxFee {
			continue
		}
		targets = append(targets, player)
	}
	sort.SliceStable(targets, func(i, j int) bool {
		return targets[i].Overall > targets[j].Overall
	})
	return targets
}

func (tm *TransferMarket) playerName(playerID string) string {
	if player, ok := tm.state.Players[playerID]; ok {
		return player.Name
	}
	return playerID
}

// refreshWages recomputes a team's annual wage bill from its roster
func refreshWages(state *types.GameState, team *types.Team) {
	var total int64
	for _, player := range state.RosterPlayers(team) {
		total += player.Salary * 52
	}
	team.CurrentWages = total
}
