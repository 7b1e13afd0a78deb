package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/football-manager/internal/types"
	"go.uber.org/zap"
)

// newMarketState has the user club "user" and an AI club "ai" with the window open
func newMarketState() (*types.GameState, *TransferMarket) {
	state := types.NewGameState(testStart)
	state.TransferWindowOpen = true
	state.UserTeamID = "user"
	addTeam(state, "user", fullSquad("u", 60)...)
	addTeam(state, "ai", fullSquad("a", 60)...)
	return state, NewTransferMarket(state, NewDiceRoller(3), zap.NewNop())
}

func totalBudget(state *types.GameState) int64 {
	var total int64
	for _, team := range state.Teams {
		total += team.Budget
	}
	return total
}

func TestMakeOfferValidation(t *testing.T) {
	state, market := newMarketState()

	// Test case 1: valid offer
	offer, ok := market.MakeOffer("ab", "user", 100000)
	require.True(t, ok)
	assert.Equal(t, types.OfferPending, offer.Status)
	assert.Equal(t, "ai", offer.SellerTeamID)
	assert.Equal(t, testStart, offer.CreatedAt)
	assert.Len(t, state.Offers, 1)

	// Test case 2: rejected inputs leave no trace
	_, ok = market.MakeOffer("missing", "user", 100000)
	assert.False(t, ok)
	_, ok = market.MakeOffer("ub", "user", 100000)
	assert.False(t, ok, "own player")
	_, ok = market.MakeOffer("ab", "nobody", 100000)
	assert.False(t, ok, "unknown buyer")
	_, ok = market.MakeOffer("ab", "user", 0)
	assert.False(t, ok, "zero amount")
	_, ok = market.MakeOffer("ab", "user", state.Teams["user"].Budget+1)
	assert.False(t, ok, "over budget")

	state.Players["ac"].TeamID = types.FreeAgent
	_, ok = market.MakeOffer("ac", "user", 1000)
	assert.False(t, ok, "free agent")

	// Test case 3: closed window
	state.TransferWindowOpen = false
	_, ok = market.MakeOffer("ab", "user", 100000)
	assert.False(t, ok)

	assert.Len(t, state.Offers, 1)
}

func TestOfferToUserNotifies(t *testing.T) {
	state, market := newMarketState()

	_, ok := market.MakeOffer("ub", "ai", 50000)
	require.True(t, ok)

	require.Len(t, state.Inbox, 1)
	assert.Equal(t, types.NoticeOffer, state.Inbox[0].Kind)
}

func TestAcceptedTransferConservesMoney(t *testing.T) {
	state, market := newMarketState()
	before := totalBudget(state)
	userBudget := state.Teams["user"].Budget

	offer, ok := market.MakeOffer("ab", "user", 250000)
	require.True(t, ok)
	require.True(t, market.RespondToOffer(offer.ID, types.ResponseAccept, 0))

	assert.Equal(t, before, totalBudget(state))
	assert.Equal(t, userBudget-250000, state.Teams["user"].Budget)

	player := state.Players["ab"]
	assert.Equal(t, "user", player.TeamID)
	assert.True(t, state.Teams["user"].HasPlayer("ab"))
	assert.False(t, state.Teams["ai"].HasPlayer("ab"))
	require.Len(t, player.TransferHistory, 1)
	assert.Equal(t, types.TransferRecord{
		Date:       testStart,
		FromTeamID: "ai",
		ToTeamID:   "user",
		Fee:        250000,
		Type:       types.RecordTransfer,
	}, player.TransferHistory[0])

	assert.Equal(t, types.OfferAccepted, offer.Status)
	require.NotNil(t, offer.ClosedAt)
	assert.Equal(t, int64(len(state.Teams["user"].PlayerIDs))*1000*52, state.Teams["user"].CurrentWages)

	// A closed offer cannot be answered again
	assert.False(t, market.RespondToOffer(offer.ID, types.ResponseReject, 0))
}

func TestAcceptFailsWhenBuyerCannotPay(t *testing.T) {
	state, market := newMarketState()

	offer, ok := market.MakeOffer("ab", "user", 250000)
	require.True(t, ok)
	state.Teams["user"].Budget = 1000

	assert.False(t, market.RespondToOffer(offer.ID, types.ResponseAccept, 0))
	assert.True(t, offer.Pending())
	assert.Equal(t, "ai", state.Players["ab"].TeamID)
}

func TestRespondRejectAndCounter(t *testing.T) {
	state, market := newMarketState()

	first, _ := market.MakeOffer("ab", "user", 1000)
	second, _ := market.MakeOffer("ac", "user", 1000)

	assert.True(t, market.RespondToOffer(first.ID, types.ResponseReject, 0))
	assert.Equal(t, types.OfferRejected, first.Status)

	assert.False(t, market.RespondToOffer(second.ID, types.ResponseCounter, 0), "counter needs an amount")
	assert.True(t, market.RespondToOffer(second.ID, types.ResponseCounter, 5000))
	assert.Equal(t, types.OfferCountered, second.Status)
	assert.Equal(t, int64(5000), second.CounterAmount)

	assert.False(t, market.RespondToOffer("missing", types.ResponseAccept, 0))
	assert.False(t, market.RespondToOffer(second.ID, types.OfferResponse("maybe"), 0))

	// The user as buyer hears about both answers
	assert.Len(t, state.Inbox, 2)
}

func TestMarketValue(t *testing.T) {
	player := testPlayer("p", types.PosCM, 70)
	player.Age = 22
	player.Potential = 80
	player.ContractEnd = testStart.AddDate(5, 0, 0)

	assert.Equal(t, int64(1001000), MarketValue(player, testStart))

	// Expiring deals are worth at most 30% of a long one
	player.ContractEnd = testStart
	assert.Equal(t, int64(300300), MarketValue(player, testStart))

	player.Age = 33
	player.Potential = 70
	player.ContractEnd = testStart.AddDate(5, 0, 0)
	assert.Equal(t, int64(280000), MarketValue(player, testStart))
}

func TestMarketValueRisesWithOverall(t *testing.T) {
	cases := []struct {
		age       int
		potential int
		years     int
	}{
		{19, 99, 4},
		{23, 80, 2},
		{27, 60, 1},
		{30, 99, 0},
		{34, 75, 3},
	}

	for _, tc := range cases {
		player := testPlayer("p", types.PosCM, 1)
		player.Age = tc.age
		player.Potential = tc.potential
		player.ContractEnd = testStart.AddDate(tc.years, 0, 0)

		previous := int64(0)
		for overall := 1; overall <= tc.potential; overall++ {
			player.Overall = overall
			value := MarketValue(player, testStart)
			assert.GreaterOrEqual(t, value, previous, "age %d potential %d overall %d", tc.age, tc.potential, overall)
			previous = value
		}
	}
}

func TestDecideOffer(t *testing.T) {
	state, market := newMarketState()
	player := state.Players["ab"]
	value := market.CalculateMarketValue(player)
	require.Positive(t, value)

	response, counter := market.DecideOffer(player, value*95/100)
	assert.Equal(t, types.ResponseAccept, response)
	assert.Zero(t, counter)

	response, counter = market.DecideOffer(player, value*75/100)
	assert.Equal(t, types.ResponseCounter, response)
	assert.InDelta(t, float64(value)*1.1, float64(counter), 1)

	response, _ = market.DecideOffer(player, value*60/100)
	assert.Equal(t, types.ResponseReject, response)
}

func TestProcessDailyAISellerAnswers(t *testing.T) {
	state, market := newMarketState()
	state.Teams["user"].Budget = 100000000
	value := market.CalculateMarketValue(state.Players["ab"])

	good, _ := market.MakeOffer("ab", "user", value)
	low, _ := market.MakeOffer("ac", "user", 1)

	market.ProcessDaily()

	assert.Equal(t, types.OfferAccepted, good.Status)
	assert.Equal(t, "user", state.Players["ab"].TeamID)
	assert.Equal(t, types.OfferRejected, low.Status)
}

func TestOfferExpiryAndPurge(t *testing.T) {
	state, market := newMarketState()

	// The user sells, so nobody answers automatically
	offer, ok := market.MakeOffer("ub", "ai", 50000)
	require.True(t, ok)

	state.CurrentDate = testStart.AddDate(0, 0, 6)
	market.ProcessDaily()
	assert.True(t, offer.Pending())

	state.CurrentDate = testStart.AddDate(0, 0, 7)
	market.ProcessDaily()
	assert.Equal(t, types.OfferRejected, offer.Status)
	require.Len(t, state.Offers, 1)

	state.CurrentDate = testStart.AddDate(0, 0, 14)
	market.ProcessDaily()
	assert.Empty(t, state.Offers)
}

func TestProcessContractExpirations(t *testing.T) {
	state, market := newMarketState()
	state.CurrentDate = time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)

	state.Players["ub"].ContractEnd = time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
	state.Players["ac"].ContractEnd = time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	free := testPlayer("free", types.PosST, 50)
	free.ContractEnd = time.Date(2020, time.June, 30, 0, 0, 0, 0, time.UTC)
	state.Players["free"] = free

	released := market.ProcessContractExpirations()

	assert.Equal(t, 2, released)
	for _, id := range []string{"ub", "ac"} {
		player := state.Players[id]
		assert.True(t, player.IsFreeAgent(), id)
		require.Len(t, player.TransferHistory, 1)
		assert.Equal(t, types.RecordRelease, player.TransferHistory[0].Type)
	}
	assert.False(t, state.Teams["user"].HasPlayer("ub"))
	assert.False(t, state.Teams["ai"].HasPlayer("ac"))
	assert.Empty(t, free.TransferHistory)

	// Only the user's loss is reported
	require.Len(t, state.Inbox, 1)
	assert.Equal(t, types.NoticeContract, state.Inbox[0].Kind)
}

func TestSignFreeAgent(t *testing.T) {
	state, market := newMarketState()
	team := state.Teams["user"]
	agent := testPlayer("agent", types.PosST, 75)
	state.Players["agent"] = agent

	// Test case 1: wage budget exceeded
	headroom := team.WagesBudget - team.CurrentWages
	assert.False(t, market.SignFreeAgent("agent", "user", 2, headroom/52+1))

	// Test case 2: bad terms
	assert.False(t, market.SignFreeAgent("agent", "user", 0, 100))
	assert.False(t, market.SignFreeAgent("agent", "nobody", 2, 100))
	assert.False(t, market.SignFreeAgent("ub", "ai", 2, 100), "contracted player")

	// Test case 3: signed
	wagesBefore := team.CurrentWages
	require.True(t, market.SignFreeAgent("agent", "user", 2, 800))
	assert.Equal(t, "user", agent.TeamID)
	assert.Equal(t, int64(800), agent.Salary)
	assert.Equal(t, testStart.AddDate(2, 0, 0), agent.ContractEnd)
	assert.Equal(t, wagesBefore+800*52, team.CurrentWages)
	assert.True(t, team.HasPlayer("agent"))
	require.Len(t, agent.TransferHistory, 1)
	assert.Equal(t, types.RecordFree, agent.TransferHistory[0].Type)

	assert.Empty(t, market.GetFreeAgents())
}

func TestGetFreeAgentsBestFirst(t *testing.T) {
	state, market := newMarketState()
	state.Players["x"] = testPlayer("x", types.PosCM, 50)
	state.Players["y"] = testPlayer("y", types.PosCM, 70)

	agents := market.GetFreeAgents()
	require.Len(t, agents, 2)
	assert.Equal(t, "y", agents[0].ID)
	assert.Equal(t, "x", agents[1].ID)
}

func TestFindTargets(t *testing.T) {
	state, market := newMarketState()
	state.Players["aj"].Overall = 72

	targets := market.FindTargets(types.PosST, 100000000, "user")
	require.Len(t, targets, 2)
	assert.Equal(t, "aj", targets[0].ID)
	for _, p := range targets {
		assert.Equal(t, "ai", p.TeamID)
	}

	assert.Empty(t, market.FindTargets(types.PosST, 1, "user"))
}
