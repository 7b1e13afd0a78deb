package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/user/football-manager/internal/interfaces"
	"github.com/user/football-manager/internal/types"
)

const maxAdvanceDays = 365

type NoArgs struct{}

type AdvanceArgs struct {
	Days int `json:"days" jsonschema:"Days to simulate (default 1, max 365)"`
}

type TeamArgs struct {
	TeamID string `json:"team_id" jsonschema:"Team id (required)"`
}

type TeamListArgs struct {
	TeamID string `json:"team_id" jsonschema:"Team id (required)"`
	Count  int    `json:"count" jsonschema:"How many matches (default 5, -1 = all)"`
}

type PlayerArgs struct {
	PlayerID string `json:"player_id" jsonschema:"Player id (required)"`
}

type TableArgs struct {
	LeagueID string `json:"league_id" jsonschema:"League id (required)"`
	GroupID  string `json:"group_id" jsonschema:"Group id (required)"`
}

type LineupArgs struct {
	TeamID    string   `json:"team_id" jsonschema:"Team id (required)"`
	PlayerIDs []string `json:"player_ids" jsonschema:"Eleven distinct squad player ids, goalkeeper first"`
	Formation string   `json:"formation" jsonschema:"4-4-2, 4-3-3, 3-5-2, 4-5-1 or 5-3-2"`
}

type OfferArgs struct {
	PlayerID    string `json:"player_id" jsonschema:"Player to buy (required)"`
	BuyerTeamID string `json:"buyer_team_id" jsonschema:"Buying team id (required)"`
	Amount      int64  `json:"amount" jsonschema:"Fee in euros (required)"`
}

type RespondArgs struct {
	OfferID       string `json:"offer_id" jsonschema:"Offer id (required)"`
	Response      string `json:"response" jsonschema:"accept, reject or counter"`
	CounterAmount int64  `json:"counter_amount" jsonschema:"Counter fee, required for counter"`
}

type OffersArgs struct {
	TeamID string `json:"team_id" jsonschema:"Only offers involving this team (empty = all)"`
}

type SignArgs struct {
	PlayerID     string `json:"player_id" jsonschema:"Free agent id (required)"`
	TeamID       string `json:"team_id" jsonschema:"Signing team id (required)"`
	Years        int    `json:"years" jsonschema:"Contract length in years, 1 to 5"`
	WeeklySalary int64  `json:"weekly_salary" jsonschema:"Weekly salary in euros"`
}

type SimulateArgs struct {
	MatchID string `json:"match_id" jsonschema:"Match id (required)"`
	Seed    uint64 `json:"seed" jsonschema:"Seed of the preview"`
}

// toolset adapts engine operations to MCP tool handlers
type toolset struct {
	engine interfaces.Engine
}

func newToolset(engine interfaces.Engine) *toolset {
	return &toolset{engine: engine}
}

func registerTools(server *mcp.Server, ts *toolset) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "current_date",
		Description: "Simulated date and whether the transfer window is open",
	}, ts.currentDate)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "advance_days",
		Description: "Simulate one or more days: fixtures, market, AI, development and finances",
	}, ts.advanceDays)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "advance_to_next_match",
		Description: "Advance to the day of the team's next fixture without playing it",
	}, ts.advanceToNextMatch)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_team",
		Description: "Team record with squad, budget and season stats",
	}, ts.getTeam)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_player",
		Description: "Player record with attributes, contract and season stats",
	}, ts.getPlayer)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "league_table",
		Description: "Group standings ordered by points, goal difference and goals scored",
	}, ts.leagueTable)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "upcoming_matches",
		Description: "Next unplayed fixtures of a team",
	}, ts.upcomingMatches)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "recent_results",
		Description: "Latest played matches of a team, newest first",
	}, ts.recentResults)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_lineup",
		Description: "Set the starting eleven and formation of a team",
	}, ts.setLineup)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "suggested_lineup",
		Description: "Best available eleven and formation for a team",
	}, ts.suggestedLineup)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "make_offer",
		Description: "Bid for a player during an open transfer window",
	}, ts.makeOffer)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "respond_offer",
		Description: "Accept, reject or counter a pending offer",
	}, ts.respondOffer)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_offers",
		Description: "Transfer offers still in the market history",
	}, ts.listOffers)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "free_agents",
		Description: "Players without a club",
	}, ts.freeAgents)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "sign_free_agent",
		Description: "Sign a free agent on a new contract",
	}, ts.signFreeAgent)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "simulate_match",
		Description: "Preview a fixture with a seed; the session is not changed",
	}, ts.simulateMatch)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "finances",
		Description: "Financial health and projected end-of-season balance of a team",
	}, ts.finances)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "inbox",
		Description: "Notifications for the manager",
	}, ts.inbox)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "save_game",
		Description: "Write the session to the snapshot store",
	}, ts.saveGame)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "load_game",
		Description: "Replace the session with the latest saved snapshot",
	}, ts.loadGame)
}

func (ts *toolset) currentDate(ctx context.Context, req *mcp.CallToolRequest, args NoArgs) (*mcp.CallToolResult, any, error) {
	return ts.dateResult()
}

func (ts *toolset) advanceDays(ctx context.Context, req *mcp.CallToolRequest, args AdvanceArgs) (*mcp.CallToolResult, any, error) {
	days := args.Days
	if days <= 0 {
		days = 1
	}
	if days > maxAdvanceDays {
		return toolError(fmt.Errorf("days must be at most %d", maxAdvanceDays)), nil, nil
	}
	for i := 0; i < days; i++ {
		if err := ctx.Err(); err != nil {
			return toolError(err), nil, nil
		}
		ts.engine.AdvanceDay()
	}
	return ts.dateResult()
}

func (ts *toolset) advanceToNextMatch(ctx context.Context, req *mcp.CallToolRequest, args TeamArgs) (*mcp.CallToolResult, any, error) {
	if args.TeamID == "" {
		return toolError(fmt.Errorf("team_id is required")), nil, nil
	}
	if !ts.engine.AdvanceToNextMatch(args.TeamID) {
		return toolError(fmt.Errorf("no upcoming match for %s", args.TeamID)), nil, nil
	}
	return ts.dateResult()
}

func (ts *toolset) getTeam(ctx context.Context, req *mcp.CallToolRequest, args TeamArgs) (*mcp.CallToolResult, any, error) {
	team, ok := ts.engine.GetTeam(args.TeamID)
	if !ok {
		return toolError(fmt.Errorf("team %q not found", args.TeamID)), nil, nil
	}
	return toolJSON(team)
}

func (ts *toolset) getPlayer(ctx context.Context, req *mcp.CallToolRequest, args PlayerArgs) (*mcp.CallToolResult, any, error) {
	player, ok := ts.engine.GetPlayer(args.PlayerID)
	if !ok {
		return toolError(fmt.Errorf("player %q not found", args.PlayerID)), nil, nil
	}
	return toolJSON(player)
}

func (ts *toolset) leagueTable(ctx context.Context, req *mcp.CallToolRequest, args TableArgs) (*mcp.CallToolResult, any, error) {
	table := ts.engine.GetLeagueTable(args.LeagueID, args.GroupID)
	if len(table) == 0 {
		return toolError(fmt.Errorf("group %s/%s not found", args.LeagueID, args.GroupID)), nil, nil
	}
	return toolJSON(table)
}

func (ts *toolset) upcomingMatches(ctx context.Context, req *mcp.CallToolRequest, args TeamListArgs) (*mcp.CallToolResult, any, error) {
	return toolJSON(ts.engine.GetUpcomingMatches(args.TeamID, listCount(args.Count)))
}

func (ts *toolset) recentResults(ctx context.Context, req *mcp.CallToolRequest, args TeamListArgs) (*mcp.CallToolResult, any, error) {
	return toolJSON(ts.engine.GetRecentResults(args.TeamID, listCount(args.Count)))
}

func (ts *toolset) setLineup(ctx context.Context, req *mcp.CallToolRequest, args LineupArgs) (*mcp.CallToolResult, any, error) {
	if !ts.engine.SetLineup(args.TeamID, args.PlayerIDs, args.Formation) {
		return toolError(fmt.Errorf("lineup rejected")), nil, nil
	}
	return toolText("lineup set"), nil, nil
}

func (ts *toolset) suggestedLineup(ctx context.Context, req *mcp.CallToolRequest, args TeamArgs) (*mcp.CallToolResult, any, error) {
	ids, formation := ts.engine.GetSuggestedLineup(args.TeamID)
	if len(ids) == 0 {
		return toolError(fmt.Errorf("team %q not found", args.TeamID)), nil, nil
	}
	return toolJSON(map[string]any{
		"player_ids": ids,
		"formation":  formation,
	})
}

func (ts *toolset) makeOffer(ctx context.Context, req *mcp.CallToolRequest, args OfferArgs) (*mcp.CallToolResult, any, error) {
	id, ok := ts.engine.MakeTransferOffer(args.PlayerID, args.BuyerTeamID, args.Amount)
	if !ok {
		return toolError(fmt.Errorf("offer rejected")), nil, nil
	}
	return toolJSON(map[string]string{"offer_id": id})
}

func (ts *toolset) respondOffer(ctx context.Context, req *mcp.CallToolRequest, args RespondArgs) (*mcp.CallToolResult, any, error) {
	response := types.OfferResponse(args.Response)
	switch response {
	case types.ResponseAccept, types.ResponseReject, types.ResponseCounter:
	default:
		return toolError(fmt.Errorf("response must be accept, reject or counter")), nil, nil
	}
	if !ts.engine.RespondToOffer(args.OfferID, response, args.CounterAmount) {
		return toolError(fmt.Errorf("response rejected")), nil, nil
	}
	return toolText("response recorded"), nil, nil
}

func (ts *toolset) listOffers(ctx context.Context, req *mcp.CallToolRequest, args OffersArgs) (*mcp.CallToolResult, any, error) {
	return toolJSON(ts.engine.GetOffers(args.TeamID))
}

func (ts *toolset) freeAgents(ctx context.Context, req *mcp.CallToolRequest, args NoArgs) (*mcp.CallToolResult, any, error) {
	return toolJSON(ts.engine.GetFreeAgents())
}

func (ts *toolset) signFreeAgent(ctx context.Context, req *mcp.CallToolRequest, args SignArgs) (*mcp.CallToolResult, any, error) {
	if !ts.engine.SignFreeAgent(args.PlayerID, args.TeamID, args.Years, args.WeeklySalary) {
		return toolError(fmt.Errorf("signing rejected")), nil, nil
	}
	return toolText("player signed"), nil, nil
}

func (ts *toolset) simulateMatch(ctx context.Context, req *mcp.CallToolRequest, args SimulateArgs) (*mcp.CallToolResult, any, error) {
	match, ok := ts.engine.SimulateMatch(args.MatchID, args.Seed)
	if !ok {
		return toolError(fmt.Errorf("match %q not found", args.MatchID)), nil, nil
	}
	return toolJSON(match)
}

func (ts *toolset) finances(ctx context.Context, req *mcp.CallToolRequest, args TeamArgs) (*mcp.CallToolResult, any, error) {
	team, ok := ts.engine.GetTeam(args.TeamID)
	if !ok {
		return toolError(fmt.Errorf("team %q not found", args.TeamID)), nil, nil
	}
	return toolJSON(map[string]any{
		"budget":            team.Budget,
		"wages_budget":      team.WagesBudget,
		"current_wages":     team.CurrentWages,
		"health":            ts.engine.GetFinancialHealth(args.TeamID),
		"projected_balance": ts.engine.GetProjectedBalance(args.TeamID),
	})
}

func (ts *toolset) inbox(ctx context.Context, req *mcp.CallToolRequest, args NoArgs) (*mcp.CallToolResult, any, error) {
	return toolJSON(ts.engine.GetInbox())
}

func (ts *toolset) saveGame(ctx context.Context, req *mcp.CallToolRequest, args NoArgs) (*mcp.CallToolResult, any, error) {
	if err := ts.engine.Save(ctx); err != nil {
		return toolError(err), nil, nil
	}
	return toolText("game saved"), nil, nil
}

func (ts *toolset) loadGame(ctx context.Context, req *mcp.CallToolRequest, args NoArgs) (*mcp.CallToolResult, any, error) {
	if err := ts.engine.Load(ctx); err != nil {
		return toolError(err), nil, nil
	}
	return ts.dateResult()
}

func (ts *toolset) dateResult() (*mcp.CallToolResult, any, error) {
	return toolJSON(map[string]any{
		"date":                 ts.engine.CurrentDate().Format("2006-01-02"),
		"transfer_window_open": ts.engine.TransferWindowOpen(),
	})
}

func listCount(count int) int {
	if count == 0 {
		return 5
	}
	return count
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	res, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolText(string(res)), nil, nil
}

func toolText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
