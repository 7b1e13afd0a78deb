package game

import (
	"fmt"
	"math"
	"time"

	"github.com/user/football-manager/internal/types"
	"go.uber.org/zap"
)

// wageBudgetShare is the share of the season budget set aside for wages
const wageBudgetShare = 0.6

// LeagueTier holds the money figures of one league level
type LeagueTier struct {
	Attendance  int
	TicketPrice int64
	TVMoney     int64
	WinBonus    int64
	Maintenance int64 // weekly
	BaseBudget  int64
}

var (
	defaultTier = LeagueTier{Attendance: 2000, TicketPrice: 12, TVMoney: 10000, WinBonus: 7500, Maintenance: 7500 / 4, BaseBudget: 1000000}

	leagueTiers = map[string]LeagueTier{
		"primeraFederacion": {Attendance: 3000, TicketPrice: 15, TVMoney: 20000, WinBonus: 10000, Maintenance: 10000 / 4, BaseBudget: 2000000},
		"segundaFederacion": {Attendance: 1500, TicketPrice: 10, TVMoney: 5000, WinBonus: 5000, Maintenance: 5000 / 4, BaseBudget: 800000},
	}
)

// TierFor returns the money figures of a league, falling back to the default tier
func TierFor(leagueID string) LeagueTier {
	if tier, ok := leagueTiers[leagueID]; ok {
		return tier
	}
	return defaultTier
}

// Economy applies the money flows of matches, weeks and seasons
type Economy struct {
	state  *types.GameState
	dice   *DiceRoller
	logger *zap.Logger
}

// NewEconomy creates the economy over state
func NewEconomy(state *types.GameState, dice *DiceRoller, logger *zap.Logger) *Economy {
	return &Economy{state: state, dice: dice, logger: logger}
}

// ProcessMatchIncome credits gate receipts to the home side, splits TV money and pays
// the winner's bonus
func (e *Economy) ProcessMatchIncome(match *types.Match) {
	if !match.Played() {
		return
	}
	home, ok := e.state.Teams[match.HomeTeamID]
	if !ok {
		return
	}
	away := e.state.Teams[match.AwayTeamID]
	tier := TierFor(home.League)

	attendance := int(math.Floor(float64(tier.Attendance) * e.attendanceMultiplier(match.Date)))
	home.Budget += int64(attendance) * tier.TicketPrice

	home.Budget += tier.TVMoney / 2
	if away != nil {
		away.Budget += tier.TVMoney / 2
	}

	switch match.Winner() {
	case home.ID:
		home.Budget += tier.WinBonus
	case match.AwayTeamID:
		if away != nil {
			away.Budget += TierFor(away.League).WinBonus
		}
	}
}

func (e *Economy) attendanceMultiplier(date time.Time) float64 {
	multiplier := 1.0
	if month := date.Month(); month >= time.April && month <= time.June {
		multiplier *= 1.2
	}
	return multiplier * (0.8 + e.dice.Float64()*0.4)
}

// ProcessWeeklyExpenses debits a week of wages and maintenance from every club
func (e *Economy) ProcessWeeklyExpenses() {
	for _, id := range sortedKeys(e.state.Teams) {
		team := e.state.Teams[id]
		team.Budget -= team.CurrentWages/52 + TierFor(team.League).Maintenance
		if team.Budget < 0 {
			e.handleFinancialTrouble(team)
		}
	}
}

func (e *Economy) handleFinancialTrouble(team *types.Team) {
	if e.state.IsUserTeam(team.ID) {
		notify(e.state, e.dice, types.NoticeFinance,
			fmt.Sprintf("%s is %d in debt", team.Name, -team.Budget))
		return
	}
	team.AIPersonality.TransferActivity = types.ActivityAggressive
	e.logger.Info("Club in financial trouble",
		zap.String("team", team.ID),
		zap.Int64("budget", team.Budget))
}

// ProcessNewSeasonBudgets credits base budget, position bonus and sponsorship from the
// final standings, then resets the wage budget. Call before standings are cleared.
func (e *Economy) ProcessNewSeasonBudgets() {
	for _, id := range sortedKeys(e.state.Teams) {
		team := e.state.Teams[id]
		team.Budget += TierFor(team.League).BaseBudget + finishingBonus(team.SeasonStats.Position) + sponsorIncome(team)
		team.WagesBudget = int64(math.Round(float64(team.Budget) * wageBudgetShare))
	}
	e.logger.Info("Credited new season budgets", zap.Int("teams", len(e.state.Teams)))
}

func finishingBonus(position int) int64 {
	switch {
	case position <= 0:
		return 0
	case position <= 3:
		return 500000
	case position <= 6:
		return 300000
	case position <= 10:
		return 150000
	}
	return 0
}

func sponsorIncome(team *types.Team) int64 {
	base := int64(math.Round(float64(team.MarketValue) * 0.05))
	position := team.SeasonStats.Position
	if position <= 0 {
		return base
	}
	return base + int64(max(0, 20-position))*10000
}

// GetFinancialHealth rates a team from its wage ratio and its reserves against the wage budget
func (e *Economy) GetFinancialHealth(teamID string) types.FinancialHealth {
	team, ok := e.state.Teams[teamID]
	if !ok {
		return types.HealthStable
	}
	if team.WagesBudget <= 0 {
		if team.Budget < 0 || team.CurrentWages > 0 {
			return types.HealthCritical
		}
		return types.HealthStable
	}

	wageRatio := float64(team.CurrentWages) / float64(team.WagesBudget)
	budgetRatio := -1.0
	if team.Budget > 0 {
		budgetRatio = float64(team.Budget) / float64(team.WagesBudget)
	}

	switch {
	case wageRatio > 1.2 || budgetRatio < 0:
		return types.HealthCritical
	case wageRatio > 1.0 || budgetRatio < 0.2:
		return types.HealthPoor
	case wageRatio > 0.8 || budgetRatio < 0.5:
		return types.HealthStable
	case wageRatio > 0.6:
		return types.HealthGood
	}
	return types.HealthExcellent
}

// GetProjectedBalance estimates the budget at season end from the remaining fixtures
// and the weeks of expenses left
func (e *Economy) GetProjectedBalance(teamID string) int64 {
	team, ok := e.state.Teams[teamID]
	if !ok {
		return 0
	}
	tier := TierFor(team.League)

	var income int64
	if e.state.Season != nil {
		for _, league := range e.state.Season.Leagues {
			for _, group := range league.Groups {
				for _, m := range group.Fixtures {
					if m.Played() || !m.Involves(team.ID) {
						continue
					}
					income += tier.TVMoney / 2
					if m.HomeTeamID == team.ID {
						income += int64(tier.Attendance) * tier.TicketPrice
					}
				}
			}
		}
	}

	weeks := int64(0)
	if e.state.Season != nil && e.state.Season.EndDate.After(e.state.CurrentDate) {
		weeks = int64(e.state.Season.EndDate.Sub(e.state.CurrentDate).Hours() / (24 * 7))
	}
	expenses := weeks * (team.CurrentWages/52 + tier.Maintenance)

	return team.Budget + income - expenses
}
