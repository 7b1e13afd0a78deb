package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/user/football-manager/internal/game"
	"github.com/user/football-manager/internal/types"
	"go.uber.org/zap"
)

const defaultListCount = 5

// DateResponse reports the simulated date
type DateResponse struct {
	Date               time.Time `json:"date"`
	TransferWindowOpen bool      `json:"transfer_window_open"`
}

// LineupRequest sets a team's starting eleven
type LineupRequest struct {
	PlayerIDs []string `json:"player_ids"`
	Formation string   `json:"formation"`
}

// LineupResponse is a suggested starting eleven
type LineupResponse struct {
	PlayerIDs []string `json:"player_ids"`
	Formation string   `json:"formation"`
}

// OfferRequest creates a transfer offer
type OfferRequest struct {
	PlayerID    string `json:"player_id"`
	BuyerTeamID string `json:"buyer_team_id"`
	Amount      int64  `json:"amount"`
}

// OfferResponse carries the ID of a created offer
type OfferResponse struct {
	OfferID string `json:"offer_id"`
}

// RespondRequest answers a pending offer
type RespondRequest struct {
	Response      types.OfferResponse `json:"response"`
	CounterAmount int64               `json:"counter_amount"`
}

// SignRequest signs a free agent
type SignRequest struct {
	TeamID       string `json:"team_id"`
	Years        int    `json:"years"`
	WeeklySalary int64  `json:"weekly_salary"`
}

// FinanceResponse summarizes a club's finances
type FinanceResponse struct {
	Health           types.FinancialHealth `json:"health"`
	ProjectedBalance int64                 `json:"projected_balance"`
}

func (h *Handler) getDate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.dateResponse())
}

func (h *Handler) advanceDay(w http.ResponseWriter, r *http.Request) {
	h.engine.AdvanceDay()
	writeJSON(w, http.StatusOK, h.dateResponse())
}

func (h *Handler) advanceToNextMatch(w http.ResponseWriter, r *http.Request) {
	if !h.engine.AdvanceToNextMatch(chi.URLParam(r, "teamID")) {
		http.Error(w, "no upcoming match", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h.dateResponse())
}

func (h *Handler) dateResponse() DateResponse {
	return DateResponse{
		Date:               h.engine.CurrentDate(),
		TransferWindowOpen: h.engine.TransferWindowOpen(),
	}
}

func (h *Handler) getTeam(w http.ResponseWriter, r *http.Request) {
	team, ok := h.engine.GetTeam(chi.URLParam(r, "teamID"))
	if !ok {
		http.Error(w, "team not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

func (h *Handler) getPlayer(w http.ResponseWriter, r *http.Request) {
	player, ok := h.engine.GetPlayer(chi.URLParam(r, "playerID"))
	if !ok {
		http.Error(w, "player not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, player)
}

func (h *Handler) getLeagueTable(w http.ResponseWriter, r *http.Request) {
	table := h.engine.GetLeagueTable(chi.URLParam(r, "leagueID"), chi.URLParam(r, "groupID"))
	if len(table) == 0 {
		http.Error(w, "group not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (h *Handler) getUpcoming(w http.ResponseWriter, r *http.Request) {
	count, err := queryInt(r, "count", defaultListCount)
	if err != nil {
		http.Error(w, "invalid count", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.engine.GetUpcomingMatches(chi.URLParam(r, "teamID"), count))
}

func (h *Handler) getResults(w http.ResponseWriter, r *http.Request) {
	count, err := queryInt(r, "count", defaultListCount)
	if err != nil {
		http.Error(w, "invalid count", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.engine.GetRecentResults(chi.URLParam(r, "teamID"), count))
}

func (h *Handler) setLineup(w http.ResponseWriter, r *http.Request) {
	var req LineupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if !h.engine.SetLineup(chi.URLParam(r, "teamID"), req.PlayerIDs, req.Formation) {
		http.Error(w, "lineup rejected", http.StatusUnprocessableEntity)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getSuggestedLineup(w http.ResponseWriter, r *http.Request) {
	ids, formation := h.engine.GetSuggestedLineup(chi.URLParam(r, "teamID"))
	if len(ids) == 0 {
		http.Error(w, "team not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, LineupResponse{PlayerIDs: ids, Formation: formation})
}

func (h *Handler) getFinance(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	if _, ok := h.engine.GetTeam(teamID); !ok {
		http.Error(w, "team not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, FinanceResponse{
		Health:           h.engine.GetFinancialHealth(teamID),
		ProjectedBalance: h.engine.GetProjectedBalance(teamID),
	})
}

func (h *Handler) getOffers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.GetOffers(r.URL.Query().Get("team")))
}

func (h *Handler) makeOffer(w http.ResponseWriter, r *http.Request) {
	var req OfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	id, ok := h.engine.MakeTransferOffer(req.PlayerID, req.BuyerTeamID, req.Amount)
	if !ok {
		http.Error(w, "offer rejected", http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusCreated, OfferResponse{OfferID: id})
}

func (h *Handler) respondToOffer(w http.ResponseWriter, r *http.Request) {
	var req RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	switch req.Response {
	case types.ResponseAccept, types.ResponseReject, types.ResponseCounter:
	default:
		http.Error(w, "response must be accept, reject or counter", http.StatusBadRequest)
		return
	}

	if !h.engine.RespondToOffer(chi.URLParam(r, "offerID"), req.Response, req.CounterAmount) {
		http.Error(w, "response rejected", http.StatusUnprocessableEntity)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getFreeAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.GetFreeAgents())
}

func (h *Handler) signFreeAgent(w http.ResponseWriter, r *http.Request) {
	var req SignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if !h.engine.SignFreeAgent(chi.URLParam(r, "playerID"), req.TeamID, req.Years, req.WeeklySalary) {
		http.Error(w, "signing rejected", http.StatusUnprocessableEntity)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) simulateMatch(w http.ResponseWriter, r *http.Request) {
	var seed uint64
	if raw := r.URL.Query().Get("seed"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid seed", http.StatusBadRequest)
			return
		}
		seed = parsed
	}

	match, ok := h.engine.SimulateMatch(chi.URLParam(r, "matchID"), seed)
	if !ok {
		http.Error(w, "match not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, match)
}

func (h *Handler) getInbox(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.GetInbox())
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Save(r.Context()); err != nil {
		h.logger.Error("Failed to save game", zap.Error(err))
		http.Error(w, "failed to save game", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Load(r.Context()); err != nil {
		if errors.Is(err, game.ErrSnapshotNotFound) {
			http.Error(w, "no saved game", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to load game", zap.Error(err))
		http.Error(w, "failed to load game", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h.dateResponse())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
