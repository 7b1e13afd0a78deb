package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/user/football-manager/internal/interfaces"
	"go.uber.org/zap"
)

// Handler serves engine operations over HTTP
type Handler struct {
	engine interfaces.Engine
	logger *zap.Logger
}

// NewHandler creates a new handler
func NewHandler(engine interfaces.Engine, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		engine: engine,
		logger: logger,
	}
}

// NewRouter builds the HTTP routes wrapped in CORS handling
func NewRouter(engine interfaces.Engine, logger *zap.Logger, allowedOrigins []string) http.Handler {
	h := NewHandler(engine, logger)

	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Calendar
	router.Get("/date", h.getDate)
	router.Post("/advance", h.advanceDay)
	router.Post("/advance/next/{teamID}", h.advanceToNextMatch)

	// Clubs and players
	router.Route("/teams/{teamID}", func(r chi.Router) {
		r.Get("/", h.getTeam)
		r.Get("/upcoming", h.getUpcoming)
		r.Get("/results", h.getResults)
		r.Put("/lineup", h.setLineup)
		r.Get("/lineup/suggested", h.getSuggestedLineup)
		r.Get("/finance", h.getFinance)
	})
	router.Get("/players/{playerID}", h.getPlayer)
	router.Get("/leagues/{leagueID}/groups/{groupID}/table", h.getLeagueTable)

	// Market
	router.Get("/offers", h.getOffers)
	router.Post("/offers", h.makeOffer)
	router.Post("/offers/{offerID}/respond", h.respondToOffer)
	router.Get("/free-agents", h.getFreeAgents)
	router.Post("/free-agents/{playerID}/sign", h.signFreeAgent)

	// Matches
	router.Post("/matches/{matchID}/simulate", h.simulateMatch)

	// Session
	router.Get("/inbox", h.getInbox)
	router.Post("/save", h.save)
	router.Post("/load", h.load)

	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)
}
