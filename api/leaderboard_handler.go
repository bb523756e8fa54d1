package api

import (
	"net/http"

	"github.com/rpupo63/crowdconnect-backend/errs"
	"github.com/rpupo63/crowdconnect-backend/models"
	"github.com/rpupo63/crowdconnect-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// leaderboardHandler serves both boards. A failed read renders as an empty
// board and is logged, and the page stays up.
type leaderboardHandler struct {
	responder   Responder
	logger      zerolog.Logger
	leaderboard *services.Leaderboard
}

func newLeaderboardHandler(leaderboard *services.Leaderboard) leaderboardHandler {
	logger := log.With().Str("handlerName", "leaderboardHandler").Logger()

	return leaderboardHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		leaderboard: leaderboard,
	}
}

// @Summary Top contributors
// @Tags Leaderboard
// @Produce json
// @Param limit query int false "Maximum entries (default 10, max 100)"
// @Success 200 {array} models.LeaderboardEntry
// @Router /leaderboard/contributions [get]
func (h leaderboardHandler) getTopContributors() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := h.leaderboard.TopContributors(r.Context(), limitParam(r))
		if err != nil {
			h.logger.Warn().Err(err).Int("status", errs.StatusCode(err)).Msg("serving empty contributor leaderboard")
			entries = []models.LeaderboardEntry{}
		}

		h.responder.WriteJSON(w, entries)
	}
}

// @Summary Top publishers
// @Tags Leaderboard
// @Produce json
// @Param limit query int false "Maximum entries (default 10, max 100)"
// @Success 200 {array} models.LeaderboardEntry
// @Router /leaderboard/publishes [get]
func (h leaderboardHandler) getTopPublishers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := h.leaderboard.TopPublishers(r.Context(), limitParam(r))
		if err != nil {
			h.logger.Warn().Err(err).Int("status", errs.StatusCode(err)).Msg("serving empty publisher leaderboard")
			entries = []models.LeaderboardEntry{}
		}

		h.responder.WriteJSON(w, entries)
	}
}

// getDashboard returns both boards in one response
// @Summary Leaderboard dashboard
// @Tags Leaderboard
// @Produce json
// @Param limit query int false "Maximum entries per board"
// @Success 200 {object} services.Dashboard
// @Router /leaderboard [get]
func (h leaderboardHandler) getDashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dashboard, err := h.leaderboard.Dashboard(r.Context(), limitParam(r))
		if err != nil {
			h.logger.Warn().Err(err).Int("status", errs.StatusCode(err)).Msg("serving partial leaderboard dashboard")
		}

		h.responder.WriteJSON(w, dashboard)
	}
}
