package api

import (
	"net/http"
	"time"

	"github.com/rpupo63/crowdconnect-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	ledger      *services.Ledger
	startupTime time.Time
}

func newHealthHandler(ledger *services.Ledger, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		ledger:      ledger,
		startupTime: startupTime,
	}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

// health reports process uptime and whether the store answers
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} healthResponse
// @Failure 503 {object} healthResponse
// @Router /health [get]
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := healthResponse{
			Status:   "ok",
			Database: "ok",
			Uptime:   time.Since(h.startupTime).Round(time.Second).String(),
		}

		if err := h.ledger.Ping(r.Context()); err != nil {
			h.logger.Warn().Err(err).Msg("store ping failed")
			response.Status = "degraded"
			response.Database = "unavailable"
			h.responder.WriteJSONStatus(w, http.StatusServiceUnavailable, response)
			return
		}

		h.responder.WriteJSON(w, response)
	}
}
