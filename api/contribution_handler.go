package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/crowdconnect-backend/errs"
	"github.com/rpupo63/crowdconnect-backend/models"
	"github.com/rpupo63/crowdconnect-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contributionHandler struct {
	responder Responder
	logger    zerolog.Logger
	ledger    *services.Ledger
}

func newContributionHandler(ledger *services.Ledger) contributionHandler {
	logger := log.With().Str("handlerName", "contributionHandler").Logger()

	return contributionHandler{
		responder: NewResponder(logger),
		logger:    logger,
		ledger:    ledger,
	}
}

type contributionCollection struct {
	Contributions []*models.Contribution `json:"contributions"`
	Total         int                    `json:"total"`
}

func newContributionCollection(contributions []*models.Contribution) contributionCollection {
	if contributions == nil {
		contributions = []*models.Contribution{}
	}
	return contributionCollection{Contributions: contributions, Total: len(contributions)}
}

// createContribution funds a project on behalf of the authenticated user
// @Summary Contribute to a project
// @Tags Contributions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param contribution body createContributionRequest true "Contribution"
// @Success 201 {object} models.Contribution
// @Failure 400 {object} ErrorResponse "Invalid amount or project id"
// @Failure 404 {object} ErrorResponse "Project not found"
// @Failure 503 {object} ErrorResponse "Store unavailable"
// @Router /contributions [post]
func (h contributionHandler) createContribution() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidTokenError(err))
			return
		}

		var req createContributionRequest
		if err := decodeJSON(w, r, "contribution", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if strings.TrimSpace(req.ProjectID) == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("projectId"))
			return
		}
		projectID, err := uuid.Parse(req.ProjectID)
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidFieldError("projectId", "must be a valid UUID"))
			return
		}

		contributor, err := h.ledger.User(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		contribution, err := h.ledger.RecordContribution(r.Context(), services.ContributionInput{
			ProjectID:       projectID,
			ContributorID:   contributor.ID,
			ContributorName: contributor.Name,
			Amount:          req.Amount,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, contribution)
	}
}

// @Summary Contributions to a project
// @Tags Contributions
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} contributionCollection
// @Router /contributions/project/{projectID} [get]
func (h contributionHandler) getProjectContributions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		contributions, err := h.ledger.ContributionsByProject(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, newContributionCollection(contributions))
	}
}

// @Summary Contributions made by a user
// @Tags Contributions
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} contributionCollection
// @Router /contributions/user/{userID} [get]
func (h contributionHandler) getUserContributions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuidParam(r, "userID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		contributions, err := h.ledger.ContributionsByContributor(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, newContributionCollection(contributions))
	}
}
