package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/crowdconnect-backend/errs"
	"github.com/rpupo63/crowdconnect-backend/models"
	"github.com/rpupo63/crowdconnect-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	ledger    *services.Ledger
}

func newProjectHandler(ledger *services.Ledger) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		ledger:    ledger,
	}
}

// ProjectCollection wraps a list of projects
type ProjectCollection struct {
	Projects []*models.Project `json:"projects"`
	Total    int               `json:"total"`
}

func newProjectCollection(projects []*models.Project) ProjectCollection {
	if projects == nil {
		projects = []*models.Project{}
	}
	return ProjectCollection{Projects: projects, Total: len(projects)}
}

// getAllProjects retrieves all projects, newest first
// @Summary Get all projects
// @Tags Projects
// @Produce json
// @Success 200 {object} ProjectCollection
// @Failure 503 {object} ErrorResponse "Store unavailable"
// @Router /projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.ledger.Projects(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, newProjectCollection(projects))
	}
}

// @Summary Get a project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} models.Project
// @Failure 404 {object} ErrorResponse
// @Router /projects/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.ledger.Project(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// @Summary Get a project by its slug
// @Tags Projects
// @Produce json
// @Param slug path string true "Project slug"
// @Success 200 {object} models.Project
// @Failure 404 {object} ErrorResponse
// @Router /projects/slug/{slug} [get]
func (h projectHandler) getProjectBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := h.ledger.ProjectBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// @Summary Get projects published by a user
// @Tags Projects
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} ProjectCollection
// @Router /projects/user/{userID} [get]
func (h projectHandler) getUserProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuidParam(r, "userID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		projects, err := h.ledger.ProjectsByCreator(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, newProjectCollection(projects))
	}
}

// createProject publishes a project owned by the authenticated user
// @Summary Create a project
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param project body createProjectRequest true "Project"
// @Success 201 {object} models.Project
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidTokenError(err))
			return
		}

		var req createProjectRequest
		if err := decodeJSON(w, r, "project", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.ledger.CreateProject(r.Context(), services.ProjectInput{
			Title:            req.Title,
			Description:      req.Description,
			TargetFund:       req.TargetFund,
			Motivation:       req.Motivation,
			ProblemStatement: req.ProblemStatement,
			Solution:         req.Solution,
			Thesis:           req.Thesis,
			CreatorID:        userID,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, project)
	}
}
