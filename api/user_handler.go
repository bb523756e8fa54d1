package api

import (
	"net/http"

	"github.com/rpupo63/crowdconnect-backend/errs"
	"github.com/rpupo63/crowdconnect-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type userHandler struct {
	responder Responder
	logger    zerolog.Logger
	ledger    *services.Ledger
}

func newUserHandler(ledger *services.Ledger) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder: NewResponder(logger),
		logger:    logger,
		ledger:    ledger,
	}
}

// registerUser creates a user record
// @Summary Register a user
// @Tags Users
// @Accept json
// @Produce json
// @Param user body registerUserRequest true "User"
// @Success 201 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Router /users [post]
func (h userHandler) registerUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerUserRequest
		if err := decodeJSON(w, r, "user", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.ledger.RegisterUser(r.Context(), req.Name, req.Email)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, user)
	}
}

// @Summary Get a user
// @Tags Users
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} ErrorResponse
// @Router /users/{userID} [get]
func (h userHandler) getUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuidParam(r, "userID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.ledger.User(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, user)
	}
}

// getCurrentUser returns the user the bearer token was issued to
// @Summary Current user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func (h userHandler) getCurrentUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidTokenError(err))
			return
		}

		user, err := h.ledger.User(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, user)
	}
}
