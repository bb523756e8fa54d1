package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/crowdconnect-backend/errs"
)

const maxLeaderboardLimit = 100

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, errs.NewInvalidFieldError(name, "must be a valid UUID")
	}
	return id, nil
}

// limitParam reads ?limit=. Missing or non-numeric values fall back to the
// service default and large values are capped.
func limitParam(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return 0
	}
	return min(limit, maxLeaderboardLimit)
}
