package services

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/crowdconnect-backend/models"
)

// nameLookup returns the live display name for a user, if one is known.
type nameLookup func(id uuid.UUID) (string, bool)

// lookupFromUsers indexes a batch of loaded users by id.
func lookupFromUsers(users []*models.User) nameLookup {
	byID := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		if u != nil {
			byID[u.ID] = u.Name
		}
	}
	return func(id uuid.UUID) (string, bool) {
		name, ok := byID[id]
		return name, ok
	}
}

// resolveDisplayName prefers the current user record and falls back to the
// name snapshot stored on the ledger row.
func resolveDisplayName(lookup nameLookup, id uuid.UUID, snapshot string) string {
	if lookup != nil {
		if name, ok := lookup(id); ok && strings.TrimSpace(name) != "" {
			return name
		}
	}
	return snapshot
}
