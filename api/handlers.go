package api

import (
	"time"

	"github.com/rpupo63/crowdconnect-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(ledger *services.Ledger, leaderboard *services.Leaderboard, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		healthHandler:       newHealthHandler(ledger, startupTime),
		userHandler:         newUserHandler(ledger),
		projectHandler:      newProjectHandler(ledger),
		contributionHandler: newContributionHandler(ledger),
		leaderboardHandler:  newLeaderboardHandler(leaderboard),
	}
}
