package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes mounts every endpoint under /api. Writes that act on behalf of
// a user go through the auth middleware.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Route("/api", func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/health", handlers.healthHandler.health())

		r.Post("/users", handlers.userHandler.registerUser())
		r.Get("/users/{userID}", handlers.userHandler.getUser())

		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/projects/{projectID}", handlers.projectHandler.getProject())
		r.Get("/projects/user/{userID}", handlers.projectHandler.getUserProjects())
		r.Get("/projects/slug/{slug}", handlers.projectHandler.getProjectBySlug())

		r.Get("/contributions/project/{projectID}", handlers.contributionHandler.getProjectContributions())
		r.Get("/contributions/user/{userID}", handlers.contributionHandler.getUserContributions())

		r.Get("/leaderboard", handlers.leaderboardHandler.getDashboard())
		r.Get("/leaderboard/contributions", handlers.leaderboardHandler.getTopContributors())
		r.Get("/leaderboard/publishes", handlers.leaderboardHandler.getTopPublishers())

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)

			r.Get("/auth/me", handlers.userHandler.getCurrentUser())
			r.Post("/projects", handlers.projectHandler.createProject())
			r.Post("/contributions", handlers.contributionHandler.createContribution())
		})
	})
}
