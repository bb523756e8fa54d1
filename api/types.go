package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	healthHandler       healthHandler
	userHandler         userHandler
	projectHandler      projectHandler
	contributionHandler contributionHandler
	leaderboardHandler  leaderboardHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

type registerUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type createProjectRequest struct {
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	TargetFund       float64 `json:"targetFund"`
	Motivation       string  `json:"motivation"`
	ProblemStatement string  `json:"problemStatement"`
	Solution         string  `json:"solution"`
	Thesis           string  `json:"thesis"`
}

type createContributionRequest struct {
	ProjectID string  `json:"projectId"`
	Amount    float64 `json:"amount"`
}
