package models

import "github.com/google/uuid"

// LeaderboardEntry is a derived ranking row. It is never persisted.
// TotalAmount is only set on the contributor board.
type LeaderboardEntry struct {
	Rank        int       `json:"rank"`
	UserID      uuid.UUID `json:"userId"`
	Name        string    `json:"name"`
	Count       int       `json:"count"`
	TotalAmount *float64  `json:"totalAmount,omitempty"`
}
