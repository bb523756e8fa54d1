package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contribution is an append-only ledger entry. Rows are never updated or deleted.
type Contribution struct {
	ID              uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ProjectID       uuid.UUID `json:"projectId" db:"project_id" gorm:"type:uuid;not null;index:idx_contribution_project_id"`
	ContributorID   uuid.UUID `json:"contributorId" db:"contributor_id" gorm:"type:uuid;not null;index:idx_contribution_contributor_id"`
	ContributorName string    `json:"contributorName" db:"contributor_name" gorm:"type:text;not null"`
	Amount          float64   `json:"amount" db:"amount" gorm:"type:double precision;not null"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at" gorm:"not null;autoCreateTime;index:idx_contribution_created_at"`
}

func (c *Contribution) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
