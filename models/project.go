package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Project is a funding campaign. Raised is only ever changed by the ledger.
type Project struct {
	ID               uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title            string    `json:"title" db:"title" gorm:"type:text;not null"`
	Slug             string    `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex:idx_project_slug"`
	Description      string    `json:"description" db:"description" gorm:"type:text;not null"`
	TargetFund       float64   `json:"targetFund" db:"target_fund" gorm:"type:double precision;not null"`
	Raised           float64   `json:"raised" db:"raised" gorm:"type:double precision;not null;default:0"`
	Motivation       string    `json:"motivation" db:"motivation" gorm:"type:text;not null"`
	ProblemStatement string    `json:"problemStatement" db:"problem_statement" gorm:"type:text;not null"`
	Solution         string    `json:"solution" db:"solution" gorm:"type:text;not null"`
	Thesis           string    `json:"thesis" db:"thesis" gorm:"type:text;not null;default:''"`
	CreatorID        uuid.UUID `json:"creatorId" db:"creator_id" gorm:"type:uuid;not null;index:idx_project_creator_id"`
	Creator          string    `json:"creator" db:"creator" gorm:"type:text;not null"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at" gorm:"not null;autoCreateTime;index:idx_project_created_at"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Slug == "" {
		p.Slug = ProjectSlug(p.Title, p.ID)
	}
	return nil
}

// ProjectSlug builds a URL-safe handle from the title. The id prefix keeps
// slugs unique across projects with the same title.
func ProjectSlug(title string, id uuid.UUID) string {
	suffix := id.String()[:8]
	base := slug.Make(title)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
