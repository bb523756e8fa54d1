package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/crowdconnect-backend/models"
	"gorm.io/gorm"
)

// ContributorTotal is one contributor's aggregate over the ledger.
// ContributorName is the snapshot on their first contribution.
type ContributorTotal struct {
	ContributorID   uuid.UUID
	ContributorName string
	Count           int `gorm:"column:entry_count"`
	Total           float64
}

type ContributionRepo struct {
	db *gorm.DB
}

func NewContributionRepo(db *gorm.DB) *ContributionRepo {
	return &ContributionRepo{db}
}

// Add appends a contribution. There is no update or delete.
func (r *ContributionRepo) Add(ctx context.Context, contribution *models.Contribution) error {
	return r.db.WithContext(ctx).Create(contribution).Error
}

// FindByProject returns a project's contributions, newest first
func (r *ContributionRepo) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Contribution, error) {
	var contributions []*models.Contribution
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&contributions).Error
	return contributions, err
}

// FindByContributor returns a user's contributions, newest first
func (r *ContributionRepo) FindByContributor(ctx context.Context, contributorID uuid.UUID) ([]*models.Contribution, error) {
	var contributions []*models.Contribution
	err := r.db.WithContext(ctx).
		Where("contributor_id = ?", contributorID).
		Order("created_at DESC").
		Find(&contributions).Error
	return contributions, err
}

// ContributorTotals groups contributions by contributor, one row each, in the
// order of each contributor's first contribution
func (r *ContributionRepo) ContributorTotals(ctx context.Context) ([]ContributorTotal, error) {
	var rows []ContributorTotal
	err := r.db.WithContext(ctx).
		Model(&models.Contribution{}).
		Select(`contributor_id,
			(SELECT c2.contributor_name FROM contributions c2
				WHERE c2.contributor_id = contributions.contributor_id
				ORDER BY c2.created_at ASC, c2.id ASC LIMIT 1) AS contributor_name,
			COUNT(*) AS entry_count,
			COALESCE(SUM(amount), 0) AS total`).
		Group("contributor_id").
		Order("MIN(created_at) ASC, contributor_id ASC").
		Scan(&rows).Error
	return rows, err
}

// SumByContributor returns the total a user has given across all projects
func (r *ContributionRepo) SumByContributor(ctx context.Context, contributorID uuid.UUID) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Contribution{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("contributor_id = ?", contributorID).
		Scan(&total).Error
	return total, err
}

type projectTotal struct {
	ProjectID uuid.UUID
	Total     float64
}

// SumByProject returns the sum of contribution amounts keyed by project
func (r *ContributionRepo) SumByProject(ctx context.Context) (map[uuid.UUID]float64, error) {
	var totals []projectTotal
	err := r.db.WithContext(ctx).
		Model(&models.Contribution{}).
		Select("project_id, COALESCE(SUM(amount), 0) AS total").
		Group("project_id").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[uuid.UUID]float64, len(totals))
	for _, t := range totals {
		sums[t.ProjectID] = t.Total
	}
	return sums, nil
}
