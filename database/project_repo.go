package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/crowdconnect-backend/models"
	"gorm.io/gorm"
)

// PublisherTotal counts one creator's projects. Creator is the name
// snapshot on their first project.
type PublisherTotal struct {
	CreatorID uuid.UUID
	Creator   string
	Count     int `gorm:"column:entry_count"`
}

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *ProjectRepo) GetDB() *gorm.DB {
	return r.db
}

// FindAll returns all projects, newest first
func (r *ProjectRepo) FindAll(ctx context.Context) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&projects).Error
	return projects, err
}

// FindByID returns nil without an error when the project does not exist
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// FindBySlug returns nil without an error when no project has the slug
func (r *ProjectRepo) FindBySlug(ctx context.Context, slug string) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).First(&project, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByCreator returns the projects published by a user, newest first
func (r *ProjectRepo) FindByCreator(ctx context.Context, creatorID uuid.UUID) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// IncrementRaised adds delta to raised in a single UPDATE so concurrent
// increments never overwrite each other. It returns the number of rows hit.
func (r *ProjectRepo) IncrementRaised(ctx context.Context, id uuid.UUID, delta float64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		UpdateColumn("raised", gorm.Expr("raised + ?", delta))
	return res.RowsAffected, res.Error
}

// PublisherTotals groups projects by creator, one row each, in the order of
// each creator's first project
func (r *ProjectRepo) PublisherTotals(ctx context.Context) ([]PublisherTotal, error) {
	var rows []PublisherTotal
	err := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Select(`creator_id,
			(SELECT p2.creator FROM projects p2
				WHERE p2.creator_id = projects.creator_id
				ORDER BY p2.created_at ASC, p2.id ASC LIMIT 1) AS creator,
			COUNT(*) AS entry_count`).
		Group("creator_id").
		Order("MIN(created_at) ASC, creator_id ASC").
		Scan(&rows).Error
	return rows, err
}
