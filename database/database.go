package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpupo63/crowdconnect-backend/models"
	"gorm.io/gorm"
)

type Database struct {
	db               *gorm.DB
	userRepo         *UserRepo
	projectRepo      *ProjectRepo
	contributionRepo *ContributionRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:               db,
		userRepo:         NewUserRepo(db),
		projectRepo:      NewProjectRepo(db),
		contributionRepo: NewContributionRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) ContributionRepo() *ContributionRepo {
	return d.contributionRepo
}

// GetDB returns the underlying database connection for debugging purposes
func (d Database) GetDB() *gorm.DB {
	return d.db
}

// Transaction runs fn against repositories bound to a single transaction.
// Returning an error from fn rolls everything back.
func (d Database) Transaction(ctx context.Context, fn func(tx Database) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Snapshot runs fn in a read-only transaction so every read sees the same
// committed state. sqlite transactions are already serializable.
func (d Database) Snapshot(ctx context.Context, fn func(tx Database) error) error {
	var opts []*sql.TxOptions
	if d.db.Dialector.Name() != "sqlite" {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	}
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	}, opts...)
}

// Ping checks that the store is reachable.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Migrate creates or updates the users, projects and contributions tables.
func (d Database) Migrate(ctx context.Context) error {
	if err := d.db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

func (d Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
