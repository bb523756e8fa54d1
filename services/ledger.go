package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/crowdconnect-backend/database"
	"github.com/rpupo63/crowdconnect-backend/errs"
	"github.com/rpupo63/crowdconnect-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultStoreTimeout bounds every store round trip made by the services.
const DefaultStoreTimeout = 5 * time.Second

// ProjectInput carries the fields a creator submits when publishing a project.
type ProjectInput struct {
	Title            string
	Description      string
	TargetFund       float64
	Motivation       string
	ProblemStatement string
	Solution         string
	Thesis           string
	CreatorID        uuid.UUID
}

// ContributionInput is a validated-at-the-edge request to fund a project.
type ContributionInput struct {
	ProjectID       uuid.UUID
	ContributorID   uuid.UUID
	ContributorName string
	Amount          float64
}

// Ledger owns the users, projects and contributions collections and is the
// only code path that changes Project.Raised.
type Ledger struct {
	db      database.Database
	timeout time.Duration
	logger  zerolog.Logger
}

// WithStoreTimeout overrides DefaultStoreTimeout. Non-positive values are ignored.
func WithStoreTimeout(timeout time.Duration) func(*Ledger) {
	return func(l *Ledger) {
		if timeout > 0 {
			l.timeout = timeout
		}
	}
}

func NewLedger(db database.Database, opts ...func(*Ledger)) *Ledger {
	l := &Ledger{
		db:      db,
		timeout: DefaultStoreTimeout,
		logger:  log.With().Str("service", "ledger").Logger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RegisterUser creates a user record. Credentials are handled elsewhere.
func (l *Ledger) RegisterUser(ctx context.Context, name, email string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, errs.NewMissingRequiredFieldError("name")
	}
	if email == "" {
		return nil, errs.NewMissingRequiredFieldError("email")
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	existing, err := l.db.UserRepo().FindByEmail(ctx, email)
	if err != nil {
		return nil, errs.ClassifyStoreError("find", "user", err)
	}
	if existing != nil {
		return nil, errs.NewAlreadyExists("email")
	}

	user := &models.User{Name: name, Email: email}
	if err := l.db.UserRepo().Add(ctx, user); err != nil {
		return nil, errs.ClassifyStoreError("create", "user", err)
	}
	l.logger.Info().Str("userId", user.ID.String()).Msg("user registered")
	return user, nil
}

// CreateProject validates input and persists a new project with raised = 0.
func (l *Ledger) CreateProject(ctx context.Context, in ProjectInput) (*models.Project, error) {
	project, err := newProject(in)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	creator, err := l.db.UserRepo().FindByID(ctx, in.CreatorID)
	if err != nil {
		return nil, errs.ClassifyStoreError("find", "creator", err)
	}
	if creator == nil {
		return nil, errs.NewNotFound("creator")
	}
	project.Creator = creator.Name

	if err := l.db.ProjectRepo().Add(ctx, project); err != nil {
		return nil, errs.ClassifyStoreError("create", "project", err)
	}

	l.logger.Info().
		Str("projectId", project.ID.String()).
		Str("creatorId", project.CreatorID.String()).
		Float64("targetFund", project.TargetFund).
		Msg("project created")
	return project, nil
}

func newProject(in ProjectInput) (*models.Project, error) {
	required := []struct {
		field string
		value *string
	}{
		{"title", &in.Title},
		{"description", &in.Description},
		{"motivation", &in.Motivation},
		{"problemStatement", &in.ProblemStatement},
		{"solution", &in.Solution},
	}
	for _, r := range required {
		*r.value = strings.TrimSpace(*r.value)
		if *r.value == "" {
			return nil, errs.NewMissingRequiredFieldError(r.field)
		}
	}
	if err := validateAmount("targetFund", in.TargetFund); err != nil {
		return nil, err
	}
	if in.CreatorID == uuid.Nil {
		return nil, errs.NewMissingRequiredFieldError("creatorId")
	}

	thesis := strings.TrimSpace(in.Thesis)
	if thesis == "" {
		thesis = in.Description
	}

	return &models.Project{
		Title:            in.Title,
		Description:      in.Description,
		TargetFund:       in.TargetFund,
		Raised:           0,
		Motivation:       in.Motivation,
		ProblemStatement: in.ProblemStatement,
		Solution:         in.Solution,
		Thesis:           thesis,
		CreatorID:        in.CreatorID,
	}, nil
}

// validateAmount rejects zero, negative, NaN and infinite values.
func validateAmount(field string, v float64) error {
	switch {
	case math.IsNaN(v):
		return errs.NewInvalidFieldError(field, "must be a number")
	case math.IsInf(v, 0):
		return errs.NewInvalidFieldError(field, "must be finite")
	case v <= 0:
		return errs.NewInvalidFieldError(field, "must be greater than zero")
	}
	return nil
}

// RecordContribution appends a contribution and adds its amount to the
// project's raised total in one transaction. Either both land or neither does.
func (l *Ledger) RecordContribution(ctx context.Context, in ContributionInput) (*models.Contribution, error) {
	if err := validateAmount("amount", in.Amount); err != nil {
		return nil, err
	}
	if in.ProjectID == uuid.Nil {
		return nil, errs.NewMissingRequiredFieldError("projectId")
	}
	if in.ContributorID == uuid.Nil {
		return nil, errs.NewMissingRequiredFieldError("contributorId")
	}
	name := strings.TrimSpace(in.ContributorName)
	if name == "" {
		return nil, errs.NewMissingRequiredFieldError("contributorName")
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	contribution := &models.Contribution{
		ProjectID:       in.ProjectID,
		ContributorID:   in.ContributorID,
		ContributorName: name,
		Amount:          in.Amount,
	}

	err := l.db.Transaction(ctx, func(tx database.Database) error {
		project, err := tx.ProjectRepo().FindByID(ctx, in.ProjectID)
		if err != nil {
			return errs.ClassifyStoreError("find", "project", err)
		}
		if project == nil {
			return errs.NewNotFound("project")
		}
		if math.IsInf(project.Raised+in.Amount, 0) {
			return errs.NewInvalidFieldError("amount", "would overflow the project's raised total")
		}

		contributor, err := tx.UserRepo().FindByID(ctx, in.ContributorID)
		if err != nil {
			return errs.ClassifyStoreError("find", "contributor", err)
		}
		if contributor == nil {
			return errs.NewNotFound("contributor")
		}

		given, err := tx.ContributionRepo().SumByContributor(ctx, in.ContributorID)
		if err != nil {
			return errs.ClassifyStoreError("sum", "contributions", err)
		}
		if math.IsInf(given+in.Amount, 0) {
			return errs.NewInvalidFieldError("amount", "would overflow the contributor's total")
		}

		if err := tx.ContributionRepo().Add(ctx, contribution); err != nil {
			return errs.ClassifyStoreError("create", "contribution", err)
		}

		affected, err := tx.ProjectRepo().IncrementRaised(ctx, in.ProjectID, in.Amount)
		if err != nil {
			return errs.ClassifyStoreError("update", "project", err)
		}
		if affected != 1 {
			return errs.NewNotFound("project")
		}
		return nil
	})
	if err != nil {
		err = classifyTransactionError("record contribution", err)
		l.logger.Warn().Err(err).
			Str("projectId", in.ProjectID.String()).
			Str("contributorId", in.ContributorID.String()).
			Bool("timeout", errs.IsDatabaseTimeoutError(err)).
			Msg("contribution not recorded")
		return nil, err
	}

	l.logger.Info().
		Str("contributionId", contribution.ID.String()).
		Str("projectId", contribution.ProjectID.String()).
		Float64("amount", contribution.Amount).
		Msg("contribution recorded")
	return contribution, nil
}

// classifyTransactionError keeps errors raised inside the transaction and
// reports a failed begin or commit as TransactionFailed unless the store was
// unreachable.
func classifyTransactionError(operation string, err error) error {
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if classified := errs.ClassifyStoreError(operation, "transaction", err); errs.IsStoreUnavailable(classified) {
		return classified
	}
	return errs.NewTransactionFailedError(operation, err)
}

func (l *Ledger) User(ctx context.Context, id uuid.UUID) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	user, err := l.db.UserRepo().FindByID(ctx, id)
	if err != nil {
		return nil, errs.ClassifyStoreError("find", "user", err)
	}
	if user == nil {
		return nil, errs.NewNotFound("user")
	}
	return user, nil
}

func (l *Ledger) Project(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	project, err := l.db.ProjectRepo().FindByID(ctx, id)
	if err != nil {
		return nil, errs.ClassifyStoreError("find", "project", err)
	}
	if project == nil {
		return nil, errs.NewNotFound("project")
	}
	return project, nil
}

func (l *Ledger) ProjectBySlug(ctx context.Context, slug string) (*models.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	project, err := l.db.ProjectRepo().FindBySlug(ctx, slug)
	if err != nil {
		return nil, errs.ClassifyStoreError("find", "project", err)
	}
	if project == nil {
		return nil, errs.NewNotFound("project")
	}
	return project, nil
}

// Projects lists every project, newest first.
func (l *Ledger) Projects(ctx context.Context) ([]*models.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	projects, err := l.db.ProjectRepo().FindAll(ctx)
	if err != nil {
		return nil, errs.ClassifyStoreError("find", "projects", err)
	}
	return projects, nil
}

func (l *Ledger) ProjectsByCreator(ctx context.Context, creatorID uuid.UUID) ([]*models.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	projects, err := l.db.ProjectRepo().FindByCreator(ctx, creatorID)
	if err != nil {
		return nil, errs.ClassifyStoreError("find", "projects", err)
	}
	return projects, nil
}

func (l *Ledger) ContributionsByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Contribution, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	contributions, err := l.db.ContributionRepo().FindByProject(ctx, projectID)
	if err != nil {
		return nil, errs.ClassifyStoreError("find", "contributions", err)
	}
	return contributions, nil
}

func (l *Ledger) ContributionsByContributor(ctx context.Context, contributorID uuid.UUID) ([]*models.Contribution, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	contributions, err := l.db.ContributionRepo().FindByContributor(ctx, contributorID)
	if err != nil {
		return nil, errs.ClassifyStoreError("find", "contributions", err)
	}
	return contributions, nil
}

// Ping reports whether the store answers within the store timeout.
func (l *Ledger) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	return errs.ClassifyStoreError("ping", "store", l.db.Ping(ctx))
}
