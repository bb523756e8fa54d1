package services

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/crowdconnect-backend/database"
	"github.com/rpupo63/crowdconnect-backend/errs"
	"github.com/rpupo63/crowdconnect-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DefaultLeaderboardLimit is used when a caller passes a non-positive limit.
const DefaultLeaderboardLimit = 10

// Leaderboard ranks contributors and publishers from the ledger's current
// rows. It keeps no state between calls.
type Leaderboard struct {
	db      database.Database
	timeout time.Duration
	logger  zerolog.Logger
}

// Dashboard bundles both boards for a single page load.
type Dashboard struct {
	Contributors []models.LeaderboardEntry `json:"contributors"`
	Publishers   []models.LeaderboardEntry `json:"publishers"`
}

func NewLeaderboard(db database.Database, timeout time.Duration) *Leaderboard {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return &Leaderboard{
		db:      db,
		timeout: timeout,
		logger:  log.With().Str("service", "leaderboard").Logger(),
	}
}

type tally struct {
	userID   uuid.UUID
	snapshot string
	count    int
	total    float64
}

// TopContributors ranks users by number of contributions, then by total amount.
func (lb *Leaderboard) TopContributors(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	limit = normalizeLimit(limit)

	ctx, cancel := context.WithTimeout(ctx, lb.timeout)
	defer cancel()

	rows, err := lb.db.ContributionRepo().ContributorTotals(ctx)
	if err != nil {
		return nil, lb.unavailable("top contributors", err)
	}

	tallies := rankContributors(rows)
	tallies = tallies[:min(limit, len(tallies))]

	lookup, err := lb.lookupNames(ctx, tallies)
	if err != nil {
		return nil, lb.unavailable("top contributors", err)
	}
	return toEntries(tallies, lookup, true), nil
}

// TopPublishers ranks users by number of projects created.
func (lb *Leaderboard) TopPublishers(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	limit = normalizeLimit(limit)

	ctx, cancel := context.WithTimeout(ctx, lb.timeout)
	defer cancel()

	rows, err := lb.db.ProjectRepo().PublisherTotals(ctx)
	if err != nil {
		return nil, lb.unavailable("top publishers", err)
	}

	tallies := rankPublishers(rows)
	tallies = tallies[:min(limit, len(tallies))]

	lookup, err := lb.lookupNames(ctx, tallies)
	if err != nil {
		return nil, lb.unavailable("top publishers", err)
	}
	return toEntries(tallies, lookup, false), nil
}

// Dashboard computes both boards concurrently. Each board is filled on its
// own: a failed read leaves that board empty and is reported in the error
// while the other board is still returned.
func (lb *Leaderboard) Dashboard(ctx context.Context, limit int) (*Dashboard, error) {
	dashboard := &Dashboard{
		Contributors: []models.LeaderboardEntry{},
		Publishers:   []models.LeaderboardEntry{},
	}

	var contributorsErr, publishersErr error
	var g errgroup.Group
	g.Go(func() error {
		entries, err := lb.TopContributors(ctx, limit)
		if err != nil {
			contributorsErr = err
			return nil
		}
		dashboard.Contributors = entries
		return nil
	})
	g.Go(func() error {
		entries, err := lb.TopPublishers(ctx, limit)
		if err != nil {
			publishersErr = err
			return nil
		}
		dashboard.Publishers = entries
		return nil
	})
	_ = g.Wait()

	return dashboard, errors.Join(contributorsErr, publishersErr)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLeaderboardLimit
	}
	return limit
}

// rankContributors sorts per-contributor totals by count desc, total desc.
// Rows arrive in discovery order and the stable sort keeps it for ties.
func rankContributors(rows []database.ContributorTotal) []*tally {
	tallies := make([]*tally, 0, len(rows))
	for _, row := range rows {
		tallies = append(tallies, &tally{
			userID:   row.ContributorID,
			snapshot: row.ContributorName,
			count:    row.Count,
			total:    row.Total,
		})
	}

	slices.SortStableFunc(tallies, func(a, b *tally) int {
		if a.count != b.count {
			return b.count - a.count
		}
		switch {
		case a.total > b.total:
			return -1
		case a.total < b.total:
			return 1
		}
		return 0
	})
	return tallies
}

// rankPublishers sorts per-creator project counts desc, ties in discovery order.
func rankPublishers(rows []database.PublisherTotal) []*tally {
	tallies := make([]*tally, 0, len(rows))
	for _, row := range rows {
		tallies = append(tallies, &tally{
			userID:   row.CreatorID,
			snapshot: row.Creator,
			count:    row.Count,
		})
	}

	slices.SortStableFunc(tallies, func(a, b *tally) int {
		return b.count - a.count
	})
	return tallies
}

func (lb *Leaderboard) lookupNames(ctx context.Context, tallies []*tally) (nameLookup, error) {
	if len(tallies) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, len(tallies))
	for i, t := range tallies {
		ids[i] = t.userID
	}
	users, err := lb.db.UserRepo().FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return lookupFromUsers(users), nil
}

func toEntries(tallies []*tally, lookup nameLookup, withTotal bool) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, 0, len(tallies))
	for i, t := range tallies {
		entry := models.LeaderboardEntry{
			Rank:   i + 1,
			UserID: t.userID,
			Name:   resolveDisplayName(lookup, t.userID, t.snapshot),
			Count:  t.count,
		}
		if withTotal {
			total := t.total
			entry.TotalAmount = &total
		}
		entries = append(entries, entry)
	}
	return entries
}

// unavailable maps any read failure to StoreUnavailable.
func (lb *Leaderboard) unavailable(operation string, err error) error {
	classified := errs.ClassifyStoreError(operation, "leaderboard", err)
	if !errs.IsStoreUnavailable(classified) {
		classified = errs.NewStoreUnavailableError(operation, err)
	}
	lb.logger.Warn().Err(classified).Str("operation", operation).Msg("leaderboard read failed")
	return classified
}
