package services

import (
	"context"
	"math"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rpupo63/crowdconnect-backend/database"
	"github.com/rpupo63/crowdconnect-backend/errs"
	"github.com/rpupo63/crowdconnect-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// raisedTolerance is relative: float sums taken in a different order drift
// by an amount proportional to their magnitude.
const raisedTolerance = 1e-9

// Discrepancy is a project whose raised total disagrees with its contributions.
type Discrepancy struct {
	ProjectID   uuid.UUID `json:"projectId"`
	Raised      float64   `json:"raised"`
	LedgerTotal float64   `json:"ledgerTotal"`
}

// Reconciler audits Project.Raised against the contribution rows. It only reads.
type Reconciler struct {
	db      database.Database
	timeout time.Duration
	logger  zerolog.Logger
}

func NewReconciler(db database.Database, timeout time.Duration) *Reconciler {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return &Reconciler{
		db:      db,
		timeout: timeout,
		logger:  log.With().Str("service", "reconciler").Logger(),
	}
}

// Check returns every project whose raised total differs from the sum of its
// contributions. Both reads come from one snapshot so in-flight contributions
// are never half counted.
func (r *Reconciler) Check(ctx context.Context) ([]Discrepancy, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var projects []*models.Project
	var sums map[uuid.UUID]float64
	err := r.db.Snapshot(ctx, func(tx database.Database) error {
		var err error
		if projects, err = tx.ProjectRepo().FindAll(ctx); err != nil {
			return errs.ClassifyStoreError("find", "projects", err)
		}
		if sums, err = tx.ContributionRepo().SumByProject(ctx); err != nil {
			return errs.ClassifyStoreError("sum", "contributions", err)
		}
		return nil
	})
	if err != nil {
		return nil, errs.ClassifyStoreError("reconcile", "projects", err)
	}

	var discrepancies []Discrepancy
	for _, p := range projects {
		total := sums[p.ID]
		if !raisedMatches(p.Raised, total) {
			discrepancies = append(discrepancies, Discrepancy{
				ProjectID:   p.ID,
				Raised:      p.Raised,
				LedgerTotal: total,
			})
		}
	}
	return discrepancies, nil
}

func raisedMatches(raised, ledgerTotal float64) bool {
	scale := math.Max(1, math.Max(math.Abs(raised), math.Abs(ledgerTotal)))
	return math.Abs(raised-ledgerTotal) <= raisedTolerance*scale
}

func (r *Reconciler) run() {
	discrepancies, err := r.Check(context.Background())
	if err != nil {
		r.logger.Error().Err(err).Msg("reconciliation failed")
		return
	}
	for _, d := range discrepancies {
		r.logger.Warn().
			Str("projectId", d.ProjectID.String()).
			Float64("raised", d.Raised).
			Float64("ledgerTotal", d.LedgerTotal).
			Msg("raised total does not match contributions")
	}
	r.logger.Debug().Int("discrepancies", len(discrepancies)).Msg("reconciliation finished")
}

// Start schedules Check every interval. Callers own the returned scheduler
// and must Shutdown it.
func (r *Reconciler) Start(interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(r.run),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, err
	}

	sched.Start()
	r.logger.Info().Dur("interval", interval).Msg("reconciler scheduled")
	return sched, nil
}
