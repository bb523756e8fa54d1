package services

import (
	"context"
	"testing"
	"time"

	"github.com/rpupo63/crowdconnect-backend/database/dbtest"
	"github.com/rpupo63/crowdconnect-backend/errs"
	"github.com/rpupo63/crowdconnect-backend/models"
)

func TestReconcilerCheck(t *testing.T) {
	db := dbtest.New(t)
	l := NewLedger(db)
	ada := mustUser(t, l, "Ada", "ada@example.com")
	funded := mustProject(t, l, ada)
	untouched := mustProject(t, l, ada)
	contribute(t, l, funded, ada, 10)
	contribute(t, l, funded, ada, 0.1)
	contribute(t, l, funded, ada, 0.2)

	r := NewReconciler(db, time.Second)
	discrepancies, err := r.Check(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(discrepancies) != 0 {
		t.Fatalf("consistent ledger reported %+v", discrepancies)
	}

	// bypass the ledger to corrupt one project
	err = db.GetDB().Model(&models.Project{}).Where("id = ?", untouched.ID).UpdateColumn("raised", 99).Error
	if err != nil {
		t.Fatal(err)
	}

	discrepancies, err = r.Check(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(discrepancies) != 1 {
		t.Fatalf("got %d discrepancies, want 1", len(discrepancies))
	}
	d := discrepancies[0]
	if d.ProjectID != untouched.ID || d.Raised != 99 || d.LedgerTotal != 0 {
		t.Fatalf("discrepancy = %+v", d)
	}
}

func TestReconcilerStoreUnavailable(t *testing.T) {
	db := dbtest.New(t)
	_ = db.Close()
	if _, err := NewReconciler(db, 0).Check(context.Background()); !errs.IsStoreUnavailable(err) {
		t.Fatalf("err = %v, want store unavailable", err)
	}
}

func TestReconcilerStart(t *testing.T) {
	r := NewReconciler(dbtest.New(t), time.Second)
	sched, err := r.Start(time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if jobs := sched.Jobs(); len(jobs) != 1 {
		t.Fatalf("scheduled %d jobs, want 1", len(jobs))
	}
	if err := sched.Shutdown(); err != nil {
		t.Fatal(err)
	}
}

func TestRaisedMatchesScalesWithMagnitude(t *testing.T) {
	tests := []struct {
		raised, total float64
		want          bool
	}{
		{0, 0, true},
		{0.30000000000000004, 0.3, true},
		{1e12, 1e12 + 0.01, true},
		{1e12, 1e12 + 1e4, false},
		{100, 101, false},
		{99, 0, false},
	}
	for _, tt := range tests {
		if got := raisedMatches(tt.raised, tt.total); got != tt.want {
			t.Errorf("raisedMatches(%v, %v) = %v, want %v", tt.raised, tt.total, got, tt.want)
		}
	}
}

func TestReconcilerLargeTotalsAreConsistent(t *testing.T) {
	db := dbtest.New(t)
	l := NewLedger(db)
	ada := mustUser(t, l, "Ada", "ada@example.com")
	project := mustProject(t, l, ada)
	for _, amount := range []float64{1e15, 0.1, 3.3, 1e15, 0.7} {
		contribute(t, l, project, ada, amount)
	}

	discrepancies, err := NewReconciler(db, time.Second).Check(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(discrepancies) != 0 {
		t.Fatalf("consistent ledger reported %+v", discrepancies)
	}
}
