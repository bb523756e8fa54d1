package services

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/crowdconnect-backend/database"
	"github.com/rpupo63/crowdconnect-backend/database/dbtest"
	"github.com/rpupo63/crowdconnect-backend/errs"
	"github.com/rpupo63/crowdconnect-backend/models"
)

func TestEmptyLeaderboards(t *testing.T) {
	lb := NewLeaderboard(dbtest.New(t), time.Second)

	contributors, err := lb.TopContributors(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if contributors == nil || len(contributors) != 0 {
		t.Fatalf("contributors = %#v, want empty slice", contributors)
	}

	publishers, err := lb.TopPublishers(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if publishers == nil || len(publishers) != 0 {
		t.Fatalf("publishers = %#v, want empty slice", publishers)
	}
}

func TestTopPublishers(t *testing.T) {
	db := dbtest.New(t)
	l := NewLedger(db)
	a := mustUser(t, l, "A", "a@example.com")
	b := mustUser(t, l, "B", "b@example.com")
	mustProject(t, l, b)
	mustProject(t, l, a)
	mustProject(t, l, a)
	mustProject(t, l, a)

	entries, err := NewLeaderboard(db, 0).TopPublishers(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Name != "A" || entries[0].Count != 3 || entries[0].Rank != 1 {
		t.Errorf("first = %+v", entries[0])
	}
	if entries[1].Name != "B" || entries[1].Count != 1 || entries[1].Rank != 2 {
		t.Errorf("second = %+v", entries[1])
	}
	for _, e := range entries {
		if e.TotalAmount != nil {
			t.Errorf("publisher entry carries totalAmount: %+v", e)
		}
	}
}

func TestLeaderboardLimitAndStability(t *testing.T) {
	db := dbtest.New(t)
	l := NewLedger(db)
	creator := mustUser(t, l, "Creator", "creator@example.com")
	project := mustProject(t, l, creator)

	var backers []*models.User
	for i := 0; i < 12; i++ {
		u := mustUser(t, l, "Backer", uuid.NewString()+"@example.com")
		backers = append(backers, u)
		contribute(t, l, project, u, 10)
	}

	lb := NewLeaderboard(db, 0)
	top3, err := lb.TopContributors(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(top3) != 3 {
		t.Fatalf("got %d entries, want 3", len(top3))
	}

	defaulted, err := lb.TopContributors(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(defaulted) != DefaultLeaderboardLimit {
		t.Fatalf("got %d entries, want %d", len(defaulted), DefaultLeaderboardLimit)
	}

	again, err := lb.TopContributors(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(defaulted, again) {
		t.Fatal("ordering changed between calls with no writes")
	}

	// all tied on count and total: discovery order wins
	for i, e := range defaulted {
		if e.UserID != backers[i].ID {
			t.Fatalf("entry %d = %s, want %s", i, e.UserID, backers[i].ID)
		}
	}
}

func TestTopContributorsTotalBreaksCountTie(t *testing.T) {
	db := dbtest.New(t)
	l := NewLedger(db)
	creator := mustUser(t, l, "Creator", "creator@example.com")
	project := mustProject(t, l, creator)
	small := mustUser(t, l, "Small", "small@example.com")
	big := mustUser(t, l, "Big", "big@example.com")

	contribute(t, l, project, small, 5)
	contribute(t, l, project, big, 500)

	entries, err := NewLeaderboard(db, 0).TopContributors(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if entries[0].UserID != big.ID || entries[1].UserID != small.ID {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestLeaderboardPrefersLiveName(t *testing.T) {
	db := dbtest.New(t)
	l := NewLedger(db)
	creator := mustUser(t, l, "Old Name", "creator@example.com")
	project := mustProject(t, l, creator)
	contribute(t, l, project, creator, 10)

	err := db.GetDB().Model(&models.User{}).Where("id = ?", creator.ID).Update("name", "New Name").Error
	if err != nil {
		t.Fatal(err)
	}

	lb := NewLeaderboard(db, 0)
	contributors, err := lb.TopContributors(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	publishers, err := lb.TopPublishers(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if contributors[0].Name != "New Name" || publishers[0].Name != "New Name" {
		t.Fatalf("names = %q, %q; want live name", contributors[0].Name, publishers[0].Name)
	}
}

func TestLeaderboardFallsBackToSnapshot(t *testing.T) {
	db := dbtest.New(t)
	ghost := uuid.New()
	projectID := uuid.New()
	ctx := context.Background()

	err := db.ProjectRepo().Add(ctx, &models.Project{
		ID: projectID, Title: "t", Description: "d", TargetFund: 10,
		Motivation: "m", ProblemStatement: "p", Solution: "s",
		CreatorID: ghost, Creator: "Snapshot Creator",
	})
	if err != nil {
		t.Fatal(err)
	}
	err = db.ContributionRepo().Add(ctx, &models.Contribution{
		ProjectID: projectID, ContributorID: ghost, ContributorName: "Snapshot Backer", Amount: 3,
	})
	if err != nil {
		t.Fatal(err)
	}

	lb := NewLeaderboard(db, 0)
	contributors, err := lb.TopContributors(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	publishers, err := lb.TopPublishers(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if contributors[0].Name != "Snapshot Backer" {
		t.Errorf("contributor name = %q", contributors[0].Name)
	}
	if publishers[0].Name != "Snapshot Creator" {
		t.Errorf("publisher name = %q", publishers[0].Name)
	}
}

func TestLeaderboardStoreUnavailable(t *testing.T) {
	db := dbtest.New(t)
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}
	lb := NewLeaderboard(db, 0)

	if _, err := lb.TopContributors(context.Background(), 10); !errs.IsStoreUnavailable(err) {
		t.Fatalf("TopContributors err = %v", err)
	}
	if _, err := lb.TopPublishers(context.Background(), 10); !errs.IsStoreUnavailable(err) {
		t.Fatalf("TopPublishers err = %v", err)
	}
	if _, err := lb.Dashboard(context.Background(), 10); !errs.IsStoreUnavailable(err) {
		t.Fatalf("Dashboard err = %v", err)
	}
}

func TestDashboard(t *testing.T) {
	db := dbtest.New(t)
	l := NewLedger(db)
	ada := mustUser(t, l, "Ada", "ada@example.com")
	project := mustProject(t, l, ada)
	contribute(t, l, project, ada, 42)

	dashboard, err := NewLeaderboard(db, 0).Dashboard(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(dashboard.Contributors) != 1 || len(dashboard.Publishers) != 1 {
		t.Fatalf("dashboard = %+v", dashboard)
	}
	if *dashboard.Contributors[0].TotalAmount != 42 {
		t.Fatalf("total = %v", *dashboard.Contributors[0].TotalAmount)
	}
}

func TestRankContributors(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	rows := []database.ContributorTotal{
		{ContributorID: a, ContributorName: "a", Count: 2, Total: 3},
		{ContributorID: b, ContributorName: "b", Count: 1, Total: 100},
		{ContributorID: c, ContributorName: "c", Count: 2, Total: 100},
	}

	got := rankContributors(rows)
	want := []struct {
		id       uuid.UUID
		snapshot string
		count    int
		total    float64
	}{
		{c, "c", 2, 100},
		{a, "a", 2, 3},
		{b, "b", 1, 100},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tallies", len(got))
	}
	for i, w := range want {
		g := got[i]
		if g.userID != w.id || g.snapshot != w.snapshot || g.count != w.count || g.total != w.total {
			t.Errorf("tally %d = %+v, want %+v", i, *g, w)
		}
	}
}

func TestRankPublishersKeepsDiscoveryOrderOnTies(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	got := rankPublishers([]database.PublisherTotal{
		{CreatorID: b, Creator: "b", Count: 1},
		{CreatorID: a, Creator: "a", Count: 1},
		{CreatorID: c, Creator: "c", Count: 4},
	})
	if got[0].userID != c || got[1].userID != b || got[2].userID != a {
		t.Fatalf("order = %v, %v, %v", got[0].userID, got[1].userID, got[2].userID)
	}
}

func TestDashboardFillsBoardsIndependently(t *testing.T) {
	db := dbtest.New(t)
	l := NewLedger(db)
	ada := mustUser(t, l, "Ada", "ada@example.com")
	project := mustProject(t, l, ada)
	contribute(t, l, project, ada, 42)

	if err := db.GetDB().Migrator().DropTable(&models.Project{}); err != nil {
		t.Fatal(err)
	}

	dashboard, err := NewLeaderboard(db, 0).Dashboard(context.Background(), 10)
	if !errs.IsStoreUnavailable(err) {
		t.Fatalf("err = %v, want store unavailable for the publisher board", err)
	}
	if len(dashboard.Contributors) != 1 || dashboard.Contributors[0].UserID != ada.ID {
		t.Fatalf("contributors = %+v", dashboard.Contributors)
	}
	if dashboard.Publishers == nil || len(dashboard.Publishers) != 0 {
		t.Fatalf("publishers = %#v, want empty slice", dashboard.Publishers)
	}
}

func TestContributorNameSnapshotIsFirstContribution(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	ghost := uuid.New()
	projectID := uuid.New()

	err := db.ProjectRepo().Add(ctx, &models.Project{
		ID: projectID, Title: "t", Description: "d", TargetFund: 10,
		Motivation: "m", ProblemStatement: "p", Solution: "s",
		CreatorID: ghost, Creator: "Creator",
	})
	if err != nil {
		t.Fatal(err)
	}
	base := time.Now().Add(-time.Hour)
	for i, name := range []string{"First Name", "Later Name"} {
		err := db.ContributionRepo().Add(ctx, &models.Contribution{
			ProjectID: projectID, ContributorID: ghost, ContributorName: name, Amount: 1,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	entries, err := NewLeaderboard(db, 0).TopContributors(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name != "First Name" || entries[0].Count != 2 {
		t.Fatalf("entries = %+v", entries)
	}
}
