package quality

import (
	"context"
	"testing"
	"time"
)

func TestSnapshotServedFromCacheUntilInvalidated(t *testing.T) {
	f := setupService(t, testSettings())
	ctx := context.Background()

	seedCheck(t, f.db, "חיפה", "דנה", "פאד תאי", 8, time.Now().Add(-2*time.Hour))

	first, err := f.svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("Snapshot() len = %d", len(first))
	}

	// A row written behind the service's back stays invisible while the
	// cached snapshot is fresh.
	seedCheck(t, f.db, "תל אביב", "יוסי", "קארי ירוק", 6, time.Now().Add(-time.Hour))

	cached, err := f.svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(cached) != 1 {
		t.Fatalf("Snapshot() expected cached result of 1 row, got %d", len(cached))
	}

	// A submit through the service invalidates the cache, so the next read
	// sees everything including the submitter's own row.
	input := submitInput()
	input.DishName = "קארי ירוק"
	if _, err := f.svc.SubmitCheck(ctx, input); err != nil {
		t.Fatalf("SubmitCheck() error = %v", err)
	}

	fresh, err := f.svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(fresh) != 3 {
		t.Fatalf("Snapshot() after invalidation len = %d, want 3", len(fresh))
	}
}

func TestSnapshotOrdersMostRecentFirst(t *testing.T) {
	f := setupService(t, testSettings())
	ctx := context.Background()

	now := time.Now()
	seedCheck(t, f.db, "חיפה", "old", "פאד תאי", 5, now.Add(-3*time.Hour))
	seedCheck(t, f.db, "חיפה", "new", "פאד תאי", 7, now.Add(-time.Hour))

	snapshot, err := f.svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if snapshot[0].ChefName != "new" || snapshot[1].ChefName != "old" {
		t.Fatalf("Snapshot() order = %q, %q", snapshot[0].ChefName, snapshot[1].ChefName)
	}
}

func TestBuildReport(t *testing.T) {
	f := setupService(t, testSettings())
	ctx := context.Background()

	now := time.Now()
	// Branch חיפה: 3 rows avg 7.0, branch תל אביב: 2 rows avg 9.0.
	seedCheck(t, f.db, "חיפה", "דנה", "פאד תאי", 7, now.Add(-50*time.Hour))
	seedCheck(t, f.db, "חיפה", "דנה", "קארי ירוק", 7, now.Add(-40*time.Hour))
	seedCheck(t, f.db, "חיפה", "דנה", "פאד תאי", 7, now.Add(-30*time.Hour))
	seedCheck(t, f.db, "תל אביב", "יוסי", "פאד תאי", 9, now.Add(-20*time.Hour))
	seedCheck(t, f.db, "תל אביב", "יוסי", "קארי ירוק", 9, now.Add(-10*time.Hour))

	report, err := f.svc.BuildReport(ctx)
	if err != nil {
		t.Fatalf("BuildReport() error = %v", err)
	}

	if report.TotalChecks != 5 {
		t.Fatalf("TotalChecks = %d", report.TotalChecks)
	}
	if report.BestBranchByCount.Branch != "חיפה" || report.BestBranchByCount.Count != 3 {
		t.Fatalf("BestBranchByCount = %+v", report.BestBranchByCount)
	}
	// Only חיפה meets min_branch_samples=3, despite תל אביב's higher mean.
	if report.BestAvgBranch.Branch != "חיפה" || report.BestAvgBranch.SmallSample {
		t.Fatalf("BestAvgBranch = %+v", report.BestAvgBranch)
	}
	if report.TopChef.Chef != "דנה" || report.TopChef.Count != 3 {
		t.Fatalf("TopChef = %+v", report.TopChef)
	}
	if report.TopDishByCount.Dish != "פאד תאי" || report.TopDishByCount.Count != 3 {
		t.Fatalf("TopDishByCount = %+v", report.TopDishByCount)
	}
}

func TestBuildReportEmptyTable(t *testing.T) {
	f := setupService(t, testSettings())

	report, err := f.svc.BuildReport(context.Background())
	if err != nil {
		t.Fatalf("BuildReport() error = %v", err)
	}
	if report.TotalChecks != 0 || report.BestBranchByCount.Branch != "" || report.TopDishByCount.Count != 0 {
		t.Fatalf("BuildReport(empty) = %+v", report)
	}
}

func TestSubmitIncrementsTopDish(t *testing.T) {
	f := setupService(t, testSettings())
	ctx := context.Background()

	before, err := f.svc.BuildReport(ctx)
	if err != nil {
		t.Fatalf("BuildReport() error = %v", err)
	}

	if _, err := f.svc.SubmitCheck(ctx, submitInput()); err != nil {
		t.Fatalf("SubmitCheck() error = %v", err)
	}

	after, err := f.svc.BuildReport(ctx)
	if err != nil {
		t.Fatalf("BuildReport() error = %v", err)
	}
	if after.TopDishByCount.Dish != "פאד תאי" {
		t.Fatalf("TopDishByCount.Dish = %q", after.TopDishByCount.Dish)
	}
	if after.TopDishByCount.Count != before.TopDishByCount.Count+1 {
		t.Fatalf("TopDishByCount.Count = %d, want %d", after.TopDishByCount.Count, before.TopDishByCount.Count+1)
	}
}
