package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"platecheck/internal/infrastructure/persistence/sqlite/model"
	"platecheck/internal/ports"
)

func setupRepository(t *testing.T) *CheckRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(&model.QualityCheck{}); err != nil {
		t.Fatalf("auto migrate quality_checks: %v", err)
	}

	return NewCheckRepository(db)
}

func testCreate(branch, chef, dish string, score int) ports.CheckCreate {
	return ports.CheckCreate{Branch: branch, ChefName: chef, DishName: dish, Score: score}
}

func TestInsertAssignsIDAndCreatedAt(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	before := time.Now().UTC().Truncate(time.Second)
	record, err := repo.Insert(ctx, testCreate("חיפה", "דנה", "פאד תאי", 8))
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	if record.CheckID == 0 {
		t.Fatalf("Insert() did not assign an id")
	}

	createdAt, err := time.Parse(timeLayout, record.CreatedAt)
	if err != nil {
		t.Fatalf("Insert() created_at %q not parseable: %v", record.CreatedAt, err)
	}
	if createdAt.Before(before) {
		t.Fatalf("Insert() created_at %v before invocation time %v", createdAt, before)
	}
	if createdAt.Nanosecond() != 0 {
		t.Fatalf("Insert() created_at has sub-second precision: %v", createdAt)
	}
}

func TestInsertTrimsAndRejectsEmpty(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	record, err := repo.Insert(ctx, testCreate("  חיפה ", " דנה ", " פאד תאי ", 7))
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if record.Branch != "חיפה" || record.ChefName != "דנה" || record.DishName != "פאד תאי" {
		t.Fatalf("Insert() stored untrimmed fields: %+v", record)
	}

	if _, err := repo.Insert(ctx, testCreate("  ", "דנה", "פאד תאי", 7)); err == nil {
		t.Fatalf("Insert() expected error for blank branch")
	}
}

func TestListAllOrdersMostRecentFirst(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		tick := base.Add(time.Duration(i) * time.Minute)
		repo.now = func() time.Time { return tick }
		if _, err := repo.Insert(ctx, testCreate("חיפה", fmt.Sprintf("chef-%d", i), "פאד תאי", 5+i)); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	rows, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("ListAll() len = %d", len(rows))
	}
	if rows[0].ChefName != "chef-2" || rows[2].ChefName != "chef-0" {
		t.Fatalf("ListAll() order = %q, %q, %q", rows[0].ChefName, rows[1].ChefName, rows[2].ChefName)
	}

	again, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() second call error = %v", err)
	}
	for i := range rows {
		if rows[i] != again[i] {
			t.Fatalf("ListAll() not idempotent at %d: %+v vs %+v", i, rows[i], again[i])
		}
	}
}

func TestListAllBreaksTimestampTiesByID(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	fixed := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	first, err := repo.Insert(ctx, testCreate("חיפה", "a", "פאד תאי", 5))
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	second, err := repo.Insert(ctx, testCreate("חיפה", "b", "פאד תאי", 6))
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	rows, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if rows[0].CheckID != second.CheckID || rows[1].CheckID != first.CheckID {
		t.Fatalf("ListAll() tie order = %d, %d", rows[0].CheckID, rows[1].CheckID)
	}
}

func TestHasRecentDuplicate(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	t0 := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return t0 }

	if _, err := repo.Insert(ctx, testCreate("חיפה", "דנה", "פאד תאי", 8)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	found, err := repo.HasRecentDuplicate(ctx, "חיפה", "דנה", "פאד תאי", 12*time.Hour)
	if err != nil {
		t.Fatalf("HasRecentDuplicate() error = %v", err)
	}
	if !found {
		t.Fatalf("HasRecentDuplicate() expected true right after insert")
	}

	// Any differing triple misses.
	for _, triple := range [][3]string{
		{"תל אביב", "דנה", "פאד תאי"},
		{"חיפה", "יוסי", "פאד תאי"},
		{"חיפה", "דנה", "קארי ירוק"},
	} {
		found, err := repo.HasRecentDuplicate(ctx, triple[0], triple[1], triple[2], 12*time.Hour)
		if err != nil {
			t.Fatalf("HasRecentDuplicate(%v) error = %v", triple, err)
		}
		if found {
			t.Fatalf("HasRecentDuplicate(%v) expected false", triple)
		}
	}

	// window <= 0 disables duplicate checking entirely.
	found, err = repo.HasRecentDuplicate(ctx, "חיפה", "דנה", "פאד תאי", 0)
	if err != nil {
		t.Fatalf("HasRecentDuplicate(window=0) error = %v", err)
	}
	if found {
		t.Fatalf("HasRecentDuplicate(window=0) expected false")
	}

	// One hour later the row is still inside the window, 13 hours later not.
	repo.now = func() time.Time { return t0.Add(time.Hour) }
	if found, _ := repo.HasRecentDuplicate(ctx, "חיפה", "דנה", "פאד תאי", 12*time.Hour); !found {
		t.Fatalf("HasRecentDuplicate() at +1h expected true")
	}

	repo.now = func() time.Time { return t0.Add(13 * time.Hour) }
	if found, _ := repo.HasRecentDuplicate(ctx, "חיפה", "דנה", "פאד תאי", 12*time.Hour); found {
		t.Fatalf("HasRecentDuplicate() at +13h expected false")
	}
}
