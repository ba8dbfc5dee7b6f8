package quality

import (
	"context"
	"fmt"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	cacheinfra "platecheck/internal/infrastructure/cache"
	"platecheck/internal/infrastructure/persistence/sqlite/model"
	"platecheck/internal/infrastructure/persistence/sqlite/repository"
	"platecheck/internal/infrastructure/persistence/sqlite/uow"
	"platecheck/internal/ports"
)

type stubMirror struct {
	entries []ports.MirrorEntry
	err     error
}

func (m *stubMirror) Append(_ context.Context, entry ports.MirrorEntry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

type stubAssistant struct {
	lastSystem string
	lastPrompt string
	answer     string
	err        error
}

func (a *stubAssistant) Ask(_ context.Context, systemContext string, userPrompt string) (string, error) {
	a.lastSystem = systemContext
	a.lastPrompt = userPrompt
	if a.err != nil {
		return "", a.err
	}
	return a.answer, nil
}

func (a *stubAssistant) Ping(ctx context.Context) (string, error) {
	return a.Ask(ctx, "", "ping")
}

func testSettings() Settings {
	return Settings{
		Branches:         []string{"תל אביב", "חיפה"},
		Dishes:           []string{"פאד תאי", "קארי ירוק"},
		DuplicateWindow:  12 * time.Hour,
		MinBranchSamples: 3,
		MinChefSamples:   5,
		InsightMaxRows:   400,
	}
}

type fixture struct {
	db        *gorm.DB
	svc       *Service
	cache     *cacheinfra.SnapshotCache
	mirror    *stubMirror
	assistant *stubAssistant
}

func setupService(t *testing.T, settings Settings) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.QualityCheck{}); err != nil {
		t.Fatalf("auto migrate quality_checks: %v", err)
	}

	f := &fixture{
		db:        db,
		cache:     cacheinfra.NewSnapshotCache(time.Minute),
		mirror:    &stubMirror{},
		assistant: &stubAssistant{answer: "all good"},
	}
	f.svc = NewService(
		repository.NewCheckRepository(db),
		uow.NewUnitOfWork(db),
		f.cache,
		f.mirror,
		f.assistant,
		settings,
	)
	return f
}

// seedCheck writes a row with an explicit created_at, bypassing the service.
func seedCheck(t *testing.T, db *gorm.DB, branch, chef, dish string, score int, createdAt time.Time) {
	t.Helper()

	row := model.QualityCheck{
		Branch:    branch,
		ChefName:  chef,
		DishName:  dish,
		Score:     score,
		CreatedAt: createdAt.UTC().Truncate(time.Second).Format("2006-01-02T15:04:05Z"),
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("seed check: %v", err)
	}
}
