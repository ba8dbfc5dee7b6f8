package quality

import (
	"time"

	"platecheck/internal/ports"
)

// Settings carries the tunables the quality usecases need, resolved once at
// bootstrap from config. No reload.
type Settings struct {
	Branches         []string
	Dishes           []string
	DuplicateWindow  time.Duration
	MinBranchSamples int
	MinChefSamples   int
	InsightMaxRows   int
}

type Service struct {
	repo      ports.CheckRepository
	uow       ports.UnitOfWork
	cache     ports.SnapshotCache
	mirror    ports.Mirror
	assistant ports.Assistant
	settings  Settings
}

// NewService wires the quality usecases with the record store, transaction
// boundary, snapshot cache and the two optional collaborators.
func NewService(
	repo ports.CheckRepository,
	uow ports.UnitOfWork,
	cache ports.SnapshotCache,
	mirror ports.Mirror,
	assistant ports.Assistant,
	settings Settings,
) *Service {
	return &Service{
		repo:      repo,
		uow:       uow,
		cache:     cache,
		mirror:    mirror,
		assistant: assistant,
		settings:  settings,
	}
}

func (s *Service) Branches() []string {
	return append([]string(nil), s.settings.Branches...)
}

func (s *Service) Dishes() []string {
	return append([]string(nil), s.settings.Dishes...)
}

// CheckItem is the service-facing view of a persisted check.
type CheckItem struct {
	ID          uint64
	Branch      string
	ChefName    string
	DishName    string
	Score       int
	Notes       string
	CreatedAt   string
	SubmittedBy string
}

func mapCheckItem(record ports.CheckRecord) CheckItem {
	item := CheckItem{
		ID:        record.CheckID,
		Branch:    record.Branch,
		ChefName:  record.ChefName,
		DishName:  record.DishName,
		Score:     record.Score,
		Notes:     record.Notes,
		CreatedAt: record.CreatedAt,
	}
	if record.SubmittedBy != nil {
		item.SubmittedBy = *record.SubmittedBy
	}
	return item
}
