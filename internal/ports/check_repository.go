package ports

import (
	"context"
	"time"
)

// CheckRecord is a persisted quality check. CreatedAt/timestamps are RFC3339
// UTC text, second precision, assigned by the repository at insert time.
type CheckRecord struct {
	CheckID     uint64
	Branch      string
	ChefName    string
	DishName    string
	Score       int
	Notes       string
	CreatedAt   string
	SubmittedBy *string
}

type CheckCreate struct {
	Branch      string
	ChefName    string
	DishName    string
	Score       int
	Notes       string
	SubmittedBy *string
}

type CheckReadRepository interface {
	// HasRecentDuplicate reports whether a row with the exact trimmed triple
	// exists with created_at >= now - window. window <= 0 always reports false.
	HasRecentDuplicate(ctx context.Context, branch string, chefName string, dishName string, window time.Duration) (bool, error)

	// ListAll returns every row ordered created_at desc, check_id desc.
	ListAll(ctx context.Context) ([]CheckRecord, error)
}

type CheckRepository interface {
	CheckReadRepository

	// Insert persists a new row with server-assigned id and created_at.
	Insert(ctx context.Context, input CheckCreate) (CheckRecord, error)
}
