package ports

import (
	"context"
	"errors"
)

// ErrMirrorNotConfigured signals the mirror is disabled rather than failing.
var ErrMirrorNotConfigured = errors.New("mirror is not configured")

type MirrorEntry struct {
	Timestamp string
	Branch    string
	ChefName  string
	DishName  string
	Score     int
	Notes     string
}

// Mirror appends one row per successful insert to an external spreadsheet.
// Invoked strictly after the local commit; any error is non-fatal to the
// caller and must never roll back or block the local write.
type Mirror interface {
	Append(ctx context.Context, entry MirrorEntry) error
}
