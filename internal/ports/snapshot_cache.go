package ports

import "context"

// SnapshotCache memoizes the whole-table read for a short staleness window to
// bound read load under repeated dashboard refreshes. There is a single entry,
// the full ordered snapshot. Writers must call Invalidate right after any
// successful insert so the submitter sees their own row on the next read.
type SnapshotCache interface {
	Get(ctx context.Context) (rows []CheckRecord, found bool, err error)
	Set(ctx context.Context, rows []CheckRecord) error
	Invalidate(ctx context.Context) error
}
