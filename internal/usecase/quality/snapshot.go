package quality

import (
	"context"
	"errors"
	"log/slog"

	"platecheck/internal/bootstrap/logging"
	"platecheck/internal/errs"
	"platecheck/internal/ports"
)

// Snapshot returns every check ordered most recent first. Reads may be served
// from the snapshot cache inside its staleness window; SubmitCheck invalidates
// the cache right after a commit so a submitter always sees their own row.
func (s *Service) Snapshot(ctx context.Context) ([]CheckItem, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return nil, errors.New("check repository is required")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "usecase.quality"))

	if rows, found := s.cachedSnapshot(logCtx); found {
		return mapCheckItems(rows), nil
	}

	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "load quality checks")
	}

	s.storeSnapshotBestEffort(logCtx, rows)
	return mapCheckItems(rows), nil
}

func (s *Service) cachedSnapshot(ctx context.Context) ([]ports.CheckRecord, bool) {
	if s.cache == nil {
		return nil, false
	}

	rows, found, err := s.cache.Get(ctx)
	if err != nil {
		logging.Warn(ctx, "snapshot cache read failed", slog.Any("err", errs.Loggable(err)))
		return nil, false
	}
	return rows, found
}

func (s *Service) storeSnapshotBestEffort(ctx context.Context, rows []ports.CheckRecord) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, rows); err != nil {
		logging.Warn(ctx, "snapshot cache write failed", slog.Any("err", errs.Loggable(err)))
	}
}

func mapCheckItems(rows []ports.CheckRecord) []CheckItem {
	items := make([]CheckItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapCheckItem(row))
	}
	return items
}
