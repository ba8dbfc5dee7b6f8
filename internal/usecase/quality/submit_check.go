package quality

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"platecheck/internal/bootstrap/logging"
	domainquality "platecheck/internal/domain/quality"
	"platecheck/internal/errs"
	"platecheck/internal/ports"
)

type SubmitCheckInput struct {
	Branch      string
	ChefName    string
	DishName    string
	Score       int
	Notes       string
	SubmittedBy string
}

type SubmitCheckResult struct {
	Check CheckItem

	// Mirrored reports whether the external mirror accepted the row. False is
	// informational, never an error: the local insert already committed.
	Mirrored     bool
	MirrorNotice string
}

// SubmitCheck validates the submission, runs the duplicate check and the
// insert inside one transaction, invalidates the snapshot cache, then fires
// the mirror append. Mirror failures degrade to a notice on the result.
func (s *Service) SubmitCheck(ctx context.Context, input SubmitCheckInput) (SubmitCheckResult, error) {
	if ctx == nil {
		return SubmitCheckResult{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return SubmitCheckResult{}, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return SubmitCheckResult{}, errors.New("check repository is required")
	}
	if s.uow == nil {
		return SubmitCheckResult{}, errors.New("unit of work is required")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "usecase.quality"))

	submission, err := domainquality.NormalizeSubmission(domainquality.Submission{
		Branch:      input.Branch,
		ChefName:    input.ChefName,
		DishName:    input.DishName,
		Score:       input.Score,
		Notes:       input.Notes,
		SubmittedBy: input.SubmittedBy,
	}, s.settings.Branches, s.settings.Dishes)
	if err != nil {
		return SubmitCheckResult{}, err
	}

	var record ports.CheckRecord
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		duplicate, dupErr := s.repo.HasRecentDuplicate(txCtx, submission.Branch, submission.ChefName, submission.DishName, s.settings.DuplicateWindow)
		if dupErr != nil {
			return errs.Wrap(dupErr, "check recent duplicate")
		}
		if duplicate {
			return fmt.Errorf("%w: %s / %s / %s", domainquality.ErrDuplicate, submission.Branch, submission.ChefName, submission.DishName)
		}

		create := ports.CheckCreate{
			Branch:   submission.Branch,
			ChefName: submission.ChefName,
			DishName: submission.DishName,
			Score:    submission.Score,
			Notes:    submission.Notes,
		}
		if submission.SubmittedBy != "" {
			submittedBy := submission.SubmittedBy
			create.SubmittedBy = &submittedBy
		}

		inserted, insertErr := s.repo.Insert(txCtx, create)
		if insertErr != nil {
			return errs.Wrap(insertErr, "insert quality check")
		}
		record = inserted
		return nil
	}); err != nil {
		return SubmitCheckResult{}, err
	}

	s.invalidateSnapshot(logCtx)

	result := SubmitCheckResult{Check: mapCheckItem(record)}
	result.Mirrored, result.MirrorNotice = s.mirrorCheck(logCtx, record)

	logging.Info(
		logCtx,
		"quality check stored",
		slog.Uint64("check_id", record.CheckID),
		slog.String("branch", record.Branch),
		slog.Int("score", record.Score),
		slog.Bool("mirrored", result.Mirrored),
	)

	return result, nil
}

func (s *Service) invalidateSnapshot(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logging.Warn(ctx, "snapshot cache invalidation failed", slog.Any("err", errs.Loggable(err)))
	}
}

// mirrorCheck runs strictly after the local commit. Every failure downgrades
// to a notice so the collaborator can never affect the store's result.
func (s *Service) mirrorCheck(ctx context.Context, record ports.CheckRecord) (bool, string) {
	if s.mirror == nil {
		return false, "mirror not configured, stored locally only"
	}

	err := s.mirror.Append(ctx, ports.MirrorEntry{
		Timestamp: record.CreatedAt,
		Branch:    record.Branch,
		ChefName:  record.ChefName,
		DishName:  record.DishName,
		Score:     record.Score,
		Notes:     record.Notes,
	})
	if err == nil {
		return true, ""
	}
	if errors.Is(err, ports.ErrMirrorNotConfigured) {
		return false, "mirror not configured, stored locally only"
	}

	logging.Warn(ctx, "mirror append failed", slog.Any("err", errs.Loggable(err)))
	return false, "mirror append failed, stored locally only"
}
