package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"platecheck/internal/errs"
	"platecheck/internal/infrastructure/persistence/sqlite/model"
	"platecheck/internal/ports"
)

// timeLayout is RFC3339 UTC at second precision. Lexicographic order on this
// layout matches chronological order, which the duplicate query relies on.
const timeLayout = "2006-01-02T15:04:05Z"

type CheckRepository struct {
	db  *gorm.DB
	now func() time.Time
}

var _ ports.CheckRepository = (*CheckRepository)(nil)

func NewCheckRepository(db *gorm.DB) *CheckRepository {
	return &CheckRepository{db: db, now: time.Now}
}

func (r *CheckRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

func (r *CheckRepository) Insert(ctx context.Context, input ports.CheckCreate) (ports.CheckRecord, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.CheckRecord{}, err
	}

	row := model.QualityCheck{
		Branch:      strings.TrimSpace(input.Branch),
		ChefName:    strings.TrimSpace(input.ChefName),
		DishName:    strings.TrimSpace(input.DishName),
		Score:       input.Score,
		Notes:       strings.TrimSpace(input.Notes),
		CreatedAt:   r.now().UTC().Truncate(time.Second).Format(timeLayout),
		SubmittedBy: input.SubmittedBy,
	}

	if row.Branch == "" || row.ChefName == "" || row.DishName == "" {
		return ports.CheckRecord{}, errors.New("branch, chef name and dish name are required")
	}

	if err := db.Create(&row).Error; err != nil {
		return ports.CheckRecord{}, errs.Wrap(err, "insert quality check")
	}

	return mapCheck(row), nil
}

func (r *CheckRepository) HasRecentDuplicate(ctx context.Context, branch string, chefName string, dishName string, window time.Duration) (bool, error) {
	if window <= 0 {
		return false, nil
	}

	db, err := r.dbFromContext(ctx)
	if err != nil {
		return false, err
	}

	cutoff := r.now().UTC().Add(-window).Truncate(time.Second).Format(timeLayout)

	var count int64
	if err := db.Model(&model.QualityCheck{}).
		Where("branch = ? AND chef_name = ? AND dish_name = ? AND created_at >= ?",
			strings.TrimSpace(branch), strings.TrimSpace(chefName), strings.TrimSpace(dishName), cutoff).
		Count(&count).Error; err != nil {
		return false, errs.Wrap(err, "count recent duplicates")
	}

	return count > 0, nil
}

func (r *CheckRepository) ListAll(ctx context.Context) ([]ports.CheckRecord, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.QualityCheck
	if err := db.Order("created_at desc, check_id desc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query quality checks")
	}

	items := make([]ports.CheckRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapCheck(row))
	}
	return items, nil
}

func mapCheck(row model.QualityCheck) ports.CheckRecord {
	return ports.CheckRecord{
		CheckID:     row.CheckID,
		Branch:      row.Branch,
		ChefName:    row.ChefName,
		DishName:    row.DishName,
		Score:       row.Score,
		Notes:       row.Notes,
		CreatedAt:   row.CreatedAt,
		SubmittedBy: row.SubmittedBy,
	}
}
