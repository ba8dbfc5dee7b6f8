package quality

import (
	"context"
	"errors"

	domainquality "platecheck/internal/domain/quality"
	"platecheck/internal/errs"
)

type BranchCountKPI struct {
	Branch string
	Count  int
}

type BranchAvgKPI struct {
	Branch string
	Avg    float64
	Count  int

	// SmallSample flags the fallback case where no branch met the minimum
	// sample threshold and the global best mean was used instead.
	SmallSample bool
}

type ChefKPI struct {
	Chef  string
	Avg   float64
	Count int
}

type DishCountKPI struct {
	Dish  string
	Count int
}

type Report struct {
	TotalChecks       int
	BestBranchByCount BranchCountKPI
	BestAvgBranch     BranchAvgKPI
	TopChef           ChefKPI
	TopDishByCount    DishCountKPI
}

// BuildReport computes the four KPIs over the current snapshot.
func (s *Service) BuildReport(ctx context.Context) (Report, error) {
	if ctx == nil {
		return Report{}, errors.New("context is required")
	}

	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return Report{}, errs.Wrap(err, "load snapshot for report")
	}

	checks := toDomainChecks(snapshot)

	report := Report{TotalChecks: len(checks)}
	report.BestBranchByCount.Branch, report.BestBranchByCount.Count = domainquality.BestBranchByCount(checks)
	report.BestAvgBranch.Branch, report.BestAvgBranch.Avg, report.BestAvgBranch.Count, report.BestAvgBranch.SmallSample =
		domainquality.BestAvgBranch(checks, s.settings.MinBranchSamples)
	report.TopChef.Chef, report.TopChef.Avg, report.TopChef.Count = domainquality.TopChef(checks, s.settings.MinChefSamples)
	report.TopDishByCount.Dish, report.TopDishByCount.Count = domainquality.TopDishByCount(checks)

	return report, nil
}

func toDomainChecks(items []CheckItem) []domainquality.Check {
	checks := make([]domainquality.Check, 0, len(items))
	for _, item := range items {
		checks = append(checks, domainquality.Check{
			ID:          item.ID,
			Branch:      item.Branch,
			ChefName:    item.ChefName,
			DishName:    item.DishName,
			Score:       item.Score,
			Notes:       item.Notes,
			CreatedAt:   item.CreatedAt,
			SubmittedBy: item.SubmittedBy,
		})
	}
	return checks
}
