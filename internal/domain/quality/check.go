package quality

import (
	"fmt"
	"strings"
)

const (
	MinScore = 1
	MaxScore = 10

	SubmittedByBranch = "branch"
	SubmittedByMeta   = "meta"
)

// Check is one quality-score submission for a (branch, chef, dish) triple.
// CreatedAt is RFC3339 UTC with second precision, assigned by the store.
type Check struct {
	ID          uint64
	Branch      string
	ChefName    string
	DishName    string
	Score       int
	Notes       string
	CreatedAt   string
	SubmittedBy string
}

// Submission is caller input before the store assigns ID and CreatedAt.
type Submission struct {
	Branch      string
	ChefName    string
	DishName    string
	Score       int
	Notes       string
	SubmittedBy string
}

// NormalizeSubmission trims fields and checks every constraint against the
// configured branch and dish enumerations. All failures wrap ErrValidation.
func NormalizeSubmission(sub Submission, branches []string, dishes []string) (Submission, error) {
	out := Submission{
		Branch:      strings.TrimSpace(sub.Branch),
		ChefName:    strings.TrimSpace(sub.ChefName),
		DishName:    strings.TrimSpace(sub.DishName),
		Score:       sub.Score,
		Notes:       strings.TrimSpace(sub.Notes),
		SubmittedBy: strings.TrimSpace(sub.SubmittedBy),
	}

	if out.Branch == "" {
		return Submission{}, fmt.Errorf("%w: branch is required", ErrValidation)
	}
	if !containsTrimmed(branches, out.Branch) {
		return Submission{}, fmt.Errorf("%w: unknown branch %q", ErrValidation, out.Branch)
	}
	if out.ChefName == "" {
		return Submission{}, fmt.Errorf("%w: chef name is required", ErrValidation)
	}
	if out.DishName == "" {
		return Submission{}, fmt.Errorf("%w: dish name is required", ErrValidation)
	}
	if !containsTrimmed(dishes, out.DishName) {
		return Submission{}, fmt.Errorf("%w: unknown dish %q", ErrValidation, out.DishName)
	}
	if out.Score < MinScore || out.Score > MaxScore {
		return Submission{}, fmt.Errorf("%w: score %d out of range [%d,%d]", ErrValidation, out.Score, MinScore, MaxScore)
	}
	if out.SubmittedBy != "" && out.SubmittedBy != SubmittedByBranch && out.SubmittedBy != SubmittedByMeta {
		return Submission{}, fmt.Errorf("%w: submitted_by must be %q or %q", ErrValidation, SubmittedByBranch, SubmittedByMeta)
	}

	return out, nil
}

func containsTrimmed(values []string, candidate string) bool {
	for _, value := range values {
		if strings.TrimSpace(value) == candidate {
			return true
		}
	}
	return false
}
