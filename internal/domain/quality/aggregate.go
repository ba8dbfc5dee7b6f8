package quality

// The four KPIs are pure functions over an immutable snapshot. Grouping walks
// the snapshot in order and keys are registered on first encounter, so ties
// resolve deterministically to the group seen first in the snapshot.

type group struct {
	key   string
	count int
	sum   int
}

func (g group) avg() float64 {
	if g.count == 0 {
		return 0
	}
	return float64(g.sum) / float64(g.count)
}

func groupBy(checks []Check, keyOf func(Check) string) []group {
	groups := make([]group, 0, 8)
	index := make(map[string]int, 8)

	for _, check := range checks {
		key := keyOf(check)
		idx, ok := index[key]
		if !ok {
			groups = append(groups, group{key: key})
			idx = len(groups) - 1
			index[key] = idx
		}
		groups[idx].count++
		groups[idx].sum += check.Score
	}
	return groups
}

// BestBranchByCount returns the branch with the most checks. ("", 0) on an
// empty snapshot.
func BestBranchByCount(checks []Check) (string, int) {
	best := group{}
	for _, g := range groupBy(checks, func(c Check) string { return c.Branch }) {
		if g.count > best.count {
			best = g
		}
	}
	return best.key, best.count
}

// BestAvgBranch returns the branch with the highest mean score among branches
// with at least minSamples checks, ties broken by higher count. When no branch
// meets the threshold it falls back to the globally highest-mean branch and
// reports smallSample=true. ("", 0, 0, false) on an empty snapshot.
func BestAvgBranch(checks []Check, minSamples int) (branch string, avg float64, count int, smallSample bool) {
	groups := groupBy(checks, func(c Check) string { return c.Branch })
	if len(groups) == 0 {
		return "", 0, 0, false
	}

	var best *group
	for i := range groups {
		g := &groups[i]
		if g.count < minSamples {
			continue
		}
		if best == nil || g.avg() > best.avg() || (g.avg() == best.avg() && g.count > best.count) {
			best = g
		}
	}
	if best != nil {
		return best.key, best.avg(), best.count, false
	}

	for i := range groups {
		g := &groups[i]
		if best == nil || g.avg() > best.avg() || (g.avg() == best.avg() && g.count > best.count) {
			best = g
		}
	}
	return best.key, best.avg(), best.count, true
}

// TopChef returns the most frequent chef among chefs with at least minSamples
// checks, ties broken by higher mean score. Falls back to the globally most
// frequent chef when nobody meets the threshold. ("", 0, 0) on an empty
// snapshot.
func TopChef(checks []Check, minSamples int) (chef string, avg float64, count int) {
	groups := groupBy(checks, func(c Check) string { return c.ChefName })
	if len(groups) == 0 {
		return "", 0, 0
	}

	var best *group
	for i := range groups {
		g := &groups[i]
		if g.count < minSamples {
			continue
		}
		if best == nil || g.count > best.count || (g.count == best.count && g.avg() > best.avg()) {
			best = g
		}
	}
	if best == nil {
		for i := range groups {
			g := &groups[i]
			if best == nil || g.count > best.count || (g.count == best.count && g.avg() > best.avg()) {
				best = g
			}
		}
	}
	return best.key, best.avg(), best.count
}

// TopDishByCount returns the dish with the most checks, no threshold.
// ("", 0) on an empty snapshot.
func TopDishByCount(checks []Check) (string, int) {
	best := group{}
	for _, g := range groupBy(checks, func(c Check) string { return c.DishName }) {
		if g.count > best.count {
			best = g
		}
	}
	return best.key, best.count
}
