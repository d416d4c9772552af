package reports

import (
	"slices"

	"axiapac.com/portal/utils"
)

type hourTally struct {
	total    float64
	billable float64
	entries  int
}

func (t *hourTally) add(e OwnedEntry) {
	t.total += e.Hours
	if e.Billable {
		t.billable += e.Hours
	}
	t.entries++
}

func (t hourTally) nonBillable() float64 {
	return max(0, t.total-t.billable)
}

func (t hourTally) billablePercentage() float64 {
	if t.total == 0 {
		return 0
	}
	return utils.Round1(t.billable / t.total * 100)
}

type group struct {
	key string
	hourTally
	// distinct values of the opposite dimension: users per project, projects per user
	related map[string]struct{}
}

// groupEntries folds entries by key and returns the groups sorted by total
// hours descending. Equal totals keep first-seen order.
func groupEntries(entries []OwnedEntry, key, related func(OwnedEntry) string) []*group {
	groups := utils.NewOrderedMap[string, *group]()
	for _, e := range entries {
		k := key(e)
		g := groups.GetOrInit(k, func() *group {
			return &group{key: k, related: map[string]struct{}{}}
		})
		g.add(e)
		g.related[related(e)] = struct{}{}
	}

	sorted := groups.Values()
	slices.SortStableFunc(sorted, func(a, b *group) int {
		switch {
		case a.total > b.total:
			return -1
		case a.total < b.total:
			return 1
		}
		return 0
	})
	return sorted
}

func byProject(e OwnedEntry) string { return e.ProjectID }

func byOwner(e OwnedEntry) string { return e.AccountID }
