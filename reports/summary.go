package reports

import (
	"time"

	"axiapac.com/portal/utils"
)

const topN = 5

type TopProject struct {
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName"`
	Hours       string `json:"hours"`
}

type TopUser struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Hours    string `json:"hours"`
}

type Summary struct {
	TotalHours         string       `json:"totalHours"`
	BillableHours      string       `json:"billableHours"`
	NonBillableHours   string       `json:"nonBillableHours"`
	BillablePercentage float64      `json:"billablePercentage"`
	TotalEntries       int          `json:"totalEntries"`
	UniqueUsers        int          `json:"uniqueUsers"`
	UniqueProjects     int          `json:"uniqueProjects"`
	AvgHoursPerUser    string       `json:"avgHoursPerUser"`
	ThisWeekHours      string       `json:"thisWeekHours"`
	ThisMonthHours     string       `json:"thisMonthHours"`
	TopProjects        []TopProject `json:"topProjects"`
	TopUsers           []TopUser    `json:"topUsers"`
}

// BuildSummary totals the entries. This-week and this-month hours are measured
// against now, independent of any requested date range.
func BuildSummary(entries []OwnedEntry, dir Directory, now time.Time) Summary {
	var all, week, month hourTally

	weekStart, weekEnd := utils.StartOfISOWeek(now), utils.EndOfISOWeek(now)
	monthStart, monthEnd := utils.StartOfMonth(now), utils.EndOfMonth(now)

	for _, e := range entries {
		all.add(e)
		day := utils.DateIn(e.WorkDate, now.Location())
		if utils.Within(day, weekStart, weekEnd) {
			week.add(e)
		}
		if utils.Within(day, monthStart, monthEnd) {
			month.add(e)
		}
	}

	projects := groupEntries(entries, byProject, byOwner)
	users := groupEntries(entries, byOwner, byProject)

	avg := 0.0
	if len(users) > 0 {
		avg = all.total / float64(len(users))
	}

	s := Summary{
		TotalHours:         utils.FormatHours(all.total),
		BillableHours:      utils.FormatHours(all.billable),
		NonBillableHours:   utils.FormatHours(all.nonBillable()),
		BillablePercentage: all.billablePercentage(),
		TotalEntries:       all.entries,
		UniqueUsers:        len(users),
		UniqueProjects:     len(projects),
		AvgHoursPerUser:    utils.FormatHours(avg),
		ThisWeekHours:      utils.FormatHours(week.total),
		ThisMonthHours:     utils.FormatHours(month.total),
		TopProjects:        []TopProject{},
		TopUsers:           []TopUser{},
	}
	for _, g := range projects[:min(topN, len(projects))] {
		s.TopProjects = append(s.TopProjects, TopProject{ProjectID: g.key, ProjectName: dir.ProjectName(g.key), Hours: utils.FormatHours(g.total)})
	}
	for _, g := range users[:min(topN, len(users))] {
		s.TopUsers = append(s.TopUsers, TopUser{UserID: g.key, UserName: dir.UserName(g.key), Hours: utils.FormatHours(g.total)})
	}
	return s
}

func emptySummary() Summary {
	return BuildSummary(nil, Directory{}, time.Time{})
}
