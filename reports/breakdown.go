package reports

import "axiapac.com/portal/utils"

type ProjectBreakdown struct {
	ProjectID          string  `json:"projectId"`
	ProjectName        string  `json:"projectName"`
	TotalHours         string  `json:"totalHours"`
	BillableHours      string  `json:"billableHours"`
	NonBillableHours   string  `json:"nonBillableHours"`
	BillablePercentage float64 `json:"billablePercentage"`
	EntryCount         int     `json:"entryCount"`
	UserCount          int     `json:"userCount"`
}

type UserBreakdown struct {
	UserID             string  `json:"userId"`
	UserName           string  `json:"userName"`
	TotalHours         string  `json:"totalHours"`
	BillableHours      string  `json:"billableHours"`
	NonBillableHours   string  `json:"nonBillableHours"`
	BillablePercentage float64 `json:"billablePercentage"`
	EntryCount         int     `json:"entryCount"`
	ProjectCount       int     `json:"projectCount"`
}

// BuildByProject groups entries per project, largest total first.
func BuildByProject(entries []OwnedEntry, dir Directory) []ProjectBreakdown {
	out := []ProjectBreakdown{}
	for _, g := range groupEntries(entries, byProject, byOwner) {
		out = append(out, ProjectBreakdown{
			ProjectID:          g.key,
			ProjectName:        dir.ProjectName(g.key),
			TotalHours:         utils.FormatHours(g.total),
			BillableHours:      utils.FormatHours(g.billable),
			NonBillableHours:   utils.FormatHours(g.nonBillable()),
			BillablePercentage: g.billablePercentage(),
			EntryCount:         g.entries,
			UserCount:          len(g.related),
		})
	}
	return out
}

// BuildByUser groups entries per owning account, largest total first.
func BuildByUser(entries []OwnedEntry, dir Directory) []UserBreakdown {
	out := []UserBreakdown{}
	for _, g := range groupEntries(entries, byOwner, byProject) {
		out = append(out, UserBreakdown{
			UserID:             g.key,
			UserName:           dir.UserName(g.key),
			TotalHours:         utils.FormatHours(g.total),
			BillableHours:      utils.FormatHours(g.billable),
			NonBillableHours:   utils.FormatHours(g.nonBillable()),
			BillablePercentage: g.billablePercentage(),
			EntryCount:         g.entries,
			ProjectCount:       len(g.related),
		})
	}
	return out
}
