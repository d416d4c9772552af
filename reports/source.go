package reports

import (
	"context"
	"slices"
	"time"

	"axiapac.com/portal/model"
	"axiapac.com/portal/utils"
)

// Source is the read-only data the report engine consumes.
type Source interface {
	// FindAccount returns nil, nil when the account does not exist.
	FindAccount(ctx context.Context, organizationID, accountID string) (*model.Account, error)
	ListAccountsBySupervisor(ctx context.Context, organizationID, supervisorID string) ([]model.Account, error)
	ListAccounts(ctx context.Context, organizationID string) ([]model.Account, error)
	// ListProjects returns at most limit projects; limit <= 0 means all.
	ListProjects(ctx context.Context, organizationID string, limit int) ([]model.Project, error)
	ListTeamMemberships(ctx context.Context, teamID string) ([]model.TeamMembership, error)
	ListTimesheets(ctx context.Context, constraints []Constraint, limit, offset int) ([]model.Timesheet, error)
	ListTimeEntries(ctx context.Context, query EntryQuery, limit, offset int) ([]model.TimeEntry, error)
}

// EntryQuery selects time entries belonging to already-authorised timesheets.
type EntryQuery struct {
	TimesheetIDs []string
	StartDate    *time.Time
	EndDate      *time.Time
	ProjectID    string
}

func (q EntryQuery) Matches(e model.TimeEntry) bool {
	return slices.Contains(q.TimesheetIDs, e.TimesheetID) && q.MatchesFilters(e)
}

// MatchesFilters checks the project and date bounds only, for callers that
// already know the entry's timesheet is in the set.
func (q EntryQuery) MatchesFilters(e model.TimeEntry) bool {
	if q.ProjectID != "" && e.ProjectID != q.ProjectID {
		return false
	}
	day := utils.FormatDate(e.WorkDate)
	if q.StartDate != nil && day < utils.FormatDate(*q.StartDate) {
		return false
	}
	if q.EndDate != nil && day > utils.FormatDate(*q.EndDate) {
		return false
	}
	return true
}
