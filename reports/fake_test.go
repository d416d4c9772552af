package reports

import (
	"context"
	"slices"
	"sync"
	"time"

	"axiapac.com/portal/model"
	"axiapac.com/portal/utils"
)

// fakeSource is an in-memory Source that records every call.
type fakeSource struct {
	mu sync.Mutex

	accounts    []model.Account
	projects    []model.Project
	memberships map[string][]model.TeamMembership
	timesheets  []model.Timesheet
	entries     []model.TimeEntry

	membershipErrs map[string]error
	timesheetErr   error
	entryErr       error
	// ignoreConstraints makes ListTimesheets return every row, like a store
	// that dropped a WHERE clause
	ignoreConstraints bool

	calls []string
}

func (f *fakeSource) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeSource) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeSource) FindAccount(_ context.Context, organizationID, accountID string) (*model.Account, error) {
	f.record("FindAccount")
	return utils.Find(f.accounts, func(a model.Account) bool {
		return a.OrganizationID == organizationID && a.AccountID == accountID
	}), nil
}

func (f *fakeSource) ListAccountsBySupervisor(_ context.Context, organizationID, supervisorID string) ([]model.Account, error) {
	f.record("ListAccountsBySupervisor")
	return utils.Filter(f.accounts, func(a model.Account) bool {
		return a.OrganizationID == organizationID && a.SupervisorID == supervisorID
	}), nil
}

func (f *fakeSource) ListAccounts(_ context.Context, organizationID string) ([]model.Account, error) {
	f.record("ListAccounts")
	return utils.Filter(f.accounts, func(a model.Account) bool { return a.OrganizationID == organizationID }), nil
}

func (f *fakeSource) ListProjects(_ context.Context, organizationID string, limit int) ([]model.Project, error) {
	f.record("ListProjects")
	projects := utils.Filter(f.projects, func(p model.Project) bool { return p.OrganizationID == organizationID })
	if limit > 0 && len(projects) > limit {
		projects = projects[:limit]
	}
	return projects, nil
}

func (f *fakeSource) ListTeamMemberships(_ context.Context, teamID string) ([]model.TeamMembership, error) {
	f.record("ListTeamMemberships")
	if err := f.membershipErrs[teamID]; err != nil {
		return nil, err
	}
	return f.memberships[teamID], nil
}

func (f *fakeSource) ListTimesheets(_ context.Context, constraints []Constraint, limit, offset int) ([]model.Timesheet, error) {
	f.record("ListTimesheets")
	if f.timesheetErr != nil {
		return nil, f.timesheetErr
	}
	matched := utils.Filter(f.timesheets, func(ts model.Timesheet) bool {
		return f.ignoreConstraints || MatchesAll(constraints, ts)
	})
	return page(matched, limit, offset), nil
}

func (f *fakeSource) ListTimeEntries(_ context.Context, query EntryQuery, limit, offset int) ([]model.TimeEntry, error) {
	f.record("ListTimeEntries")
	if f.entryErr != nil {
		return nil, f.entryErr
	}
	matched := utils.Filter(f.entries, query.Matches)
	return page(matched, limit, offset), nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := min(offset+limit, len(items))
	return slices.Clone(items[offset:end])
}

const org = "org-1"

// fixture week: Monday 2026-10-12 to Sunday 2026-10-18
var fixtureNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func newFixtureSource() *fakeSource {
	account := func(id, first, last string, opts ...func(*model.Account)) model.Account {
		a := model.Account{ID: "acc-" + id, AccountID: id, OrganizationID: org, FirstName: first, LastName: last, Status: model.AccountActive}
		for _, opt := range opts {
			opt(&a)
		}
		return a
	}
	supervisedBy := func(sup string) func(*model.Account) { return func(a *model.Account) { a.SupervisorID = sup } }

	return &fakeSource{
		accounts: []model.Account{
			account("admin-1", "Ada", "Admin", func(a *model.Account) { a.Labels = []string{model.LabelAdmin} }),
			account("sup-1", "Sam", "Super", func(a *model.Account) { a.IsSupervisor = true }),
			account("sup-2", "Sue", "Lonely", func(a *model.Account) { a.IsSupervisor = true }),
			account("staff-1", "Stan", "One", supervisedBy("sup-1")),
			account("staff-2", "Stella", "Two", supervisedBy("sup-1")),
			account("staff-3", "Steve", "Three"),
			account("client-1", "Cli", "Ent", supervisedBy("sup-1"), func(a *model.Account) { a.UserType = model.UserTypeClient }),
			account("gone-1", "Gone", "Away", supervisedBy("sup-1"), func(a *model.Account) { a.Status = "inactive" }),
			account("mgr-1", "Mia", "Manager"),
		},
		projects: []model.Project{
			{ID: "proj-a", OrganizationID: org, Code: "A100", Name: "Alpha", ProjectTeamID: "team-a"},
			{ID: "proj-b", OrganizationID: org, Code: "B200", Name: "Bravo", ProjectTeamID: "team-b"},
			{ID: "proj-c", OrganizationID: org, Code: "C300", Name: "Charlie"},
		},
		memberships: map[string][]model.TeamMembership{
			"team-a": {
				{ID: "m1", TeamID: "team-a", AccountID: "mgr-1", Roles: []string{model.MembershipRoleManager}},
				{ID: "m2", TeamID: "team-a", AccountID: "staff-1", Roles: []string{"member"}},
			},
			"team-b": {
				{ID: "m3", TeamID: "team-b", AccountID: "staff-2", Roles: []string{model.MembershipRoleManager}},
			},
		},
		timesheets: []model.Timesheet{
			timesheet("ts-1", "staff-1", model.TimesheetApproved),
			timesheet("ts-2", "staff-2", model.TimesheetSubmitted),
			timesheet("ts-3", "staff-3", model.TimesheetApproved),
			timesheet("ts-4", "mgr-1", model.TimesheetApproved),
			timesheet("ts-5", "staff-1", model.TimesheetDraft),
			timesheet("ts-6", "staff-2", model.TimesheetRejected),
		},
		entries: []model.TimeEntry{
			entry("e1", "ts-1", "2026-10-13", "proj-a", 3, true),
			entry("e2", "ts-1", "2026-10-14", "proj-b", 2, false),
			entry("e3", "ts-2", "2026-10-13", "proj-b", 4, true),
			entry("e4", "ts-3", "2026-10-15", "proj-a", 1.5, true),
			entry("e5", "ts-3", "2026-10-15", "proj-b", 2.5, false),
			entry("e6", "ts-4", "2026-10-16", "proj-b", 1, false),
			entry("e7", "ts-4", "2026-10-16", "proj-a", 2, true),
			entry("e8", "ts-5", "2026-10-13", "proj-a", 8, true),
			entry("e9", "ts-6", "2026-10-14", "proj-a", 8, true),
		},
	}
}

func timesheet(id, owner, status string) model.Timesheet {
	return model.Timesheet{ID: id, OrganizationID: org, AccountID: owner, WeekStart: utils.MustParseDate("2026-10-12"), Status: status}
}

func entry(id, timesheetID, day, projectID string, hours float64, billable bool) model.TimeEntry {
	return model.TimeEntry{ID: id, TimesheetID: timesheetID, WorkDate: utils.MustParseDate(day), ProjectID: projectID, Hours: hours, Billable: billable}
}

func identity(accountID string, labels ...string) Identity {
	if labels == nil {
		labels = []string{}
	}
	return Identity{AccountID: accountID, OrganizationID: org, Labels: labels}
}

func entryIDs(entries []OwnedEntry) []string {
	return utils.Map(entries, func(e OwnedEntry) string { return e.ID })
}
