package reports

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"axiapac.com/portal/model"
	"axiapac.com/portal/utils"
)

func fetchFor(t *testing.T, src *fakeSource, id Identity, f Filters) Fetched {
	t.Helper()
	facts, err := ResolveRole(context.Background(), src, id, nil)
	require.NoError(t, err)
	access := BuildAccess(facts, id, f)
	require.False(t, access.Denied)

	fetched, err := FetchEntries(context.Background(), src, access, f, facts, id, nil)
	require.NoError(t, err)
	return fetched
}

func TestFetchEntriesScopesByRole(t *testing.T) {
	tests := []struct {
		name    string
		id      Identity
		filters Filters
		want    []string
	}{
		{"admin sees all reportable", identity("admin-1", "admin"), Filters{}, []string{"e1", "e2", "e3", "e4", "e5", "e6", "e7"}},
		{"staff sees own", identity("staff-1", "staff"), Filters{}, []string{"e1", "e2"}},
		{"staff user filter ignored", identity("staff-1", "staff"), Filters{UserID: "staff-3"}, []string{"e1", "e2"}},
		{"supervisor sees supervised", identity("sup-1"), Filters{}, []string{"e1", "e2", "e3"}},
		{"manager sees own and managed", identity("mgr-1"), Filters{}, []string{"e1", "e4", "e6", "e7"}},
		{"manager filtering unmanaged project sees self only", identity("mgr-1"), Filters{ProjectID: "proj-b"}, []string{"e6"}},
		{"manager filtering managed project", identity("mgr-1"), Filters{ProjectID: "proj-a"}, []string{"e1", "e4", "e7"}},
		{"manager filtering other user sees all their entries", identity("mgr-1"), Filters{UserID: "staff-3"}, []string{"e4", "e5"}},
		{"admin project filter", identity("admin-1", "admin"), Filters{ProjectID: "proj-b"}, []string{"e2", "e3", "e5", "e6"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetched := fetchFor(t, newFixtureSource(), tt.id, tt.filters)
			assert.Equal(t, tt.want, entryIDs(fetched.Entries))
		})
	}
}

func TestFetchEntriesScopesSupervisorWhoManages(t *testing.T) {
	src := newFixtureSource()
	src.memberships["team-a"] = append(src.memberships["team-a"],
		model.TeamMembership{ID: "m4", TeamID: "team-a", AccountID: "sup-1", Roles: []string{model.MembershipRoleManager}})

	fetched := fetchFor(t, src, identity("sup-1"), Filters{})
	assert.Equal(t, []string{"e1"}, entryIDs(fetched.Entries))

	fetched = fetchFor(t, src, identity("sup-1"), Filters{UserID: "staff-2"})
	assert.Equal(t, []string{"e3"}, entryIDs(fetched.Entries))
}

func TestFetchEntriesPrivilegedManagerIsNotScoped(t *testing.T) {
	fetched := fetchFor(t, newFixtureSource(), identity("mgr-1", "finance"), Filters{})
	assert.Equal(t, []string{"e1", "e2", "e3", "e4", "e5", "e6", "e7"}, entryIDs(fetched.Entries))
}

func TestEntryQueryMatchesFilters(t *testing.T) {
	start := utils.MustParseDate("2026-10-14")
	q := EntryQuery{TimesheetIDs: []string{"ts-1"}, StartDate: &start, ProjectID: "proj-b"}

	e := entry("e2", "ts-9", "2026-10-14", "proj-b", 2, false)
	assert.True(t, q.MatchesFilters(e))
	assert.False(t, q.Matches(e))

	assert.False(t, q.MatchesFilters(entry("e1", "ts-1", "2026-10-13", "proj-b", 1, true)))
	assert.False(t, q.MatchesFilters(entry("e3", "ts-1", "2026-10-14", "proj-a", 1, true)))
}

func TestFetchEntriesJoinsOwner(t *testing.T) {
	src := newFixtureSource()
	fetched := fetchFor(t, src, identity("admin-1", "admin"), Filters{})

	owners := map[string]string{}
	for _, e := range fetched.Entries {
		owners[e.ID] = e.AccountID
	}
	assert.Equal(t, "staff-1", owners["e1"])
	assert.Equal(t, "staff-3", owners["e5"])
	assert.Equal(t, "mgr-1", owners["e7"])

	// the stored records are left untouched
	assert.Equal(t, "ts-1", src.entries[0].TimesheetID)
}

func TestFetchEntriesNeverLeaksDraftOrRejected(t *testing.T) {
	src := newFixtureSource()
	src.ignoreConstraints = true

	fetched := fetchFor(t, src, identity("admin-1", "admin"), Filters{})

	assert.Equal(t, 4, fetched.TimesheetCount)
	assert.Equal(t, []string{"e1", "e2", "e3", "e4", "e5", "e6", "e7"}, entryIDs(fetched.Entries))
}

func TestFetchEntriesDateRange(t *testing.T) {
	start, end := utils.MustParseDate("2026-10-14"), utils.MustParseDate("2026-10-15")
	fetched := fetchFor(t, newFixtureSource(), identity("admin-1", "admin"), Filters{StartDate: &start, EndDate: &end})

	assert.Equal(t, []string{"e2", "e4", "e5"}, entryIDs(fetched.Entries))
}

func TestFetchEntriesSkipsEntryFetchWithoutTimesheets(t *testing.T) {
	src := newFixtureSource()
	fetched := fetchFor(t, src, identity("staff-3", "staff"), Filters{StartDate: utils.Ptr(utils.MustParseDate("2027-01-01"))})

	assert.Zero(t, fetched.TimesheetCount)
	assert.Empty(t, fetched.Entries)
	assert.Zero(t, src.callCount("ListTimeEntries"))
}

func TestFetchEntriesPaginatesToCeiling(t *testing.T) {
	src := &fakeSource{}
	for i := range 1250 {
		src.timesheets = append(src.timesheets, timesheet(fmt.Sprintf("ts-%04d", i), "staff-1", model.TimesheetApproved))
	}
	src.entries = []model.TimeEntry{entry("e1", "ts-0000", "2026-10-13", "proj-a", 1, true)}

	fetched := fetchFor(t, src, identity("admin-1", "admin"), Filters{})

	assert.Equal(t, 1000, fetched.TimesheetCount)
	assert.True(t, fetched.Truncated)
	assert.Equal(t, 10, src.callCount("ListTimesheets"))
	assert.Equal(t, 1, src.callCount("ListTimeEntries"))
}

func TestFetchEntriesStopsOnShortPage(t *testing.T) {
	src := &fakeSource{}
	for i := range 250 {
		src.timesheets = append(src.timesheets, timesheet(fmt.Sprintf("ts-%04d", i), "staff-1", model.TimesheetApproved))
	}

	fetched := fetchFor(t, src, identity("admin-1", "admin"), Filters{})

	assert.Equal(t, 250, fetched.TimesheetCount)
	assert.False(t, fetched.Truncated)
	assert.Equal(t, 3, src.callCount("ListTimesheets"))
}

func TestFetchEntriesFailsClosed(t *testing.T) {
	id := identity("admin-1", "admin")
	facts := RoleFacts{IsAdmin: true}
	access := BuildAccess(facts, id, Filters{})

	src := newFixtureSource()
	src.timesheetErr = errors.New("connection refused")
	_, err := FetchEntries(context.Background(), src, access, Filters{}, facts, id, nil)
	assert.ErrorContains(t, err, "connection refused")

	src = newFixtureSource()
	src.entryErr = errors.New("timeout")
	fetched, err := FetchEntries(context.Background(), src, access, Filters{}, facts, id, nil)
	assert.ErrorContains(t, err, "timeout")
	assert.Empty(t, fetched.Entries)
}
