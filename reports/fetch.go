package reports

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"axiapac.com/portal/model"
)

const (
	pageSize      = 100
	maxTimesheets = 1000
	maxEntries    = 5000
)

// OwnedEntry is a time entry joined with the account that owns its timesheet.
type OwnedEntry struct {
	model.TimeEntry
	AccountID string
}

type Fetched struct {
	Entries        []OwnedEntry
	TimesheetCount int
	// Truncated is set when either fetch ceiling was reached.
	Truncated bool
}

// FetchEntries loads the authorised timesheets and their entries page by page.
// Any page failure aborts the fetch so no partial data reaches a report.
func FetchEntries(ctx context.Context, src Source, access Access, f Filters, facts RoleFacts, id Identity, log *zap.Logger) (Fetched, error) {
	if log == nil {
		log = zap.NewNop()
	}

	timesheets, truncated, err := fetchTimesheets(ctx, src, access.Constraints)
	if err != nil {
		return Fetched{}, err
	}
	if truncated {
		log.Warn("timesheet fetch ceiling reached", zap.Int("limit", maxTimesheets), zap.String("organizationId", id.OrganizationID))
	}

	result := Fetched{TimesheetCount: len(timesheets), Truncated: truncated}
	if len(timesheets) == 0 {
		return result, nil
	}

	owners := make(map[string]string, len(timesheets))
	ids := make([]string, 0, len(timesheets))
	for _, ts := range timesheets {
		owners[ts.ID] = ts.AccountID
		ids = append(ids, ts.ID)
	}

	query := EntryQuery{TimesheetIDs: ids, StartDate: f.StartDate, EndDate: f.EndDate, ProjectID: f.ProjectID}
	entries, truncated, err := fetchTimeEntries(ctx, src, query)
	if err != nil {
		return Fetched{}, err
	}
	if truncated {
		log.Warn("time entry fetch ceiling reached", zap.Int("limit", maxEntries), zap.String("organizationId", id.OrganizationID))
		result.Truncated = true
	}

	// an explicit userId is already enforced at the timesheet level; an
	// unmanaged projectId collapses to the requester's own entries
	scopeToManager := facts.IsManager && !facts.Privileged() && f.UserID == ""
	result.Entries = make([]OwnedEntry, 0, len(entries))
	for _, e := range entries {
		owner, ok := owners[e.TimesheetID]
		if !ok || !query.MatchesFilters(e) {
			continue
		}
		if scopeToManager && owner != id.AccountID && !facts.Manages(e.ProjectID) {
			continue
		}
		result.Entries = append(result.Entries, OwnedEntry{TimeEntry: e, AccountID: owner})
	}

	return result, nil
}

func fetchTimesheets(ctx context.Context, src Source, constraints []Constraint) ([]model.Timesheet, bool, error) {
	var all []model.Timesheet
	offset := 0
	for len(all) < maxTimesheets {
		limit := min(pageSize, maxTimesheets-len(all))
		page, err := src.ListTimesheets(ctx, constraints, limit, offset)
		if err != nil {
			return nil, false, fmt.Errorf("failed to fetch timesheets at offset %d: %w", offset, err)
		}
		for _, ts := range page {
			// rows the store returns outside the constraints are dropped
			if ts.Reportable() && MatchesAll(constraints, ts) {
				all = append(all, ts)
			}
		}
		offset += len(page)
		if len(page) < limit {
			return all, false, nil
		}
	}
	return all, true, nil
}

func fetchTimeEntries(ctx context.Context, src Source, query EntryQuery) ([]model.TimeEntry, bool, error) {
	var all []model.TimeEntry
	offset := 0
	for len(all) < maxEntries {
		limit := min(pageSize, maxEntries-len(all))
		page, err := src.ListTimeEntries(ctx, query, limit, offset)
		if err != nil {
			return nil, false, fmt.Errorf("failed to fetch time entries at offset %d: %w", offset, err)
		}
		all = append(all, page...)
		offset += len(page)
		if len(page) < limit {
			return all, false, nil
		}
	}
	return all, true, nil
}
