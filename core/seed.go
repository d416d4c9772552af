package core

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"axiapac.com/portal/model"
	"axiapac.com/portal/utils"
)

const seedBatchSize = 100

// SeedData is a set of rows loaded from CSV fixtures. List columns (labels,
// roles) are pipe separated.
type SeedData struct {
	Accounts    []model.Account
	Projects    []model.Project
	Memberships []model.TeamMembership
	Timesheets  []model.Timesheet
	Entries     []model.TimeEntry
}

func (s SeedData) Count() int {
	return len(s.Accounts) + len(s.Projects) + len(s.Memberships) + len(s.Timesheets) + len(s.Entries)
}

func ParseAccounts(r io.Reader) ([]model.Account, error) {
	return parseRows(r, func(rec map[string]string) (model.Account, error) {
		supervisor, err := parseBool(rec["is_supervisor"])
		if err != nil {
			return model.Account{}, err
		}
		finance, err := parseBool(rec["is_finance"])
		if err != nil {
			return model.Account{}, err
		}
		status := rec["status"]
		if status == "" {
			status = model.AccountActive
		}
		return model.Account{
			ID:             rec["id"],
			AccountID:      rec["account_id"],
			OrganizationID: rec["organization_id"],
			FirstName:      rec["first_name"],
			LastName:       rec["last_name"],
			Department:     rec["department"],
			Status:         status,
			UserType:       rec["user_type"],
			SupervisorID:   rec["supervisor_id"],
			IsSupervisor:   supervisor,
			IsFinance:      finance,
			Labels:         splitPipe(rec["labels"]),
		}, nil
	})
}

func ParseProjects(r io.Reader) ([]model.Project, error) {
	return parseRows(r, func(rec map[string]string) (model.Project, error) {
		return model.Project{
			ID:             rec["id"],
			OrganizationID: rec["organization_id"],
			Code:           rec["code"],
			Name:           rec["name"],
			ProjectTeamID:  rec["project_team_id"],
		}, nil
	})
}

func ParseMemberships(r io.Reader) ([]model.TeamMembership, error) {
	return parseRows(r, func(rec map[string]string) (model.TeamMembership, error) {
		return model.TeamMembership{
			ID:        rec["id"],
			TeamID:    rec["team_id"],
			AccountID: rec["account_id"],
			Roles:     splitPipe(rec["roles"]),
		}, nil
	})
}

func ParseTimesheets(r io.Reader) ([]model.Timesheet, error) {
	return parseRows(r, func(rec map[string]string) (model.Timesheet, error) {
		weekStart, err := utils.ParseDate(rec["week_start"], time.UTC)
		if err != nil {
			return model.Timesheet{}, err
		}
		return model.Timesheet{
			ID:             rec["id"],
			OrganizationID: rec["organization_id"],
			AccountID:      rec["account_id"],
			WeekStart:      weekStart,
			Status:         rec["status"],
		}, nil
	})
}

func ParseEntries(r io.Reader) ([]model.TimeEntry, error) {
	return parseRows(r, func(rec map[string]string) (model.TimeEntry, error) {
		workDate, err := utils.ParseDate(rec["work_date"], time.UTC)
		if err != nil {
			return model.TimeEntry{}, err
		}
		hours, err := strconv.ParseFloat(rec["hours"], 64)
		if err != nil {
			return model.TimeEntry{}, fmt.Errorf("invalid hours %q", rec["hours"])
		}
		billable, err := parseBool(rec["billable"])
		if err != nil {
			return model.TimeEntry{}, err
		}
		return model.TimeEntry{
			ID:          rec["id"],
			TimesheetID: rec["timesheet_id"],
			WorkDate:    workDate,
			ProjectID:   rec["project_id"],
			Hours:       hours,
			Billable:    billable,
			Description: rec["description"],
		}, nil
	})
}

// Seed upserts the fixtures in one transaction.
func (dm *DatabaseManager) Seed(ctx context.Context, data SeedData) error {
	return dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			steps := []struct {
				table string
				rows  any
				n     int
			}{
				{"accounts", &data.Accounts, len(data.Accounts)},
				{"projects", &data.Projects, len(data.Projects)},
				{"team_memberships", &data.Memberships, len(data.Memberships)},
				{"timesheets", &data.Timesheets, len(data.Timesheets)},
				{"time_entries", &data.Entries, len(data.Entries)},
			}
			for _, step := range steps {
				if step.n == 0 {
					continue
				}
				upsert := tx.Clauses(clause.OnConflict{UpdateAll: true})
				if err := upsert.CreateInBatches(step.rows, seedBatchSize).Error; err != nil {
					return fmt.Errorf("failed to seed %s: %w", step.table, err)
				}
			}
			return nil
		})
	})
}

func parseRows[T any](r io.Reader, build func(map[string]string) (T, error)) ([]T, error) {
	records, err := utils.ParseCSVRecords(r)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(records))
	for i, rec := range records {
		row, err := build(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, row)
	}
	return out, nil
}

func parseBool(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid boolean %q", v)
	}
	return b, nil
}

func splitPipe(v string) []string {
	out := []string{}
	for _, part := range strings.Split(v, "|") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
