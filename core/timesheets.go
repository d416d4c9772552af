package core

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"axiapac.com/portal/model"
	"axiapac.com/portal/reports"
	"axiapac.com/portal/utils"
)

var timesheetFields = map[string]string{
	reports.FieldOrganizationID: "organization_id",
	reports.FieldAccountID:      "account_id",
	reports.FieldStatus:         "status",
	reports.FieldWeekStart:      "week_start",
}

// ApplyConstraints adds one WHERE clause per constraint. A constraint that
// cannot be translated fails the query rather than being skipped.
func ApplyConstraints(query *gorm.DB, constraints []reports.Constraint) *gorm.DB {
	for _, c := range constraints {
		dbField, ok := timesheetFields[c.Field]
		if !ok {
			query.AddError(fmt.Errorf("unsupported timesheet field %q", c.Field))
			return query
		}

		value := c.Value
		if t, ok := value.(time.Time); ok {
			value = utils.FormatDate(t)
		}

		switch c.Operator {
		case reports.OpEqual:
			query = query.Where(fmt.Sprintf("%s = ?", dbField), value)
		case reports.OpIn:
			query = query.Where(fmt.Sprintf("%s IN ?", dbField), value)
		case reports.OpGreaterOrEqual:
			query = query.Where(fmt.Sprintf("%s >= ?", dbField), value)
		case reports.OpLessOrEqual:
			query = query.Where(fmt.Sprintf("%s <= ?", dbField), value)
		default:
			query.AddError(fmt.Errorf("unsupported operator %q on %s", c.Operator, c.Field))
			return query
		}
	}
	return query
}

func TimesheetsQuery(db *gorm.DB, constraints []reports.Constraint, limit, offset int) *gorm.DB {
	query := ApplyConstraints(db.Model(&model.Timesheet{}), constraints)
	return query.Order("week_start, id").Limit(limit).Offset(offset)
}

func ListTimesheets(db *gorm.DB, constraints []reports.Constraint, limit, offset int) ([]model.Timesheet, error) {
	var timesheets []model.Timesheet
	err := TimesheetsQuery(db, constraints, limit, offset).Find(&timesheets).Error
	return timesheets, err
}

func TimeEntriesQuery(db *gorm.DB, q reports.EntryQuery, limit, offset int) *gorm.DB {
	query := db.Model(&model.TimeEntry{}).Where("timesheet_id IN ?", q.TimesheetIDs)
	if q.StartDate != nil {
		query = query.Where("work_date >= ?", utils.FormatDate(*q.StartDate))
	}
	if q.EndDate != nil {
		query = query.Where("work_date <= ?", utils.FormatDate(*q.EndDate))
	}
	if q.ProjectID != "" {
		query = query.Where("project_id = ?", q.ProjectID)
	}
	return query.Order("work_date, id").Limit(limit).Offset(offset)
}

func ListTimeEntries(db *gorm.DB, q reports.EntryQuery, limit, offset int) ([]model.TimeEntry, error) {
	var entries []model.TimeEntry
	err := TimeEntriesQuery(db, q, limit, offset).Find(&entries).Error
	return entries, err
}
