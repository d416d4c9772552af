package model

import "time"

const (
	TimesheetDraft     = "draft"
	TimesheetSubmitted = "submitted"
	TimesheetApproved  = "approved"
	TimesheetRejected  = "rejected"
)

// ReportableStatuses are the timesheet statuses whose entries may appear in reports.
var ReportableStatuses = []string{TimesheetSubmitted, TimesheetApproved}

type Timesheet struct {
	ID             string    `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	OrganizationID string    `gorm:"column:organization_id;type:varchar(36);not null;index:idx_timesheets_org_week" json:"organizationId"`
	AccountID      string    `gorm:"column:account_id;type:varchar(36);not null;index" json:"accountId"`
	WeekStart      time.Time `gorm:"column:week_start;type:date;not null;index:idx_timesheets_org_week" json:"weekStart"`
	Status         string    `gorm:"column:status;type:varchar(20);not null;default:draft" json:"status"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Timesheet) TableName() string {
	return "timesheets"
}

func (ts Timesheet) Reportable() bool {
	return ts.Status == TimesheetSubmitted || ts.Status == TimesheetApproved
}
