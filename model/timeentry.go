package model

import "time"

// TimeEntry is one line of logged time. The owning account is not stored here;
// it is the AccountID of the parent Timesheet.
type TimeEntry struct {
	ID          string    `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	TimesheetID string    `gorm:"column:timesheet_id;type:varchar(36);not null;index" json:"timesheetId"`
	WorkDate    time.Time `gorm:"column:work_date;type:date;not null;index" json:"workDate"`
	ProjectID   string    `gorm:"column:project_id;type:varchar(36);index" json:"projectId"`
	Hours       float64   `gorm:"column:hours;type:decimal(10,2);not null;default:0" json:"hours"`
	Billable    bool      `gorm:"column:billable;type:bool;not null;default:false" json:"billable"`
	Description string    `gorm:"column:description;type:text" json:"description"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (TimeEntry) TableName() string {
	return "time_entries"
}
