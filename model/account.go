package model

import (
	"slices"
	"strings"

	"gorm.io/datatypes"
)

const (
	LabelAdmin   = "admin"
	LabelFinance = "finance"
	LabelStaff   = "staff"
	LabelClient  = "client"

	AccountActive  = "active"
	UserTypeClient = "client"
)

type Account struct {
	ID             string                      `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	AccountID      string                      `gorm:"column:account_id;type:varchar(36);not null;uniqueIndex" json:"accountId"`
	OrganizationID string                      `gorm:"column:organization_id;type:varchar(36);not null;index" json:"organizationId"`
	FirstName      string                      `gorm:"column:first_name;type:varchar(100)" json:"firstName"`
	LastName       string                      `gorm:"column:last_name;type:varchar(100)" json:"lastName"`
	Department     string                      `gorm:"column:department;type:varchar(100)" json:"department"`
	Status         string                      `gorm:"column:status;type:varchar(20);default:active" json:"status"`
	UserType       string                      `gorm:"column:user_type;type:varchar(20)" json:"userType"`
	SupervisorID   string                      `gorm:"column:supervisor_id;type:varchar(36);index" json:"supervisorId"`
	IsSupervisor   bool                        `gorm:"column:is_supervisor;not null;default:false" json:"isSupervisor"`
	IsFinance      bool                        `gorm:"column:is_finance;not null;default:false" json:"isFinance"`
	Labels         datatypes.JSONSlice[string] `gorm:"column:labels" json:"labels"`
}

func (Account) TableName() string {
	return "accounts"
}

func (a Account) HasLabel(label string) bool {
	return slices.Contains(a.Labels, label)
}

func (a Account) IsClient() bool {
	return a.UserType == UserTypeClient
}

// FullName renders "First Last", trimming whichever half is missing.
func (a Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}
