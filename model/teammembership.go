package model

import (
	"slices"

	"gorm.io/datatypes"
)

const MembershipRoleManager = "manager"

// TeamMembership mirrors the team service's membership records that back
// project teams.
type TeamMembership struct {
	ID        string                      `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	TeamID    string                      `gorm:"column:team_id;type:varchar(36);not null;index" json:"teamId"`
	AccountID string                      `gorm:"column:account_id;type:varchar(36);not null;index" json:"accountId"`
	Roles     datatypes.JSONSlice[string] `gorm:"column:roles" json:"roles"`
}

func (TeamMembership) TableName() string {
	return "team_memberships"
}

func (m TeamMembership) HasRole(role string) bool {
	return slices.Contains(m.Roles, role)
}
