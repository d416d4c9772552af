package model

import "fmt"

type Project struct {
	ID             string `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	OrganizationID string `gorm:"column:organization_id;type:varchar(36);not null;index" json:"organizationId"`
	Code           string `gorm:"column:code;type:varchar(50)" json:"code"`
	Name           string `gorm:"column:name;type:varchar(255)" json:"name"`
	ProjectTeamID  string `gorm:"column:project_team_id;type:varchar(36)" json:"projectTeamId"`
}

func (Project) TableName() string {
	return "projects"
}

// DisplayName renders "CODE - Name".
func (p Project) DisplayName() string {
	return fmt.Sprintf("%s - %s", p.Code, p.Name)
}
