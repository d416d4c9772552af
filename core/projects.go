package core

import (
	"gorm.io/gorm"

	"axiapac.com/portal/model"
)

// ProjectsQuery orders by code so the manager check always sees the same
// first projects.
func ProjectsQuery(db *gorm.DB, organizationID string, limit int) *gorm.DB {
	query := db.Model(&model.Project{}).Where("organization_id = ?", organizationID).Order("code, id")
	if limit > 0 {
		query = query.Limit(limit)
	}
	return query
}

func ListProjects(db *gorm.DB, organizationID string, limit int) ([]model.Project, error) {
	var projects []model.Project
	err := ProjectsQuery(db, organizationID, limit).Find(&projects).Error
	return projects, err
}

func ListTeamMemberships(db *gorm.DB, teamID string) ([]model.TeamMembership, error) {
	var memberships []model.TeamMembership
	err := db.Where("team_id = ?", teamID).Find(&memberships).Error
	return memberships, err
}
