package core

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"axiapac.com/portal/model"
)

// Migrate creates or updates the reporting tables.
func (dm *DatabaseManager) Migrate(ctx context.Context) error {
	return dm.Exec(ctx, func(db *gorm.DB) error {
		if err := db.AutoMigrate(
			&model.Account{},
			&model.Project{},
			&model.TeamMembership{},
			&model.Timesheet{},
			&model.TimeEntry{},
		); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
		return nil
	})
}
