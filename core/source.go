package core

import (
	"context"

	"gorm.io/gorm"

	"axiapac.com/portal/model"
	"axiapac.com/portal/reports"
)

// Source serves report data from the database.
type Source struct {
	dm *DatabaseManager
}

var _ reports.Source = (*Source)(nil)

func NewSource(dm *DatabaseManager) *Source {
	return &Source{dm: dm}
}

func (s *Source) FindAccount(ctx context.Context, organizationID, accountID string) (*model.Account, error) {
	var account *model.Account
	err := s.dm.Exec(ctx, func(db *gorm.DB) (err error) {
		account, err = FindAccount(db, organizationID, accountID)
		return err
	})
	return account, err
}

func (s *Source) ListAccountsBySupervisor(ctx context.Context, organizationID, supervisorID string) ([]model.Account, error) {
	var accounts []model.Account
	err := s.dm.Exec(ctx, func(db *gorm.DB) (err error) {
		accounts, err = ListAccountsBySupervisor(db, organizationID, supervisorID)
		return err
	})
	return accounts, err
}

func (s *Source) ListAccounts(ctx context.Context, organizationID string) ([]model.Account, error) {
	var accounts []model.Account
	err := s.dm.Exec(ctx, func(db *gorm.DB) (err error) {
		accounts, err = ListAccounts(db, organizationID)
		return err
	})
	return accounts, err
}

func (s *Source) ListProjects(ctx context.Context, organizationID string, limit int) ([]model.Project, error) {
	var projects []model.Project
	err := s.dm.Exec(ctx, func(db *gorm.DB) (err error) {
		projects, err = ListProjects(db, organizationID, limit)
		return err
	})
	return projects, err
}

func (s *Source) ListTeamMemberships(ctx context.Context, teamID string) ([]model.TeamMembership, error) {
	var memberships []model.TeamMembership
	err := s.dm.Exec(ctx, func(db *gorm.DB) (err error) {
		memberships, err = ListTeamMemberships(db, teamID)
		return err
	})
	return memberships, err
}

func (s *Source) ListTimesheets(ctx context.Context, constraints []reports.Constraint, limit, offset int) ([]model.Timesheet, error) {
	var timesheets []model.Timesheet
	err := s.dm.Exec(ctx, func(db *gorm.DB) (err error) {
		timesheets, err = ListTimesheets(db, constraints, limit, offset)
		return err
	})
	return timesheets, err
}

func (s *Source) ListTimeEntries(ctx context.Context, q reports.EntryQuery, limit, offset int) ([]model.TimeEntry, error) {
	var entries []model.TimeEntry
	err := s.dm.Exec(ctx, func(db *gorm.DB) (err error) {
		entries, err = ListTimeEntries(db, q, limit, offset)
		return err
	})
	return entries, err
}
