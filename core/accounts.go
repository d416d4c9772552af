package core

import (
	"errors"

	"gorm.io/gorm"

	"axiapac.com/portal/model"
)

func FindAccount(db *gorm.DB, organizationID, accountID string) (*model.Account, error) {
	var account model.Account
	result := db.Where("organization_id = ? AND account_id = ?", organizationID, accountID).Take(&account)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil // not found
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &account, nil
}

func ListAccountsBySupervisor(db *gorm.DB, organizationID, supervisorID string) ([]model.Account, error) {
	var accounts []model.Account
	err := db.Where("organization_id = ? AND supervisor_id = ?", organizationID, supervisorID).
		Order("last_name, first_name, id").
		Find(&accounts).Error
	return accounts, err
}

func ListAccounts(db *gorm.DB, organizationID string) ([]model.Account, error) {
	var accounts []model.Account
	err := db.Where("organization_id = ?", organizationID).Order("id").Find(&accounts).Error
	return accounts, err
}
