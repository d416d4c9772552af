package reports

import (
	"axiapac.com/portal/model"
	"axiapac.com/portal/utils"
)

// Directory resolves ids to display names, falling back to the raw id for
// records that no longer exist.
type Directory struct {
	projects map[string]model.Project
	accounts map[string]model.Account
}

func NewDirectory(projects []model.Project, accounts []model.Account) Directory {
	return Directory{
		projects: utils.IndexBy(projects, func(p model.Project) string { return p.ID }),
		accounts: utils.IndexBy(accounts, func(a model.Account) string { return a.AccountID }),
	}
}

func (d Directory) ProjectName(id string) string {
	if p, ok := d.projects[id]; ok {
		return p.DisplayName()
	}
	return id
}

func (d Directory) UserName(id string) string {
	if a, ok := d.accounts[id]; ok {
		if name := a.FullName(); name != "" {
			return name
		}
	}
	return id
}
