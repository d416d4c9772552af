package reports

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"axiapac.com/portal/model"
	"axiapac.com/portal/utils"
)

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleFinance    Role = "finance"
	RoleSupervisor Role = "supervisor"
	RoleManager    Role = "manager"
	RoleStaff      Role = "staff"
)

const (
	managerProjectLimit = 100
	membershipBatchSize = 10
)

// RoleFacts is everything the access rules need to know about the requester.
// It is resolved per request and never cached.
type RoleFacts struct {
	IsAdmin              bool
	IsFinance            bool
	IsSupervisor         bool
	IsManager            bool
	ManagedProjectIDs    []string
	SupervisedAccountIDs []string
}

// Effective returns the highest-precedence role.
func (f RoleFacts) Effective() Role {
	switch {
	case f.IsAdmin:
		return RoleAdmin
	case f.IsFinance:
		return RoleFinance
	case f.IsSupervisor:
		return RoleSupervisor
	case f.IsManager:
		return RoleManager
	}
	return RoleStaff
}

func (f RoleFacts) Privileged() bool {
	return f.IsAdmin || f.IsFinance
}

func (f RoleFacts) Manages(projectID string) bool {
	return slices.Contains(f.ManagedProjectIDs, projectID)
}

func (f RoleFacts) Supervises(accountID string) bool {
	return slices.Contains(f.SupervisedAccountIDs, accountID)
}

// ResolveRole combines the caller's labels with supervisor links and project
// team memberships. Membership lookup failures only demote the affected
// project; account and project listing failures are returned.
func ResolveRole(ctx context.Context, src Source, id Identity, log *zap.Logger) (RoleFacts, error) {
	if log == nil {
		log = zap.NewNop()
	}

	facts := RoleFacts{
		IsAdmin:   slices.Contains(id.Labels, model.LabelAdmin),
		IsFinance: slices.Contains(id.Labels, model.LabelFinance),
	}

	if !facts.Privileged() {
		supervised, isSupervisor, err := resolveSupervision(ctx, src, id)
		if err != nil {
			return RoleFacts{}, err
		}
		facts.IsSupervisor = isSupervisor
		facts.SupervisedAccountIDs = supervised
	}

	managed, err := resolveManagedProjects(ctx, src, id, log)
	if err != nil {
		return RoleFacts{}, err
	}
	facts.ManagedProjectIDs = managed
	facts.IsManager = len(managed) > 0

	return facts, nil
}

func resolveSupervision(ctx context.Context, src Source, id Identity) ([]string, bool, error) {
	account, err := src.FindAccount(ctx, id.OrganizationID, id.AccountID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load requester account: %w", err)
	}
	if account == nil || !account.IsSupervisor {
		return nil, false, nil
	}

	accounts, err := src.ListAccountsBySupervisor(ctx, id.OrganizationID, id.AccountID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load supervised accounts: %w", err)
	}

	supervised := utils.Filter(accounts, func(a model.Account) bool {
		return a.Status == model.AccountActive && !a.IsClient() &&
			a.OrganizationID == id.OrganizationID && a.SupervisorID == id.AccountID
	})
	ids := utils.Map(supervised, func(a model.Account) string { return a.AccountID })

	return ids, true, nil
}

// membershipOutcome is the settled result of one project's team lookup.
type membershipOutcome struct {
	projectID string
	managed   bool
	err       error
}

func resolveManagedProjects(ctx context.Context, src Source, id Identity, log *zap.Logger) ([]string, error) {
	projects, err := src.ListProjects(ctx, id.OrganizationID, managerProjectLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	if len(projects) > managerProjectLimit {
		projects = projects[:managerProjectLimit]
	}

	outcomes := make([]membershipOutcome, 0, len(projects))
	for _, batch := range utils.Chunk(projects, membershipBatchSize) {
		settled := make([]membershipOutcome, len(batch))

		// tasks never return an error so one failed lookup cannot cancel its siblings
		var g errgroup.Group
		for i, project := range batch {
			g.Go(func() error {
				managed, err := managesProject(ctx, src, project, id.AccountID)
				settled[i] = membershipOutcome{projectID: project.ID, managed: managed, err: err}
				return nil
			})
		}
		_ = g.Wait()

		outcomes = append(outcomes, settled...)
	}

	managed := []string{}
	for _, o := range outcomes {
		if o.err != nil {
			log.Warn("team membership lookup failed, project treated as not managed",
				zap.String("projectId", o.projectID),
				zap.String("accountId", id.AccountID),
				zap.Error(o.err))
			continue
		}
		if o.managed {
			managed = append(managed, o.projectID)
		}
	}
	return managed, nil
}

func managesProject(ctx context.Context, src Source, project model.Project, accountID string) (managed bool, err error) {
	if project.ProjectTeamID == "" {
		return false, nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("membership lookup panicked: %v", r)
		}
	}()

	memberships, err := src.ListTeamMemberships(ctx, project.ProjectTeamID)
	if err != nil {
		return false, err
	}
	for _, m := range memberships {
		if m.AccountID == accountID && m.HasRole(model.MembershipRoleManager) {
			return true, nil
		}
	}
	return false, nil
}
