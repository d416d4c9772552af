package reports

import (
	"time"

	"axiapac.com/portal/model"
)

const (
	ReasonUnsupervisedUser  = "You are not authorized to view this user's timesheets"
	ReasonNoSupervisedUsers = "No supervised users found"
)

// Access is the outcome of the access rules: either a set of timesheet
// constraints or a denial carrying a user-visible reason.
type Access struct {
	Constraints []Constraint
	Denied      bool
	Reason      string
}

// BuildAccess translates the requester's role and filters into timesheet
// constraints. The first rule matching the effective role wins.
func BuildAccess(facts RoleFacts, id Identity, f Filters) Access {
	constraints := []Constraint{
		Equal(FieldOrganizationID, id.OrganizationID),
		In(FieldStatus, model.ReportableStatuses),
	}

	if f.StartDate != nil {
		constraints = append(constraints, OnOrAfter(FieldWeekStart, weekStartFloor(*f.StartDate)))
	}
	if f.EndDate != nil {
		constraints = append(constraints, OnOrBefore(FieldWeekStart, *f.EndDate))
	}

	switch facts.Effective() {
	case RoleAdmin, RoleFinance, RoleManager:
		if f.UserID != "" {
			constraints = append(constraints, Equal(FieldAccountID, f.UserID))
		}
	case RoleSupervisor:
		switch {
		case f.UserID != "":
			if !facts.Supervises(f.UserID) {
				return Access{Denied: true, Reason: ReasonUnsupervisedUser}
			}
			constraints = append(constraints, Equal(FieldAccountID, f.UserID))
		case len(facts.SupervisedAccountIDs) == 0:
			return Access{Denied: true, Reason: ReasonNoSupervisedUsers}
		default:
			constraints = append(constraints, In(FieldAccountID, facts.SupervisedAccountIDs))
		}
	default:
		constraints = append(constraints, Equal(FieldAccountID, id.AccountID))
	}

	return Access{Constraints: constraints}
}

// weekStartFloor keeps timesheets whose week starts before the range but
// overlaps its first day.
func weekStartFloor(start time.Time) time.Time {
	return start.AddDate(0, 0, -6)
}
