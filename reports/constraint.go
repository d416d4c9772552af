package reports

import (
	"slices"
	"time"

	"axiapac.com/portal/model"
	"axiapac.com/portal/utils"
)

type Operator string

const (
	OpEqual          Operator = "eq"
	OpIn             Operator = "in"
	OpGreaterOrEqual Operator = "gte"
	OpLessOrEqual    Operator = "lte"
)

// Timesheet fields a constraint may target.
const (
	FieldOrganizationID = "organizationId"
	FieldAccountID      = "accountId"
	FieldStatus         = "status"
	FieldWeekStart      = "weekStart"
)

// Constraint is one condition on the timesheet collection. Value is a string
// for eq, a []string for in and a time.Time for the range operators.
type Constraint struct {
	Field    string
	Operator Operator
	Value    any
}

func Equal(field, value string) Constraint {
	return Constraint{Field: field, Operator: OpEqual, Value: value}
}

func In(field string, values []string) Constraint {
	return Constraint{Field: field, Operator: OpIn, Value: slices.Clone(values)}
}

func OnOrAfter(field string, t time.Time) Constraint {
	return Constraint{Field: field, Operator: OpGreaterOrEqual, Value: t}
}

func OnOrBefore(field string, t time.Time) Constraint {
	return Constraint{Field: field, Operator: OpLessOrEqual, Value: t}
}

// Matches evaluates the constraint against a timesheet. Unknown fields or
// mismatched value types never match.
func (c Constraint) Matches(ts model.Timesheet) bool {
	switch c.Field {
	case FieldOrganizationID:
		return c.matchString(ts.OrganizationID)
	case FieldAccountID:
		return c.matchString(ts.AccountID)
	case FieldStatus:
		return c.matchString(ts.Status)
	case FieldWeekStart:
		bound, ok := c.Value.(time.Time)
		if !ok {
			return false
		}
		// compare calendar dates; week_start is a DATE column
		day, limit := utils.FormatDate(ts.WeekStart), utils.FormatDate(bound)
		switch c.Operator {
		case OpGreaterOrEqual:
			return day >= limit
		case OpLessOrEqual:
			return day <= limit
		}
	}
	return false
}

func (c Constraint) matchString(v string) bool {
	switch c.Operator {
	case OpEqual:
		s, ok := c.Value.(string)
		return ok && s == v
	case OpIn:
		values, ok := c.Value.([]string)
		return ok && slices.Contains(values, v)
	}
	return false
}

func MatchesAll(constraints []Constraint, ts model.Timesheet) bool {
	for _, c := range constraints {
		if !c.Matches(ts) {
			return false
		}
	}
	return true
}
