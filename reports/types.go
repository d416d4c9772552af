// Package reports builds role-scoped timesheet reports: it resolves what the
// requester may see, fetches the matching timesheets and entries, and folds
// them into summary, by-project, by-user or trend shapes.
package reports

import (
	"fmt"
	"time"
)

type ReportType string

const (
	TypeSummary   ReportType = "summary"
	TypeByProject ReportType = "by-project"
	TypeByUser    ReportType = "by-user"
	TypeTrends    ReportType = "trends"
)

// ParseReportType maps the request's type parameter. An empty value means summary.
func ParseReportType(s string) (ReportType, error) {
	switch ReportType(s) {
	case "":
		return TypeSummary, nil
	case TypeSummary, TypeByProject, TypeByUser, TypeTrends:
		return ReportType(s), nil
	}
	return "", &RequestError{Err: ErrInvalidReportType, Message: fmt.Sprintf("Invalid report type: %s", s)}
}

type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

// ParseFrequency maps the trends frequency parameter. An empty value means weekly.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(s) {
	case "":
		return Weekly, nil
	case Daily, Weekly, Monthly, Yearly:
		return Frequency(s), nil
	}
	return "", &RequestError{Err: ErrInvalidFrequency, Message: fmt.Sprintf("Invalid frequency: %s", s)}
}

// Identity is the already-authenticated caller. Labels come from the caller and
// are trusted as-is.
type Identity struct {
	AccountID      string
	OrganizationID string
	Labels         []string
}

type Filters struct {
	StartDate *time.Time
	EndDate   *time.Time
	ProjectID string
	UserID    string
	Frequency Frequency
}

type Request struct {
	Identity
	Filters
	Type ReportType
}

func (r Request) Validate() error {
	if r.AccountID == "" || r.OrganizationID == "" {
		return &RequestError{Err: ErrMissingIdentity, Message: "accountId and organizationId are required"}
	}
	if r.Labels == nil {
		return &RequestError{Err: ErrMissingIdentity, Message: "labels are required"}
	}
	if _, err := ParseReportType(string(r.Type)); err != nil {
		return err
	}
	if _, err := ParseFrequency(string(r.Frequency)); err != nil {
		return err
	}
	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return &RequestError{Err: ErrInvalidDateRange, Message: "endDate must not be before startDate"}
	}
	return nil
}
