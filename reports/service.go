package reports

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"axiapac.com/portal/utils"
)

// EchoedFilters repeats the effective filters back to the caller.
type EchoedFilters struct {
	StartDate  string    `json:"startDate,omitempty"`
	EndDate    string    `json:"endDate,omitempty"`
	ProjectID  string    `json:"projectId,omitempty"`
	UserID     string    `json:"userId,omitempty"`
	Frequency  Frequency `json:"frequency,omitempty"`
	RangeStart string    `json:"rangeStart,omitempty"`
	RangeEnd   string    `json:"rangeEnd,omitempty"`
}

type Report struct {
	Success              bool          `json:"success"`
	Type                 ReportType    `json:"type"`
	Role                 Role          `json:"role"`
	IsAdmin              bool          `json:"isAdmin"`
	IsFinance            bool          `json:"isFinance"`
	IsSupervisor         bool          `json:"isSupervisor"`
	IsManager            bool          `json:"isManager"`
	SupervisedUsersCount int           `json:"supervisedUsersCount"`
	ManagedProjectsCount int           `json:"managedProjectsCount"`
	ManagedProjects      []string      `json:"managedProjects"`
	Filters              EchoedFilters `json:"filters"`
	Data                 any           `json:"data"`
	Error                string        `json:"error,omitempty"`
	GeneratedAt          time.Time     `json:"-"`
}

type Service struct {
	src      Source
	log      *zap.Logger
	now      func() time.Time
	location *time.Location
}

type Option func(*Service)

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the time zone that "today", "this week" and period
// boundaries are computed in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

func NewService(src Source, opts ...Option) *Service {
	s := &Service{src: src, log: zap.NewNop(), now: time.Now, location: time.UTC}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Location() *time.Location {
	return s.location
}

// Generate runs one report request end to end. Client mistakes are returned
// as *RequestError before the store is touched; store failures abort the
// whole report.
func (s *Service) Generate(ctx context.Context, req Request) (*Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.Type, _ = ParseReportType(string(req.Type))
	now := s.now().In(s.location)

	filters := req.Filters
	echo := EchoedFilters{ProjectID: filters.ProjectID, UserID: filters.UserID}
	var trendRange TrendRange
	if req.Type == TypeTrends {
		filters.Frequency, _ = ParseFrequency(string(filters.Frequency))
		trendRange = ResolveTrendRange(filters.Frequency, filters.StartDate, filters.EndDate, now)
		// fetch the whole snapped range so edge periods are complete
		filters.StartDate, filters.EndDate = &trendRange.Start, &trendRange.End
		echo.Frequency = filters.Frequency
		echo.RangeStart, echo.RangeEnd = utils.FormatDate(trendRange.Start), utils.FormatDate(trendRange.End)
	}
	if req.StartDate != nil {
		echo.StartDate = utils.FormatDate(*req.StartDate)
	}
	if req.EndDate != nil {
		echo.EndDate = utils.FormatDate(*req.EndDate)
	}

	facts, err := ResolveRole(ctx, s.src, req.Identity, s.log)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Success:              true,
		Type:                 req.Type,
		Role:                 facts.Effective(),
		IsAdmin:              facts.IsAdmin,
		IsFinance:            facts.IsFinance,
		IsSupervisor:         facts.IsSupervisor,
		IsManager:            facts.IsManager,
		SupervisedUsersCount: len(facts.SupervisedAccountIDs),
		ManagedProjectsCount: len(facts.ManagedProjectIDs),
		ManagedProjects:      append([]string{}, facts.ManagedProjectIDs...),
		Filters:              echo,
		GeneratedAt:          now,
	}

	access := BuildAccess(facts, req.Identity, filters)
	if access.Denied {
		s.log.Info("report access denied",
			zap.String("accountId", req.AccountID),
			zap.String("role", string(report.Role)),
			zap.String("reason", access.Reason))
		report.Data = emptyData(req.Type, filters.Frequency, trendRange)
		report.Error = access.Reason
		return report, nil
	}

	fetched, err := FetchEntries(ctx, s.src, access, filters, facts, req.Identity, s.log)
	if err != nil {
		return nil, err
	}
	if fetched.TimesheetCount == 0 {
		report.Data = emptyData(req.Type, filters.Frequency, trendRange)
		return report, nil
	}

	switch req.Type {
	case TypeTrends:
		points, dropped := BuildTrends(fetched.Entries, filters.Frequency, trendRange)
		if dropped > 0 {
			s.log.Warn("entries fell outside every trend period", zap.Int("dropped", dropped))
		}
		report.Data = points
	default:
		dir, err := s.directory(ctx, req.OrganizationID)
		if err != nil {
			return nil, err
		}
		switch req.Type {
		case TypeByProject:
			report.Data = BuildByProject(fetched.Entries, dir)
		case TypeByUser:
			report.Data = BuildByUser(fetched.Entries, dir)
		default:
			report.Data = BuildSummary(fetched.Entries, dir, now)
		}
	}

	s.log.Debug("report generated",
		zap.String("type", string(req.Type)),
		zap.String("role", string(report.Role)),
		zap.Int("timesheets", fetched.TimesheetCount),
		zap.Int("entries", len(fetched.Entries)),
		zap.Bool("truncated", fetched.Truncated))

	return report, nil
}

func (s *Service) directory(ctx context.Context, organizationID string) (Directory, error) {
	projects, err := s.src.ListProjects(ctx, organizationID, 0)
	if err != nil {
		return Directory{}, fmt.Errorf("failed to load projects: %w", err)
	}
	accounts, err := s.src.ListAccounts(ctx, organizationID)
	if err != nil {
		return Directory{}, fmt.Errorf("failed to load accounts: %w", err)
	}
	return NewDirectory(projects, accounts), nil
}

func emptyData(t ReportType, freq Frequency, rng TrendRange) any {
	switch t {
	case TypeByProject:
		return []ProjectBreakdown{}
	case TypeByUser:
		return []UserBreakdown{}
	case TypeTrends:
		points, _ := BuildTrends(nil, freq, rng)
		return points
	}
	return emptySummary()
}
