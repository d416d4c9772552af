package client

import (
	"context"
	"encoding/json"
	"net/url"
)

const reportsPath = "/api/timesheets/reports"

// ReportParams mirrors the report endpoint's query string.
type ReportParams struct {
	AccountID      string
	OrganizationID string
	Labels         []string
	Type           string
	StartDate      string
	EndDate        string
	ProjectID      string
	UserID         string
	Frequency      string
	Export         string
}

func (p ReportParams) Query() url.Values {
	labels := p.Labels
	if labels == nil {
		labels = []string{}
	}
	encoded, _ := json.Marshal(labels)

	q := url.Values{}
	q.Set("accountId", p.AccountID)
	q.Set("organizationId", p.OrganizationID)
	q.Set("labels", string(encoded))
	for key, value := range map[string]string{
		"type":      p.Type,
		"startDate": p.StartDate,
		"endDate":   p.EndDate,
		"projectId": p.ProjectID,
		"userId":    p.UserID,
		"frequency": p.Frequency,
		"export":    p.Export,
	} {
		if value != "" {
			q.Set(key, value)
		}
	}
	return q
}

type ReportsEndpoint struct {
	transport *Transport
}

// Get returns the raw report body: JSON, or the export file when Export is set.
func (e *ReportsEndpoint) Get(ctx context.Context, params ReportParams) (*Response, error) {
	return e.transport.Get(ctx, reportsPath, params.Query())
}
