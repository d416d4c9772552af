package helper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"axiapac.com/portal/infrastructure/communication"
	"axiapac.com/portal/infrastructure/filesystem"
	"axiapac.com/portal/reports"
	"axiapac.com/portal/utils"
)

const defaultDays = 7

type DigestEvent struct {
	OrganizationID string   `json:"organizationId"`
	AccountID      string   `json:"accountId"`
	Labels         []string `json:"labels"`
	Type           string   `json:"type"`
	Frequency      string   `json:"frequency"`
	Days           int      `json:"days"`
	Recipients     []string `json:"recipients"`
}

// Request covers the last Days calendar days up to and including today.
func (e DigestEvent) Request(now time.Time, loc *time.Location) reports.Request {
	days := e.Days
	if days <= 0 {
		days = defaultDays
	}
	end := utils.DateIn(now, loc)
	start := end.AddDate(0, 0, -(days - 1))

	labels := e.Labels
	if labels == nil {
		labels = []string{}
	}
	return reports.Request{
		Identity: reports.Identity{
			AccountID:      e.AccountID,
			OrganizationID: e.OrganizationID,
			Labels:         labels,
		},
		Filters: reports.Filters{
			StartDate: &start,
			EndDate:   &end,
			Frequency: reports.Frequency(e.Frequency),
		},
		Type: reports.ReportType(e.Type),
	}
}

type DigestResult struct {
	Type       reports.ReportType `json:"type"`
	Role       reports.Role       `json:"role"`
	Key        string             `json:"key,omitempty"`
	Denied     string             `json:"denied,omitempty"`
	MessageID  string             `json:"messageId,omitempty"`
	Recipients int                `json:"recipients"`
}

type Generator interface {
	Generate(ctx context.Context, req reports.Request) (*reports.Report, error)
	Location() *time.Location
}

type Archiver interface {
	WriteFile(ctx context.Context, key, contentType string, body []byte) error
}

type Notifier interface {
	Info(message string) error
	Error(message string) error
}

type Sender interface {
	Send(ctx context.Context, info *communication.EmailInfo) (string, error)
}

type Digest struct {
	Reports  Generator
	Archive  Archiver
	Notifier Notifier
	Mailer   Sender
	From     string
	Now      func() time.Time
	Log      *zap.Logger
}

// Run generates one report, archives it as CSV and announces it. Steps whose
// dependency is nil are skipped.
func (d *Digest) Run(ctx context.Context, event DigestEvent) (*DigestResult, error) {
	result, err := d.run(ctx, event)
	if err != nil {
		d.notifyError(fmt.Sprintf("Report digest for %s failed: %v", event.OrganizationID, err))
		return nil, err
	}
	return result, nil
}

func (d *Digest) run(ctx context.Context, event DigestEvent) (*DigestResult, error) {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	req := event.Request(now(), d.Reports.Location())

	report, err := d.Reports.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}

	result := &DigestResult{Type: report.Type, Role: report.Role}
	if report.Error != "" {
		result.Denied = report.Error
		d.logger().Info("digest denied",
			zap.String("organizationId", event.OrganizationID),
			zap.String("accountId", event.AccountID),
			zap.String("reason", report.Error))
		return result, nil
	}

	body := []byte(reports.RenderCSV(report.Data, report.Type))
	filename := reports.ExportCSV.Filename(report.Type, report.GeneratedAt)

	if d.Archive != nil {
		key := filesystem.ReportKey(event.OrganizationID, string(report.Type), "csv", report.GeneratedAt)
		if err := d.Archive.WriteFile(ctx, key, reports.ExportCSV.ContentType(), body); err != nil {
			return nil, err
		}
		result.Key = key
	}

	if d.Mailer != nil && len(event.Recipients) > 0 {
		messageID, err := d.Mailer.Send(ctx, &communication.EmailInfo{
			From:    d.From,
			To:      event.Recipients,
			Subject: fmt.Sprintf("Timesheet %s report %s", report.Type, utils.FormatDate(report.GeneratedAt)),
			Text:    digestText(req, report),
			Attachments: []communication.Attachment{{
				Filename:    filename,
				ContentType: reports.ExportCSV.ContentType(),
				Content:     body,
			}},
		})
		if err != nil {
			return nil, err
		}
		result.MessageID = messageID
		result.Recipients = len(event.Recipients)
	}

	if d.Notifier != nil {
		msg := fmt.Sprintf("Timesheet %s report for %s is ready", report.Type, event.OrganizationID)
		if result.Key != "" {
			msg += ": " + result.Key
		}
		if err := d.Notifier.Info(msg); err != nil {
			d.logger().Warn("failed to post digest notification", zap.Error(err))
		}
	}
	return result, nil
}

func (d *Digest) notifyError(message string) {
	d.logger().Error(message)
	if d.Notifier == nil {
		return
	}
	if err := d.Notifier.Error(message); err != nil {
		d.logger().Warn("failed to post digest error", zap.Error(err))
	}
}

func (d *Digest) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

func digestText(req reports.Request, report *reports.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Timesheet %s report\n", report.Type)
	fmt.Fprintf(&b, "Period: %s to %s\n", utils.FormatDate(*req.StartDate), utils.FormatDate(*req.EndDate))
	if s, ok := report.Data.(reports.Summary); ok {
		fmt.Fprintf(&b, "Total hours: %s\nBillable hours: %s\n", s.TotalHours, s.BillableHours)
	}
	b.WriteString("The full report is attached.\n")
	return b.String()
}
