package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"axiapac.com/portal/client"
	"axiapac.com/portal/core"
	"axiapac.com/portal/reports"
	"axiapac.com/portal/security"
	"axiapac.com/portal/utils"
)

type Generator interface {
	Generate(ctx context.Context, req reports.Request) (*reports.Report, error)
	Location() *time.Location
}

// App holds what the commands need. The funcs are resolved lazily so that
// token minting works without a database.
type App struct {
	Out     io.Writer
	Reports func(ctx context.Context) (Generator, func(), error)
	Migrate func(ctx context.Context) error
	Seed    func(ctx context.Context, data core.SeedData) error
	Secret  func() ([]byte, error)
}

func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "reportctl",
		Short:         "Timesheet report operator tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newReportCmd(app),
		newTokenCmd(app),
		newMigrateCmd(app),
		newSeedCmd(app),
	)
	return root
}

type reportFlags struct {
	organizationID string
	accountID      string
	labels         string
	reportType     string
	startDate      string
	endDate        string
	projectID      string
	userID         string
	frequency      string
	format         string
	api            string
}

func (f reportFlags) params() client.ReportParams {
	p := client.ReportParams{
		AccountID:      f.accountID,
		OrganizationID: f.organizationID,
		Labels:         splitLabels(f.labels),
		Type:           f.reportType,
		StartDate:      f.startDate,
		EndDate:        f.endDate,
		ProjectID:      f.projectID,
		UserID:         f.userID,
		Frequency:      f.frequency,
	}
	if f.format == "csv" {
		p.Export = "csv"
	}
	return p
}

func splitLabels(v string) []string {
	labels := []string{}
	for _, l := range strings.Split(v, ",") {
		if l = strings.TrimSpace(l); l != "" {
			labels = append(labels, l)
		}
	}
	return labels
}

func (f reportFlags) request(loc *time.Location) (reports.Request, error) {
	req := reports.Request{
		Identity: reports.Identity{AccountID: f.accountID, OrganizationID: f.organizationID, Labels: splitLabels(f.labels)},
		Filters: reports.Filters{
			ProjectID: f.projectID,
			UserID:    f.userID,
			Frequency: reports.Frequency(f.frequency),
		},
		Type: reports.ReportType(f.reportType),
	}
	if f.startDate != "" {
		start, err := utils.ParseDate(f.startDate, loc)
		if err != nil {
			return reports.Request{}, fmt.Errorf("invalid --start: %w", err)
		}
		req.StartDate = &start
	}
	if f.endDate != "" {
		end, err := utils.ParseDate(f.endDate, loc)
		if err != nil {
			return reports.Request{}, fmt.Errorf("invalid --end: %w", err)
		}
		req.EndDate = &end
	}
	return req, nil
}

func newReportCmd(app *App) *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a timesheet report as a given account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), app, flags)
		},
	}

	cmd.Flags().StringVar(&flags.organizationID, "org", "", "Organization id")
	cmd.Flags().StringVar(&flags.accountID, "account", "", "Requesting account id")
	cmd.Flags().StringVar(&flags.labels, "labels", "", "Comma separated requester labels")
	cmd.Flags().StringVar(&flags.reportType, "type", "summary", "summary, by-project, by-user or trends")
	cmd.Flags().StringVar(&flags.startDate, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.endDate, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.projectID, "project", "", "Project id filter")
	cmd.Flags().StringVar(&flags.userID, "user", "", "User id filter")
	cmd.Flags().StringVar(&flags.frequency, "frequency", "", "Trend frequency")
	cmd.Flags().StringVar(&flags.format, "format", "json", "json or csv")
	cmd.Flags().StringVar(&flags.api, "api", "", "Base URL of a running report API; queries the database directly when empty")
	_ = cmd.MarkFlagRequired("org")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}

func runReport(ctx context.Context, app *App, flags reportFlags) error {
	if flags.format != "json" && flags.format != "csv" {
		return fmt.Errorf("unsupported format %q", flags.format)
	}
	if flags.api != "" {
		return runRemoteReport(ctx, app, flags)
	}

	gen, closeFn, err := app.Reports(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	req, err := flags.request(gen.Location())
	if err != nil {
		return err
	}
	report, err := gen.Generate(ctx, req)
	if err != nil {
		return err
	}

	if flags.format == "csv" {
		_, err = io.WriteString(app.Out, reports.RenderCSV(report.Data, report.Type))
		return err
	}
	enc := json.NewEncoder(app.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// runRemoteReport asks a running API for the report, signing a short-lived
// token when a secret is configured.
func runRemoteReport(ctx context.Context, app *App, flags reportFlags) error {
	secret, err := app.Secret()
	if err != nil {
		return err
	}
	var token string
	if secret != nil {
		token, err = security.CreateIdentityToken(&security.ServiceIdentity{
			Subject:  "reportctl",
			Name:     "reportctl",
			Provider: "reportctl",
		}, secret, 5*time.Minute)
		if err != nil {
			return err
		}
	}

	res, err := client.NewClient(flags.api, token).Reports.Get(ctx, flags.params())
	if err != nil {
		return err
	}
	_, err = app.Out.Write(res.Data)
	return err
}

func newTokenCmd(app *App) *cobra.Command {
	var (
		identity  security.ServiceIdentity
		expiresIn time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the report API",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := app.Secret()
			if err != nil {
				return err
			}
			token, err := security.CreateIdentityToken(&identity, secret, expiresIn)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(app.Out, token)
			return err
		},
	}

	cmd.Flags().StringVar(&identity.Subject, "subject", "portal", "Token subject")
	cmd.Flags().StringVar(&identity.Name, "name", "portal", "Caller name")
	cmd.Flags().StringVar(&identity.Provider, "provider", "reportctl", "Identity provider")
	cmd.Flags().DurationVar(&expiresIn, "expires", time.Hour, "Token lifetime")
	return cmd
}

func newMigrateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the report tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Migrate(cmd.Context()); err != nil {
				return err
			}
			_, err := fmt.Fprintln(app.Out, "migrated")
			return err
		},
	}
}

var seedFiles = []string{"accounts.csv", "projects.csv", "team_memberships.csv", "timesheets.csv", "time_entries.csv"}

func newSeedCmd(app *App) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load CSV fixtures into the report tables",
		Long:  "Reads " + strings.Join(seedFiles, ", ") + " from --dir. Missing files are skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := loadSeed(dir)
			if err != nil {
				return err
			}
			if err := app.Seed(cmd.Context(), data); err != nil {
				return err
			}
			_, err = fmt.Fprintf(app.Out, "seeded %d rows\n", data.Count())
			return err
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "Directory holding the CSV fixtures")
	return cmd
}

func loadSeed(dir string) (core.SeedData, error) {
	var data core.SeedData
	for _, name := range seedFiles {
		f, err := os.Open(filepath.Join(dir, name))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return core.SeedData{}, err
		}

		switch name {
		case "accounts.csv":
			data.Accounts, err = core.ParseAccounts(f)
		case "projects.csv":
			data.Projects, err = core.ParseProjects(f)
		case "team_memberships.csv":
			data.Memberships, err = core.ParseMemberships(f)
		case "timesheets.csv":
			data.Timesheets, err = core.ParseTimesheets(f)
		case "time_entries.csv":
			data.Entries, err = core.ParseEntries(f)
		}
		f.Close()
		if err != nil {
			return core.SeedData{}, fmt.Errorf("%s: %w", name, err)
		}
	}
	return data, nil
}
