package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"axiapac.com/portal/core"
	"axiapac.com/portal/reports"
	"axiapac.com/portal/security"
)

type stubGenerator struct {
	got reports.Request
}

func (s *stubGenerator) Generate(_ context.Context, req reports.Request) (*reports.Report, error) {
	s.got = req
	return &reports.Report{
		Success: true,
		Type:    reports.TypeByUser,
		Role:    reports.RoleFinance,
		Data: []reports.UserBreakdown{{
			UserID: "staff-1", UserName: "Stan One",
			TotalHours: "5.0", BillableHours: "3.0", NonBillableHours: "2.0", BillablePercentage: 60,
			EntryCount: 2, ProjectCount: 1,
		}},
	}, nil
}

func (s *stubGenerator) Location() *time.Location { return time.UTC }

func newTestApp(gen *stubGenerator) (*App, *bytes.Buffer, *bool) {
	out := &bytes.Buffer{}
	closed := false
	secret := []byte("0123456789abcdef0123456789abcdef")
	return &App{
		Out: out,
		Reports: func(context.Context) (Generator, func(), error) {
			return gen, func() { closed = true }, nil
		},
		Migrate: func(context.Context) error { return nil },
		Seed:    func(context.Context, core.SeedData) error { return nil },
		Secret:  func() ([]byte, error) { return secret, nil },
	}, out, &closed
}

func execute(app *App, args ...string) error {
	cmd := NewRootCmd(app)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func TestReportCommandJSON(t *testing.T) {
	gen := &stubGenerator{}
	app, out, closed := newTestApp(gen)

	err := execute(app, "report", "--org", "org-1", "--account", "fin-1", "--labels", "finance, staff",
		"--type", "by-user", "--start", "2026-10-01", "--end", "2026-10-14")
	require.NoError(t, err)

	assert.True(t, *closed)
	assert.Equal(t, []string{"finance", "staff"}, gen.got.Labels)
	assert.Equal(t, reports.TypeByUser, gen.got.Type)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), *gen.got.StartDate)

	var body map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &body))
	assert.Equal(t, "finance", body["role"])
	assert.Len(t, body["data"], 1)
}

func TestReportCommandCSV(t *testing.T) {
	app, out, _ := newTestApp(&stubGenerator{})

	err := execute(app, "report", "--org", "org-1", "--account", "fin-1", "--format", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Stan One")
}

func TestReportCommandRejectsBadInput(t *testing.T) {
	app, _, _ := newTestApp(&stubGenerator{})

	assert.Error(t, execute(app, "report", "--account", "fin-1"))
	assert.Error(t, execute(app, "report", "--org", "o", "--account", "a", "--format", "pdf"))
	assert.Error(t, execute(app, "report", "--org", "o", "--account", "a", "--start", "17/10/2026"))
}

func TestTokenCommand(t *testing.T) {
	app, out, _ := newTestApp(&stubGenerator{})

	require.NoError(t, execute(app, "token", "--name", "ops", "--expires", "5m"))

	secret, _ := app.Secret()
	claims, err := security.ParseIdentityToken(strings.TrimSpace(out.String()), secret)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.UniqueName)
	assert.Equal(t, "reportctl", claims.Provider)
}

func TestTokenCommandWithoutSecret(t *testing.T) {
	app, _, _ := newTestApp(&stubGenerator{})
	app.Secret = func() ([]byte, error) { return nil, nil }
	assert.Error(t, execute(app, "token"))

	app.Secret = func() ([]byte, error) {
		_, err := base64.StdEncoding.DecodeString("%%%")
		return nil, err
	}
	assert.Error(t, execute(app, "token"))
}

func TestMigrateCommand(t *testing.T) {
	app, out, _ := newTestApp(&stubGenerator{})
	require.NoError(t, execute(app, "migrate"))
	assert.Equal(t, "migrated\n", out.String())

	app.Migrate = func(context.Context) error { return errors.New("no database") }
	assert.EqualError(t, execute(app, "migrate"), "no database")
}

func TestReportCommandRemote(t *testing.T) {
	app, out, closed := newTestApp(&stubGenerator{})
	secret, _ := app.Secret()

	var query map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if _, err := security.ParseIdentityToken(token, secret); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		query = map[string]string{
			"labels": r.URL.Query().Get("labels"),
			"export": r.URL.Query().Get("export"),
		}
		_, _ = w.Write([]byte("Metric,Value\n"))
	}))
	defer srv.Close()

	err := execute(app, "report", "--api", srv.URL, "--org", "org-1", "--account", "a", "--labels", "admin", "--format", "csv")
	require.NoError(t, err)

	assert.False(t, *closed)
	assert.Equal(t, `["admin"]`, query["labels"])
	assert.Equal(t, "csv", query["export"])
	assert.Equal(t, "Metric,Value\n", out.String())
}

func TestSeedCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "projects.csv"),
		[]byte("id,organization_id,code,name,project_team_id\np1,org-1,PA,Alpha,team-a\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "time_entries.csv"),
		[]byte("id,timesheet_id,work_date,project_id,hours,billable\ne1,ts-1,2026-10-13,p1,2.5,true\n"), 0o644))

	app, out, _ := newTestApp(&stubGenerator{})
	var seeded core.SeedData
	app.Seed = func(_ context.Context, data core.SeedData) error {
		seeded = data
		return nil
	}

	require.NoError(t, execute(app, "seed", "--dir", dir))
	assert.Len(t, seeded.Projects, 1)
	assert.Len(t, seeded.Entries, 1)
	assert.Empty(t, seeded.Accounts)
	assert.Equal(t, "seeded 2 rows\n", out.String())
}

func TestSeedCommandReportsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "timesheets.csv"),
		[]byte("id,organization_id,account_id,week_start,status\nts-1,org-1,a,13/10/2026,approved\n"), 0o644))

	app, _, _ := newTestApp(&stubGenerator{})
	err := execute(app, "seed", "--dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timesheets.csv: row 1")
}
