package terminal

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/de-tools/pulse-atlas/pkg/models/store"
	"github.com/de-tools/pulse-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/pulse-atlas/pkg/services/metrics"
	"github.com/de-tools/pulse-atlas/pkg/services/mirror"
	"github.com/de-tools/pulse-atlas/pkg/services/report"
	"github.com/de-tools/pulse-atlas/pkg/store/duckdb"
	"github.com/de-tools/pulse-atlas/pkg/store/duckdb/documents"
	"github.com/de-tools/pulse-atlas/pkg/store/duckdb/syncruns"
	"github.com/de-tools/pulse-atlas/pkg/store/file"
	"github.com/fatih/color"
	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 15, 12, 30, 0, 0, time.UTC)

func init() {
	color.NoColor = true
}

func setupSource(t *testing.T) *file.Source {
	src, err := file.NewSource(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, src.Write(domain.CollectionAttendance, []store.Document{
		{"id": "a1", "date": "2026-10-15", "status": "present", "timeIn": "08:00", "timeOut": "17:00"},
		{"id": "a2", "date": "2026-10-15", "status": "absent"},
		{"id": "a3", "date": "2026-10-14", "status": "late", "timeIn": "09:30"},
		{"id": "a4", "date": "2026-10-14", "status": "present", "timeIn": "08:30"},
	}))
	require.NoError(t, src.Write(domain.CollectionMessages, []store.Document{
		{"id": "m1", "date": "2026-10-15", "status": "delivered", "recipient": "ann"},
	}))
	require.NoError(t, src.Write(domain.CollectionUsers, []store.Document{
		{"id": "u1", "name": "Ann", "status": "active", "role": "admin"},
	}))
	require.NoError(t, src.Write(domain.CollectionSessions, nil))
	return src
}

type fixture struct {
	cli    *CLI
	out    *bytes.Buffer
	loaded int
}

func setupCLI(t *testing.T, withMirror bool) *fixture {
	src := setupSource(t)
	clock := func() time.Time { return fixedNow }
	f := &fixture{out: &bytes.Buffer{}}

	loader := func(ctx context.Context, settingsPath, profile string) (*commands.Env, func() error, error) {
		f.loaded++
		engine := metrics.NewEngine(metrics.WithClock(clock))
		env := &commands.Env{
			Engine:  engine,
			Source:  src,
			Reports: report.NewBuilder(engine, report.WithClock(clock)),
		}
		if !withMirror {
			return env, func() error { return nil }, nil
		}

		db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
		if err != nil {
			return nil, nil, err
		}
		documentStore, err := documents.NewStore(db)
		if err != nil {
			return nil, nil, err
		}
		runStore, err := syncruns.NewStore(db)
		if err != nil {
			return nil, nil, err
		}
		env.Syncer = mirror.NewSyncer("file:test", src, db, documentStore, runStore)
		return env, db.Close, nil
	}

	f.cli = NewCLI(Options{Loader: loader, Output: f.out})
	return f
}

func (f *fixture) run(args ...string) error {
	f.out.Reset()
	f.cli.SetArgs(args)
	return f.cli.Execute()
}

func TestCLI_Metrics(t *testing.T) {
	f := setupCLI(t, false)

	t.Run("text", func(t *testing.T) {
		require.NoError(t, f.run("metrics"))
		assert.Contains(t, f.out.String(), "Metrics computed at 2026-10-15 12:30:00")
		assert.Contains(t, f.out.String(), "Attendance rate: 50.00%")
		assert.Contains(t, f.out.String(), "Active: 1 of 1 (100.00%)")
	})

	t.Run("single domain", func(t *testing.T) {
		require.NoError(t, f.run("metrics", "attendance", "--format", "json"))
		assert.Contains(t, f.out.String(), `"presentCount": 2`)
	})

	t.Run("csv", func(t *testing.T) {
		require.NoError(t, f.run("metrics", "-f", "csv"))
		assert.Contains(t, f.out.String(), "Metric,Value\n")
		assert.Contains(t, f.out.String(), "attendance.totalRecords,4\n")
	})

	t.Run("unknown domain", func(t *testing.T) {
		err := f.run("metrics", "weather")
		assert.ErrorIs(t, err, domain.ErrUnknownDomain)
	})

	t.Run("environment is loaded per execution", func(t *testing.T) {
		assert.Equal(t, 4, f.loaded)
	})
}

func TestCLI_Report(t *testing.T) {
	f := setupCLI(t, false)

	t.Run("templates", func(t *testing.T) {
		require.NoError(t, f.run("report", "templates"))
		assert.Contains(t, f.out.String(), "executive")
		assert.Contains(t, f.out.String(), "comprehensive")
	})

	t.Run("text", func(t *testing.T) {
		require.NoError(t, f.run("report", "generate", "attendance", "--by", "ops"))
		assert.Contains(t, f.out.String(), "Attendance Report")
		assert.Contains(t, f.out.String(), "by ops")
	})

	t.Run("csv to directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, f.run("report", "generate", "user", "-f", "csv", "-o", dir))

		path := filepath.Join(dir, "Report_user_1792067400000.csv")
		assert.Equal(t, path+"\n", f.out.String())
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("Report Type,user\n")))
	})

	t.Run("unknown template", func(t *testing.T) {
		err := f.run("report", "generate", "weather")
		assert.ErrorIs(t, err, domain.ErrUnknownTemplate)
	})

	t.Run("out needs a format", func(t *testing.T) {
		assert.Error(t, f.run("report", "generate", "user", "-f", "text", "-o", t.TempDir()))
	})

	t.Run("schedule", func(t *testing.T) {
		require.NoError(t, f.run("report", "schedule", "executive", "--frequency", "weekly"))
		assert.Contains(t, f.out.String(), `"id": "SCHED-1792067400000"`)
		assert.Contains(t, f.out.String(), `"frequency": "weekly"`)
	})
}

func TestCLI_Sync(t *testing.T) {
	t.Run("without mirror", func(t *testing.T) {
		f := setupCLI(t, false)
		assert.Error(t, f.run("sync"))
	})

	t.Run("with mirror", func(t *testing.T) {
		f := setupCLI(t, true)

		require.NoError(t, f.run("sync"))
		assert.Contains(t, f.out.String(), "sync file:test: finished")
		assert.Contains(t, f.out.String(), "attendance  4 documents")
	})
}
