package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/de-tools/pulse-atlas/pkg/models/store"
	"github.com/de-tools/pulse-atlas/pkg/services/config"
	"github.com/de-tools/pulse-atlas/pkg/store/file"
	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupData(t *testing.T) string {
	dir := t.TempDir()
	src, err := file.NewSource(dir)
	require.NoError(t, err)
	require.NoError(t, src.Write(domain.CollectionAttendance, []store.Document{
		{"id": "a1", "date": "2026-10-15", "status": "present"},
	}))
	require.NoError(t, src.Write(domain.CollectionMessages, nil))
	require.NoError(t, src.Write(domain.CollectionUsers, []store.Document{{"id": "u1", "status": "active"}}))
	require.NoError(t, src.Write(domain.CollectionSessions, nil))
	return dir
}

func settingsFor(t *testing.T, dataDir string) *config.Settings {
	settings, err := config.LoadSettings("")
	require.NoError(t, err)
	settings.Source.Path = dataDir
	settings.Timezone = "UTC"
	settings.Export.Dir = filepath.Join(t.TempDir(), "reports")
	return settings
}

func TestOpen_FileSource(t *testing.T) {
	ctx := context.Background()
	settings := settingsFor(t, setupData(t))

	app, err := Open(ctx, settings, filepath.Join(t.TempDir(), "missing.cfg"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, app.Close()) })

	assert.Nil(t, app.Syncer)
	assert.Equal(t, domain.SourceKindFile, app.Profile.Kind)

	snapshot, err := app.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.Attendance.TotalRecords)

	sink, err := app.Sink(ctx)
	require.NoError(t, err)
	assert.NotNil(t, sink)

	_, err = app.RemoteSink(ctx)
	assert.Error(t, err)
}

func TestOpen_Mirror(t *testing.T) {
	ctx := context.Background()
	settings := settingsFor(t, setupData(t))
	settings.Mirror.Path = ":memory:"

	app, err := Open(ctx, settings, "")
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, app.Close()) })
	require.NotNil(t, app.Syncer)

	snapshot, err := app.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.Attendance.TotalRecords, "engine reads the empty mirror before the first sync")

	run, err := app.Syncer.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.SyncStatusFinished, run.Status)

	snapshot, err = app.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.Attendance.TotalRecords)
	assert.Equal(t, 1, snapshot.Users.ActiveUsers)
}

func TestOpen_Profiles(t *testing.T) {
	ctx := context.Background()
	dataDir := setupData(t)

	profilesPath := filepath.Join(t.TempDir(), "pulsecfg")
	require.NoError(t, os.WriteFile(profilesPath, []byte("[local]\nkind = file\npath = "+dataDir+"\n"), 0o644))

	t.Run("named profile", func(t *testing.T) {
		settings := settingsFor(t, "")
		settings.Source.Profile = "local"

		app, err := Open(ctx, settings, profilesPath)
		require.NoError(t, err)
		t.Cleanup(func() { _ = app.Close() })
		assert.Equal(t, "file:local", app.Profile.String())
	})

	t.Run("profile without profiles file", func(t *testing.T) {
		settings := settingsFor(t, dataDir)
		settings.Source.Profile = "local"

		_, err := Open(ctx, settings, filepath.Join(t.TempDir(), "missing.cfg"))
		assert.Error(t, err)
	})

	t.Run("unknown profile", func(t *testing.T) {
		settings := settingsFor(t, dataDir)
		settings.Source.Profile = "prod"

		_, err := Open(ctx, settings, profilesPath)
		assert.Error(t, err)
	})
}
