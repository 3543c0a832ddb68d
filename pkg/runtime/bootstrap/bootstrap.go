// Package bootstrap wires the services of a pulse process from its settings
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/de-tools/pulse-atlas/pkg/services/config"
	"github.com/de-tools/pulse-atlas/pkg/services/metrics"
	"github.com/de-tools/pulse-atlas/pkg/services/mirror"
	"github.com/de-tools/pulse-atlas/pkg/services/report"
	"github.com/de-tools/pulse-atlas/pkg/services/source"
	"github.com/de-tools/pulse-atlas/pkg/store/artifacts"
	"github.com/de-tools/pulse-atlas/pkg/store/duckdb"
	"github.com/de-tools/pulse-atlas/pkg/store/duckdb/documents"
	"github.com/de-tools/pulse-atlas/pkg/store/duckdb/syncruns"
	"github.com/rs/zerolog"
)

type App struct {
	Settings *config.Settings
	Profile  *domain.SourceProfile
	Engine   *metrics.Engine
	Reports  *report.Builder
	// Source feeds the engine. It is the mirror when one is configured.
	Source metrics.Source
	// Syncer is nil without a mirror
	Syncer *mirror.Syncer

	closers []func() error
}

// Open builds the application. profilesPath may point to a missing file, in
// which case only the explicit source settings are used.
func Open(ctx context.Context, settings *config.Settings, profilesPath string) (*App, error) {
	logger := zerolog.Ctx(ctx)

	var registry config.Registry
	if _, err := os.Stat(profilesPath); err == nil {
		if registry, err = config.NewRegistry(profilesPath); err != nil {
			return nil, fmt.Errorf("failed to load profiles: %w", err)
		}
		profiles, _ := registry.GetProfiles(ctx)
		logger.Debug().Str("path", profilesPath).Strs("profiles", profiles).Msg("profiles loaded")
	}

	profile, err := settings.SourceProfile(ctx, registry)
	if err != nil {
		return nil, err
	}

	loc, err := settings.Location()
	if err != nil {
		return nil, err
	}

	app := &App{Settings: settings, Profile: profile}

	upstream, closeSource, err := source.Open(profile, source.Options{
		PerPage:               settings.Source.PerPage,
		Timeout:               settings.Source.Timeout,
		MaxConcurrentRequests: settings.Source.MaxConcurrentRequests,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open source %s: %w", profile, err)
	}
	app.closers = append(app.closers, closeSource)
	app.Source = upstream

	if settings.Mirror.Path != "" {
		if profile.Kind == domain.SourceKindDuckDB && profile.Path == settings.Mirror.Path {
			_ = app.Close()
			return nil, errors.New("the mirror cannot sync from itself")
		}
		if err := app.openMirror(upstream, profile.String()); err != nil {
			_ = app.Close()
			return nil, err
		}
	}

	app.Engine = metrics.NewEngine(metrics.WithLocation(loc))
	app.Reports = report.NewBuilder(app.Engine)

	logger.Info().
		Str("source", profile.String()).
		Bool("mirror", app.Syncer != nil).
		Msg("application ready")
	return app, nil
}

func (a *App) openMirror(upstream mirror.Source, name string) error {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: a.Settings.Mirror.Path})
	if err != nil {
		return fmt.Errorf("failed to open mirror: %w", err)
	}
	a.closers = append(a.closers, db.Close)

	documentStore, runStore, err := mirrorStores(db)
	if err != nil {
		return err
	}
	a.Syncer = mirror.NewSyncer(name, upstream, db, documentStore, runStore)
	a.Source = documentStore
	return nil
}

func mirrorStores(db *sql.DB) (documents.Store, syncruns.Store, error) {
	documentStore, err := documents.NewStore(db)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create document store: %w", err)
	}
	runStore, err := syncruns.NewStore(db)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create sync run store: %w", err)
	}
	return documentStore, runStore, nil
}

// RemoteSink opens the configured bucket
func (a *App) RemoteSink(ctx context.Context) (artifacts.Sink, error) {
	if a.Settings.Export.Bucket == "" {
		return nil, errors.New("no export bucket configured, set export.bucket")
	}
	cfg, err := artifacts.LoadAWSConfig(ctx, a.Settings.Export.Region)
	if err != nil {
		return nil, err
	}
	return artifacts.NewS3SinkFromConfig(cfg, a.Settings.Export.Bucket, a.Settings.Export.Prefix)
}

// Sink is the bucket when one is configured and the export directory otherwise
func (a *App) Sink(ctx context.Context) (artifacts.Sink, error) {
	if a.Settings.Export.Bucket != "" {
		return a.RemoteSink(ctx)
	}
	return artifacts.NewDirSink(a.Settings.Export.Dir)
}

// Refresh reloads the engine from the app source
func (a *App) Refresh(ctx context.Context) (*domain.Snapshot, error) {
	return a.Engine.Refresh(ctx, a.Source)
}

// Close releases everything in reverse opening order
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
