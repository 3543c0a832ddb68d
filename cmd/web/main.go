package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/de-tools/pulse-atlas/pkg/runtime/bootstrap"
	"github.com/de-tools/pulse-atlas/pkg/server"
	"github.com/de-tools/pulse-atlas/pkg/services/config"
	"github.com/de-tools/pulse-atlas/pkg/services/mirror"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	settingsPath string
	profilesPath string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Pulse",
		RunE:  runServer,
	}

	home, _ := os.UserHomeDir()
	rootCmd.Flags().StringVarP(&settingsPath, "config", "c", "", "Path to the settings file")
	rootCmd.Flags().StringVar(&profilesPath, "profiles", filepath.Join(home, ".pulsecfg"),
		"Path to the source profiles file (default is $HOME/.pulsecfg)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Msg("failed to load .env file")
	}
	ctx, cancel := context.WithCancel(logger.WithContext(cmd.Context()))
	defer cancel()

	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return err
	}

	app, err := bootstrap.Open(ctx, settings, profilesPath)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close resources")
		}
	}()

	if _, err := app.Refresh(ctx); err != nil {
		logger.Warn().Err(err).Msg("initial metrics refresh incomplete")
	}

	sink, err := app.Sink(ctx)
	if err != nil {
		return fmt.Errorf("failed to open export destination: %w", err)
	}

	deps := server.Dependencies{
		Metrics: app.Engine,
		Refresh: app.Refresh,
		Reports: app.Reports,
		Sink:    sink,
	}

	if app.Syncer != nil {
		deps.Syncer = app.Syncer
		deps.OnSync = func(ctx context.Context, _ *domain.SyncRun) {
			if _, err := app.Refresh(ctx); err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Msg("metrics refresh after sync incomplete")
			}
		}

		runner := mirror.NewRunner(app.Syncer, settings.Mirror.Interval)
		go runner.Run(ctx)
		go func() {
			for progress := range runner.Progress() {
				if progress.Run != nil && progress.Run.Status != domain.SyncStatusFailed {
					deps.OnSync(ctx, progress.Run)
				}
			}
		}()
		defer func() {
			cancel()
			<-runner.Done()
		}()
	}

	api := server.NewWebAPI(logger, server.Config{
		Addr:            settings.Server.Addr,
		ShutdownTimeout: settings.Server.ShutdownTimeout,
		Dependencies:    deps,
	})
	return api.Start()
}
