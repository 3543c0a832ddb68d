package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/de-tools/pulse-atlas/pkg/runtime/bootstrap"
	"github.com/de-tools/pulse-atlas/pkg/runtime/terminal"
	"github.com/de-tools/pulse-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/pulse-atlas/pkg/services/config"
)

func main() {
	home, _ := os.UserHomeDir()
	profilesPath := filepath.Join(home, ".pulsecfg")

	cli := terminal.NewCLI(terminal.Options{
		Loader: func(ctx context.Context, settingsPath, profile string) (*commands.Env, func() error, error) {
			settings, err := config.LoadSettings(settingsPath)
			if err != nil {
				return nil, nil, err
			}
			if profile != "" {
				settings.Source.Profile = profile
			}

			app, err := bootstrap.Open(ctx, settings, profilesPath)
			if err != nil {
				return nil, nil, err
			}
			return &commands.Env{
				Engine:     app.Engine,
				Source:     app.Source,
				Reports:    app.Reports,
				Syncer:     app.Syncer,
				RemoteSink: app.RemoteSink,
			}, app.Close, nil
		},
		Output: os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
