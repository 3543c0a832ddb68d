package commands

import (
	"context"

	"github.com/de-tools/pulse-atlas/pkg/services/metrics"
	"github.com/de-tools/pulse-atlas/pkg/services/mirror"
	"github.com/de-tools/pulse-atlas/pkg/services/report"
	"github.com/de-tools/pulse-atlas/pkg/store/artifacts"
	"github.com/spf13/cobra"
)

// Env holds the services the commands run against
type Env struct {
	Engine  *metrics.Engine
	Source  metrics.Source
	Reports *report.Builder
	// Syncer is nil when no mirror is configured
	Syncer *mirror.Syncer
	// RemoteSink opens the configured object storage destination
	RemoteSink func(ctx context.Context) (artifacts.Sink, error)
}

// EnvProvider builds the environment on first use
type EnvProvider func(cmd *cobra.Command) (*Env, error)
