package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/de-tools/pulse-atlas/pkg/services/report"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const formatText = "text"

// SnapshotPrinter renders a snapshot for humans
type SnapshotPrinter interface {
	Handle(snapshot *domain.Snapshot) error
}

type MetricsCmd struct {
	format  string
	env     EnvProvider
	printer SnapshotPrinter
}

func NewMetricsCmd(env EnvProvider, printer SnapshotPrinter) *cobra.Command {
	mc := &MetricsCmd{env: env, printer: printer}
	cmd := &cobra.Command{
		Use:   "metrics [domain]",
		Short: "Compute metrics from the configured source",
		Long:  "Compute metrics from the configured source. A domain is one of attendance, messaging, users, sessions or overview.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  mc.run,
	}

	cmd.Flags().StringVarP(&mc.format, "format", "f", formatText, "Output format: text, json, yaml or csv")

	return cmd
}

func (mc *MetricsCmd) run(cmd *cobra.Command, args []string) error {
	env, err := mc.env(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	snapshot, err := env.Engine.Refresh(ctx, env.Source)
	if err != nil {
		var sourceErr *domain.DataSourceError
		if !errors.As(err, &sourceErr) {
			return fmt.Errorf("failed to refresh metrics: %w", err)
		}
		zerolog.Ctx(ctx).Warn().Err(err).Msg("some collections could not be fetched")
	}

	if len(args) == 1 {
		metric, err := env.Engine.MetricByName(args[0])
		if err != nil {
			return err
		}
		if metric == nil {
			return fmt.Errorf("metrics for %s have not been computed", args[0])
		}
		return mc.printMetric(cmd, metric)
	}

	if mc.format == formatText {
		return mc.printer.Handle(snapshot)
	}
	format, err := domain.ParseExportFormat(mc.format)
	if err != nil {
		return err
	}
	data, err := report.ExportMetrics(snapshot, format)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func (mc *MetricsCmd) printMetric(cmd *cobra.Command, metric any) error {
	switch mc.format {
	case formatText, string(domain.ExportJSON):
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(metric)
	case string(domain.ExportYAML):
		data, err := report.EncodeYAML(metric)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	default:
		return fmt.Errorf("%w: %q for a single domain", domain.ErrUnsupportedFormat, mc.format)
	}
}
