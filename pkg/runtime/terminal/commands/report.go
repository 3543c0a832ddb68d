package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/de-tools/pulse-atlas/pkg/services/report"
	"github.com/de-tools/pulse-atlas/pkg/store/artifacts"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// ReportPrinter renders a report for humans
type ReportPrinter interface {
	Handle(report *domain.Report) error
}

func NewReportCmd(env EnvProvider, printer ReportPrinter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate and export reports",
	}

	cmd.AddCommand(newTemplatesCmd(env))
	cmd.AddCommand(newGenerateCmd(env, printer))
	cmd.AddCommand(newScheduleCmd(env))

	return cmd
}

func newTemplatesCmd(env EnvProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the report templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := env(cmd)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTITLE\tSECTIONS")
			for _, t := range e.Reports.Templates() {
				fmt.Fprintf(w, "%s\t%s\t%d\n", t.Name, t.Title, len(t.Sections))
			}
			return w.Flush()
		},
	}
}

type GenerateCmd struct {
	format  string
	outDir  string
	upload  bool
	options report.GenerateOptions
	env     EnvProvider
	printer ReportPrinter
}

func newGenerateCmd(env EnvProvider, printer ReportPrinter) *cobra.Command {
	gc := &GenerateCmd{env: env, printer: printer}
	cmd := &cobra.Command{
		Use:   "generate <template>",
		Short: "Generate a report from freshly computed metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  gc.run,
	}

	cmd.Flags().StringVarP(&gc.format, "format", "f", formatText, "Output format: text, json, csv, xlsx, pdf or yaml")
	cmd.Flags().StringVarP(&gc.outDir, "out", "o", "", "Write the export into this directory instead of stdout")
	cmd.Flags().BoolVar(&gc.upload, "upload", false, "Upload the export to the configured bucket")
	cmd.Flags().StringVar(&gc.options.Period, "period", "", "Report period label")
	cmd.Flags().StringVar(&gc.options.StartDate, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&gc.options.EndDate, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&gc.options.GeneratedBy, "by", "", "Report author")

	cmd.MarkFlagsMutuallyExclusive("out", "upload")

	return cmd
}

func (gc *GenerateCmd) run(cmd *cobra.Command, args []string) error {
	env, err := gc.env(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if _, ok := env.Reports.Template(args[0]); !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownTemplate, args[0])
	}

	var format domain.ExportFormat
	if gc.format != formatText {
		if format, err = domain.ParseExportFormat(gc.format); err != nil {
			return err
		}
	} else if gc.outDir != "" || gc.upload {
		return errors.New("--out and --upload need an export format")
	}

	if _, err := env.Engine.Refresh(ctx, env.Source); err != nil {
		var sourceErr *domain.DataSourceError
		if !errors.As(err, &sourceErr) {
			return fmt.Errorf("failed to refresh metrics: %w", err)
		}
		zerolog.Ctx(ctx).Warn().Err(err).Msg("some collections could not be fetched")
	}

	rep, err := env.Reports.Generate(ctx, args[0], gc.options)
	if err != nil {
		return err
	}
	if gc.format == formatText {
		return gc.printer.Handle(rep)
	}

	artifact, err := env.Reports.Export(rep.ID, format)
	if err != nil {
		return err
	}

	var sink artifacts.Sink
	switch {
	case gc.outDir != "":
		sink, err = artifacts.NewDirSink(gc.outDir)
	case gc.upload:
		sink, err = env.RemoteSink(ctx)
	default:
		_, err = cmd.OutOrStdout().Write(artifact.Data)
		return err
	}
	if err != nil {
		return err
	}

	location, err := sink.Put(ctx, artifact)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), location)
	return nil
}

type ScheduleCmd struct {
	frequency string
	options   report.GenerateOptions
	env       EnvProvider
}

func newScheduleCmd(env EnvProvider) *cobra.Command {
	sc := &ScheduleCmd{env: env}
	cmd := &cobra.Command{
		Use:   "schedule <template>",
		Short: "Describe a recurring report generation",
		Args:  cobra.ExactArgs(1),
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.frequency, "frequency", "", "How often the report runs (default daily)")
	cmd.Flags().StringVar(&sc.options.Period, "period", "", "Report period label")
	cmd.Flags().StringVar(&sc.options.GeneratedBy, "by", "", "Report author")

	return cmd
}

func (sc *ScheduleCmd) run(cmd *cobra.Command, args []string) error {
	env, err := sc.env(cmd)
	if err != nil {
		return err
	}

	schedule := env.Reports.ScheduleReport(args[0], sc.frequency, sc.options)
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(schedule)
}
