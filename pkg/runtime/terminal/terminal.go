package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/pulse-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/pulse-atlas/pkg/runtime/terminal/export"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Loader builds the command environment from a settings file and a source profile.
// The returned function releases it.
type Loader func(ctx context.Context, settingsPath, profile string) (*commands.Env, func() error, error)

// CLI represents the command-line interface
type CLI struct {
	load     Loader
	reporter *Reporter
	exporter *export.Reporter
	rootCmd  *cobra.Command

	settingsPath string
	profile      string
	verbose      bool

	env     *commands.Env
	release func() error
}

// Options contain configuration for the CLI
type Options struct {
	Loader Loader
	Output io.Writer
	// DefaultSettingsPath is used when --config is not given
	DefaultSettingsPath string
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		load:         opts.Loader,
		reporter:     NewReporter(opts.Output),
		exporter:     export.NewReporter(opts.Output),
		settingsPath: opts.DefaultSettingsPath,
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.ExecuteContext(context.Background())
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	defer cli.close()
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs overrides the command line arguments
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pulse",
		Short:         "Metrics and reports over the attendance and messaging collections",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := zerolog.WarnLevel
			if cli.verbose {
				level = zerolog.DebugLevel
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
				Level(level).
				With().
				Timestamp().
				Logger()
			cmd.SetContext(logger.WithContext(cmd.Context()))
		},
	}

	cmd.PersistentFlags().StringVarP(&cli.settingsPath, "config", "c", cli.settingsPath, "Path to the settings file")
	cmd.PersistentFlags().StringVarP(&cli.profile, "profile", "p", "", "Source profile to use")
	cmd.PersistentFlags().BoolVarP(&cli.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(commands.NewMetricsCmd(cli.environment, cli.reporter))
	cmd.AddCommand(commands.NewReportCmd(cli.environment, cli.exporter))
	cmd.AddCommand(commands.NewSyncCmd(cli.environment))

	return cmd
}

func (cli *CLI) environment(cmd *cobra.Command) (*commands.Env, error) {
	if cli.env != nil {
		return cli.env, nil
	}
	env, release, err := cli.load(cmd.Context(), cli.settingsPath, cli.profile)
	if err != nil {
		return nil, err
	}
	cli.env, cli.release = env, release
	return env, nil
}

func (cli *CLI) close() {
	if cli.release == nil {
		return
	}
	if err := cli.release(); err != nil {
		zerolog.Ctx(cli.rootCmd.Context()).Warn().Err(err).Msg("failed to release resources")
	}
	cli.env, cli.release = nil, nil
}
