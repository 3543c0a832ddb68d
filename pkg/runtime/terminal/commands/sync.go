package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/spf13/cobra"
)

var errNoMirror = errors.New("no mirror configured, set mirror.path")

func NewSyncCmd(env EnvProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Copy the source collections into the local mirror",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := env(cmd)
			if err != nil {
				return err
			}
			if e.Syncer == nil {
				return errNoMirror
			}

			run, err := e.Syncer.Sync(cmd.Context())
			if run != nil {
				printRun(cmd.OutOrStdout(), *run)
			}
			return err
		},
	}

	cmd.AddCommand(newHistoryCmd(env))
	return cmd
}

func newHistoryCmd(env EnvProvider) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent sync runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := env(cmd)
			if err != nil {
				return err
			}
			if e.Syncer == nil {
				return errNoMirror
			}

			runs, err := e.Syncer.History(cmd.Context(), limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "STARTED\tSOURCE\tSTATUS\tDOCUMENTS\tDURATION")
			for _, run := range runs {
				total := 0
				for _, n := range run.Documents {
					total += n
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					run.StartedAt.Format(time.RFC3339),
					run.Source,
					run.Status,
					total,
					run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")
	return cmd
}

func printRun(out io.Writer, run domain.SyncRun) {
	fmt.Fprintf(out, "sync %s: %s\n", run.Source, run.Status)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, c := range domain.Collections {
		if n, ok := run.Documents[c]; ok {
			fmt.Fprintf(w, "  %s\t%d documents\n", c, n)
		}
	}
	failed := make([]string, 0, len(run.Errors))
	for c := range run.Errors {
		failed = append(failed, string(c))
	}
	sort.Strings(failed)
	for _, c := range failed {
		fmt.Fprintf(w, "  %s\tfailed: %s\n", c, run.Errors[domain.Collection(c)])
	}
	_ = w.Flush()
}
