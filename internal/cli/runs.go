package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/beacon/internal/store"
)

// StoreOptions holds flags for commands that read stored runs.
type StoreOptions struct {
	*RootOptions
	Database string
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored registration runs",
		Long: `List the runs stored by "beacon register --db", oldest first.

Example:
  beacon runs --db runs.db
  beacon runs --db runs.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a stored run with per-scanner positions",
		Long: `Show one stored run: both answers and every scanner's position,
orientation and the anchor it was placed against.

Example:
  beacon show --db runs.db 0193a2f4-...`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func openStore(formatter *OutputFormatter, path string) (*store.Store, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}
	return st, nil
}

func runRuns(opts *StoreOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := openStore(formatter, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signalContext(cmd)
	defer stop()

	runs, err := st.ListRuns(ctx)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}

	if formatter.Format == "json" {
		return formatter.Success(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs stored.")
		return nil
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tRUN\tLABEL\tSCANNERS\tBEACONS\tMAX DISTANCE\tTHRESHOLD\tORIENTATIONS")
	for _, r := range runs {
		label := r.Label
		if label == "" {
			label = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			r.Seq, r.ID, label, r.Scanners, r.UniqueBeacons, r.MaxDistance, r.Threshold, r.Orientations)
	}
	return tw.Flush()
}

func runShow(opts *StoreOptions, runID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := openStore(formatter, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signalContext(cmd)
	defer stop()

	run, err := st.ReadRun(ctx, runID)
	if errors.Is(err, store.ErrRunNotFound) {
		return formatter.Fail(ExitCommandError, ErrCodeRunNotFound, err.Error(), nil)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}

	if formatter.Format == "json" {
		return formatter.Success(run)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "run: %s (seq %d)\n", run.ID, run.Seq)
	if run.Label != "" {
		fmt.Fprintf(w, "label: %s\n", run.Label)
	}
	fmt.Fprintf(w, "digest: %s\n", run.InputDigest)
	fmt.Fprintf(w, "threshold: %d, orientations: %s, passes: %d\n", run.Threshold, run.Orientations, run.Passes)
	summary := summaryFromRun(run)
	if err := summary.WriteText(w); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCANNER\tORIENTATION\tANCHOR\tPASS\tOVERLAP")
	for _, p := range summary.Placements {
		anchor := fmt.Sprintf("%d", p.Anchor)
		if p.Anchor < 0 {
			anchor = "origin"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\n", p.ID, p.Orientation, anchor, p.Pass, p.Overlap)
	}
	return tw.Flush()
}
