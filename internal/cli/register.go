package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/beacon/internal/aggregate"
	"github.com/roach88/beacon/internal/canonical"
	"github.com/roach88/beacon/internal/config"
	"github.com/roach88/beacon/internal/geom"
	"github.com/roach88/beacon/internal/registration"
	"github.com/roach88/beacon/internal/scan"
	"github.com/roach88/beacon/internal/store"
)

// RegisterOptions holds flags for the register command.
type RegisterOptions struct {
	*RootOptions
	ConfigPath   string
	Database     string
	Threshold    int
	Orientations string
	Workers      int
	Reuse        bool
	Label        string
	InputDirs    []string

	// RunIDs allows overriding the run ID generator (for testing).
	// If nil, defaults to store.UUIDv7Generator.
	RunIDs store.RunIDGenerator
}

// RegisterResult is the register command's payload.
type RegisterResult struct {
	RunID        string    `json:"run_id,omitempty"`
	Reused       bool      `json:"reused,omitempty"`
	InputDigest  string    `json:"input_digest"`
	RunDigest    string    `json:"run_digest"`
	Label        string    `json:"label,omitempty"`
	Threshold    int       `json:"threshold"`
	Orientations geom.Mode `json:"orientations"`
	aggregate.Summary
}

// NewRegisterCommand creates the register command.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	return newRegisterCommand(&RegisterOptions{RootOptions: rootOpts})
}

func newRegisterCommand(opts *RegisterOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <input>",
		Short: "Register scanners and report beacons and distances",
		Long: `Place every scanner of a report in the frame of scanner 0.

Prints the number of distinct beacons (A) and the largest Manhattan
distance between two scanners (B). With --db the run is stored; with
--reuse a stored run of the same input, settings and label is returned
instead of registering again. Labels are compared after Unicode NFC
normalization.

A relative input that does not exist is looked up under each --input-dir
in turn.

Settings are resolved as defaults, then --config, then explicit flags.

Exit codes:
  0 - Registration succeeded
  1 - Registration failed (e.g. REGISTRATION_STALLED)
  2 - Command error (missing input, parse error, bad config)

Examples:
  beacon register scanners.txt
  beacon register scanners.txt --workers 8 --format json
  beacon register scanners.txt --config beacon.yaml --db runs.db --reuse
  beacon register day19.txt --input-dir testdata --db runs.db --label nightly`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "config file (.yaml, .yml or .cue)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite database to store the run in")
	cmd.Flags().IntVar(&opts.Threshold, "threshold", registration.DefaultThreshold, "shared beacons required to place a scanner")
	cmd.Flags().StringVar(&opts.Orientations, "orientations", string(geom.ModeProper), "orientation set (proper|all)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 1, "scanners aligned in parallel per pass")
	cmd.Flags().BoolVar(&opts.Reuse, "reuse", false, "return a stored run for identical input, settings and label")
	cmd.Flags().StringVar(&opts.Label, "label", "", "name stored with the run; part of the reuse key")
	addInputDirFlag(cmd, &opts.InputDirs)

	return cmd
}

func runRegister(opts *RegisterOptions, input string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	cfg, err := resolveConfig(opts, cmd)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}

	scanners, err := scan.Load(input, opts.InputDirs...)
	if err != nil {
		return failLoad(formatter, err)
	}
	formatter.VerboseLog("Loaded %d scanner(s), %d beacon(s) from %s", len(scanners), scan.BeaconCount(scanners), input)

	digest, err := canonical.InputDigest(scanners)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeParse, fmt.Sprintf("digest input: %v", err), nil)
	}
	runDigest, err := canonical.RunDigest(digest, cfg.Threshold, string(cfg.Orientations), opts.Label)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeParse, err.Error(), nil)
	}
	label := canonical.NormalizeLabel(opts.Label)

	ctx, stop := signalContext(cmd)
	defer stop()

	var st *store.Store
	if cfg.Database != "" {
		st, err = store.Open(cfg.Database)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()

		if opts.Reuse {
			prior, err := st.FindByDigest(ctx, runDigest)
			switch {
			case err == nil:
				logger.Info("reusing stored run", "run", prior.ID, "digest", runDigest)
				return outputRegister(formatter, RegisterResult{
					RunID:        prior.ID,
					Reused:       true,
					InputDigest:  digest,
					RunDigest:    prior.RunDigest,
					Label:        prior.Label,
					Threshold:    prior.Threshold,
					Orientations: prior.Orientations,
					Summary:      summaryFromRun(prior),
				})
			case !errors.Is(err, store.ErrRunNotFound):
				return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
			}
		}
	}

	eng := registration.New(append(cfg.EngineOptions(), registration.WithLogger(logger))...)
	res, err := eng.Register(ctx, scanners)
	if err != nil {
		return failRegister(formatter, err)
	}

	result := RegisterResult{
		InputDigest:  digest,
		RunDigest:    runDigest,
		Label:        label,
		Threshold:    res.Threshold,
		Orientations: res.Mode,
		Summary:      aggregate.Summarize(res),
	}

	if st != nil {
		ids := opts.RunIDs
		if ids == nil {
			ids = store.UUIDv7Generator{}
		}
		run, err := store.NewRun(ids.Generate(), digest, opts.Label, res)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		run, err = st.WriteRun(ctx, run)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		logger.Info("run stored", "run", run.ID, "seq", run.Seq)
		result.RunID = run.ID
	}

	return outputRegister(formatter, result)
}

// addInputDirFlag registers --input-dir, the directories searched for a
// relative input that does not exist as given.
func addInputDirFlag(cmd *cobra.Command, dirs *[]string) {
	cmd.Flags().StringSliceVar(dirs, "input-dir", []string{"inputs"}, "directories searched for a relative input (repeatable)")
}

// resolveConfig layers defaults, the config file and explicitly set flags.
func resolveConfig(opts *RegisterOptions, cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("threshold") {
		cfg.Threshold = opts.Threshold
	}
	if flags.Changed("orientations") {
		mode, err := geom.ParseMode(opts.Orientations)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Orientations = mode
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.Workers
	}
	if flags.Changed("db") {
		cfg.Database = opts.Database
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func failLoad(formatter *OutputFormatter, err error) error {
	if errors.Is(err, scan.ErrInputNotFound) {
		return formatter.Fail(ExitCommandError, ErrCodeInputNotFound, err.Error(), nil)
	}
	var parseErr *scan.ParseError
	if errors.As(err, &parseErr) {
		return formatter.Fail(ExitCommandError, ErrCodeParse, err.Error(), map[string]any{
			"line":   parseErr.Line,
			"reason": parseErr.Reason,
		})
	}
	return formatter.Fail(ExitCommandError, ErrCodeInputNotFound, err.Error(), nil)
}

func failRegister(formatter *OutputFormatter, err error) error {
	var regErr *registration.Error
	if errors.As(err, &regErr) {
		var details map[string]any
		if len(regErr.Unresolved) > 0 {
			details = map[string]any{"unresolved": regErr.Unresolved}
		}
		return formatter.Fail(ExitFailure, string(regErr.Code), regErr.Error(), details)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return formatter.Fail(ExitFailure, ErrCodeCancelled, err.Error(), nil)
	}
	return formatter.Fail(ExitFailure, "E_REGISTER", err.Error(), nil)
}

func outputRegister(formatter *OutputFormatter, result RegisterResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "A: %d\n", result.UniqueBeacons)
	fmt.Fprintf(w, "B: %d\n", result.MaxDistance)
	if result.RunID != "" {
		if result.Reused {
			fmt.Fprintf(w, "run: %s (reused)\n", result.RunID)
		} else {
			fmt.Fprintf(w, "run: %s\n", result.RunID)
		}
	}
	if formatter.Verbose {
		for _, p := range result.Placements {
			formatter.VerboseLog("scanner %d: %s %s (anchor %d, pass %d, overlap %d)",
				p.ID, p.Position, p.Orientation, p.Anchor, p.Pass, p.Overlap)
		}
	}
	return nil
}

// summaryFromRun rebuilds the report of a stored run.
func summaryFromRun(run *store.Run) aggregate.Summary {
	s := aggregate.Summary{
		Scanners:      run.Scanners,
		UniqueBeacons: run.UniqueBeacons,
		MaxDistance:   run.MaxDistance,
		Passes:        run.Passes,
		Placements:    make([]aggregate.ScannerSummary, 0, len(run.Placements)),
	}
	for _, p := range run.Placements {
		orientation := fmt.Sprintf("#%d", p.Orientation)
		if o, err := geom.OrientationAt(p.Orientation); err == nil {
			orientation = o.String()
		}
		s.Placements = append(s.Placements, aggregate.ScannerSummary{
			ID:          p.ScannerID,
			Position:    p.Position.String(),
			Orientation: orientation,
			Anchor:      p.Anchor,
			Pass:        p.Pass,
			Overlap:     p.Overlap,
		})
	}
	return s
}

// signalContext derives a context cancelled on SIGINT or SIGTERM.
// Uses the command's context if available (for testing).
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
