package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/beacon/internal/canonical"
	"github.com/roach88/beacon/internal/config"
	"github.com/roach88/beacon/internal/scan"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	ConfigPath string
	InputDirs  []string
	Normalize  bool
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool           `json:"valid"`
	Scanners    int            `json:"scanners"`
	Beacons     int            `json:"beacons"`
	InputDigest string         `json:"input_digest"`
	Config      *config.Config `json:"config,omitempty"`
	Normalized  string         `json:"normalized,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <input>",
		Short: "Parse a scanner report without registering it",
		Long: `Parse a scanner report and report its scanner and beacon counts.

Checks the "--- scanner N ---" headers and "x,y,z" coordinate lines and
prints the input digest used to match stored runs. With --config the
config file is checked against the schema as well.

With --normalize the report is written back in canonical form: one blank
line between blocks, single commas, no stray whitespace. The digest of the
normalized report equals the digest of the original.

Examples:
  beacon validate scanners.txt
  beacon validate day19.txt --input-dir testdata --config beacon.yaml
  beacon validate messy.txt --normalize > clean.txt`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "config file to check (.yaml, .yml or .cue)")
	cmd.Flags().BoolVar(&opts.Normalize, "normalize", false, "write the report in canonical form instead of the summary")
	addInputDirFlag(cmd, &opts.InputDirs)

	return cmd
}

func runValidate(opts *ValidateOptions, input string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	result := ValidationResult{Valid: true}

	if opts.ConfigPath != "" {
		cfg, err := config.Load(opts.ConfigPath)
		if err == nil {
			err = cfg.Validate()
		}
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
		}
		formatter.VerboseLog("Config %s is valid", opts.ConfigPath)
		result.Config = &cfg
	}

	scanners, err := scan.Load(input, opts.InputDirs...)
	if err != nil {
		return failLoad(formatter, err)
	}

	digest, err := canonical.InputDigest(scanners)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeParse, fmt.Sprintf("digest input: %v", err), nil)
	}

	result.Scanners = len(scanners)
	result.Beacons = scan.BeaconCount(scanners)
	result.InputDigest = digest

	for _, s := range scanners {
		formatter.VerboseLog("%s %d beacon(s)", s.Header(), len(s.Beacons))
	}

	if opts.Normalize {
		var b strings.Builder
		if err := scan.Format(&b, scanners); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeParse, fmt.Sprintf("normalize input: %v", err), nil)
		}
		result.Normalized = b.String()
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	if opts.Normalize {
		formatter.VerboseLog("%d scanner(s), %d beacon(s), digest %s", result.Scanners, result.Beacons, result.InputDigest)
		_, err := fmt.Fprint(formatter.Writer, result.Normalized)
		return err
	}
	fmt.Fprintf(formatter.Writer, "✓ %d scanner(s), %d beacon(s)\n", result.Scanners, result.Beacons)
	fmt.Fprintf(formatter.Writer, "digest: %s\n", result.InputDigest)
	return nil
}
