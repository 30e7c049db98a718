package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/config"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/rules"
)

// ValidateResult is the output of a successful validate.
type ValidateResult struct {
	File   string        `json:"file"`
	Valid  bool          `json:"valid"`
	Rules  int           `json:"rules"`
	Config config.Config `json:"config"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config>",
		Short: "Validate a configuration file",
		Long: `Load a configuration file (.yaml, .yml or .cue), apply it over the
defaults, and report every invalid value. The rule set is wired against
the resulting thresholds so dependency errors surface here too.

Exit codes:
  0 - Configuration is valid
  1 - Configuration is invalid
  2 - Command error (unreadable file)

Examples:
  bookstore-sim validate sim.yaml
  bookstore-sim validate sim.cue --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	cfg, err := config.Load(path)
	if err != nil {
		if config.IsConfigError(err) {
			_ = out.Error(CodeInvalidConfig, fmt.Sprintf("%s is invalid", path), configErrorDetails(err))
			return WrapExitError(ExitFailure, "invalid configuration", err)
		}
		return WrapExitError(ExitCommandError, "failed to read configuration", err)
	}

	re, err := rules.NewDefault(cfg.Rules)
	if err != nil {
		_ = out.Error(CodeInvalidConfig, "rule wiring failed", configErrorDetails(err))
		return WrapExitError(ExitFailure, "rule wiring failed", err)
	}

	result := ValidateResult{File: path, Valid: true, Rules: len(re.Rules()), Config: cfg}
	return out.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "✓ %s is valid\n", path)
		fmt.Fprintf(w, "  ticks: %d  rule cadence: %d  retention: %d  rules: %d\n",
			cfg.Schedule.Ticks, cfg.Schedule.RuleCadence, cfg.Bus.Retention, result.Rules)
	})
}
