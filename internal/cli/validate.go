package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mapforge/automap/internal/rules"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Rules string
}

// ValidateResult is the validate command's output payload.
type ValidateResult struct {
	Valid    bool     `json:"valid"`
	RuleSets int      `json:"rule_sets"`
	Rules    int      `json:"rules"`
	Errors   []string `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a rule configuration",
		Long: `Validate a rule configuration without applying it.

All errors are reported, not just the first: YAML problems, schema
violations, and window arity mismatches.

Exit codes:
  0 - configuration is valid
  1 - configuration has errors
  2 - command error (file not readable)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Rules, "rules", "", "path to the rule configuration (required)")
	_ = cmd.MarkFlagRequired("rules")

	return cmd
}

func runValidate(opts *ValidateOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	cfg, errs := rules.LoadFile(opts.Rules)
	if len(errs) > 0 {
		if isReadError(errs) {
			return WrapExitError(ExitCommandError, "failed to read rule configuration", errs[0])
		}
		result := ValidateResult{Valid: false, Errors: errorStrings(errs)}
		if opts.Format == "json" {
			_ = out.Success(result)
		} else {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s: %d error(s)\n", opts.Rules, len(errs))
			for _, msg := range result.Errors {
				fmt.Fprintf(w, "  %s\n", msg)
			}
		}
		return NewExitError(ExitFailure, fmt.Sprintf("rule configuration has %d error(s)", len(errs)))
	}

	ruleCount := 0
	for _, rs := range cfg.RuleSets {
		ruleCount += len(rs.Rules)
	}
	result := ValidateResult{Valid: true, RuleSets: len(cfg.RuleSets), Rules: ruleCount}

	if opts.Format == "json" {
		return out.Success(result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: valid (%d rule set(s), %d rule(s))\n", opts.Rules, result.RuleSets, result.Rules)
	return nil
}

func isReadError(errs []error) bool {
	if len(errs) != 1 {
		return false
	}
	cfgErr, ok := errs[0].(*rules.ConfigError)
	return ok && cfgErr.Code == rules.ErrCodeRead
}
