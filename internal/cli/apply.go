package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mapforge/automap/internal/automap"
	"github.com/mapforge/automap/internal/rules"
	"github.com/mapforge/automap/internal/store"
	"github.com/mapforge/automap/internal/tilemap"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
	Map      string
	Rules    string
	Out      string
	Seed     uint64
	Database string
}

// ApplyResult is the apply command's output payload.
type ApplyResult struct {
	RunID         string             `json:"run_id,omitempty"`
	Seed          uint64             `json:"seed"`
	Passes        int                `json:"passes"`
	Converged     bool               `json:"converged"`
	MapHashBefore string             `json:"map_hash_before"`
	MapHashAfter  string             `json:"map_hash_after"`
	Out           string             `json:"out"`
	Stats         automap.ApplyStats `json:"stats"`
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a rule configuration to a map",
		Long: `Apply a rule configuration to a map and write the result.

The seed is printed with the result; re-running with the same map, rules,
and seed reproduces the output exactly. With --db, the run is recorded in
the run log so it can be verified later.

Exit codes:
  0 - applied
  1 - invalid rule configuration
  2 - command error (missing files, write failure, etc.)

Examples:
  automap apply --map world.json --rules coast.yaml --out world.json
  automap apply --map world.json --rules coast.yaml --out out.json --seed 42 --db runs.db`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("seed") {
				opts.Seed = uint64(time.Now().UnixNano())
			}
			return runApply(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Map, "map", "", "path to the map file (required)")
	_ = cmd.MarkFlagRequired("map")
	cmd.Flags().StringVar(&opts.Rules, "rules", "", "path to the rule configuration (required)")
	_ = cmd.MarkFlagRequired("rules")
	cmd.Flags().StringVar(&opts.Out, "out", "", "path to write the resulting map (required)")
	_ = cmd.MarkFlagRequired("out")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed (default: time-derived)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this run-log database")

	return cmd
}

func runApply(opts *ApplyOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	rawRules, err := os.ReadFile(opts.Rules)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read rule configuration", err)
	}
	cfg, errs := rules.Parse(rawRules)
	if len(errs) > 0 {
		_ = out.Error(rules.ErrCodeSchema, "invalid rule configuration", errorStrings(errs))
		return NewExitError(ExitFailure, fmt.Sprintf("rule configuration has %d error(s)", len(errs)))
	}

	m, err := tilemap.LoadFile(opts.Map)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load map", err)
	}

	before, err := tilemap.MapFingerprint(m)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to fingerprint map", err)
	}

	stats := automap.Apply(m, *cfg, automap.NewSeeded(opts.Seed))

	after, err := tilemap.MapFingerprint(m)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to fingerprint result", err)
	}
	if err := tilemap.WriteFile(opts.Out, m); err != nil {
		return WrapExitError(ExitCommandError, "failed to write result map", err)
	}

	result := ApplyResult{
		Seed:          opts.Seed,
		Passes:        stats.TotalPasses(),
		Converged:     stats.Converged(),
		MapHashBefore: before,
		MapHashAfter:  after,
		Out:           opts.Out,
		Stats:         stats,
	}

	if opts.Database != "" {
		runID, err := recordRun(opts, result, rawRules)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		result.RunID = runID
	}

	if opts.Format == "json" {
		return out.Success(result)
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "applied %d rule set(s) in %d pass(es), seed %d\n", len(stats.RuleSets), result.Passes, result.Seed)
	if !result.Converged {
		fmt.Fprintln(w, "warning: at least one rule set did not stabilize")
	}
	fmt.Fprintf(w, "map: %s -> %s\n", result.MapHashBefore[:12], result.MapHashAfter[:12])
	fmt.Fprintf(w, "wrote %s\n", result.Out)
	if result.RunID != "" {
		fmt.Fprintf(w, "recorded run %s\n", result.RunID)
	}
	return nil
}

func recordRun(opts *ApplyOptions, result ApplyResult, rawRules []byte) (string, error) {
	st, err := store.Open(opts.Database)
	if err != nil {
		return "", err
	}
	defer st.Close()

	statsJSON, err := json.Marshal(result.Stats)
	if err != nil {
		return "", err
	}
	run := store.Run{
		ID:            store.NewRunID(),
		CreatedAt:     time.Now(),
		Seed:          result.Seed,
		ConfigHash:    rules.Fingerprint(rawRules),
		MapHashBefore: result.MapHashBefore,
		MapHashAfter:  result.MapHashAfter,
		Passes:        result.Passes,
		Converged:     result.Converged,
		Stats:         statsJSON,
	}
	if err := st.WriteRun(context.Background(), run); err != nil {
		return "", err
	}
	return run.ID, nil
}

func errorStrings(errs []error) []string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return msgs
}
