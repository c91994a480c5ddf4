package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mapforge/automap/internal/tilemap"
)

// FingerprintOptions holds flags for the fingerprint command.
type FingerprintOptions struct {
	*RootOptions
	Map string
}

// FingerprintResult is the fingerprint command's output payload.
type FingerprintResult struct {
	Map         string `json:"map"`
	Fingerprint string `json:"fingerprint"`
}

// NewFingerprintCommand creates the fingerprint command.
func NewFingerprintCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FingerprintOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fingerprint",
		Short: "Print a map's content fingerprint",
		Long: `Print the canonical content fingerprint of a map.

The fingerprint is taken over canonical JSON, so it is stable across
load/save round trips and across tools that format the document
differently.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFingerprint(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Map, "map", "", "path to the map file (required)")
	_ = cmd.MarkFlagRequired("map")

	return cmd
}

func runFingerprint(opts *FingerprintOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	m, err := tilemap.LoadFile(opts.Map)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load map", err)
	}
	fp, err := tilemap.MapFingerprint(m)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to fingerprint map", err)
	}

	if opts.Format == "json" {
		return out.Success(FingerprintResult{Map: opts.Map, Fingerprint: fp})
	}
	fmt.Fprintln(cmd.OutOrStdout(), fp)
	return nil
}
