// Package analyze implements the signal analysis subcommand.
package analyze

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/trackcutter-go/internal/conf"
	"github.com/tphakala/trackcutter-go/internal/runner"
)

// Command creates the analyze command, which reports per-channel signal
// statistics instead of cutting.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [recording]",
		Short: "Report per-channel signal statistics",
		Long: `Measure peak and RMS levels and estimate the DC offset of a
recording. The dc_offset row of the report can be fed back through
--dc-offset to correct a biased recording.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings.Input.Path = args[0]
			if err := conf.Validate(settings); err != nil {
				return err
			}
			return runner.Analyze(cmd.Context(), settings)
		},
	}
}
