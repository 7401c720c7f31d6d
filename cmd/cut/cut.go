// Package cut implements the track cutting subcommand.
package cut

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/trackcutter-go/internal/conf"
	"github.com/tphakala/trackcutter-go/internal/runner"
)

// Command creates the cut command, which detects track boundaries and
// either logs them or extracts the tracks into files.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cut [recording]",
		Short: "Detect track boundaries in a recording",
		Long: `Detect track boundaries and log the cut points, or extract each
track into its own file when an extraction directory is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings.Input.Path = args[0]
			// An extraction directory implies the extract action.
			if settings.Cut.ExtractDir != "" {
				settings.Cut.Action = conf.ActionExtract
			}
			if err := conf.Validate(settings); err != nil {
				return err
			}
			return runner.Cut(cmd.Context(), settings)
		},
	}

	setupFlags(cmd, settings)
	return cmd
}

func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	flags := cmd.Flags()

	flags.StringVarP(&settings.Cut.CutsFile, "cuts-file", "o", viper.GetString("cut.cutsfile"),
		"Cut list destination, - for standard output")
	flags.StringVarP(&settings.Cut.ExtractDir, "extract-dir", "d", viper.GetString("cut.extractdir"),
		"Extract tracks as WAV files into this directory")
	flags.StringVarP(&settings.Cut.TrackNamesFile, "track-names", "n", viper.GetString("cut.tracknamesfile"),
		"Text file with one track name per line, - for standard input")
	flags.IntVar(&settings.Cut.MinSilencePeriod, "min-silence", viper.GetInt("cut.minsilenceperiod"),
		"Minimum silence period separating tracks, in milliseconds")
	flags.IntVar(&settings.Cut.MinSignalPeriod, "min-signal", viper.GetInt("cut.minsignalperiod"),
		"Minimum signal period starting a track, in milliseconds")
	flags.IntVar(&settings.Cut.MinTrackLength, "min-track-length", viper.GetInt("cut.mintracklength"),
		"Minimum track length, in seconds")
	flags.Float64Var(&settings.Cut.NoiseFloorDbfs, "noise-floor", viper.GetFloat64("cut.noisefloordbfs"),
		"Noise floor separating signal from silence, in dBFS (negative)")
	flags.StringVar(&settings.Cut.Format, "format", viper.GetString("cut.format"),
		fmt.Sprintf("Cut point format: %s, %s or %s", conf.FormatFrames, conf.FormatTime, conf.FormatSeconds))
	flags.BoolVar(&settings.Cut.NoHeader, "no-header", viper.GetBool("cut.noheader"),
		"Suppress the cut list header row")
	flags.StringVarP(&settings.Cut.TrackRange, "track-range", "c", viper.GetString("cut.trackrange"),
		"Process only the given track number range, e.g. 3-5")
}
