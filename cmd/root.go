// Package cmd assembles the trackcutter command-line interface.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/trackcutter-go/cmd/analyze"
	"github.com/tphakala/trackcutter-go/cmd/cut"
	"github.com/tphakala/trackcutter-go/internal/conf"
	"github.com/tphakala/trackcutter-go/internal/logging"
)

// dcOffsetArg holds the raw --dc-offset argument until it is parsed into
// per-channel values.
var dcOffsetArg string

// saveConfigPath, when set, writes the effective settings out before the
// subcommand runs.
var saveConfigPath string

// RootCommand creates and returns the root command.
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "trackcutter",
		Short: "Segment a continuous recording into individual tracks",
		Long: `trackcutter detects track boundaries in a continuous audio recording
by watching for sustained silence between periods of signal. It can log
the detected cut points or extract each track into its own file.`,
	}

	if err := setupFlags(rootCmd, settings); err != nil {
		cobra.CheckErr(err)
	}

	rootCmd.AddCommand(
		cut.Command(settings),
		analyze.Command(settings),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// The debug flag is only known after flag parsing, so the log
		// level is raised here rather than at startup.
		if settings.Debug {
			logging.Init(slog.LevelDebug)
		}
		if dcOffsetArg != "" {
			offsets, err := conf.ParseDCOffsets(dcOffsetArg)
			if err != nil {
				return err
			}
			settings.Signal.DCOffset = offsets
		}
		if saveConfigPath != "" {
			if err := conf.SaveSettings(settings, saveConfigPath); err != nil {
				return err
			}
		}
		return nil
	}

	return rootCmd
}

// setupFlags defines the flags shared by every subcommand.
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	flags := rootCmd.PersistentFlags()

	flags.BoolVarP(&settings.Debug, "debug", "v", viper.GetBool("debug"), "Enable debug output")
	flags.BoolVar(&settings.Log.Enabled, "log-to-file", viper.GetBool("log.enabled"), "Write a structured log file")
	flags.StringVar(&settings.Log.Path, "log-file", viper.GetString("log.path"), "Log file path")
	flags.StringVar(&saveConfigPath, "save-config", "", "Write the effective settings to the given file")

	flags.StringVarP(&settings.Input.TimeRange, "time-range", "t", viper.GetString("input.timerange"),
		"Process only the given time range, e.g. 1:00-2:30 (either side omissible)")
	flags.StringVarP(&settings.Input.FrameRange, "frame-range", "f", viper.GetString("input.framerange"),
		"Process only the given frame index range, e.g. 100000-200000")

	flags.BoolVar(&settings.Input.Raw.Enabled, "raw", viper.GetBool("input.raw.enabled"),
		"Treat input as headerless raw PCM")
	flags.IntVar(&settings.Input.Raw.Rate, "rate", viper.GetInt("input.raw.rate"),
		"Raw input sampling rate in Hz")
	flags.IntVar(&settings.Input.Raw.Channels, "channels", viper.GetInt("input.raw.channels"),
		fmt.Sprintf("Raw input channel count, up to %d", conf.MaxChannels))
	flags.IntVar(&settings.Input.Raw.Bits, "bits", viper.GetInt("input.raw.bits"),
		"Raw input bits per sample: 8, 16, 24, 32 or 64")
	flags.StringVar(&settings.Input.Raw.Encoding, "encoding", viper.GetString("input.raw.encoding"),
		"Raw input sample encoding: signed, unsigned or float")
	flags.BoolVar(&settings.Input.Raw.BigEndian, "big-endian", viper.GetBool("input.raw.bigendian"),
		"Raw input sample words are big-endian")

	flags.StringVar(&dcOffsetArg, "dc-offset", "",
		"Comma-separated per-channel DC offset correction, each within [-1.0, +1.0]")
	flags.BoolVar(&settings.Signal.HighPass, "high-pass", viper.GetBool("signal.highpass"),
		"Remove low-frequency content with a 20 Hz high-pass filter")

	if err := viper.BindPFlags(flags); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	return nil
}
