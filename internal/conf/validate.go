// validate.go: settings validation performed before the segmenter core runs.
// The core itself assumes validated configuration.
package conf

import (
	"fmt"
)

// Validate checks settings for consistency and returns the first problem
// found. All range strings must already parse; the numeric cut parameters
// must be positive; the noise floor must be negative.
func Validate(s *Settings) error {
	if s.Input.Path == "" {
		return fmt.Errorf("no input file was specified")
	}

	switch s.Cut.Action {
	case ActionLog, ActionExtract:
	default:
		return fmt.Errorf("unknown cut action %q", s.Cut.Action)
	}

	switch s.Cut.Format {
	case FormatFrames, FormatTime, FormatSeconds:
	default:
		return fmt.Errorf("unknown cut point format %q", s.Cut.Format)
	}

	if s.Cut.Action == ActionExtract && s.Cut.ExtractDir == "" {
		return fmt.Errorf("extract action requires an extraction directory")
	}

	if s.Cut.MinSilencePeriod <= 0 {
		return fmt.Errorf("minimum silence period must be a positive number of milliseconds")
	}
	if s.Cut.MinSignalPeriod <= 0 {
		return fmt.Errorf("minimum signal period must be a positive number of milliseconds")
	}
	if s.Cut.MinTrackLength <= 0 {
		return fmt.Errorf("minimum track length must be a positive number of seconds")
	}
	if s.Cut.NoiseFloorDbfs >= 0 {
		return fmt.Errorf("noise floor must be a negative dBFS value, got %f", s.Cut.NoiseFloorDbfs)
	}

	if s.Input.TimeRange != "" && s.Input.FrameRange != "" {
		return fmt.Errorf("time range and frame range are mutually exclusive")
	}
	if s.Input.TimeRange != "" {
		if _, _, err := ParseTimeRange(s.Input.TimeRange); err != nil {
			return err
		}
	}
	if s.Input.FrameRange != "" {
		if _, _, err := ParseFrameRange(s.Input.FrameRange); err != nil {
			return err
		}
	}
	if s.Cut.TrackRange != "" {
		if _, _, err := ParseTrackRange(s.Cut.TrackRange); err != nil {
			return err
		}
	}

	if len(s.Signal.DCOffset) > MaxChannels {
		return fmt.Errorf("at most %d DC offsets may be given", MaxChannels)
	}
	for _, n := range s.Signal.DCOffset {
		if n > 1.0 || n < -1.0 {
			return fmt.Errorf("DC offset value %f is outside [-1.0, +1.0]", n)
		}
	}

	if s.Input.Path == "-" && s.Cut.TrackNamesFile == "-" {
		return fmt.Errorf("can't read both audio data and track names from standard input")
	}

	if s.Input.Raw.Enabled {
		if err := validateRaw(&s.Input.Raw); err != nil {
			return err
		}
	}
	return nil
}

func validateRaw(r *RawInputSettings) error {
	if r.Rate <= 0 {
		return fmt.Errorf("raw audio sampling rate must be given with --rate")
	}
	if r.Channels <= 0 {
		return fmt.Errorf("raw audio number of channels must be given with --channels")
	}
	if r.Channels > MaxChannels {
		return fmt.Errorf("raw audio supports up to %d channels", MaxChannels)
	}
	switch r.Bits {
	case 8, 16, 24, 32, 64:
	default:
		return fmt.Errorf("raw audio supports 8, 16, 24, 32 or 64-bit samples")
	}
	switch r.Encoding {
	case EncodingSigned:
		if r.Bits == 64 {
			return fmt.Errorf("raw audio allows 8, 16, 24 or 32-bit signed integer samples")
		}
	case EncodingUnsigned:
		if r.Bits != 8 {
			return fmt.Errorf("raw audio allows 8-bit unsigned integer samples only")
		}
	case EncodingFloat:
		if r.Bits != 32 && r.Bits != 64 {
			return fmt.Errorf("raw audio supports 32 and 64-bit floating point samples")
		}
	default:
		return fmt.Errorf("raw audio sample encoding must be signed, unsigned or float")
	}
	return nil
}
