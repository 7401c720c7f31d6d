package conf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeCode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{"seconds_only", "90.5", 90.5},
		{"minutes_seconds", "2:30", 150.0},
		{"hours_minutes_seconds", "1:02:03.5", 3723.5},
		{"carry_over_minutes", "90:00", 5400.0},
		{"zero", "0", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sec, err := ParseTimeCode(tt.input, -1)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, sec, 1e-9)
		})
	}

	t.Run("empty_uses_default", func(t *testing.T) {
		sec, err := ParseTimeCode("  ", 42.0)
		require.NoError(t, err)
		assert.InDelta(t, 42.0, sec, 1e-9)
	})

	t.Run("malformed", func(t *testing.T) {
		for _, s := range []string{"1:2:3:4", "abc", "1:xx", "-5"} {
			_, err := ParseTimeCode(s, 0)
			assert.Error(t, err, "input %q", s)
		}
	})
}

func TestParseTimeRange(t *testing.T) {
	t.Run("full", func(t *testing.T) {
		start, end, err := ParseTimeRange("1:00-2:30")
		require.NoError(t, err)
		assert.InDelta(t, 60.0, start, 1e-9)
		assert.InDelta(t, 150.0, end, 1e-9)
	})

	t.Run("open_start", func(t *testing.T) {
		start, end, err := ParseTimeRange("-30")
		require.NoError(t, err)
		assert.InDelta(t, 0.0, start, 1e-9)
		assert.InDelta(t, 30.0, end, 1e-9)
	})

	t.Run("open_end", func(t *testing.T) {
		start, end, err := ParseTimeRange("30-")
		require.NoError(t, err)
		assert.InDelta(t, 30.0, start, 1e-9)
		assert.True(t, math.IsInf(end, 1))
	})

	t.Run("inverted", func(t *testing.T) {
		_, _, err := ParseTimeRange("2:00-1:00")
		assert.Error(t, err)
	})

	t.Run("no_hyphen", func(t *testing.T) {
		_, _, err := ParseTimeRange("120")
		assert.Error(t, err)
	})
}

func TestParseFrameRange(t *testing.T) {
	start, end, err := ParseFrameRange("1000-2000")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), start)
	assert.Equal(t, int64(2000), end)

	start, end, err = ParseFrameRange("-")
	require.NoError(t, err)
	assert.Equal(t, int64(0), start)
	assert.Equal(t, int64(math.MaxInt64), end)

	_, _, err = ParseFrameRange("2000-1000")
	assert.Error(t, err)
}

func TestParseTrackRange(t *testing.T) {
	start, end, err := ParseTrackRange("3-7")
	require.NoError(t, err)
	assert.Equal(t, 3, start)
	assert.Equal(t, 7, end)

	start, end, err = ParseTrackRange("-5")
	require.NoError(t, err)
	assert.Equal(t, 1, start)
	assert.Equal(t, 5, end)

	_, _, err = ParseTrackRange("0-5")
	assert.Error(t, err)
}

func TestParseDCOffsets(t *testing.T) {
	offsets, err := ParseDCOffsets("0.01,-0.02")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.01, -0.02}, offsets, 1e-9)

	offsets, err = ParseDCOffsets("")
	require.NoError(t, err)
	assert.Nil(t, offsets)

	_, err = ParseDCOffsets("1.5")
	assert.Error(t, err)

	_, err = ParseDCOffsets("a,b")
	assert.Error(t, err)

	_, err = ParseDCOffsets("0,0,0,0,0,0,0,0,0")
	assert.Error(t, err)
}

func validSettings() *Settings {
	return &Settings{
		Input: InputSettings{Path: "input.wav"},
		Cut: CutSettings{
			Action:           ActionLog,
			CutsFile:         "-",
			MinSilencePeriod: 2000,
			MinSignalPeriod:  100,
			MinTrackLength:   40,
			NoiseFloorDbfs:   -48.0,
			Format:           FormatTime,
		},
	}
}

func TestValidate(t *testing.T) {
	t.Run("defaults_pass", func(t *testing.T) {
		assert.NoError(t, Validate(validSettings()))
	})

	t.Run("missing_input", func(t *testing.T) {
		s := validSettings()
		s.Input.Path = ""
		assert.Error(t, Validate(s))
	})

	t.Run("positive_noise_floor", func(t *testing.T) {
		s := validSettings()
		s.Cut.NoiseFloorDbfs = 3.0
		assert.Error(t, Validate(s))
	})

	t.Run("extract_requires_dir", func(t *testing.T) {
		s := validSettings()
		s.Cut.Action = ActionExtract
		assert.Error(t, Validate(s))
		s.Cut.ExtractDir = "tracks"
		assert.NoError(t, Validate(s))
	})

	t.Run("exclusive_ranges", func(t *testing.T) {
		s := validSettings()
		s.Input.TimeRange = "0-10"
		s.Input.FrameRange = "0-480000"
		assert.Error(t, Validate(s))
	})

	t.Run("stdin_conflict", func(t *testing.T) {
		s := validSettings()
		s.Input.Path = "-"
		s.Cut.TrackNamesFile = "-"
		assert.Error(t, Validate(s))
	})

	t.Run("raw_requires_parameters", func(t *testing.T) {
		s := validSettings()
		s.Input.Raw.Enabled = true
		assert.Error(t, Validate(s))

		s.Input.Raw = RawInputSettings{
			Enabled:  true,
			Rate:     44100,
			Channels: 2,
			Bits:     16,
			Encoding: EncodingSigned,
		}
		assert.NoError(t, Validate(s))
	})

	t.Run("raw_rejects_unsigned_16", func(t *testing.T) {
		s := validSettings()
		s.Input.Raw = RawInputSettings{
			Enabled:  true,
			Rate:     44100,
			Channels: 2,
			Bits:     16,
			Encoding: EncodingUnsigned,
		}
		assert.Error(t, Validate(s))
	})
}
