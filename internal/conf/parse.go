// parse.go: parsing helpers for range and offset arguments. These mirror the
// command-line surface: two timecodes or integers separated by a hyphen, with
// either side omissible.
package conf

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseTimeCode parses a timecode string and returns an absolute number of
// seconds. Accepted forms are "SS.SSS", "MM:SS.SSS" and "HH:MM:SS.SSS".
// Minutes and seconds may exceed 59, in which case they carry over. An empty
// or all-whitespace string yields the supplied default.
func ParseTimeCode(s string, dfl float64) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return dfl, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("timecode %q is malformed", s)
	}

	// Rightmost field is seconds with optional fraction, the rest are
	// integer minutes/hours.
	sec, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil || sec < 0 {
		return 0, fmt.Errorf("timecode %q is malformed", s)
	}
	multiplier := 60.0
	for i := len(parts) - 2; i >= 0; i-- {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 {
			return 0, fmt.Errorf("timecode %q is malformed", s)
		}
		sec += float64(n) * multiplier
		multiplier *= 60.0
	}
	return sec, nil
}

// ParseTimeRange parses a "start-end" pair of timecodes. An omitted start
// means the beginning of the recording; an omitted end means the end of the
// recording (+Inf).
func ParseTimeRange(s string) (start, end float64, err error) {
	left, right, err := splitRange(s)
	if err != nil {
		return 0, 0, err
	}
	if start, err = ParseTimeCode(left, 0.0); err != nil {
		return 0, 0, err
	}
	if end, err = ParseTimeCode(right, math.Inf(1)); err != nil {
		return 0, 0, err
	}
	if end < start {
		return 0, 0, fmt.Errorf("time range %q has end point before start", s)
	}
	return start, end, nil
}

// ParseFrameRange parses a "start-end" pair of frame indices. An omitted
// start means frame zero; an omitted end means the end of the recording.
func ParseFrameRange(s string) (start, end int64, err error) {
	left, right, err := splitRange(s)
	if err != nil {
		return 0, 0, err
	}
	if start, err = parseBoundary(left, 0); err != nil {
		return 0, 0, err
	}
	if end, err = parseBoundary(right, math.MaxInt64); err != nil {
		return 0, 0, err
	}
	if end < start {
		return 0, 0, fmt.Errorf("frame range %q has end point before start", s)
	}
	return start, end, nil
}

// ParseTrackRange parses a "start-end" pair of track numbers. An omitted
// start means track 1; an omitted end means processing continues until the
// end of the recording.
func ParseTrackRange(s string) (start, end int, err error) {
	left, right, err := splitRange(s)
	if err != nil {
		return 0, 0, err
	}
	s64, err := parseBoundary(left, 1)
	if err != nil {
		return 0, 0, err
	}
	e64, err := parseBoundary(right, math.MaxInt)
	if err != nil {
		return 0, 0, err
	}
	if s64 < 1 {
		return 0, 0, fmt.Errorf("track numbers must be positive in range %q", s)
	}
	if e64 < s64 {
		return 0, 0, fmt.Errorf("track range %q has end point before start", s)
	}
	return int(s64), int(e64), nil
}

// ParseDCOffsets parses a comma-separated list of per-channel DC offsets.
// Each offset must lie within [-1.0, +1.0]; at most MaxChannels values.
func ParseDCOffsets(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	if len(fields) > MaxChannels {
		return nil, fmt.Errorf("at most %d DC offsets may be given", MaxChannels)
	}
	offsets := make([]float64, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("DC offset value %q is non-numeric", f)
		}
		if n > 1.0 || n < -1.0 {
			return nil, fmt.Errorf("DC offset value %f is outside [-1.0, +1.0]", n)
		}
		offsets = append(offsets, n)
	}
	return offsets, nil
}

func splitRange(s string) (left, right string, err error) {
	if strings.Count(s, "-") != 1 {
		return "", "", fmt.Errorf("range %q must be two values separated by a hyphen", s)
	}
	left, right, _ = strings.Cut(s, "-")
	return left, right, nil
}

func parseBoundary(s string, dfl int64) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return dfl, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("boundary %q is malformed", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("boundary %q must not be negative", s)
	}
	return n, nil
}
