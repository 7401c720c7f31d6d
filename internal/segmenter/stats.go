package segmenter

import (
	"fmt"
	"io"
	"math"
)

// ChannelStats holds the per-channel results of an analysis pass. Levels
// are in the [-1.0, +1.0] sample domain with dBFS conversions alongside.
type ChannelStats struct {
	PosPeak  float64
	NegPeak  float64
	PeakDbfs float64

	MinRMS     float64
	MaxRMS     float64
	AvgRMS     float64
	MinRMSDbfs float64
	MaxRMSDbfs float64
	AvgRMSDbfs float64

	// DCOffset is the mean rejected low-frequency component, an estimate
	// of the recording's DC bias. Zero when the high-pass filter was
	// active, since the rejected component is then removed from the
	// signal instead of measured.
	DCOffset     float64
	DCOffsetDbfs float64
}

// Report is the outcome of an analysis pass over a recording.
type Report struct {
	Channels       []ChannelStats
	FramesRead     int64
	FramesObserved int64
	SampleRate     int
}

// collector accumulates analysis statistics one classified frame at a
// time: instantaneous window RMS extremes and running total, and raw
// sample peaks at the window center.
type collector struct {
	channels int
	observed int64

	minRMS  []float64
	maxRMS  []float64
	rmsTtl  []float64
	posPeak []float64
	negPeak []float64
}

func newCollector(channels int) *collector {
	col := &collector{
		channels: channels,
		minRMS:   make([]float64, channels),
		maxRMS:   make([]float64, channels),
		rmsTtl:   make([]float64, channels),
		posPeak:  make([]float64, channels),
		negPeak:  make([]float64, channels),
	}
	for ch := 0; ch < channels; ch++ {
		col.minRMS[ch] = math.Inf(1)
	}
	return col
}

// observe records one center frame and the current window energy.
func (col *collector) observe(center []float64, energy *energyTracker) {
	for ch := 0; ch < col.channels; ch++ {
		rms := energy.rms(ch)
		col.rmsTtl[ch] += rms
		col.minRMS[ch] = math.Min(col.minRMS[ch], rms)
		col.maxRMS[ch] = math.Max(col.maxRMS[ch], rms)
		col.posPeak[ch] = math.Max(col.posPeak[ch], center[ch])
		col.negPeak[ch] = math.Min(col.negPeak[ch], center[ch])
	}
	col.observed++
}

// snapshot folds the accumulated values, plus the conditioner's rejected
// component totals, into a Report.
func (col *collector) snapshot(rejTotals []float64, framesRead int64, sampleRate int) *Report {
	r := &Report{
		Channels:       make([]ChannelStats, col.channels),
		FramesRead:     framesRead,
		FramesObserved: col.observed,
		SampleRate:     sampleRate,
	}
	for ch := 0; ch < col.channels; ch++ {
		cs := &r.Channels[ch]
		cs.PosPeak = col.posPeak[ch]
		cs.NegPeak = col.negPeak[ch]
		cs.PeakDbfs = math.Max(LevelToDbfs(cs.PosPeak), LevelToDbfs(cs.NegPeak))
		cs.MinRMS = col.minRMS[ch]
		cs.MaxRMS = col.maxRMS[ch]
		if col.observed > 0 {
			cs.AvgRMS = col.rmsTtl[ch] / float64(col.observed)
		}
		cs.MinRMSDbfs = LevelToDbfs(cs.MinRMS)
		cs.MaxRMSDbfs = LevelToDbfs(cs.MaxRMS)
		cs.AvgRMSDbfs = LevelToDbfs(cs.AvgRMS)
		if framesRead > 0 {
			cs.DCOffset = rejTotals[ch] / float64(framesRead)
		}
		cs.DCOffsetDbfs = LevelToDbfs(cs.DCOffset)
	}
	return r
}

// LevelToDbfs converts a sample level in [-1.0, +1.0] into decibels
// relative to full scale. Zero maps to negative infinity.
func LevelToDbfs(x float64) float64 {
	if x == 0.0 {
		return math.Inf(-1)
	}
	return 20.0 * math.Log10(math.Abs(x))
}

// Render writes the analysis page: one column per channel, one statistic
// per row, and a ready-made --dc-offset argument that would null out the
// measured bias.
func (r *Report) Render(w io.Writer) error {
	if err := r.renderHeader(w); err != nil {
		return err
	}

	rows := []struct {
		header string
		format string
		field  func(*ChannelStats) float64
	}{
		{"positive_peak", "  %+1.16f", func(c *ChannelStats) float64 { return c.PosPeak }},
		{"negative_peak", "  %+1.16f", func(c *ChannelStats) float64 { return c.NegPeak }},
		{"peak_dbfs", "  %+3.14f", func(c *ChannelStats) float64 { return c.PeakDbfs }},
		{"min_rms", "  %+1.16f", func(c *ChannelStats) float64 { return c.MinRMS }},
		{"max_rms", "  %+1.16f", func(c *ChannelStats) float64 { return c.MaxRMS }},
		{"avg_rms", "  %+1.16f", func(c *ChannelStats) float64 { return c.AvgRMS }},
		{"min_rms_dbfs", "  %+3.14f", func(c *ChannelStats) float64 { return c.MinRMSDbfs }},
		{"max_rms_dbfs", "  %+3.14f", func(c *ChannelStats) float64 { return c.MaxRMSDbfs }},
		{"avg_rms_dbfs", "  %+3.14f", func(c *ChannelStats) float64 { return c.AvgRMSDbfs }},
		{"dc_offset", "  %+1.16f", func(c *ChannelStats) float64 { return c.DCOffset }},
		{"dc_offset_dbfs", "  %+3.14f", func(c *ChannelStats) float64 { return c.DCOffsetDbfs }},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%20s", row.header); err != nil {
			return err
		}
		for ch := range r.Channels {
			cell := fmt.Sprintf(row.format, row.field(&r.Channels[ch]))
			if _, err := fmt.Fprintf(w, "%20s", cell); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	// Emit the exact argument that would correct the measured offset.
	arg := ""
	for ch := range r.Channels {
		if ch > 0 {
			arg += ","
		}
		arg += fmt.Sprintf("%+f", -r.Channels[ch].DCOffset)
	}
	_, err := fmt.Fprintf(w, "%20s  --dc-offset=%s\n", "fix_dc_offset_arg", arg)
	return err
}

func (r *Report) renderHeader(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%-20s", "statistic"); err != nil {
		return err
	}
	switch len(r.Channels) {
	case 1:
		_, err := fmt.Fprintln(w, "mono_channel")
		return err
	case 2:
		_, err := fmt.Fprintf(w, "%20s%20s\n", "left_channel", "right_channel")
		return err
	default:
		for ch := range r.Channels {
			if _, err := fmt.Fprintf(w, "channel_%-6d", ch); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintln(w)
		return err
	}
}
