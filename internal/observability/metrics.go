// Package observability provides Prometheus metrics for the segmentation
// pipeline. Metrics are optional: all recording methods are safe to call
// on a nil receiver, so call sites never need to guard against a missing
// metrics instance.
package observability

import (
	"fmt"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// SegmenterMetrics contains Prometheus metrics for the segmentation run.
type SegmenterMetrics struct {
	registry *prometheus.Registry

	framesProcessedTotal prometheus.Counter
	framesReadTotal      prometheus.Counter
	tracksFinalizedTotal prometheus.Counter
	falseStartsTotal     *prometheus.CounterVec
	leadInOverflowsTotal prometheus.Counter
	trackDuration        prometheus.Histogram
	framesWrittenTotal   prometheus.Counter
}

// NewSegmenterMetrics creates and registers segmenter metrics on the given
// registry.
func NewSegmenterMetrics(registry *prometheus.Registry) (*SegmenterMetrics, error) {
	m := &SegmenterMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register segmenter metrics: %w", err)
	}
	return m, nil
}

func (m *SegmenterMetrics) initMetrics() {
	m.framesProcessedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "segmenter_frames_processed_total",
			Help: "Total number of frames classified by the segmenter",
		},
	)
	m.framesReadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "segmenter_frames_read_total",
			Help: "Total number of frames read from the input stream",
		},
	)
	m.tracksFinalizedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "segmenter_tracks_finalized_total",
			Help: "Total number of tracks detected and finalized",
		},
	)
	m.falseStartsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "segmenter_false_starts_total",
			Help: "Energy bursts shorter than the minimum signal period",
		},
		[]string{"state"},
	)
	m.leadInOverflowsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "segmenter_leadin_overflows_total",
			Help: "Frames dropped because the lead-in buffer was full",
		},
	)
	m.trackDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "segmenter_track_duration_seconds",
			Help:    "Duration of finalized tracks",
			Buckets: prometheus.ExponentialBuckets(30, 2, 8), // 30s to ~1h
		},
	)
	m.framesWrittenTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "segmenter_frames_written_total",
			Help: "Total number of frames written to extracted track files",
		},
	)
}

// Describe implements the prometheus.Collector interface.
func (m *SegmenterMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.framesProcessedTotal.Describe(ch)
	m.framesReadTotal.Describe(ch)
	m.tracksFinalizedTotal.Describe(ch)
	m.falseStartsTotal.Describe(ch)
	m.leadInOverflowsTotal.Describe(ch)
	m.trackDuration.Describe(ch)
	m.framesWrittenTotal.Describe(ch)
}

// Collect implements the prometheus.Collector interface.
func (m *SegmenterMetrics) Collect(ch chan<- prometheus.Metric) {
	m.framesProcessedTotal.Collect(ch)
	m.framesReadTotal.Collect(ch)
	m.tracksFinalizedTotal.Collect(ch)
	m.falseStartsTotal.Collect(ch)
	m.leadInOverflowsTotal.Collect(ch)
	m.trackDuration.Collect(ch)
	m.framesWrittenTotal.Collect(ch)
}

// RecordFramesProcessed adds to the classified frame count.
func (m *SegmenterMetrics) RecordFramesProcessed(n int) {
	if m == nil {
		return
	}
	m.framesProcessedTotal.Add(float64(n))
}

// RecordFramesRead adds to the input frame count.
func (m *SegmenterMetrics) RecordFramesRead(n int) {
	if m == nil {
		return
	}
	m.framesReadTotal.Add(float64(n))
}

// RecordTrackFinalized records one completed track and its duration.
func (m *SegmenterMetrics) RecordTrackFinalized(durationSeconds float64) {
	if m == nil {
		return
	}
	m.tracksFinalizedTotal.Inc()
	m.trackDuration.Observe(durationSeconds)
}

// RecordFalseStart records an energy burst rejected before confirmation.
func (m *SegmenterMetrics) RecordFalseStart(state string) {
	if m == nil {
		return
	}
	m.falseStartsTotal.WithLabelValues(state).Inc()
}

// RecordLeadInOverflow records a frame dropped from a full lead-in buffer.
func (m *SegmenterMetrics) RecordLeadInOverflow() {
	if m == nil {
		return
	}
	m.leadInOverflowsTotal.Inc()
}

// RecordFramesWritten adds to the extracted frame count.
func (m *SegmenterMetrics) RecordFramesWritten(n int) {
	if m == nil {
		return
	}
	m.framesWrittenTotal.Add(float64(n))
}

// Summary gathers the registry and returns a flat name-to-value map of
// counter and histogram sample sums, for end-of-run debug logging.
func (m *SegmenterMetrics) Summary() (map[string]float64, error) {
	if m == nil {
		return nil, nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}
	out := make(map[string]float64, len(families))
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				out[mf.GetName()] += metric.GetCounter().GetValue()
			case dto.MetricType_HISTOGRAM:
				out[mf.GetName()] += metric.GetHistogram().GetSampleSum()
			case dto.MetricType_GAUGE:
				out[mf.GetName()] += metric.GetGauge().GetValue()
			}
		}
	}
	return out, nil
}

// SummaryKeys returns the metric names of a Summary in stable order.
func SummaryKeys(summary map[string]float64) []string {
	keys := make([]string, 0, len(summary))
	for k := range summary {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
