// Package runner wires the configured input, output and segmentation
// engine together for one command invocation.
package runner

import (
	"context"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tphakala/trackcutter-go/internal/audiofile"
	"github.com/tphakala/trackcutter-go/internal/conf"
	"github.com/tphakala/trackcutter-go/internal/cutlog"
	"github.com/tphakala/trackcutter-go/internal/errors"
	"github.com/tphakala/trackcutter-go/internal/logging"
	"github.com/tphakala/trackcutter-go/internal/observability"
	"github.com/tphakala/trackcutter-go/internal/segmenter"
	"github.com/tphakala/trackcutter-go/internal/tracknames"
)

// buildParams derives the engine's frame-domain parameters from the
// user-facing settings and the opened stream's properties.
func buildParams(s *conf.Settings, info audiofile.AudioInfo) (segmenter.Params, error) {
	rate := int64(info.SampleRate)

	p := segmenter.Params{
		SampleRate:     info.SampleRate,
		Channels:       info.NumChannels,
		NoiseFloorDbfs: s.Cut.NoiseFloorDbfs,
		MinSilenceLen:  rate * int64(s.Cut.MinSilencePeriod) / 1000,
		MinSignalLen:   rate * int64(s.Cut.MinSignalPeriod) / 1000,
		MinTrackLen:    rate * int64(s.Cut.MinTrackLength),
		EndFrame:       math.MaxInt64,
		FirstTrackNum:  1,
		LastTrackNum:   math.MaxInt,
		DCOffset:       s.Signal.DCOffset,
		HighPass:       s.Signal.HighPass,
	}

	switch {
	case s.Input.TimeRange != "":
		startSec, endSec, err := conf.ParseTimeRange(s.Input.TimeRange)
		if err != nil {
			return p, err
		}
		p.StartFrame = int64(startSec * float64(rate))
		if !math.IsInf(endSec, 1) {
			p.EndFrame = int64(endSec * float64(rate))
		}
	case s.Input.FrameRange != "":
		start, end, err := conf.ParseFrameRange(s.Input.FrameRange)
		if err != nil {
			return p, err
		}
		p.StartFrame = start
		p.EndFrame = end
	}

	if s.Cut.TrackRange != "" {
		start, end, err := conf.ParseTrackRange(s.Cut.TrackRange)
		if err != nil {
			return p, err
		}
		// Numbering picks up at the range start only when a names list
		// keeps numbers and names aligned; otherwise detected tracks are
		// numbered from one.
		if s.Cut.TrackNamesFile != "" {
			p.FirstTrackNum = start
		}
		p.LastTrackNum = end
	}
	return p, nil
}

// openInput opens the configured source and skips to the start of the
// requested region.
func openInput(s *conf.Settings, log *slog.Logger) (audiofile.Source, audiofile.AudioInfo, segmenter.Params, error) {
	src, info, err := audiofile.Open(s)
	if err != nil {
		return nil, audiofile.AudioInfo{}, segmenter.Params{}, err
	}

	params, err := buildParams(s, info)
	if err != nil {
		_ = src.Close()
		return nil, audiofile.AudioInfo{}, segmenter.Params{}, err
	}

	log.Debug("input opened",
		"path", s.Input.Path,
		"sample_rate", info.SampleRate,
		"channels", info.NumChannels,
		"bit_depth", info.BitDepth,
		"total_frames", info.TotalSamples)

	if params.StartFrame > 0 {
		if err := src.SkipFrames(params.StartFrame); err != nil {
			_ = src.Close()
			return nil, audiofile.AudioInfo{}, segmenter.Params{}, errors.New(err).
				Component("runner").
				Category(errors.CategoryFileIO).
				Context("operation", "seek").
				Context("start_frame", params.StartFrame).
				Build()
		}
		log.Debug("repositioned input", "start_frame", params.StartFrame)
	}
	return src, info, params, nil
}

// runLogger returns the logger segmentation runs use: the configured log
// file when file logging is enabled, the service logger otherwise.
func runLogger(s *conf.Settings) (*slog.Logger, func() error) {
	level := slog.LevelInfo
	if s.Debug {
		level = slog.LevelDebug
	}
	if s.Log.Enabled {
		logger, closeFn, err := logging.NewFileLogger(s.Log.Path, "trackcutter", level)
		if err == nil {
			return logger, closeFn
		}
		logging.Warn("failed to open log file, logging to stderr", "path", s.Log.Path, "error", err)
	}
	return logging.ForService("trackcutter"), func() error { return nil }
}

// Cut runs boundary detection over the configured input, either logging
// cut points or extracting track files.
func Cut(ctx context.Context, s *conf.Settings) error {
	log, closeLog := runLogger(s)
	defer func() { _ = closeLog() }()

	src, info, params, err := openInput(s, log)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	metrics, err := observability.NewSegmenterMetrics(prometheus.NewRegistry())
	if err != nil {
		return err
	}

	deps := segmenter.Deps{
		Metrics: metrics,
		Logger:  log,
	}

	if s.Cut.TrackNamesFile != "" {
		names, err := tracknames.Open(s.Cut.TrackNamesFile, params.FirstTrackNum-1)
		if err != nil {
			return err
		}
		defer func() { _ = names.Close() }()
		deps.Names = names
	}

	switch s.Cut.Action {
	case conf.ActionExtract:
		params.Extract = true
		sink, err := audiofile.NewWAVSink(s.Cut.ExtractDir, info.SampleRate, info.BitDepth, info.NumChannels)
		if err != nil {
			return err
		}
		deps.Sink = sink
	default:
		out, closeOut, err := openCutsOutput(s.Cut.CutsFile)
		if err != nil {
			return err
		}
		defer func() { _ = closeOut() }()

		cw := cutlog.NewWriter(out, info.SampleRate, s.Cut.Format, s.Cut.TrackNamesFile != "")
		if !s.Cut.NoHeader {
			if err := cw.WriteHeader(); err != nil {
				return err
			}
		}
		deps.Cuts = cw
	}

	eng, err := segmenter.New(params, src, deps)
	if err != nil {
		return err
	}
	if err := eng.Run(ctx); err != nil {
		return err
	}

	if s.Debug {
		logMetricsSummary(log, metrics)
	}
	return nil
}

// Analyze runs a statistics pass over the configured input and renders
// the report to standard output.
func Analyze(ctx context.Context, s *conf.Settings) error {
	log, closeLog := runLogger(s)
	defer func() { _ = closeLog() }()

	src, _, params, err := openInput(s, log)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	eng, err := segmenter.New(params, src, segmenter.Deps{Logger: log})
	if err != nil {
		return err
	}
	report, err := eng.Analyze(ctx)
	if err != nil {
		return err
	}
	return report.Render(os.Stdout)
}

func openCutsOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.New(err).
			Component("runner").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	return f, f.Close, nil
}

func logMetricsSummary(log *slog.Logger, metrics *observability.SegmenterMetrics) {
	summary, err := metrics.Summary()
	if err != nil {
		log.Warn("failed to gather metrics", "error", err)
		return
	}
	attrs := make([]any, 0, len(summary)*2)
	for _, name := range observability.SummaryKeys(summary) {
		attrs = append(attrs, name, summary[name])
	}
	log.Debug("run metrics", attrs...)
}
