package segmenter

import (
	"context"
	"io"
	"log/slog"
	"math"

	"github.com/tphakala/trackcutter-go/internal/conf"
	"github.com/tphakala/trackcutter-go/internal/errors"
	"github.com/tphakala/trackcutter-go/internal/logging"
	"github.com/tphakala/trackcutter-go/internal/observability"
)

// Params configures a segmentation run. All lengths are in frames; the
// runner converts the user-facing millisecond and second settings using
// the input sample rate.
type Params struct {
	SampleRate int
	Channels   int

	// WindowLen overrides the RMS window length. Zero derives it from
	// the sample rate and the standard window period.
	WindowLen int

	NoiseFloorDbfs float64
	MinSignalLen   int64
	MinSilenceLen  int64
	MinTrackLen    int64

	// StartFrame and EndFrame bound the processed region. The source
	// must already be positioned at StartFrame.
	StartFrame int64
	EndFrame   int64

	// FirstTrackNum numbers the first detected track; LastTrackNum stops
	// the run once exceeded.
	FirstTrackNum int
	LastTrackNum  int

	DCOffset []float64
	HighPass bool

	// Extract enables track file output through the sink; otherwise
	// detected boundaries go to the cut writer only.
	Extract bool
}

// Deps are the collaborators of a run. Sink is required when extracting,
// Cuts when logging; Names, Metrics and Logger are optional.
type Deps struct {
	Sink    TrackSink
	Cuts    CutWriter
	Names   NameSource
	Metrics *observability.SegmenterMetrics
	Logger  *slog.Logger
}

// Engine drives segmentation over a frame stream in constant memory. It
// primes the ring buffers with half a window of read-ahead so the first
// classified frame is the first real frame, then classifies one frame per
// iteration until the stream and the synthetic silence drain are spent.
type Engine struct {
	p    Params
	deps Deps
	src  FrameSource

	windowLen int
	raFrames  int64

	frames *ring
	energy *energyTracker
	cond   *conditioner
	leadIn *leadInBuffer
	track  *tracker

	pos             int64
	framesRemaining int64
	framesRead      int64
	inEOF           bool

	trackNum  int
	trackName string
	out       TrackWriter
}

// New builds an engine for the given stream. The source must deliver
// frames with p.Channels samples each.
func New(p Params, src FrameSource, deps Deps) (*Engine, error) {
	if p.SampleRate <= 0 {
		return nil, errors.Newf("sample rate %d is not positive", p.SampleRate).
			Component("segmenter").
			Category(errors.CategoryValidation).
			Build()
	}
	if p.Channels <= 0 || p.Channels > conf.MaxChannels {
		return nil, errors.Newf("channel count %d is outside 1..%d", p.Channels, conf.MaxChannels).
			Component("segmenter").
			Category(errors.CategoryValidation).
			Build()
	}

	windowLen := p.WindowLen
	if windowLen == 0 {
		windowLen = p.SampleRate * conf.RMSWindowMs / 1000
	}
	if windowLen < 2 {
		return nil, errors.Newf("RMS window of %d frames is too short", windowLen).
			Component("segmenter").
			Category(errors.CategoryValidation).
			Build()
	}
	if p.Extract && deps.Sink == nil {
		return nil, errors.Newf("extraction requires a track sink").
			Component("segmenter").
			Category(errors.CategoryValidation).
			Build()
	}
	if deps.Logger == nil {
		deps.Logger = logging.ForService("segmenter")
	}
	if p.EndFrame <= p.StartFrame {
		p.EndFrame = math.MaxInt64
	}
	if p.LastTrackNum < 1 {
		p.LastTrackNum = math.MaxInt
	}

	e := &Engine{
		p:         p,
		deps:      deps,
		windowLen: windowLen,
		raFrames:  int64(windowLen - windowLen/2),
		src:       src,
		frames:    newRing(windowLen, p.Channels),
		energy:    newEnergyTracker(windowLen, p.Channels, p.NoiseFloorDbfs),
		cond:      newConditioner(p.Channels, p.SampleRate, p.DCOffset, p.HighPass),
		track:     newTracker(p.MinSignalLen, p.MinSilenceLen, p.MinTrackLen),

		pos:             p.StartFrame,
		framesRemaining: p.EndFrame - p.StartFrame,
		trackNum:        p.FirstTrackNum,
	}
	if e.trackNum < 1 {
		e.trackNum = 1
	}
	if p.Extract {
		capacity := int(p.MinSignalLen)
		if capacity < 1 {
			capacity = 1
		}
		e.leadIn = newLeadInBuffer(capacity, p.Channels)
	}

	e.deps.Logger.Debug("segmenter configured",
		"window_frames", windowLen,
		"read_ahead_frames", e.raFrames,
		"min_signal_frames", p.MinSignalLen,
		"min_silence_frames", p.MinSilenceLen,
		"min_track_frames", p.MinTrackLen,
		"noise_floor_dbfs", p.NoiseFloorDbfs)
	return e, nil
}

// prime slurps the initial read-ahead of frames into the second half of
// the ring, so the energy window around the first classified frame is
// complete. A stream shorter than the read-ahead is padded with silence.
func (e *Engine) prime() error {
	half := e.windowLen / 2
	for i := half; i < e.windowLen; i++ {
		if e.inEOF {
			break
		}
		err := e.src.ReadFrame(e.frames.frame(i))
		switch {
		case err == nil:
			e.framesRead++
			e.deps.Metrics.RecordFramesRead(1)
		case errors.Is(err, io.EOF):
			e.inEOF = true
			if e.raFrames < e.framesRemaining {
				e.framesRemaining = e.raFrames
			}
		default:
			return errors.New(err).
				Component("segmenter").
				Category(errors.CategoryFileIO).
				Context("operation", "prime").
				Build()
		}
	}
	for i := half; i < e.windowLen; i++ {
		frame := e.frames.frame(i)
		e.cond.process(frame)
		e.energy.insertAt(i, frame)
	}
	return nil
}

// fetch replaces the tail frame with the next incoming frame, advancing
// all cursors and conditioning the newcomer. Past the end of the stream
// it feeds synthetic silence until the read-ahead overshoot is drained,
// then reports false.
func (e *Engine) fetch() (bool, error) {
	more := true
	tail := e.frames.tailFrame()

	if !e.inEOF && e.framesRemaining > 0 {
		e.framesRemaining--
		err := e.src.ReadFrame(tail)
		switch {
		case err == nil:
			e.framesRead++
			e.deps.Metrics.RecordFramesRead(1)
		case errors.Is(err, io.EOF):
			e.inEOF = true
			if e.raFrames < e.framesRemaining {
				e.framesRemaining = e.raFrames
			}
			zeroFrame(tail)
		default:
			return false, errors.New(err).
				Component("segmenter").
				Category(errors.CategoryFileIO).
				Context("operation", "read_frame").
				Context("position", e.pos).
				Build()
		}
	} else {
		zeroFrame(tail)
		if e.framesRemaining > 0 {
			e.framesRemaining--
		} else {
			more = false
		}
	}

	e.pos++
	e.frames.advance()
	e.energy.advance()
	head := e.frames.headFrame()
	e.cond.process(head)
	e.energy.insert(head)
	e.deps.Metrics.RecordFramesProcessed(1)
	return more, nil
}

// step classifies the center frame and carries out whatever the boundary
// detector decides.
func (e *Engine) step() error {
	prevStart := e.track.trackStart
	act := e.track.step(e.energy.signalPresent(), e.pos)

	if act.purgeLead {
		if e.leadIn != nil {
			e.leadIn.purge()
		}
		e.deps.Metrics.RecordFalseStart(StateTrackStarting.String())
		e.deps.Logger.Debug("false positive rejected",
			"start_frame", prevStart,
			"end_frame", e.pos,
			"frames", e.pos-prevStart)
	}
	if act.appendLead && e.leadIn != nil {
		if !e.leadIn.add(e.frames.centerFrame()) {
			e.deps.Metrics.RecordLeadInOverflow()
			e.deps.Logger.Warn("lead-in buffer is overflowing", "position", e.pos)
		}
	}
	if act.beginTrack {
		if err := e.beginTrack(); err != nil {
			return err
		}
	}
	if act.commit {
		if err := e.commitFrame(); err != nil {
			return err
		}
	}
	if act.finalize {
		if err := e.finishTrack(); err != nil {
			return err
		}
		e.trackNum++
	}
	return nil
}

// beginTrack confirms a candidate start: it resolves the track name and,
// when extracting, opens the track file and flushes the lead-in frames
// into it.
func (e *Engine) beginTrack() error {
	if e.deps.Names != nil {
		if name, ok := e.deps.Names.Next(); ok {
			e.trackName = name
		} else {
			// Names exhausted; remaining tracks are numbered.
			e.deps.Names = nil
		}
	}
	if !e.p.Extract {
		return nil
	}

	w, err := e.deps.Sink.OpenTrack(e.trackNum, e.trackName)
	if err != nil {
		return errors.New(err).
			Component("segmenter").
			Category(errors.CategoryFileIO).
			Context("operation", "open_track").
			Context("track_number", e.trackNum).
			Build()
	}
	e.out = w
	buffered := e.leadIn.len()
	if err := e.leadIn.flush(w); err != nil {
		return errors.New(err).
			Component("segmenter").
			Category(errors.CategoryAudioEncode).
			Context("operation", "flush_leadin").
			Context("track_number", e.trackNum).
			Build()
	}
	e.deps.Metrics.RecordFramesWritten(buffered)
	e.deps.Logger.Debug("track started",
		"track_number", e.trackNum,
		"track_name", e.trackName,
		"start_frame", e.track.trackStart)
	return nil
}

func (e *Engine) commitFrame() error {
	if e.out == nil {
		return nil
	}
	if err := e.out.WriteFrame(e.frames.centerFrame()); err != nil {
		return errors.New(err).
			Component("segmenter").
			Category(errors.CategoryAudioEncode).
			Context("operation", "write_frame").
			Context("track_number", e.trackNum).
			Build()
	}
	e.deps.Metrics.RecordFramesWritten(1)
	return nil
}

// finishTrack closes out the current track at the current position: the
// cut record is emitted in logging mode, the track file closed in
// extraction mode.
func (e *Engine) finishTrack() error {
	duration := e.pos - e.track.trackStart
	if e.deps.Cuts != nil {
		rec := CutRecord{
			Number: e.trackNum,
			Start:  e.track.trackStart,
			End:    e.pos,
			Name:   e.trackName,
		}
		if err := e.deps.Cuts.WriteCut(rec); err != nil {
			return errors.New(err).
				Component("segmenter").
				Category(errors.CategoryFileIO).
				Context("operation", "write_cut").
				Context("track_number", e.trackNum).
				Build()
		}
	}
	if e.out != nil {
		if err := e.out.Close(); err != nil {
			return errors.New(err).
				Component("segmenter").
				Category(errors.CategoryAudioEncode).
				Context("operation", "close_track").
				Context("track_number", e.trackNum).
				Build()
		}
		e.out = nil
	}
	e.deps.Metrics.RecordTrackFinalized(float64(duration) / float64(e.p.SampleRate))
	e.deps.Logger.Debug("track finalized",
		"track_number", e.trackNum,
		"track_name", e.trackName,
		"end_frame", e.pos,
		"duration_frames", duration)
	e.trackName = ""
	return nil
}

// Run performs a cutting pass: boundary detection plus cut logging or
// track extraction, depending on the configured action.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.prime(); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return errors.New(err).
				Component("segmenter").
				Category(errors.CategorySegmentation).
				Context("operation", "run").
				Build()
		}
		if err := e.step(); err != nil {
			return err
		}
		more, err := e.fetch()
		if err != nil {
			return err
		}
		if !more || e.trackNum > e.p.LastTrackNum {
			break
		}
	}

	if e.framesRemaining == 0 {
		e.deps.Logger.Debug("end of input reached", "position", e.pos)
		return e.forceEnd()
	}
	e.deps.Logger.Debug("no more tracks in requested range", "position", e.pos)
	return nil
}

// forceEnd finalizes a track left open by stream exhaustion. A candidate
// start that never confirmed is discarded silently.
func (e *Engine) forceEnd() error {
	switch e.track.state {
	case StateTrack, StateTrackEnding:
		return e.finishTrack()
	}
	if e.out != nil {
		if err := e.out.Close(); err != nil {
			return errors.New(err).
				Component("segmenter").
				Category(errors.CategoryAudioEncode).
				Context("operation", "close_track").
				Build()
		}
		e.out = nil
	}
	return nil
}

// Analyze performs a statistics pass instead of boundary detection and
// returns the per-channel report.
func (e *Engine) Analyze(ctx context.Context) (*Report, error) {
	if err := e.prime(); err != nil {
		return nil, err
	}
	col := newCollector(e.p.Channels)
	for {
		if err := ctx.Err(); err != nil {
			return nil, errors.New(err).
				Component("segmenter").
				Category(errors.CategorySegmentation).
				Context("operation", "analyze").
				Build()
		}
		col.observe(e.frames.centerFrame(), e.energy)
		more, err := e.fetch()
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}
	return col.snapshot(e.cond.rejectTotals(), e.framesRead, e.p.SampleRate), nil
}

func zeroFrame(frame []float64) {
	for i := range frame {
		frame[i] = 0
	}
}
