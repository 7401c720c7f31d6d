// Package cutlog renders detected track boundaries as a textual cut
// list: one fixed-width row per track, with positions shown as frame
// indices, timecodes or fractional seconds.
package cutlog

import (
	"fmt"
	"io"
	"math"

	"github.com/tphakala/trackcutter-go/internal/conf"
	"github.com/tphakala/trackcutter-go/internal/errors"
	"github.com/tphakala/trackcutter-go/internal/segmenter"
)

// Writer formats cut records onto an io.Writer. It implements
// segmenter.CutWriter.
type Writer struct {
	w          io.Writer
	sampleRate int
	format     string
	named      bool
}

// NewWriter returns a cut list writer rendering positions in the given
// format, one of conf.FormatFrames, conf.FormatTime or conf.FormatSeconds.
// named indicates that track names are in use and the header gets a name
// column.
func NewWriter(w io.Writer, sampleRate int, format string, named bool) *Writer {
	return &Writer{w: w, sampleRate: sampleRate, format: format, named: named}
}

// WriteHeader emits the column header row, with labels matching the
// configured cut-point format.
func (cw *Writer) WriteHeader() error {
	var start, end, duration string
	switch cw.format {
	case conf.FormatFrames:
		start, end, duration = "start_frame", "end_frame", "duration_frames"
	case conf.FormatSeconds:
		start, end, duration = "start_sec", "end_sec", "duration_secs"
	default:
		start, end, duration = "start_time", "end_time", "duration_time"
	}
	name := ""
	if cw.named {
		name = "name"
	}
	_, err := fmt.Fprintf(cw.w, "track_num   %-16s%-16s%-20s%s\n",
		start, end, duration, name)
	if err != nil {
		return errors.New(err).
			Component("cutlog").
			Category(errors.CategoryFileIO).
			Build()
	}
	return nil
}

// WriteCut implements segmenter.CutWriter.
func (cw *Writer) WriteCut(rec segmenter.CutRecord) error {
	duration := rec.End - rec.Start
	_, err := fmt.Fprintf(cw.w, "%10d  %14s  %14s  %18s  %s\n",
		rec.Number,
		cw.render(rec.Start),
		cw.render(rec.End),
		cw.render(duration),
		rec.Name)
	if err != nil {
		return errors.New(err).
			Component("cutlog").
			Category(errors.CategoryFileIO).
			Context("track_number", rec.Number).
			Build()
	}
	return nil
}

func (cw *Writer) render(frameIdx int64) string {
	switch cw.format {
	case conf.FormatFrames:
		return fmt.Sprintf("%d", frameIdx)
	case conf.FormatSeconds:
		return FrameToSeconds(frameIdx, cw.sampleRate)
	default:
		return FrameToTimecode(frameIdx, cw.sampleRate)
	}
}

// FrameToTimecode renders a frame index as "H:MM:SS.sssss" with five
// fractional digits.
func FrameToTimecode(frameIdx int64, sampleRate int) string {
	rate := int64(sampleRate)
	sec := math.Mod(float64(frameIdx)/float64(rate), 60.0)
	wholeSec := int(math.Floor(sec))
	fracSec := int(math.Mod(math.Floor(sec*100000.0), 100000.0))
	min := (frameIdx / rate / 60) % 60
	hrs := frameIdx / rate / 3600
	return fmt.Sprintf("%d:%02d:%02d.%05d", hrs, min, wholeSec, fracSec)
}

// FrameToSeconds renders a frame index as fractional seconds.
func FrameToSeconds(frameIdx int64, sampleRate int) string {
	return fmt.Sprintf("%2.5f", float64(frameIdx)/float64(sampleRate))
}
