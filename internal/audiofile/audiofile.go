// Package audiofile decodes WAV, FLAC and headerless raw PCM recordings
// into the normalized frame stream the segmenter consumes, and encodes
// extracted tracks back to WAV. Samples are scaled to [-1.0, +1.0]
// regardless of the container's bit depth.
package audiofile

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tphakala/trackcutter-go/internal/conf"
	"github.com/tphakala/trackcutter-go/internal/errors"
)

// AudioInfo holds essential information about an audio stream.
type AudioInfo struct {
	SampleRate   int
	TotalSamples int // frames per channel; zero when unknown
	NumChannels  int
	BitDepth     int
}

// Duration returns the stream length in seconds, or zero when the total
// frame count is unknown.
func (i AudioInfo) Duration() float64 {
	if i.SampleRate == 0 {
		return 0
	}
	return float64(i.TotalSamples) / float64(i.SampleRate)
}

// Source is a decoded audio stream read one frame at a time. ReadFrame
// fills dst with one normalized sample per channel and returns io.EOF at
// the end of the stream.
type Source interface {
	ReadFrame(dst []float64) error
	SkipFrames(n int64) error
	SampleRate() int
	Channels() int
	Close() error
}

// Open opens the configured input and returns a frame source along with
// the stream parameters. Raw PCM input is selected explicitly through the
// raw settings; otherwise the file extension picks the decoder. Standard
// input is only possible for raw PCM, since the WAV decoder needs to seek.
func Open(settings *conf.Settings) (Source, AudioInfo, error) {
	path := settings.Input.Path

	if settings.Input.Raw.Enabled {
		return openRaw(path, &settings.Input.Raw)
	}
	if path == "-" {
		return nil, AudioInfo{}, errors.Newf("standard input requires raw PCM parameters").
			Component("audiofile").
			Category(errors.CategoryValidation).
			Build()
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return openWAV(path)
	case ".flac":
		return openFLAC(path)
	default:
		return nil, AudioInfo{}, errors.Newf("unsupported audio format for %q", path).
			Component("audiofile").
			Category(errors.CategoryValidation).
			Context("path", path).
			Build()
	}
}

// getAudioDivisor returns the scaling factor for converting integer
// samples of the given bit depth to [-1.0, +1.0].
func getAudioDivisor(bitDepth int) (float64, error) {
	switch bitDepth {
	case 8:
		return 128.0, nil
	case 16:
		return 32768.0, nil
	case 24:
		return 8388608.0, nil
	case 32:
		return 2147483648.0, nil
	default:
		return 0, fmt.Errorf("unsupported audio file bit depth: %d", bitDepth)
	}
}

// skipFrames discards n frames from the source by reading them into a
// scratch frame. Decoded-domain skipping keeps seeking semantics uniform
// across the WAV, FLAC and raw decoders.
func skipFrames(src Source, n int64) error {
	scratch := make([]float64, src.Channels())
	for ; n > 0; n-- {
		if err := src.ReadFrame(scratch); err != nil {
			return err
		}
	}
	return nil
}
