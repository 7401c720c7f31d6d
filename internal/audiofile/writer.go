package audiofile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/tphakala/trackcutter-go/internal/errors"
	"github.com/tphakala/trackcutter-go/internal/segmenter"
)

// writeChunkSamples is how many samples accumulate before a flush to the
// encoder.
const writeChunkSamples = 32768

// WAVSink writes extracted tracks as WAV files into a directory. Named
// tracks become "<name>.wav"; unnamed tracks fall back to zero-padded
// numbering like "00000001.wav".
type WAVSink struct {
	dir        string
	sampleRate int
	bitDepth   int
	channels   int
}

// NewWAVSink prepares a sink writing into dir, creating it if needed. The
// bit depth follows the input where WAV supports it; floating point input
// is written as 24-bit PCM.
func NewWAVSink(dir string, sampleRate, bitDepth, channels int) (*WAVSink, error) {
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		bitDepth = 24
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.New(err).
			Component("audiofile").
			Category(errors.CategoryFileIO).
			Context("path", dir).
			Build()
	}
	return &WAVSink{
		dir:        dir,
		sampleRate: sampleRate,
		bitDepth:   bitDepth,
		channels:   channels,
	}, nil
}

// OpenTrack implements segmenter.TrackSink.
func (s *WAVSink) OpenTrack(number int, name string) (segmenter.TrackWriter, error) {
	fileName := fmt.Sprintf("%08d.wav", number)
	if name != "" {
		fileName = name + ".wav"
	}
	path := filepath.Join(s.dir, fileName)

	file, err := os.Create(path)
	if err != nil {
		return nil, errors.New(err).
			Component("audiofile").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}

	// 8-bit WAV PCM is stored unsigned offset-binary.
	offset := 0
	if s.bitDepth == 8 {
		offset = 128
	}
	return &wavTrackWriter{
		file:    file,
		path:    path,
		encoder: wav.NewEncoder(file, s.sampleRate, s.bitDepth, s.channels, 1),
		format:  &audio.Format{SampleRate: s.sampleRate, NumChannels: s.channels},
		scale:   float64(int64(1) << (s.bitDepth - 1)),
		offset:  offset,
		buf:     make([]int, 0, writeChunkSamples),
	}, nil
}

type wavTrackWriter struct {
	file    *os.File
	path    string
	encoder *wav.Encoder
	format  *audio.Format
	scale   float64
	offset  int
	buf     []int
}

func (w *wavTrackWriter) WriteFrame(frame []float64) error {
	for _, v := range frame {
		n := int(v * w.scale)
		// Clip instead of wrapping on overrange samples.
		if max := int(w.scale) - 1; n > max {
			n = max
		} else if min := -int(w.scale); n < min {
			n = min
		}
		w.buf = append(w.buf, n+w.offset)
	}
	if len(w.buf) >= writeChunkSamples {
		return w.flush()
	}
	return nil
}

func (w *wavTrackWriter) flush() error {
	if len(w.buf) == 0 {
		return nil
	}
	err := w.encoder.Write(&audio.IntBuffer{Data: w.buf, Format: w.format})
	w.buf = w.buf[:0]
	if err != nil {
		return errors.New(err).
			Component("audiofile").
			Category(errors.CategoryAudioEncode).
			Context("path", w.path).
			Build()
	}
	return nil
}

func (w *wavTrackWriter) Close() error {
	if err := w.flush(); err != nil {
		_ = w.file.Close()
		return err
	}
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return errors.New(err).
			Component("audiofile").
			Category(errors.CategoryAudioEncode).
			Context("path", w.path).
			Build()
	}
	return w.file.Close()
}
