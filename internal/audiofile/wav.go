package audiofile

import (
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/tphakala/trackcutter-go/internal/conf"
	"github.com/tphakala/trackcutter-go/internal/errors"
)

// pcmChunkSamples is the decode granularity in samples, not frames. Large
// enough to amortize decoder overhead, small enough to stay cache-friendly.
const pcmChunkSamples = 8192

type wavSource struct {
	file    *os.File
	decoder *wav.Decoder
	divisor float64
	offset  float64

	sampleRate int
	channels   int

	buf   *audio.IntBuffer
	avail int // decoded samples in buf
	pos   int // next sample to consume
	eof   bool
}

func openWAV(path string) (Source, AudioInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, AudioInfo{}, errors.New(err).
			Component("audiofile").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}

	decoder := wav.NewDecoder(file)
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		_ = file.Close()
		return nil, AudioInfo{}, errors.Newf("input is not a valid WAV audio file").
			Component("audiofile").
			Category(errors.CategoryAudioDecode).
			Context("path", path).
			Build()
	}
	if decoder.NumChans < 1 || int(decoder.NumChans) > conf.MaxChannels {
		_ = file.Close()
		return nil, AudioInfo{}, errors.Newf("unsupported number of channels: %d", decoder.NumChans).
			Component("audiofile").
			Category(errors.CategoryAudioDecode).
			Context("path", path).
			Build()
	}
	// 8-bit WAV PCM is unsigned offset-binary, 0x80 meaning silence.
	var offset float64
	if decoder.BitDepth == 8 {
		offset = 128.0
	}
	divisor, err := getAudioDivisor(int(decoder.BitDepth))
	if err != nil {
		_ = file.Close()
		return nil, AudioInfo{}, errors.New(err).
			Component("audiofile").
			Category(errors.CategoryAudioDecode).
			Context("path", path).
			Build()
	}

	info := AudioInfo{
		SampleRate:  int(decoder.SampleRate),
		NumChannels: int(decoder.NumChans),
		BitDepth:    int(decoder.BitDepth),
	}
	if stat, err := file.Stat(); err == nil {
		bytesPerSample := int(decoder.BitDepth) / 8
		info.TotalSamples = int(stat.Size()) / bytesPerSample / info.NumChannels
	}

	s := &wavSource{
		file:       file,
		decoder:    decoder,
		divisor:    divisor,
		offset:     offset,
		sampleRate: info.SampleRate,
		channels:   info.NumChannels,
		buf: &audio.IntBuffer{
			Data: make([]int, pcmChunkSamples),
			Format: &audio.Format{
				SampleRate:  info.SampleRate,
				NumChannels: info.NumChannels,
			},
		},
	}
	return s, info, nil
}

func (s *wavSource) ReadFrame(dst []float64) error {
	if s.pos+s.channels > s.avail {
		if err := s.refill(); err != nil {
			return err
		}
	}
	for ch := 0; ch < s.channels; ch++ {
		dst[ch] = (float64(s.buf.Data[s.pos+ch]) - s.offset) / s.divisor
	}
	s.pos += s.channels
	return nil
}

func (s *wavSource) refill() error {
	if s.eof {
		return io.EOF
	}
	// Carry over a partial trailing frame from the previous chunk.
	rem := s.avail - s.pos
	copy(s.buf.Data, s.buf.Data[s.pos:s.avail])

	n, err := s.decoder.PCMBuffer(&audio.IntBuffer{
		Data:   s.buf.Data[rem:],
		Format: s.buf.Format,
	})
	if err != nil {
		return errors.New(err).
			Component("audiofile").
			Category(errors.CategoryAudioDecode).
			Context("operation", "pcm_buffer").
			Build()
	}
	s.avail = rem + n
	s.pos = 0
	if n == 0 {
		s.eof = true
	}
	if s.avail < s.channels {
		// Nothing left but a truncated frame, if that.
		return io.EOF
	}
	return nil
}

func (s *wavSource) SkipFrames(n int64) error { return skipFrames(s, n) }
func (s *wavSource) SampleRate() int          { return s.sampleRate }
func (s *wavSource) Channels() int            { return s.channels }
func (s *wavSource) Close() error             { return s.file.Close() }
