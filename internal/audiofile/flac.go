package audiofile

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/tphakala/flac"

	"github.com/tphakala/trackcutter-go/internal/conf"
	"github.com/tphakala/trackcutter-go/internal/errors"
)

type flacSource struct {
	file    *os.File
	decoder *flac.Decoder
	divisor float64

	sampleRate     int
	channels       int
	bytesPerSample int

	pending []float64
	pos     int
}

func openFLAC(path string) (Source, AudioInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, AudioInfo{}, errors.New(err).
			Component("audiofile").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}

	decoder, err := flac.NewDecoder(file)
	if err != nil {
		_ = file.Close()
		return nil, AudioInfo{}, errors.New(err).
			Component("audiofile").
			Category(errors.CategoryAudioDecode).
			Context("path", path).
			Build()
	}
	if decoder.NChannels < 1 || decoder.NChannels > conf.MaxChannels {
		_ = file.Close()
		return nil, AudioInfo{}, errors.Newf("unsupported number of channels: %d", decoder.NChannels).
			Component("audiofile").
			Category(errors.CategoryAudioDecode).
			Context("path", path).
			Build()
	}
	divisor, err := getAudioDivisor(decoder.BitsPerSample)
	if err != nil {
		_ = file.Close()
		return nil, AudioInfo{}, errors.New(err).
			Component("audiofile").
			Category(errors.CategoryAudioDecode).
			Context("path", path).
			Build()
	}

	info := AudioInfo{
		SampleRate:   decoder.SampleRate,
		TotalSamples: int(decoder.TotalSamples),
		NumChannels:  decoder.NChannels,
		BitDepth:     decoder.BitsPerSample,
	}
	s := &flacSource{
		file:           file,
		decoder:        decoder,
		divisor:        divisor,
		sampleRate:     info.SampleRate,
		channels:       info.NumChannels,
		bytesPerSample: info.BitDepth / 8,
	}
	return s, info, nil
}

func (s *flacSource) ReadFrame(dst []float64) error {
	for s.pos+s.channels > len(s.pending) {
		if err := s.decodeNext(); err != nil {
			return err
		}
	}
	copy(dst, s.pending[s.pos:s.pos+s.channels])
	s.pos += s.channels
	return nil
}

// decodeNext pulls the next FLAC frame and converts its little-endian
// interleaved samples to normalized floats.
func (s *flacSource) decodeNext() error {
	frame, err := s.decoder.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return errors.New(err).
			Component("audiofile").
			Category(errors.CategoryAudioDecode).
			Context("operation", "decode_frame").
			Build()
	}

	rem := len(s.pending) - s.pos
	copy(s.pending, s.pending[s.pos:])
	s.pending = s.pending[:rem]
	s.pos = 0

	for i := 0; i+s.bytesPerSample <= len(frame); i += s.bytesPerSample {
		var sample int32
		switch s.bytesPerSample {
		case 1:
			sample = int32(int8(frame[i]))
		case 2:
			sample = int32(int16(binary.LittleEndian.Uint16(frame[i:])))
		case 3:
			sample = int32(frame[i]) | int32(frame[i+1])<<8 | int32(frame[i+2])<<16
			sample = (sample << 8) >> 8 // sign-extend
		case 4:
			sample = int32(binary.LittleEndian.Uint32(frame[i:]))
		}
		s.pending = append(s.pending, float64(sample)/s.divisor)
	}
	return nil
}

func (s *flacSource) SkipFrames(n int64) error { return skipFrames(s, n) }
func (s *flacSource) SampleRate() int          { return s.sampleRate }
func (s *flacSource) Channels() int            { return s.channels }
func (s *flacSource) Close() error             { return s.file.Close() }
