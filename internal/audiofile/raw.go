package audiofile

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/tphakala/trackcutter-go/internal/conf"
	"github.com/tphakala/trackcutter-go/internal/errors"
)

// rawSource reads headerless PCM. Unlike the container formats, every
// stream parameter comes from configuration; the settings are assumed to
// have passed validation already.
type rawSource struct {
	file   *os.File // nil when reading standard input
	reader *bufio.Reader

	sampleRate int
	channels   int
	bits       int
	encoding   string
	order      binary.ByteOrder

	frameBuf []byte
}

func openRaw(path string, raw *conf.RawInputSettings) (Source, AudioInfo, error) {
	var file *os.File
	var rd io.Reader
	if path == "-" {
		rd = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, AudioInfo{}, errors.New(err).
				Component("audiofile").
				Category(errors.CategoryFileIO).
				Context("path", path).
				Build()
		}
		file = f
		rd = f
	}

	var order binary.ByteOrder = binary.LittleEndian
	if raw.BigEndian {
		order = binary.BigEndian
	}

	bytesPerFrame := raw.Bits / 8 * raw.Channels
	info := AudioInfo{
		SampleRate:  raw.Rate,
		NumChannels: raw.Channels,
		BitDepth:    raw.Bits,
	}
	if file != nil {
		if stat, err := file.Stat(); err == nil {
			info.TotalSamples = int(stat.Size()) / bytesPerFrame
		}
	}

	s := &rawSource{
		file:       file,
		reader:     bufio.NewReaderSize(rd, 64*1024),
		sampleRate: raw.Rate,
		channels:   raw.Channels,
		bits:       raw.Bits,
		encoding:   raw.Encoding,
		order:      order,
		frameBuf:   make([]byte, bytesPerFrame),
	}
	return s, info, nil
}

func (s *rawSource) ReadFrame(dst []float64) error {
	if _, err := io.ReadFull(s.reader, s.frameBuf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			// A truncated trailing frame is dropped.
			return io.EOF
		}
		return errors.New(err).
			Component("audiofile").
			Category(errors.CategoryFileIO).
			Context("operation", "read_raw_frame").
			Build()
	}

	step := s.bits / 8
	for ch := 0; ch < s.channels; ch++ {
		dst[ch] = s.decodeSample(s.frameBuf[ch*step:])
	}
	return nil
}

func (s *rawSource) decodeSample(b []byte) float64 {
	switch s.encoding {
	case conf.EncodingFloat:
		if s.bits == 32 {
			return float64(math.Float32frombits(s.order.Uint32(b)))
		}
		return math.Float64frombits(s.order.Uint64(b))
	case conf.EncodingUnsigned:
		return (float64(b[0]) - 128.0) / 128.0
	default: // signed
		switch s.bits {
		case 8:
			return float64(int8(b[0])) / 128.0
		case 16:
			return float64(int16(s.order.Uint16(b))) / 32768.0
		case 24:
			var sample int32
			if s.order == binary.BigEndian {
				sample = int32(b[2]) | int32(b[1])<<8 | int32(b[0])<<16
			} else {
				sample = int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
			}
			sample = (sample << 8) >> 8
			return float64(sample) / 8388608.0
		default:
			return float64(int32(s.order.Uint32(b))) / 2147483648.0
		}
	}
}

func (s *rawSource) SkipFrames(n int64) error { return skipFrames(s, n) }
func (s *rawSource) SampleRate() int          { return s.sampleRate }
func (s *rawSource) Channels() int            { return s.channels }

func (s *rawSource) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}
