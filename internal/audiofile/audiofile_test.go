package audiofile

import (
	"encoding/binary"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/trackcutter-go/internal/conf"
)

func TestGetAudioDivisor(t *testing.T) {
	tests := []struct {
		bitDepth int
		want     float64
		wantErr  bool
	}{
		{8, 128.0, false},
		{16, 32768.0, false},
		{24, 8388608.0, false},
		{32, 2147483648.0, false},
		{12, 0, true},
	}
	for _, tt := range tests {
		divisor, err := getAudioDivisor(tt.bitDepth)
		if tt.wantErr {
			assert.Error(t, err, "bit depth %d", tt.bitDepth)
			continue
		}
		require.NoError(t, err)
		assert.InDelta(t, tt.want, divisor, 0)
	}
}

func TestOpenRejectsUnknownExtension(t *testing.T) {
	s := &conf.Settings{}
	s.Input.Path = "recording.ogg"
	_, _, err := Open(s)
	assert.Error(t, err)
}

func TestOpenStdinRequiresRaw(t *testing.T) {
	s := &conf.Settings{}
	s.Input.Path = "-"
	_, _, err := Open(s)
	assert.Error(t, err)
}

func writeRawFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRawSourceSigned16(t *testing.T) {
	data := make([]byte, 0, 8)
	for _, v := range []int16{16384, -16384, 32767, -32768} {
		data = binary.LittleEndian.AppendUint16(data, uint16(v))
	}
	path := writeRawFile(t, "test.raw", data)

	src, info, err := openRaw(path, &conf.RawInputSettings{
		Enabled: true, Rate: 8000, Channels: 2, Bits: 16, Encoding: conf.EncodingSigned,
	})
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, 8000, info.SampleRate)
	assert.Equal(t, 2, info.NumChannels)
	assert.Equal(t, 2, info.TotalSamples)

	frame := make([]float64, 2)
	require.NoError(t, src.ReadFrame(frame))
	assert.InDelta(t, 0.5, frame[0], 1e-12)
	assert.InDelta(t, -0.5, frame[1], 1e-12)

	require.NoError(t, src.ReadFrame(frame))
	assert.InDelta(t, 32767.0/32768.0, frame[0], 1e-12)
	assert.InDelta(t, -1.0, frame[1], 1e-12)

	assert.ErrorIs(t, src.ReadFrame(frame), io.EOF)
}

func TestRawSourceSigned16BigEndian(t *testing.T) {
	data := binary.BigEndian.AppendUint16(nil, uint16(int16(16384)))
	path := writeRawFile(t, "test.raw", data)

	src, _, err := openRaw(path, &conf.RawInputSettings{
		Enabled: true, Rate: 8000, Channels: 1, Bits: 16,
		Encoding: conf.EncodingSigned, BigEndian: true,
	})
	require.NoError(t, err)
	defer src.Close()

	frame := make([]float64, 1)
	require.NoError(t, src.ReadFrame(frame))
	assert.InDelta(t, 0.5, frame[0], 1e-12)
}

func TestRawSourceUnsigned8(t *testing.T) {
	path := writeRawFile(t, "test.raw", []byte{128, 255, 0})

	src, _, err := openRaw(path, &conf.RawInputSettings{
		Enabled: true, Rate: 8000, Channels: 1, Bits: 8, Encoding: conf.EncodingUnsigned,
	})
	require.NoError(t, err)
	defer src.Close()

	frame := make([]float64, 1)
	require.NoError(t, src.ReadFrame(frame))
	assert.InDelta(t, 0.0, frame[0], 1e-12)
	require.NoError(t, src.ReadFrame(frame))
	assert.InDelta(t, 127.0/128.0, frame[0], 1e-12)
	require.NoError(t, src.ReadFrame(frame))
	assert.InDelta(t, -1.0, frame[0], 1e-12)
}

func TestRawSourceSigned24(t *testing.T) {
	// 0x400000 = 4194304 = half scale.
	path := writeRawFile(t, "test.raw", []byte{0x00, 0x00, 0x40, 0xff, 0xff, 0xff})

	src, _, err := openRaw(path, &conf.RawInputSettings{
		Enabled: true, Rate: 8000, Channels: 1, Bits: 24, Encoding: conf.EncodingSigned,
	})
	require.NoError(t, err)
	defer src.Close()

	frame := make([]float64, 1)
	require.NoError(t, src.ReadFrame(frame))
	assert.InDelta(t, 0.5, frame[0], 1e-12)
	require.NoError(t, src.ReadFrame(frame))
	assert.InDelta(t, -1.0/8388608.0, frame[0], 1e-12)
}

func TestRawSourceFloat32(t *testing.T) {
	data := binary.LittleEndian.AppendUint32(nil, math.Float32bits(0.75))
	path := writeRawFile(t, "test.raw", data)

	src, _, err := openRaw(path, &conf.RawInputSettings{
		Enabled: true, Rate: 8000, Channels: 1, Bits: 32, Encoding: conf.EncodingFloat,
	})
	require.NoError(t, err)
	defer src.Close()

	frame := make([]float64, 1)
	require.NoError(t, src.ReadFrame(frame))
	assert.InDelta(t, 0.75, frame[0], 1e-7)
}

func TestRawSourceDropsTruncatedFrame(t *testing.T) {
	// Three bytes cannot hold a full 16-bit stereo frame.
	path := writeRawFile(t, "test.raw", []byte{0x00, 0x40, 0x00})

	src, _, err := openRaw(path, &conf.RawInputSettings{
		Enabled: true, Rate: 8000, Channels: 2, Bits: 16, Encoding: conf.EncodingSigned,
	})
	require.NoError(t, err)
	defer src.Close()

	frame := make([]float64, 2)
	assert.ErrorIs(t, src.ReadFrame(frame), io.EOF)
}

func TestRawSourceSkipFrames(t *testing.T) {
	data := make([]byte, 0, 10)
	for i := int16(0); i < 5; i++ {
		data = binary.LittleEndian.AppendUint16(data, uint16(i*1000))
	}
	path := writeRawFile(t, "test.raw", data)

	src, _, err := openRaw(path, &conf.RawInputSettings{
		Enabled: true, Rate: 8000, Channels: 1, Bits: 16, Encoding: conf.EncodingSigned,
	})
	require.NoError(t, err)
	defer src.Close()

	require.NoError(t, src.SkipFrames(3))
	frame := make([]float64, 1)
	require.NoError(t, src.ReadFrame(frame))
	assert.InDelta(t, 3000.0/32768.0, frame[0], 1e-12)
}

func TestWAVSinkRoundTrip(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewWAVSink(dir, 44100, 16, 1)
	require.NoError(t, err)

	w, err := sink.OpenTrack(1, "Take One")
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		require.NoError(t, w.WriteFrame([]float64{0.25}))
	}
	require.NoError(t, w.Close())

	src, info, err := openWAV(filepath.Join(dir, "Take One.wav"))
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, 44100, info.SampleRate)
	assert.Equal(t, 1, info.NumChannels)
	assert.Equal(t, 16, info.BitDepth)

	frame := make([]float64, 1)
	for i := 0; i < 100; i++ {
		require.NoError(t, src.ReadFrame(frame))
		assert.InDelta(t, 0.25, frame[0], 1e-12)
	}
	assert.ErrorIs(t, src.ReadFrame(frame), io.EOF)
}

func TestWAVSinkRoundTrip8Bit(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewWAVSink(dir, 8000, 8, 1)
	require.NoError(t, err)

	w, err := sink.OpenTrack(1, "lofi")
	require.NoError(t, err)
	for _, v := range []float64{0.0, 0.25, -0.5} {
		require.NoError(t, w.WriteFrame([]float64{v}))
	}
	require.NoError(t, w.Close())

	src, info, err := openWAV(filepath.Join(dir, "lofi.wav"))
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, 8, info.BitDepth)

	frame := make([]float64, 1)
	require.NoError(t, src.ReadFrame(frame))
	assert.InDelta(t, 0.0, frame[0], 1e-12, "offset-binary silence decodes to zero")
	require.NoError(t, src.ReadFrame(frame))
	assert.InDelta(t, 0.25, frame[0], 1e-12)
	require.NoError(t, src.ReadFrame(frame))
	assert.InDelta(t, -0.5, frame[0], 1e-12)
	assert.ErrorIs(t, src.ReadFrame(frame), io.EOF)
}

func TestWAVSinkNumbersUnnamedTracks(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewWAVSink(dir, 44100, 16, 2)
	require.NoError(t, err)

	w, err := sink.OpenTrack(42, "")
	require.NoError(t, err)
	require.NoError(t, w.WriteFrame([]float64{0.1, -0.1}))
	require.NoError(t, w.Close())

	_, err = os.Stat(filepath.Join(dir, "00000042.wav"))
	assert.NoError(t, err)
}

func TestWAVSinkClipsOverrange(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewWAVSink(dir, 8000, 16, 1)
	require.NoError(t, err)

	w, err := sink.OpenTrack(1, "clip")
	require.NoError(t, err)
	require.NoError(t, w.WriteFrame([]float64{1.5}))
	require.NoError(t, w.WriteFrame([]float64{-1.5}))
	require.NoError(t, w.Close())

	src, _, err := openWAV(filepath.Join(dir, "clip.wav"))
	require.NoError(t, err)
	defer src.Close()

	frame := make([]float64, 1)
	require.NoError(t, src.ReadFrame(frame))
	assert.InDelta(t, 32767.0/32768.0, frame[0], 1e-12)
	require.NoError(t, src.ReadFrame(frame))
	assert.InDelta(t, -1.0, frame[0], 1e-12)
}
