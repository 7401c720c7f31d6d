package segmenter

// FrameSource delivers decoded audio one frame at a time. ReadFrame fills
// dst with one sample per channel, scaled to [-1.0, +1.0], and returns
// io.EOF once the stream is exhausted.
type FrameSource interface {
	ReadFrame(dst []float64) error
	SampleRate() int
	Channels() int
}

// TrackWriter receives the frames of a single extracted track.
type TrackWriter interface {
	WriteFrame(frame []float64) error
	Close() error
}

// TrackSink creates per-track outputs during extraction. OpenTrack is
// called once per confirmed track; name is empty when no track name is
// available and the sink is expected to fall back to numbering.
type TrackSink interface {
	OpenTrack(number int, name string) (TrackWriter, error)
}

// CutRecord describes one detected track for cut point logging. Start and
// End are frame indices into the recording; End points one past the last
// frame of the track, trailing confirmed silence included.
type CutRecord struct {
	Number int
	Start  int64
	End    int64
	Name   string
}

// CutWriter receives cut records as tracks are finalized.
type CutWriter interface {
	WriteCut(rec CutRecord) error
}

// NameSource yields track names in order. Next reports false once the
// names are exhausted; remaining tracks are numbered instead.
type NameSource interface {
	Next() (string, bool)
}
