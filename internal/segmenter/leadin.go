package segmenter

// leadInBuffer holds the frames observed between a candidate track start
// and its confirmation. Extraction cannot write them out immediately: if
// the energy burst turns out to be shorter than the minimum signal period
// the frames are discarded, and if it is confirmed they become the opening
// frames of the new track file.
//
// Capacity is the minimum signal period, which bounds how many frames can
// accumulate before the state machine either confirms or rejects.
type leadInBuffer struct {
	data     []float64
	channels int
	capacity int
	length   int
}

func newLeadInBuffer(capacity, channels int) *leadInBuffer {
	return &leadInBuffer{
		data:     make([]float64, capacity*channels),
		channels: channels,
		capacity: capacity,
	}
}

// add appends one frame. It reports false when the buffer is full, in
// which case the frame is dropped.
func (b *leadInBuffer) add(frame []float64) bool {
	if b.length >= b.capacity {
		return false
	}
	copy(b.data[b.length*b.channels:], frame)
	b.length++
	return true
}

// flush hands the buffered frames to the sink in order and empties the
// buffer.
func (b *leadInBuffer) flush(w TrackWriter) error {
	for i := 0; i < b.length; i++ {
		off := i * b.channels
		if err := w.WriteFrame(b.data[off : off+b.channels]); err != nil {
			return err
		}
	}
	b.length = 0
	return nil
}

// purge discards the buffered frames.
func (b *leadInBuffer) purge() { b.length = 0 }

func (b *leadInBuffer) len() int { return b.length }
