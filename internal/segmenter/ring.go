package segmenter

// ring is a fixed-capacity circular store of interleaved multichannel
// frames with three cursors. The tail points at the slot the next incoming
// frame is read into, the head points at the most recently admitted frame,
// and the center lags the head by half the ring so the energy window around
// the frame under classification is always fully populated.
//
// Both the frame buffer and the squared-sample buffer of the energy tracker
// use the same geometry and advance in lockstep.
type ring struct {
	data     []float64
	frames   int
	channels int

	head   int
	tail   int
	center int
}

func newRing(frames, channels int) *ring {
	return &ring{
		data:     make([]float64, frames*channels),
		frames:   frames,
		channels: channels,
		// Cursors positioned so that after priming fills the second half
		// of the ring, the center sits on the first real frame.
		head:   frames - 1,
		tail:   0,
		center: frames / 2,
	}
}

// frame returns the slot for frame index i as a slice of channel samples.
func (r *ring) frame(i int) []float64 {
	off := i * r.channels
	return r.data[off : off+r.channels]
}

func (r *ring) headFrame() []float64   { return r.frame(r.head) }
func (r *ring) tailFrame() []float64   { return r.frame(r.tail) }
func (r *ring) centerFrame() []float64 { return r.frame(r.center) }

// advance rotates all three cursors by one frame. The head lands on the
// slot the tail just vacated, which is where the caller has placed the
// newest frame.
func (r *ring) advance() {
	r.head = r.tail
	r.tail++
	if r.tail >= r.frames {
		r.tail = 0
	}
	r.center++
	if r.center >= r.frames {
		r.center = 0
	}
}
