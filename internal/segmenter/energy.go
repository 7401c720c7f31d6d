package segmenter

import "math"

// energyTracker maintains a sliding sum of squared samples per channel over
// the RMS window, held in a squared-sample ring parallel to the frame ring.
// Each insertion is O(1): the squared values falling out of the window are
// subtracted and the newest frame's squares are added.
//
// Classification never takes the square root. The noise floor is converted
// once into the equivalent windowed sum-of-squares threshold, so a frame is
// compared against n * x_nf^2 instead of its RMS against x_nf.
type energyTracker struct {
	ring      *ring
	windowLen int
	channels  int
	sumSq     []float64
	threshold float64
}

func newEnergyTracker(windowLen, channels int, noiseFloorDbfs float64) *energyTracker {
	xnf := math.Pow(10, noiseFloorDbfs/20.0)
	return &energyTracker{
		ring:      newRing(windowLen, channels),
		windowLen: windowLen,
		channels:  channels,
		sumSq:     make([]float64, channels),
		threshold: xnf * xnf * float64(windowLen),
	}
}

// insert squares the conditioned frame into the head slot of the squared
// ring, evicting whatever the slot previously held from the running sums.
// The caller must advance the ring first so the head slot is the one the
// window is dropping.
func (e *energyTracker) insert(frame []float64) {
	e.insertAt(e.ring.head, frame)
}

// insertAt is insert targeting an explicit slot. Used while priming, when
// frames are laid down ahead of the head cursor.
func (e *energyTracker) insertAt(slot int, frame []float64) {
	dst := e.ring.frame(slot)
	for ch := 0; ch < e.channels; ch++ {
		e.sumSq[ch] -= dst[ch]
		sq := frame[ch] * frame[ch]
		dst[ch] = sq
		e.sumSq[ch] += sq
	}
}

// signalPresent reports whether any channel's windowed energy exceeds the
// noise floor threshold. The comparison is strict: energy exactly at the
// threshold classifies as silence.
func (e *energyTracker) signalPresent() bool {
	for ch := 0; ch < e.channels; ch++ {
		if e.sumSq[ch] > e.threshold {
			return true
		}
	}
	return false
}

// rms returns the current window RMS level of one channel.
func (e *energyTracker) rms(ch int) float64 {
	return math.Sqrt(e.sumSq[ch] / float64(e.windowLen))
}

func (e *energyTracker) advance() { e.ring.advance() }
