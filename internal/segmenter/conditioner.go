package segmenter

import (
	"math"

	"github.com/tphakala/trackcutter-go/internal/conf"
)

// conditioner applies per-channel corrective preprocessing to every frame
// before it enters the energy window: a user-supplied static DC offset
// followed by a first-order high-pass filter with a 20 Hz corner.
//
// When the high-pass filter is disabled the rejected low-frequency
// component is still computed and accumulated per channel, which lets the
// analyser estimate the true DC offset of the recording as the mean of the
// rejected signal.
type conditioner struct {
	channels int
	highPass bool
	alpha    float64

	dcOffset []float64
	prevRej  []float64
	rejTotal []float64
}

func newConditioner(channels, sampleRate int, dcOffset []float64, highPass bool) *conditioner {
	tau := 1.0 / (2.0 * math.Pi * conf.HighPassCornerHz)
	dt := 1.0 / float64(sampleRate)

	c := &conditioner{
		channels: channels,
		highPass: highPass,
		alpha:    tau / (tau + dt),
		dcOffset: make([]float64, channels),
		prevRej:  make([]float64, channels),
		rejTotal: make([]float64, channels),
	}
	copy(c.dcOffset, dcOffset)
	return c
}

// process conditions one frame in place.
func (c *conditioner) process(frame []float64) {
	for ch := 0; ch < c.channels; ch++ {
		x := frame[ch] + c.dcOffset[ch]
		out := c.alpha * (x - c.prevRej[ch])
		rej := x - out
		c.prevRej[ch] = rej

		if c.highPass {
			frame[ch] = out
		} else {
			frame[ch] = x
			c.rejTotal[ch] += rej
		}
	}
}

// rejectTotals returns the per-channel accumulated rejected component.
// Meaningful only when the high-pass filter is disabled.
func (c *conditioner) rejectTotals() []float64 {
	return c.rejTotal
}
