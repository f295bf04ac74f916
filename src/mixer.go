package mt63

import (
	"math"
)

// mixer moves a complex signal down in frequency by omega radians per
// sample.  A negative omega moves it up.
type mixer struct {
	phase float64
	omega float64
}

func newMixer(omega float64) *mixer {
	return &mixer{phase: 0, omega: omega}
}

// Process shifts buf in place.
func (m *mixer) Process(buf []complex128) {
	for i, x := range buf {
		var lo = complex(math.Cos(m.phase), -math.Sin(m.phase))
		buf[i] = x * lo
		m.phase += m.omega
		if m.phase >= 2*math.Pi {
			m.phase -= 2 * math.Pi
		} else if m.phase < 0 {
			m.phase += 2 * math.Pi
		}
	}
}
