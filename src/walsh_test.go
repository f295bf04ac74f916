package mt63

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func Test_Walsh_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var n = 1 << rapid.IntRange(0, 7).Draw(t, "log2n")
		var v = rapid.SliceOfN(rapid.Float64Range(-10, 10), n, n).Draw(t, "v")

		var a = append([]float64(nil), v...)
		WalshForward(a)
		WalshInverse(a)

		var b = append([]float64(nil), v...)
		WalshInverse(b)
		WalshForward(b)

		for i := range v {
			assert.InDelta(t, float64(n)*v[i], a[i], 1e-9, "forward then inverse, index %d", i)
			assert.InDelta(t, float64(n)*v[i], b[i], 1e-9, "inverse then forward, index %d", i)
		}
	})
}

// A single impulse becomes a row of +-1, which is what the encoder sends.
func Test_Walsh_ImpulseIsCodeWord(t *testing.T) {
	for code := range DataCarriers {
		var v = make([]float64, DataCarriers)
		v[code] = 1
		WalshInverse(v)

		for i, x := range v {
			assert.InDelta(t, 1, x*x, 1e-12, "code %d carrier %d", code, i)
		}

		WalshForward(v)
		assert.InDelta(t, DataCarriers, v[code], 1e-9)
	}
}
