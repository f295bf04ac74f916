package mt63

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_LowPass2_Step(t *testing.T) {
	var w = newLowPass2Weights(16)
	var mid, out float64

	for range 200 {
		lowPass2(3, &mid, &out, w)
	}

	assert.InDelta(t, 3, out, 1e-6)
	assert.InDelta(t, 3, mid, 1e-6)
}

func Test_LowPass2Cmplx_Step(t *testing.T) {
	var w = newLowPass2Weights(8)
	var mid, out complex128

	for range 200 {
		lowPass2Cmplx(complex(1, -2), &mid, &out, w)
	}

	assert.InDelta(t, 1, real(out), 1e-6)
	assert.InDelta(t, -2, imag(out), 1e-6)
}

func Test_SelFitAver_DropsOutlier(t *testing.T) {
	var data = []float64{1.0, 1.1, 0.9, 1.05, 0.95, 1.0, 50}

	var aver, rms, sel = selFitAver(data, 2.0, 3)

	assert.Equal(t, 6, sel)
	assert.InDelta(t, 1.0, aver, 1e-9)
	assert.Less(t, rms, 1.0)
}

func Test_SelFitAver_Empty(t *testing.T) {
	var aver, rms, sel = selFitAver(nil, 2.0, 3)

	assert.Zero(t, aver)
	assert.Zero(t, rms)
	assert.Zero(t, sel)
}

func Test_SelFitAverCmplx_DropsOutlier(t *testing.T) {
	var data = []complex128{1i, 1.1i, 0.9i, 1i, complex(40, 40)}

	var aver, _, sel = selFitAverCmplx(data, 1.5, 3)

	assert.Equal(t, 4, sel)
	assert.InDelta(t, 0, real(aver), 1e-9)
	assert.InDelta(t, 1, imag(aver), 1e-9)
}

func Test_Turns(t *testing.T) {
	assert.InDelta(t, 0, turns(1), 1e-12)
	assert.InDelta(t, 0.25, turns(1i), 1e-12)
	assert.InDelta(t, 0.5, turns(-1), 1e-12)
	assert.InDelta(t, 0.75, turns(-1i), 1e-12)

	for i := range 1000 {
		var x = turns(complex(math.Cos(float64(i)), math.Sin(float64(i))))
		assert.GreaterOrEqual(t, x, 0.0)
		assert.Less(t, x, 1.0)
	}
}

func Test_WinFir_Symmetry(t *testing.T) {
	var i = make([]float64, 64)
	var q = make([]float64, 64)
	winFirI(0.5, 1.5, i)
	winFirQ(0.5, 1.5, q)

	// Centered on tap 31, the I taps are even and the Q taps odd.
	for k := 1; k < 31; k++ {
		assert.InDelta(t, i[31-k], i[31+k], 1e-12, "I tap %d", k)
		assert.InDelta(t, -q[31-k], q[31+k], 1e-12, "Q tap %d", k)
	}
}

func Test_Mod(t *testing.T) {
	assert.Equal(t, 2, mod(-3, 5))
	assert.Equal(t, 0, mod(10, 5))
	assert.Equal(t, 3, mod(3, 5))
}
