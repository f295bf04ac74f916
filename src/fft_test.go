package mt63

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/dsp/fourier"
	"pgregory.net/rapid"
)

func Test_NewFFT_PowersOfTwo(t *testing.T) {
	for n := 2; n <= 4096; n *= 2 {
		var f, err = NewFFT(n)
		require.NoError(t, err, "size %d", n)

		for i := range n {
			assert.Equal(t, i, f.BitRev[f.BitRev[i]], "size %d: bit reversal of %d should undo itself", n, i)
		}
	}
}

func Test_NewFFT_NotPowerOfTwo(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var n = rapid.IntRange(0, 4096).Filter(func(n int) bool {
			return n < 2 || n&(n-1) != 0
		}).Draw(t, "n")

		var _, err = NewFFT(n)
		assert.ErrorIs(t, err, ErrNotPowerOfTwo)
	})
}

func Test_FFT_DC(t *testing.T) {
	const n = 64
	var f, err = NewFFT(n)
	require.NoError(t, err)

	var buf = make([]complex128, n)
	for i := range buf {
		buf[i] = complex(0.5, -0.25)
	}

	f.ProcInPlace(buf)

	assert.InDelta(t, 32, real(buf[0]), 1e-9)
	assert.InDelta(t, -16, imag(buf[0]), 1e-9)
	for k := 1; k < n; k++ {
		assert.InDelta(t, 0, cmplx.Abs(buf[k]), 1e-9, "bin %d", k)
	}
}

func Test_FFT_Cosine(t *testing.T) {
	const n = 256
	const bin = 10

	var f, err = NewFFT(n)
	require.NoError(t, err)

	var buf = make([]complex128, n)
	for i := range buf {
		buf[i] = complex(math.Cos(2*math.Pi*bin*float64(i)/n), 0)
	}

	f.ProcInPlace(buf)

	for k := range n {
		var want = 0.0
		if k == bin || k == n-bin {
			want = n / 2
		}
		assert.InDelta(t, want, cmplx.Abs(buf[k]), 1e-9, "bin %d", k)
	}
}

// Compare against gonum's transform for random data.
func Test_FFT_MatchesGonum(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var n = 1 << rapid.IntRange(1, 10).Draw(t, "log2n")
		var re = rapid.SliceOfN(rapid.Float64Range(-1, 1), n, n).Draw(t, "re")
		var im = rapid.SliceOfN(rapid.Float64Range(-1, 1), n, n).Draw(t, "im")

		var seq = make([]complex128, n)
		for i := range seq {
			seq[i] = complex(re[i], im[i])
		}

		var want = fourier.NewCmplxFFT(n).Coefficients(nil, seq)

		var f, err = NewFFT(n)
		require.NoError(t, err)

		var buf = append([]complex128(nil), seq...)
		f.ProcInPlace(buf)

		for k := range n {
			assert.InDelta(t, real(want[k]), real(buf[k]), 1e-9, "bin %d real", k)
			assert.InDelta(t, imag(want[k]), imag(buf[k]), 1e-9, "bin %d imag", k)
		}
	})
}
