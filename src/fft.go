package mt63

/*------------------------------------------------------------------
 *
 * Purpose:   	In-place radix-2 complex FFT.
 *
 * Description:	Tables are built once by NewFFT and never change.
 *		Transforms do not allocate.
 *
 *		The twiddle table holds exp(+j*2*pi*i/Size) but the
 *		butterflies use its conjugate, so CoreProc computes
 *
 *			X[k] = sum x[n] * exp(-j*2*pi*k*n/N)
 *
 *		An inverse transform is done by the caller with the
 *		usual conjugate trick.
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
	"math"
	"math/bits"
)

type FFT struct {
	Size    int
	BitRev  []int
	Twiddle []complex128
}

func NewFFT(size int) (*FFT, error) {
	if size < 2 || size&(size-1) != 0 {
		return nil, fmt.Errorf("FFT size %d: %w", size, ErrNotPowerOfTwo)
	}

	var f = &FFT{ //nolint:exhaustruct
		Size:    size,
		BitRev:  make([]int, size),
		Twiddle: make([]complex128, size),
	}

	var nbits = bits.TrailingZeros(uint(size))

	for i := range size {
		var phase = 2 * math.Pi * float64(i) / float64(size)
		f.Twiddle[i] = complex(math.Cos(phase), math.Sin(phase))
		f.BitRev[i] = int(bits.Reverse(uint(i)) >> (bits.UintSize - nbits))
	}

	return f, nil
}

// Scramble puts buf into bit-reversed order.
func (f *FFT) Scramble(buf []complex128) {
	Assert(len(buf) >= f.Size)

	for i := range f.Size {
		var j = f.BitRev[i]
		if j > i {
			buf[i], buf[j] = buf[j], buf[i]
		}
	}
}

/*------------------------------------------------------------------
 *
 * Name:	CoreProc
 *
 * Purpose:	Butterfly passes on data which is already scrambled.
 *
 * Inputs:	buf	- At least Size values, bit-reversed order.
 *
 * Outputs:	buf	- Spectrum in natural order.
 *
 * Description:	The first pass has trivial twiddles and is done on its
 *		own.  Later passes double the group size each time and
 *		step through the twiddle table with stride Size/groupSize.
 *
 *---------------------------------------------------------------*/

func (f *FFT) CoreProc(buf []complex128) {
	Assert(len(buf) >= f.Size)

	for i := 0; i < f.Size; i += 2 {
		var a, b = buf[i], buf[i+1]
		buf[i] = a + b
		buf[i+1] = a - b
	}

	var groups = f.Size / 4
	var half = 2

	for groups > 0 {
		var stride = groups
		for g := range groups {
			var base = g * half * 2
			for k := range half {
				var w = f.Twiddle[k*stride]
				var x0 = buf[base+k]
				var x1 = buf[base+k+half] * complex(real(w), -imag(w))
				buf[base+k] = x0 + x1
				buf[base+k+half] = x0 - x1
			}
		}
		groups /= 2
		half *= 2
	}
}

// ProcInPlace is a complete forward transform.
func (f *FFT) ProcInPlace(buf []complex128) {
	f.Scramble(buf)
	f.CoreProc(buf)
}
