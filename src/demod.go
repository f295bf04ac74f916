package mt63

/*------------------------------------------------------------------
 *
 * Purpose:   	Differential phase demodulation of one symbol.
 *
 * Description:	Two windows are taken at the symbol boundary found by
 *		the synchronizer: one for the even carriers and one half
 *		a symbol later for the odd carriers.  Each carrier is
 *		compared with its value from the previous symbol, after
 *		allowing for the phase it accumulates over the time
 *		between the two.  A phase flip gives a negative soft
 *		value, no flip a positive one.
 *
 *		All 80 positions of the decoder's scan window are
 *		demodulated, not just the 64 nominal carriers.
 *
 *---------------------------------------------------------------*/

import (
	"math"
	"math/cmplx"
)

type demodulator struct {
	fft   *FFT
	shape []float64
	even  []complex128
	odd   []complex128
	first int // FFT bin of scan position 0, may be negative.

	ref    [scanSize]complex128
	next   [scanSize]complex128
	vect   [scanSize]complex128
	pwrMid [scanSize]float64
	pwrOut [scanSize]float64
	w      lowPass2Weights
	pipe   *interleavePipe[complex128]
	phase  [scanSize]float64
}

func newDemodulator(fft *FFT, mode Mode, integ int) *demodulator {
	return &demodulator{ //nolint:exhaustruct
		fft:   fft,
		shape: symbolShape(),
		even:  make([]complex128, SymbolLen),
		odd:   make([]complex128, SymbolLen),
		first: mode.FirstDataCarr - scanMargin*DataCarrSepar,
		w:     newLowPass2Weights(float64(integ)),
		pipe:  newInterleavePipe[complex128](max(1, integ/2), scanSize),
	}
}

/*------------------------------------------------------------------
 *
 * Name:	Process
 *
 * Inputs:	evenSlice	- SymbolLen samples at the boundary.
 *		oddSlice	- SymbolLen samples half a symbol later.
 *		freqOfs		- Frequency offset in FFT bins.
 *		timeDist	- Samples since the previous boundary.
 *
 * Returns:	One soft value in -1..+1 per scan position.  The
 *		values are delayed by integ/2 symbols.  The slice is
 *		reused by the next call.
 *
 *---------------------------------------------------------------*/

func (d *demodulator) Process(evenSlice, oddSlice []complex128, freqOfs float64, timeDist int) []float64 {
	Assert(len(evenSlice) == SymbolLen && len(oddSlice) == SymbolLen)

	const mask = SymbolLen - 1

	for i := range SymbolLen {
		var ramp = cmplx.Rect(d.shape[i], -2*math.Pi*freqOfs*float64(i)/SymbolLen)
		var r = d.fft.BitRev[i]
		d.even[r] = evenSlice[i] * ramp
		d.odd[r] = oddSlice[i] * ramp
	}
	d.fft.CoreProc(d.even)
	d.fft.CoreProc(d.odd)

	var incr = mod(timeDist*DataCarrSepar, SymbolLen)
	var p = mod(timeDist*d.first, SymbolLen)

	for i := range scanSize {
		var c = (d.first + i*DataCarrSepar) & mask
		var x = IfThenElse(i&1 == 0, d.even[c], d.odd[c])

		d.vect[i] = x * conj(d.ref[i]*d.fft.Twiddle[p])
		lowPass2(power(x), &d.pwrMid[i], &d.pwrOut[i], d.w)
		d.next[i] = x

		p = (p + incr) & mask
	}
	d.ref = d.next

	var rot = cmplx.Rect(1, -float64(timeDist)*2*math.Pi*freqOfs/SymbolLen)

	for i := range scanSize {
		var v = d.vect[i] * rot
		d.vect[i] = d.pipe.At(d.pipe.rows-1, i)
		d.next[i] = v
	}
	d.pipe.Push(d.next[:])

	for i := range scanSize {
		if d.pwrOut[i] > 0 {
			d.phase[i] = max(-1, min(1, real(d.vect[i])/d.pwrOut[i]))
		} else {
			d.phase[i] = 0
		}
	}

	return d.phase[:]
}
