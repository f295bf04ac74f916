package mt63

/*------------------------------------------------------------------
 *
 * Purpose:     Small DSP building blocks shared by transmit and receive:
 *		filter design, low-pass integrators, trimmed averages.
 *
 *----------------------------------------------------------------*/

import (
	"math"
	"math/cmplx"
)

/*------------------------------------------------------------------
 *
 * Name:        blackman3
 *
 * Purpose:     Blackman-Harris window, as a function of phase.
 *
 * Inputs:   	phase	- 0 at the window center, +-pi at the edges.
 *
 * Returns:     Multiplier for the window shape.
 *
 *----------------------------------------------------------------*/

func blackman3(phase float64) float64 {
	return 0.35875 + 0.48829*math.Cos(phase) + 0.14128*math.Cos(2*phase) + 0.01168*math.Cos(3*phase)
}

/*------------------------------------------------------------------
 *
 * Name:        winFirI, winFirQ
 *
 * Purpose:     In-phase and quadrature impulse responses of a
 *		band pass filter.
 *
 * Inputs:   	lowOmega, uppOmega	- Band edges, radians per sample.
 *		shape			- Filled with the taps.
 *
 * Description:	The pair forms an analytic (Hilbert) band pass: the I
 *		taps are an ordinary windowed sinc band pass and the
 *		Q taps are the same response shifted by 90 degrees.
 *
 *----------------------------------------------------------------*/

func winFirI(lowOmega, uppOmega float64, shape []float64) {
	var n = float64(len(shape))

	for i := range shape {
		var t = float64(i) + 1 - n/2
		var phase = 2 * math.Pi * t / n

		var v float64
		if t == 0 {
			v = uppOmega - lowOmega
		} else {
			v = (math.Sin(uppOmega*t) - math.Sin(lowOmega*t)) / t
		}
		shape[i] = v * blackman3(phase) / math.Pi
	}
}

func winFirQ(lowOmega, uppOmega float64, shape []float64) {
	var n = float64(len(shape))

	for i := range shape {
		var t = float64(i) + 1 - n/2
		var phase = 2 * math.Pi * t / n

		var v float64
		if t != 0 {
			v = (-math.Cos(uppOmega*t) + math.Cos(lowOmega*t)) / t
		}
		shape[i] = -v * blackman3(phase) / math.Pi
	}
}

/*------------------------------------------------------------------
 *
 * Name:        lowPass2
 *
 * Purpose:     Second order low pass integrator.
 *
 * Inputs:   	in	- New value.
 *		mid	- Internal state.
 *		out	- Output state, updated.
 *		w	- Weights from newLowPass2Weights.
 *
 * Description:	Roughly an integration over integLen samples, but with
 *		a smoother step response than a single pole.
 *
 *----------------------------------------------------------------*/

type lowPass2Weights struct {
	w1, w2, w5 float64
}

func newLowPass2Weights(integLen float64) lowPass2Weights {
	return lowPass2Weights{w1: 1 / integLen, w2: 2 / integLen, w5: 5 / integLen}
}

func lowPass2(in float64, mid, out *float64, w lowPass2Weights) {
	var sum = *mid + *out
	var diff = *mid - *out
	*mid += w.w2*in - w.w1*sum
	*out += w.w5 * diff
}

func lowPass2Cmplx(in complex128, mid, out *complex128, w lowPass2Weights) {
	var sum = *mid + *out
	var diff = *mid - *out
	*mid += complex(w.w2, 0)*in - complex(w.w1, 0)*sum
	*out += complex(w.w5, 0) * diff
}

/*------------------------------------------------------------------
 *
 * Name:        selFitAver
 *
 * Purpose:     Average with outliers thrown away.
 *
 * Inputs:   	data	- Samples.
 *		thres	- Keep samples within thres * rms of the average.
 *		loops	- Number of reselection rounds.
 *
 * Returns:	aver	- Average of the kept samples.
 *		rms	- Spread of the kept samples around aver.
 *		sel	- How many were kept.
 *
 *----------------------------------------------------------------*/

func selFitAver(data []float64, thres float64, loops int) (float64, float64, int) {
	if len(data) == 0 {
		return 0, 0, 0
	}

	var selected = make([]bool, len(data))
	for i := range selected {
		selected[i] = true
	}

	var aver, sel = selMean(data, selected)
	var rms float64

	for range loops {
		var sumSq float64
		for i, x := range data {
			if selected[i] {
				sumSq += (x - aver) * (x - aver)
			}
		}
		rms = math.Sqrt(sumSq / float64(sel))

		var limit = thres * rms
		var n = 0
		for i, x := range data {
			selected[i] = math.Abs(x-aver) <= limit
			if selected[i] {
				n++
			}
		}
		if n == 0 {
			break
		}
		aver, sel = selMean(data, selected)
	}

	return aver, rms, sel
}

func selMean(data []float64, selected []bool) (float64, int) {
	var sum float64
	var n int
	for i, x := range data {
		if selected[i] {
			sum += x
			n++
		}
	}
	return sum / float64(n), n
}

func selFitAverCmplx(data []complex128, thres float64, loops int) (complex128, float64, int) {
	if len(data) == 0 {
		return 0, 0, 0
	}

	var selected = make([]bool, len(data))
	for i := range selected {
		selected[i] = true
	}

	var aver, sel = selMeanCmplx(data, selected)
	var rms float64

	for range loops {
		var sumSq float64
		for i, x := range data {
			if selected[i] {
				sumSq += power(x - aver)
			}
		}
		rms = math.Sqrt(sumSq / float64(sel))

		var limit = thres * rms
		var n = 0
		for i, x := range data {
			selected[i] = cmplx.Abs(x-aver) <= limit
			if selected[i] {
				n++
			}
		}
		if n == 0 {
			break
		}
		aver, sel = selMeanCmplx(data, selected)
	}

	return aver, rms, sel
}

func selMeanCmplx(data []complex128, selected []bool) (complex128, int) {
	var sum complex128
	var n int
	for i, x := range data {
		if selected[i] {
			sum += x
			n++
		}
	}
	return sum / complex(float64(n), 0), n
}

func power(x complex128) float64 {
	return real(x)*real(x) + imag(x)*imag(x)
}

// Phase of x, as a fraction of a full turn in [0, 1).
func turns(x complex128) float64 {
	var t = cmplx.Phase(x) / (2 * math.Pi)
	if t < 0 {
		t += 1
	}
	if t >= 1 {
		t -= 1
	}
	return t
}

func conj(x complex128) complex128 {
	return complex(real(x), -imag(x))
}
