package mt63

import (
	"gonum.org/v1/gonum/dsp/window"
)

// symbolShape is the time window applied to every transmitted and
// received symbol, SymbolLen points of Blackman-Harris.
func symbolShape() []float64 {
	var w = make([]float64, SymbolLen)
	for i := range w {
		w[i] = 1
	}
	return window.BlackmanHarris(w)
}

/*------------------------------------------------------------------
 *
 * Name:	overlapWindow
 *
 * Purpose:	Windowed overlap-add of consecutive blocks.
 *
 * Description:	Each input block of length n is multiplied by the
 *		window and added into an accumulator which slides by
 *		dist samples per block.  The first dist samples of
 *		the accumulator are complete and become the output.
 *
 *---------------------------------------------------------------*/

type overlapWindow struct {
	n      int
	dist   int
	window []float64
	buff   []complex128
	out    []complex128
}

func newOverlapWindow(n, dist int, shape []float64) *overlapWindow {
	Assert(dist <= n && len(shape) == n)
	return &overlapWindow{
		n:      n,
		dist:   dist,
		window: shape,
		buff:   make([]complex128, n),
		out:    nil,
	}
}

// Process adds len(in)/n blocks and returns dist output samples for
// each of them.  The result is only valid until the next call.
func (w *overlapWindow) Process(in []complex128) []complex128 {
	Assert(len(in)%w.n == 0)

	w.out = w.out[:0]
	for b := 0; b < len(in); b += w.n {
		w.processBlock(in[b : b+w.n])
	}
	return w.out
}

func (w *overlapWindow) processBlock(in []complex128) {
	for i := range w.dist {
		w.out = append(w.out, w.buff[i]+in[i]*complex(w.window[i], 0))
	}
	for i := w.dist; i < w.n-w.dist; i++ {
		w.buff[i-w.dist] = w.buff[i] + in[i]*complex(w.window[i], 0)
	}
	for i := w.n - w.dist; i < w.n; i++ {
		w.buff[i-w.dist] = in[i] * complex(w.window[i], 0)
	}
}

// Silence slides the window the given number of times with no input.
func (w *overlapWindow) Silence(slides int) []complex128 {
	w.out = w.out[:0]
	for range slides {
		w.out = append(w.out, w.buff[:w.dist]...)
		copy(w.buff, w.buff[w.dist:])
		clear(w.buff[w.n-w.dist:])
	}
	return w.out
}
