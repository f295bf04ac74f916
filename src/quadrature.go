package mt63

/*------------------------------------------------------------------
 *
 * Purpose:   	Move between real audio and complex baseband.
 *
 * Description:	quadratureSplit filters real audio with an analytic
 *		band pass and keeps every rate'th output, giving complex
 *		baseband where FFT bin 0 sits at 0 Hz of audio.
 *
 *		quadratureComb does the reverse: each complex input
 *		sample is spread through the same pair of filters and
 *		rate real samples come out.
 *
 *---------------------------------------------------------------*/

import (
	"gonum.org/v1/gonum/floats"
)

type quadratureSplit struct {
	shapeI []float64
	shapeQ []float64
	rate   int
	tap    []float64
	out    []complex128
}

func newQuadratureSplit(m Mode) *quadratureSplit {
	var q = &quadratureSplit{
		shapeI: make([]float64, m.AliasFilterLen),
		shapeQ: make([]float64, m.AliasFilterLen),
		rate:   m.DecimateRatio,
		tap:    make([]float64, m.AliasFilterLen),
		out:    nil,
	}
	var low, high = m.filterEdges()
	winFirI(low, high, q.shapeI)
	winFirQ(low, high, q.shapeQ)
	return q
}

// Process returns the baseband samples which became complete.  The
// result is only valid until the next call.
func (q *quadratureSplit) Process(in []float64) []complex128 {
	var n = len(q.shapeI)

	q.tap = append(q.tap, in...)
	q.out = q.out[:0]

	var i = 0
	for ; i+n <= len(q.tap); i += q.rate {
		var win = q.tap[i : i+n]
		q.out = append(q.out, complex(floats.Dot(win, q.shapeI), floats.Dot(win, q.shapeQ)))
	}

	var left = copy(q.tap, q.tap[i:])
	q.tap = q.tap[:left]

	return q.out
}

type quadratureComb struct {
	shapeI []float64
	shapeQ []float64
	rate   int
	tap    []float64
	ptr    int
	out    []float64
}

func newQuadratureComb(m Mode) *quadratureComb {
	var q = &quadratureComb{
		shapeI: make([]float64, m.AliasFilterLen),
		shapeQ: make([]float64, m.AliasFilterLen),
		rate:   m.DecimateRatio,
		tap:    make([]float64, m.AliasFilterLen),
		ptr:    0,
		out:    nil,
	}
	var low, high = m.filterEdges()
	winFirI(low, high, q.shapeI)
	winFirQ(low, high, q.shapeQ)
	return q
}

// Process returns rate audio samples per input.  The result is only
// valid until the next call.
func (q *quadratureComb) Process(in []complex128) []float64 {
	var n = len(q.tap)

	q.out = q.out[:0]
	for _, x := range in {
		var re, im = real(x), imag(x)
		for r := range n {
			var t = (q.ptr + r) % n
			q.tap[t] += re*q.shapeI[r] + im*q.shapeQ[r]
		}
		for range q.rate {
			q.out = append(q.out, q.tap[q.ptr])
			q.tap[q.ptr] = 0
			q.ptr = (q.ptr + 1) % n
		}
	}
	return q.out
}
