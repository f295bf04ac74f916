package mt63

/*------------------------------------------------------------------
 *
 * Name:	downSampler
 *
 * Purpose:	Bring audio from a sound card rate down to SampleRate.
 *
 * Description:	Box average: every output is the mean of ratio input
 *		samples, with fractional weights at the edges.  Any
 *		partial output at the end of a buffer is carried over
 *		to the next call.
 *
 *		The quadrature splitter which follows has a much
 *		narrower pass band than the box filter so this is
 *		good enough for the purpose.
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
	"math"
)

type downSampler struct {
	from  int
	ratio float64

	// Partial output carried over from the last call.
	tail       bool
	tailSum    float64
	tailWeight float64

	out []float64
}

func newDownSampler(from int) (*downSampler, error) {
	if from < SampleRate {
		return nil, fmt.Errorf("%w: %d Hz is below %d Hz", ErrSampleRate, from, SampleRate)
	}
	return &downSampler{ //nolint:exhaustruct
		from:  from,
		ratio: float64(from) / SampleRate,
	}, nil
}

// Process returns the output samples which are complete.  The result
// is only valid until the next call.
func (d *downSampler) Process(in []float32) []float64 {
	d.out = d.out[:0]

	var pos = 0      // Next whole input sample.
	var used = 0.0   // Fraction of in[pos] already consumed.
	var sum = 0.0    // Weighted sum for the current output.
	var weight = 0.0 // Input still needed for the current output.

	if d.tail {
		sum, weight = d.tailSum, d.tailWeight
		d.tail = false
	} else {
		weight = d.ratio
	}

	for pos < len(in) {
		var avail = 1 - used
		var x = float64(in[pos])

		if weight >= avail {
			sum += x * avail
			weight -= avail
			pos++
			used = 0
		} else {
			sum += x * weight
			used += weight
			weight = 0
		}

		if weight <= 1e-12 {
			d.out = append(d.out, sum/d.ratio)
			sum = 0
			weight = d.ratio
		}
	}

	if math.Abs(weight-d.ratio) > 1e-12 {
		d.tail = true
		d.tailSum = sum
		d.tailWeight = weight
	}

	return d.out
}
