package mt63

/*------------------------------------------------------------------
 *
 * Name:	Decoder
 *
 * Purpose:	Soft decision Walsh decoder with carrier offset search.
 *
 * Description:	The demodulator gives one soft value per scan carrier:
 *		the 64 data carriers plus a margin of 8 either side.
 *		Each of the 17 possible alignments is deinterleaved and
 *		decoded on its own.  The alignment with the best
 *		smoothed signal to noise ratio wins.
 *
 *		Decoded characters come out depth + integ/2 symbols
 *		after the corresponding soft values went in.
 *
 *---------------------------------------------------------------*/

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	scanLen  = 2*scanMargin + 1
	scanSize = DataCarriers + 2*scanMargin

	// SNR reported for a code word with no noise at all.
	maxDecodeSNR = 64
)

type Decoder struct {
	depth int
	delay []int // Deinterleave delay per carrier.

	pipe   *interleavePipe[float64]
	codes  *interleavePipe[byte]
	walsh  [DataCarriers]float64
	scan   [scanLen]byte
	snrMid [scanLen]float64
	snrOut [scanLen]float64
	w      lowPass2Weights

	Output        byte
	SignalToNoise float64
	CarrierOffset int
}

func NewDecoder(long bool, integ int) *Decoder {
	Assert(integ >= 2 && integ%2 == 0)

	var depth, pattern = interleavePattern(long)

	var d = &Decoder{ //nolint:exhaustruct
		depth: depth,
		delay: encoderDelays(pattern, depth),
		pipe:  newInterleavePipe[float64](depth+2, scanSize),
		codes: newInterleavePipe[byte](integ/2, scanLen),
		w:     newLowPass2Weights(float64(integ)),
	}

	// Every carrier sees depth+1 symbols of delay in total.
	for i := range d.delay {
		d.delay[i] = depth + 1 - d.delay[i]
	}

	return d
}

// Process takes the soft values for one symbol, scanSize of them.
// It updates Output, SignalToNoise and CarrierOffset.
func (d *Decoder) Process(data []float64) {
	Assert(len(data) == scanSize)

	d.pipe.Push(data)

	for s := range scanLen {
		for i := range d.walsh {
			var delay = d.delay[i]
			if s&1 == 1 && i&1 == 1 {
				delay--
			}
			d.walsh[i] = d.pipe.At(delay, s+i)
		}

		WalshForward(d.walsh[:])

		var maxPos = floats.MaxIdx(d.walsh[:])
		var minPos = floats.MinIdx(d.walsh[:])
		var hi, lo = d.walsh[maxPos], d.walsh[minPos]

		var code int
		var sig float64
		if math.Abs(hi) > math.Abs(lo) {
			code = maxPos + DataCarriers
			sig = math.Abs(hi)
			d.walsh[maxPos] = 0
		} else {
			code = minPos
			sig = math.Abs(lo)
			d.walsh[minPos] = 0
		}

		var noise = math.Sqrt(floats.Dot(d.walsh[:], d.walsh[:]) / DataCarriers)

		var snr float64
		switch {
		case noise > 0:
			snr = sig / noise
		case sig > 0:
			snr = maxDecodeSNR
		}

		lowPass2(snr, &d.snrMid[s], &d.snrOut[s], d.w)
		d.scan[s] = byte(code)
	}

	d.codes.Push(d.scan[:])

	var best = floats.MaxIdx(d.snrOut[:])
	d.Output = d.codes.At(d.codes.rows-1, best)
	d.SignalToNoise = d.snrOut[best]
	d.CarrierOffset = best - scanMargin
}
