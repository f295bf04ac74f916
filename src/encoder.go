package mt63

import (
	"math/rand/v2"
)

/*------------------------------------------------------------------
 *
 * Name:	Encoder
 *
 * Purpose:	Turn a 7 bit character into one phase flip decision
 *		per carrier.
 *
 * Description:	The character selects one row of a 64x64 Walsh matrix,
 *		with sign, giving 128 code words.  The bits are then
 *		interleaved over depth symbols.
 *
 *---------------------------------------------------------------*/

type Encoder struct {
	depth  int
	delay  []int
	pipe   *interleavePipe[bool]
	walsh  [DataCarriers]float64
	row    [DataCarriers]bool
	output [DataCarriers]bool
}

// NewEncoder makes an encoder for short (32) or long (64) interleave.
// If rng is not nil, the interleave pipe starts out full of random bits
// rather than zeros.
func NewEncoder(long bool, rng *rand.Rand) *Encoder {
	var depth, pattern = interleavePattern(long)

	var e = &Encoder{ //nolint:exhaustruct
		depth: depth,
		delay: encoderDelays(pattern, depth),
		pipe:  newInterleavePipe[bool](depth, DataCarriers),
	}

	if rng != nil {
		for range depth {
			for i := range e.row {
				e.row[i] = rng.IntN(2) == 1
			}
			e.pipe.Push(e.row[:])
		}
	}

	return e
}

// Depth is the interleave length in symbols.
func (e *Encoder) Depth() int {
	return e.depth
}

// Process encodes one character.  The returned slice is reused by the
// next call.
func (e *Encoder) Process(code int) []bool {
	code &= 2*DataCarriers - 1

	clear(e.walsh[:])
	if code < DataCarriers {
		e.walsh[code] = 1
	} else {
		e.walsh[code-DataCarriers] = -1
	}

	WalshInverse(e.walsh[:])

	for i, v := range e.walsh {
		e.row[i] = v < 0
	}
	e.pipe.Push(e.row[:])

	for i := range e.output {
		e.output[i] = e.pipe.At(e.delay[i], i)
	}

	return e.output[:]
}
