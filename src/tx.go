package mt63

/*------------------------------------------------------------------
 *
 * Purpose:   	MT63 transmitter, one symbol at a time.
 *
 * Description:	Each carrier has a phase, kept as an index into the
 *		FFT twiddle table.  For every symbol the phase moves on
 *		by whatever the carrier frequency accumulates over
 *		SymbolSepar samples, plus half a turn when the data bit
 *		is 0.
 *
 *		Even carriers go into one 512 point inverse FFT and
 *		odd carriers into another.  The two blocks are shaped
 *		and overlapped 100 samples apart, which is the half
 *		symbol stagger between even and odd carriers.
 *
 *		Every Send function returns the audio for one symbol,
 *		SymbolSepar * DecimateRatio samples at SampleRate.
 *
 *---------------------------------------------------------------*/

import (
	"math"
	"math/rand/v2"
)

const txAmpl = 4.0 / DataCarriers

type Transmitter struct {
	mode Mode
	fft  *FFT
	enc  *Encoder
	rng  *rand.Rand

	txVect    [DataCarriers]int // Carrier phase, index into Twiddle.
	phaseCorr [DataCarriers]int // Phase advance over one symbol.

	buff   []complex128 // Two FFT blocks, even and odd carriers.
	window *overlapWindow
	comb   *quadratureComb
}

// NewTransmitter makes a transmitter.  The seed drives the random
// interleaver fill and the jam symbol.
func NewTransmitter(mode Mode, long bool, seed uint64) (*Transmitter, error) {
	var fft, err = NewFFT(SymbolLen)
	if err != nil {
		return nil, err
	}

	var rng = rand.New(rand.NewPCG(seed, seed^0x6d743633)) //nolint:gosec

	var t = &Transmitter{ //nolint:exhaustruct
		mode:   mode,
		fft:    fft,
		rng:    rng,
		enc:    NewEncoder(long, rng),
		buff:   make([]complex128, 2*SymbolLen),
		window: newOverlapWindow(SymbolLen, SymbolSepar/2, symbolShape()),
		comb:   newQuadratureComb(mode),
	}

	const mask = SymbolLen - 1

	var p, step = 0, 0
	for i := range t.txVect {
		t.txVect[i] = p
		step++
		p = (p + step) & mask
	}

	var c = (SymbolSepar * mode.FirstDataCarr) & mask
	for i := range t.phaseCorr {
		t.phaseCorr[i] = c
		c = (c + SymbolSepar*DataCarrSepar) & mask
	}

	return t, nil
}

func (t *Transmitter) Mode() Mode {
	return t.mode
}

// Depth is the interleave length in symbols.
func (t *Transmitter) Depth() int {
	return t.enc.Depth()
}

// SendChar transmits one 7 bit code.
func (t *Transmitter) SendChar(code int) []float64 {
	var bits = t.enc.Process(code)

	for i, bit := range bits {
		var flip = IfThenElse(bit, 0, SymbolLen/2)
		t.txVect[i] = (t.txVect[i] + t.phaseCorr[i] + flip) & (SymbolLen - 1)
	}

	return t.synthesize()
}

/*------------------------------------------------------------------
 *
 * Name:	SendJam
 *
 * Purpose:	Final symbol after the flush.
 *
 * Description:	Every carrier turns a quarter turn, mostly one way,
 *		so that the receiver's decoder does not see a valid
 *		code word as the signal ends.
 *
 *---------------------------------------------------------------*/

func (t *Transmitter) SendJam() []float64 {
	const mask = SymbolLen - 1

	for i := range t.txVect {
		var turn = 3 * SymbolLen / 4
		if t.rng.IntN(256) == 0 {
			turn = SymbolLen / 4
		}
		t.txVect[i] = (t.txVect[i] + t.phaseCorr[i] + turn) & mask
	}

	return t.synthesize()
}

// SendTune sends the lowest carrier and optionally the highest one,
// for transmitter adjustment.
func (t *Transmitter) SendTune(twoTones bool) []float64 {
	const mask = SymbolLen - 1
	var ampl = txAmpl * math.Sqrt(DataCarriers/2)

	for i := range t.txVect {
		t.txVect[i] = (t.txVect[i] + t.phaseCorr[i]) & mask
	}

	clear(t.buff)

	var c = t.mode.FirstDataCarr
	t.buff[t.fft.BitRev[c&mask]] = complex(ampl, 0) * conj(t.fft.Twiddle[t.txVect[0]])

	if twoTones {
		var i = DataCarriers - 1
		c = t.mode.FirstDataCarr + i*DataCarrSepar
		t.buff[SymbolLen+t.fft.BitRev[c&mask]] = complex(ampl, 0) * conj(t.fft.Twiddle[t.txVect[i]])
	}

	return t.transform()
}

// SendSilence lets the last symbol die away.
func (t *Transmitter) SendSilence() []float64 {
	return t.comb.Process(t.window.Silence(2))
}

func (t *Transmitter) synthesize() []float64 {
	const mask = SymbolLen - 1

	clear(t.buff)

	for i := range t.txVect {
		var c = t.mode.FirstDataCarr + i*DataCarrSepar
		var r = t.fft.BitRev[c&mask] + SymbolLen*(i&1)
		t.buff[r] = complex(txAmpl, 0) * conj(t.fft.Twiddle[t.txVect[i]])
	}

	return t.transform()
}

// Inverse FFT of the two blocks, which are already in bit reversed
// order, then shape, overlap and convert to audio.
func (t *Transmitter) transform() []float64 {
	t.fft.CoreProc(t.buff[:SymbolLen])
	t.fft.CoreProc(t.buff[SymbolLen:])

	for i, x := range t.buff {
		t.buff[i] = conj(x)
	}

	return t.comb.Process(t.window.Process(t.buff))
}
