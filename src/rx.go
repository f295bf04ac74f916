package mt63

/*------------------------------------------------------------------
 *
 * Purpose:   	MT63 receiver, audio in, characters out.
 *
 * Description:	Audio at SampleRate is split to complex baseband and
 *		kept in a delay line.  The synchronizer looks at a frame
 *		every syncStep samples.  Once per symbol it says where
 *		the symbol boundary is, and the demodulator goes back
 *		procDelay samples into the delay line to pick it up.
 *		The delay lets the timing and frequency estimates settle
 *		on signal both before and after the symbol.
 *
 *		One character comes out per symbol, whether or not
 *		there is a signal.  Squelch is up to the caller.
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
	"math"
)

// Character is one decoder output.
type Character struct {
	Code byte
	SNR  float64
}

// SymbolBoundary says where to demodulate the next symbol.
type SymbolBoundary struct {
	Start      int     // Stream position, baseband samples.
	FreqOffset float64 // FFT bins.
	TimeDist   int     // Samples since the previous boundary.
}

type Receiver struct {
	mode  Mode
	integ int

	split   *quadratureSplit
	testOfs *mixer
	line    *delayLine
	sync    *synchronizer
	demod   *demodulator
	decoder *Decoder

	procDelay int
	syncPos   int // Stream position of the next sync frame.
	lastStart int

	locked bool
	out    []Character
}

/*------------------------------------------------------------------
 *
 * Name:	NewReceiver
 *
 * Inputs:	mode		- From NewMode.
 *		long		- Long (64) rather than short (32) interleave.
 *		integ		- Integration length in symbols, even, >= 2.
 *				  Longer copes with weaker signals but takes
 *				  longer to lock and follow drift.
 *		testOffset	- Shift the input by this many Hz, for testing
 *				  the frequency tracking.  Normally 0.
 *
 *---------------------------------------------------------------*/

func NewReceiver(mode Mode, long bool, integ int, testOffset float64) (*Receiver, error) {
	if integ < 2 || integ%2 != 0 {
		return nil, fmt.Errorf("%w: %d, must be even and at least 2", ErrInvalidIntegration, integ)
	}

	var fft, err = NewFFT(SymbolLen)
	if err != nil {
		return nil, err
	}

	var procDelay = integ * SymbolSepar

	var r = &Receiver{ //nolint:exhaustruct
		mode:      mode,
		integ:     integ,
		split:     newQuadratureSplit(mode),
		line:      newDelayLine(procDelay+SymbolLen+SymbolSepar+SymbolLen, 0),
		sync:      newSynchronizer(fft, mode, integ),
		demod:     newDemodulator(fft, mode, integ),
		decoder:   NewDecoder(long, integ),
		procDelay: procDelay,
		lastStart: -procDelay,
	}

	if testOffset != 0 {
		r.testOfs = newMixer(-2 * math.Pi * testOffset / float64(mode.BasebandRate()))
	}

	return r, nil
}

func (r *Receiver) Mode() Mode {
	return r.mode
}

// SetSpectrumFunc asks for the power spectrum of every sync frame,
// SymbolLen bins with the signal center in the middle.  The slice is
// reused.  nil turns it off.
func (r *Receiver) SetSpectrumFunc(f func(power []float64)) {
	r.sync.spectrum = f
}

// Process takes audio at SampleRate.  It returns the characters decoded
// from it, which are only valid until the next call.
func (r *Receiver) Process(audio []float64) ([]Character, error) {
	r.out = r.out[:0]

	var base = r.split.Process(audio)
	if r.testOfs != nil {
		r.testOfs.Process(base)
	}

	for len(base) > 0 {
		var n = min(len(base), r.line.Room())
		if err := r.line.Write(base[:n]); err != nil {
			return r.out, err
		}
		base = base[n:]
		r.scan()
	}

	return r.out, nil
}

func (r *Receiver) scan() {
	for r.syncPos+SymbolLen <= r.line.End() {
		if r.sync.Process(r.line.Window(r.syncPos, SymbolLen)) {
			var st = r.sync.State()
			var start = r.syncPos - r.procDelay + int(st.SymbolShift) - st.SymbolPointer*syncStep
			r.symbol(SymbolBoundary{
				Start:      start,
				FreqOffset: st.FreqOffset,
				TimeDist:   start - r.lastStart,
			})
			r.lastStart = start
			r.trackLock(st)
		}
		r.syncPos += syncStep
	}
}

func (r *Receiver) symbol(b SymbolBoundary) {
	logger.Debug("symbol", "start", b.Start, "dist", b.TimeDist, "freq", b.FreqOffset)

	var even = r.line.Window(b.Start, SymbolLen)
	var odd = r.line.Window(b.Start+SymbolSepar/2, SymbolLen)

	r.decoder.Process(r.demod.Process(even, odd, b.FreqOffset, b.TimeDist))
	r.out = append(r.out, Character{Code: r.decoder.Output, SNR: r.decoder.SignalToNoise})
}

func (r *Receiver) trackLock(st SyncState) {
	if st.Locked == r.locked {
		return
	}
	r.locked = st.Locked
	if st.Locked {
		logger.Info("Locked", "confidence", st.Confidence, "freq", r.FreqOffsetHz(), "deviation", st.FreqDeviation)
	} else {
		logger.Info("Lost lock", "confidence", st.Confidence, "deviation", st.FreqDeviation)
	}
}

func (r *Receiver) SyncState() SyncState {
	return r.sync.State()
}

func (r *Receiver) Locked() bool {
	return r.sync.State().Locked
}

// FreqOffsetHz is the total frequency offset in Hz.  The synchronizer only
// knows it to within a carrier spacing, the decoder says which carrier.
func (r *Receiver) FreqOffsetHz() float64 {
	var bins = r.sync.State().FreqOffset + DataCarrSepar*float64(r.decoder.CarrierOffset)
	return bins * float64(r.mode.BasebandRate()) / SymbolLen
}

// FECSNR is the decoder's smoothed signal to noise ratio.
func (r *Receiver) FECSNR() float64 {
	return r.decoder.SignalToNoise
}

// CarrierOffset is how many carriers the signal is away from where it
// should be, as found by the decoder.
func (r *Receiver) CarrierOffset() int {
	return r.decoder.CarrierOffset
}
