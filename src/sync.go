package mt63

/*------------------------------------------------------------------
 *
 * Purpose:   	Symbol timing and frequency acquisition.
 *
 * Description:	A 512 point FFT is taken every 50 baseband samples,
 *		four per symbol.  For each of the four sub-symbol
 *		phases, every FFT bin is compared with the same bin of
 *		the frame one symbol earlier.  With the data phase flips
 *		squared away, a carrier gives a steady correlation when
 *		the frames line up with symbol boundaries and a weak one
 *		when they straddle them.
 *
 *		Once per symbol the correlations are summed along the
 *		carrier grid for every possible grid offset.  The peak
 *		gives the frequency offset, and the balance between the
 *		four phases gives the position of the symbol boundary.
 *
 *---------------------------------------------------------------*/

import (
	"math"
	"math/cmplx"
)

const (
	syncScanLen = (DataCarriers + 2*scanMargin) * DataCarrSepar
	syncFitLen  = 2 * scanMargin * DataCarrSepar

	// Ambiguity of the frequency estimate from a one symbol correlation.
	syncFreqAmbiguity = 0.5 * SymbolLen / SymbolSepar
)

type SyncState struct {
	Locked        bool
	Confidence    float64
	FreqOffset    float64 // FFT bins.
	FreqDeviation float64
	SymbolPointer int     // 0..3, sub-symbol phase of the boundary.
	SymbolShift   float64 // Boundary position within a symbol, samples.
}

type synchronizer struct {
	fft       *FFT
	shape     []float64
	buf       []complex128
	scanFirst int
	ptr       int // Sub-symbol phase of the latest frame.

	prev   [SymbolDiv][syncScanLen]complex128 // Squared phase from one symbol ago.
	phCorr [syncScanLen]complex128

	correlMid [SymbolDiv][syncScanLen]complex128
	correlOut [SymbolDiv][syncScanLen]complex128
	norm      [SymbolDiv][syncScanLen]complex128
	aver      [SymbolDiv][syncFitLen]complex128
	powerMid  [syncScanLen]float64
	powerOut  [syncScanLen]float64
	wc, wp    lowPass2Weights

	fit    [syncFitLen]complex128
	fitPos int

	symbPipe []complex128
	freqPipe []float64
	trackPtr int
	averSymb complex128
	averFreq float64

	holdThres float64
	lockThres float64
	state     SyncState

	firstDataCarr int
	spectrum      func([]float64)
	spectrumBuf   []float64
}

func newSynchronizer(fft *FFT, mode Mode, integ int) *synchronizer {
	var s = &synchronizer{ //nolint:exhaustruct
		fft:           fft,
		shape:         symbolShape(),
		buf:           make([]complex128, SymbolLen),
		scanFirst:     mod(mode.FirstDataCarr-scanMargin*DataCarrSepar, SymbolLen),
		wc:            newLowPass2Weights(float64(integ)),
		wp:            newLowPass2Weights(float64(integ * SymbolDiv)),
		fitPos:        scanMargin * DataCarrSepar,
		symbPipe:      make([]complex128, integ),
		freqPipe:      make([]float64, integ),
		firstDataCarr: mode.FirstDataCarr,
	}

	var c = (s.scanFirst * SymbolSepar) & (SymbolLen - 1)
	for i := range s.phCorr {
		var w = fft.Twiddle[c]
		s.phCorr[i] = w * w
		c = (c + SymbolSepar) & (SymbolLen - 1)
	}

	s.holdThres = 1.5 * math.Sqrt(1/float64(integ*DataCarriers))
	s.lockThres = 1.5 * s.holdThres

	return s
}

// Process takes the next frame, SymbolLen samples starting syncStep
// after the previous one.  It returns true when this frame is the one
// where a symbol should be demodulated.
func (s *synchronizer) Process(frame []complex128) bool {
	Assert(len(frame) == SymbolLen)

	s.ptr = (s.ptr + 1) & (SymbolDiv - 1)

	for i, x := range frame {
		s.buf[s.fft.BitRev[i]] = x * complex(s.shape[i], 0)
	}
	s.fft.CoreProc(s.buf)

	if s.spectrum != nil {
		s.reportSpectrum()
	}

	var prev = &s.prev[s.ptr]
	for i := range syncScanLen {
		var x = s.buf[(s.scanFirst+i)&(SymbolLen-1)]
		var p = power(x)

		var d complex128
		if p > 0 {
			d = x * x / complex(math.Sqrt(p), 0)
		}

		lowPass2(p, &s.powerMid[i], &s.powerOut[i], s.wp)

		var correl = d * conj(prev[i]*s.phCorr[i])
		lowPass2Cmplx(correl, &s.correlMid[s.ptr][i], &s.correlOut[s.ptr][i], s.wc)

		prev[i] = d
	}

	if s.ptr == s.state.SymbolPointer^2 {
		s.update()
	}

	return s.ptr == s.state.SymbolPointer
}

func (s *synchronizer) State() SyncState {
	return s.state
}

// Spectrum power with the signal center in the middle.
func (s *synchronizer) reportSpectrum() {
	if s.spectrumBuf == nil {
		s.spectrumBuf = make([]float64, SymbolLen)
	}
	var j = s.firstDataCarr + DataCarriers/2*DataCarrSepar - SymbolLen/2
	for i := range s.spectrumBuf {
		s.spectrumBuf[i] = power(s.buf[mod(j+i, SymbolLen)])
	}
	s.spectrum(s.spectrumBuf)
}

/*------------------------------------------------------------------
 *
 * Name:	correlSum
 *
 * Purpose:	Sum correlations along the carrier grid.
 *
 * Inputs:	c1	- Correlations for one phase, from the grid start.
 *		c2	- Correlations for the phase half a symbol
 *			  away, from the grid start plus one carrier.
 *
 * Outputs:	aver	- Every 8th element, starting with 0, gets the
 *			  average over 32 carrier pairs at that offset.
 *
 * Description:	Even carriers are in phase with one frame and odd
 *		carriers with the frame half a symbol later, so both
 *		contribute at the same grid offset.
 *
 *---------------------------------------------------------------*/

func correlSum(c1, c2, aver []complex128) {
	const step = 2 * DataCarrSepar
	const span = DataCarriers * DataCarrSepar

	var sum complex128
	for i := 0; i < span; i += step {
		sum += c1[i] + c2[i]
	}
	aver[0] = sum / DataCarriers

	for i := 0; i < syncFitLen-step; {
		sum -= c1[i] + c2[i]
		sum += c1[i+span] + c2[i+span]
		i += step
		aver[i] = sum / DataCarriers
	}
}

func (s *synchronizer) update() {
	for p := range SymbolDiv {
		for i := range syncScanLen {
			if s.powerOut[i] > 0 {
				s.norm[p][i] = s.correlOut[p][i] / complex(s.powerOut[i], 0)
			} else {
				s.norm[p][i] = 0
			}
		}
	}

	for p := range SymbolDiv {
		var p2 = (p + SymbolDiv/2) & (SymbolDiv - 1)
		for k := range 2 * DataCarrSepar {
			correlSum(s.norm[p][k:], s.norm[p2][k+DataCarrSepar:], s.aver[p][k:])
		}
	}

	for i := range s.fit {
		s.fit[i] = complex(
			cmplx.Abs(s.aver[0][i])-cmplx.Abs(s.aver[2][i]),
			cmplx.Abs(s.aver[1][i])-cmplx.Abs(s.aver[3][i]))
	}

	// Peak, staying far enough from the ends for the fits below.
	var j = 4
	var peak = power(s.fit[j])
	for i := 5; i < syncFitLen-4; i++ {
		if power(s.fit[i]) > peak {
			peak = power(s.fit[i])
			j = i
		}
	}

	// Don't jump more than one carrier from where we were.
	var k = (j - s.fitPos) / DataCarrSepar
	if k > 1 {
		j -= (k - 1) * DataCarrSepar
	} else if k < -1 {
		j -= (k + 1) * DataCarrSepar
	}
	s.fitPos = j

	var symbTime complex128
	var freqOfs float64

	if peak > 0 {
		symbTime = s.fit[j] + 0.5*(s.fit[j-1]+s.fit[j+1])
		var symbShift = turns(symbTime) * SymbolDiv

		var scal = func(x complex128) float64 {
			return real(symbTime)*real(x) + imag(symbTime)*imag(x)
		}

		var pI = scal(s.fit[j]) + 0.7*scal(s.fit[j-1]) + 0.7*scal(s.fit[j+1])
		var pQ = 0.7*scal(s.fit[j+1]) - 0.7*scal(s.fit[j-1]) +
			0.5*scal(s.fit[j+2]) - 0.5*scal(s.fit[j-2])
		freqOfs = float64(j) + math.Atan2(pQ, pI)/(2*math.Pi/8)

		// Refine with the phase of the correlation at the nearest bin,
		// interpolated between the two phases around the boundary.
		var i = int(math.Floor(freqOfs + 0.5))
		var s1 = int(math.Floor(symbShift))
		var s2 = (s1 + 1) & (SymbolDiv - 1)
		var w0 = float64(s1) + 1 - symbShift
		var w1 = symbShift - float64(s1)
		var a = complex(w0, 0)*s.aver[s1][i] + complex(w1, 0)*s.aver[s2][i]

		var f0 = float64(i) + turnsSigned(a)*syncFreqAmbiguity - freqOfs
		freqOfs += closestOf3(f0-syncFreqAmbiguity, f0, f0+syncFreqAmbiguity)
	}

	// Locked, compare with the running average.  Otherwise with the
	// previous estimate.
	var refSymb, refFreq = s.averSymb, s.averFreq
	if !s.state.Locked {
		refSymb = s.symbPipe[s.trackPtr]
		refFreq = s.freqPipe[s.trackPtr]
	}

	// Half a symbol of timing error looks like one carrier of frequency.
	if real(symbTime)*real(refSymb)+imag(symbTime)*imag(refSymb) < 0 {
		symbTime = -symbTime
		freqOfs -= DataCarrSepar
	}

	const a8 = 2 * DataCarrSepar
	var step float64
	if s.state.Locked {
		freqOfs -= a8 * math.Floor((freqOfs-refFreq)/a8+0.5)
		step = syncFreqAmbiguity
	} else {
		freqOfs -= a8 * math.Floor(freqOfs/a8+0.5)
		step = a8
	}

	var f0 = freqOfs - refFreq
	var fl, fu = f0 - step, f0 + step
	if math.Abs(fl) < math.Abs(f0) {
		freqOfs += IfThenElse(math.Abs(fu) < math.Abs(fl), step, -step)
	} else if math.Abs(fu) < math.Abs(f0) {
		freqOfs += step
	}

	s.trackPtr = (s.trackPtr + 1) % len(s.symbPipe)
	s.symbPipe[s.trackPtr] = symbTime
	s.freqPipe[s.trackPtr] = freqOfs

	s.averSymb, _, _ = selFitAverCmplx(s.symbPipe, 3.0, 4)

	var dev float64
	s.averFreq, dev, _ = selFitAver(s.freqPipe, 2.5, 4)

	s.state.Confidence = cmplx.Abs(s.averSymb)
	s.state.FreqOffset = s.averFreq
	s.state.FreqDeviation = dev

	if s.state.Confidence > 0 {
		var t = turns(s.averSymb)
		s.state.SymbolShift = t * SymbolSepar
		s.state.SymbolPointer = min(int(math.Floor(t*SymbolDiv)), SymbolDiv-1)
	}

	s.state.Locked = nextLockState(s.state.Locked, s.state.Confidence, dev, s.holdThres, s.lockThres)
	s.state.Confidence *= 0.5
}

/*------------------------------------------------------------------
 *
 * Name:	nextLockState
 *
 * Purpose:	Lock hysteresis.
 *
 * Description:	Locking needs a confidence above lock and a steady
 *		frequency.  Once locked, confidence has to drop below
 *		the lower hold threshold, or the frequency has to
 *		wander, before lock is lost.
 *
 *---------------------------------------------------------------*/

func nextLockState(locked bool, conf, dev, hold, lock float64) bool {
	if locked {
		return !(conf < hold || dev > 0.25)
	}
	return conf > lock && dev < 0.125
}

// Phase as a fraction of a turn, in (-0.5, 0.5].
func turnsSigned(x complex128) float64 {
	return cmplx.Phase(x) / (2 * math.Pi)
}

// Whichever of fl, f0, fu is closest to zero, preferring f0 then fl.
func closestOf3(fl, f0, fu float64) float64 {
	if math.Abs(fl) < math.Abs(f0) {
		return IfThenElse(math.Abs(fu) < math.Abs(fl), fu, fl)
	}
	return IfThenElse(math.Abs(fu) < math.Abs(f0), fu, f0)
}
