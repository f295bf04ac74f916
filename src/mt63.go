package mt63

/*------------------------------------------------------------------
 *
 * Purpose:   	MT63 multi-carrier modem, protocol constants and
 *		per-bandwidth mode table.
 *
 * Description:	MT63 sends one 7 bit character per symbol, spread over
 *		64 carriers with a Walsh code and interleaved across 32
 *		or 64 symbols.  Each carrier carries one differential
 *		BPSK bit per symbol.  Even and odd carriers are
 *		staggered by half a symbol.
 *
 *		The modem itself runs on complex baseband at
 *		SampleRate/DecimateRatio.  A 512 point FFT with 200
 *		samples between symbols is the same for every mode;
 *		bandwidth is selected by the decimation ratio.
 *
 *		   Mode		Center	Decimate	Baud
 *		   MT63-500	750 Hz	8		5
 *		   MT63-1000	1000 Hz	4		10
 *		   MT63-2000	1500 Hz	2		20
 *
 *---------------------------------------------------------------*/

import (
	"errors"
	"fmt"
	"math"
)

const SampleRate = 8000 // Fixed audio rate of the modem.

const (
	DataCarriers  = 64  // Number of data carriers.
	SymbolLen     = 512 // FFT size and symbol window length.
	SymbolSepar   = 200 // Baseband samples between symbols.
	DataCarrSepar = 4   // FFT bins between carriers.
	SymbolDiv     = 4   // Sync frames per symbol.

	syncStep   = SymbolSepar / SymbolDiv
	scanMargin = 8 // Carriers scanned either side of the nominal grid.

	shortInterleave = 32
	longInterleave  = 64
)

var (
	ErrInvalidBandwidth   = errors.New("invalid bandwidth")
	ErrNotPowerOfTwo      = errors.New("size is not a power of two")
	ErrInvalidIntegration = errors.New("invalid integration length")
	ErrCapacity           = errors.New("delay line capacity exceeded")
	ErrSampleRate         = errors.New("unsupported sample rate")
)

type Mode struct {
	Bandwidth      int     // 500, 1000 or 2000 Hz.
	Center         float64 // Center of the occupied band, Hz.
	FirstDataCarr  int     // FFT bin of the lowest carrier.
	AliasFilterLen int     // Quadrature filter taps.
	DecimateRatio  int     // Audio samples per baseband sample.
}

/*------------------------------------------------------------------
 *
 * Name:	NewMode
 *
 * Purpose:	Work out carrier placement and filtering for a bandwidth.
 *
 * Inputs:	bandwidth	- 500, 1000, or 2000.
 *
 *		center		- Center frequency in Hz.  0 selects
 *				  the usual value for the bandwidth.
 *
 * Returns:	Mode, or ErrInvalidBandwidth.
 *
 *---------------------------------------------------------------*/

func NewMode(bandwidth int, center float64) (Mode, error) {
	var m = Mode{Bandwidth: bandwidth, Center: center} //nolint:exhaustruct

	var binsPer500 float64

	switch bandwidth {
	case 500:
		binsPer500 = 256
		m.AliasFilterLen = 128
		m.DecimateRatio = 8
		if center == 0 {
			m.Center = 750
		}
	case 1000:
		binsPer500 = 128
		m.AliasFilterLen = 64
		m.DecimateRatio = 4
		if center == 0 {
			m.Center = 1000
		}
	case 2000:
		binsPer500 = 64
		m.AliasFilterLen = 64
		m.DecimateRatio = 2
		if center == 0 {
			m.Center = 1500
		}
	default:
		return Mode{}, fmt.Errorf("%w: %d, valid values are 500, 1000 and 2000", ErrInvalidBandwidth, bandwidth)
	}

	var low = m.Center - float64(bandwidth)/2
	if low < 0 || m.Center+float64(bandwidth)/2 > SampleRate/2 {
		return Mode{}, fmt.Errorf("%w: center %.1f Hz does not fit %d Hz", ErrInvalidBandwidth, m.Center, bandwidth)
	}

	m.FirstDataCarr = int(math.Floor(low*binsPer500/500 + 0.5))

	return m, nil
}

// Band edges for the quadrature filters, in radians per audio sample.
func (m Mode) filterEdges() (float64, float64) {
	var hbw = 1.5 * float64(m.Bandwidth) / 2
	var low = m.Center - hbw
	var high = m.Center + hbw
	if low < 100 {
		low = 100
	}
	if high > SampleRate/2 {
		high = SampleRate / 2
	}
	return low * math.Pi / (SampleRate / 2), high * math.Pi / (SampleRate / 2)
}

// Baseband sample rate.
func (m Mode) BasebandRate() int {
	return SampleRate / m.DecimateRatio
}

// Audio samples per symbol.
func (m Mode) SymbolSamples() int {
	return SymbolSepar * m.DecimateRatio
}

func interleavePattern(long bool) (int, []int) {
	if long {
		return longInterleave, longInterleavePattern[:]
	}
	return shortInterleave, shortInterleavePattern[:]
}
