package mt63

/*------------------------------------------------------------------
 *
 * Purpose:   	Text level transmit and receive.
 *
 * Description:	Characters are 8 bits but a symbol carries only 7, and
 *		with short interleave only values below 64 are sent
 *		as they are.  Anything at or above maxCode = 2 * depth
 *		is sent as c / maxCode escape codes (127) followed by
 *		c % maxCode.  The receiver adds maxCode for every escape.
 *
 *		Codes below 8, other than after an escape, are padding.
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
	"math"
)

const (
	escapeCode = 127

	preambleSeconds = 2
	preambleBlock   = 512
	preambleAmpl    = 0.8 * 0.5
	preambleRamp    = 40.0
)

/*------------------------------------------------------------------
 *
 * Name:	Encode
 *
 * Purpose:	Turn text into a complete MT63 transmission.
 *
 * Inputs:	text	- Bytes to send.
 *		cfg	- Bandwidth, interleave, level.
 *
 * Returns:	Audio samples, the sample rate (always SampleRate), or
 *		an error for a bad configuration.
 *
 * Description:	Two tones for 2 seconds, then the text, then enough
 *		zeros to push the last character through the
 *		interleaver, then a jam symbol.
 *
 *---------------------------------------------------------------*/

func Encode(text []byte, cfg Config) ([]float32, int, error) {
	if err := cfg.Validate(); err != nil {
		return nil, 0, err
	}

	var mode, _ = cfg.Mode()

	var tx, err = NewTransmitter(mode, cfg.LongInterleave, cfg.Seed)
	if err != nil {
		return nil, 0, err
	}

	var depth = tx.Depth()

	// Fill the interleaver with zeros.  This part is not sent.
	for range depth {
		tx.SendChar(0)
	}

	var maxCode = cfg.MaxCode()
	var body []float64

	for _, ch := range text {
		var c = int(ch)
		for range c / maxCode {
			body = append(body, tx.SendChar(escapeCode)...)
		}
		body = append(body, tx.SendChar(c%maxCode)...)
	}

	for range depth {
		body = append(body, tx.SendChar(0)...)
	}
	body = append(body, tx.SendJam()...)

	var limit = cfg.SigLimit
	var gain = min(math.Pow(10, cfg.TxLevel/20), limit)

	var out = preamble(mode)
	out = append(out, normalize(body, gain, limit)...)

	logger.Debug("Encoded", "chars", len(text), "samples", len(out))

	return out, SampleRate, nil
}

// Two tones at the band edges, ramped at both ends.
func preamble(mode Mode) []float32 {
	var blocks = SampleRate * preambleSeconds / preambleBlock
	var w1 = 2 * math.Pi * (mode.Center - float64(mode.Bandwidth)/2) / SampleRate
	var w2 = 2 * math.Pi * (mode.Center + 31*float64(mode.Bandwidth)/64) / SampleRate

	var out = make([]float32, 0, blocks*preambleBlock)

	for b := range blocks {
		for j := range preambleBlock {
			var n = float64(b*preambleBlock + j)
			var v = preambleAmpl*math.Cos(w1*n) + preambleAmpl*math.Cos(w2*n)

			if b == 0 {
				v *= 1 - math.Exp(-float64(j)/preambleRamp)
			}
			if b == blocks-1 {
				v *= 1 - math.Exp(-float64(preambleBlock-1-j)/preambleRamp)
			}
			out = append(out, float32(v))
		}
	}

	return out
}

// Scale so the peak is gain, then clip at limit.
func normalize(in []float64, gain, limit float64) []float32 {
	var peak float64
	for _, x := range in {
		peak = max(peak, math.Abs(x))
	}

	var out = make([]float32, len(in))
	if peak == 0 {
		return out
	}

	for i, x := range in {
		out[i] = float32(max(-limit, min(limit, x*gain/peak)))
	}
	return out
}

/*------------------------------------------------------------------
 *
 * Name:	RxSession
 *
 * Purpose:	Receive text from audio at any rate from SampleRate up.
 *
 * Description:	Holds the receiver, the down sampler for the current
 *		input rate, and any escape in progress.
 *
 *---------------------------------------------------------------*/

type RxSession struct {
	cfg     Config
	rx      *Receiver
	down    *downSampler
	pending int // Added to the next character, from escapes.
	maxCode int
	buf     []float64
}

func NewRxSession(cfg Config) (*RxSession, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var mode, _ = cfg.Mode()

	var rx, err = NewReceiver(mode, cfg.LongInterleave, cfg.Integration, cfg.TestOffset)
	if err != nil {
		return nil, err
	}

	return &RxSession{ //nolint:exhaustruct
		cfg:     cfg,
		rx:      rx,
		maxCode: cfg.MaxCode(),
	}, nil
}

func (s *RxSession) Receiver() *Receiver {
	return s.rx
}

// SetSquelch changes the SNR below which characters are dropped.
func (s *RxSession) SetSquelch(v float64) {
	s.cfg.Squelch = v
}

// ProcessAudio decodes a buffer of audio.  Rates below SampleRate are
// refused with ErrSampleRate and the session is left as it was.
func (s *RxSession) ProcessAudio(samples []float32, rate int) (string, error) {
	if rate < SampleRate {
		return "", fmt.Errorf("%w: %d Hz, need at least %d Hz", ErrSampleRate, rate, SampleRate)
	}

	var audio []float64

	if rate == SampleRate {
		s.buf = s.buf[:0]
		for _, x := range samples {
			s.buf = append(s.buf, float64(x))
		}
		audio = s.buf
	} else {
		if s.down == nil || s.down.from != rate {
			var d, err = newDownSampler(rate)
			if err != nil {
				return "", err
			}
			s.down = d
		}
		audio = s.down.Process(samples)
	}

	var chars, err = s.rx.Process(audio)

	var text []byte
	for _, ch := range chars {
		if ch.SNR < s.cfg.Squelch {
			continue
		}
		if c, ok := s.unescape(int(ch.Code)); ok {
			text = append(text, c)
		}
	}

	return string(text), err
}

func (s *RxSession) unescape(c int) (byte, bool) {
	if c < 8 && s.pending == 0 {
		return 0, false
	}
	if c == escapeCode {
		s.pending += s.maxCode
		return 0, false
	}
	c += s.pending
	s.pending = 0
	return byte(c), true
}

// Flush pushes silence through the receiver so that the last characters
// of a transmission come out of the interleaver and the processing delay.
func (s *RxSession) Flush() (string, error) {
	var symbols = s.cfg.Depth() + 2*s.cfg.Integration + 8
	var mode = s.rx.Mode()

	return s.ProcessAudio(make([]float32, symbols*mode.SymbolSamples()), SampleRate)
}
