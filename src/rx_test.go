package mt63

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewReceiver_BadIntegration(t *testing.T) {
	var mode, _ = NewMode(1000, 0)

	for _, integ := range []int{0, 1, 7, -2} {
		var _, err = NewReceiver(mode, false, integ, 0)
		assert.ErrorIs(t, err, ErrInvalidIntegration, "integration %d", integ)
	}
}

// Silence gives one character per symbol and no text.
func Test_Receiver_Silence(t *testing.T) {
	var mode, _ = NewMode(1000, 0)
	var rx, err = NewReceiver(mode, false, 16, 0)
	require.NoError(t, err)

	var chars = 0
	for range 50 {
		var out, err = rx.Process(make([]float64, mode.SymbolSamples()))
		require.NoError(t, err)
		for _, c := range out {
			assert.Zero(t, c.Code)
		}
		chars += len(out)
	}

	// A little less than 50: the first sync frame needs a whole FFT
	// window of input.
	assert.InDelta(t, 47, chars, 3)
	assert.False(t, rx.Locked())
}

func Test_RoundTrip(t *testing.T) {
	var tests = []struct {
		name   string
		bw     int
		long   bool
		text   string
		expect string
	}{
		{"1000 short", 1000, false, "RYRYRY CQ CQ DE TEST 1234567890 K\n", "CQ CQ DE TEST 1234567890"},
		{"1000 short escaped", 1000, false, "RYRYRY the quick brown fox {~}\n", "the quick brown fox {~}"},
		{"2000 long", 2000, true, "RYRYRY The quick brown fox jumps\n", "The quick brown fox jumps"},
		{"500 short", 500, false, "RYRYRY MT63-500 OK\n", "MT63-500 OK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg = DefaultConfig()
			cfg.Bandwidth = tt.bw
			cfg.LongInterleave = tt.long

			var audio, _, err = Encode([]byte(tt.text), cfg)
			require.NoError(t, err)

			var s, sessErr = NewRxSession(cfg)
			require.NoError(t, sessErr)

			var got = decodeAll(t, s, audio, 1000)
			assert.Contains(t, got, tt.expect)
		})
	}
}

func printableASCII() []byte {
	var text []byte
	for c := byte(' '); c <= '~'; c++ {
		text = append(text, c)
	}
	return text
}

// Every printable character comes back exactly, with nothing before or
// after it.
func Test_RoundTrip_Printable(t *testing.T) {
	for _, bw := range []int{500, 1000, 2000} {
		for _, long := range []bool{false, true} {
			t.Run(fmt.Sprintf("%d long %v", bw, long), func(t *testing.T) {
				var cfg = DefaultConfig()
				cfg.Bandwidth = bw
				cfg.LongInterleave = long

				var text = printableASCII()
				var audio, _, err = Encode(text, cfg)
				require.NoError(t, err)

				var s, sessErr = NewRxSession(cfg)
				require.NoError(t, sessErr)

				assert.Equal(t, string(text), decodeAll(t, s, audio, 1000))
			})
		}
	}
}

// Every code goes through the transmitter and receiver.  With long
// interleave, 8 to 126 are sent as they are, 127 is the escape and
// 128 to 135 leave 0 to 7 after it.  A raw 127 can't be sent then.
func Test_RoundTrip_AllCodes(t *testing.T) {
	for _, long := range []bool{false, true} {
		t.Run(fmt.Sprintf("long %v", long), func(t *testing.T) {
			var cfg = DefaultConfig()
			cfg.LongInterleave = long

			var text []byte
			for c := 8; c < 256; c++ {
				if long && c == escapeCode {
					continue
				}
				text = append(text, byte(c))
			}

			var audio, _, err = Encode(text, cfg)
			require.NoError(t, err)

			var s, sessErr = NewRxSession(cfg)
			require.NoError(t, sessErr)

			assert.Equal(t, text, []byte(decodeAll(t, s, audio, 1000)))
		})
	}
}

// A card running at 48 kHz, with the audio repeated at that rate.
func Test_RoundTrip_Resampled(t *testing.T) {
	var cfg = DefaultConfig()
	var audio, _, err = Encode([]byte("RYRYRY RESAMPLED 48000\n"), cfg)
	require.NoError(t, err)

	var fast = make([]float32, 0, 6*len(audio))
	for _, x := range audio {
		for range 6 {
			fast = append(fast, x)
		}
	}

	var s, _ = NewRxSession(cfg)
	var text string
	for len(fast) > 0 {
		var n = min(4800, len(fast))
		var got, err = s.ProcessAudio(fast[:n], 48000)
		require.NoError(t, err)
		text += got
		fast = fast[n:]
	}
	var tail, _ = s.Flush()

	assert.Contains(t, text+tail, "RESAMPLED 48000")
}

// The receiver finds and follows a signal which is off frequency, and
// reports the whole offset, not just the part within a carrier spacing.
func Test_Receiver_FrequencyOffset(t *testing.T) {
	var tests = []struct {
		bw     int
		offset float64
	}{
		{1000, 0},
		{1000, 6},
		{2000, 6},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d %+g Hz", tt.bw, tt.offset), func(t *testing.T) {
			var cfg = DefaultConfig()
			cfg.Bandwidth = tt.bw
			cfg.TestOffset = tt.offset

			var audio, _, err = Encode([]byte("RYRYRY FREQUENCY OFFSET TEST FREQUENCY OFFSET\n"), cfg)
			require.NoError(t, err)

			var s, _ = NewRxSession(cfg)

			var text string
			for len(audio) > 0 {
				var n = min(1000, len(audio))
				var got, _ = s.ProcessAudio(audio[:n], SampleRate)
				text += got
				audio = audio[n:]
			}

			var rx = s.Receiver()
			assert.True(t, rx.Locked())
			assert.InDelta(t, tt.offset, rx.FreqOffsetHz(), 1.5, "carrier offset %d", rx.CarrierOffset())

			var tail, _ = s.Flush()
			assert.Contains(t, text+tail, "FREQUENCY OFFSET")
		})
	}
}

func Test_Receiver_Spectrum(t *testing.T) {
	var mode, _ = NewMode(1000, 0)
	var rx, _ = NewReceiver(mode, false, 16, 0)

	var calls = 0
	rx.SetSpectrumFunc(func(power []float64) {
		assert.Len(t, power, SymbolLen)
		calls++
	})

	var _, err = rx.Process(make([]float64, 10*mode.SymbolSamples()))
	require.NoError(t, err)
	assert.Positive(t, calls)

	rx.SetSpectrumFunc(nil)
	var before = calls
	_, err = rx.Process(make([]float64, 10*mode.SymbolSamples()))
	require.NoError(t, err)
	assert.Equal(t, before, calls)
}
