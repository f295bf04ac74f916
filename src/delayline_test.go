package mt63

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ramp(from, n int) []complex128 {
	var out = make([]complex128, n)
	for i := range out {
		out[i] = complex(float64(from+i), 0)
	}
	return out
}

func Test_DelayLine_Positions(t *testing.T) {
	var d = newDelayLine(10, 40)

	assert.Equal(t, -10, d.Start())
	assert.Equal(t, 0, d.End())
	assert.Equal(t, 30, d.Room())

	var pos = 0
	for range 20 {
		require.NoError(t, d.Write(ramp(pos, 7)))
		pos += 7
		assert.Equal(t, pos, d.End())

		// The last delay samples are always there, at their stream
		// positions.  Before 0 is the initial silence.
		var w = d.Window(pos-10, 10)
		for i, x := range w {
			var at = pos - 10 + i
			assert.InDelta(t, float64(max(at, 0)), real(x), 0, "position %d", at)
		}
	}
}

func Test_DelayLine_StartsSilent(t *testing.T) {
	var d = newDelayLine(8, 0)

	for _, x := range d.Window(-8, 8) {
		assert.Zero(t, x)
	}
}

func Test_DelayLine_Capacity(t *testing.T) {
	var d = newDelayLine(10, 40)
	require.NoError(t, d.Write(ramp(0, 25)))

	var err = d.Write(ramp(25, 31))
	require.ErrorIs(t, err, ErrCapacity)

	// Nothing changed.
	assert.Equal(t, 25, d.End())
	assert.InDelta(t, 24.0, real(d.Window(24, 1)[0]), 0)

	require.NoError(t, d.Write(ramp(25, d.Room())))
	assert.Equal(t, 25+d.Room(), d.End())
}

func Test_DelayLine_WindowOutOfRange(t *testing.T) {
	var d = newDelayLine(10, 40)
	require.NoError(t, d.Write(ramp(0, 5)))

	assert.Panics(t, func() { d.Window(3, 5) })
	assert.Panics(t, func() { d.Window(-11, 2) })
}
