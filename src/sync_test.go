package mt63

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func Test_NextLockState(t *testing.T) {
	const hold, lock = 0.1, 0.15

	// Not locked: needs confidence above lock and a steady frequency.
	assert.False(t, nextLockState(false, 0.12, 0, hold, lock))
	assert.False(t, nextLockState(false, 0.2, 0.2, hold, lock))
	assert.True(t, nextLockState(false, 0.2, 0.1, hold, lock))

	// Locked: kept until confidence drops below hold or frequency wanders.
	assert.True(t, nextLockState(true, 0.12, 0.2, hold, lock))
	assert.False(t, nextLockState(true, 0.09, 0, hold, lock))
	assert.False(t, nextLockState(true, 0.5, 0.3, hold, lock))
}

// Between the thresholds the state never changes, whatever it was.
func Test_NextLockState_NoChatter(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var hold = rapid.Float64Range(0.01, 1).Draw(t, "hold")
		var lock = hold * 1.5
		var locked = rapid.Bool().Draw(t, "locked")
		var steps = rapid.SliceOfN(rapid.Float64Range(hold, lock), 1, 100).Draw(t, "conf")

		var state = locked
		for _, conf := range steps {
			state = nextLockState(state, conf, 0.1, hold, lock)
			assert.Equal(t, locked, state)
		}
	})
}

func Test_ClosestOf3(t *testing.T) {
	assert.InDelta(t, 0.1, closestOf3(-0.5, 0.1, 0.6), 0)
	assert.InDelta(t, -0.05, closestOf3(-0.05, 0.2, 0.3), 0)
	assert.InDelta(t, 0.01, closestOf3(-0.4, 0.3, 0.01), 0)

	// Ties go to the middle one.
	assert.InDelta(t, 0.2, closestOf3(-0.2, 0.2, 0.2), 0)
}

func Test_Synchronizer_Silence(t *testing.T) {
	var mode, _ = NewMode(1000, 0)
	var fft, _ = NewFFT(SymbolLen)
	var s = newSynchronizer(fft, mode, 16)

	var frame = make([]complex128, SymbolLen)
	var boundaries = 0
	for range 400 {
		if s.Process(frame) {
			boundaries++
		}
	}

	// One boundary per symbol, locked or not.
	assert.InDelta(t, 100, boundaries, 1)
	assert.False(t, s.State().Locked)
}
