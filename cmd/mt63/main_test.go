package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mt63 "github.com/doismellburning/mt63/src"
)

func queueBlocks(audio []float32) chan []float32 {
	var blocks = make(chan []float32, len(audio)/framesPerBuffer+1)
	for len(audio) > 0 {
		var n = min(framesPerBuffer, len(audio))
		blocks <- audio[:n]
		audio = audio[n:]
	}
	close(blocks)
	return blocks
}

// The end of the message is still in the interleaver when the audio
// stops, and has to come out anyway.
func Test_DecodeBlocks_Tail(t *testing.T) {
	var cfg = mt63.DefaultConfig()
	var msg = "LAST WORDS\n"

	var audio, _, err = mt63.Encode([]byte(msg), cfg)
	require.NoError(t, err)

	var session, sessErr = mt63.NewRxSession(cfg)
	require.NoError(t, sessErr)

	var got string
	var cancelled = false

	err = decodeBlocks(session, queueBlocks(audio), mt63.SampleRate, func() { cancelled = true }, func(s string) { got += s })
	require.NoError(t, err)

	assert.Equal(t, msg, got)
	assert.False(t, cancelled)
}

func Test_DecodeBlocks_Error(t *testing.T) {
	var session, err = mt63.NewRxSession(mt63.DefaultConfig())
	require.NoError(t, err)

	var blocks = queueBlocks(make([]float32, 10*framesPerBuffer))
	var cancelled = false

	err = decodeBlocks(session, blocks, 4000, func() { cancelled = true }, func(string) {})
	require.ErrorIs(t, err, mt63.ErrSampleRate)
	assert.True(t, cancelled)

	// Drained, so capture is not left blocked on a send.
	assert.Empty(t, blocks)
}
