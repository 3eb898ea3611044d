package contract

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameAccumulator_WholeFramesAtOnce(t *testing.T) {
	acc := &FrameAccumulator{}
	frames := acc.Feed(append(EncodeFrame([]byte("hello")), EncodeFrame([]byte("world"))...))
	require.Equal(t, [][]byte{[]byte("hello"), []byte("world")}, frames)
}

func TestFrameAccumulator_ArbitraryChunking(t *testing.T) {
	payloads := [][]byte{
		[]byte("a"),
		[]byte(""),
		bytes.Repeat([]byte{0xAB}, 300),
		[]byte("the quick brown fox"),
		{},
		[]byte("x"),
	}
	var wire []byte
	for _, p := range payloads {
		wire = append(wire, EncodeFrame(p)...)
	}

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		acc := &FrameAccumulator{}
		var got [][]byte
		pos := 0
		for pos < len(wire) {
			chunk := 1 + rng.Intn(7)
			if pos+chunk > len(wire) {
				chunk = len(wire) - pos
			}
			got = append(got, acc.Feed(wire[pos:pos+chunk])...)
			pos += chunk
		}
		require.Equal(t, len(payloads), len(got), "trial %d", trial)
		for i, p := range payloads {
			require.Equal(t, p, got[i], "trial %d frame %d", trial, i)
		}
	}
}

func TestFrameAccumulator_PartialFrameHeldBack(t *testing.T) {
	acc := &FrameAccumulator{}
	full := EncodeFrame([]byte("payload"))
	frames := acc.Feed(full[:2])
	require.Empty(t, frames)
	frames = acc.Feed(full[2:])
	require.Equal(t, [][]byte{[]byte("payload")}, frames)
}
