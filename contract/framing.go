package contract

import (
	"encoding/binary"
	"io"
)

/* This file implements the wire framing from §4.3/§4.4: each message on the socket
   is a u32 big-endian length followed by exactly that many bytes of payload. No
   partial frame is ever handed to the dispatcher. */

const frameLengthPrefixSize = 4

// FrameAccumulator buffers inbound bytes and extracts complete frames, in order,
// regardless of how the underlying reads happen to chunk the stream. This is the
// piece the framing round-trip property in §8 exercises directly.
type FrameAccumulator struct {
	buf []byte
}

// Feed appends newly read bytes and returns every complete frame payload that can
// now be extracted, in order. Any trailing partial frame is retained for the next call.
func (a *FrameAccumulator) Feed(data []byte) [][]byte {
	a.buf = append(a.buf, data...)
	var frames [][]byte
	for {
		if len(a.buf) < frameLengthPrefixSize {
			break
		}
		length := binary.BigEndian.Uint32(a.buf[:frameLengthPrefixSize])
		total := frameLengthPrefixSize + int(length)
		if len(a.buf) < total {
			break
		}
		frame := make([]byte, length)
		copy(frame, a.buf[frameLengthPrefixSize:total])
		frames = append(frames, frame)
		a.buf = a.buf[total:]
	}
	return frames
}

// EncodeFrame prepends the u32 big-endian length prefix to payload, producing the
// exact bytes that belong on the wire for one message. The length prefix and the
// payload are returned as one slice so a single Write call puts them on the wire
// atomically -- frame writes must never be interleaved.
func EncodeFrame(payload []byte) []byte {
	out := make([]byte, frameLengthPrefixSize+len(payload))
	binary.BigEndian.PutUint32(out, uint32(len(payload)))
	copy(out[frameLengthPrefixSize:], payload)
	return out
}

// WriteFrame writes one complete frame to w in a single Write call.
func WriteFrame(w io.Writer, payload []byte) error {
	_, err := w.Write(EncodeFrame(payload))
	return err
}
