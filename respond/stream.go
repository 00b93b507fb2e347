package respond

import (
	"io"
)

/*
Stream is a lazy, possibly-infinite sequence of byte chunks produced
asynchronously. Consuming it is a one-shot operation: each chunk is observed
exactly once, in order, and a Stream cannot be restarted.

Next blocks until the next chunk is available and returns it, or io.EOF once
the sequence is exhausted. Any other error means the producer failed; the
stream must not be consumed further after Next returns an error of any kind.
*/
type Stream interface {
	Next() ([]byte, error)
}

// StreamFunc adapts a plain function into a Stream.
type StreamFunc func() ([]byte, error)

func (fn StreamFunc) Next() ([]byte, error) {
	return fn()
}

// FromChunks returns a Stream that emits the given chunks in order, then
// io.EOF.
func FromChunks(chunks ...[]byte) Stream {
	index := 0
	return StreamFunc(func() ([]byte, error) {
		if index >= len(chunks) {
			return nil, io.EOF
		}
		chunk := chunks[index]
		index++
		return chunk, nil
	})
}

// FromChannel returns a Stream that emits chunks as they arrive on the
// channel. Closing the channel ends the stream. Producer errors cannot be
// conveyed over a plain channel; producers that can fail should implement
// Stream or use StreamFunc directly.
func FromChannel(chunks <-chan []byte) Stream {
	return StreamFunc(func() ([]byte, error) {
		chunk, ok := <-chunks
		if !ok {
			return nil, io.EOF
		}
		return chunk, nil
	})
}
