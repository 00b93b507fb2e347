package respond

import (
	"bufio"
	"fmt"
	"io"
	"sync"
)

/*
ChunkedWriter adapts a buffered transport writer into the io.WriteCloser
consumed by Drain, emitting HTTP/1.1 chunked transfer framing: each Write
becomes one chunk (hex size line, payload, CRLF) and Close writes the
terminating zero-length chunk and flushes.

Close is idempotent. Concurrent completion and error signals may both reach
it; only the first call writes the terminator.
*/
type ChunkedWriter struct {
	transport *bufio.Writer

	closeOnce sync.Once
	closeErr  error
}

// NewChunkedWriter wraps a buffered transport writer.
func NewChunkedWriter(transport *bufio.Writer) *ChunkedWriter {
	return &ChunkedWriter{transport: transport}
}

// Write emits p as a single chunk. Writing an empty slice is a no-op, since
// a zero-length chunk would terminate the body.
func (writer *ChunkedWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if _, err := fmt.Fprintf(writer.transport, "%x\r\n", len(p)); err != nil {
		return 0, err
	}
	if _, err := writer.transport.Write(p); err != nil {
		return 0, err
	}
	if _, err := io.WriteString(writer.transport, "\r\n"); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close writes the terminating zero-length chunk and flushes the transport.
// Calls after the first return the first call's result.
func (writer *ChunkedWriter) Close() error {
	writer.closeOnce.Do(func() {
		if _, err := io.WriteString(writer.transport, "0\r\n\r\n"); err != nil {
			writer.closeErr = err
			return
		}
		writer.closeErr = writer.transport.Flush()
	})
	return writer.closeErr
}
