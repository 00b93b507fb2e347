package respond

import (
	"fmt"
	"io"

	"golang.org/x/xerrors"
)

// DrainStage identifies which side of a stream consumption failed.
type DrainStage string

const (
	// The stream's producer raised an error mid-consumption.
	StageProducer = DrainStage("producer")
	// The transport rejected or failed a write.
	StageWrite = DrainStage("write")
)

// StreamError is returned by Drain when consumption terminates abnormally.
// In both stages the writer has already been closed by the time the error is
// returned.
type StreamError struct {
	Stage DrainStage
	Err   error
}

func (err *StreamError) Error() string {
	return fmt.Sprintf("stream %s error: %v", string(err.Stage), err.Err)
}

func (err *StreamError) Unwrap() error {
	return err.Err
}

/*
Drain writes every chunk stream produces to writer, in emission order, then
closes the writer.

The writer is closed exactly once on every exit path: natural exhaustion,
producer error, and write failure all run through the same deferred close.
On a producer error, consumption stops and no further chunks are requested.
On a write failure, consumption is aborted and the write is not retried.
Either failure is returned as a *StreamError after the writer is closed.

Drain blocks until the stream ends. Callers serving other work concurrently
should run it through StartDrain or their own goroutine.
*/
func Drain(stream Stream, writer io.WriteCloser) (err error) {
	// Single finalization point for every exit path below. Closing on the
	// error paths is mandatory, otherwise the underlying connection leaks.
	defer func() {
		closeErr := writer.Close()
		if closeErr != nil && err == nil {
			err = xerrors.Errorf("error closing stream writer: %w", closeErr)
		}
	}()

	for {
		chunk, streamErr := stream.Next()
		if streamErr == io.EOF {
			return nil
		}
		if streamErr != nil {
			return &StreamError{Stage: StageProducer, Err: streamErr}
		}

		if len(chunk) == 0 {
			continue
		}

		if _, writeErr := writer.Write(chunk); writeErr != nil {
			return &StreamError{Stage: StageWrite, Err: writeErr}
		}
	}
}

// StartDrain runs Drain as an independent goroutine so the consumption loop
// never blocks the caller. The returned channel receives the Drain result
// exactly once and is buffered, so the result may be ignored.
func StartDrain(stream Stream, writer io.WriteCloser) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- Drain(stream, writer)
	}()
	return done
}
