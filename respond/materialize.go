package respond

import (
	"errors"
	"io"
	"log/slog"

	"golang.org/x/xerrors"

	"github.com/illuscio-dev/spanrender-go/encoding"
	"github.com/illuscio-dev/spanrender-go/mimetype"
)

// Protocol version stamped on streaming responses; chunked transfer framing
// requires it.
const streamingProto = "HTTP/1.1"

// MaterializerOption follows the functional options pattern used by
// NewMaterializer to configure optional collaborators.
type MaterializerOption func(*Materializer)

// WithLogger injects a logger used to report background drain failures. The
// default is no logging; drain errors still reach the caller through the
// StartDrain channel either way.
func WithLogger(logger *slog.Logger) MaterializerOption {
	return func(materializer *Materializer) {
		materializer.log = logger
	}
}

/*
Materializer turns handler return values into Responses using the encoders of
one Registry. It holds no per-request state and is safe for concurrent use
once the registry is frozen.
*/
type Materializer struct {
	registry *encoding.Registry
	log      *slog.Logger
}

// NewMaterializer creates a Materializer over registry.
func NewMaterializer(
	registry *encoding.Registry, opts ...MaterializerOption,
) *Materializer {
	materializer := &Materializer{registry: registry}
	for _, opt := range opts {
		if opt != nil {
			opt(materializer)
		}
	}
	return materializer
}

// Registry returns the encoder registry backing this materializer.
func (materializer *Materializer) Registry() *encoding.Registry {
	return materializer.registry
}

// The three variants a handler value can materialize to.
type variant int

const (
	variantResponse variant = iota
	variantEncodable
	variantStream
)

// One classified handler value. Exactly the field named by which is set.
type classified struct {
	which    variant
	response *Response
	encoder  *encoding.BoundEncoder
	stream   Stream
}

// Resolves a value to one of the three variants in priority order: complete
// response, encodable value, byte stream. All classification happens here,
// in one place.
func (materializer *Materializer) classify(
	value interface{}, mimeType *mimetype.MimeType,
) (classified, error) {
	if response, ok := value.(*Response); ok {
		return classified{which: variantResponse, response: response}, nil
	}

	var encoder *encoding.BoundEncoder
	var err error
	if mimeType != nil {
		encoder, err = materializer.registry.ResolveValueTagged(value, *mimeType)
	} else {
		encoder, err = materializer.registry.ResolveValue(value)
	}
	if err == nil {
		return classified{which: variantEncodable, encoder: encoder}, nil
	}

	if stream, ok := value.(Stream); ok {
		// A stream type is only delivered chunked when it has no encoder of
		// its own. An ambiguous registration is still a wiring error.
		var noEncoder *encoding.NoEncoderFoundError
		if errors.As(err, &noEncoder) {
			return classified{which: variantStream, stream: stream}, nil
		}
	}

	return classified{}, err
}

/*
Materialize turns value into a complete Response:

• A *Response passes through unchanged.

• A value with a resolvable encoder becomes a status 200 response with a
fixed body; the Content-Type header is set when the encoder's mimetype is not
NONE.

• A Stream becomes a status 200 HTTP/1.1 streaming response with no
Content-Type header; the caller sets one if the chunks have a known type.

A value matching none of the variants is a wiring error and returns the
resolution failure (NoEncoderFoundError or AmbiguousEncoderError).
*/
func (materializer *Materializer) Materialize(value interface{}) (*Response, error) {
	return materializer.materialize(value, nil)
}

// MaterializeAs is Materialize with an explicit mimetype preference,
// resolving exactly the encoder registered for (type of value, mimeType).
func (materializer *Materializer) MaterializeAs(
	value interface{}, mimeType mimetype.MimeType,
) (*Response, error) {
	return materializer.materialize(value, &mimeType)
}

func (materializer *Materializer) materialize(
	value interface{}, mimeType *mimetype.MimeType,
) (*Response, error) {
	resolved, err := materializer.classify(value, mimeType)
	if err != nil {
		return nil, err
	}

	switch resolved.which {
	case variantResponse:
		return resolved.response, nil

	case variantEncodable:
		body, encodeErr := resolved.encoder.Encode(value)
		if encodeErr != nil {
			return nil, xerrors.Errorf("error encoding response body: %w", encodeErr)
		}
		return encodedResponse(resolved.encoder.MimeType(), body), nil

	default:
		return &Response{
			StatusCode: 200,
			Proto:      streamingProto,
			Header:     Header{},
			Stream:     resolved.stream,
		}, nil
	}
}

// StartDrain consumes a streaming response's chunks into writer on an
// independent goroutine, logging failures when a logger is configured. The
// result is also delivered on the returned buffered channel.
func (materializer *Materializer) StartDrain(
	stream Stream, writer io.WriteCloser,
) <-chan error {
	done := make(chan error, 1)
	go func() {
		err := Drain(stream, writer)
		if err != nil && materializer.log != nil {
			materializer.log.Error("response stream drain failed", "error", err)
		}
		done <- err
	}()
	return done
}

func encodedResponse(mimeType mimetype.MimeType, body []byte) *Response {
	header := Header{}
	if mimeType.HasHeader() {
		header.Set("Content-Type", string(mimeType))
	}
	return &Response{
		StatusCode: 200,
		Header:     header,
		Body:       body,
	}
}

// Bind resolves T's encoder once, at wiring time, and returns a materializing
// function with no per-request resolution cost. Resolution failures surface
// here, before any request is served.
func Bind[T any](materializer *Materializer) (func(value T) (*Response, error), error) {
	encoder, err := encoding.Resolve[T](materializer.registry)
	if err != nil {
		return nil, err
	}
	return bound[T](encoder), nil
}

// BindTagged is Bind with an explicit mimetype preference.
func BindTagged[T any](
	materializer *Materializer, mimeType mimetype.MimeType,
) (func(value T) (*Response, error), error) {
	encoder, err := encoding.ResolveTagged[T](materializer.registry, mimeType)
	if err != nil {
		return nil, err
	}
	return bound[T](encoder), nil
}

func bound[T any](encoder *encoding.Encoder[T]) func(value T) (*Response, error) {
	return func(value T) (*Response, error) {
		body, err := encoder.Encode(value)
		if err != nil {
			return nil, xerrors.Errorf("error encoding response body: %w", err)
		}
		return encodedResponse(encoder.MimeType(), body), nil
	}
}
