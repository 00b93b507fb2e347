package encoding

import (
	"golang.org/x/xerrors"

	"github.com/illuscio-dev/spanrender-go/mimetype"
)

// EncodeFunc renders a single value of a known type to bytes. Implementations
// are expected to be pure: no side effects, same bytes for the same value.
type EncodeFunc[T any] func(value T) ([]byte, error)

/*
Encoder is the result of resolving a value type against a Registry: one encode
function bound to exactly one mimetype tag. An Encoder is immutable and safe
for concurrent use.

Encoders are obtained through Resolve or ResolveTagged, never constructed
directly, so that every Encoder in circulation is backed by a registry entry.
*/
type Encoder[T any] struct {
	mimeType mimetype.MimeType
	encode   EncodeFunc[T]
}

// The mimetype tag stamped on every body this encoder produces.
func (encoder *Encoder[T]) MimeType() mimetype.MimeType {
	return encoder.mimeType
}

// Encode renders value to bytes. A panic inside the underlying encode
// function is caught and returned as an error.
func (encoder *Encoder[T]) Encode(value T) (encoded []byte, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = xerrors.Errorf("panic during encode: %v", recovered)
		}
	}()

	return encoder.encode(value)
}
