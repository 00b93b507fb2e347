package encoding

import (
	"github.com/illuscio-dev/spanrender-go/mimetype"
	"github.com/illuscio-dev/spanrender-go/rendertypes"
)

// The encoders every Registry ships with. Registered before any user entries
// so a duplicate user registration fails at its own call site.
func registerBuiltins(registry *Registry) {
	// error -> text/plain. Renders the error's message; an error whose
	// message is empty yields an empty body.
	Register[error](registry, mimetype.TEXT, func(value error) ([]byte, error) {
		if value == nil {
			return []byte{}, nil
		}
		return []byte(value.Error()), nil
	})

	// string -> text/plain. The string's raw UTF-8 bytes.
	Register[string](registry, mimetype.TEXT, func(value string) ([]byte, error) {
		return []byte(value), nil
	})

	// Unit -> no mimetype. Empty body, no Content-Type header.
	Register[rendertypes.Unit](
		registry,
		mimetype.NONE,
		func(rendertypes.Unit) ([]byte, error) {
			return []byte{}, nil
		},
	)

	// BinData -> no mimetype. Identity passthrough.
	Register[rendertypes.BinData](
		registry,
		mimetype.NONE,
		func(value rendertypes.BinData) ([]byte, error) {
			return value, nil
		},
	)
}
