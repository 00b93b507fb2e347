package encoding

import (
	"fmt"
	"reflect"

	"github.com/illuscio-dev/spanrender-go/mimetype"
)

/*
NoEncoderFoundError is returned when a value type has no registered encoder
for the requested mimetype, or no encoder at all when no mimetype was
requested. It is a wiring error: resolution happens at startup, so this
should never be first observed while serving a request.
*/
type NoEncoderFoundError struct {
	// The value type resolution was attempted for.
	ValueType reflect.Type

	// The requested mimetype. Only meaningful when Tagged is true; mimetype
	// NONE is itself a valid tag, so a separate flag distinguishes "any
	// mimetype" from "the empty mimetype".
	MimeType mimetype.MimeType

	// Whether an explicit mimetype was requested.
	Tagged bool
}

func (err *NoEncoderFoundError) Error() string {
	if err.Tagged {
		return fmt.Sprintf(
			"no encoder registered for %v with mimetype %q",
			err.ValueType,
			string(err.MimeType),
		)
	}
	return fmt.Sprintf("no encoder registered for %v", err.ValueType)
}

/*
AmbiguousEncoderError is returned when a value type has encoders registered
under more than one mimetype and the caller did not state a preference, or
when a value matches more than one interface-keyed entry. Resolution never
silently picks a winner; callers disambiguate with ResolveTagged.
*/
type AmbiguousEncoderError struct {
	// The value type resolution was attempted for.
	ValueType reflect.Type

	// Mimetypes of the conflicting candidates.
	Candidates []mimetype.MimeType
}

func (err *AmbiguousEncoderError) Error() string {
	return fmt.Sprintf(
		"ambiguous encoder for %v: %d candidates %v, disambiguate with an"+
			" explicit mimetype",
		err.ValueType,
		len(err.Candidates),
		err.Candidates,
	)
}
