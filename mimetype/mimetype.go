// Enumeration-like type for content mimetypes.
package mimetype

/*
MimeType is the tag a registered encoder stamps on the bodies it produces, and
the value written to a response's Content-Type header. Non-default MimeTypes
can be used by wrapping a custom string:

	MimeType("text/csv")

Tags are compared by exact string equality. No wildcard or parameter matching
is performed.
*/
type MimeType string

const (
	JSON = MimeType("application/json")
	BSON = MimeType("application/bson")
	YAML = MimeType("application/yaml")
	TEXT = MimeType("text/plain")
	// NONE is used for bodies that carry no Content-Type header, such as an
	// empty body or a raw binary passthrough.
	NONE = MimeType("")
)

// Whether a Content-Type header should be written for this tag.
func (mimeType MimeType) HasHeader() bool {
	return mimeType != NONE
}
