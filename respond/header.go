package respond

import (
	"net/textproto"
)

// Header maps canonicalized header names to their values. Names are uniquely
// keyed; multi-value concatenation on the wire is the transport's concern.
type Header map[string][]string

// Get returns the first value for key, or "" if the key is absent.
func (header Header) Get(key string) string {
	if header == nil {
		return ""
	}
	canonical := textproto.CanonicalMIMEHeaderKey(key)
	if values, ok := header[canonical]; ok && len(values) > 0 {
		return values[0]
	}
	return ""
}

// Set replaces all values for key with value.
func (header Header) Set(key, value string) {
	if header == nil {
		return
	}
	header[textproto.CanonicalMIMEHeaderKey(key)] = []string{value}
}

// Add appends value to the values for key.
func (header Header) Add(key, value string) {
	if header == nil {
		return
	}
	canonical := textproto.CanonicalMIMEHeaderKey(key)
	header[canonical] = append(header[canonical], value)
}

// Del removes all values for key.
func (header Header) Del(key string) {
	if header == nil {
		return
	}
	delete(header, textproto.CanonicalMIMEHeaderKey(key))
}
