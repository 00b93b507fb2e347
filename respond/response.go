package respond

/*
Response is the complete message handed to the transport: status, headers,
and either a fixed-length body or a stream to be drained chunk-by-chunk.
Exactly one of Body and Stream is set.

A Response is created per request-handling invocation and discarded once the
transport finishes sending it. Nothing in this package retains one.
*/
type Response struct {
	// Status code for the status line.
	StatusCode int

	// Protocol version, e.g. "HTTP/1.1". Streaming responses are always
	// HTTP/1.1 since chunked transfer framing requires it.
	Proto string

	// Response headers.
	Header Header

	// Fixed body with a known length. Nil when Stream is set.
	Body []byte

	// Chunk source for a streaming body with unknown total length. Nil when
	// the body is fixed.
	Stream Stream
}

// Streaming reports whether the response body is delivered chunk-by-chunk.
func (response *Response) Streaming() bool {
	return response.Stream != nil
}

// ContentLength returns the fixed body length, or -1 for streaming
// responses.
func (response *Response) ContentLength() int64 {
	if response.Streaming() {
		return -1
	}
	return int64(len(response.Body))
}
