package rendertypes

// BinData is used to hold raw binary blob information. As a response body it
// is passed through to the wire untouched with no Content-Type header, while
// the json encoder will hexify this data for transport.
type BinData []byte

// Unit is the no-content marker. Returning Unit from a handler yields an
// empty body and no Content-Type header.
type Unit struct{}
