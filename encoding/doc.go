// Type-directed encoding of handler return values into response bodies.
/*
Spanrender's goal is to let route handlers return plain values and have the
byte representation and Content-Type header derived from the value's type,
without mimetype-specific calls at the return site.

Specific objectives

1. Handlers return domain values. The encoder for a value's type is bound once
at wiring time, not re-discovered per request.

2. Support for a value type or a mimetype is added once, at process startup,
by registering an encoder. Nothing in this package needs to change to support
a new pairing.

3. Resolution is strict: a type with no registered encoder, or a type with
encoders under several mimetypes and no caller preference, fails at wiring
time rather than silently picking one.

4. Developers can extend the default format backends (json, bson, yaml) with
their own type extensions and codecs.
*/
package encoding
