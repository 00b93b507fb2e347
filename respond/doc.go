// Materializing handler return values into complete response messages.
/*
The respond package turns the value a route handler returns into the response
message handed to the transport. A value materializes through a priority
chain with exactly three variants:

1. A value that is already a *Response passes through untouched, so handlers
can build custom responses directly.

2. A value whose type has a registered encoder becomes a fixed-length body
with the encoder's mimetype as the Content-Type header.

3. A Stream becomes a chunked response drained in the background, with the
writer closed exactly once on every exit path.

Resolution of variant 2 is strict and happens at wiring time where possible:
see Bind and the encoding package.
*/
package respond
