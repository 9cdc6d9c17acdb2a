// Package envelope owns the request/response header contract.
//
// Ownership boundary:
// - request, response and error envelopes and their map encoding
// - identifiers, type tags, method and status codes
// - borrow-preserving string and byte wrappers
// - builders that write a header followed by an optional body
//
// A message on the wire is [header][body?]. The header never carries the
// body length; the body is a self-delimiting CBOR item whose type is agreed
// between endpoints by path and method. Decode the header first, inspect
// HasBody, then Decode the remaining bytes into the expected body type.
//
// Values decoded from a buffer may borrow from it. Keep the buffer unchanged
// for as long as decoded envelopes, CowStr or CowBytes values are in use.
package envelope
