// Package gbkf implements the Generic Binary Keyed Format (GBKF) codec.
//
// GBKF is a binary file format storing an ordered collection of typed,
// keyed values. This package provides the whole-buffer Reader/Writer pair
// that translates between the in-memory Document representation and its
// exact binary encoding. Both directions are single-pass, stateless
// transformations: Encode consumes a Document once and emits bytes once,
// Decode consumes bytes once and emits a Document once. There is no
// incremental or streaming mode.
//
// # Wire Format
//
// A GBKF buffer has the following structure:
//
//	[magic "gbkf" (4)][version (1)][spec_id (4)][spec_version (2)][entry_count (4)]
//	[entry]*
//	[sha256 (32)]
//
// Each entry is:
//
//	[key_len (1)][key (key_len)][type_tag (1)][payload]
//
// All multi-byte integers are little-endian. Fixed-width payloads occupy
// exactly the width implied by the type tag (signed integers are two's
// complement, floats are IEEE-754 bit patterns, booleans are a single 0 or
// 1 byte). String and Blob payloads carry a 32-bit unsigned length prefix
// followed by that many raw bytes.
//
// The trailing SHA-256 digest covers everything before it and is mandatory;
// it is what lets the decoder distinguish a truncated buffer from one with
// trailing garbage.
//
// # Precision
//
// Float32 values are stored as IEEE-754 single precision. Decoding widens
// the stored 32 bits exactly into a float64, so a value constructed from
// the decimal 100.9 reads back as 100.90000152587890625. This delta is a
// format property, not a defect: round-trip fidelity is guaranteed at the
// bit level for the stored 32 bits, never for arbitrary decimals.
//
// # Error Handling
//
// Malformed input is rejected, never repaired. Every failure maps to one of
// the package sentinel errors (ErrTruncated, ErrBadMagic, and so on) and is
// wrapped in a *FormatError carrying the byte offset and, where known, the
// entry key. A failing Decode returns no Document and a failing Encode
// returns no bytes; there is no partial-success mode.
//
// # Thread Safety
//
// Encode and Decode hold no state between calls and borrow their arguments
// only for the duration of one call. They are safe for concurrent use as
// long as each call operates on its own buffer and Document.
package gbkf
