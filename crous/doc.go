// Package crous implements the CROUS serialization format: a self-describing
// value model with a human-readable text syntax and a compact FLUX binary
// encoding that both round-trip losslessly.
//
// The value model has ten kinds:
//
//   - Null
//   - Bool
//   - Int: 64-bit signed integer
//   - Float: 64-bit IEEE 754, including NaN and the infinities
//   - String: UTF-8 text
//   - Bytes: raw binary
//   - List: ordered sequence
//   - Tuple: ordered sequence with its own type identity
//   - Dict: string-keyed entries in insertion order, duplicates permitted
//   - Tagged: a 32-bit application tag wrapping any value
//
// Dicts are deliberately not maps. Entry order is part of a document's
// identity, repeated keys all survive, and Set only ever appends. Both
// serialization formats preserve that structure exactly, so for any tree v,
// Decode(Encode(v)) and Parse(Emit(v)) reproduce v including dict order,
// duplicate keys, the tuple/list distinction and float bit patterns.
//
// # Text Syntax
//
//	{
//	    "name": "deep thought",        // dict entry
//	    "answers": [42, 42.5],         // list
//	    "pair": (1, "two"),            // tuple
//	    "payload": b"AQID",            // bytes, base64
//	    "marker": @7 [1, 2],           // tagged value
//	}
//
// Trailing commas are allowed after the last element. Comments run from //
// to end of line. Strings use the usual backslash escapes plus \uXXXX with
// surrogate pairs; non-finite floats are written nan, inf and -inf.
//
// Parse reads one value and rejects leftover input:
//
//	v, err := crous.Parse(`[1, 2, 3]`)
//
// Errors from parsing are *ParseError values carrying a line:column
// position; both parser and decoder errors unwrap to the sentinel classes
// ErrSyntax, ErrDecode, ErrInvalidType and ErrDepthExceeded.
//
// # Binary Format
//
// Encode produces a FLUX document: the magic "FLUX", a version byte and one
// value. Decode reverses it, validating every length prefix against the
// remaining input before allocating. Encoder and Decoder stream whole
// documents over io.Writer and io.Reader:
//
//	data, err := crous.Encode(v)
//	v, err = crous.Decode(data)
//
// Nesting depth on both paths is limited, DefaultMaxDepth levels unless
// overridden through the option structs, so adversarial input cannot
// exhaust the stack.
//
// # Interop
//
// Bridges convert between value trees and other representations: FromGo
// and ToGo for plain Go values, FromJSON and ToJSON, FromCBOR and ToCBOR
// using deterministic encoding, FromYAML and ToYAML on the yaml.Node level.
// The native formats are the only lossless ones; each bridge documents what
// its target representation cannot express.
package crous
