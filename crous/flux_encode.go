package crous

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unicode/utf8"
)

// EncodeOptions configures binary encoding.
type EncodeOptions struct {
	// MaxDepth limits nesting depth. Zero means DefaultMaxDepth.
	MaxDepth int
}

// DefaultEncodeOptions returns the standard encoding configuration.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{MaxDepth: DefaultMaxDepth}
}

// ============================================================
// Encoding
// ============================================================

// Encode serializes a value tree as a FLUX document. The encoder enforces
// the same depth limit as the decoder, so any document Encode produces can
// be decoded with matching options.
func Encode(v *Value) ([]byte, error) {
	return EncodeWithOptions(v, DefaultEncodeOptions())
}

// EncodeWithOptions is Encode with explicit options.
func EncodeWithOptions(v *Value, opts EncodeOptions) ([]byte, error) {
	if opts.MaxDepth == 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	buf := make([]byte, 0, 64)
	buf = append(buf, fluxMagic...)
	buf = append(buf, fluxVersion)
	return appendValue(buf, v, 0, opts.MaxDepth)
}

func appendValue(buf []byte, v *Value, depth, maxDepth int) ([]byte, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrDepthExceeded, maxDepth)
	}
	if v == nil {
		return append(buf, wireNull), nil
	}

	var err error
	switch v.typ {
	case TypeNull:
		buf = append(buf, wireNull)
	case TypeBool:
		if v.boolVal {
			buf = append(buf, wireTrue)
		} else {
			buf = append(buf, wireFalse)
		}
	case TypeInt:
		buf = append(buf, wireInt)
		buf = binary.AppendVarint(buf, v.intVal)
	case TypeFloat:
		buf = append(buf, wireFloat)
		buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(v.floatVal))
	case TypeString:
		if !utf8.ValidString(v.strVal) {
			return nil, fmt.Errorf("%w: string value is not valid UTF-8", ErrInvalidType)
		}
		buf = append(buf, wireString)
		buf = binary.AppendUvarint(buf, uint64(len(v.strVal)))
		buf = append(buf, v.strVal...)
	case TypeBytes:
		buf = append(buf, wireBytes)
		buf = binary.AppendUvarint(buf, uint64(len(v.bytesVal)))
		buf = append(buf, v.bytesVal...)
	case TypeList, TypeTuple:
		marker := wireList
		if v.typ == TypeTuple {
			marker = wireTuple
		}
		buf = append(buf, marker)
		buf = binary.AppendUvarint(buf, uint64(len(v.listVal)))
		for _, elem := range v.listVal {
			buf, err = appendValue(buf, elem, depth+1, maxDepth)
			if err != nil {
				return nil, err
			}
		}
	case TypeDict:
		buf = append(buf, wireDict)
		buf = binary.AppendUvarint(buf, uint64(len(v.dictVal)))
		for _, ent := range v.dictVal {
			buf = binary.AppendUvarint(buf, uint64(len(ent.Key)))
			buf = append(buf, ent.Key...)
			buf, err = appendValue(buf, ent.Value, depth+1, maxDepth)
			if err != nil {
				return nil, err
			}
		}
	case TypeTagged:
		buf = append(buf, wireTagged)
		buf = binary.AppendUvarint(buf, uint64(v.tagVal))
		buf, err = appendValue(buf, v.innerVal, depth+1, maxDepth)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown value type %d", ErrInvalidType, v.typ)
	}
	return buf, nil
}

// ============================================================
// Streaming Encoder
// ============================================================

// Encoder writes FLUX documents to a stream. Each Encode call writes one
// complete document, so several values can share a single output stream and
// be read back with a Decoder.
type Encoder struct {
	w    io.Writer
	opts EncodeOptions
}

// NewEncoder creates an encoder with default options.
func NewEncoder(w io.Writer) *Encoder {
	return NewEncoderWithOptions(w, DefaultEncodeOptions())
}

// NewEncoderWithOptions creates an encoder with explicit options.
func NewEncoderWithOptions(w io.Writer, opts EncodeOptions) *Encoder {
	if opts.MaxDepth == 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Encoder{w: w, opts: opts}
}

// Encode writes one value as a complete FLUX document.
func (e *Encoder) Encode(v *Value) error {
	data, err := EncodeWithOptions(v, e.opts)
	if err != nil {
		return err
	}
	_, err = e.w.Write(data)
	return err
}
