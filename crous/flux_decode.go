package crous

import (
	"encoding/binary"
	"io"
	"math"
	"unicode/utf8"
)

// DecodeOptions configures binary decoding.
type DecodeOptions struct {
	// MaxDepth limits nesting depth. Zero means DefaultMaxDepth.
	MaxDepth int
}

// DefaultDecodeOptions returns the standard decoding configuration.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{MaxDepth: DefaultMaxDepth}
}

// ============================================================
// Decoding
// ============================================================

// Decode deserializes one FLUX document. The input must contain exactly one
// document; trailing bytes are an error. The decoded tree shares no memory
// with the input.
func Decode(data []byte) (*Value, error) {
	return DecodeWithOptions(data, DefaultDecodeOptions())
}

// DecodeWithOptions is Decode with explicit options.
func DecodeWithOptions(data []byte, opts DecodeOptions) (*Value, error) {
	if opts.MaxDepth == 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	d := &fluxDecoder{data: data, maxDepth: opts.MaxDepth}
	v, err := d.document()
	if err != nil {
		return nil, err
	}
	if d.off != len(d.data) {
		return nil, newDecodeError(ErrDecode, d.off, "%d trailing bytes after document", len(d.data)-d.off)
	}
	return v, nil
}

// fluxDecoder walks a byte slice. Every length and count read from the wire
// is checked against the remaining input before any allocation, so
// corrupted prefixes cannot demand absurd amounts of memory.
type fluxDecoder struct {
	data     []byte
	off      int
	maxDepth int
}

func (d *fluxDecoder) document() (*Value, error) {
	if len(d.data)-d.off < fluxHeaderSize {
		return nil, newDecodeError(ErrDecode, d.off, "input too short for header")
	}
	if string(d.data[d.off:d.off+4]) != fluxMagic {
		return nil, newDecodeError(ErrDecode, d.off, "bad magic %q", d.data[d.off:d.off+4])
	}
	d.off += 4
	version := d.data[d.off]
	d.off++
	if version != fluxVersion {
		return nil, newDecodeError(ErrDecode, d.off-1, "unsupported version %d", version)
	}
	return d.value(0)
}

func (d *fluxDecoder) value(depth int) (*Value, error) {
	if depth > d.maxDepth {
		return nil, newDecodeError(ErrDepthExceeded, d.off, "nesting deeper than %d", d.maxDepth)
	}

	marker, err := d.readByte()
	if err != nil {
		return nil, err
	}

	switch marker {
	case wireNull:
		return Null(), nil
	case wireFalse:
		return Bool(false), nil
	case wireTrue:
		return Bool(true), nil
	case wireInt:
		n, err := d.readVarint()
		if err != nil {
			return nil, err
		}
		return Int(n), nil
	case wireFloat:
		b, err := d.take(8)
		if err != nil {
			return nil, err
		}
		return Float(math.Float64frombits(binary.BigEndian.Uint64(b))), nil
	case wireString:
		b, err := d.readLenPrefixed()
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(b) {
			return nil, newDecodeError(ErrDecode, d.off-len(b), "string is not valid UTF-8")
		}
		return Str(string(b)), nil
	case wireBytes:
		b, err := d.readLenPrefixed()
		if err != nil {
			return nil, err
		}
		cp := make([]byte, len(b))
		copy(cp, b)
		return Bytes(cp), nil
	case wireList, wireTuple:
		count, err := d.readCount()
		if err != nil {
			return nil, err
		}
		elems := make([]*Value, 0, count)
		for i := uint64(0); i < count; i++ {
			elem, err := d.value(depth + 1)
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
		}
		if marker == wireTuple {
			return Tuple(elems...), nil
		}
		return List(elems...), nil
	case wireDict:
		count, err := d.readCount()
		if err != nil {
			return nil, err
		}
		entries := make([]DictEntry, 0, count)
		for i := uint64(0); i < count; i++ {
			key, err := d.readLenPrefixed()
			if err != nil {
				return nil, err
			}
			val, err := d.value(depth + 1)
			if err != nil {
				return nil, err
			}
			entries = append(entries, DictEntry{Key: string(key), Value: val})
		}
		return Dict(entries...), nil
	case wireTagged:
		tag, err := d.readUvarint()
		if err != nil {
			return nil, err
		}
		if tag > math.MaxUint32 {
			return nil, newDecodeError(ErrDecode, d.off, "tag %d out of range", tag)
		}
		inner, err := d.value(depth + 1)
		if err != nil {
			return nil, err
		}
		return Tagged(uint32(tag), inner), nil
	default:
		return nil, newDecodeError(ErrDecode, d.off-1, "unknown value marker 0x%02x", marker)
	}
}

// ============================================================
// Decoder Primitives
// ============================================================

func (d *fluxDecoder) readByte() (byte, error) {
	if d.off >= len(d.data) {
		return 0, newDecodeError(ErrDecode, d.off, "unexpected end of input")
	}
	b := d.data[d.off]
	d.off++
	return b, nil
}

func (d *fluxDecoder) take(n int) ([]byte, error) {
	if len(d.data)-d.off < n {
		return nil, newDecodeError(ErrDecode, d.off, "unexpected end of input, need %d bytes", n)
	}
	b := d.data[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *fluxDecoder) readUvarint() (uint64, error) {
	v, n := binary.Uvarint(d.data[d.off:])
	if n <= 0 {
		return 0, newDecodeError(ErrDecode, d.off, "invalid varint")
	}
	d.off += n
	return v, nil
}

func (d *fluxDecoder) readVarint() (int64, error) {
	v, n := binary.Varint(d.data[d.off:])
	if n <= 0 {
		return 0, newDecodeError(ErrDecode, d.off, "invalid varint")
	}
	d.off += n
	return v, nil
}

// readLenPrefixed reads a uvarint length and that many bytes. The returned
// slice aliases the input.
func (d *fluxDecoder) readLenPrefixed() ([]byte, error) {
	n, err := d.readUvarint()
	if err != nil {
		return nil, err
	}
	if n > uint64(len(d.data)-d.off) {
		return nil, newDecodeError(ErrDecode, d.off, "length %d exceeds remaining input", n)
	}
	return d.take(int(n))
}

// readCount reads a container element count. Every element occupies at
// least one byte, so a count beyond the remaining input is corrupt and is
// rejected before the container is allocated.
func (d *fluxDecoder) readCount() (uint64, error) {
	n, err := d.readUvarint()
	if err != nil {
		return 0, err
	}
	if n > uint64(len(d.data)-d.off) {
		return 0, newDecodeError(ErrDecode, d.off, "element count %d exceeds remaining input", n)
	}
	return n, nil
}

// ============================================================
// Streaming Decoder
// ============================================================

// Decoder reads FLUX documents from a stream. Each Decode call consumes one
// complete document and returns io.EOF once the stream is exhausted, so
// concatenated documents can be read in a loop.
type Decoder struct {
	r      io.Reader
	opts   DecodeOptions
	buf    []byte
	off    int
	loaded bool
}

// NewDecoder creates a decoder with default options.
func NewDecoder(r io.Reader) *Decoder {
	return NewDecoderWithOptions(r, DefaultDecodeOptions())
}

// NewDecoderWithOptions creates a decoder with explicit options.
func NewDecoderWithOptions(r io.Reader, opts DecodeOptions) *Decoder {
	if opts.MaxDepth == 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Decoder{r: r, opts: opts}
}

// Decode reads the next document from the stream. It returns io.EOF when no
// documents remain.
func (dec *Decoder) Decode() (*Value, error) {
	if !dec.loaded {
		data, err := io.ReadAll(dec.r)
		if err != nil {
			return nil, err
		}
		dec.buf = data
		dec.loaded = true
	}
	if dec.off >= len(dec.buf) {
		return nil, io.EOF
	}
	d := &fluxDecoder{data: dec.buf, off: dec.off, maxDepth: dec.opts.MaxDepth}
	v, err := d.document()
	if err != nil {
		return nil, err
	}
	dec.off = d.off
	return v, nil
}
