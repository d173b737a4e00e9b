package crous

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ============================================================
// JSON Bridge
// ============================================================

// FromJSON converts a JSON document into a value tree. The conversion walks
// the token stream rather than unmarshalling into maps, so object member
// order and duplicate keys survive. Numbers become Int when they are exact
// int64 literals and Float otherwise.
func FromJSON(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := jsonValue(dec, 0)
	if err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("crous: trailing data after JSON document")
	}
	return v, nil
}

func jsonValue(dec *json.Decoder, depth int) (*Value, error) {
	if depth > DefaultMaxDepth {
		return nil, fmt.Errorf("%w: JSON nesting deeper than %d", ErrDepthExceeded, DefaultMaxDepth)
	}

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("crous: parse JSON: %w", err)
	}

	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return Str(t), nil
	case json.Number:
		if n, err := strconv.ParseInt(t.String(), 10, 64); err == nil {
			return Int(n), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("crous: JSON number %q: %w", t.String(), err)
		}
		return Float(f), nil
	case json.Delim:
		switch t {
		case '[':
			list := List()
			for dec.More() {
				elem, err := jsonValue(dec, depth+1)
				if err != nil {
					return nil, err
				}
				if err := list.Append(elem); err != nil {
					return nil, err
				}
			}
			if _, err := dec.Token(); err != nil {
				return nil, fmt.Errorf("crous: parse JSON: %w", err)
			}
			return list, nil
		case '{':
			d := Dict()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, fmt.Errorf("crous: parse JSON: %w", err)
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("crous: JSON object key is not a string: %v", keyTok)
				}
				val, err := jsonValue(dec, depth+1)
				if err != nil {
					return nil, err
				}
				if err := d.Set(key, val); err != nil {
					return nil, err
				}
			}
			if _, err := dec.Token(); err != nil {
				return nil, fmt.Errorf("crous: parse JSON: %w", err)
			}
			return d, nil
		default:
			return nil, fmt.Errorf("crous: unexpected JSON delimiter %v", t)
		}
	default:
		return nil, fmt.Errorf("crous: unexpected JSON token %v", tok)
	}
}

// ToJSON converts a value tree into JSON. Dict entries keep their order and
// duplicate keys are written as repeated members, which most JSON readers
// resolve to the last one. Bytes become base64 strings, tuples become
// arrays and tagged values unwrap to their payload. NaN and the infinities
// have no JSON form and are rejected.
func ToJSON(v *Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v *Value) error {
	if v == nil {
		buf.WriteString("null")
		return nil
	}
	switch v.typ {
	case TypeNull:
		buf.WriteString("null")
	case TypeBool:
		buf.WriteString(strconv.FormatBool(v.boolVal))
	case TypeInt:
		buf.WriteString(strconv.FormatInt(v.intVal, 10))
	case TypeFloat:
		if math.IsNaN(v.floatVal) || math.IsInf(v.floatVal, 0) {
			return fmt.Errorf("%w: %v has no JSON representation", ErrInvalidType, v.floatVal)
		}
		buf.WriteString(strconv.FormatFloat(v.floatVal, 'g', -1, 64))
	case TypeString:
		writeJSONString(buf, v.strVal)
	case TypeBytes:
		writeJSONString(buf, base64.StdEncoding.EncodeToString(v.bytesVal))
	case TypeList, TypeTuple:
		buf.WriteByte('[')
		for i, elem := range v.listVal {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case TypeDict:
		buf.WriteByte('{')
		for i, ent := range v.dictVal {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONString(buf, ent.Key)
			buf.WriteByte(':')
			if err := writeJSON(buf, ent.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case TypeTagged:
		return writeJSON(buf, v.innerVal)
	default:
		return fmt.Errorf("%w: unknown value type %d", ErrInvalidType, v.typ)
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) {
	b, err := json.Marshal(s)
	if err != nil {
		// Marshalling a string cannot fail; invalid UTF-8 is replaced.
		buf.WriteString(`""`)
		return
	}
	buf.Write(b)
}
