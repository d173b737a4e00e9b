package crous

import (
	"fmt"
	"math"
	"sort"

	"github.com/fxamacker/cbor/v2"
)

// ============================================================
// CBOR Bridge
// ============================================================

// Encoding uses the core deterministic profile so equal trees produce equal
// bytes. Decoding caps nesting at the same depth the native codecs enforce.
var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	cborEnc = em

	dm, err := cbor.DecOptions{MaxNestedLevels: DefaultMaxDepth}.DecMode()
	if err != nil {
		panic(err)
	}
	cborDec = dm
}

// FromCBOR converts a CBOR document into a value tree. CBOR tags map to
// tagged values when the tag number fits in 32 bits, except tags 0 through 3,
// which the decoder resolves through the CBOR time and bignum schemas and
// this bridge rejects. Map keys must be text strings and are sorted, since
// CBOR map order is not significant.
func FromCBOR(data []byte) (*Value, error) {
	var raw any
	if err := cborDec.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("crous: decode CBOR: %w", err)
	}
	return fromCBORValue(raw, 0)
}

func fromCBORValue(v any, depth int) (*Value, error) {
	if depth > DefaultMaxDepth {
		return nil, fmt.Errorf("%w: CBOR nesting deeper than %d", ErrDepthExceeded, DefaultMaxDepth)
	}

	switch val := v.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return nil, fmt.Errorf("%w: CBOR integer %d overflows int64", ErrInvalidType, val)
		}
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case float64:
		return Float(val), nil
	case float32:
		return Float(float64(val)), nil
	case string:
		return Str(val), nil
	case []byte:
		return Bytes(val), nil
	case []any:
		elems := make([]*Value, 0, len(val))
		for i, item := range val {
			cv, err := fromCBORValue(item, depth+1)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			elems = append(elems, cv)
		}
		return List(elems...), nil
	case map[any]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("%w: CBOR map key %v is not a string", ErrInvalidType, k)
			}
			keys = append(keys, ks)
		}
		sort.Strings(keys)
		entries := make([]DictEntry, 0, len(val))
		for _, k := range keys {
			cv, err := fromCBORValue(val[k], depth+1)
			if err != nil {
				return nil, fmt.Errorf("map[%q]: %w", k, err)
			}
			entries = append(entries, DictEntry{Key: k, Value: cv})
		}
		return Dict(entries...), nil
	case cbor.Tag:
		if val.Number > math.MaxUint32 {
			return nil, fmt.Errorf("%w: CBOR tag %d out of range", ErrInvalidType, val.Number)
		}
		inner, err := fromCBORValue(val.Content, depth+1)
		if err != nil {
			return nil, err
		}
		return Tagged(uint32(val.Number), inner), nil
	default:
		return nil, fmt.Errorf("%w: cannot convert CBOR value of type %T", ErrInvalidType, v)
	}
}

// ToCBOR converts a value tree into deterministic CBOR. Tagged values
// become CBOR tags and tuples become arrays. Dicts become CBOR maps, which
// sorts entries and collapses duplicate keys to the last one.
func ToCBOR(v *Value) ([]byte, error) {
	raw, err := toCBORValue(v)
	if err != nil {
		return nil, err
	}
	data, err := cborEnc.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("crous: encode CBOR: %w", err)
	}
	return data, nil
}

func toCBORValue(v *Value) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch v.typ {
	case TypeNull:
		return nil, nil
	case TypeBool:
		return v.boolVal, nil
	case TypeInt:
		return v.intVal, nil
	case TypeFloat:
		return v.floatVal, nil
	case TypeString:
		return v.strVal, nil
	case TypeBytes:
		return v.bytesVal, nil
	case TypeList, TypeTuple:
		items := make([]any, 0, len(v.listVal))
		for i, elem := range v.listVal {
			cv, err := toCBORValue(elem)
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			items = append(items, cv)
		}
		return items, nil
	case TypeDict:
		m := make(map[string]any, len(v.dictVal))
		for _, ent := range v.dictVal {
			cv, err := toCBORValue(ent.Value)
			if err != nil {
				return nil, fmt.Errorf("dict[%q]: %w", ent.Key, err)
			}
			m[ent.Key] = cv // last duplicate wins
		}
		return m, nil
	case TypeTagged:
		inner, err := toCBORValue(v.innerVal)
		if err != nil {
			return nil, err
		}
		return cbor.Tag{Number: uint64(v.tagVal), Content: inner}, nil
	default:
		return nil, fmt.Errorf("%w: unknown value type %d", ErrInvalidType, v.typ)
	}
}
