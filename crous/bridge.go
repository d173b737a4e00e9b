package crous

import (
	"fmt"
	"math"
	"sort"
)

// ============================================================
// Go Bridge
// ============================================================

// FromGo converts a plain Go value into a value tree. Supported inputs are
// nil, bool, the integer and float types, string, []byte, []any, []*Value,
// map[string]any, []DictEntry and *Value itself. Map keys are sorted so the
// resulting dict is deterministic; use Dict directly when entry order
// matters. Conversion depth is bounded by DefaultMaxDepth, which also stops
// cyclic inputs from recursing forever.
func FromGo(v any) (*Value, error) {
	return fromGoValue(v, 0)
}

func fromGoValue(v any, depth int) (*Value, error) {
	if depth > DefaultMaxDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrDepthExceeded, DefaultMaxDepth)
	}

	switch val := v.(type) {
	case nil:
		return Null(), nil
	case *Value:
		if val == nil {
			return Null(), nil
		}
		return val, nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(int64(val)), nil
	case int8:
		return Int(int64(val)), nil
	case int16:
		return Int(int64(val)), nil
	case int32:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case uint:
		if uint64(val) > math.MaxInt64 {
			return nil, fmt.Errorf("%w: uint value %d overflows int64", ErrInvalidType, val)
		}
		return Int(int64(val)), nil
	case uint8:
		return Int(int64(val)), nil
	case uint16:
		return Int(int64(val)), nil
	case uint32:
		return Int(int64(val)), nil
	case uint64:
		if val > math.MaxInt64 {
			return nil, fmt.Errorf("%w: uint64 value %d overflows int64", ErrInvalidType, val)
		}
		return Int(int64(val)), nil
	case float32:
		return Float(float64(val)), nil
	case float64:
		return Float(val), nil
	case string:
		return Str(val), nil
	case []byte:
		return Bytes(val), nil
	case []*Value:
		return List(val...), nil
	case []DictEntry:
		return Dict(val...), nil
	case []any:
		elems := make([]*Value, 0, len(val))
		for i, item := range val {
			cv, err := fromGoValue(item, depth+1)
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			elems = append(elems, cv)
		}
		return List(elems...), nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		entries := make([]DictEntry, 0, len(val))
		for _, k := range keys {
			cv, err := fromGoValue(val[k], depth+1)
			if err != nil {
				return nil, fmt.Errorf("map[%q]: %w", k, err)
			}
			entries = append(entries, DictEntry{Key: k, Value: cv})
		}
		return Dict(entries...), nil
	default:
		return nil, fmt.Errorf("%w: cannot convert %T", ErrInvalidType, v)
	}
}

// ToGo converts a value tree into plain Go values: lists and tuples become
// []any, dicts become map[string]any. Duplicate dict keys collapse to the
// last entry and tagged values unwrap to their payload, so the conversion
// is lossy in ways the serialization formats are not.
func ToGo(v *Value) (any, error) {
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
			gv, err := ToGo(elem)
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			items = append(items, gv)
		}
		return items, nil
	case TypeDict:
		m := make(map[string]any, len(v.dictVal))
		for _, ent := range v.dictVal {
			gv, err := ToGo(ent.Value)
			if err != nil {
				return nil, fmt.Errorf("dict[%q]: %w", ent.Key, err)
			}
			m[ent.Key] = gv // last duplicate wins
		}
		return m, nil
	case TypeTagged:
		return ToGo(v.innerVal)
	default:
		return nil, fmt.Errorf("%w: unknown value type %d", ErrInvalidType, v.typ)
	}
}
