package crous

import (
	"bytes"
	"fmt"
	"math"
)

// ============================================================
// Type System
// ============================================================

// Type identifies the kind of a Value.
type Type uint8

const (
	TypeNull Type = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeString
	TypeBytes
	TypeList
	TypeTuple
	TypeDict
	TypeTagged
)

// String returns the lowercase name of the type.
func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeBytes:
		return "bytes"
	case TypeList:
		return "list"
	case TypeTuple:
		return "tuple"
	case TypeDict:
		return "dict"
	case TypeTagged:
		return "tagged"
	default:
		return fmt.Sprintf("Type(%d)", t)
	}
}

// DictEntry is a single key/value pair in a dict. Dicts preserve insertion
// order and permit duplicate keys, so entries form a sequence, not a map.
type DictEntry struct {
	Key   string
	Value *Value
}

// Pair constructs a DictEntry. It exists so dict literals read naturally:
//
//	Dict(Pair("host", Str("a")), Pair("port", Int(9)))
func Pair(key string, value *Value) DictEntry {
	return DictEntry{Key: key, Value: value}
}

// ============================================================
// Value
// ============================================================

// Value is a node in a CROUS document tree. The zero value is the null
// value. Values form strict trees: sharing or cycles between nodes are not
// supported and produce undefined behavior in the traversal functions.
type Value struct {
	typ Type

	boolVal  bool
	intVal   int64
	floatVal float64
	strVal   string
	bytesVal []byte
	listVal  []*Value    // list and tuple elements
	dictVal  []DictEntry // dict entries in insertion order
	tagVal   uint32
	innerVal *Value // tagged payload
}

// ============================================================
// Constructors
// ============================================================

// Null returns the null value.
func Null() *Value {
	return &Value{typ: TypeNull}
}

// Bool returns a boolean value.
func Bool(v bool) *Value {
	return &Value{typ: TypeBool, boolVal: v}
}

// Int returns a 64-bit signed integer value.
func Int(v int64) *Value {
	return &Value{typ: TypeInt, intVal: v}
}

// Float returns a 64-bit float value. NaN and the infinities are valid and
// survive both serialization formats.
func Float(v float64) *Value {
	return &Value{typ: TypeFloat, floatVal: v}
}

// Str returns a string value. The string must be valid UTF-8; the codecs
// reject trees containing malformed string values.
func Str(v string) *Value {
	return &Value{typ: TypeString, strVal: v}
}

// Bytes returns a binary value. The value takes ownership of the slice; the
// caller must not modify it afterwards.
func Bytes(v []byte) *Value {
	return &Value{typ: TypeBytes, bytesVal: v}
}

// List returns a list value holding the given elements.
func List(elems ...*Value) *Value {
	return &Value{typ: TypeList, listVal: elems}
}

// ListCap returns an empty list with capacity for n elements.
func ListCap(n int) *Value {
	return &Value{typ: TypeList, listVal: make([]*Value, 0, n)}
}

// Tuple returns a tuple value holding the given elements. Tuples behave like
// lists but keep a distinct type tag through both serialization formats.
func Tuple(elems ...*Value) *Value {
	return &Value{typ: TypeTuple, listVal: elems}
}

// Dict returns a dict value holding the given entries in order.
func Dict(entries ...DictEntry) *Value {
	return &Value{typ: TypeDict, dictVal: entries}
}

// DictCap returns an empty dict with capacity for n entries.
func DictCap(n int) *Value {
	return &Value{typ: TypeDict, dictVal: make([]DictEntry, 0, n)}
}

// Tagged wraps inner with a numeric application tag. The tag carries no
// meaning to the library itself.
func Tagged(tag uint32, inner *Value) *Value {
	return &Value{typ: TypeTagged, tagVal: tag, innerVal: inner}
}

// ============================================================
// Inspection
// ============================================================

// Type returns the kind of the value. A nil *Value reports TypeNull.
func (v *Value) Type() Type {
	if v == nil {
		return TypeNull
	}
	return v.typ
}

// IsNull reports whether the value is null.
func (v *Value) IsNull() bool {
	return v.Type() == TypeNull
}

// AsBool returns the boolean payload.
func (v *Value) AsBool() (bool, error) {
	if v == nil {
		return false, fmt.Errorf("%w: nil value", ErrInvalidType)
	}
	if v.typ != TypeBool {
		return false, fmt.Errorf("%w: expected bool, got %s", ErrInvalidType, v.typ)
	}
	return v.boolVal, nil
}

// AsInt returns the integer payload.
func (v *Value) AsInt() (int64, error) {
	if v == nil {
		return 0, fmt.Errorf("%w: nil value", ErrInvalidType)
	}
	if v.typ != TypeInt {
		return 0, fmt.Errorf("%w: expected int, got %s", ErrInvalidType, v.typ)
	}
	return v.intVal, nil
}

// AsFloat returns the float payload.
func (v *Value) AsFloat() (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("%w: nil value", ErrInvalidType)
	}
	if v.typ != TypeFloat {
		return 0, fmt.Errorf("%w: expected float, got %s", ErrInvalidType, v.typ)
	}
	return v.floatVal, nil
}

// AsStr returns the string payload.
func (v *Value) AsStr() (string, error) {
	if v == nil {
		return "", fmt.Errorf("%w: nil value", ErrInvalidType)
	}
	if v.typ != TypeString {
		return "", fmt.Errorf("%w: expected string, got %s", ErrInvalidType, v.typ)
	}
	return v.strVal, nil
}

// AsBytes returns the binary payload. The slice is shared with the value;
// callers that mutate it must copy first.
func (v *Value) AsBytes() ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: nil value", ErrInvalidType)
	}
	if v.typ != TypeBytes {
		return nil, fmt.Errorf("%w: expected bytes, got %s", ErrInvalidType, v.typ)
	}
	return v.bytesVal, nil
}

// AsTagged returns the tag number and wrapped value.
func (v *Value) AsTagged() (uint32, *Value, error) {
	if v == nil {
		return 0, nil, fmt.Errorf("%w: nil value", ErrInvalidType)
	}
	if v.typ != TypeTagged {
		return 0, nil, fmt.Errorf("%w: expected tagged, got %s", ErrInvalidType, v.typ)
	}
	return v.tagVal, v.innerVal, nil
}

// Len returns the element count of a list or tuple, or the entry count of a
// dict. Duplicate dict keys each count once. Other types report 0.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.typ {
	case TypeList, TypeTuple:
		return len(v.listVal)
	case TypeDict:
		return len(v.dictVal)
	default:
		return 0
	}
}

// Index returns the i-th element of a list or tuple, or nil when the index
// is out of range or the value is not a sequence.
func (v *Value) Index(i int) *Value {
	if v == nil {
		return nil
	}
	if v.typ != TypeList && v.typ != TypeTuple {
		return nil
	}
	if i < 0 || i >= len(v.listVal) {
		return nil
	}
	return v.listVal[i]
}

// Entries returns the dict entries in insertion order, duplicates included.
// The slice is shared with the value and must not be modified. Non-dict
// values return nil.
func (v *Value) Entries() []DictEntry {
	if v == nil || v.typ != TypeDict {
		return nil
	}
	return v.dictVal
}

// Entry returns the i-th dict entry by insertion order.
func (v *Value) Entry(i int) (DictEntry, bool) {
	if v == nil || v.typ != TypeDict {
		return DictEntry{}, false
	}
	if i < 0 || i >= len(v.dictVal) {
		return DictEntry{}, false
	}
	return v.dictVal[i], true
}

// Get returns the value of the first entry with the given key, or nil if the
// key is absent or the value is not a dict. Later duplicates are reachable
// through Entries.
func (v *Value) Get(key string) *Value {
	if v == nil || v.typ != TypeDict {
		return nil
	}
	for _, e := range v.dictVal {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

// ============================================================
// Mutation
// ============================================================

// Append adds an element to the end of a list or tuple.
func (v *Value) Append(elem *Value) error {
	if v == nil {
		return fmt.Errorf("%w: nil value", ErrInvalidType)
	}
	if v.typ != TypeList && v.typ != TypeTuple {
		return fmt.Errorf("%w: cannot append to %s", ErrInvalidType, v.typ)
	}
	v.listVal = append(v.listVal, elem)
	return nil
}

// Set appends a key/value entry to a dict. Entries are never replaced: a
// repeated key accumulates as an additional entry, and Get keeps resolving
// to the first one.
func (v *Value) Set(key string, value *Value) error {
	if v == nil {
		return fmt.Errorf("%w: nil value", ErrInvalidType)
	}
	if v.typ != TypeDict {
		return fmt.Errorf("%w: cannot set key on %s", ErrInvalidType, v.typ)
	}
	v.dictVal = append(v.dictVal, DictEntry{Key: key, Value: value})
	return nil
}

// ============================================================
// Comparison
// ============================================================

// Equal reports deep structural equality. Floats compare by bit pattern, so
// NaN equals NaN and negative zero differs from positive zero. Dicts compare
// entry by entry in order, duplicates included. Lists never equal tuples.
func (v *Value) Equal(o *Value) bool {
	if v.Type() != o.Type() {
		return false
	}
	switch v.Type() {
	case TypeNull:
		return true
	case TypeBool:
		return v.boolVal == o.boolVal
	case TypeInt:
		return v.intVal == o.intVal
	case TypeFloat:
		return math.Float64bits(v.floatVal) == math.Float64bits(o.floatVal)
	case TypeString:
		return v.strVal == o.strVal
	case TypeBytes:
		return bytes.Equal(v.bytesVal, o.bytesVal)
	case TypeList, TypeTuple:
		if len(v.listVal) != len(o.listVal) {
			return false
		}
		for i := range v.listVal {
			if !v.listVal[i].Equal(o.listVal[i]) {
				return false
			}
		}
		return true
	case TypeDict:
		if len(v.dictVal) != len(o.dictVal) {
			return false
		}
		for i := range v.dictVal {
			if v.dictVal[i].Key != o.dictVal[i].Key {
				return false
			}
			if !v.dictVal[i].Value.Equal(o.dictVal[i].Value) {
				return false
			}
		}
		return true
	case TypeTagged:
		return v.tagVal == o.tagVal && v.innerVal.Equal(o.innerVal)
	default:
		return false
	}
}
