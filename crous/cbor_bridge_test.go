package crous

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCBORRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		val  *Value
	}{
		{"null", Null()},
		{"bool", Bool(true)},
		{"int", Int(42)},
		{"negative int", Int(-1000)},
		{"max int64", Int(math.MaxInt64)},
		{"min int64", Int(math.MinInt64)},
		{"float", Float(2.5)},
		{"string", Str("héllo")},
		{"bytes", Bytes([]byte{0, 1, 0xff})},
		{"list", List(Int(1), Str("x"), Null())},
		{"dict sorted keys", Dict(Pair("a", Int(1)), Pair("b", Int(2)))},
		{"tagged", Tagged(7, Int(42))},
		{"tagged nested", Tagged(100, Tagged(200, Str("deep")))},
		{
			"mixed",
			Dict(
				Pair("l", List(Bool(false), Bytes([]byte{9}))),
				Pair("t", Tagged(99, Float(0.5))),
			),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ToCBOR(tt.val)
			require.NoError(t, err)
			got, err := FromCBOR(data)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.val), "got %s, want %s", Emit(got), Emit(tt.val))
		})
	}
}

func TestCBORDeterministic(t *testing.T) {
	// Same entries in different order marshal to identical bytes, since
	// CBOR maps carry no order.
	a, err := ToCBOR(Dict(Pair("b", Int(1)), Pair("a", Int(2))))
	require.NoError(t, err)
	b, err := ToCBOR(Dict(Pair("a", Int(2)), Pair("b", Int(1))))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCBORDuplicateKeysCollapse(t *testing.T) {
	data, err := ToCBOR(Dict(Pair("k", Int(1)), Pair("k", Int(2))))
	require.NoError(t, err)
	got, err := FromCBOR(data)
	require.NoError(t, err)
	assert.True(t, got.Equal(Dict(Pair("k", Int(2)))), "got %s", Emit(got))
}

func TestCBORTupleBecomesList(t *testing.T) {
	data, err := ToCBOR(Tuple(Int(1), Int(2)))
	require.NoError(t, err)
	got, err := FromCBOR(data)
	require.NoError(t, err)
	assert.Equal(t, TypeList, got.Type())
}

func TestCBORNaN(t *testing.T) {
	data, err := ToCBOR(Float(math.NaN()))
	require.NoError(t, err)
	got, err := FromCBOR(data)
	require.NoError(t, err)
	f, err := got.AsFloat()
	require.NoError(t, err)
	assert.True(t, math.IsNaN(f))
}

func TestFromCBORRaw(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want *Value
	}{
		{"unsigned", []byte{0x01}, Int(1)},
		{"negative", []byte{0x20}, Int(-1)},
		{"null", []byte{0xf6}, Null()},
		{"true", []byte{0xf5}, Bool(true)},
		{"text", []byte{0x62, 'h', 'i'}, Str("hi")},
		{"byte string", []byte{0x42, 0x01, 0x02}, Bytes([]byte{1, 2})},
		{"array", []byte{0x82, 0x01, 0x02}, List(Int(1), Int(2))},
		{"map", []byte{0xa1, 0x61, 'a', 0x01}, Dict(Pair("a", Int(1)))},
		{"tag 7", []byte{0xc7, 0x18, 0x2a}, Tagged(7, Int(42))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromCBOR(tt.data)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", Emit(got), Emit(tt.want))
		})
	}
}

func TestFromCBORErrors(t *testing.T) {
	// Unsigned value beyond int64.
	overflow := []byte{0x1b, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	_, err := FromCBOR(overflow)
	require.ErrorIs(t, err, ErrInvalidType)

	// Map with a non-text key.
	intKey := []byte{0xa1, 0x01, 0x02}
	_, err = FromCBOR(intKey)
	require.ErrorIs(t, err, ErrInvalidType)

	// Truncated payload.
	_, err = FromCBOR([]byte{0x62, 'h'})
	assert.Error(t, err)
}

func TestToCBORTagNumber(t *testing.T) {
	// Tag numbers ride as uint64 on the wire and stay within uint32
	// on re-entry.
	data, err := ToCBOR(Tagged(math.MaxUint32, Null()))
	require.NoError(t, err)
	got, err := FromCBOR(data)
	require.NoError(t, err)
	tag, _, err := got.AsTagged()
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), tag)
}
