package crous

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromYAMLScalars(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Value
	}{
		{"null word", "null", Null()},
		{"tilde", "~", Null()},
		{"empty document", "", Null()},
		{"true", "true", Bool(true)},
		{"false", "False", Bool(false)},
		{"int", "42", Int(42)},
		{"negative int", "-19", Int(-19)},
		{"hex int", "0x1f", Int(31)},
		{"float", "2.5", Float(2.5)},
		{"exponent", "1e3", Float(1000)},
		{"inf", ".inf", Float(math.Inf(1))},
		{"negative inf", "-.inf", Float(math.Inf(-1))},
		{"plain string", "hello", Str("hello")},
		{"quoted number stays string", `"42"`, Str("42")},
		{"single quoted bool stays string", "'true'", Str("true")},
		{"block scalar stays string", "|\n  12\n", Str("12\n")},
		{"binary", "!!binary aGk=", Bytes([]byte("hi"))},
		{"explicit str", "!!str 7", Str("7")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromYAML([]byte(tt.input))
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", Emit(got), Emit(tt.want))
		})
	}
}

func TestFromYAMLMappingOrder(t *testing.T) {
	got, err := FromYAML([]byte("b: 1\na: 2\nm: 3\n"))
	require.NoError(t, err)
	require.Equal(t, 3, got.Len())

	var keys []string
	for _, ent := range got.Entries() {
		keys = append(keys, ent.Key)
	}
	assert.Equal(t, []string{"b", "a", "m"}, keys)
}

func TestFromYAMLDuplicateKeys(t *testing.T) {
	got, err := FromYAML([]byte("k: 1\nother: 2\nk: 3\n"))
	require.NoError(t, err)
	assert.True(t, got.Equal(Dict(
		Pair("k", Int(1)),
		Pair("other", Int(2)),
		Pair("k", Int(3)),
	)), "got %s", Emit(got))
}

func TestFromYAMLLocalTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Value
	}{
		{"tagged int", "!7 42", Tagged(7, Int(42))},
		{"tagged quoted string", `!7 "42"`, Tagged(7, Str("42"))},
		{"tagged sequence", "!3 [1, 2]", Tagged(3, List(Int(1), Int(2)))},
		{"tagged mapping", "!9\na: 1\n", Tagged(9, Dict(Pair("a", Int(1))))},
		{"max tag", "!4294967295 0", Tagged(math.MaxUint32, Int(0))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromYAML([]byte(tt.input))
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", Emit(got), Emit(tt.want))
		})
	}

	// Local tags that are not pure tag numbers stay ordinary strings.
	got, err := FromYAML([]byte("!custom hello"))
	require.NoError(t, err)
	assert.Equal(t, TypeString, got.Type())

	_, err = FromYAML([]byte("!4294967296 1"))
	require.ErrorIs(t, err, ErrDecode)
}

func TestFromYAMLAliases(t *testing.T) {
	got, err := FromYAML([]byte("a: &x [1, 2]\nb: *x\n"))
	require.NoError(t, err)
	want := Dict(
		Pair("a", List(Int(1), Int(2))),
		Pair("b", List(Int(1), Int(2))),
	)
	assert.True(t, got.Equal(want), "got %s", Emit(got))
}

func TestFromYAMLErrors(t *testing.T) {
	_, err := FromYAML([]byte("? [1, 2]\n: 3\n"))
	require.ErrorIs(t, err, ErrInvalidType)

	_, err = FromYAML([]byte("a: [1, 2\n"))
	assert.Error(t, err)
}

func TestFromYAMLDepth(t *testing.T) {
	deep := strings.Repeat("[", 140) + strings.Repeat("]", 140)
	_, err := FromYAML([]byte(deep))
	require.ErrorIs(t, err, ErrDepthExceeded)
}

func TestToYAML(t *testing.T) {
	tests := []struct {
		name string
		val  *Value
		want string
	}{
		{"int", Int(42), "42\n"},
		{"float keeps point", Float(3), "3.0\n"},
		{"nan", Float(math.NaN()), ".nan\n"},
		{"numeric string quoted", Str("42"), "\"42\"\n"},
		{"bytes", Bytes([]byte("hi")), "!!binary aGk=\n"},
		{"tagged", Tagged(7, Int(42)), "!7 42\n"},
		{"dict keeps order", Dict(Pair("b", Int(1)), Pair("a", Int(2))), "b: 1\na: 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ToYAML(tt.val)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		val  *Value
	}{
		{"null", Null()},
		{"bool", Bool(true)},
		{"int", Int(-77)},
		{"float", Float(2.5)},
		{"integral float", Float(1)},
		{"nan", Float(math.NaN())},
		{"string", Str("héllo world")},
		{"bool lookalike string", Str("true")},
		{"numeric string", Str("42")},
		{"bytes", Bytes([]byte{0x00, 0xff, 0x10})},
		{"list", List(Int(1), Str("x"), Null())},
		{"tagged int", Tagged(7, Int(42))},
		{"tagged string", Tagged(5, Str("42"))},
		{"tagged list", Tagged(3, List(Int(1), Int(2)))},
		{
			"dict with duplicates",
			Dict(
				Pair("b", Int(1)),
				Pair("a", List(Bool(false), Float(0.5))),
				Pair("b", Str("again")),
			),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ToYAML(tt.val)
			require.NoError(t, err)
			got, err := FromYAML(out)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.val), "round-tripped through %q as %s", out, Emit(got))
		})
	}
}

func TestYAMLTupleBecomesList(t *testing.T) {
	out, err := ToYAML(Tuple(Int(1), Int(2)))
	require.NoError(t, err)
	got, err := FromYAML(out)
	require.NoError(t, err)
	assert.Equal(t, TypeList, got.Type())
}
