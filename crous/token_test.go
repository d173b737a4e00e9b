package crous

import (
	"errors"
	"testing"
)

func tokenize(t *testing.T, input string) []Token {
	t.Helper()
	tokens, err := NewLexer(input).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize(%q) error: %v", input, err)
	}
	return tokens
}

func TestTokenizeBasic(t *testing.T) {
	input := `[1, -2.5, "hi", true, false, null, @7, b"AQID"]`
	want := []struct {
		typ   TokenType
		value string
	}{
		{TokenLBracket, "["},
		{TokenInt, "1"},
		{TokenComma, ","},
		{TokenFloat, "-2.5"},
		{TokenComma, ","},
		{TokenString, "hi"},
		{TokenComma, ","},
		{TokenTrue, "true"},
		{TokenComma, ","},
		{TokenFalse, "false"},
		{TokenComma, ","},
		{TokenNull, "null"},
		{TokenComma, ","},
		{TokenTag, "7"},
		{TokenComma, ","},
		{TokenBytes, "\x01\x02\x03"},
		{TokenRBracket, "]"},
		{TokenEOF, ""},
	}

	tokens := tokenize(t, input)
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(want), tokens)
	}
	for i, w := range want {
		if tokens[i].Type != w.typ {
			t.Errorf("token[%d].Type = %s, want %s", i, tokens[i].Type, w.typ)
		}
		if tokens[i].Value != w.value {
			t.Errorf("token[%d].Value = %q, want %q", i, tokens[i].Value, w.value)
		}
	}
}

func TestTokenizeNumbers(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
		value string
	}{
		{"0", TokenInt, "0"},
		{"-0", TokenInt, "-0"},
		{"123456789", TokenInt, "123456789"},
		{"-17", TokenInt, "-17"},
		{"1.5", TokenFloat, "1.5"},
		{"-2.25", TokenFloat, "-2.25"},
		{"3e8", TokenFloat, "3e8"},
		{"1.5e-3", TokenFloat, "1.5e-3"},
		{"2E+6", TokenFloat, "2E+6"},
		{"nan", TokenFloat, "nan"},
		{"inf", TokenFloat, "inf"},
		{"-inf", TokenFloat, "-inf"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := tokenize(t, tt.input)
			if len(tokens) != 2 {
				t.Fatalf("got %d tokens, want value+EOF", len(tokens))
			}
			if tokens[0].Type != tt.typ || tokens[0].Value != tt.value {
				t.Errorf("token = %s(%q), want %s(%q)", tokens[0].Type, tokens[0].Value, tt.typ, tt.value)
			}
		})
	}
}

func TestStringEscapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `"plain"`, "plain"},
		{"empty", `""`, ""},
		{"newline", `"a\nb"`, "a\nb"},
		{"tab return", `"a\tb\rc"`, "a\tb\rc"},
		{"quote", `"say \"hi\""`, `say "hi"`},
		{"backslash", `"back\\slash"`, `back\slash`},
		{"slash", `"\/etc"`, "/etc"},
		{"backspace formfeed", `"\b\f"`, "\b\f"},
		{"unicode escape ascii", `"\u0041"`, "A"},
		{"unicode escape latin", `"caf\u00e9"`, "café"},
		{"unicode escape cjk", `"\u4e16\u754c"`, "世界"},
		{"surrogate pair", `"\ud83d\ude00"`, "\U0001f600"},
		{"uppercase hex", `"\u00E9"`, "é"},
		{"raw utf8 passthrough", `"héllo"`, "héllo"},
		{"mixed", `"aBc\nd"`, "aBc\nd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := tokenize(t, tt.input)
			if tokens[0].Type != TokenString {
				t.Fatalf("token type = %s, want STRING", tokens[0].Type)
			}
			if tokens[0].Value != tt.want {
				t.Errorf("decoded = %q, want %q", tokens[0].Value, tt.want)
			}
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"unterminated string", `"abc`, ErrSyntax},
		{"unterminated after escape", `"abc\`, ErrSyntax},
		{"bad escape", `"a\qb"`, ErrDecode},
		{"truncated unicode", `"\u12"`, ErrDecode},
		{"bad unicode hex", `"\uzzzz"`, ErrDecode},
		{"lone high surrogate", `"\ud800"`, ErrDecode},
		{"lone low surrogate", `"\udc00"`, ErrDecode},
		{"high surrogate then text", `"\ud800abc"`, ErrDecode},
		{"bad base64", `b"!!!"`, ErrDecode},
		{"unterminated bytes", `b"AQ`, ErrSyntax},
		{"bare tag marker", "@", ErrSyntax},
		{"tag without digits", "@x", ErrSyntax},
		{"unknown identifier", "hello", ErrSyntax},
		{"unknown character", "&", ErrSyntax},
		{"lone minus", "-", ErrSyntax},
		{"double minus", "--1", ErrSyntax},
		{"exponent without digits", "1e", ErrSyntax},
		{"exponent sign only", "1e+", ErrSyntax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := NewLexer(tt.input).Tokenize()
			if err == nil {
				t.Fatalf("Tokenize(%q) succeeded, want error", tt.input)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want class %v", err, tt.wantErr)
			}
			if len(tokens) == 0 || tokens[len(tokens)-1].Type != TokenError {
				t.Errorf("token slice should end with ERROR, got %v", tokens)
			}
		})
	}
}

func TestTokenPositions(t *testing.T) {
	input := "[1,\n  \"x\"]"
	tokens := tokenize(t, input)

	want := []struct {
		typ  TokenType
		line int
		col  int
	}{
		{TokenLBracket, 1, 1},
		{TokenInt, 1, 2},
		{TokenComma, 1, 3},
		{TokenString, 2, 3},
		{TokenRBracket, 2, 6},
		{TokenEOF, 2, 7},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, w := range want {
		if tokens[i].Type != w.typ {
			t.Errorf("token[%d].Type = %s, want %s", i, tokens[i].Type, w.typ)
		}
		if tokens[i].Pos.Line != w.line || tokens[i].Pos.Column != w.col {
			t.Errorf("token[%d] at %s, want %d:%d", i, tokens[i].Pos, w.line, w.col)
		}
	}
}

func TestTokenizeComments(t *testing.T) {
	input := "// leading comment\n[1] // trailing"
	tokens := tokenize(t, input)
	want := []TokenType{TokenLBracket, TokenInt, TokenRBracket, TokenEOF}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(want), tokens)
	}
	for i, w := range want {
		if tokens[i].Type != w {
			t.Errorf("token[%d].Type = %s, want %s", i, tokens[i].Type, w)
		}
	}
	if tokens[0].Pos.Line != 2 || tokens[0].Pos.Column != 1 {
		t.Errorf("'[' at %s, want 2:1", tokens[0].Pos)
	}
}

func TestTokenStream(t *testing.T) {
	tokens := tokenize(t, "[1]")
	ts := NewTokenStream(tokens)

	if ts.AtEnd() {
		t.Fatal("AtEnd before consuming")
	}
	if tok := ts.Peek(); tok.Type != TokenLBracket {
		t.Fatalf("Peek() = %s, want [", tok.Type)
	}
	// Peek must not consume.
	if tok := ts.Peek(); tok.Type != TokenLBracket {
		t.Fatalf("second Peek() = %s, want [", tok.Type)
	}

	mark := ts.Position()
	if tok := ts.Advance(); tok.Type != TokenLBracket {
		t.Fatalf("Advance() = %s, want [", tok.Type)
	}
	if !ts.Match(TokenInt) {
		t.Fatal("Match(INT) = false")
	}
	if ts.Match(TokenComma) {
		t.Fatal("Match(,) consumed a ] token")
	}
	if _, err := ts.Expect(TokenRBracket); err != nil {
		t.Fatalf("Expect(]): %v", err)
	}
	if !ts.AtEnd() {
		t.Fatal("AtEnd after consuming all tokens")
	}
	if _, err := ts.Expect(TokenRBracket); err == nil {
		t.Fatal("Expect at EOF should fail")
	} else if !errors.Is(err, ErrSyntax) {
		t.Errorf("Expect error = %v, want ErrSyntax", err)
	}

	ts.Reset(mark)
	if tok := ts.Peek(); tok.Type != TokenLBracket {
		t.Fatalf("after Reset Peek() = %s, want [", tok.Type)
	}
}

func TestLexerSharedArena(t *testing.T) {
	arena := NewArena(64)
	inputs := []string{`"a\nb"`, `"c\td"`, `"AB"`}
	want := []string{"a\nb", "c\td", "AB"}
	for i, in := range inputs {
		tokens, err := NewLexerWithArena(in, arena).Tokenize()
		if err != nil {
			t.Fatalf("Tokenize(%q): %v", in, err)
		}
		if tokens[0].Value != want[i] {
			t.Errorf("input %q decoded %q, want %q", in, tokens[0].Value, want[i])
		}
		arena.Reset()
	}
}
