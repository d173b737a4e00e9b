package crous

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

// ============================================================
// Token Types
// ============================================================

// TokenType identifies the type of a lexical token.
type TokenType uint8

const (
	TokenEOF TokenType = iota
	TokenError

	// Literals
	TokenNull   // null
	TokenTrue   // true
	TokenFalse  // false
	TokenInt    // 42, -17
	TokenFloat  // 3.14, -2.5e8, nan, inf, -inf
	TokenString // "quoted"
	TokenBytes  // b"aGVsbG8="
	TokenTag    // @7

	// Structural
	TokenLBracket // [
	TokenRBracket // ]
	TokenLParen   // (
	TokenRParen   // )
	TokenLBrace   // {
	TokenRBrace   // }
	TokenComma    // ,
	TokenColon    // :
)

// String returns a human-readable name for the token type.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenError:
		return "ERROR"
	case TokenNull:
		return "NULL"
	case TokenTrue:
		return "TRUE"
	case TokenFalse:
		return "FALSE"
	case TokenInt:
		return "INT"
	case TokenFloat:
		return "FLOAT"
	case TokenString:
		return "STRING"
	case TokenBytes:
		return "BYTES"
	case TokenTag:
		return "TAG"
	case TokenLBracket:
		return "["
	case TokenRBracket:
		return "]"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenLBrace:
		return "{"
	case TokenRBrace:
		return "}"
	case TokenComma:
		return ","
	case TokenColon:
		return ":"
	default:
		return fmt.Sprintf("TokenType(%d)", t)
	}
}

// Token is a single lexical token. For string tokens Value holds the decoded
// content with escapes resolved; for bytes tokens it holds the decoded raw
// bytes; for tag tokens it holds the digits after '@'. Tokens that need no
// decoding reference the input directly.
type Token struct {
	Type  TokenType
	Value string
	Pos   Position
}

// String returns a debug representation of the token.
func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "EOF"
	case TokenString, TokenBytes:
		return fmt.Sprintf("%s(%q)", t.Type, t.Value)
	case TokenInt, TokenFloat:
		return fmt.Sprintf("%s(%s)", t.Type, t.Value)
	case TokenTag:
		return fmt.Sprintf("TAG(@%s)", t.Value)
	default:
		return t.Type.String()
	}
}

// ============================================================
// Lexer
// ============================================================

// Lexer tokenizes CROUS text. It works byte-wise over the input and tracks
// line and column for error reporting. Comments run from "//" to end of
// line.
type Lexer struct {
	input  string
	pos    int
	line   int
	col    int
	arena  *Arena
	tokens []Token
	err    error
}

// NewLexer creates a lexer with a private scratch arena.
func NewLexer(input string) *Lexer {
	return NewLexerWithArena(input, NewArena(256))
}

// NewLexerWithArena creates a lexer that decodes string escapes through the
// given arena. Sharing one arena across many lexers amortizes scratch
// allocations; the caller resets it between parses.
func NewLexerWithArena(input string, arena *Arena) *Lexer {
	return &Lexer{input: input, line: 1, col: 1, arena: arena}
}

// Tokenize scans the entire input and returns the token slice. The slice
// ends with an EOF token on success and with an Error token on failure, in
// which case the returned error describes the problem.
func (l *Lexer) Tokenize() ([]Token, error) {
	for {
		tok := l.nextToken()
		l.tokens = append(l.tokens, tok)
		if tok.Type == TokenEOF || tok.Type == TokenError {
			break
		}
	}
	if l.err != nil {
		return l.tokens, l.err
	}
	return l.tokens, nil
}

func (l *Lexer) nextToken() Token {
	l.skipWhitespaceAndComments()

	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.currentPos()}
	}

	pos := l.currentPos()
	ch := l.peek()

	switch ch {
	case '[':
		l.advance()
		return Token{Type: TokenLBracket, Value: "[", Pos: pos}
	case ']':
		l.advance()
		return Token{Type: TokenRBracket, Value: "]", Pos: pos}
	case '(':
		l.advance()
		return Token{Type: TokenLParen, Value: "(", Pos: pos}
	case ')':
		l.advance()
		return Token{Type: TokenRParen, Value: ")", Pos: pos}
	case '{':
		l.advance()
		return Token{Type: TokenLBrace, Value: "{", Pos: pos}
	case '}':
		l.advance()
		return Token{Type: TokenRBrace, Value: "}", Pos: pos}
	case ',':
		l.advance()
		return Token{Type: TokenComma, Value: ",", Pos: pos}
	case ':':
		l.advance()
		return Token{Type: TokenColon, Value: ":", Pos: pos}
	case '"':
		return l.scanString()
	case '@':
		return l.scanTag()
	}

	switch {
	case ch == '-' || isDigit(ch):
		return l.scanNumber()
	case ch == 'b' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '"':
		return l.scanBytes()
	case isIdentStart(ch):
		return l.scanKeyword()
	default:
		l.err = newParseError(ErrSyntax, pos, "unexpected character %q", ch)
		return Token{Type: TokenError, Pos: pos}
	}
}

// scanString scans a quoted string. The first pass locates the closing quote
// so the raw span is known; a second pass decodes escapes into arena scratch
// only when the span contains a backslash. Strings without escapes become
// substrings of the input with no copy.
func (l *Lexer) scanString() Token {
	pos := l.currentPos()
	l.advance() // opening quote
	start := l.pos
	hasEscape := false

	for {
		if l.pos >= len(l.input) {
			l.err = newParseError(ErrSyntax, pos, "unterminated string")
			return Token{Type: TokenError, Pos: pos}
		}
		ch := l.peek()
		if ch == '"' {
			break
		}
		if ch == '\\' {
			hasEscape = true
			l.advance()
			if l.pos >= len(l.input) {
				l.err = newParseError(ErrSyntax, pos, "unterminated string")
				return Token{Type: TokenError, Pos: pos}
			}
		}
		l.advance()
	}

	raw := l.input[start:l.pos]
	l.advance() // closing quote

	if !hasEscape {
		if !utf8.ValidString(raw) {
			l.err = newParseError(ErrDecode, pos, "string is not valid UTF-8")
			return Token{Type: TokenError, Pos: pos}
		}
		return Token{Type: TokenString, Value: raw, Pos: pos}
	}

	decoded, perr := l.unescape(raw, pos)
	if perr != nil {
		l.err = perr
		return Token{Type: TokenError, Pos: pos}
	}
	if !utf8.ValidString(decoded) {
		l.err = newParseError(ErrDecode, pos, "string is not valid UTF-8")
		return Token{Type: TokenError, Pos: pos}
	}
	return Token{Type: TokenString, Value: decoded, Pos: pos}
}

// unescape resolves escape sequences in a raw string span. Decoded text is
// never longer than the raw span, so one arena slice of equal size suffices.
func (l *Lexer) unescape(raw string, pos Position) (string, *ParseError) {
	buf := l.arena.Alloc(len(raw))
	n := 0
	for i := 0; i < len(raw); {
		c := raw[i]
		if c != '\\' {
			buf[n] = c
			n++
			i++
			continue
		}
		i++
		if i >= len(raw) {
			return "", newParseError(ErrDecode, pos, "truncated escape sequence")
		}
		c = raw[i]
		i++
		switch c {
		case '"':
			buf[n] = '"'
			n++
		case '\\':
			buf[n] = '\\'
			n++
		case '/':
			buf[n] = '/'
			n++
		case 'b':
			buf[n] = '\b'
			n++
		case 'f':
			buf[n] = '\f'
			n++
		case 'n':
			buf[n] = '\n'
			n++
		case 'r':
			buf[n] = '\r'
			n++
		case 't':
			buf[n] = '\t'
			n++
		case 'u':
			r, next, perr := decodeUnicodeEscape(raw, i, pos)
			if perr != nil {
				return "", perr
			}
			i = next
			n += utf8.EncodeRune(buf[n:], r)
		default:
			return "", newParseError(ErrDecode, pos, "invalid escape sequence \\%c", c)
		}
	}
	return string(buf[:n]), nil
}

// decodeUnicodeEscape decodes the hex digits of a \uXXXX escape starting at
// raw[i]. Surrogate pairs must be complete: a high surrogate consumes the
// following \uXXXX escape, and lone surrogates are rejected.
func decodeUnicodeEscape(raw string, i int, pos Position) (rune, int, *ParseError) {
	if i+4 > len(raw) {
		return 0, 0, newParseError(ErrDecode, pos, "truncated \\u escape")
	}
	hi, err := strconv.ParseUint(raw[i:i+4], 16, 32)
	if err != nil {
		return 0, 0, newParseError(ErrDecode, pos, "invalid \\u escape %q", raw[i:i+4])
	}
	i += 4
	r := rune(hi)
	if !utf16.IsSurrogate(r) {
		return r, i, nil
	}
	if r >= 0xDC00 {
		return 0, 0, newParseError(ErrDecode, pos, "unpaired low surrogate \\u%04x", hi)
	}
	if i+6 > len(raw) || raw[i] != '\\' || raw[i+1] != 'u' {
		return 0, 0, newParseError(ErrDecode, pos, "unpaired high surrogate \\u%04x", hi)
	}
	lo, err := strconv.ParseUint(raw[i+2:i+6], 16, 32)
	if err != nil {
		return 0, 0, newParseError(ErrDecode, pos, "invalid \\u escape %q", raw[i+2:i+6])
	}
	paired := utf16.DecodeRune(r, rune(lo))
	if paired == utf8.RuneError {
		return 0, 0, newParseError(ErrDecode, pos, "invalid surrogate pair \\u%04x\\u%04x", hi, lo)
	}
	return paired, i + 6, nil
}

// scanBytes scans a b"..." literal and decodes its base64 payload.
func (l *Lexer) scanBytes() Token {
	pos := l.currentPos()
	l.advance() // 'b'
	l.advance() // opening quote
	start := l.pos
	for {
		if l.pos >= len(l.input) {
			l.err = newParseError(ErrSyntax, pos, "unterminated bytes literal")
			return Token{Type: TokenError, Pos: pos}
		}
		if l.peek() == '"' {
			break
		}
		l.advance()
	}
	raw := l.input[start:l.pos]
	l.advance() // closing quote

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		l.err = newParseError(ErrDecode, pos, "invalid base64 in bytes literal")
		return Token{Type: TokenError, Pos: pos}
	}
	return Token{Type: TokenBytes, Value: string(data), Pos: pos}
}

// scanTag scans an @N tag marker. The digits stay in Token.Value; range
// checking happens in the parser.
func (l *Lexer) scanTag() Token {
	pos := l.currentPos()
	l.advance() // '@'
	start := l.pos
	for l.pos < len(l.input) && isDigit(l.peek()) {
		l.advance()
	}
	if l.pos == start {
		l.err = newParseError(ErrSyntax, pos, "expected digits after '@'")
		return Token{Type: TokenError, Pos: pos}
	}
	return Token{Type: TokenTag, Value: l.input[start:l.pos], Pos: pos}
}

// scanNumber scans an integer or float literal, including the -inf keyword
// form. A fractional dot counts only when a digit follows, and an exponent
// must carry at least one digit.
func (l *Lexer) scanNumber() Token {
	pos := l.currentPos()
	start := l.pos
	isFloat := false

	if l.peek() == '-' {
		l.advance()
		if l.pos < len(l.input) && l.peek() == 'i' {
			kwStart := l.pos
			for l.pos < len(l.input) && isIdentContinue(l.peek()) {
				l.advance()
			}
			if l.input[kwStart:l.pos] == "inf" {
				return Token{Type: TokenFloat, Value: "-inf", Pos: pos}
			}
			l.err = newParseError(ErrSyntax, pos, "malformed number %q", l.input[start:l.pos])
			return Token{Type: TokenError, Pos: pos}
		}
	}

	if l.pos >= len(l.input) || !isDigit(l.peek()) {
		l.err = newParseError(ErrSyntax, pos, "malformed number")
		return Token{Type: TokenError, Pos: pos}
	}
	for l.pos < len(l.input) && isDigit(l.peek()) {
		l.advance()
	}

	if l.pos+1 < len(l.input) && l.peek() == '.' && isDigit(l.input[l.pos+1]) {
		isFloat = true
		l.advance()
		for l.pos < len(l.input) && isDigit(l.peek()) {
			l.advance()
		}
	}

	if l.pos < len(l.input) && (l.peek() == 'e' || l.peek() == 'E') {
		isFloat = true
		l.advance()
		if l.pos < len(l.input) && (l.peek() == '+' || l.peek() == '-') {
			l.advance()
		}
		if l.pos >= len(l.input) || !isDigit(l.peek()) {
			l.err = newParseError(ErrSyntax, pos, "malformed number %q", l.input[start:l.pos])
			return Token{Type: TokenError, Pos: pos}
		}
		for l.pos < len(l.input) && isDigit(l.peek()) {
			l.advance()
		}
	}

	typ := TokenInt
	if isFloat {
		typ = TokenFloat
	}
	return Token{Type: typ, Value: l.input[start:l.pos], Pos: pos}
}

// scanKeyword scans an identifier run and maps it to a keyword token. CROUS
// has no bare identifiers, so anything unrecognized is an error.
func (l *Lexer) scanKeyword() Token {
	pos := l.currentPos()
	start := l.pos
	for l.pos < len(l.input) && isIdentContinue(l.peek()) {
		l.advance()
	}
	word := l.input[start:l.pos]
	switch word {
	case "null":
		return Token{Type: TokenNull, Value: word, Pos: pos}
	case "true":
		return Token{Type: TokenTrue, Value: word, Pos: pos}
	case "false":
		return Token{Type: TokenFalse, Value: word, Pos: pos}
	case "nan", "inf":
		return Token{Type: TokenFloat, Value: word, Pos: pos}
	default:
		l.err = newParseError(ErrSyntax, pos, "unexpected identifier %q", word)
		return Token{Type: TokenError, Pos: pos}
	}
}

// skipWhitespaceAndComments advances past whitespace and // comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			l.advance()
			continue
		}
		if ch == '/' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '/' {
			for l.pos < len(l.input) && l.peek() != '\n' {
				l.advance()
			}
			continue
		}
		break
	}
}

// ============================================================
// Lexer Helpers
// ============================================================

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	if l.input[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

func (l *Lexer) currentPos() Position {
	return Position{Line: l.line, Column: l.col, Offset: l.pos}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

// ============================================================
// Token Stream
// ============================================================

// TokenStream provides sequential access over a token slice with peeking.
type TokenStream struct {
	tokens []Token
	pos    int
}

// NewTokenStream creates a stream over the given tokens.
func NewTokenStream(tokens []Token) *TokenStream {
	return &TokenStream{tokens: tokens}
}

// Peek returns the current token without consuming it.
func (ts *TokenStream) Peek() Token {
	if ts.pos >= len(ts.tokens) {
		return Token{Type: TokenEOF}
	}
	return ts.tokens[ts.pos]
}

// Advance consumes and returns the current token.
func (ts *TokenStream) Advance() Token {
	tok := ts.Peek()
	if ts.pos < len(ts.tokens) {
		ts.pos++
	}
	return tok
}

// Expect consumes the current token if it has the given type, and fails
// with a syntax error otherwise.
func (ts *TokenStream) Expect(t TokenType) (Token, error) {
	tok := ts.Peek()
	if tok.Type != t {
		return tok, newParseError(ErrSyntax, tok.Pos, "expected %s, got %s", t, tok.Type)
	}
	return ts.Advance(), nil
}

// Match consumes the current token and reports true if it has the given
// type, and leaves the stream untouched otherwise.
func (ts *TokenStream) Match(t TokenType) bool {
	if ts.Peek().Type == t {
		ts.Advance()
		return true
	}
	return false
}

// AtEnd reports whether the stream is exhausted.
func (ts *TokenStream) AtEnd() bool {
	return ts.pos >= len(ts.tokens) || ts.tokens[ts.pos].Type == TokenEOF
}

// Position returns the current stream position for use with Reset.
func (ts *TokenStream) Position() int {
	return ts.pos
}

// Reset rewinds the stream to a position previously obtained from Position.
func (ts *TokenStream) Reset(pos int) {
	if pos >= 0 && pos <= len(ts.tokens) {
		ts.pos = pos
	}
}
