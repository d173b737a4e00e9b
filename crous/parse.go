package crous

import (
	"errors"
	"math"
	"strconv"
)

// DefaultMaxDepth bounds container and tag nesting for parsing, encoding
// and decoding when no explicit limit is configured.
const DefaultMaxDepth = 128

// ParseOptions configures text parsing.
type ParseOptions struct {
	// MaxDepth limits nesting depth. Zero means DefaultMaxDepth.
	MaxDepth int
}

// DefaultParseOptions returns the standard parsing configuration.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{MaxDepth: DefaultMaxDepth}
}

// ============================================================
// Entry Points
// ============================================================

// Parse reads exactly one value from the input text. Input with leftover
// tokens after the value is rejected.
func Parse(input string) (*Value, error) {
	return ParseWithOptions(input, DefaultParseOptions())
}

// ParseBytes is Parse over a byte slice.
func ParseBytes(input []byte) (*Value, error) {
	return Parse(string(input))
}

// ParseWithOptions is Parse with explicit options.
func ParseWithOptions(input string, opts ParseOptions) (*Value, error) {
	p := NewParserWithOptions(NewLexer(input), opts)
	v, err := p.Parse()
	if err != nil {
		return nil, err
	}
	if !p.stream.AtEnd() {
		tok := p.stream.Peek()
		return nil, newParseError(ErrSyntax, tok.Pos, "unexpected %s after value", tok)
	}
	return v, nil
}

// ============================================================
// Parser
// ============================================================

// Parser builds value trees from a token stream. Each call to Parse
// consumes one value, so several values can be read from the same input
// back to back.
type Parser struct {
	lex      *Lexer
	stream   *TokenStream
	maxDepth int
	err      error
}

// NewParser creates a parser over the lexer with default options.
func NewParser(l *Lexer) *Parser {
	return NewParserWithOptions(l, DefaultParseOptions())
}

// NewParserWithOptions creates a parser over the lexer with the given
// options.
func NewParserWithOptions(l *Lexer, opts ParseOptions) *Parser {
	if opts.MaxDepth == 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Parser{lex: l, maxDepth: opts.MaxDepth}
}

// Parse reads the next value from the input. The first call tokenizes the
// whole input; lexical errors surface here rather than at construction.
func (p *Parser) Parse() (*Value, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.stream == nil {
		tokens, err := p.lex.Tokenize()
		if err != nil {
			p.err = err
			return nil, err
		}
		p.stream = NewTokenStream(tokens)
	}
	v, err := p.parseValue(0)
	if err != nil {
		p.err = err
		return nil, err
	}
	return v, nil
}

// Err returns the error from the most recent Parse call, if any.
func (p *Parser) Err() error {
	return p.err
}

func (p *Parser) parseValue(depth int) (*Value, error) {
	if depth > p.maxDepth {
		tok := p.stream.Peek()
		return nil, newParseError(ErrDepthExceeded, tok.Pos, "nesting deeper than %d", p.maxDepth)
	}

	tok := p.stream.Peek()
	switch tok.Type {
	case TokenNull:
		p.stream.Advance()
		return Null(), nil
	case TokenTrue:
		p.stream.Advance()
		return Bool(true), nil
	case TokenFalse:
		p.stream.Advance()
		return Bool(false), nil
	case TokenInt:
		p.stream.Advance()
		n, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return nil, newParseError(ErrDecode, tok.Pos, "integer literal %q out of range", tok.Value)
			}
			return nil, newParseError(ErrDecode, tok.Pos, "invalid integer literal %q", tok.Value)
		}
		return Int(n), nil
	case TokenFloat:
		p.stream.Advance()
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			if !errors.Is(err, strconv.ErrRange) {
				return nil, newParseError(ErrDecode, tok.Pos, "invalid float literal %q", tok.Value)
			}
			// Overflow is an error; underflow rounds toward zero.
			if math.IsInf(f, 0) {
				return nil, newParseError(ErrDecode, tok.Pos, "float literal %q out of range", tok.Value)
			}
		}
		return Float(f), nil
	case TokenString:
		p.stream.Advance()
		return Str(tok.Value), nil
	case TokenBytes:
		p.stream.Advance()
		return Bytes([]byte(tok.Value)), nil
	case TokenLBracket:
		return p.parseSequence(depth, TokenRBracket)
	case TokenLParen:
		return p.parseSequence(depth, TokenRParen)
	case TokenLBrace:
		return p.parseDict(depth)
	case TokenTag:
		return p.parseTagged(depth)
	case TokenEOF:
		return nil, newParseError(ErrSyntax, tok.Pos, "unexpected end of input")
	default:
		return nil, newParseError(ErrSyntax, tok.Pos, "unexpected %s", tok)
	}
}

// parseSequence parses a list or tuple body. Both share the same element
// grammar; only the delimiters and the resulting type differ. A trailing
// comma before the closer is allowed, a comma with no element before it is
// not.
func (p *Parser) parseSequence(depth int, closer TokenType) (*Value, error) {
	p.stream.Advance() // opening bracket
	var elems []*Value

	if !p.stream.Match(closer) {
		for {
			elem, err := p.parseValue(depth + 1)
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)

			tok := p.stream.Peek()
			if tok.Type == TokenComma {
				p.stream.Advance()
				if p.stream.Match(closer) {
					break
				}
				continue
			}
			if tok.Type == closer {
				p.stream.Advance()
				break
			}
			return nil, newParseError(ErrSyntax, tok.Pos, "expected ',' or '%s'", closer)
		}
	}

	if closer == TokenRParen {
		return Tuple(elems...), nil
	}
	return List(elems...), nil
}

// parseDict parses a dict body. Keys must be string literals, entries keep
// their written order, and duplicate keys all survive.
func (p *Parser) parseDict(depth int) (*Value, error) {
	p.stream.Advance() // opening brace
	d := Dict()

	if p.stream.Match(TokenRBrace) {
		return d, nil
	}

	for {
		keyTok := p.stream.Peek()
		if keyTok.Type != TokenString {
			return nil, newParseError(ErrSyntax, keyTok.Pos, "dict key must be a string, got %s", keyTok)
		}
		p.stream.Advance()

		if _, err := p.stream.Expect(TokenColon); err != nil {
			return nil, err
		}

		val, err := p.parseValue(depth + 1)
		if err != nil {
			return nil, err
		}
		if err := d.Set(keyTok.Value, val); err != nil {
			return nil, err
		}

		tok := p.stream.Peek()
		if tok.Type == TokenComma {
			p.stream.Advance()
			if p.stream.Match(TokenRBrace) {
				break
			}
			continue
		}
		if tok.Type == TokenRBrace {
			p.stream.Advance()
			break
		}
		return nil, newParseError(ErrSyntax, tok.Pos, "expected ',' or '}'")
	}
	return d, nil
}

// parseTagged parses @N value. The tag digits must fit in 32 bits.
func (p *Parser) parseTagged(depth int) (*Value, error) {
	tok := p.stream.Advance()
	tag, err := strconv.ParseUint(tok.Value, 10, 32)
	if err != nil {
		return nil, newParseError(ErrDecode, tok.Pos, "tag %q out of range", tok.Value)
	}
	inner, err := p.parseValue(depth + 1)
	if err != nil {
		return nil, err
	}
	return Tagged(uint32(tag), inner), nil
}
