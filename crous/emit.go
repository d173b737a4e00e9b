package crous

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ============================================================
// Emit Options
// ============================================================

// EmitOptions configures text output.
type EmitOptions struct {
	// Indent switches on multi-line output using the given string per
	// nesting level. Empty produces compact single-line output.
	Indent string
}

// DefaultEmitOptions returns compact single-line output.
func DefaultEmitOptions() EmitOptions {
	return EmitOptions{}
}

// ============================================================
// Emitter
// ============================================================

// Emit renders a value as compact CROUS text. The output parses back to an
// equal tree: dict entries keep their order, duplicates included, tuples
// stay tuples, and floats are written with enough digits to restore their
// exact bit pattern.
func Emit(v *Value) string {
	return EmitWithOptions(v, DefaultEmitOptions())
}

// EmitIndent renders a value as multi-line CROUS text indented with the
// given string.
func EmitIndent(v *Value, indent string) string {
	return EmitWithOptions(v, EmitOptions{Indent: indent})
}

// EmitWithOptions renders a value with explicit options.
func EmitWithOptions(v *Value, opts EmitOptions) string {
	e := &emitter{opts: opts}
	e.emit(v, 0)
	return e.sb.String()
}

type emitter struct {
	sb   strings.Builder
	opts EmitOptions
}

func (e *emitter) emit(v *Value, depth int) {
	if v == nil {
		e.sb.WriteString("null")
		return
	}
	switch v.typ {
	case TypeNull:
		e.sb.WriteString("null")
	case TypeBool:
		if v.boolVal {
			e.sb.WriteString("true")
		} else {
			e.sb.WriteString("false")
		}
	case TypeInt:
		e.sb.WriteString(strconv.FormatInt(v.intVal, 10))
	case TypeFloat:
		e.emitFloat(v.floatVal)
	case TypeString:
		e.emitString(v.strVal)
	case TypeBytes:
		e.sb.WriteString(`b"`)
		e.sb.WriteString(base64.StdEncoding.EncodeToString(v.bytesVal))
		e.sb.WriteByte('"')
	case TypeList:
		e.emitSequence(v, depth, '[', ']')
	case TypeTuple:
		e.emitSequence(v, depth, '(', ')')
	case TypeDict:
		e.emitDict(v, depth)
	case TypeTagged:
		e.sb.WriteByte('@')
		e.sb.WriteString(strconv.FormatUint(uint64(v.tagVal), 10))
		e.sb.WriteByte(' ')
		e.emit(v.innerVal, depth)
	}
}

// emitFloat writes the shortest decimal form that parses back to the same
// float. Whole floats get a ".0" suffix so they stay floats on re-parse.
func (e *emitter) emitFloat(f float64) {
	switch {
	case math.IsNaN(f):
		e.sb.WriteString("nan")
	case math.IsInf(f, 1):
		e.sb.WriteString("inf")
	case math.IsInf(f, -1):
		e.sb.WriteString("-inf")
	default:
		s := strconv.FormatFloat(f, 'g', -1, 64)
		e.sb.WriteString(s)
		if !strings.ContainsAny(s, ".e") {
			e.sb.WriteString(".0")
		}
	}
}

func (e *emitter) emitString(s string) {
	e.sb.WriteByte('"')
	e.sb.WriteString(escapeString(s))
	e.sb.WriteByte('"')
}

func (e *emitter) emitSequence(v *Value, depth int, open, closer byte) {
	e.sb.WriteByte(open)
	pretty := e.opts.Indent != "" && len(v.listVal) > 0
	for i, elem := range v.listVal {
		if i > 0 {
			e.sb.WriteByte(',')
			if !pretty {
				e.sb.WriteByte(' ')
			}
		}
		if pretty {
			e.sb.WriteByte('\n')
			e.writeIndent(depth + 1)
		}
		e.emit(elem, depth+1)
	}
	if pretty {
		e.sb.WriteByte('\n')
		e.writeIndent(depth)
	}
	e.sb.WriteByte(closer)
}

func (e *emitter) emitDict(v *Value, depth int) {
	e.sb.WriteByte('{')
	pretty := e.opts.Indent != "" && len(v.dictVal) > 0
	for i, ent := range v.dictVal {
		if i > 0 {
			e.sb.WriteByte(',')
			if !pretty {
				e.sb.WriteByte(' ')
			}
		}
		if pretty {
			e.sb.WriteByte('\n')
			e.writeIndent(depth + 1)
		}
		e.emitString(ent.Key)
		e.sb.WriteString(": ")
		e.emit(ent.Value, depth+1)
	}
	if pretty {
		e.sb.WriteByte('\n')
		e.writeIndent(depth)
	}
	e.sb.WriteByte('}')
}

func (e *emitter) writeIndent(depth int) {
	for i := 0; i < depth; i++ {
		e.sb.WriteString(e.opts.Indent)
	}
}

// escapeString escapes a string for inclusion in quoted CROUS text. Control
// bytes below 0x20 without a short form use \u escapes; everything else
// passes through as UTF-8.
func escapeString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			sb.WriteString(`\"`)
		case c == '\\':
			sb.WriteString(`\\`)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c == '\b':
			sb.WriteString(`\b`)
		case c == '\f':
			sb.WriteString(`\f`)
		case c < 0x20:
			sb.WriteString(fmt.Sprintf(`\u%04x`, c))
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
