package crous

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// ============================================================
// YAML Bridge
// ============================================================

// FromYAML converts a YAML document into a value tree. The conversion works
// on the yaml.Node level, so mapping order and duplicate keys survive.
// Local numeric tags map to tagged values: "!7 42" becomes tag 7 wrapping
// int 42. The !!binary tag yields bytes, aliases resolve to their anchor,
// and nesting is bounded by DefaultMaxDepth.
func FromYAML(data []byte) (*Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("crous: parse YAML: %w", err)
	}
	if root.Kind == 0 {
		return Null(), nil
	}
	return fromYAMLNode(&root, 0)
}

func fromYAMLNode(n *yaml.Node, depth int) (*Value, error) {
	if depth > DefaultMaxDepth {
		return nil, fmt.Errorf("%w: YAML nesting deeper than %d", ErrDepthExceeded, DefaultMaxDepth)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return fromYAMLNode(n.Content[0], depth)
	case yaml.AliasNode:
		if n.Alias == nil {
			return Null(), nil
		}
		// Aliases count against the depth limit so alias chains and
		// deeply shared structure cannot recurse without bound.
		return fromYAMLNode(n.Alias, depth+1)
	}

	if id, ok, err := yamlLocalTag(n.Tag); err != nil {
		return nil, err
	} else if ok {
		inner, err := fromYAMLUntagged(n, depth+1)
		if err != nil {
			return nil, err
		}
		return Tagged(id, inner), nil
	}
	return fromYAMLUntagged(n, depth)
}

func fromYAMLUntagged(n *yaml.Node, depth int) (*Value, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if strings.HasPrefix(n.Tag, "!!") {
			return fromYAMLScalar(n)
		}
		// A scalar under a local tag carries no resolved type, so the
		// plain core-schema rules apply to its text.
		return resolveYAMLScalar(n.Value, n.Style), nil
	case yaml.SequenceNode:
		elems := make([]*Value, 0, len(n.Content))
		for i, child := range n.Content {
			cv, err := fromYAMLNode(child, depth+1)
			if err != nil {
				return nil, fmt.Errorf("sequence[%d]: %w", i, err)
			}
			elems = append(elems, cv)
		}
		return List(elems...), nil
	case yaml.MappingNode:
		entries := make([]DictEntry, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode := n.Content[i]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("%w: YAML mapping key is not a scalar", ErrInvalidType)
			}
			val, err := fromYAMLNode(n.Content[i+1], depth+1)
			if err != nil {
				return nil, fmt.Errorf("mapping[%q]: %w", keyNode.Value, err)
			}
			entries = append(entries, DictEntry{Key: keyNode.Value, Value: val})
		}
		return Dict(entries...), nil
	default:
		return nil, fmt.Errorf("%w: unsupported YAML node kind %d", ErrInvalidType, n.Kind)
	}
}

func fromYAMLScalar(n *yaml.Node) (*Value, error) {
	switch n.Tag {
	case "!!null":
		return Null(), nil
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: YAML bool %q", ErrDecode, n.Value)
		}
		return Bool(b), nil
	case "!!int":
		if v, err := strconv.ParseInt(n.Value, 10, 64); err == nil {
			return Int(v), nil
		}
		v, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: YAML integer %q", ErrDecode, n.Value)
		}
		return Int(v), nil
	case "!!float":
		f, err := parseYAMLFloat(n.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: YAML float %q", ErrDecode, n.Value)
		}
		return Float(f), nil
	case "!!binary":
		data, err := base64.StdEncoding.DecodeString(stripYAMLSpace(n.Value))
		if err != nil {
			return nil, fmt.Errorf("%w: YAML binary is not valid base64", ErrDecode)
		}
		return Bytes(data), nil
	default:
		return Str(n.Value), nil
	}
}

// resolveYAMLScalar applies the plain-scalar resolution rules of the YAML
// core schema to raw text. Quoted and block scalars are always strings.
func resolveYAMLScalar(s string, style yaml.Style) *Value {
	quoted := yaml.SingleQuotedStyle | yaml.DoubleQuotedStyle | yaml.LiteralStyle | yaml.FoldedStyle
	if style&quoted != 0 {
		return Str(s)
	}
	switch s {
	case "", "~", "null", "Null", "NULL":
		return Null()
	case "true", "True", "TRUE":
		return Bool(true)
	case "false", "False", "FALSE":
		return Bool(false)
	case ".inf", "+.inf", ".Inf", "+.Inf", ".INF", "+.INF":
		return Float(math.Inf(1))
	case "-.inf", "-.Inf", "-.INF":
		return Float(math.Inf(-1))
	case ".nan", ".NaN", ".NAN":
		return Float(math.NaN())
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(v)
	}
	if v, err := strconv.ParseInt(s, 0, 64); err == nil {
		return Int(v)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Float(f)
	}
	return Str(s)
}

func parseYAMLFloat(s string) (float64, error) {
	switch s {
	case ".inf", "+.inf", ".Inf", "+.Inf", ".INF", "+.INF":
		return math.Inf(1), nil
	case "-.inf", "-.Inf", "-.INF":
		return math.Inf(-1), nil
	case ".nan", ".NaN", ".NAN":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// yamlLocalTag recognizes local tags of the form !N where N is a tag
// number. Anything else, including standard !!x tags, reports ok false.
func yamlLocalTag(tag string) (uint32, bool, error) {
	if len(tag) < 2 || tag[0] != '!' || tag[1] == '!' {
		return 0, false, nil
	}
	body := tag[1:]
	for i := 0; i < len(body); i++ {
		if !isDigit(body[i]) {
			return 0, false, nil
		}
	}
	id, err := strconv.ParseUint(body, 10, 32)
	if err != nil {
		return 0, false, fmt.Errorf("%w: YAML tag %q out of range", ErrDecode, tag)
	}
	return uint32(id), true, nil
}

func stripYAMLSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// ToYAML converts a value tree into YAML. Dict entries keep their order,
// duplicates included. Tagged values emit a local !N tag on their payload,
// bytes emit as !!binary, and tuples flatten to plain sequences. A node
// carries a single tag, so bytes under a tagged value lose !!binary and
// read back as their base64 text.
func ToYAML(v *Value) ([]byte, error) {
	node, err := yamlNode(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("crous: encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("crous: encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

func yamlNode(v *Value) (*yaml.Node, error) {
	if v == nil {
		return yamlScalar("!!null", "null"), nil
	}
	switch v.typ {
	case TypeNull:
		return yamlScalar("!!null", "null"), nil
	case TypeBool:
		return yamlScalar("!!bool", strconv.FormatBool(v.boolVal)), nil
	case TypeInt:
		return yamlScalar("!!int", strconv.FormatInt(v.intVal, 10)), nil
	case TypeFloat:
		return yamlScalar("!!float", yamlFloatString(v.floatVal)), nil
	case TypeString:
		return yamlScalar("!!str", v.strVal), nil
	case TypeBytes:
		return yamlScalar("!!binary", base64.StdEncoding.EncodeToString(v.bytesVal)), nil
	case TypeList, TypeTuple:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, elem := range v.listVal {
			child, err := yamlNode(elem)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case TypeDict:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, ent := range v.dictVal {
			child, err := yamlNode(ent.Value)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, yamlScalar("!!str", ent.Key), child)
		}
		return node, nil
	case TypeTagged:
		inner, err := yamlNode(v.innerVal)
		if err != nil {
			return nil, err
		}
		inner.Tag = fmt.Sprintf("!%d", v.tagVal)
		// The local tag displaces !!str, so string payloads keep their
		// identity through quoting instead.
		if v.innerVal.Type() == TypeString {
			inner.Style = yaml.DoubleQuotedStyle
		}
		return inner, nil
	default:
		return nil, fmt.Errorf("%w: unknown value type %d", ErrInvalidType, v.typ)
	}
}

func yamlScalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func yamlFloatString(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
