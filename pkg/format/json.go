package format

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/toolshed/pkg/codec"
	"github.com/aretw0/toolshed/pkg/domain"
)

// MaxDepth is the deepest nesting the parsers accept.
const MaxDepth = 1000

// MaxIndent is the widest indentation accepted by the formatters.
const MaxIndent = 16

const bom = "\ufeff"

// JSONKind identifies the type of a JSONNode.
type JSONKind int

const (
	JSONNull JSONKind = iota
	JSONBool
	JSONNumber
	JSONString
	JSONArray
	JSONObject
)

// JSONMember is one key/value pair of an object, in source order.
type JSONMember struct {
	Key   string // raw literal including quotes
	Value *JSONNode
}

// JSONNode is a parsed JSON value. Scalars keep their literal text so
// numbers and string escapes are re-emitted exactly as written.
type JSONNode struct {
	Kind    JSONKind
	Raw     string
	Items   []*JSONNode
	Members []JSONMember
}

// Text returns the decoded value of a string node, or Raw for other scalars.
func (n *JSONNode) Text() string {
	if n.Kind != JSONString {
		return n.Raw
	}
	return decodeJSONString(n.Raw)
}

func decodeJSONString(raw string) string {
	// Literals are validated by the parser, so unescaping cannot fail.
	s, _ := codec.UnescapeJSON(raw[1 : len(raw)-1])
	return s
}

// JSONOptions configures FormatJSONWith.
type JSONOptions struct {
	// Indent is the number of spaces per level; 0 produces compact output.
	Indent int
	// Tabs indents with one tab per level instead of spaces (ignored when Indent is 0).
	Tabs bool
	// SortKeys orders object members by their decoded key.
	SortKeys bool
}

// FormatJSON parses text and re-serializes it with indentWidth spaces per level.
// Key order and literal text of numbers and strings are preserved.
func FormatJSON(text string, indentWidth int) (string, error) {
	return FormatJSONWith(text, JSONOptions{Indent: indentWidth})
}

// MinifyJSON returns the compact form of text.
func MinifyJSON(text string) (string, error) {
	return FormatJSONWith(text, JSONOptions{})
}

// ValidateJSON reports the first syntax error in text, or nil.
func ValidateJSON(text string) error {
	_, err := ParseJSON(text)
	return err
}

// FormatJSONWith formats text according to opts.
func FormatJSONWith(text string, opts JSONOptions) (string, error) {
	if err := checkIndent(opts.Indent); err != nil {
		return "", err
	}
	root, err := ParseJSON(text)
	if err != nil {
		return "", err
	}
	if opts.SortKeys {
		sortMembers(root)
	}
	return root.Serialize(opts.Indent, opts.Tabs), nil
}

func checkIndent(indent int) error {
	if indent < 0 || indent > MaxIndent {
		return domain.NewConfigError("indent", "must be between 0 and %d, got %d", MaxIndent, indent)
	}
	return nil
}

// Serialize writes n with width spaces (or tabs) per level. Width 0 is compact.
func (n *JSONNode) Serialize(width int, tabs bool) string {
	unit := ""
	if width > 0 {
		if tabs {
			unit = "\t"
		} else {
			unit = strings.Repeat(" ", width)
		}
	}
	var b strings.Builder
	n.write(&b, unit, 0)
	return b.String()
}

func (n *JSONNode) write(b *strings.Builder, unit string, level int) {
	switch n.Kind {
	case JSONArray:
		if len(n.Items) == 0 {
			b.WriteString("[]")
			return
		}
		b.WriteByte('[')
		for i, item := range n.Items {
			if i > 0 {
				b.WriteByte(',')
			}
			newline(b, unit, level+1)
			item.write(b, unit, level+1)
		}
		newline(b, unit, level)
		b.WriteByte(']')
	case JSONObject:
		if len(n.Members) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteByte('{')
		for i, m := range n.Members {
			if i > 0 {
				b.WriteByte(',')
			}
			newline(b, unit, level+1)
			b.WriteString(m.Key)
			b.WriteByte(':')
			if unit != "" {
				b.WriteByte(' ')
			}
			m.Value.write(b, unit, level+1)
		}
		newline(b, unit, level)
		b.WriteByte('}')
	default:
		b.WriteString(n.Raw)
	}
}

func newline(b *strings.Builder, unit string, level int) {
	if unit == "" {
		return
	}
	b.WriteByte('\n')
	for i := 0; i < level; i++ {
		b.WriteString(unit)
	}
}

func sortMembers(n *JSONNode) {
	for _, item := range n.Items {
		sortMembers(item)
	}
	for _, m := range n.Members {
		sortMembers(m.Value)
	}
	if len(n.Members) > 1 {
		sort.SliceStable(n.Members, func(i, j int) bool {
			return decodeJSONString(n.Members[i].Key) < decodeJSONString(n.Members[j].Key)
		})
	}
}

// ParseJSON parses a single JSON document (RFC 8259). A leading UTF-8 BOM is skipped.
func ParseJSON(text string) (*JSONNode, error) {
	p := &jsonParser{src: text}
	if strings.HasPrefix(text, bom) {
		p.pos = len(bom)
	}
	p.skipSpace()
	root, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, p.fail(p.pos, "end of input", "")
	}
	return root, nil
}

type jsonParser struct {
	src   string
	pos   int
	depth int
}

func (p *jsonParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *jsonParser) value() (*JSONNode, error) {
	if p.pos >= len(p.src) {
		return nil, p.fail(p.pos, "value", "")
	}
	switch c := p.src[p.pos]; {
	case c == '{':
		return p.object()
	case c == '[':
		return p.array()
	case c == '"':
		raw, err := p.str()
		if err != nil {
			return nil, err
		}
		return &JSONNode{Kind: JSONString, Raw: raw}, nil
	case c == '-' || isDigit(c):
		return p.number()
	case c == 't':
		return p.literal("true", JSONBool)
	case c == 'f':
		return p.literal("false", JSONBool)
	case c == 'n':
		return p.literal("null", JSONNull)
	}
	return nil, p.fail(p.pos, "value", "")
}

func (p *jsonParser) enter(at int) error {
	p.depth++
	if p.depth > MaxDepth {
		e := p.fail(at, "", "")
		e.Msg = fmt.Sprintf("nesting deeper than %d levels", MaxDepth)
		return e
	}
	return nil
}

func (p *jsonParser) object() (*JSONNode, error) {
	if err := p.enter(p.pos); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	node := &JSONNode{Kind: JSONObject, Members: []JSONMember{}}
	p.pos++ // '{'
	p.skipSpace()
	if p.peek() == '}' {
		p.pos++
		return node, nil
	}
	for {
		if p.pos >= len(p.src) || p.src[p.pos] != '"' {
			return nil, p.fail(p.pos, "string key", "")
		}
		key, err := p.str()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ':' {
			return nil, p.fail(p.pos, "':'", "")
		}
		p.pos++
		p.skipSpace()
		val, err := p.value()
		if err != nil {
			return nil, err
		}
		node.Members = append(node.Members, JSONMember{Key: key, Value: val})
		p.skipSpace()
		switch p.peek() {
		case ',':
			comma := p.pos
			p.pos++
			p.skipSpace()
			if p.peek() == '}' {
				return nil, p.trailingComma(comma)
			}
		case '}':
			p.pos++
			return node, nil
		default:
			return nil, p.fail(p.pos, "',' or '}'", "")
		}
	}
}

func (p *jsonParser) array() (*JSONNode, error) {
	if err := p.enter(p.pos); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	node := &JSONNode{Kind: JSONArray, Items: []*JSONNode{}}
	p.pos++ // '['
	p.skipSpace()
	if p.peek() == ']' {
		p.pos++
		return node, nil
	}
	for {
		val, err := p.value()
		if err != nil {
			return nil, err
		}
		node.Items = append(node.Items, val)
		p.skipSpace()
		switch p.peek() {
		case ',':
			comma := p.pos
			p.pos++
			p.skipSpace()
			if p.peek() == ']' {
				return nil, p.trailingComma(comma)
			}
		case ']':
			p.pos++
			return node, nil
		default:
			return nil, p.fail(p.pos, "',' or ']'", "")
		}
	}
}

// str scans a string literal starting at the opening quote and returns it verbatim.
func (p *jsonParser) str() (string, error) {
	start := p.pos
	p.pos++
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '"':
			p.pos++
			return p.src[start:p.pos], nil
		case c == '\\':
			if p.pos+1 >= len(p.src) {
				p.pos++
				continue
			}
			switch p.src[p.pos+1] {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				p.pos += 2
			case 'u':
				for i := 2; i < 6; i++ {
					if p.pos+i >= len(p.src) || !isHex(p.src[p.pos+i]) {
						return "", p.fail(p.pos+i, "hex digit", "")
					}
				}
				p.pos += 6
			default:
				e := p.fail(p.pos+1, "escape character", "")
				e.Msg = "invalid escape in string"
				return "", e
			}
		case c < 0x20:
			e := p.fail(p.pos, "", "")
			e.Msg = "control character in string"
			return "", e
		case c < utf8.RuneSelf:
			p.pos++
		default:
			r, size := utf8.DecodeRuneInString(p.src[p.pos:])
			if r == utf8.RuneError && size == 1 {
				e := p.fail(p.pos, "", "")
				e.Msg = "invalid UTF-8 in string"
				return "", e
			}
			p.pos += size
		}
	}
	e := p.fail(len(p.src), "'\"'", "")
	e.Msg = "unterminated string"
	return "", e
}

func (p *jsonParser) number() (*JSONNode, error) {
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	switch {
	case p.peek() == '0':
		p.pos++
	case isDigit(p.peek()):
		p.digits()
	default:
		return nil, p.fail(p.pos, "digit", "")
	}
	if p.peek() == '.' {
		p.pos++
		if !isDigit(p.peek()) {
			return nil, p.fail(p.pos, "digit", "")
		}
		p.digits()
	}
	if c := p.peek(); c == 'e' || c == 'E' {
		p.pos++
		if c := p.peek(); c == '+' || c == '-' {
			p.pos++
		}
		if !isDigit(p.peek()) {
			return nil, p.fail(p.pos, "digit", "")
		}
		p.digits()
	}
	return &JSONNode{Kind: JSONNumber, Raw: p.src[start:p.pos]}, nil
}

func (p *jsonParser) digits() {
	for isDigit(p.peek()) {
		p.pos++
	}
}

func (p *jsonParser) literal(word string, kind JSONKind) (*JSONNode, error) {
	if !strings.HasPrefix(p.src[p.pos:], word) {
		return nil, p.fail(p.pos, "value", "")
	}
	p.pos += len(word)
	return &JSONNode{Kind: kind, Raw: word}, nil
}

// peek returns the current byte or 0 at end of input.
func (p *jsonParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *jsonParser) trailingComma(at int) *domain.ParseError {
	e := p.fail(at, "value", "")
	e.Found = "','"
	e.Msg = "trailing comma"
	return e
}

// fail builds a ParseError at offset. An empty found describes the byte at offset.
func (p *jsonParser) fail(offset int, expected, found string) *domain.ParseError {
	if found == "" && expected != "" {
		found = describeAt(p.src, offset)
	}
	line, col := position(p.src, offset)
	return &domain.ParseError{Offset: offset, Line: line, Column: col, Expected: expected, Found: found}
}

// describeAt renders the character at offset for error messages.
func describeAt(src string, offset int) string {
	if offset >= len(src) {
		return "end of input"
	}
	r, _ := utf8.DecodeRuneInString(src[offset:])
	if r < 0x20 || r == utf8.RuneError {
		return fmt.Sprintf("%q", src[offset:offset+1])
	}
	return "'" + string(r) + "'"
}

// position converts a byte offset into a 1-based line and column.
func position(src string, offset int) (int, int) {
	if offset > len(src) {
		offset = len(src)
	}
	line := 1 + strings.Count(src[:offset], "\n")
	col := offset + 1
	if i := strings.LastIndexByte(src[:offset], '\n'); i >= 0 {
		col = offset - i
	}
	return line, col
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isHex(c byte) bool {
	return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
