package format

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/toolshed/pkg/codec"
	"github.com/aretw0/toolshed/pkg/domain"
)

// XMLNodeKind identifies the type of an XMLNode.
type XMLNodeKind int

const (
	XMLElement XMLNodeKind = iota
	XMLText
	XMLCData
	XMLComment
	XMLProcInst
	XMLDirective
)

// XMLAttr is an attribute in source order. Name keeps its prefix ("xmlns:x").
type XMLAttr struct {
	Name  string
	Value string
}

// XMLNode is one node of a parsed XML document.
type XMLNode struct {
	Kind     XMLNodeKind
	Name     string // element name or processing-instruction target
	Attrs    []XMLAttr
	Children []*XMLNode
	Data     string // text, CDATA, comment, directive or instruction body
}

// XMLDocument holds the prolog, the root element and trailing misc nodes in order.
type XMLDocument struct {
	Nodes []*XMLNode
}

// Root returns the document element.
func (d *XMLDocument) Root() *XMLNode {
	for _, n := range d.Nodes {
		if n.Kind == XMLElement {
			return n
		}
	}
	return nil
}

// FormatXML parses well-formed XML and re-serializes it one element per line.
// Whitespace-only text is dropped and other text is trimmed; CDATA is kept verbatim.
func FormatXML(text string, indentWidth int) (string, error) {
	if err := checkIndent(indentWidth); err != nil {
		return "", err
	}
	doc, err := ParseXML(text)
	if err != nil {
		return "", err
	}
	return doc.Serialize(indentWidth), nil
}

// ParseXML builds an XMLDocument, failing on unclosed or mismatched tags.
func ParseXML(text string) (*XMLDocument, error) {
	src := strings.TrimPrefix(text, bom)
	shift := len(text) - len(src)

	dec := xml.NewDecoder(strings.NewReader(src))
	// Strict mode rejects entities beyond the predefined five.
	dec.Strict = true
	// text is already decoded, so the declared encoding only describes its origin.
	dec.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) { return r, nil }

	doc := &XMLDocument{}
	var stack []*XMLNode
	fail := func(offset int, expected, found, msg string) error {
		line, col := position(text, offset+shift)
		return &domain.ParseError{Offset: offset + shift, Line: line, Column: col, Expected: expected, Found: found, Msg: msg}
	}
	appendNode := func(n *XMLNode) {
		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, n)
			return
		}
		doc.Nodes = append(doc.Nodes, n)
	}

	for {
		start := int(dec.InputOffset())
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			var syn *xml.SyntaxError
			if errors.As(err, &syn) {
				off := int(dec.InputOffset())
				line, col := position(text, off+shift)
				if syn.Line > 0 {
					line = syn.Line
				}
				return nil, &domain.ParseError{Offset: off + shift, Line: line, Column: col, Msg: syn.Msg}
			}
			return nil, fail(start, "", "", err.Error())
		}
		end := int(dec.InputOffset())

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 && doc.Root() != nil {
				return nil, fail(start, "end of input", "<"+qualified(t.Name)+">", "multiple root elements")
			}
			n := &XMLNode{Kind: XMLElement, Name: qualified(t.Name)}
			for _, a := range t.Attr {
				n.Attrs = append(n.Attrs, XMLAttr{Name: qualified(a.Name), Value: a.Value})
			}
			appendNode(n)
			stack = append(stack, n)
			if len(stack) > MaxDepth {
				return nil, fail(start, "", "", fmt.Sprintf("nesting deeper than %d levels", MaxDepth))
			}
		case xml.EndElement:
			name := qualified(t.Name)
			if len(stack) == 0 {
				return nil, fail(start, "end of input", "</"+name+">", "unexpected end tag")
			}
			open := stack[len(stack)-1]
			if open.Name != name {
				return nil, fail(start, "</"+open.Name+">", "</"+name+">", "mismatched end tag")
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			raw := src[start:end]
			if strings.HasPrefix(raw, "<![CDATA[") {
				if len(stack) == 0 {
					return nil, fail(start, "element", "CDATA", "CDATA outside the root element")
				}
				appendNode(&XMLNode{Kind: XMLCData, Data: string(t)})
				continue
			}
			s := strings.TrimSpace(string(t))
			if s == "" {
				continue
			}
			if len(stack) == 0 {
				return nil, fail(start+leadingSpace(raw), "element", "text", "text outside the root element")
			}
			appendNode(&XMLNode{Kind: XMLText, Data: s})
		case xml.Comment:
			appendNode(&XMLNode{Kind: XMLComment, Data: string(t)})
		case xml.ProcInst:
			appendNode(&XMLNode{Kind: XMLProcInst, Name: t.Target, Data: string(t.Inst)})
		case xml.Directive:
			appendNode(&XMLNode{Kind: XMLDirective, Data: string(t)})
		}
	}

	if len(stack) > 0 {
		open := stack[len(stack)-1]
		return nil, fail(len(src), "</"+open.Name+">", "end of input", fmt.Sprintf("unclosed element <%s>", open.Name))
	}
	if doc.Root() == nil {
		return nil, fail(len(src), "root element", "end of input", "")
	}
	return doc, nil
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func leadingSpace(s string) int {
	return len(s) - len(strings.TrimLeft(s, " \t\r\n"))
}

// Serialize renders the document with width spaces per nesting level.
func (d *XMLDocument) Serialize(width int) string {
	unit := strings.Repeat(" ", width)
	var b bytes.Buffer
	for i, n := range d.Nodes {
		if i > 0 {
			b.WriteByte('\n')
		}
		n.write(&b, unit, 0)
	}
	return b.String()
}

func (n *XMLNode) write(b *bytes.Buffer, unit string, level int) {
	indent(b, unit, level)
	switch n.Kind {
	case XMLText:
		b.WriteString(escapeXMLText(n.Data))
	case XMLCData:
		writeCData(b, n.Data)
	case XMLComment:
		b.WriteString("<!--")
		b.WriteString(n.Data)
		b.WriteString("-->")
	case XMLProcInst:
		b.WriteString("<?")
		b.WriteString(n.Name)
		if n.Data != "" {
			b.WriteByte(' ')
			b.WriteString(n.Data)
		}
		b.WriteString("?>")
	case XMLDirective:
		b.WriteString("<!")
		b.WriteString(n.Data)
		b.WriteByte('>')
	case XMLElement:
		b.WriteByte('<')
		b.WriteString(n.Name)
		for _, a := range n.Attrs {
			b.WriteByte(' ')
			b.WriteString(a.Name)
			b.WriteString(`="`)
			b.WriteString(escapeXMLAttr(a.Value))
			b.WriteByte('"')
		}
		if len(n.Children) == 0 {
			b.WriteString("/>")
			return
		}
		b.WriteByte('>')
		if inline(n) {
			c := n.Children[0]
			if c.Kind == XMLText {
				b.WriteString(escapeXMLText(c.Data))
			} else {
				writeCData(b, c.Data)
			}
		} else {
			for _, c := range n.Children {
				b.WriteByte('\n')
				c.write(b, unit, level+1)
			}
			b.WriteByte('\n')
			indent(b, unit, level)
		}
		b.WriteString("</")
		b.WriteString(n.Name)
		b.WriteByte('>')
	}
}

// inline reports whether an element's only child is text or CDATA.
func inline(n *XMLNode) bool {
	return len(n.Children) == 1 && (n.Children[0].Kind == XMLText || n.Children[0].Kind == XMLCData)
}

func writeCData(b *bytes.Buffer, data string) {
	b.WriteString("<![CDATA[")
	// "]]>" cannot appear inside a section; split it across two.
	b.WriteString(strings.ReplaceAll(data, "]]>", "]]]]><![CDATA[>"))
	b.WriteString("]]>")
}

// A raw CR is read back as LF, so it is written as a character reference.
var xmlTextEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\r", "&#13;")

func escapeXMLText(s string) string {
	return xmlTextEscaper.Replace(s)
}

// Parsers normalize raw whitespace in attribute values to spaces.
var xmlAttrWhitespace = strings.NewReplacer("\n", "&#10;", "\t", "&#9;", "\r", "&#13;")

func escapeXMLAttr(s string) string {
	return xmlAttrWhitespace.Replace(codec.EscapeXML(s))
}

func indent(b *bytes.Buffer, unit string, level int) {
	for i := 0; i < level; i++ {
		b.WriteString(unit)
	}
}
