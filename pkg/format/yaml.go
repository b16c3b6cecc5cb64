package format

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/toolshed/pkg/codec"
	"github.com/aretw0/toolshed/pkg/domain"
)

// maxYAMLNodes bounds alias expansion during YAMLToJSON.
const maxYAMLNodes = 1_000_000

// JSONToYAML converts a JSON document to YAML, keeping key order and number literals.
// indentWidth below 2 means 2.
func JSONToYAML(text string, indentWidth int) (string, error) {
	if err := checkIndent(indentWidth); err != nil {
		return "", err
	}
	if indentWidth < 2 {
		indentWidth = 2
	}
	root, err := ParseJSON(text)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indentWidth)
	if err := enc.Encode(toYAMLNode(root)); err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}
	return buf.String(), nil
}

func toYAMLNode(n *JSONNode) *yaml.Node {
	switch n.Kind {
	case JSONObject:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, m := range n.Members {
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: decodeJSONString(m.Key)}
			out.Content = append(out.Content, key, toYAMLNode(m.Value))
		}
		if len(n.Members) == 0 {
			out.Style = yaml.FlowStyle
		}
		return out
	case JSONArray:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range n.Items {
			out.Content = append(out.Content, toYAMLNode(item))
		}
		if len(n.Items) == 0 {
			out.Style = yaml.FlowStyle
		}
		return out
	case JSONString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n.Text()}
	case JSONNumber:
		tag := "!!int"
		if strings.ContainsAny(n.Raw, ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: n.Raw}
	case JSONBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: n.Raw}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

// YAMLToJSON converts a single YAML document to JSON formatted with indentWidth.
// Aliases are expanded, merge keys applied, and keys must be scalars.
func YAMLToJSON(text string, indentWidth int) (string, error) {
	if err := checkIndent(indentWidth); err != nil {
		return "", err
	}

	dec := yaml.NewDecoder(strings.NewReader(text))
	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return "", &domain.ParseError{Offset: -1, Expected: "YAML document", Found: "end of input"}
		}
		return "", yamlError(err)
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); err == nil {
		return "", &domain.ParseError{Offset: -1, Line: extra.Line, Column: extra.Column, Msg: "multiple documents are not supported"}
	} else if !errors.Is(err, io.EOF) {
		return "", yamlError(err)
	}

	c := &yamlConverter{}
	root, err := c.convert(&doc, 0)
	if err != nil {
		return "", err
	}
	return root.Serialize(indentWidth, false), nil
}

func yamlError(err error) error {
	msg := strings.TrimPrefix(err.Error(), "yaml: ")
	pe := &domain.ParseError{Offset: -1, Msg: msg}
	if m := yamlLine.FindStringSubmatch(msg); m != nil {
		pe.Line, _ = strconv.Atoi(m[1])
		pe.Column = 1
	}
	return pe
}

type yamlConverter struct {
	nodes int
}

func (c *yamlConverter) fail(n *yaml.Node, msg string) error {
	return &domain.ParseError{Offset: -1, Line: n.Line, Column: n.Column, Msg: msg}
}

func (c *yamlConverter) convert(n *yaml.Node, depth int) (*JSONNode, error) {
	c.nodes++
	if c.nodes > maxYAMLNodes {
		return nil, c.fail(n, "document expands to too many nodes")
	}
	if depth > MaxDepth {
		return nil, c.fail(n, fmt.Sprintf("nesting deeper than %d levels", MaxDepth))
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return &JSONNode{Kind: JSONNull, Raw: "null"}, nil
		}
		return c.convert(n.Content[0], depth)
	case yaml.AliasNode:
		return c.convert(n.Alias, depth+1)
	case yaml.SequenceNode:
		out := &JSONNode{Kind: JSONArray, Items: []*JSONNode{}}
		for _, item := range n.Content {
			v, err := c.convert(item, depth+1)
			if err != nil {
				return nil, err
			}
			out.Items = append(out.Items, v)
		}
		return out, nil
	case yaml.MappingNode:
		out := &JSONNode{Kind: JSONObject, Members: []JSONMember{}}
		if err := c.mapping(out, n, depth); err != nil {
			return nil, err
		}
		return out, nil
	case yaml.ScalarNode:
		return c.scalar(n)
	}
	return nil, c.fail(n, "unsupported YAML node")
}

// mapping copies the pairs of n into out. Merge keys ("<<") contribute only
// keys not already set explicitly.
func (c *yamlConverter) mapping(out *JSONNode, n *yaml.Node, depth int) error {
	var merges []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind == yaml.ScalarNode && k.ShortTag() == "!!merge" {
			merges = append(merges, v)
			continue
		}
		if k.Kind != yaml.ScalarNode {
			return c.fail(k, "mapping keys must be scalars to convert to JSON")
		}
		val, err := c.convert(v, depth+1)
		if err != nil {
			return err
		}
		setMember(out, k.Value, val, true)
	}

	for _, m := range merges {
		if m.Kind == yaml.AliasNode {
			m = m.Alias
		}
		sources := []*yaml.Node{m}
		if m.Kind == yaml.SequenceNode {
			sources = m.Content
		}
		for _, src := range sources {
			if src.Kind == yaml.AliasNode {
				src = src.Alias
			}
			if src.Kind != yaml.MappingNode {
				return c.fail(src, "merge value must be a mapping")
			}
			merged := &JSONNode{Kind: JSONObject}
			if err := c.mapping(merged, src, depth+1); err != nil {
				return err
			}
			for _, mm := range merged.Members {
				setMember(out, decodeJSONString(mm.Key), mm.Value, false)
			}
		}
	}
	return nil
}

func setMember(obj *JSONNode, key string, val *JSONNode, overwrite bool) {
	raw := `"` + codec.EscapeJSON(key) + `"`
	for i := range obj.Members {
		if obj.Members[i].Key == raw {
			if overwrite {
				obj.Members[i].Value = val
			}
			return
		}
	}
	obj.Members = append(obj.Members, JSONMember{Key: raw, Value: val})
}

func (c *yamlConverter) scalar(n *yaml.Node) (*JSONNode, error) {
	switch n.ShortTag() {
	case "!!null":
		return &JSONNode{Kind: JSONNull, Raw: "null"}, nil
	case "!!bool":
		if b, err := strconv.ParseBool(strings.ToLower(n.Value)); err == nil {
			return &JSONNode{Kind: JSONBool, Raw: strconv.FormatBool(b)}, nil
		}
	case "!!int":
		if lit, ok := yamlInt(n.Value); ok {
			return &JSONNode{Kind: JSONNumber, Raw: lit}, nil
		}
	case "!!float":
		lit, err := yamlFloat(n.Value)
		if err != nil {
			return nil, c.fail(n, err.Error())
		}
		return &JSONNode{Kind: JSONNumber, Raw: lit}, nil
	}
	return &JSONNode{Kind: JSONString, Raw: `"` + codec.EscapeJSON(n.Value) + `"`}, nil
}

// yamlInt renders a YAML integer (decimal, 0x, 0o, 0b, underscores) as a JSON integer literal.
func yamlInt(v string) (string, bool) {
	s := strings.ReplaceAll(v, "_", "")
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimLeft(s, "+-")
	base := 10
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		base, s = 16, s[2:]
	case strings.HasPrefix(s, "0o"), strings.HasPrefix(s, "0O"):
		base, s = 8, s[2:]
	case strings.HasPrefix(s, "0b"), strings.HasPrefix(s, "0B"):
		base, s = 2, s[2:]
	}
	i, ok := new(big.Int).SetString(s, base)
	if !ok {
		return "", false
	}
	if neg {
		i.Neg(i)
	}
	return i.String(), true
}

// yamlFloat keeps literals that are already valid JSON numbers and normalizes the rest.
func yamlFloat(v string) (string, error) {
	if ValidateJSON(v) == nil && (v[0] == '-' || isDigit(v[0])) {
		return v, nil
	}
	switch strings.ToLower(strings.TrimLeft(v, "+-")) {
	case ".inf", ".nan":
		return "", fmt.Errorf("%s has no JSON representation", v)
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, "_", ""), 64)
	if err != nil {
		return "", fmt.Errorf("invalid float %q", v)
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}
