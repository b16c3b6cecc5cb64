// Package catalog declares every tool of the toolshed: its descriptor (slug,
// title, parameters) and the adapter between loosely typed arguments and the
// pure functions in codec, format, generate, datetime and text.
package catalog

import (
	"context"
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/toolshed/pkg/domain"
	"github.com/aretw0/toolshed/pkg/registry"
)

// Definition pairs a descriptor with its implementation.
type Definition struct {
	Tool domain.Tool
	Fn   registry.ToolFunction
}

// All returns every tool definition in catalog order.
func All() []Definition {
	var defs []Definition
	defs = append(defs, codecTools()...)
	defs = append(defs, formatTools()...)
	defs = append(defs, generatorTools()...)
	defs = append(defs, dateTimeTools()...)
	defs = append(defs, textTools()...)
	return defs
}

// Register adds every tool to r.
func Register(r *registry.Registry) {
	for _, d := range All() {
		r.Register(d.Tool, d.Fn)
	}
}

// handler adapts a typed function to a registry.ToolFunction, binding args into In.
func handler[In any](fn func(ctx context.Context, in In) (any, error)) registry.ToolFunction {
	return func(ctx context.Context, args map[string]any) (any, error) {
		var in In
		if err := registry.Bind(args, &in); err != nil {
			return nil, err
		}
		return fn(ctx, in)
	}
}

type textInput struct {
	Text string `mapstructure:"text"`
}

// Bytes carries binary output across text boundaries: UTF-8 data verbatim, anything else as hex.
type Bytes struct {
	Encoding string `json:"encoding"` // "utf-8" or "hex"
	Data     string `json:"data"`
	Size     int    `json:"size"`
}

func bytesResult(b []byte) Bytes {
	if utf8.Valid(b) {
		return Bytes{Encoding: "utf-8", Data: string(b), Size: len(b)}
	}
	return Bytes{Encoding: "hex", Data: hex.EncodeToString(b), Size: len(b)}
}

// String implements fmt.Stringer so CLI output prints the data itself.
func (b Bytes) String() string { return b.Data }

// Lines is a list result printed one item per line.
type Lines []string

func (l Lines) String() string { return strings.Join(l, "\n") }

func textParam(desc string) domain.Param {
	return domain.Param{Name: "text", Type: domain.ParamString, Description: desc, Required: true}
}

func indentParam(def int) domain.Param {
	return domain.Param{Name: "indent", Type: domain.ParamInteger, Description: "Spaces per nesting level (0-16).", Default: def}
}
