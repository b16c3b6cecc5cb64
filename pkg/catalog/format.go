package catalog

import (
	"context"
	"errors"

	"github.com/aretw0/toolshed/pkg/domain"
	"github.com/aretw0/toolshed/pkg/format"
)

type jsonFormatInput struct {
	Text     string `mapstructure:"text"`
	Indent   int    `mapstructure:"indent"`
	SortKeys bool   `mapstructure:"sort_keys"`
	Tabs     bool   `mapstructure:"tabs"`
}

type indentedInput struct {
	Text   string `mapstructure:"text"`
	Indent int    `mapstructure:"indent"`
}

// Validation is the json-validate result. Invalid input is a result, not an error.
type Validation struct {
	Valid  bool   `json:"valid"`
	Error  string `json:"error,omitempty"`
	Offset int    `json:"offset,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

func (v Validation) String() string {
	if v.Valid {
		return "valid"
	}
	return "invalid: " + v.Error
}

func formatTools() []Definition {
	return []Definition{
		{
			Tool: domain.Tool{
				Name: "json-format", Slug: "json-formatter", Title: "JSON Formatter",
				Description: "Pretty-print or minify JSON. Numbers and string escapes are kept exactly as written.",
				Category:    domain.CategoryFormat,
				Keywords:    []string{"json", "beautify", "minify", "pretty print"},
				Params: []domain.Param{
					textParam("JSON document."),
					indentParam(2),
					{Name: "sort_keys", Type: domain.ParamBoolean, Default: false, Description: "Order object members by key."},
					{Name: "tabs", Type: domain.ParamBoolean, Default: false, Description: "Indent with tabs."},
				},
			},
			Fn: handler(func(_ context.Context, in jsonFormatInput) (any, error) {
				return format.FormatJSONWith(in.Text, format.JSONOptions{Indent: in.Indent, Tabs: in.Tabs, SortKeys: in.SortKeys})
			}),
		},
		{
			Tool: domain.Tool{
				Name: "json-validate", Slug: "json-validator", Title: "JSON Validator",
				Description: "Check a JSON document and locate the first syntax error.",
				Category:    domain.CategoryFormat,
				Keywords:    []string{"json", "validate", "lint"},
				Params:      []domain.Param{textParam("JSON document.")},
			},
			Fn: handler(func(_ context.Context, in textInput) (any, error) {
				return validate(in.Text), nil
			}),
		},
		{
			Tool: domain.Tool{
				Name: "xml-format", Slug: "xml-formatter", Title: "XML Formatter",
				Description: "Pretty-print or compact a well-formed XML document.",
				Category:    domain.CategoryFormat,
				Keywords:    []string{"xml", "beautify", "pretty print"},
				Params:      []domain.Param{textParam("XML document."), indentParam(2)},
			},
			Fn: handler(func(_ context.Context, in indentedInput) (any, error) {
				return format.FormatXML(in.Text, in.Indent)
			}),
		},
		{
			Tool: domain.Tool{
				Name: "json-to-yaml", Slug: "json-to-yaml", Title: "JSON to YAML",
				Description: "Convert a JSON document to YAML.",
				Category:    domain.CategoryFormat,
				Keywords:    []string{"json", "yaml", "convert"},
				Params:      []domain.Param{textParam("JSON document."), indentParam(2)},
			},
			Fn: handler(func(_ context.Context, in indentedInput) (any, error) {
				return format.JSONToYAML(in.Text, in.Indent)
			}),
		},
		{
			Tool: domain.Tool{
				Name: "yaml-to-json", Slug: "yaml-to-json", Title: "YAML to JSON",
				Description: "Convert a single YAML document to JSON, expanding anchors and merge keys.",
				Category:    domain.CategoryFormat,
				Keywords:    []string{"yaml", "json", "convert"},
				Params:      []domain.Param{textParam("YAML document."), indentParam(2)},
			},
			Fn: handler(func(_ context.Context, in indentedInput) (any, error) {
				return format.YAMLToJSON(in.Text, in.Indent)
			}),
		},
	}
}

func validate(text string) Validation {
	err := format.ValidateJSON(text)
	if err == nil {
		return Validation{Valid: true}
	}
	v := Validation{Error: err.Error()}
	var pe *domain.ParseError
	if errors.As(err, &pe) {
		v.Offset, v.Line, v.Column = pe.Offset, pe.Line, pe.Column
	}
	return v
}
