package domain

// ParamType is the JSON type of a tool parameter.
type ParamType string

const (
	ParamString  ParamType = "string"
	ParamInteger ParamType = "integer"
	ParamBoolean ParamType = "boolean"
)

// Param describes one named argument of a tool.
type Param struct {
	Name        string    `json:"name" yaml:"name"`
	Type        ParamType `json:"type" yaml:"type"`
	Description string    `json:"description" yaml:"description"`
	Required    bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Default     any       `json:"default,omitempty" yaml:"default,omitempty"`
	Enum        []string  `json:"enum,omitempty" yaml:"enum,omitempty"`
}

// Tool defines metadata about a tool in the catalog.
// It drives the HTTP pages, the OpenAPI document and the MCP tool schemas.
type Tool struct {
	Name        string   `json:"name" yaml:"name"`
	Slug        string   `json:"slug" yaml:"slug"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Category    Category `json:"category" yaml:"category"`
	Keywords    []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Params      []Param  `json:"params,omitempty" yaml:"params,omitempty"`
}

// Category groups related tools on the index page.
type Category string

const (
	CategoryCodec     Category = "codec"
	CategoryFormat    Category = "format"
	CategoryGenerator Category = "generator"
	CategoryDateTime  Category = "datetime"
	CategoryText      Category = "text"
)

// Categories lists categories in display order.
func Categories() []Category {
	return []Category{CategoryCodec, CategoryFormat, CategoryGenerator, CategoryDateTime, CategoryText}
}

// Label returns the human readable category name.
func (c Category) Label() string {
	switch c {
	case CategoryCodec:
		return "Encoders & Decoders"
	case CategoryFormat:
		return "Formatters"
	case CategoryGenerator:
		return "Generators"
	case CategoryDateTime:
		return "Date & Time"
	case CategoryText:
		return "Text"
	}
	return string(c)
}
