package catalog

import (
	"context"

	"github.com/aretw0/toolshed/pkg/domain"
	"github.com/aretw0/toolshed/pkg/text"
)

type caseInput struct {
	Text string `mapstructure:"text"`
	Case string `mapstructure:"case"`
}

type slugInput struct {
	Text      string `mapstructure:"text"`
	Separator string `mapstructure:"separator"`
	MaxLength int    `mapstructure:"max_length"`
}

type markdownInput struct {
	Text       string `mapstructure:"text"`
	HardWraps  bool   `mapstructure:"hard_wraps"`
	HeadingIDs bool   `mapstructure:"heading_ids"`
}

func caseNames() []string {
	var out []string
	for _, c := range text.Cases() {
		out = append(out, string(c))
	}
	return out
}

func textTools() []Definition {
	return []Definition{
		{
			Tool: domain.Tool{
				Name: "text-case", Slug: "case-converter", Title: "Case Converter",
				Description: "Convert text to upper, lower, title, sentence, camel, pascal, snake, kebab or constant case.",
				Category:    domain.CategoryText,
				Keywords:    []string{"case", "camelCase", "snake_case", "kebab-case", "uppercase"},
				Params: []domain.Param{
					textParam("Text to convert."),
					{Name: "case", Type: domain.ParamString, Required: true, Description: "Target case.", Enum: caseNames()},
				},
			},
			Fn: handler(func(_ context.Context, in caseInput) (any, error) {
				return text.ConvertCase(in.Text, text.Case(in.Case))
			}),
		},
		{
			Tool: domain.Tool{
				Name: "text-stats", Slug: "word-counter", Title: "Word Counter",
				Description: "Count characters, words, lines, sentences and paragraphs and estimate reading time.",
				Category:    domain.CategoryText,
				Keywords:    []string{"word count", "character count", "reading time"},
				Params:      []domain.Param{textParam("Text to analyze.")},
			},
			Fn: handler(func(_ context.Context, in textInput) (any, error) {
				return text.Analyze(in.Text), nil
			}),
		},
		{
			Tool: domain.Tool{
				Name: "slugify", Slug: "slug-generator", Title: "Slug Generator",
				Description: "Turn a title into a URL-friendly slug without diacritics.",
				Category:    domain.CategoryText,
				Keywords:    []string{"slug", "url", "permalink"},
				Params: []domain.Param{
					textParam("Title or phrase."),
					{Name: "separator", Type: domain.ParamString, Default: "-", Description: "Word separator."},
					{Name: "max_length", Type: domain.ParamInteger, Default: 0, Description: "Maximum length in characters; 0 means unlimited."},
				},
			},
			Fn: handler(func(_ context.Context, in slugInput) (any, error) {
				if in.MaxLength < 0 {
					return nil, domain.NewConfigError("max_length", "must not be negative, got %d", in.MaxLength)
				}
				return text.SlugifyWith(in.Text, text.SlugOptions{Separator: in.Separator, MaxLength: in.MaxLength}), nil
			}),
		},
		{
			Tool: domain.Tool{
				Name: "markdown-html", Slug: "markdown-to-html", Title: "Markdown to HTML",
				Description: "Render GitHub-flavoured Markdown to sanitized HTML.",
				Category:    domain.CategoryText,
				Keywords:    []string{"markdown", "html", "gfm", "convert"},
				Params: []domain.Param{
					textParam("Markdown source."),
					{Name: "hard_wraps", Type: domain.ParamBoolean, Default: false, Description: "Render single newlines as line breaks."},
					{Name: "heading_ids", Type: domain.ParamBoolean, Default: false, Description: "Add id attributes to headings."},
				},
			},
			Fn: handler(func(_ context.Context, in markdownInput) (any, error) {
				return text.MarkdownToHTMLWith(in.Text, text.MarkdownOptions{HardWraps: in.HardWraps, HeadingIDs: in.HeadingIDs})
			}),
		},
	}
}
