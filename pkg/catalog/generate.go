package catalog

import (
	"context"
	"strings"

	"github.com/aretw0/toolshed/pkg/domain"
	"github.com/aretw0/toolshed/pkg/generate"
)

type uuidInput struct {
	Version   string `mapstructure:"version"`
	Count     int    `mapstructure:"count"`
	Upper     bool   `mapstructure:"upper"`
	NoHyphens bool   `mapstructure:"no_hyphens"`
	Braces    bool   `mapstructure:"braces"`
}

type passwordInput struct {
	Length           int    `mapstructure:"length"`
	Classes          string `mapstructure:"classes"`
	ExcludeAmbiguous bool   `mapstructure:"exclude_ambiguous"`
	RequireEach      bool   `mapstructure:"require_each"`
}

type loremInput struct {
	Count          int     `mapstructure:"count"`
	Unit           string  `mapstructure:"unit"`
	StartWithLorem bool    `mapstructure:"start_with_lorem"`
	Seed           *uint64 `mapstructure:"seed"`
}

// Password is the password tool result.
type Password struct {
	Password    string  `json:"password"`
	EntropyBits float64 `json:"entropy_bits"`
}

func (p Password) String() string { return p.Password }

func generatorTools() []Definition {
	return []Definition{
		{
			Tool: domain.Tool{
				Name: "uuid", Slug: "uuid-generator", Title: "UUID Generator",
				Description: "Generate random (v4), time-ordered (v7), time-based (v1) or nil UUIDs.",
				Category:    domain.CategoryGenerator,
				Keywords:    []string{"uuid", "guid", "v4", "v7", "rfc 9562"},
				Params: []domain.Param{
					{Name: "version", Type: domain.ParamString, Default: "v4", Description: "UUID version.", Enum: []string{"v1", "v4", "v7", "nil"}},
					{Name: "count", Type: domain.ParamInteger, Default: 1, Description: "How many to generate (1-1000)."},
					{Name: "upper", Type: domain.ParamBoolean, Default: false, Description: "Uppercase hex digits."},
					{Name: "no_hyphens", Type: domain.ParamBoolean, Default: false, Description: "Omit the hyphens."},
					{Name: "braces", Type: domain.ParamBoolean, Default: false, Description: "Wrap in curly braces."},
				},
			},
			Fn: handler(func(_ context.Context, in uuidInput) (any, error) {
				ids, err := generate.GenerateUUIDs(generate.UUIDOptions{
					Version:   generate.UUIDVersion(in.Version),
					Count:     in.Count,
					Upper:     in.Upper,
					NoHyphens: in.NoHyphens,
					Braces:    in.Braces,
				})
				if err != nil {
					return nil, err
				}
				return Lines(ids), nil
			}),
		},
		{
			Tool: domain.Tool{
				Name: "password", Slug: "password-generator", Title: "Password Generator",
				Description: "Generate a strong random password from a cryptographically secure source.",
				Category:    domain.CategoryGenerator,
				Keywords:    []string{"password", "random", "secure", "passphrase"},
				Params: []domain.Param{
					{Name: "length", Type: domain.ParamInteger, Default: 16, Description: "Number of characters (1-4096)."},
					{Name: "classes", Type: domain.ParamString, Default: "lowercase,uppercase,digits,symbols", Description: "Comma separated character classes."},
					{Name: "exclude_ambiguous", Type: domain.ParamBoolean, Default: false, Description: "Drop look-alike characters such as l, 1, O and 0."},
					{Name: "require_each", Type: domain.ParamBoolean, Default: true, Description: "Include at least one character of every class."},
				},
			},
			Fn: handler(func(_ context.Context, in passwordInput) (any, error) {
				classes, err := generate.ParseCharClasses(splitList(in.Classes))
				if err != nil {
					return nil, err
				}
				opts := generate.PasswordOptions{
					Length:           in.Length,
					Classes:          classes,
					ExcludeAmbiguous: in.ExcludeAmbiguous,
					RequireEachClass: in.RequireEach,
				}
				pw, err := generate.NewPasswordGenerator().Generate(opts)
				if err != nil {
					return nil, err
				}
				bits, err := generate.PasswordEntropy(opts)
				if err != nil {
					return nil, err
				}
				return Password{Password: pw, EntropyBits: bits}, nil
			}),
		},
		{
			Tool: domain.Tool{
				Name: "lorem", Slug: "lorem-ipsum-generator", Title: "Lorem Ipsum Generator",
				Description: "Generate placeholder words, sentences or paragraphs.",
				Category:    domain.CategoryGenerator,
				Keywords:    []string{"lorem ipsum", "placeholder", "dummy text"},
				Params: []domain.Param{
					{Name: "count", Type: domain.ParamInteger, Default: 5, Description: "How many units to generate."},
					{Name: "unit", Type: domain.ParamString, Default: "sentences", Description: "What count counts.", Enum: []string{"words", "sentences", "paragraphs"}},
					{Name: "start_with_lorem", Type: domain.ParamBoolean, Default: true, Description: "Open with the classic \"Lorem ipsum dolor sit amet\"."},
					{Name: "seed", Type: domain.ParamInteger, Description: "Seed for reproducible output."},
				},
			},
			Fn: handler(func(_ context.Context, in loremInput) (any, error) {
				return generate.GenerateLoremWith(generate.LoremOptions{
					Count:          in.Count,
					Unit:           generate.LoremUnit(in.Unit),
					StartWithLorem: in.StartWithLorem,
					Seed:           in.Seed,
				})
			}),
		},
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
