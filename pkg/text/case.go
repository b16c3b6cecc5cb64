package text

import (
	"strings"
	"unicode"

	"github.com/stoewer/go-strcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/aretw0/toolshed/pkg/domain"
)

// Case is a target letter case.
type Case string

const (
	CaseUpper    Case = "upper"
	CaseLower    Case = "lower"
	CaseTitle    Case = "title"
	CaseSentence Case = "sentence"
	CaseCamel    Case = "camel"
	CasePascal   Case = "pascal"
	CaseSnake    Case = "snake"
	CaseKebab    Case = "kebab"
	CaseConstant Case = "constant"
)

// Cases lists every supported Case.
func Cases() []Case {
	return []Case{CaseUpper, CaseLower, CaseTitle, CaseSentence, CaseCamel, CasePascal, CaseSnake, CaseKebab, CaseConstant}
}

// Casers are stateful and must not be shared between goroutines.
func upper() cases.Caser { return cases.Upper(language.Und) }
func lower() cases.Caser { return cases.Lower(language.Und) }
func title() cases.Caser { return cases.Title(language.Und) }

// ConvertCase rewrites s in case c. upper, lower, title and sentence keep
// spacing and punctuation; the identifier cases split s into words at
// punctuation, spaces and lower-to-upper transitions.
func ConvertCase(s string, c Case) (string, error) {
	switch Case(strings.ToLower(string(c))) {
	case CaseUpper:
		return upper().String(s), nil
	case CaseLower:
		return lower().String(s), nil
	case CaseTitle:
		return title().String(s), nil
	case CaseSentence:
		return sentenceCase(s), nil
	case CaseSnake:
		return lower().String(strcase.SnakeCase(words(s))), nil
	case CaseKebab:
		return lower().String(strcase.KebabCase(words(s))), nil
	case CaseConstant:
		return upper().String(strcase.UpperSnakeCase(words(s))), nil
	case CaseCamel, CasePascal:
		parts := strings.Split(lower().String(strcase.SnakeCase(words(s))), "_")
		t := title()
		var b strings.Builder
		for i, p := range parts {
			if i == 0 && Case(strings.ToLower(string(c))) == CaseCamel {
				b.WriteString(p)
				continue
			}
			b.WriteString(t.String(p))
		}
		return b.String(), nil
	}
	return "", domain.NewConfigError("case", "unknown case %q", c)
}

// words replaces everything but letters and digits with single spaces.
func words(s string) string {
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ")
}

// sentenceCase lowercases s and capitalizes the first letter of each sentence.
func sentenceCase(s string) string {
	rs := []rune(lower().String(s))
	start := true
	for i, r := range rs {
		switch {
		case start && unicode.IsLetter(r):
			rs[i] = unicode.ToUpper(r)
			start = false
		case r == '.' || r == '!' || r == '?':
			start = true
		case start && unicode.IsDigit(r):
			start = false
		}
	}
	return string(rs)
}
