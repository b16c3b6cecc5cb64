package text

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SlugOptions configures SlugifyWith.
type SlugOptions struct {
	Separator string // default "-"
	MaxLength int    // 0 means unlimited; cuts on a separator when possible
}

// Slugify lowercases s, strips diacritics and joins the remaining
// letter/digit runs with hyphens: "Crème Brûlée!" becomes "creme-brulee".
func Slugify(s string) string {
	return SlugifyWith(s, SlugOptions{})
}

// SlugifyWith is Slugify with a custom separator and length cap.
func SlugifyWith(s string, opts SlugOptions) string {
	sep := opts.Separator
	if sep == "" {
		sep = "-"
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	parts := strings.FieldsFunc(strings.ToLower(folded), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r))
	})
	slug := strings.Join(parts, sep)

	if opts.MaxLength > 0 && len(slug) > opts.MaxLength {
		cut := slug[:opts.MaxLength]
		if i := strings.LastIndex(cut, sep); i > 0 {
			cut = cut[:i]
		} else {
			cut = truncateRunes(cut)
		}
		slug = strings.TrimSuffix(cut, sep)
	}
	return slug
}

// truncateRunes drops a partial trailing UTF-8 sequence left by byte slicing.
func truncateRunes(s string) string {
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}
