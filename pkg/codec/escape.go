package codec

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/aretw0/toolshed/pkg/domain"
)

// EscapeFormat names a string escaping dialect.
type EscapeFormat string

const (
	FormatJSON EscapeFormat = "json"
	FormatXML  EscapeFormat = "xml"
	FormatHTML EscapeFormat = "html"
)

// ParseEscapeFormat validates a format name.
func ParseEscapeFormat(s string) (EscapeFormat, error) {
	switch f := EscapeFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatXML, FormatHTML:
		return f, nil
	}
	return "", domain.NewConfigError("format", "unknown escape format %q (want json, xml or html)", s)
}

// Escape escapes s for format. It never fails; an unknown format returns s unchanged.
func Escape(format EscapeFormat, s string) string {
	switch format {
	case FormatJSON:
		return EscapeJSON(s)
	case FormatXML:
		return EscapeXML(s)
	case FormatHTML:
		return EscapeHTML(s)
	}
	return s
}

// Unescape reverses Escape.
func Unescape(format EscapeFormat, s string) (string, error) {
	switch format {
	case FormatJSON:
		return UnescapeJSON(s)
	case FormatXML:
		return UnescapeXML(s)
	case FormatHTML:
		return UnescapeHTML(s)
	}
	return "", domain.NewConfigError("format", "unknown escape format %q", string(format))
}

// EscapeJSON returns the body of a JSON string literal for s, without the surrounding quotes.
func EscapeJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if c < 0x20 {
				b.WriteString(`\u00`)
				b.WriteByte(upperhex[c>>4])
				b.WriteByte(upperhex[c&15])
				continue
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}

// UnescapeJSON decodes the escape sequences of a JSON string body.
// Surrogate pairs are joined; a lone surrogate becomes U+FFFD.
func UnescapeJSON(s string) (string, error) {
	if strings.IndexByte(s, '\\') < 0 {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(s) {
			return "", domain.NewDecodeError(domain.ErrInvalidEscape, i, fmt.Errorf("dangling backslash"))
		}
		switch e := s[i+1]; e {
		case '"', '\\', '/':
			b.WriteByte(e)
			i += 2
		case 'n':
			b.WriteByte('\n')
			i += 2
		case 'r':
			b.WriteByte('\r')
			i += 2
		case 't':
			b.WriteByte('\t')
			i += 2
		case 'b':
			b.WriteByte('\b')
			i += 2
		case 'f':
			b.WriteByte('\f')
			i += 2
		case 'u':
			r, n, err := decodeUnicodeEscape(s, i)
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
			i += n
		default:
			return "", domain.NewDecodeError(domain.ErrInvalidEscape, i, fmt.Errorf("unknown escape \\%c", e))
		}
	}
	return b.String(), nil
}

// decodeUnicodeEscape decodes \uXXXX (or a surrogate pair) at s[i:] and returns the rune and bytes consumed.
func decodeUnicodeEscape(s string, i int) (rune, int, error) {
	r1, ok := hex4(s, i+2)
	if !ok {
		return 0, 0, domain.NewDecodeError(domain.ErrInvalidEscape, i, fmt.Errorf("malformed \\u escape"))
	}
	if !utf16.IsSurrogate(r1) {
		return r1, 6, nil
	}
	if i+12 <= len(s) && s[i+6] == '\\' && s[i+7] == 'u' {
		if r2, ok := hex4(s, i+8); ok {
			if r := utf16.DecodeRune(r1, r2); r != utf8.RuneError {
				return r, 12, nil
			}
		}
	}
	return utf8.RuneError, 6, nil
}

func hex4(s string, i int) (rune, bool) {
	if i+4 > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[i:i+4], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeXML replaces the five XML special characters with predefined entities.
func EscapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

var xmlEntities = map[string]string{
	"amp":  "&",
	"lt":   "<",
	"gt":   ">",
	"quot": `"`,
	"apos": "'",
}

// UnescapeXML decodes the predefined XML entities and numeric character references.
func UnescapeXML(s string) (string, error) {
	return unescapeEntities(s, xmlNumeric, func(name string) (string, bool) {
		v, ok := xmlEntities[name]
		return v, ok
	})
}

// EscapeHTML escapes the characters significant in HTML text and attribute values.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

// UnescapeHTML decodes HTML5 named entities and numeric references.
// Every '&' must start a terminated, known reference. Numeric references
// follow HTML5, so &#x80; through &#x9F; map through Windows-1252 (&#x80; is "€").
func UnescapeHTML(s string) (string, error) {
	return unescapeEntities(s, htmlNumeric, func(name string) (string, bool) {
		ref := "&" + name + ";"
		out := html.UnescapeString(ref)
		// Legacy entities match without the semicolon and leave "rest;" behind.
		return out, out != ref && (!strings.HasSuffix(out, ";") || name == "semi")
	})
}

// unescapeEntities scans s for &name; and &#N; / &#xH; references.
// numeric receives the text after "#".
func unescapeEntities(s string, numeric, named func(string) (string, bool)) (string, error) {
	if strings.IndexByte(s, '&') < 0 {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c != '&' {
			b.WriteByte(c)
			i++
			continue
		}
		end := strings.IndexByte(s[i:], ';')
		if end < 0 {
			return "", domain.NewDecodeError(domain.ErrInvalidEscape, i, fmt.Errorf("unterminated entity"))
		}
		name := s[i+1 : i+end]
		if strings.HasPrefix(name, "#") {
			v, ok := numeric(name[1:])
			if !ok {
				return "", domain.NewDecodeError(domain.ErrInvalidEscape, i, fmt.Errorf("invalid character reference &%s;", name))
			}
			b.WriteString(v)
		} else {
			v, ok := named(name)
			if name == "" || !ok {
				return "", domain.NewDecodeError(domain.ErrInvalidEscape, i, fmt.Errorf("unknown entity &%s;", name))
			}
			b.WriteString(v)
		}
		i += end + 1
	}
	return b.String(), nil
}

func xmlNumeric(digits string) (string, bool) {
	r, ok := numericReference(digits)
	return string(r), ok
}

func htmlNumeric(digits string) (string, bool) {
	if _, ok := numericReference(digits); !ok {
		return "", false
	}
	return html.UnescapeString("&#" + digits + ";"), true
}

func numericReference(digits string) (rune, bool) {
	base := 10
	if strings.HasPrefix(digits, "x") || strings.HasPrefix(digits, "X") {
		base = 16
		digits = digits[1:]
	}
	if digits == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(digits, base, 32)
	if err != nil || v > utf8.MaxRune {
		return 0, false
	}
	r := rune(v)
	if !utf8.ValidRune(r) {
		return 0, false
	}
	return r, true
}
