package codec

import (
	"errors"
	"net/url"
	"strings"

	"github.com/aretw0/toolshed/pkg/domain"
)

// URLMode selects the percent-encoding flavour.
type URLMode string

const (
	// URLComponent mirrors encodeURIComponent: space becomes %20.
	URLComponent URLMode = "component"
	// URLForm is application/x-www-form-urlencoded: space becomes '+'.
	URLForm URLMode = "form"
)

const upperhex = "0123456789ABCDEF"

// URLEncode percent-encodes s in component mode.
func URLEncode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isComponentSafe(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

// URLDecode reverses URLEncode. '+' is kept literally.
func URLDecode(s string) (string, error) {
	out, err := url.PathUnescape(s)
	if err != nil {
		return "", escapeErr(s, err)
	}
	return out, nil
}

// URLEncodeMode percent-encodes s in the given mode.
func URLEncodeMode(s string, mode URLMode) (string, error) {
	switch mode {
	case "", URLComponent:
		return URLEncode(s), nil
	case URLForm:
		return url.QueryEscape(s), nil
	}
	return "", domain.NewConfigError("mode", "unknown url mode %q", string(mode))
}

// URLDecodeMode decodes s in the given mode.
func URLDecodeMode(s string, mode URLMode) (string, error) {
	switch mode {
	case "", URLComponent:
		return URLDecode(s)
	case URLForm:
		out, err := url.QueryUnescape(s)
		if err != nil {
			return "", escapeErr(s, err)
		}
		return out, nil
	}
	return "", domain.NewConfigError("mode", "unknown url mode %q", string(mode))
}

// isComponentSafe reports the characters encodeURIComponent leaves alone.
func isComponentSafe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

func escapeErr(s string, err error) error {
	offset := -1
	var esc url.EscapeError
	if errors.As(err, &esc) {
		if i := strings.Index(s, string(esc)); i >= 0 {
			offset = i
		}
	}
	return domain.NewDecodeError(domain.ErrInvalidEscape, offset, err)
}
