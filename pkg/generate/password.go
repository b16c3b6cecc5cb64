package generate

import (
	"crypto/rand"
	"fmt"
	"io"
	"math"
	"math/big"
	"strings"

	"github.com/aretw0/toolshed/pkg/domain"
)

// CharClass names a set of characters a password may draw from.
type CharClass string

const (
	Lowercase CharClass = "lowercase"
	Uppercase CharClass = "uppercase"
	Digits    CharClass = "digits"
	Symbols   CharClass = "symbols"
)

// MaxPasswordLength bounds GeneratePassword.
const MaxPasswordLength = 4096

// ambiguous characters are dropped with ExcludeAmbiguous.
const ambiguous = "Il1O0o"

var classChars = map[CharClass]string{
	Lowercase: "abcdefghijklmnopqrstuvwxyz",
	Uppercase: "ABCDEFGHIJKLMNOPQRSTUVWXYZ",
	Digits:    "0123456789",
	Symbols:   "!@#$%^&*()-_=+[]{};:,.<>?/~",
}

// classOrder fixes alphabet layout so output does not depend on map iteration.
var classOrder = []CharClass{Lowercase, Uppercase, Digits, Symbols}

// maxAttempts caps rejection sampling for RequireEachClass.
const maxAttempts = 10000

// PasswordOptions configures a PasswordGenerator.
type PasswordOptions struct {
	Length           int
	Classes          []CharClass
	ExcludeAmbiguous bool
	// RequireEachClass rejects candidates missing any selected class.
	RequireEachClass bool
}

// PasswordGenerator draws characters uniformly from a cryptographically strong source.
// It is safe for concurrent use when its reader is.
type PasswordGenerator struct {
	random io.Reader
}

// PasswordOption configures a PasswordGenerator.
type PasswordOption func(*PasswordGenerator)

// WithRandom replaces crypto/rand.Reader, for tests.
func WithRandom(r io.Reader) PasswordOption {
	return func(g *PasswordGenerator) {
		g.random = r
	}
}

// NewPasswordGenerator returns a generator reading from crypto/rand by default.
func NewPasswordGenerator(opts ...PasswordOption) *PasswordGenerator {
	g := &PasswordGenerator{random: rand.Reader}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var defaultPasswords = NewPasswordGenerator()

// GeneratePassword returns length characters drawn uniformly from the union of classes.
func GeneratePassword(length int, classes []CharClass) (string, error) {
	return defaultPasswords.Generate(PasswordOptions{Length: length, Classes: classes})
}

// ParseCharClasses converts class names, ignoring case and duplicates.
func ParseCharClasses(names []string) ([]CharClass, error) {
	var out []CharClass
	for _, n := range names {
		c := CharClass(strings.ToLower(strings.TrimSpace(n)))
		if _, ok := classChars[c]; !ok {
			return nil, domain.NewConfigError("classes", "unknown character class %q", n)
		}
		out = append(out, c)
	}
	return out, nil
}

// Generate builds a password according to opts.
func (g *PasswordGenerator) Generate(opts PasswordOptions) (string, error) {
	sets, err := alphabets(opts)
	if err != nil {
		return "", err
	}
	alphabet := strings.Join(sets, "")

	for attempt := 0; attempt < maxAttempts; attempt++ {
		pw, err := g.draw(alphabet, opts.Length)
		if err != nil {
			return "", err
		}
		if !opts.RequireEachClass || coversAll(pw, sets) {
			return pw, nil
		}
	}
	return "", fmt.Errorf("password: no candidate covered every class after %d attempts", maxAttempts)
}

func (g *PasswordGenerator) draw(alphabet string, length int) (string, error) {
	n := big.NewInt(int64(len(alphabet)))
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		idx, err := rand.Int(g.random, n)
		if err != nil {
			return "", fmt.Errorf("read random source: %w", err)
		}
		b.WriteByte(alphabet[idx.Int64()])
	}
	return b.String(), nil
}

func coversAll(pw string, sets []string) bool {
	for _, set := range sets {
		if !strings.ContainsAny(pw, set) {
			return false
		}
	}
	return true
}

// alphabets validates opts and returns the selected character sets in fixed order.
func alphabets(opts PasswordOptions) ([]string, error) {
	if opts.Length < 1 || opts.Length > MaxPasswordLength {
		return nil, domain.NewConfigError("length", "must be between 1 and %d, got %d", MaxPasswordLength, opts.Length)
	}
	selected := make(map[CharClass]bool, len(opts.Classes))
	for _, c := range opts.Classes {
		if _, ok := classChars[c]; !ok {
			return nil, domain.NewConfigError("classes", "unknown character class %q", c)
		}
		selected[c] = true
	}
	if len(selected) == 0 {
		return nil, domain.NewConfigError("classes", "at least one character class is required")
	}
	if opts.RequireEachClass && opts.Length < len(selected) {
		return nil, domain.NewConfigError("length", "%d is too short to include %d classes", opts.Length, len(selected))
	}

	var sets []string
	for _, c := range classOrder {
		if !selected[c] {
			continue
		}
		chars := classChars[c]
		if opts.ExcludeAmbiguous {
			chars = strings.Map(func(r rune) rune {
				if strings.ContainsRune(ambiguous, r) {
					return -1
				}
				return r
			}, chars)
		}
		sets = append(sets, chars)
	}
	return sets, nil
}

// PasswordEntropy estimates the strength in bits of a password generated with opts,
// ignoring the small reduction caused by RequireEachClass.
func PasswordEntropy(opts PasswordOptions) (float64, error) {
	sets, err := alphabets(opts)
	if err != nil {
		return 0, err
	}
	size := len(strings.Join(sets, ""))
	return float64(opts.Length) * math.Log2(float64(size)), nil
}
