package generate

import (
	"math/rand/v2"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/toolshed/pkg/domain"
)

// LoremUnit is what LoremOptions.Count counts.
type LoremUnit string

const (
	LoremWords      LoremUnit = "words"
	LoremSentences  LoremUnit = "sentences"
	LoremParagraphs LoremUnit = "paragraphs"
)

// Sentence and paragraph shape.
const (
	MinSentenceWords   = 4
	MaxSentenceWords   = 14
	MinParagraphLength = 3
	MaxParagraphLength = 6
)

var loremLimits = map[LoremUnit]int{
	LoremWords:      10000,
	LoremSentences:  1000,
	LoremParagraphs: 100,
}

var classicOpening = []string{"lorem", "ipsum", "dolor", "sit", "amet", "consectetur", "adipiscing", "elit"}

var loremCorpus = []string{
	"a", "ac", "accumsan", "aliquam", "aliquet", "ante", "arcu", "at", "auctor", "augue",
	"bibendum", "blandit", "commodo", "condimentum", "congue", "consequat", "convallis", "cras",
	"cursus", "dapibus", "diam", "dictum", "dignissim", "donec", "dui", "efficitur", "egestas",
	"eget", "eleifend", "elementum", "enim", "erat", "eros", "est", "et", "etiam", "eu", "euismod",
	"facilisis", "fames", "faucibus", "felis", "fermentum", "feugiat", "finibus", "fringilla",
	"fusce", "gravida", "habitant", "hendrerit", "iaculis", "id", "imperdiet", "in", "integer",
	"interdum", "justo", "lacinia", "lacus", "laoreet", "lectus", "leo", "libero", "ligula",
	"lobortis", "luctus", "maecenas", "magna", "malesuada", "massa", "mattis", "mauris", "maximus",
	"metus", "mi", "molestie", "mollis", "morbi", "nam", "nec", "neque", "nibh", "nisi", "nisl",
	"non", "nulla", "nullam", "nunc", "odio", "orci", "ornare", "pellentesque", "pharetra",
	"phasellus", "placerat", "porta", "porttitor", "posuere", "praesent", "pretium", "proin",
	"pulvinar", "purus", "quam", "quis", "quisque", "rhoncus", "risus", "rutrum", "sagittis",
	"sapien", "scelerisque", "sed", "sem", "semper", "senectus", "sodales", "sollicitudin",
	"suscipit", "suspendisse", "tellus", "tempor", "tempus", "tincidunt", "tortor", "tristique",
	"turpis", "ullamcorper", "ultrices", "ultricies", "urna", "ut", "varius", "vehicula", "vel",
	"velit", "venenatis", "vestibulum", "vitae", "vivamus", "viverra", "volutpat", "vulputate",
}

// LoremOptions configures GenerateLoremWith.
type LoremOptions struct {
	Count          int
	Unit           LoremUnit
	StartWithLorem bool
	// Seed makes output reproducible when non-nil.
	Seed *uint64
}

// GenerateLorem returns count words, sentences or paragraphs of placeholder text.
// Paragraphs are separated by a blank line.
func GenerateLorem(count int, unit LoremUnit) (string, error) {
	return GenerateLoremWith(LoremOptions{Count: count, Unit: unit})
}

// GenerateLoremWith is GenerateLorem with the full option set.
// Word choice uses math/rand/v2; the output is cosmetic and not security sensitive.
func GenerateLoremWith(opts LoremOptions) (string, error) {
	if opts.Unit == "" {
		opts.Unit = LoremWords
	}
	limit, ok := loremLimits[opts.Unit]
	if !ok {
		return "", domain.NewConfigError("unit", "unknown unit %q (want words, sentences or paragraphs)", opts.Unit)
	}
	if opts.Count < 1 || opts.Count > limit {
		return "", domain.NewConfigError("count", "must be between 1 and %d %s, got %d", limit, opts.Unit, opts.Count)
	}

	var src rand.Source
	if opts.Seed != nil {
		src = rand.NewPCG(*opts.Seed, *opts.Seed^0x9e3779b97f4a7c15)
	} else {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	g := &lorem{rng: rand.New(src), classic: opts.StartWithLorem}

	switch opts.Unit {
	case LoremWords:
		return g.words(opts.Count), nil
	case LoremSentences:
		return g.sentences(opts.Count), nil
	}
	paras := make([]string, opts.Count)
	for i := range paras {
		paras[i] = g.sentences(g.between(MinParagraphLength, MaxParagraphLength))
	}
	return strings.Join(paras, "\n\n"), nil
}

type lorem struct {
	rng     *rand.Rand
	classic bool
	emitted int
}

func (g *lorem) between(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

// words splits n words into sentences, the last one taking the remainder.
func (g *lorem) words(n int) string {
	var out []string
	for n > 0 {
		size := g.between(MinSentenceWords, MaxSentenceWords)
		if size > n || n-size < MinSentenceWords {
			size = n
			if n > MaxSentenceWords {
				size = n - MinSentenceWords
			}
		}
		out = append(out, g.sentence(size))
		n -= size
	}
	return strings.Join(out, " ")
}

func (g *lorem) sentences(n int) string {
	out := make([]string, n)
	for i := range out {
		out[i] = g.sentence(g.between(MinSentenceWords, MaxSentenceWords))
	}
	return strings.Join(out, " ")
}

func (g *lorem) next() string {
	defer func() { g.emitted++ }()
	if g.classic && g.emitted < len(classicOpening) {
		return classicOpening[g.emitted]
	}
	return loremCorpus[g.rng.IntN(len(loremCorpus))]
}

// sentence returns size words, capitalized and terminated by a period.
// Sentences of eight or more words get one comma.
func (g *lorem) sentence(size int) string {
	classicStart := g.classic && g.emitted == 0
	words := make([]string, size)
	for i := range words {
		words[i] = g.next()
	}
	if size >= 8 {
		at := 4
		if !classicStart {
			at = g.between(2, size-4)
		}
		words[at] += ","
	}
	words[0] = capitalize(words[0])
	return strings.Join(words, " ") + "."
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
