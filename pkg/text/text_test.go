package text_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/toolshed/pkg/domain"
	"github.com/aretw0/toolshed/pkg/text"
)

func TestConvertCase(t *testing.T) {
	tests := []struct {
		c    text.Case
		in   string
		want string
	}{
		{text.CaseUpper, "hello wörld", "HELLO WÖRLD"},
		{text.CaseLower, "HeLLo", "hello"},
		{text.CaseTitle, "hello wORLD", "Hello World"},
		{text.CaseSentence, "hELLO world. how ARE you? fine", "Hello world. How are you? Fine"},
		{text.CaseSnake, "Hello World, again!", "hello_world_again"},
		{text.CaseKebab, "someValue here", "some-value-here"},
		{text.CaseConstant, "some value", "SOME_VALUE"},
		{text.CaseCamel, "Some value here", "someValueHere"},
		{text.CasePascal, "some-value_here", "SomeValueHere"},
		{text.CaseCamel, "crème brûlée", "crèmeBrûlée"},
		{text.CaseSnake, "", ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.c)+"/"+tt.in, func(t *testing.T) {
			got, err := text.ConvertCase(tt.in, tt.c)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertCase_Unknown(t *testing.T) {
	_, err := text.ConvertCase("x", "zigzag")
	assert.ErrorIs(t, err, domain.ErrConfig)
	assert.Len(t, text.Cases(), 9)
}

func TestAnalyze(t *testing.T) {
	st := text.Analyze("Hello world. This is a test!\n\nSecond paragraph here\n")
	assert.Equal(t, 9, st.Words)
	assert.Equal(t, 3, st.Lines)
	assert.Equal(t, 3, st.Sentences)
	assert.Equal(t, 2, st.Paragraphs)
	assert.Equal(t, 1, st.ReadingMinutes)
	assert.Equal(t, 52, st.Characters)
	assert.Equal(t, 42, st.CharactersNoSpaces)

	assert.Equal(t, text.Stats{}, text.Analyze(""))

	multi := text.Analyze("día")
	assert.Equal(t, 3, multi.Characters)
	assert.Equal(t, 4, multi.Bytes)
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Crème Brûlée!":          "creme-brulee",
		"  Hello,   World  ":     "hello-world",
		"JSON -> YAML converter": "json-yaml-converter",
		"日本語 text":               "日本語-text",
		"---":                    "",
	}
	for in, want := range tests {
		assert.Equal(t, want, text.Slugify(in), "input %q", in)
	}
}

func TestSlugifyWith(t *testing.T) {
	assert.Equal(t, "the-quick", text.SlugifyWith("The quick brown fox", text.SlugOptions{MaxLength: 12}))
	assert.Equal(t, "snake_case_slug", text.SlugifyWith("Snake case slug", text.SlugOptions{Separator: "_"}))
	assert.Equal(t, "abcdef", text.SlugifyWith("abcdefghij", text.SlugOptions{MaxLength: 6}))
}

func TestMarkdownToHTML(t *testing.T) {
	out, err := text.MarkdownToHTML("# Title\n\n**bold** and ~~gone~~\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Title</h1>")
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.Contains(t, out, "<del>gone</del>")
	assert.Contains(t, out, "<table>")
}

func TestMarkdownToHTML_Sanitizes(t *testing.T) {
	out, err := text.MarkdownToHTML("hi <script>alert(1)</script>\n\n<img src=\"x.png\" onerror=\"alert(2)\">\n\n[link](javascript:alert(3))\n")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "onerror")
	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, "hi")
}

func TestMarkdownToHTMLWith(t *testing.T) {
	out, err := text.MarkdownToHTMLWith("# Hello World\n\nline one\nline two\n", text.MarkdownOptions{HeadingIDs: true, HardWraps: true})
	require.NoError(t, err)
	assert.Contains(t, out, `<h1 id="hello-world">Hello World</h1>`)
	assert.Contains(t, out, "<br")
}
