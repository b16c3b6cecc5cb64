package text

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// MarkdownOptions configures MarkdownToHTMLWith.
type MarkdownOptions struct {
	// HardWraps renders single newlines as <br>.
	HardWraps bool
	// HeadingIDs adds id attributes derived from heading text.
	HeadingIDs bool
}

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// sanitizer allows user-generated-content markup plus heading ids and
// the GFM task-list checkboxes.
func sanitizer() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("id").Matching(bluemonday.SpaceSeparatedTokens).OnElements("h1", "h2", "h3", "h4", "h5", "h6")
		p.AllowAttrs("type").Matching(bluemonday.SpaceSeparatedTokens).OnElements("input")
		p.AllowAttrs("checked", "disabled").OnElements("input")
		p.AllowElements("input")
		policy = p
	})
	return policy
}

// MarkdownToHTML renders GitHub-flavoured Markdown and sanitizes the result,
// so raw HTML in the source cannot inject scripts or event handlers.
func MarkdownToHTML(src string) (string, error) {
	return MarkdownToHTMLWith(src, MarkdownOptions{})
}

// MarkdownToHTMLWith renders src with opts.
func MarkdownToHTMLWith(src string, opts MarkdownOptions) (string, error) {
	var parserOpts []parser.Option
	if opts.HeadingIDs {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}
	rendererOpts := []renderer.Option{html.WithUnsafe()}
	if opts.HardWraps {
		rendererOpts = append(rendererOpts, html.WithHardWraps())
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parserOpts...),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return sanitizer().Sanitize(buf.String()), nil
}
