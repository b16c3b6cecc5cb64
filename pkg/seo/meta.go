package seo

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/toolshed/pkg/domain"
)

// Search engines cut titles and descriptions around these lengths.
const (
	MaxTitleLength       = 60
	MaxDescriptionLength = 160
)

// Site describes the deployment the pages are served from.
type Site struct {
	Name        string
	BaseURL     string // absolute, without trailing slash
	Description string
	Locale      string // OpenGraph locale, default en_US
}

// Page is the head metadata of one HTML page.
type Page struct {
	Title       string
	Description string
	Canonical   string
	Keywords    []string
	OpenGraph   OpenGraph
	// JSONLD is the serialized structured data block, HTML-safe.
	JSONLD string
}

// OpenGraph holds the og:* properties.
type OpenGraph struct {
	Type        string
	URL         string
	Title       string
	Description string
	SiteName    string
	Locale      string
}

// CanonicalURL joins base and path segments, escaping each segment.
func CanonicalURL(base string, segments ...string) string {
	base = strings.TrimRight(base, "/")
	if len(segments) == 0 {
		return base + "/"
	}
	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = url.PathEscape(s)
	}
	return base + "/" + strings.Join(parts, "/")
}

// ToolPage returns the metadata of a tool's page.
func ToolPage(site Site, tool domain.Tool) (Page, error) {
	canonical := CanonicalURL(site.BaseURL, tool.Slug)
	title := Truncate(fmt.Sprintf("%s | %s", tool.Title, site.Name), MaxTitleLength)
	desc := Truncate(tool.Description, MaxDescriptionLength)

	ld, err := JSONLD(WebApplicationFor(site, tool))
	if err != nil {
		return Page{}, err
	}
	return Page{
		Title:       title,
		Description: desc,
		Canonical:   canonical,
		Keywords:    tool.Keywords,
		OpenGraph:   openGraph(site, "website", canonical, tool.Title, desc),
		JSONLD:      ld,
	}, nil
}

// IndexPage returns the metadata of the catalog index.
func IndexPage(site Site, tools []domain.Tool) (Page, error) {
	canonical := CanonicalURL(site.BaseURL)
	desc := Truncate(site.Description, MaxDescriptionLength)

	ld, err := JSONLD(ItemListFor(site, tools))
	if err != nil {
		return Page{}, err
	}
	return Page{
		Title:       Truncate(site.Name, MaxTitleLength),
		Description: desc,
		Canonical:   canonical,
		OpenGraph:   openGraph(site, "website", canonical, site.Name, desc),
		JSONLD:      ld,
	}, nil
}

func openGraph(site Site, kind, canonical, title, desc string) OpenGraph {
	locale := site.Locale
	if locale == "" {
		locale = "en_US"
	}
	return OpenGraph{
		Type:        kind,
		URL:         canonical,
		Title:       title,
		Description: desc,
		SiteName:    site.Name,
		Locale:      locale,
	}
}

// Truncate shortens s to at most max runes, cutting at a word boundary and
// appending an ellipsis when anything was removed.
func Truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)[:max-1]
	cut := string(runes)
	if i := strings.LastIndexByte(cut, ' '); i > max/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:-") + "…"
}
