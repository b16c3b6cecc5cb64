package seo

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/aretw0/toolshed/pkg/domain"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	NS      string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// Sitemap renders sitemap.xml for the index and every tool page.
// lastMod is omitted when zero.
func Sitemap(site Site, tools []domain.Tool, lastMod time.Time) ([]byte, error) {
	var mod string
	if !lastMod.IsZero() {
		mod = lastMod.UTC().Format(time.DateOnly)
	}

	set := urlSet{NS: sitemapNS}
	set.URLs = append(set.URLs, sitemapURL{Loc: CanonicalURL(site.BaseURL), LastMod: mod, ChangeFreq: "weekly", Priority: "1.0"})
	for _, t := range tools {
		set.URLs = append(set.URLs, sitemapURL{Loc: CanonicalURL(site.BaseURL, t.Slug), LastMod: mod, ChangeFreq: "monthly", Priority: "0.8"})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, fmt.Errorf("encode sitemap: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Robots renders robots.txt allowing everything and pointing at the sitemap.
func Robots(site Site) string {
	return "User-agent: *\nAllow: /\nDisallow: /api/\n\nSitemap: " + CanonicalURL(site.BaseURL, "sitemap.xml") + "\n"
}
