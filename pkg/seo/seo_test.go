package seo_test

import (
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/toolshed/pkg/domain"
	"github.com/aretw0/toolshed/pkg/seo"
)

var site = seo.Site{Name: "Toolshed", BaseURL: "https://tools.example.com/", Description: "Free developer tools."}

var tool = domain.Tool{
	Name:        "json-format",
	Slug:        "json-formatter",
	Title:       "JSON Formatter",
	Description: "Pretty-print or minify JSON </script><script>alert(1)</script>",
	Keywords:    []string{"json", "beautify"},
}

func TestCanonicalURL(t *testing.T) {
	assert.Equal(t, "https://tools.example.com/", seo.CanonicalURL(site.BaseURL))
	assert.Equal(t, "https://tools.example.com/json-formatter", seo.CanonicalURL(site.BaseURL, "json-formatter"))
	assert.Equal(t, "https://x.dev/a%20b", seo.CanonicalURL("https://x.dev", "a b"))
}

func TestToolPage(t *testing.T) {
	p, err := seo.ToolPage(site, tool)
	require.NoError(t, err)

	assert.Equal(t, "JSON Formatter | Toolshed", p.Title)
	assert.Equal(t, "https://tools.example.com/json-formatter", p.Canonical)
	assert.Equal(t, p.Canonical, p.OpenGraph.URL)
	assert.Equal(t, "en_US", p.OpenGraph.Locale)
	assert.NotContains(t, p.JSONLD, "</script>", "json-ld must not close its script element")

	var app map[string]any
	require.NoError(t, json.Unmarshal([]byte(p.JSONLD), &app))
	assert.Equal(t, "WebApplication", app["@type"])
	assert.Equal(t, "json, beautify", app["keywords"])
	assert.Equal(t, true, app["isAccessibleForFree"])
}

func TestIndexPage(t *testing.T) {
	p, err := seo.IndexPage(site, []domain.Tool{tool, {Title: "UUID Generator", Slug: "uuid-generator"}})
	require.NoError(t, err)

	var list seo.ItemList
	require.NoError(t, json.Unmarshal([]byte(p.JSONLD), &list))
	require.Len(t, list.ItemListElement, 2)
	assert.Equal(t, 2, list.ItemListElement[1].Position)
	assert.Equal(t, "https://tools.example.com/uuid-generator", list.ItemListElement[1].URL)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", seo.Truncate("  short ", 10))

	long := strings.Repeat("word ", 50)
	got := seo.Truncate(long, seo.MaxDescriptionLength)
	assert.LessOrEqual(t, utf8.RuneCountInString(got), seo.MaxDescriptionLength)
	assert.True(t, strings.HasSuffix(got, "word…"), got)

	assert.Equal(t, "ééééé…", seo.Truncate("éééééééééé", 6))
}

func TestSitemap(t *testing.T) {
	out, err := seo.Sitemap(site, []domain.Tool{tool}, time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), xml.Header))

	var set struct {
		URLs []struct {
			Loc     string `xml:"loc"`
			LastMod string `xml:"lastmod"`
		} `xml:"url"`
	}
	require.NoError(t, xml.Unmarshal(out, &set))
	require.Len(t, set.URLs, 2)
	assert.Equal(t, "https://tools.example.com/", set.URLs[0].Loc)
	assert.Equal(t, "https://tools.example.com/json-formatter", set.URLs[1].Loc)
	assert.Equal(t, "2024-05-06", set.URLs[1].LastMod)

	out, err = seo.Sitemap(site, nil, time.Time{})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "lastmod")
}

func TestRobots(t *testing.T) {
	assert.Contains(t, seo.Robots(site), "Sitemap: https://tools.example.com/sitemap.xml")
}
