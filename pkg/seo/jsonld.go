package seo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/toolshed/pkg/domain"
)

// WebApplication is the schema.org type used for each tool page.
type WebApplication struct {
	Context             string `json:"@context"`
	Type                string `json:"@type"`
	Name                string `json:"name"`
	Description         string `json:"description"`
	URL                 string `json:"url"`
	ApplicationCategory string `json:"applicationCategory"`
	OperatingSystem     string `json:"operatingSystem"`
	BrowserRequirements string `json:"browserRequirements,omitempty"`
	Keywords            string `json:"keywords,omitempty"`
	IsAccessibleForFree bool   `json:"isAccessibleForFree"`
	Offers              Offer  `json:"offers"`
}

// Offer marks a tool as free of charge.
type Offer struct {
	Type          string `json:"@type"`
	Price         string `json:"price"`
	PriceCurrency string `json:"priceCurrency"`
}

// ItemList is the schema.org list of tools on the index page.
type ItemList struct {
	Context         string     `json:"@context"`
	Type            string     `json:"@type"`
	Name            string     `json:"name"`
	ItemListElement []ListItem `json:"itemListElement"`
}

// ListItem is one ItemList position.
type ListItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	URL      string `json:"url"`
}

// WebApplicationFor describes tool as a free browser application.
func WebApplicationFor(site Site, tool domain.Tool) WebApplication {
	return WebApplication{
		Context:             "https://schema.org",
		Type:                "WebApplication",
		Name:                tool.Title,
		Description:         tool.Description,
		URL:                 CanonicalURL(site.BaseURL, tool.Slug),
		ApplicationCategory: "DeveloperApplication",
		OperatingSystem:     "Any",
		BrowserRequirements: "Requires a modern web browser",
		Keywords:            strings.Join(tool.Keywords, ", "),
		IsAccessibleForFree: true,
		Offers:              Offer{Type: "Offer", Price: "0", PriceCurrency: "USD"},
	}
}

// ItemListFor lists tools in their display order.
func ItemListFor(site Site, tools []domain.Tool) ItemList {
	items := make([]ListItem, len(tools))
	for i, t := range tools {
		items[i] = ListItem{Type: "ListItem", Position: i + 1, Name: t.Title, URL: CanonicalURL(site.BaseURL, t.Slug)}
	}
	return ItemList{Context: "https://schema.org", Type: "ItemList", Name: site.Name, ItemListElement: items}
}

// JSONLD serializes v for a <script type="application/ld+json"> element.
// encoding/json escapes <, > and & so the payload cannot close the script element.
func JSONLD(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode json-ld: %w", err)
	}
	return string(bytes.TrimSpace(buf.Bytes())), nil
}
