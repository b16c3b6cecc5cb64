// Package seo builds the metadata that makes every tool page discoverable:
// titles and descriptions sized for search results, canonical URLs, OpenGraph
// tags, schema.org JSON-LD and the sitemap.
package seo
