// Package text converts letter case, computes text statistics, builds URL
// slugs and renders Markdown to sanitized HTML.
package text
