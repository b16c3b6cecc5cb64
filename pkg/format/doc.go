// Package format parses and re-serializes JSON and XML documents, and converts
// between JSON and YAML.
//
// Formatting is idempotent: formatting formatted output at the same indent
// width returns it unchanged.
package format
