// Package generate produces UUIDs, passwords and lorem ipsum text.
//
// UUIDs and passwords draw from crypto/rand. Lorem text is cosmetic and uses
// math/rand/v2, optionally seeded for reproducible output.
package generate
