// Package codec holds the stateless encoders and decoders of the catalog:
// base64, gzip, URL percent-encoding and JSON/XML/HTML string escaping.
//
// Every decoder returns a *domain.DecodeError on malformed input; encoders never fail.
package codec
