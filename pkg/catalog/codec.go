package catalog

import (
	"context"

	"github.com/aretw0/toolshed/pkg/codec"
	"github.com/aretw0/toolshed/pkg/domain"
)

type base64Input struct {
	Text    string `mapstructure:"text"`
	Variant string `mapstructure:"variant"`
}

type gzipInput struct {
	Text  string `mapstructure:"text"`
	Data  string `mapstructure:"data"`
	Level int    `mapstructure:"level"`
}

type urlInput struct {
	Text string `mapstructure:"text"`
	Mode string `mapstructure:"mode"`
}

type escapeInput struct {
	Text   string `mapstructure:"text"`
	Format string `mapstructure:"format"`
}

var (
	variantParam = domain.Param{
		Name: "variant", Type: domain.ParamString, Default: "std",
		Description: "Alphabet and padding.",
		Enum:        []string{"std", "url", "raw-std", "raw-url"},
	}
	urlModeParam = domain.Param{
		Name: "mode", Type: domain.ParamString, Default: "component",
		Description: "component encodes space as %20, form as '+'.",
		Enum:        []string{"component", "form"},
	}
	escapeFormatParam = domain.Param{
		Name: "format", Type: domain.ParamString, Default: "json",
		Description: "Target syntax.",
		Enum:        []string{"json", "xml", "html"},
	}
)

func codecTools() []Definition {
	return []Definition{
		{
			Tool: domain.Tool{
				Name: "base64-encode", Slug: "base64-encoder", Title: "Base64 Encoder",
				Description: "Encode text to Base64 using the standard or URL-safe alphabet.",
				Category:    domain.CategoryCodec,
				Keywords:    []string{"base64", "encode", "rfc 4648"},
				Params:      []domain.Param{textParam("Text to encode."), variantParam},
			},
			Fn: handler(func(_ context.Context, in base64Input) (any, error) {
				return codec.Base64EncodeVariant([]byte(in.Text), codec.Base64Variant(in.Variant))
			}),
		},
		{
			Tool: domain.Tool{
				Name: "base64-decode", Slug: "base64-decoder", Title: "Base64 Decoder",
				Description: "Decode Base64 back to text. Binary output is shown as hex.",
				Category:    domain.CategoryCodec,
				Keywords:    []string{"base64", "decode"},
				Params:      []domain.Param{textParam("Base64 input. Whitespace and line breaks are ignored."), variantParam},
			},
			Fn: handler(func(_ context.Context, in base64Input) (any, error) {
				b, err := codec.Base64DecodeVariant(in.Text, codec.Base64Variant(in.Variant))
				if err != nil {
					return nil, err
				}
				return bytesResult(b), nil
			}),
		},
		{
			Tool: domain.Tool{
				Name: "gzip-compress", Slug: "gzip-compressor", Title: "Gzip Compressor",
				Description: "Compress text with gzip and return the stream as Base64.",
				Category:    domain.CategoryCodec,
				Keywords:    []string{"gzip", "compress", "deflate"},
				Params: []domain.Param{
					textParam("Text to compress."),
					{Name: "level", Type: domain.ParamInteger, Default: 0, Description: "1 (fastest) to 9 (smallest); 0 is the default level."},
				},
			},
			Fn: handler(func(_ context.Context, in gzipInput) (any, error) {
				out, err := codec.GzipCompressWith([]byte(in.Text), codec.GzipOptions{Level: in.Level})
				if err != nil {
					return nil, err
				}
				return codec.Base64Encode(out), nil
			}),
		},
		{
			Tool: domain.Tool{
				Name: "gzip-decompress", Slug: "gzip-decompressor", Title: "Gzip Decompressor",
				Description: "Decompress a Base64 encoded gzip stream.",
				Category:    domain.CategoryCodec,
				Keywords:    []string{"gzip", "gunzip", "decompress"},
				Params: []domain.Param{
					{Name: "data", Type: domain.ParamString, Required: true, Description: "Base64 encoded gzip stream."},
				},
			},
			Fn: handler(func(_ context.Context, in gzipInput) (any, error) {
				raw, err := codec.Base64Decode(in.Data)
				if err != nil {
					return nil, err
				}
				out, err := codec.GzipDecompress(raw)
				if err != nil {
					return nil, err
				}
				return bytesResult(out), nil
			}),
		},
		{
			Tool: domain.Tool{
				Name: "url-encode", Slug: "url-encoder", Title: "URL Encoder",
				Description: "Percent-encode text for use in a URL component or form body.",
				Category:    domain.CategoryCodec,
				Keywords:    []string{"url", "percent", "encodeURIComponent"},
				Params:      []domain.Param{textParam("Text to encode."), urlModeParam},
			},
			Fn: handler(func(_ context.Context, in urlInput) (any, error) {
				return codec.URLEncodeMode(in.Text, codec.URLMode(in.Mode))
			}),
		},
		{
			Tool: domain.Tool{
				Name: "url-decode", Slug: "url-decoder", Title: "URL Decoder",
				Description: "Decode percent-encoded text.",
				Category:    domain.CategoryCodec,
				Keywords:    []string{"url", "percent", "decodeURIComponent"},
				Params:      []domain.Param{textParam("Encoded text."), urlModeParam},
			},
			Fn: handler(func(_ context.Context, in urlInput) (any, error) {
				return codec.URLDecodeMode(in.Text, codec.URLMode(in.Mode))
			}),
		},
		{
			Tool: domain.Tool{
				Name: "escape", Slug: "string-escaper", Title: "String Escaper",
				Description: "Escape text for a JSON string literal, XML or HTML.",
				Category:    domain.CategoryCodec,
				Keywords:    []string{"escape", "json", "xml", "html", "entities"},
				Params:      []domain.Param{textParam("Text to escape."), escapeFormatParam},
			},
			Fn: handler(func(_ context.Context, in escapeInput) (any, error) {
				f, err := codec.ParseEscapeFormat(in.Format)
				if err != nil {
					return nil, err
				}
				return codec.Escape(f, in.Text), nil
			}),
		},
		{
			Tool: domain.Tool{
				Name: "unescape", Slug: "string-unescaper", Title: "String Unescaper",
				Description: "Resolve JSON escape sequences or XML/HTML entities.",
				Category:    domain.CategoryCodec,
				Keywords:    []string{"unescape", "json", "xml", "html", "entities"},
				Params:      []domain.Param{textParam("Escaped text."), escapeFormatParam},
			},
			Fn: handler(func(_ context.Context, in escapeInput) (any, error) {
				f, err := codec.ParseEscapeFormat(in.Format)
				if err != nil {
					return nil, err
				}
				return codec.Unescape(f, in.Text)
			}),
		},
	}
}
