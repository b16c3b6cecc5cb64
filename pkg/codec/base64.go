package codec

import (
	"encoding/base64"
	"errors"

	"github.com/aretw0/toolshed/pkg/domain"
)

// Base64Variant selects the alphabet and padding.
type Base64Variant string

const (
	Base64Std    Base64Variant = "std"
	Base64URL    Base64Variant = "url"
	Base64RawStd Base64Variant = "raw-std"
	Base64RawURL Base64Variant = "raw-url"
)

func (v Base64Variant) encoding() (*base64.Encoding, error) {
	switch v {
	case "", Base64Std:
		return base64.StdEncoding, nil
	case Base64URL:
		return base64.URLEncoding, nil
	case Base64RawStd:
		return base64.RawStdEncoding, nil
	case Base64RawURL:
		return base64.RawURLEncoding, nil
	}
	return nil, domain.NewConfigError("variant", "unknown base64 variant %q", string(v))
}

// Base64Encode encodes data with the standard padded alphabet.
func Base64Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Base64Decode decodes standard padded base64. CR and LF are ignored.
func Base64Decode(s string) ([]byte, error) {
	return decodeBase64(base64.StdEncoding, s)
}

// Base64EncodeVariant encodes data using variant.
func Base64EncodeVariant(data []byte, variant Base64Variant) (string, error) {
	enc, err := variant.encoding()
	if err != nil {
		return "", err
	}
	return enc.EncodeToString(data), nil
}

// Base64DecodeVariant decodes s using variant.
func Base64DecodeVariant(s string, variant Base64Variant) ([]byte, error) {
	enc, err := variant.encoding()
	if err != nil {
		return nil, err
	}
	return decodeBase64(enc, s)
}

func decodeBase64(enc *base64.Encoding, s string) ([]byte, error) {
	out, err := enc.DecodeString(s)
	if err != nil {
		offset := -1
		var corrupt base64.CorruptInputError
		if errors.As(err, &corrupt) {
			offset = int(corrupt)
		}
		return nil, domain.NewDecodeError(domain.ErrInvalidEncoding, offset, err)
	}
	return out, nil
}
