package codec

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/toolshed/pkg/domain"
)

// DefaultMaxDecompressedSize bounds Gunzip output (64 MiB).
const DefaultMaxDecompressedSize = 64 << 20

// GzipOptions configures compression and decompression.
type GzipOptions struct {
	// Level is 1 (fastest) to 9 (best); 0 means gzip.DefaultCompression.
	Level int
	// MaxSize caps the decompressed size; 0 means DefaultMaxDecompressedSize.
	MaxSize int64
}

// GzipCompress compresses data with default options.
func GzipCompress(data []byte) []byte {
	out, _ := GzipCompressWith(data, GzipOptions{})
	return out
}

// GzipCompressWith compresses data as a single RFC 1952 member.
// Header name, comment and mtime are left empty so output only depends on input and level.
func GzipCompressWith(data []byte, opts GzipOptions) ([]byte, error) {
	level := opts.Level
	if level == 0 {
		level = gzip.DefaultCompression
	} else if level < gzip.BestSpeed || level > gzip.BestCompression {
		return nil, domain.NewConfigError("level", "must be between %d and %d, got %d", gzip.BestSpeed, gzip.BestCompression, level)
	}

	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("gzip writer: %w", err)
	}
	// Writes to a bytes.Buffer cannot fail.
	_, _ = zw.Write(data)
	_ = zw.Close()
	return buf.Bytes(), nil
}

// GzipDecompress decompresses a gzip stream with default options.
func GzipDecompress(data []byte) ([]byte, error) {
	return GzipDecompressWith(data, GzipOptions{})
}

// GzipDecompressWith decompresses one or more concatenated gzip members.
// Zero-length input yields empty output.
func GzipDecompressWith(data []byte, opts GzipOptions) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	limit := opts.MaxSize
	if limit <= 0 {
		limit = DefaultMaxDecompressedSize
	}

	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, domain.NewDecodeError(domain.ErrInvalidStream, 0, streamCause(err))
	}
	defer zr.Close()

	var out bytes.Buffer
	n, err := io.Copy(&out, io.LimitReader(zr, limit+1))
	if err != nil {
		return nil, domain.NewDecodeError(domain.ErrInvalidStream, -1, streamCause(err))
	}
	if n > limit {
		return nil, domain.NewDecodeError(domain.ErrInvalidStream, -1, fmt.Errorf("decompressed size exceeds %d bytes", limit))
	}
	return out.Bytes(), nil
}

func streamCause(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
