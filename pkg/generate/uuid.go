package generate

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/toolshed/pkg/domain"
)

// UUIDVersion selects the generation algorithm.
type UUIDVersion string

const (
	UUIDv1  UUIDVersion = "v1"  // time and node based
	UUIDv4  UUIDVersion = "v4"  // random
	UUIDv7  UUIDVersion = "v7"  // Unix-millisecond ordered, random tail
	UUIDNil UUIDVersion = "nil" // all zero
)

// MaxUUIDCount bounds a single batch.
const MaxUUIDCount = 1000

// UUIDOptions configures GenerateUUIDs.
type UUIDOptions struct {
	Version   UUIDVersion
	Count     int // 0 means 1
	Upper     bool
	NoHyphens bool
	Braces    bool
}

// GenerateUUID returns one identifier in canonical 8-4-4-4-12 form.
func GenerateUUID(version UUIDVersion) (string, error) {
	ids, err := GenerateUUIDs(UUIDOptions{Version: version})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// GenerateUUIDs returns opts.Count identifiers. Randomness comes from crypto/rand.
func GenerateUUIDs(opts UUIDOptions) ([]string, error) {
	if opts.Version == "" {
		opts.Version = UUIDv4
	}
	count := opts.Count
	if count == 0 {
		count = 1
	}
	if count < 1 || count > MaxUUIDCount {
		return nil, domain.NewConfigError("count", "must be between 1 and %d, got %d", MaxUUIDCount, count)
	}

	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		id, err := newUUID(opts.Version)
		if err != nil {
			return nil, err
		}
		out = append(out, render(id, opts))
	}
	return out, nil
}

func newUUID(v UUIDVersion) (uuid.UUID, error) {
	var (
		id  uuid.UUID
		err error
	)
	switch UUIDVersion(strings.ToLower(string(v))) {
	case UUIDv1:
		id, err = uuid.NewUUID()
	case UUIDv4:
		id, err = uuid.NewRandom()
	case UUIDv7:
		id, err = uuid.NewV7()
	case UUIDNil:
		return uuid.Nil, nil
	default:
		return uuid.Nil, domain.NewConfigError("version", "unsupported UUID version %q (want v1, v4, v7 or nil)", v)
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("generate uuid %s: %w", v, err)
	}
	return id, nil
}

func render(id uuid.UUID, opts UUIDOptions) string {
	s := id.String()
	if opts.NoHyphens {
		s = strings.ReplaceAll(s, "-", "")
	}
	if opts.Upper {
		s = strings.ToUpper(s)
	}
	if opts.Braces {
		s = "{" + s + "}"
	}
	return s
}

// UUIDInfo describes a parsed identifier.
type UUIDInfo struct {
	Canonical string    `json:"canonical"`
	Version   int       `json:"version"`
	Variant   string    `json:"variant"`
	Time      time.Time `json:"time,omitzero"` // set for v1, v6 and v7
}

// ParseUUID accepts canonical, braced, urn:uuid: and hyphen-less forms.
func ParseUUID(s string) (UUIDInfo, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return UUIDInfo{}, domain.NewDecodeError(domain.ErrInvalidEncoding, -1, err)
	}
	info := UUIDInfo{
		Canonical: id.String(),
		Version:   int(id.Version()),
		Variant:   id.Variant().String(),
	}
	switch info.Version {
	case 1, 6, 7:
		sec, nsec := id.Time().UnixTime()
		info.Time = time.Unix(sec, nsec).UTC()
	}
	return info, nil
}
