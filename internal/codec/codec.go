package codec

import (
	"fmt"
	"io"
	"strings"

	"translatedtext/internal/domain"
)

// Importer interface for importing value sets from various formats
type Importer interface {
	Parse(r io.Reader) (*domain.ValueSet, error)
	Format() string
}

// Exporter interface for exporting value sets to various formats
type Exporter interface {
	Export(set *domain.ValueSet, w io.Writer) error
	Format() string
	ContentType() string
}

// Codec both imports and exports one format
type Codec interface {
	Importer
	Exporter
}

// ForFormat returns the codec for a format name. An empty name selects JSON.
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
}
