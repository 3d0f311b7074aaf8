package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"translatedtext/internal/domain"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// ContentType returns the HTTP content type for exports
func (c *JSONCodec) ContentType() string {
	return "application/json"
}

// Parse imports a value set from JSON
func (c *JSONCodec) Parse(r io.Reader) (*domain.ValueSet, error) {
	var set domain.ValueSet
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&set); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if set.Values == nil {
		set.Values = make(domain.Values)
	}

	return &set, nil
}

// Export exports a value set to JSON
func (c *JSONCodec) Export(set *domain.ValueSet, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(set); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
