package codec

import (
	"fmt"
	"io"

	"translatedtext/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// ContentType returns the HTTP content type for exports
func (c *YAMLCodec) ContentType() string {
	return "application/yaml"
}

// yamlValueSet lists entries in entity order so exports diff cleanly
type yamlValueSet struct {
	Attribute int64       `yaml:"attribute"`
	Language  string      `yaml:"language"`
	Entries   []yamlEntry `yaml:"entries"`
}

type yamlEntry struct {
	ID    int64  `yaml:"id"`
	Value string `yaml:"value"`
}

// Parse imports a value set from YAML. A repeated id keeps the last value.
func (c *YAMLCodec) Parse(r io.Reader) (*domain.ValueSet, error) {
	var yv yamlValueSet
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&yv); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	set := domain.NewValueSet(domain.AttributeID(yv.Attribute), domain.LanguageCode(yv.Language))
	for _, entry := range yv.Entries {
		set.Set(domain.EntityID(entry.ID), entry.Value)
	}

	return set, nil
}

// Export exports a value set to YAML
func (c *YAMLCodec) Export(set *domain.ValueSet, w io.Writer) error {
	yv := yamlValueSet{
		Attribute: int64(set.Attribute),
		Language:  string(set.Language),
		Entries:   make([]yamlEntry, 0, len(set.Values)),
	}

	for _, id := range set.Values.IDs() {
		yv.Entries = append(yv.Entries, yamlEntry{ID: int64(id), Value: set.Values[id]})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&yv); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
