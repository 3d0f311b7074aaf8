package service

import (
	"fmt"
	"sort"

	"translatedtext/internal/domain"
	"translatedtext/internal/repository"
)

// AttributeDef declares one attribute served by the catalog
type AttributeDef struct {
	ID   domain.AttributeID
	Name string
}

// Catalog holds the configured attributes, all sharing one store and model
type Catalog struct {
	attrs map[domain.AttributeID]*Attribute
}

// NewCatalog creates an Attribute per definition
func NewCatalog(store repository.TableAccessor, model LanguageModel, defs []AttributeDef, opts ...Option) *Catalog {
	c := &Catalog{attrs: make(map[domain.AttributeID]*Attribute, len(defs))}
	for _, def := range defs {
		attrOpts := append([]Option{WithName(def.Name)}, opts...)
		c.attrs[def.ID] = NewAttribute(def.ID, store, model, attrOpts...)
	}
	return c
}

// Get returns the attribute with id
func (c *Catalog) Get(id domain.AttributeID) (*Attribute, error) {
	a, ok := c.attrs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrUnknownAttribute, id)
	}
	return a, nil
}

// List returns all attributes ordered by id
func (c *Catalog) List() []*Attribute {
	out := make([]*Attribute, 0, len(c.attrs))
	for _, a := range c.attrs {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}
