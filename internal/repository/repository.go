package repository

import (
	"context"

	"translatedtext/internal/domain"
)

// TableAccessor is the parameterized access to the translated value table.
// Rows are keyed by (attribute, language, entity). Every method must accept
// an empty id set: Fetch returns an empty map and Delete is a no-op, neither
// issuing a query. DistinctValues treats an empty set as "no id filter".
type TableAccessor interface {
	// Read operations
	Fetch(ctx context.Context, att domain.AttributeID, lang domain.LanguageCode, ids []domain.EntityID) (domain.ResultMap, error)
	DistinctValues(ctx context.Context, att domain.AttributeID, lang domain.LanguageCode, ids []domain.EntityID) ([]string, error)

	// Write operations
	Insert(ctx context.Context, row domain.ValueRow) error
	Update(ctx context.Context, row domain.ValueRow) error
	Delete(ctx context.Context, att domain.AttributeID, lang domain.LanguageCode, ids []domain.EntityID) error
}

// Store is a TableAccessor backed by a closable connection
type Store interface {
	TableAccessor

	Ping(ctx context.Context) error
	Close() error
}
