package service

import (
	"context"
	"time"

	"translatedtext/internal/domain"
	"translatedtext/internal/logger"
	"translatedtext/internal/metrics"
	"translatedtext/internal/repository"
)

// Attribute is one translated text attribute. It resolves reads against the
// active language with a single fallback hop and fans writes and deletes out
// over every available language.
type Attribute struct {
	id    domain.AttributeID
	name  string
	store repository.TableAccessor
	model LanguageModel

	events  *EventBus
	metrics *metrics.Metrics
	log     *logger.Logger
	now     func() time.Time
}

// Option configures an Attribute
type Option func(*Attribute)

// WithEventBus publishes value changes on bus
func WithEventBus(bus *EventBus) Option {
	return func(a *Attribute) { a.events = bus }
}

// WithMetrics records fallback activity on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Attribute) { a.metrics = m }
}

// WithLogger sets the logger
func WithLogger(l *logger.Logger) Option {
	return func(a *Attribute) { a.log = l }
}

// WithClock overrides the timestamp source for written rows
func WithClock(now func() time.Time) Option {
	return func(a *Attribute) { a.now = now }
}

// WithName sets a display name
func WithName(name string) Option {
	return func(a *Attribute) { a.name = name }
}

// NewAttribute creates an attribute bound to store and model
func NewAttribute(id domain.AttributeID, store repository.TableAccessor, model LanguageModel, opts ...Option) *Attribute {
	a := &Attribute{
		id:    id,
		store: store,
		model: model,
		log:   logger.Nop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ID returns the attribute id
func (a *Attribute) ID() domain.AttributeID { return a.id }

// Name returns the display name
func (a *Attribute) Name() string { return a.name }

// WriteResult reports how a write was applied for one language
type WriteResult struct {
	Language domain.LanguageCode `json:"language"`
	Updated  []domain.EntityID   `json:"updated"`
	Inserted []domain.EntityID   `json:"inserted"`
}

// ============================================================================
// Read path
// ============================================================================

// GetDataFor resolves ids against the model's active language, falling back
// to the model's fallback language for ids without an active value
func (a *Attribute) GetDataFor(ctx context.Context, ids []domain.EntityID) (domain.ResultMap, error) {
	return a.Resolve(ctx, ids, a.model.ActiveLanguage(ctx), a.model.FallbackLanguage(ctx))
}

// Resolve fetches ids in active, then fetches the unresolved remainder in
// fallback and merges it in by key. An id missing from the result has no
// value in either language.
func (a *Attribute) Resolve(ctx context.Context, ids []domain.EntityID, active, fallback domain.LanguageCode) (domain.ResultMap, error) {
	ids = domain.UniqueIDs(ids)
	if len(ids) == 0 {
		return make(domain.ResultMap), nil
	}

	result, err := a.store.Fetch(ctx, a.id, active, ids)
	if err != nil {
		return nil, err
	}

	if len(result) == len(ids) || active == fallback {
		return result, nil
	}

	remainder := result.Missing(ids)
	fallbackRows, err := a.store.Fetch(ctx, a.id, fallback, remainder)
	if err != nil {
		return nil, err
	}

	a.metrics.RecordFallback(len(remainder), len(fallbackRows))
	a.log.Debug().
		Int64("attribute", int64(a.id)).
		Str("active", string(active)).
		Str("fallback", string(fallback)).
		Int("requested", len(remainder)).
		Int("resolved", len(fallbackRows)).
		Msg("Fallback lookup")

	// remainder only holds ids absent from result, so this never overwrites
	result.Merge(fallbackRows)
	return result, nil
}

// GetTranslatedDataFor returns the rows of exactly lang, without fallback
func (a *Attribute) GetTranslatedDataFor(ctx context.Context, ids []domain.EntityID, lang domain.LanguageCode) (domain.ResultMap, error) {
	ids = domain.UniqueIDs(ids)
	if len(ids) == 0 {
		return make(domain.ResultMap), nil
	}
	return a.store.Fetch(ctx, a.id, lang, ids)
}

// GetFilterOptions returns the distinct values present in the active
// language, optionally restricted to ids. Fallback values are never offered.
func (a *Attribute) GetFilterOptions(ctx context.Context, ids []domain.EntityID) ([]string, error) {
	return a.store.DistinctValues(ctx, a.id, a.model.ActiveLanguage(ctx), domain.UniqueIDs(ids))
}

// ============================================================================
// Write path
// ============================================================================

// SetDataFor stores values in every available language. Languages are
// written one after another; a failure stops the loop and earlier
// languages stay written.
func (a *Attribute) SetDataFor(ctx context.Context, values domain.Values) ([]WriteResult, error) {
	langs := a.model.AvailableLanguages(ctx)
	results := make([]WriteResult, 0, len(langs))
	for _, lang := range langs {
		res, err := a.SetTranslatedDataFor(ctx, values, lang)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// SetTranslatedDataFor stores values in lang. Ids that already have a row
// are updated, the rest inserted, all with a fresh timestamp.
func (a *Attribute) SetTranslatedDataFor(ctx context.Context, values domain.Values, lang domain.LanguageCode) (WriteResult, error) {
	res := WriteResult{Language: lang}
	if len(values) == 0 {
		return res, nil
	}

	ids := values.IDs()
	existing, err := a.store.Fetch(ctx, a.id, lang, ids)
	if err != nil {
		return res, err
	}

	var toInsert []domain.EntityID
	for _, id := range ids {
		if _, ok := existing[id]; ok {
			res.Updated = append(res.Updated, id)
		} else {
			toInsert = append(toInsert, id)
		}
	}

	now := a.now()
	for _, id := range res.Updated {
		if err := a.store.Update(ctx, a.row(lang, id, values[id], now)); err != nil {
			return res, err
		}
	}
	for _, id := range toInsert {
		if err := a.store.Insert(ctx, a.row(lang, id, values[id], now)); err != nil {
			return res, err
		}
		res.Inserted = append(res.Inserted, id)
	}

	a.log.Debug().
		Int64("attribute", int64(a.id)).
		Str("language", string(lang)).
		Int("updated", len(res.Updated)).
		Int("inserted", len(res.Inserted)).
		Msg("Values stored")

	a.events.Publish(Event{
		Type: EventValuesSet,
		Payload: ValuesChanged{
			Attribute: a.id,
			Language:  lang,
			Updated:   res.Updated,
			Inserted:  res.Inserted,
		},
	})

	return res, nil
}

func (a *Attribute) row(lang domain.LanguageCode, id domain.EntityID, value string, ts time.Time) domain.ValueRow {
	return domain.ValueRow{
		AttributeID:  a.id,
		Language:     lang,
		EntityID:     id,
		Value:        value,
		LastModified: ts,
	}
}

// ============================================================================
// Delete path
// ============================================================================

// UnsetDataFor removes the values of ids in every available language
func (a *Attribute) UnsetDataFor(ctx context.Context, ids []domain.EntityID) error {
	for _, lang := range a.model.AvailableLanguages(ctx) {
		if err := a.UnsetValueFor(ctx, ids, lang); err != nil {
			return err
		}
	}
	return nil
}

// UnsetValueFor removes the values of ids in lang. Ids without a row are ignored.
func (a *Attribute) UnsetValueFor(ctx context.Context, ids []domain.EntityID, lang domain.LanguageCode) error {
	ids = domain.UniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}

	if err := a.store.Delete(ctx, a.id, lang, ids); err != nil {
		return err
	}

	a.events.Publish(Event{
		Type: EventValuesUnset,
		Payload: ValuesChanged{
			Attribute: a.id,
			Language:  lang,
			Deleted:   ids,
		},
	})
	return nil
}
