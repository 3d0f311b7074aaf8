package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"translatedtext/internal/domain"
	"translatedtext/internal/metrics"
	"translatedtext/internal/repository"
	"translatedtext/internal/repository/sqlite"
)

// ============================================================================
// Test Helpers
// ============================================================================

type fetchCall struct {
	lang domain.LanguageCode
	ids  []domain.EntityID
}

// countingAccessor records every call before delegating
type countingAccessor struct {
	next    repository.TableAccessor
	fetches []fetchCall
	inserts []domain.EntityID
	updates []domain.EntityID
	deletes int
	failOn  string
}

var errInjected = errors.New("injected store failure")

func (c *countingAccessor) Fetch(ctx context.Context, att domain.AttributeID, lang domain.LanguageCode, ids []domain.EntityID) (domain.ResultMap, error) {
	c.fetches = append(c.fetches, fetchCall{lang: lang, ids: ids})
	if c.failOn == "fetch:"+string(lang) {
		return nil, errInjected
	}
	return c.next.Fetch(ctx, att, lang, ids)
}

func (c *countingAccessor) DistinctValues(ctx context.Context, att domain.AttributeID, lang domain.LanguageCode, ids []domain.EntityID) ([]string, error) {
	return c.next.DistinctValues(ctx, att, lang, ids)
}

func (c *countingAccessor) Insert(ctx context.Context, row domain.ValueRow) error {
	c.inserts = append(c.inserts, row.EntityID)
	if c.failOn == "insert:"+string(row.Language) {
		return errInjected
	}
	return c.next.Insert(ctx, row)
}

func (c *countingAccessor) Update(ctx context.Context, row domain.ValueRow) error {
	c.updates = append(c.updates, row.EntityID)
	return c.next.Update(ctx, row)
}

func (c *countingAccessor) Delete(ctx context.Context, att domain.AttributeID, lang domain.LanguageCode, ids []domain.EntityID) error {
	c.deletes++
	return c.next.Delete(ctx, att, lang, ids)
}

func (c *countingAccessor) reset() {
	c.fetches = nil
	c.inserts = nil
	c.updates = nil
	c.deletes = 0
}

const testAttr = domain.AttributeID(7)

var testLanguages = StaticLanguages{
	Active:    "en",
	Fallback:  "de",
	Available: []domain.LanguageCode{"en", "de"},
}

func newTestAttribute(t *testing.T, opts ...Option) (*Attribute, *countingAccessor) {
	t.Helper()
	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	acc := &countingAccessor{next: repo}
	return NewAttribute(testAttr, acc, testLanguages, opts...), acc
}

// seedLang writes values in one language and clears the call log
func seedLang(t *testing.T, a *Attribute, acc *countingAccessor, lang domain.LanguageCode, values domain.Values) {
	t.Helper()
	_, err := a.SetTranslatedDataFor(context.Background(), values, lang)
	require.NoError(t, err)
	acc.reset()
}

// ============================================================================
// Read path
// ============================================================================

func TestResolvePrefersActiveAndFallsBack(t *testing.T) {
	ctx := context.Background()
	a, acc := newTestAttribute(t)
	seedLang(t, a, acc, "en", domain.Values{1: "one", 2: "two"})
	seedLang(t, a, acc, "de", domain.Values{2: "zwei", 3: "drei"})

	got, err := a.Resolve(ctx, []domain.EntityID{1, 2, 3, 4}, "en", "de")
	require.NoError(t, err)

	assert.Equal(t, domain.Values{1: "one", 2: "two", 3: "drei"}, got.Values())
	assert.Equal(t, domain.LanguageCode("en"), got[2].Language)
	assert.Equal(t, domain.LanguageCode("de"), got[3].Language)

	require.Len(t, acc.fetches, 2)
	assert.Equal(t, domain.LanguageCode("de"), acc.fetches[1].lang)
	assert.ElementsMatch(t, []domain.EntityID{3, 4}, acc.fetches[1].ids, "fallback only asks for the remainder")
}

func TestResolveSkipsFallbackWhenAllResolved(t *testing.T) {
	ctx := context.Background()
	a, acc := newTestAttribute(t)
	seedLang(t, a, acc, "en", domain.Values{1: "one", 2: "two"})

	got, err := a.Resolve(ctx, []domain.EntityID{1, 2}, "en", "de")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Len(t, acc.fetches, 1)
}

func TestResolveSameLanguageIssuesOneQuery(t *testing.T) {
	ctx := context.Background()
	a, acc := newTestAttribute(t)
	seedLang(t, a, acc, "en", domain.Values{1: "one"})

	got, err := a.Resolve(ctx, []domain.EntityID{1, 2}, "en", "en")
	require.NoError(t, err)
	assert.Equal(t, domain.Values{1: "one"}, got.Values())
	assert.Len(t, acc.fetches, 1)
}

func TestResolveEmptyInputSkipsStore(t *testing.T) {
	a, acc := newTestAttribute(t)

	got, err := a.Resolve(context.Background(), nil, "en", "de")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, acc.fetches)
}

func TestResolveDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	a, acc := newTestAttribute(t)
	seedLang(t, a, acc, "en", domain.Values{1: "one"})

	got, err := a.Resolve(ctx, []domain.EntityID{1, 1, 1}, "en", "de")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Len(t, acc.fetches, 1, "duplicates must not trigger a fallback query")
}

func TestResolvePropagatesStoreErrors(t *testing.T) {
	ctx := context.Background()
	a, acc := newTestAttribute(t)

	acc.failOn = "fetch:de"
	_, err := a.Resolve(ctx, []domain.EntityID{1}, "en", "de")
	assert.ErrorIs(t, err, errInjected)

	acc.failOn = "fetch:en"
	_, err = a.Resolve(ctx, []domain.EntityID{1}, "en", "de")
	assert.ErrorIs(t, err, errInjected)
}

func TestResolveRecordsFallbackMetrics(t *testing.T) {
	ctx := context.Background()
	m := metrics.New()
	a, acc := newTestAttribute(t, WithMetrics(m))
	seedLang(t, a, acc, "de", domain.Values{2: "zwei"})

	_, err := a.Resolve(ctx, []domain.EntityID{1, 2}, "en", "de")
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbackLookupsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FallbackIDsRequested))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbackIDsResolved))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UnresolvedIDsTotal))
}

func TestGetDataForUsesModelLanguages(t *testing.T) {
	a, acc := newTestAttribute(t)
	seedLang(t, a, acc, "en", domain.Values{1: "one"})
	seedLang(t, a, acc, "de", domain.Values{1: "eins", 2: "zwei"})

	t.Run("configured defaults", func(t *testing.T) {
		got, err := a.GetDataFor(context.Background(), []domain.EntityID{1, 2})
		require.NoError(t, err)
		assert.Equal(t, domain.Values{1: "one", 2: "zwei"}, got.Values())
	})

	t.Run("request override", func(t *testing.T) {
		ctx := WithLanguages(context.Background(), "de", "en")
		got, err := a.GetDataFor(ctx, []domain.EntityID{1, 2})
		require.NoError(t, err)
		assert.Equal(t, domain.Values{1: "eins", 2: "zwei"}, got.Values())
	})
}

func TestGetTranslatedDataForHasNoFallback(t *testing.T) {
	a, acc := newTestAttribute(t)
	seedLang(t, a, acc, "de", domain.Values{1: "eins"})

	got, err := a.GetTranslatedDataFor(context.Background(), []domain.EntityID{1}, "en")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Len(t, acc.fetches, 1)
}

// ============================================================================
// Write path
// ============================================================================

func TestSetTranslatedDataForPartitions(t *testing.T) {
	ctx := context.Background()
	a, acc := newTestAttribute(t)
	seedLang(t, a, acc, "en", domain.Values{2: "old"})

	res, err := a.SetTranslatedDataFor(ctx, domain.Values{1: "x", 2: "y", 3: "z"}, "en")
	require.NoError(t, err)

	assert.Equal(t, []domain.EntityID{2}, acc.updates)
	assert.ElementsMatch(t, []domain.EntityID{1, 3}, acc.inserts)
	assert.Equal(t, []domain.EntityID{2}, res.Updated)
	assert.ElementsMatch(t, []domain.EntityID{1, 3}, res.Inserted)

	got, err := a.GetTranslatedDataFor(ctx, []domain.EntityID{1, 2, 3}, "en")
	require.NoError(t, err)
	assert.Equal(t, domain.Values{1: "x", 2: "y", 3: "z"}, got.Values())
}

func TestSetTranslatedDataForRefreshesTimestamp(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	a, acc := newTestAttribute(t, WithClock(func() time.Time { return clock }))
	seedLang(t, a, acc, "en", domain.Values{1: "first"})

	clock = clock.Add(time.Hour)
	_, err := a.SetTranslatedDataFor(ctx, domain.Values{1: "second"}, "en")
	require.NoError(t, err)

	got, err := a.GetTranslatedDataFor(ctx, []domain.EntityID{1}, "en")
	require.NoError(t, err)
	assert.Equal(t, "second", got[1].Value)
	assert.True(t, got[1].LastModified.Equal(clock))
}

func TestSetTranslatedDataForEmptyIsNoop(t *testing.T) {
	a, acc := newTestAttribute(t)

	res, err := a.SetTranslatedDataFor(context.Background(), nil, "en")
	require.NoError(t, err)
	assert.Empty(t, res.Inserted)
	assert.Empty(t, acc.fetches)
}

func TestSetDataForWritesEveryLanguage(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAttribute(t)

	results, err := a.SetDataFor(ctx, domain.Values{1: "a", 2: "b"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, domain.LanguageCode("en"), results[0].Language)
	assert.Equal(t, domain.LanguageCode("de"), results[1].Language)

	for _, lang := range testLanguages.Available {
		got, err := a.GetTranslatedDataFor(ctx, []domain.EntityID{1, 2}, lang)
		require.NoError(t, err)
		assert.Equal(t, domain.Values{1: "a", 2: "b"}, got.Values(), lang)
	}
}

func TestSetDataForIsIdempotent(t *testing.T) {
	ctx := context.Background()
	a, acc := newTestAttribute(t)
	values := domain.Values{1: "a", 2: "b"}

	_, err := a.SetDataFor(ctx, values)
	require.NoError(t, err)
	first, err := a.GetTranslatedDataFor(ctx, []domain.EntityID{1, 2}, "de")
	require.NoError(t, err)

	acc.reset()
	results, err := a.SetDataFor(ctx, values)
	require.NoError(t, err)
	assert.Empty(t, acc.inserts, "second write only updates")
	for _, res := range results {
		assert.ElementsMatch(t, []domain.EntityID{1, 2}, res.Updated)
	}

	second, err := a.GetTranslatedDataFor(ctx, []domain.EntityID{1, 2}, "de")
	require.NoError(t, err)
	assert.Equal(t, first.Values(), second.Values())
}

func TestSetDataForStopsOnFailure(t *testing.T) {
	ctx := context.Background()
	a, acc := newTestAttribute(t)
	acc.failOn = "insert:de"

	results, err := a.SetDataFor(ctx, domain.Values{1: "a"})
	assert.ErrorIs(t, err, errInjected)
	require.Len(t, results, 1, "english was written before the failure")

	got, err := a.GetTranslatedDataFor(ctx, []domain.EntityID{1}, "en")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

// ============================================================================
// Delete path
// ============================================================================

func TestWriteDeleteResolveIsEmpty(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAttribute(t)

	_, err := a.SetDataFor(ctx, domain.Values{1: "a", 2: "b"})
	require.NoError(t, err)
	require.NoError(t, a.UnsetDataFor(ctx, []domain.EntityID{1, 2}))

	got, err := a.Resolve(ctx, []domain.EntityID{1, 2}, "en", "de")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUnsetValueForIsIdempotentAndScoped(t *testing.T) {
	ctx := context.Background()
	a, acc := newTestAttribute(t)
	seedLang(t, a, acc, "en", domain.Values{1: "a"})
	seedLang(t, a, acc, "de", domain.Values{1: "a-de"})

	require.NoError(t, a.UnsetValueFor(ctx, []domain.EntityID{1, 99}, "en"))
	require.NoError(t, a.UnsetValueFor(ctx, []domain.EntityID{1}, "en"))

	got, err := a.GetTranslatedDataFor(ctx, []domain.EntityID{1}, "de")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestUnsetEmptyIDsSkipsStore(t *testing.T) {
	a, acc := newTestAttribute(t)

	require.NoError(t, a.UnsetDataFor(context.Background(), nil))
	assert.Zero(t, acc.deletes)
}

// ============================================================================
// Filter options
// ============================================================================

func TestGetFilterOptionsIgnoresFallback(t *testing.T) {
	ctx := context.Background()
	a, acc := newTestAttribute(t)
	seedLang(t, a, acc, "en", domain.Values{1: "red", 2: "blue", 3: "red"})
	seedLang(t, a, acc, "de", domain.Values{4: "only-fallback"})

	got, err := a.GetFilterOptions(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"blue", "red"}, got)

	got, err = a.GetFilterOptions(ctx, []domain.EntityID{2, 4})
	require.NoError(t, err)
	assert.Equal(t, []string{"blue"}, got)
}

// ============================================================================
// Events
// ============================================================================

func TestWritesPublishEvents(t *testing.T) {
	ctx := context.Background()
	bus := NewEventBus()
	ch := make(chan Event, 8)
	bus.Subscribe(ch)
	a, _ := newTestAttribute(t, WithEventBus(bus))

	_, err := a.SetTranslatedDataFor(ctx, domain.Values{1: "a"}, "en")
	require.NoError(t, err)
	require.NoError(t, a.UnsetValueFor(ctx, []domain.EntityID{1}, "en"))

	set := <-ch
	assert.Equal(t, EventValuesSet, set.Type)
	assert.Equal(t, []domain.EntityID{1}, set.Payload.(ValuesChanged).Inserted)

	unset := <-ch
	assert.Equal(t, EventValuesUnset, unset.Type)
	assert.Equal(t, []domain.EntityID{1}, unset.Payload.(ValuesChanged).Deleted)
}
