package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultMapMissing(t *testing.T) {
	m := ResultMap{
		1: {EntityID: 1, Value: "a"},
		3: {EntityID: 3, Value: "c"},
	}

	t.Run("returns ids without a row in request order", func(t *testing.T) {
		assert.Equal(t, []EntityID{4, 2}, m.Missing([]EntityID{4, 1, 2, 3}))
	})

	t.Run("returns nil when everything resolved", func(t *testing.T) {
		assert.Nil(t, m.Missing([]EntityID{1, 3}))
	})
}

func TestResultMapMergeKeepsKeys(t *testing.T) {
	m := ResultMap{100: {EntityID: 100, Value: "active"}}
	m.Merge(ResultMap{7: {EntityID: 7, Value: "fallback"}, 42: {EntityID: 42, Value: "fallback"}})

	assert.Len(t, m, 3)
	assert.Equal(t, "active", m[100].Value)
	assert.Equal(t, "fallback", m[7].Value)
	assert.Equal(t, "fallback", m[42].Value)
	assert.Equal(t, []EntityID{7, 42, 100}, m.IDs())
}

func TestResultMapValues(t *testing.T) {
	m := ResultMap{5: {EntityID: 5, Value: "five"}}
	assert.Equal(t, Values{5: "five"}, m.Values())
}

func TestUniqueIDs(t *testing.T) {
	tests := []struct {
		name  string
		input []EntityID
		want  []EntityID
	}{
		{"nil input", nil, nil},
		{"no duplicates", []EntityID{3, 1, 2}, []EntityID{3, 1, 2}},
		{"duplicates keep first occurrence", []EntityID{2, 1, 2, 1, 5}, []EntityID{2, 1, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UniqueIDs(tt.input))
		})
	}
}

func TestParseEntityIDs(t *testing.T) {
	t.Run("parses list with spaces", func(t *testing.T) {
		ids, err := ParseEntityIDs(" 1, 2 ,3,")
		assert.NoError(t, err)
		assert.Equal(t, []EntityID{1, 2, 3}, ids)
	})

	t.Run("blank input is empty", func(t *testing.T) {
		ids, err := ParseEntityIDs("  ")
		assert.NoError(t, err)
		assert.Nil(t, ids)
	})

	t.Run("rejects non numeric", func(t *testing.T) {
		_, err := ParseEntityIDs("1,x")
		assert.ErrorIs(t, err, ErrInvalidEntityID)
	})
}

func TestValueSetFromRows(t *testing.T) {
	rows := ResultMap{
		1: {AttributeID: 9, Language: "en", EntityID: 1, Value: "one"},
		2: {AttributeID: 9, Language: "en", EntityID: 2, Value: "two"},
	}

	vs := NewValueSetFromRows(9, "en", rows)
	assert.Equal(t, AttributeID(9), vs.Attribute)
	assert.Equal(t, LanguageCode("en"), vs.Language)
	assert.Equal(t, Values{1: "one", 2: "two"}, vs.Values)

	vs.Set(3, "three")
	assert.Equal(t, []EntityID{1, 2, 3}, vs.Values.IDs())
}

func TestParseLanguage(t *testing.T) {
	lang, err := ParseLanguage("de_ch")
	require.NoError(t, err)
	assert.Equal(t, LanguageCode("de-CH"), lang)

	lang, err = ParseLanguage("EN")
	require.NoError(t, err)
	assert.Equal(t, LanguageCode("en"), lang)

	_, err = ParseLanguage("not a language!")
	assert.ErrorIs(t, err, ErrInvalidLanguage)
}
