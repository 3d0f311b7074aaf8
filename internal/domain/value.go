package domain

import (
	"sort"
	"time"
)

// AttributeID identifies the logical field a row belongs to
type AttributeID int64

// LanguageCode identifies a supported language (e.g. "en", "de-CH")
type LanguageCode string

// EntityID identifies the item owning a value. Supplied by callers, never generated.
type EntityID int64

// ValueRow is one stored value, unique per (AttributeID, Language, EntityID)
type ValueRow struct {
	AttributeID  AttributeID  `json:"att_id" yaml:"att_id"`
	Language     LanguageCode `json:"langcode" yaml:"langcode"`
	EntityID     EntityID     `json:"item_id" yaml:"item_id"`
	Value        string       `json:"value" yaml:"value"`
	LastModified time.Time    `json:"tstamp" yaml:"tstamp"`
}

// ResultMap maps entity ids to their resolved rows. An absent key means "no value".
type ResultMap map[EntityID]ValueRow

// Values maps entity ids to the text to store for them
type Values map[EntityID]string

// IDs returns the keys of the result map in ascending order
func (m ResultMap) IDs() []EntityID {
	ids := make([]EntityID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	SortIDs(ids)
	return ids
}

// Values flattens the result map to entity id -> value
func (m ResultMap) Values() Values {
	out := make(Values, len(m))
	for id, row := range m {
		out[id] = row.Value
	}
	return out
}

// Merge copies every row of other into m by key. Existing keys in m are
// overwritten, so callers merging a fallback tier must pass only ids absent from m.
func (m ResultMap) Merge(other ResultMap) {
	for id, row := range other {
		m[id] = row
	}
}

// Missing returns the ids not present as keys in m, preserving input order
func (m ResultMap) Missing(ids []EntityID) []EntityID {
	var missing []EntityID
	for _, id := range ids {
		if _, ok := m[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// IDs returns the keys of the value set in ascending order
func (v Values) IDs() []EntityID {
	ids := make([]EntityID, 0, len(v))
	for id := range v {
		ids = append(ids, id)
	}
	SortIDs(ids)
	return ids
}

// UniqueIDs drops duplicate ids, keeping the first occurrence
func UniqueIDs(ids []EntityID) []EntityID {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[EntityID]struct{}, len(ids))
	out := make([]EntityID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// SortIDs sorts ids ascending in place
func SortIDs(ids []EntityID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
