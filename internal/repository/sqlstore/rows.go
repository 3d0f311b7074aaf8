package sqlstore

import (
	"time"

	"translatedtext/internal/domain"
)

// TableName is the value table shared by all backends
const TableName = "translated_text"

// valueColumns is the SELECT column list for value queries
const valueColumns = `att_id, langcode, item_id, value, tstamp`

// valueRow holds all columns from a value query for scanning
type valueRow struct {
	AttributeID int64
	Language    string
	EntityID    int64
	Value       string
	Tstamp      int64
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match valueColumns order exactly:
// att_id, langcode, item_id, value, tstamp
func (r *valueRow) scanArgs() []interface{} {
	return []interface{}{
		&r.AttributeID, // 1
		&r.Language,    // 2
		&r.EntityID,    // 3
		&r.Value,       // 4
		&r.Tstamp,      // 5
	}
}

// toDomain converts the scanned row to a domain.ValueRow
func (r *valueRow) toDomain() domain.ValueRow {
	return domain.ValueRow{
		AttributeID:  domain.AttributeID(r.AttributeID),
		Language:     domain.LanguageCode(r.Language),
		EntityID:     domain.EntityID(r.EntityID),
		Value:        r.Value,
		LastModified: unixToTime(r.Tstamp),
	}
}

// unixToTime converts a stored tstamp to UTC time; 0 maps to the zero time
func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

// timeToUnix converts a row timestamp for storage
func timeToUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

// chunkIDs splits ids into slices of at most size elements
func chunkIDs(ids []domain.EntityID, size int) [][]domain.EntityID {
	if size <= 0 {
		size = len(ids)
	}
	var chunks [][]domain.EntityID
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}

// idArgs prefixes the fixed args to the id list for an IN (...) predicate
func idArgs(fixed []interface{}, ids []domain.EntityID) []interface{} {
	args := make([]interface{}, 0, len(fixed)+len(ids))
	args = append(args, fixed...)
	for _, id := range ids {
		args = append(args, int64(id))
	}
	return args
}
