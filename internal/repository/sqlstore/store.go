// Package sqlstore implements repository.TableAccessor over database/sql.
//
// The SQL is written once with ? placeholders and rebound per Dialect.
// Backends (sqlite, postgres) open the *sql.DB, apply their schema through
// Migrate and hand the connection to New.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"translatedtext/internal/domain"
)

// Store implements repository.Store for any database/sql backend
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// New wraps an open connection
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// Migrate applies the backend schema
func (s *Store) Migrate(ctx context.Context, schema string) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// DB exposes the underlying connection
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the store's SQL dialect
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// idChunkSize leaves room for the fixed (att_id, langcode) parameters
func (s *Store) idChunkSize() int {
	n := s.dialect.MaxParams() - 2
	if n < 1 {
		n = 1
	}
	return n
}

// Fetch returns the rows of (att, lang) restricted to ids, keyed by entity id
func (s *Store) Fetch(ctx context.Context, att domain.AttributeID, lang domain.LanguageCode, ids []domain.EntityID) (domain.ResultMap, error) {
	result := make(domain.ResultMap, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	for _, chunk := range chunkIDs(ids, s.idChunkSize()) {
		query := s.dialect.Rebind(fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE att_id = ? AND langcode = ? AND item_id IN (%s)
		`, valueColumns, TableName, placeholders(len(chunk))))

		if err := s.fetchInto(ctx, result, query, idArgs([]interface{}{int64(att), string(lang)}, chunk)); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (s *Store) fetchInto(ctx context.Context, result domain.ResultMap, query string, args []interface{}) error {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query values: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r valueRow
		if err := rows.Scan(r.scanArgs()...); err != nil {
			return fmt.Errorf("failed to scan value: %w", err)
		}
		row := r.toDomain()
		result[row.EntityID] = row
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating values: %w", err)
	}
	return nil
}

// DistinctValues returns the distinct values stored for (att, lang), sorted.
// An empty ids slice means no entity filter.
func (s *Store) DistinctValues(ctx context.Context, att domain.AttributeID, lang domain.LanguageCode, ids []domain.EntityID) ([]string, error) {
	seen := make(map[string]struct{})
	fixed := []interface{}{int64(att), string(lang)}

	if len(ids) == 0 {
		query := s.dialect.Rebind(fmt.Sprintf(`
			SELECT DISTINCT value FROM %s WHERE att_id = ? AND langcode = ?
		`, TableName))
		if err := s.distinctInto(ctx, seen, query, fixed); err != nil {
			return nil, err
		}
	} else {
		for _, chunk := range chunkIDs(ids, s.idChunkSize()) {
			query := s.dialect.Rebind(fmt.Sprintf(`
				SELECT DISTINCT value FROM %s
				WHERE att_id = ? AND langcode = ? AND item_id IN (%s)
			`, TableName, placeholders(len(chunk))))
			if err := s.distinctInto(ctx, seen, query, idArgs(fixed, chunk)); err != nil {
				return nil, err
			}
		}
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values, nil
}

func (s *Store) distinctInto(ctx context.Context, seen map[string]struct{}, query string, args []interface{}) error {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query distinct values: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return fmt.Errorf("failed to scan distinct value: %w", err)
		}
		seen[value] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating distinct values: %w", err)
	}
	return nil
}

// Insert adds a new row. The triple must not exist yet.
func (s *Store) Insert(ctx context.Context, row domain.ValueRow) error {
	query := s.dialect.Rebind(fmt.Sprintf(`
		INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?)
	`, TableName, valueColumns))

	_, err := s.db.ExecContext(ctx, query,
		int64(row.AttributeID), string(row.Language), int64(row.EntityID), row.Value, timeToUnix(row.LastModified))
	if err != nil {
		return fmt.Errorf("failed to insert value for item %d: %w", row.EntityID, err)
	}
	return nil
}

// Update rewrites value and tstamp of an existing row
func (s *Store) Update(ctx context.Context, row domain.ValueRow) error {
	query := s.dialect.Rebind(fmt.Sprintf(`
		UPDATE %s SET value = ?, tstamp = ?
		WHERE att_id = ? AND langcode = ? AND item_id = ?
	`, TableName))

	_, err := s.db.ExecContext(ctx, query,
		row.Value, timeToUnix(row.LastModified), int64(row.AttributeID), string(row.Language), int64(row.EntityID))
	if err != nil {
		return fmt.Errorf("failed to update value for item %d: %w", row.EntityID, err)
	}
	return nil
}

// Delete removes the rows of (att, lang) for ids. Missing rows are ignored.
func (s *Store) Delete(ctx context.Context, att domain.AttributeID, lang domain.LanguageCode, ids []domain.EntityID) error {
	if len(ids) == 0 {
		return nil
	}

	for _, chunk := range chunkIDs(ids, s.idChunkSize()) {
		query := s.dialect.Rebind(fmt.Sprintf(`
			DELETE FROM %s WHERE att_id = ? AND langcode = ? AND item_id IN (%s)
		`, TableName, placeholders(len(chunk))))

		if _, err := s.db.ExecContext(ctx, query, idArgs([]interface{}{int64(att), string(lang)}, chunk)...); err != nil {
			return fmt.Errorf("failed to delete values: %w", err)
		}
	}
	return nil
}

// Ping verifies the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
