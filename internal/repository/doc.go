// Package repository defines the data access interfaces for translatedtext.
//
// TableAccessor is the only contract the fallback resolver depends on. It
// executes parameterized reads, writes and deletes against a table keyed by
// (att_id, langcode, item_id) and returns rows keyed by entity id.
//
// # Implementations
//
// The sqlstore subpackage holds the SQL shared by all backends. The sqlite
// and postgres subpackages open a connection, migrate the schema and return
// a ready store.
//
// Instrumented decorates any TableAccessor with Prometheus metrics and
// debug logging.
//
// # Empty id sets
//
// A query with an empty IN () predicate is malformed in SQL. Implementations
// short-circuit empty id sets before building any statement.
package repository
