// Package domain defines the core types of the translated text store.
//
// A ValueRow is one text value for one entity in one language, scoped to an
// attribute. The triple (AttributeID, LanguageCode, EntityID) identifies a
// row; at most one row exists per triple.
//
// # Result shapes
//
// ResultMap is keyed by EntityID and is the return shape of every read.
// Entity ids are meaningful identifiers, never positions, so results are
// merged by key and never re-indexed. A key missing from a ResultMap means
// "no value", not an error.
//
// Values is the write shape: the text to store per entity.
//
// ValueSet bundles the values of one attribute in one language for
// import and export.
package domain
