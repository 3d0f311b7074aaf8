// Package service implements the fallback resolver for translated text
// attributes.
//
// # Attribute
//
// Attribute is bound to one AttributeID, one TableAccessor and one
// LanguageModel, all injected at construction.
//
// Reads (GetDataFor, Resolve) fetch the active language first, compute the
// ids still unresolved, fetch only those in the fallback language and merge
// the two results by entity id. When every id resolved, or the active and
// fallback languages are the same, no second query is issued.
//
// Writes (SetDataFor, SetTranslatedDataFor) classify each entity id as
// existing or new for the target language and issue an update or an insert
// accordingly. SetDataFor repeats this for every available language.
//
// Deletes (UnsetDataFor, UnsetValueFor) remove rows per language and are
// idempotent.
//
// GetFilterOptions lists the distinct values of the active language only.
//
// # Languages
//
// LanguageModel supplies the active, fallback and available languages. It is
// asked on every call. StaticLanguages serves configured defaults and honours
// per-request overrides set with WithLanguages. ReloadableLanguages swaps
// its defaults at runtime when the config file changes.
//
// # Event System
//
// Writes and deletes publish values_set / values_unset events on an EventBus
// for delivery to SSE clients.
//
// There is no transaction spanning languages: a failure part way through
// SetDataFor or UnsetDataFor leaves earlier languages applied. Store errors
// are returned unchanged.
package service
