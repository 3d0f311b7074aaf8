// Package handler implements the HTTP API for translatedtext.
//
// AttributeHandler exposes each configured attribute under
// /api/attributes/{att}. Reads resolve against the active language and fall
// back once; the lang and fallback query parameters override the configured
// languages for a single request. Writes and deletes without a language
// segment apply to every available language, while the
// /languages/{lang}/ routes touch exactly one.
//
// Errors are returned as JSON with an {error, details} body. Unknown
// attributes map to 404; malformed ids, languages and formats map to 400.
//
// Middleware provides panic recovery, CORS and request logging with a
// request id.
package handler
