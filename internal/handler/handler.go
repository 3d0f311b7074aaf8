package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"translatedtext/internal/codec"
	"translatedtext/internal/domain"
	"translatedtext/internal/logger"
	"translatedtext/internal/service"
)

// maxBodyBytes bounds request bodies for writes and imports
const maxBodyBytes = 8 << 20

// AttributeHandler serves the value endpoints of every catalog attribute
type AttributeHandler struct {
	catalog   *service.Catalog
	languages service.LanguageModel
	log       *logger.Logger
}

// NewAttributeHandler creates a new attribute handler
func NewAttributeHandler(catalog *service.Catalog, languages service.LanguageModel, log *logger.Logger) *AttributeHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AttributeHandler{
		catalog:   catalog,
		languages: languages,
		log:       log.With("handler"),
	}
}

// Register adds the attribute routes to mux
func (h *AttributeHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/languages", h.ListLanguages)
	mux.HandleFunc("GET /api/attributes", h.ListAttributes)

	// Resolved values across all languages
	mux.HandleFunc("GET /api/attributes/{att}/values", h.GetValues)
	mux.HandleFunc("PUT /api/attributes/{att}/values", h.SetValues)
	mux.HandleFunc("DELETE /api/attributes/{att}/values", h.UnsetValues)
	mux.HandleFunc("GET /api/attributes/{att}/options", h.GetOptions)

	// Single language variants
	mux.HandleFunc("GET /api/attributes/{att}/languages/{lang}/values", h.GetTranslatedValues)
	mux.HandleFunc("PUT /api/attributes/{att}/languages/{lang}/values", h.SetTranslatedValues)
	mux.HandleFunc("DELETE /api/attributes/{att}/languages/{lang}/values", h.UnsetTranslatedValues)
	mux.HandleFunc("GET /api/attributes/{att}/languages/{lang}/export", h.Export)
	mux.HandleFunc("POST /api/attributes/{att}/languages/{lang}/import", h.Import)
}

// ErrorResponse is the JSON body of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// LanguagesResponse describes the configured language context
type LanguagesResponse struct {
	Active    domain.LanguageCode   `json:"active"`
	Fallback  domain.LanguageCode   `json:"fallback"`
	Available []domain.LanguageCode `json:"available"`
}

// AttributeSummary lists one catalog attribute
type AttributeSummary struct {
	ID   domain.AttributeID `json:"id"`
	Name string             `json:"name,omitempty"`
}

// ValuesResponse wraps resolved or single-language rows
type ValuesResponse struct {
	Attribute  domain.AttributeID  `json:"attribute"`
	Language   domain.LanguageCode `json:"language"`
	Fallback   domain.LanguageCode `json:"fallback,omitempty"`
	Values     domain.ResultMap    `json:"values"`
	Unresolved []domain.EntityID   `json:"unresolved,omitempty"`
}

// OptionsResponse lists distinct active-language values
type OptionsResponse struct {
	Attribute domain.AttributeID  `json:"attribute"`
	Language  domain.LanguageCode `json:"language"`
	Options   []string            `json:"options"`
}

// ListLanguages returns the configured language context
func (h *AttributeHandler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.writeJSON(w, LanguagesResponse{
		Active:    h.languages.ActiveLanguage(ctx),
		Fallback:  h.languages.FallbackLanguage(ctx),
		Available: h.languages.AvailableLanguages(ctx),
	}, http.StatusOK)
}

// ListAttributes returns the configured attributes
func (h *AttributeHandler) ListAttributes(w http.ResponseWriter, r *http.Request) {
	attrs := h.catalog.List()
	out := make([]AttributeSummary, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, AttributeSummary{ID: a.ID(), Name: a.Name()})
	}
	h.writeJSON(w, out, http.StatusOK)
}

// GetValues resolves ids with fallback. Optional lang and fallback query
// parameters override the configured languages for this request.
func (h *AttributeHandler) GetValues(w http.ResponseWriter, r *http.Request) {
	attr, ok := h.attribute(w, r)
	if !ok {
		return
	}
	ids, ok := h.entityIDs(w, r)
	if !ok {
		return
	}
	ctx, ok := h.languageContext(w, r)
	if !ok {
		return
	}

	result, err := attr.GetDataFor(ctx, ids)
	if err != nil {
		h.fail(w, "Failed to get values", err)
		return
	}

	h.writeJSON(w, ValuesResponse{
		Attribute:  attr.ID(),
		Language:   h.languages.ActiveLanguage(ctx),
		Fallback:   h.languages.FallbackLanguage(ctx),
		Values:     result,
		Unresolved: result.Missing(domain.UniqueIDs(ids)),
	}, http.StatusOK)
}

// SetValues stores a {"id": "value"} body in every available language
func (h *AttributeHandler) SetValues(w http.ResponseWriter, r *http.Request) {
	attr, ok := h.attribute(w, r)
	if !ok {
		return
	}
	values, ok := h.decodeValues(w, r)
	if !ok {
		return
	}

	results, err := attr.SetDataFor(r.Context(), values)
	if err != nil {
		h.fail(w, "Failed to set values", err)
		return
	}

	h.writeJSON(w, results, http.StatusOK)
}

// UnsetValues deletes ids in every available language
func (h *AttributeHandler) UnsetValues(w http.ResponseWriter, r *http.Request) {
	attr, ok := h.attribute(w, r)
	if !ok {
		return
	}
	ids, ok := h.entityIDs(w, r)
	if !ok {
		return
	}

	if err := attr.UnsetDataFor(r.Context(), ids); err != nil {
		h.fail(w, "Failed to unset values", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetOptions returns distinct active-language values, optionally restricted by ids
func (h *AttributeHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	attr, ok := h.attribute(w, r)
	if !ok {
		return
	}
	ids, ok := h.entityIDs(w, r)
	if !ok {
		return
	}
	ctx, ok := h.languageContext(w, r)
	if !ok {
		return
	}

	options, err := attr.GetFilterOptions(ctx, ids)
	if err != nil {
		h.fail(w, "Failed to get options", err)
		return
	}
	if options == nil {
		options = []string{}
	}

	h.writeJSON(w, OptionsResponse{
		Attribute: attr.ID(),
		Language:  h.languages.ActiveLanguage(ctx),
		Options:   options,
	}, http.StatusOK)
}

// GetTranslatedValues returns the rows of exactly one language
func (h *AttributeHandler) GetTranslatedValues(w http.ResponseWriter, r *http.Request) {
	attr, lang, ok := h.attributeLanguage(w, r)
	if !ok {
		return
	}
	ids, ok := h.entityIDs(w, r)
	if !ok {
		return
	}

	result, err := attr.GetTranslatedDataFor(r.Context(), ids, lang)
	if err != nil {
		h.fail(w, "Failed to get values", err)
		return
	}

	h.writeJSON(w, ValuesResponse{
		Attribute:  attr.ID(),
		Language:   lang,
		Values:     result,
		Unresolved: result.Missing(domain.UniqueIDs(ids)),
	}, http.StatusOK)
}

// SetTranslatedValues stores a {"id": "value"} body in one language
func (h *AttributeHandler) SetTranslatedValues(w http.ResponseWriter, r *http.Request) {
	attr, lang, ok := h.attributeLanguage(w, r)
	if !ok {
		return
	}
	values, ok := h.decodeValues(w, r)
	if !ok {
		return
	}

	result, err := attr.SetTranslatedDataFor(r.Context(), values, lang)
	if err != nil {
		h.fail(w, "Failed to set values", err)
		return
	}

	h.writeJSON(w, result, http.StatusOK)
}

// UnsetTranslatedValues deletes ids in one language
func (h *AttributeHandler) UnsetTranslatedValues(w http.ResponseWriter, r *http.Request) {
	attr, lang, ok := h.attributeLanguage(w, r)
	if !ok {
		return
	}
	ids, ok := h.entityIDs(w, r)
	if !ok {
		return
	}

	if err := attr.UnsetValueFor(r.Context(), ids, lang); err != nil {
		h.fail(w, "Failed to unset values", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Export writes the values of ids in one language as a value set
func (h *AttributeHandler) Export(w http.ResponseWriter, r *http.Request) {
	attr, lang, ok := h.attributeLanguage(w, r)
	if !ok {
		return
	}
	ids, ok := h.entityIDs(w, r)
	if !ok {
		return
	}
	if len(ids) == 0 {
		h.writeError(w, "Entity ids required", "Pass ids=1,2,3 to select the values to export", http.StatusBadRequest)
		return
	}
	c, err := codec.ForFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.fail(w, "Unsupported format", err)
		return
	}

	rows, err := attr.GetTranslatedDataFor(r.Context(), ids, lang)
	if err != nil {
		h.fail(w, "Failed to export values", err)
		return
	}

	w.Header().Set("Content-Type", c.ContentType())
	if err := c.Export(domain.NewValueSetFromRows(attr.ID(), lang, rows), w); err != nil {
		h.log.Error().Err(err).Str("format", c.Format()).Msg("Failed to write export")
	}
}

// Import stores a value set in one language. The path language wins over
// the language recorded in the document.
func (h *AttributeHandler) Import(w http.ResponseWriter, r *http.Request) {
	attr, lang, ok := h.attributeLanguage(w, r)
	if !ok {
		return
	}
	c, err := codec.ForFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.fail(w, "Unsupported format", err)
		return
	}

	set, err := c.Parse(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if set.Attribute != 0 && set.Attribute != attr.ID() {
		h.writeError(w, "Attribute mismatch", "Document belongs to a different attribute", http.StatusBadRequest)
		return
	}

	result, err := attr.SetTranslatedDataFor(r.Context(), set.Values, lang)
	if err != nil {
		h.fail(w, "Failed to import values", err)
		return
	}

	h.writeJSON(w, result, http.StatusOK)
}

func (h *AttributeHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	writeJSON(w, data, statusCode, h.log)
}

func (h *AttributeHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	writeJSON(w, ErrorResponse{Error: error, Details: details}, statusCode, h.log)
}

// fail maps err onto a status code and logs server-side failures
func (h *AttributeHandler) fail(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Msg(msg)
	}
	h.writeError(w, msg, err.Error(), status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownAttribute):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidEntityID),
		errors.Is(err, domain.ErrInvalidLanguage),
		errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int, log *logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON")
	}
}
