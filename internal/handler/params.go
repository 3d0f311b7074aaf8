package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"translatedtext/internal/domain"
	"translatedtext/internal/service"
)

// attribute resolves the {att} path value against the catalog
func (h *AttributeHandler) attribute(w http.ResponseWriter, r *http.Request) (*service.Attribute, bool) {
	id, err := domain.ParseAttributeID(r.PathValue("att"))
	if err != nil {
		h.fail(w, "Invalid attribute ID", err)
		return nil, false
	}
	attr, err := h.catalog.Get(id)
	if err != nil {
		h.fail(w, "Not found", err)
		return nil, false
	}
	return attr, true
}

// attributeLanguage resolves {att} and the available language {lang}
func (h *AttributeHandler) attributeLanguage(w http.ResponseWriter, r *http.Request) (*service.Attribute, domain.LanguageCode, bool) {
	attr, ok := h.attribute(w, r)
	if !ok {
		return nil, "", false
	}
	lang, err := h.availableLanguage(r.Context(), r.PathValue("lang"))
	if err != nil {
		h.fail(w, "Invalid language", err)
		return nil, "", false
	}
	return attr, lang, true
}

// languageContext applies the lang and fallback query overrides to the request context
func (h *AttributeHandler) languageContext(w http.ResponseWriter, r *http.Request) (context.Context, bool) {
	ctx := r.Context()
	q := r.URL.Query()
	if q.Get("lang") == "" && q.Get("fallback") == "" {
		return ctx, true
	}

	var active, fallback domain.LanguageCode
	for _, p := range []struct {
		param string
		dst   *domain.LanguageCode
	}{{"lang", &active}, {"fallback", &fallback}} {
		raw := q.Get(p.param)
		if raw == "" {
			continue
		}
		lang, err := h.availableLanguage(ctx, raw)
		if err != nil {
			h.fail(w, "Invalid language", err)
			return nil, false
		}
		*p.dst = lang
	}

	return service.WithLanguages(ctx, active, fallback), true
}

// availableLanguage canonicalizes raw and checks it against the model's language set
func (h *AttributeHandler) availableLanguage(ctx context.Context, raw string) (domain.LanguageCode, error) {
	lang, err := domain.ParseLanguage(raw)
	if err != nil {
		return "", err
	}
	for _, available := range h.languages.AvailableLanguages(ctx) {
		if available == lang {
			return lang, nil
		}
	}
	return "", fmt.Errorf("%w: %q is not an available language", domain.ErrInvalidLanguage, lang)
}

// entityIDs parses the optional ids query parameter
func (h *AttributeHandler) entityIDs(w http.ResponseWriter, r *http.Request) ([]domain.EntityID, bool) {
	ids, err := domain.ParseEntityIDs(r.URL.Query().Get("ids"))
	if err != nil {
		h.fail(w, "Invalid entity IDs", err)
		return nil, false
	}
	return ids, true
}

// decodeValues reads a {"id": "value"} JSON body
func (h *AttributeHandler) decodeValues(w http.ResponseWriter, r *http.Request) (domain.Values, bool) {
	var values domain.Values
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&values); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return values, true
}
