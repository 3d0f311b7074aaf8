package service

import (
	"context"
	"sync/atomic"

	"translatedtext/internal/domain"
)

// LanguageModel is the host collaborator supplying language context.
// It is consulted on every call and never cached by Attribute.
type LanguageModel interface {
	ActiveLanguage(ctx context.Context) domain.LanguageCode
	FallbackLanguage(ctx context.Context) domain.LanguageCode
	AvailableLanguages(ctx context.Context) []domain.LanguageCode
}

type languageKey struct{}

type languageOverride struct {
	active   domain.LanguageCode
	fallback domain.LanguageCode
}

// WithLanguages attaches per-request active/fallback languages to ctx.
// Empty codes leave the configured default in place.
func WithLanguages(ctx context.Context, active, fallback domain.LanguageCode) context.Context {
	return context.WithValue(ctx, languageKey{}, languageOverride{active: active, fallback: fallback})
}

func overrideFrom(ctx context.Context) languageOverride {
	o, _ := ctx.Value(languageKey{}).(languageOverride)
	return o
}

// StaticLanguages is a LanguageModel with fixed defaults, overridable per
// request through WithLanguages
type StaticLanguages struct {
	Active    domain.LanguageCode
	Fallback  domain.LanguageCode
	Available []domain.LanguageCode
}

var _ LanguageModel = StaticLanguages{}

// ActiveLanguage returns the request override or the default active language
func (s StaticLanguages) ActiveLanguage(ctx context.Context) domain.LanguageCode {
	if o := overrideFrom(ctx); o.active != "" {
		return o.active
	}
	return s.Active
}

// FallbackLanguage returns the request override or the default fallback language
func (s StaticLanguages) FallbackLanguage(ctx context.Context) domain.LanguageCode {
	if o := overrideFrom(ctx); o.fallback != "" {
		return o.fallback
	}
	return s.Fallback
}

// AvailableLanguages returns a copy of the configured language set
func (s StaticLanguages) AvailableLanguages(ctx context.Context) []domain.LanguageCode {
	out := make([]domain.LanguageCode, len(s.Available))
	copy(out, s.Available)
	return out
}

// ReloadableLanguages is a LanguageModel whose defaults can be swapped at
// runtime, e.g. when the config file changes. Request overrides still apply.
type ReloadableLanguages struct {
	current atomic.Pointer[StaticLanguages]
}

var _ LanguageModel = (*ReloadableLanguages)(nil)

// NewReloadableLanguages creates a model starting from initial
func NewReloadableLanguages(initial StaticLanguages) *ReloadableLanguages {
	r := &ReloadableLanguages{}
	r.Store(initial)
	return r
}

// Store replaces the defaults seen by subsequent calls
func (r *ReloadableLanguages) Store(langs StaticLanguages) {
	r.current.Store(&langs)
}

// Load returns the current defaults
func (r *ReloadableLanguages) Load() StaticLanguages {
	return *r.current.Load()
}

func (r *ReloadableLanguages) ActiveLanguage(ctx context.Context) domain.LanguageCode {
	return r.Load().ActiveLanguage(ctx)
}

func (r *ReloadableLanguages) FallbackLanguage(ctx context.Context) domain.LanguageCode {
	return r.Load().FallbackLanguage(ctx)
}

func (r *ReloadableLanguages) AvailableLanguages(ctx context.Context) []domain.LanguageCode {
	return r.Load().AvailableLanguages(ctx)
}
