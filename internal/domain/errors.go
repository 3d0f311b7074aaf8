package domain

import "errors"

var (
	// ErrUnknownAttribute is returned when an attribute id is not configured
	ErrUnknownAttribute = errors.New("unknown attribute")

	// ErrInvalidEntityID is returned when an entity id cannot be parsed
	ErrInvalidEntityID = errors.New("invalid entity id")

	// ErrInvalidLanguage is returned when a language code is not valid BCP 47
	ErrInvalidLanguage = errors.New("invalid language code")

	// ErrUnsupportedFormat is returned by codecs for unknown formats
	ErrUnsupportedFormat = errors.New("unsupported format")
)
