package domain

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// ParseEntityIDs parses a comma separated id list such as "1,2,3".
// Blank input yields a nil slice.
func ParseEntityIDs(s string) ([]EntityID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	ids := make([]EntityID, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidEntityID, part)
		}
		ids = append(ids, EntityID(n))
	}
	return ids, nil
}

// ParseEntityID parses a single decimal entity id
func ParseEntityID(s string) (EntityID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidEntityID, s)
	}
	return EntityID(n), nil
}

// ParseAttributeID parses a decimal attribute id
func ParseAttributeID(s string) (AttributeID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownAttribute, s)
	}
	return AttributeID(n), nil
}

// ParseLanguage canonicalizes a BCP 47 language code ("de_ch" -> "de-CH")
func ParseLanguage(s string) (LanguageCode, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(s), "_", "-")
	tag, err := language.Parse(normalized)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidLanguage, s, err)
	}
	return LanguageCode(tag.String()), nil
}
