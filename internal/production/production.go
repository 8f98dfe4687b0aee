package production

import (
	"regexp"
	"strings"
)

// Record is a single production entry as decoded from JSON.
//
// Records carry an open field set: editors add fields freely, and automated
// merges must round-trip fields they know nothing about. A map keeps unknown
// fields intact where a struct schema would drop them.
type Record map[string]any

// AsRecord converts a decoded JSON value to a Record.
// Returns false for anything that is not a JSON object.
func AsRecord(v any) (Record, bool) {
	switch m := v.(type) {
	case Record:
		return m, true
	case map[string]any:
		return Record(m), true
	default:
		return nil, false
	}
}

// ID returns the record's id, or "" if the id is missing, empty,
// or not a string.
func (r Record) ID() string {
	id, _ := r[FieldID].(string)

	return id
}

// StringField returns the named field as a string, or "" if absent
// or not a string.
func (r Record) StringField(name string) string {
	s, _ := r[name].(string)

	return s
}

// Themes returns the record's themes as a string slice.
// Returns false if the field is absent or not a sequence of strings.
func (r Record) Themes() ([]string, bool) {
	return themeList(r[FieldThemes])
}

// NeedsEditorial reports whether the record is flagged for editorial review.
func (r Record) NeedsEditorial() bool {
	b, _ := r[FieldNeedsEditorial].(bool)

	return b
}

func themeList(v any) ([]string, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}

	themes := make([]string, len(items))

	for i, item := range items {
		s, isStr := item.(string)
		if !isStr {
			return nil, false
		}

		themes[i] = s
	}

	return themes, true
}

// slugPattern matches ids like "hamlet-rsc-barbican-2025".
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// IsSlug reports whether id is in the canonical slug form used by the
// candidate discovery pipeline.
func IsSlug(id string) bool {
	return slugPattern.MatchString(id)
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slug builds a canonical id from descriptive parts, lowercasing and
// collapsing runs of non-alphanumeric characters to single hyphens.
func Slug(parts ...string) string {
	base := strings.ToLower(strings.Join(parts, " "))

	return strings.Trim(nonSlugChars.ReplaceAllString(base, "-"), "-")
}
