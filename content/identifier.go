package content

import (
	"strconv"
	"strings"
)

// SlugMinLength is the length a non-numeric post identifier must exceed to be treated as a slug.
const SlugMinLength = 10

// LookupKind says how a raw identifier is resolved.
type LookupKind int

const (
	// ByID resolves a numeric primary key.
	ByID LookupKind = iota
	// BySlug resolves the unique slug.
	BySlug
	// ByDefault resolves the document ID; short non-numeric strings end up here.
	ByDefault
	// ByEmail resolves an author's email address.
	ByEmail
)

func (k LookupKind) String() string {
	switch k {
	case ByID:
		return "id"
	case BySlug:
		return "slug"
	case ByEmail:
		return "email"
	default:
		return "default"
	}
}

// Lookup is a classified identifier.
type Lookup struct {
	Kind LookupKind
	ID   uint
	Raw  string
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func numeric(raw string) Lookup {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || uint64(uint(id)) != id {
		// Out of range ids can never match a row.
		return Lookup{Kind: ByDefault, Raw: raw}
	}
	return Lookup{Kind: ByID, ID: uint(id), Raw: raw}
}

// PostLookup classifies a blog post identifier: all digits is an id, anything else
// longer than SlugMinLength is a slug, and the rest falls through to the default lookup.
func PostLookup(raw string) Lookup {
	switch {
	case isDigits(raw):
		return numeric(raw)
	case len(raw) > SlugMinLength:
		return Lookup{Kind: BySlug, Raw: raw}
	default:
		return Lookup{Kind: ByDefault, Raw: raw}
	}
}

// SlugLookup is an explicit slug lookup.
func SlugLookup(slug string) Lookup {
	return Lookup{Kind: BySlug, Raw: slug}
}

// TaxonomyLookup classifies a category or tag identifier: a non-numeric value
// containing '-' is a slug, anything else takes the default id lookup.
func TaxonomyLookup(raw string) Lookup {
	if !isDigits(raw) && strings.Contains(raw, "-") {
		return Lookup{Kind: BySlug, Raw: raw}
	}
	if isDigits(raw) {
		return numeric(raw)
	}
	return Lookup{Kind: ByDefault, Raw: raw}
}

// AuthorLookup classifies an author identifier: anything containing '@' is an email.
func AuthorLookup(raw string) Lookup {
	if strings.Contains(raw, "@") {
		return Lookup{Kind: ByEmail, Raw: raw}
	}
	if isDigits(raw) {
		return numeric(raw)
	}
	return Lookup{Kind: ByDefault, Raw: raw}
}
