/*
Package category holds the read-only taxonomies collections are filed under.

# Core Responsibility

  - Curation: the flat editorial [CurationCategory] list.
  - IAB: the two-level [IABCategory] topic tree (parents with nested children).
  - Languages: the fixed set of [Language] values a collection may be written in.

Categories are seeded by migrations and never written through the API.
*/
package category

// # Curation Domain

// CurationCategory is an editorial grouping for collections.
type CurationCategory struct {
	ID         int64  `json:"-"`
	ExternalID string `json:"externalId"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
}

// # IAB Domain

// IABCategory is a node of the IAB content taxonomy. Exactly one level of
// nesting exists: a child's ParentID always points at a root.
type IABCategory struct {
	ID         int64  `json:"-"`
	ExternalID string `json:"externalId"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	ParentID   *int64 `json:"-"`

	// Children is populated only by the tree listing.
	Children []*IABCategory `json:"children,omitempty"`
}

// # Language Domain

// Language is the language a collection is written in.
type Language string

const (
	LanguageEN Language = "EN"
	LanguageDE Language = "DE"
)

// Languages lists every supported [Language] in display order.
func Languages() []Language {
	return []Language{LanguageEN, LanguageDE}
}

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	for _, known := range Languages() {
		if l == known {
			return true
		}
	}
	return false
}
