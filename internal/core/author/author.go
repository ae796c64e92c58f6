package author

import "time"

// Author is a curator-facing profile credited on collections.
// Authors are shared: deleting a collection only unlinks them.
type Author struct {
	ID         int64     `json:"-"`
	ExternalID string    `json:"externalId"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	Bio        *string   `json:"bio"`
	ImageURL   *string   `json:"imageUrl"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CreateInput carries the fields accepted by [Service.Create].
// A nil Slug is derived from Name.
type CreateInput struct {
	Name     string  `json:"name"`
	Slug     *string `json:"slug"`
	Bio      *string `json:"bio"`
	ImageURL *string `json:"imageUrl"`
	Active   *bool   `json:"active"`
}

// UpdateInput carries the fields accepted by [Service.Update].
type UpdateInput struct {
	ExternalID string  `json:"externalId"`
	Name       string  `json:"name"`
	Slug       *string `json:"slug"`
	Bio        *string `json:"bio"`
	ImageURL   *string `json:"imageUrl"`
	Active     *bool   `json:"active"`
}

// ImageURLInput is the single-field image update.
type ImageURLInput struct {
	ExternalID string `json:"externalId"`
	ImageURL   string `json:"imageUrl"`
}

// Global field names for validation
const (
	FieldExternalID = "externalId"
	FieldName       = "name"
	FieldSlug       = "slug"
	FieldBio        = "bio"
	FieldImageURL   = "imageUrl"
)
