// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package partner manages reusable sponsor profiles that collections are
// associated with through a partnership.
package partner

import "time"

// Partner is a sponsor or editorial partner profile.
type Partner struct {
	ID         int64     `json:"-"`
	ExternalID string    `json:"externalId"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	URL        string    `json:"url"`
	ImageURL   *string   `json:"imageUrl"`
	Blurb      *string   `json:"blurb"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CreateInput is the payload for [Service.Create].
type CreateInput struct {
	Name     string  `json:"name"`
	Slug     *string `json:"slug"`
	URL      string  `json:"url"`
	ImageURL *string `json:"imageUrl"`
	Blurb    *string `json:"blurb"`
}

// UpdateInput is the payload for [Service.Update].
type UpdateInput struct {
	ExternalID string  `json:"externalId"`
	Name       string  `json:"name"`
	Slug       *string `json:"slug"`
	URL        string  `json:"url"`
	ImageURL   *string `json:"imageUrl"`
	Blurb      *string `json:"blurb"`
}

type ImageURLInput struct {
	ExternalID string `json:"externalId"`
	ImageURL   string `json:"imageUrl"`
}

const (
	FieldExternalID = "externalId"
	FieldName       = "name"
	FieldSlug       = "slug"
	FieldURL        = "url"
	FieldImageURL   = "imageUrl"
)
