// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package collection implements the curated collection aggregate.

A [Collection] owns its [Story] rows (each with an ordered author list) and an
optional [Partnership]. Authors, partners, labels and categories are shared
entities that a collection only links to.

# Core Responsibility

  - Admin writes: create, update, image, delete, with slug uniqueness, the label
    ceiling and the one-time publish timestamp.
  - Sub-entities: stories and the partnership, written through the same service
    so the aggregate cache stays coherent.
  - Public reads: published collections by slug or language, served through a
    Redis cache and a per-slug request loader.
  - Notification: qualifying writes emit a best-effort event to the bus.
*/
package collection

import (
	"time"

	"github.com/taibuivan/collections-api/internal/core/author"
	"github.com/taibuivan/collections-api/internal/core/category"
	"github.com/taibuivan/collections-api/internal/core/label"
	"github.com/taibuivan/collections-api/internal/core/partner"
	"github.com/taibuivan/collections-api/pkg/pointer"
)

// # Status

// Status is the flat publication state of a collection.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusReview    Status = "review"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Statuses lists every [Status] value.
func Statuses() []string {
	return []string{string(StatusDraft), string(StatusReview), string(StatusPublished), string(StatusArchived)}
}

// notifiable reports whether writes in this status are announced on the bus.
func (s Status) notifiable() bool {
	return s == StatusPublished || s == StatusArchived
}

// # Aggregate

// Collection is the aggregate root returned by every read and write.
type Collection struct {
	ID          int64             `json:"-"`
	ExternalID  string            `json:"externalId"`
	Slug        string            `json:"slug"`
	Title       string            `json:"title"`
	Excerpt     *string           `json:"excerpt"`
	Intro       *string           `json:"intro"`
	ImageURL    *string           `json:"imageUrl"`
	Status      Status            `json:"status"`
	Language    category.Language `json:"language"`
	PublishedAt *time.Time        `json:"publishedAt"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`

	// Foreign keys, written by the repository and never serialized.
	CurationCategoryID  *int64 `json:"-"`
	IABParentCategoryID *int64 `json:"-"`
	IABChildCategoryID  *int64 `json:"-"`

	Authors           []author.Author            `json:"authors"`
	Stories           []Story                    `json:"stories"`
	CurationCategory  *category.CurationCategory `json:"curationCategory"`
	IABParentCategory *category.IABCategory      `json:"IABParentCategory"`
	IABChildCategory  *category.IABCategory      `json:"IABChildCategory"`
	Partnership       *Partnership               `json:"partnership"`
	Labels            []label.Label              `json:"labels"`
}

// # Story

// Story is one article inside a collection.
type Story struct {
	ID           int64  `json:"-"`
	ExternalID   string `json:"externalId"`
	CollectionID int64  `json:"-"`

	// Populated on standalone story reads.
	CollectionExternalID string `json:"collectionExternalId,omitempty"`
	CollectionSlug       string `json:"-"`

	URL         string        `json:"url"`
	Title       string        `json:"title"`
	Excerpt     string        `json:"excerpt"`
	ImageURL    *string       `json:"imageUrl"`
	Publisher   string        `json:"publisher"`
	SortOrder   int           `json:"sortOrder"`
	FromPartner bool          `json:"fromPartner"`
	Authors     []StoryAuthor `json:"authors"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`

	// Item is attached by the public read path only.
	Item *StoryItem `json:"item,omitempty"`
}

// StoryAuthor is a byline owned by exactly one story.
type StoryAuthor struct {
	Name      string `json:"name"`
	SortOrder int    `json:"sortOrder"`
}

// StoryItem references the content item behind a story url.
type StoryItem struct {
	GivenURL string `json:"givenUrl"`
}

// # Partnership

// PartnershipType distinguishes editorial partners from paid sponsors.
type PartnershipType string

const (
	PartnershipPartnered PartnershipType = "PARTNERED"
	PartnershipSponsored PartnershipType = "SPONSORED"
)

// Partnership links one collection to one partner. The exported display
// fields are resolved: each override wins over the partner's own value.
type Partnership struct {
	ID           int64  `json:"-"`
	ExternalID   string `json:"externalId"`
	CollectionID int64  `json:"-"`

	CollectionExternalID string `json:"collectionExternalId,omitempty"`
	CollectionSlug       string `json:"-"`

	Type     PartnershipType `json:"type"`
	Name     string          `json:"name"`
	URL      string          `json:"url"`
	ImageURL *string         `json:"imageUrl"`
	Blurb    *string         `json:"blurb"`

	Partner   partner.Partner `json:"partner"`
	Overrides Overrides       `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Overrides are the per-collection replacements stored on the partnership row.
type Overrides struct {
	Name     *string
	URL      *string
	ImageURL *string
	Blurb    *string
}

// resolve projects the overrides onto the partner's values.
func (p *Partnership) resolve() {
	p.Name = pointer.Fallback(p.Overrides.Name, p.Partner.Name)
	p.URL = pointer.Fallback(p.Overrides.URL, p.Partner.URL)
	p.ImageURL = pointer.Coalesce(p.Overrides.ImageURL, p.Partner.ImageURL)
	p.Blurb = pointer.Coalesce(p.Overrides.Blurb, p.Partner.Blurb)
}

// # Inputs

// CreateInput is the payload of [Service.Create]. Reference fields carry
// external ids.
type CreateInput struct {
	Slug     string            `json:"slug"`
	Title    string            `json:"title"`
	Excerpt  *string           `json:"excerpt"`
	Intro    *string           `json:"intro"`
	ImageURL *string           `json:"imageUrl"`
	Status   Status            `json:"status"`
	Language category.Language `json:"language"`

	AuthorExternalID            string   `json:"authorExternalId"`
	CurationCategoryExternalID  *string  `json:"curationCategoryExternalId"`
	IABParentCategoryExternalID *string  `json:"IABParentCategoryExternalId"`
	IABChildCategoryExternalID  *string  `json:"IABChildCategoryExternalId"`
	LabelExternalIDs            []string `json:"labelExternalIds"`
}

// UpdateInput is the payload of [Service.Update]. Nil Excerpt, Intro and
// ImageURL keep the stored values; nil references disconnect; a nil label
// list clears every label.
type UpdateInput struct {
	ExternalID string            `json:"externalId"`
	Slug       string            `json:"slug"`
	Title      string            `json:"title"`
	Excerpt    *string           `json:"excerpt"`
	Intro      *string           `json:"intro"`
	ImageURL   *string           `json:"imageUrl"`
	Status     Status            `json:"status"`
	Language   category.Language `json:"language"`

	AuthorExternalID            string   `json:"authorExternalId"`
	CurationCategoryExternalID  *string  `json:"curationCategoryExternalId"`
	IABParentCategoryExternalID *string  `json:"IABParentCategoryExternalId"`
	IABChildCategoryExternalID  *string  `json:"IABChildCategoryExternalId"`
	LabelExternalIDs            []string `json:"labelExternalIds"`
}

type ImageURLInput struct {
	ExternalID string `json:"externalId"`
	ImageURL   string `json:"imageUrl"`
}

// SearchFilter narrows [Service.Search]. At least one field must be set.
type SearchFilter struct {
	Author           string
	Title            string
	Status           Status
	LabelExternalIDs []string
}

func (f SearchFilter) empty() bool {
	return f.Author == "" && f.Title == "" && f.Status == "" && len(f.LabelExternalIDs) == 0
}

type CreateStoryInput struct {
	CollectionExternalID string        `json:"collectionExternalId"`
	URL                  string        `json:"url"`
	Title                string        `json:"title"`
	Excerpt              string        `json:"excerpt"`
	ImageURL             *string       `json:"imageUrl"`
	Publisher            string        `json:"publisher"`
	SortOrder            *int          `json:"sortOrder"`
	FromPartner          *bool         `json:"fromPartner"`
	Authors              []StoryAuthor `json:"authors"`
}

// UpdateStoryInput replaces every story field. Nil SortOrder and FromPartner
// reset to their defaults.
type UpdateStoryInput struct {
	ExternalID  string        `json:"externalId"`
	URL         string        `json:"url"`
	Title       string        `json:"title"`
	Excerpt     string        `json:"excerpt"`
	ImageURL    *string       `json:"imageUrl"`
	Publisher   string        `json:"publisher"`
	SortOrder   *int          `json:"sortOrder"`
	FromPartner *bool         `json:"fromPartner"`
	Authors     []StoryAuthor `json:"authors"`
}

type StorySortOrderInput struct {
	ExternalID string `json:"externalId"`
	SortOrder  int    `json:"sortOrder"`
}

type CreatePartnershipInput struct {
	CollectionExternalID string          `json:"collectionExternalId"`
	PartnerExternalID    string          `json:"partnerExternalId"`
	Type                 PartnershipType `json:"type"`
	Name                 *string         `json:"name"`
	URL                  *string         `json:"url"`
	ImageURL             *string         `json:"imageUrl"`
	Blurb                *string         `json:"blurb"`
}

type UpdatePartnershipInput struct {
	ExternalID        string          `json:"externalId"`
	PartnerExternalID string          `json:"partnerExternalId"`
	Type              PartnershipType `json:"type"`
	Name              *string         `json:"name"`
	URL               *string         `json:"url"`
	ImageURL          *string         `json:"imageUrl"`
	Blurb             *string         `json:"blurb"`
}

// Global field names for validation
const (
	FieldExternalID           = "externalId"
	FieldSlug                 = "slug"
	FieldTitle                = "title"
	FieldImageURL             = "imageUrl"
	FieldStatus               = "status"
	FieldLanguage             = "language"
	FieldAuthorExternalID     = "authorExternalId"
	FieldLabelExternalIDs     = "labelExternalIds"
	FieldCollectionExternalID = "collectionExternalId"
	FieldPartnerExternalID    = "partnerExternalId"
	FieldURL                  = "url"
	FieldExcerpt              = "excerpt"
	FieldPublisher            = "publisher"
	FieldAuthors              = "authors"
	FieldSortOrder            = "sortOrder"
	FieldType                 = "type"
	FieldFilters              = "filters"
)
