package collection

import (
	"context"
	"time"

	"github.com/taibuivan/collections-api/internal/core/category"
)

// Repository persists the collection row and its link tables.
//
// Reads return fully hydrated aggregates: authors, stories with their ordered
// bylines, labels, categories and the resolved partnership.
type Repository interface {
	FindByExternalID(context context.Context, externalID string) (*Collection, error)
	FindBySlug(context context.Context, slug string) (*Collection, error)
	SlugTaken(context context.Context, slug, excludeExternalID string) (bool, error)

	// Insert writes scalar fields and foreign keys, filling ID and timestamps.
	Insert(context context.Context, collection *Collection) error
	Update(context context.Context, collection *Collection) error
	UpdateImageURL(context context.Context, collectionID int64, imageURL string) error

	// SetAuthors replaces the author links of a collection.
	SetAuthors(context context.Context, collectionID int64, authorIDs []int64) error
	ClearLabels(context context.Context, collectionID int64) error
	AddLabels(context context.Context, collectionID int64, labelIDs []int64, createdBy string, createdAt time.Time) error

	Search(context context.Context, filter SearchFilter, limit, offset int) ([]*Collection, int, error)

	// SlugsByAuthor and SlugsByPartner list collections embedding a shared row.
	SlugsByAuthor(context context.Context, authorID int64) ([]string, error)
	SlugsByPartner(context context.Context, partnerID int64) ([]string, error)

	ListPublished(context context.Context, language category.Language, limit, offset int) ([]*Collection, int, error)

	// Delete removes the collection with its stories, partnership and links.
	Delete(context context.Context, collectionID int64) error
}

type StoryRepository interface {
	FindByExternalID(context context.Context, externalID string) (*Story, error)
	// URLTaken is scoped to one collection.
	URLTaken(context context.Context, collectionID int64, url, excludeExternalID string) (bool, error)
	Insert(context context.Context, story *Story) error
	Update(context context.Context, story *Story) error
	UpdateSortOrder(context context.Context, storyID int64, sortOrder int) error
	UpdateImageURL(context context.Context, storyID int64, imageURL string) error
	ReplaceAuthors(context context.Context, storyID int64, authors []StoryAuthor) error
	Delete(context context.Context, storyID int64) error
	ClearFromPartner(context context.Context, collectionID int64) error
}

type PartnershipRepository interface {
	FindByExternalID(context context.Context, externalID string) (*Partnership, error)
	FindByCollectionExternalID(context context.Context, collectionExternalID string) (*Partnership, error)
	Insert(context context.Context, partnership *Partnership) error
	Update(context context.Context, partnership *Partnership) error
	UpdateImageURL(context context.Context, partnershipID int64, imageURL string) error
	Delete(context context.Context, partnershipID int64) error
}
