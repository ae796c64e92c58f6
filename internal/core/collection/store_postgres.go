// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
The PostgreSQL layer hydrates the whole aggregate in one round-trip:

  - JSON Aggregation: authors, stories (with nested bylines), labels,
    categories and the partnership are rendered as json sub-selects.
  - Window Functions: list queries carry COUNT(*) OVER() for the total.
  - Clear and Insert: link tables are replaced through a pgx.Batch.

Every statement runs on [postgres.Conn] so it joins the caller's transaction.
*/
package collection

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/collections-api/internal/core/author"
	"github.com/taibuivan/collections-api/internal/core/category"
	"github.com/taibuivan/collections-api/internal/core/label"
	"github.com/taibuivan/collections-api/internal/core/partner"
	"github.com/taibuivan/collections-api/internal/platform/apperr"
	"github.com/taibuivan/collections-api/internal/platform/database/schema"
	"github.com/taibuivan/collections-api/internal/platform/dberr"
)

var (
	ErrNotFound            = apperr.NotFound("Collection")
	ErrStoryNotFound       = apperr.NotFound("Collection story")
	ErrPartnershipNotFound = apperr.NotFound("Collection partnership")
)

// # PostgreSQL Repositories

// PostgresRepository implements [Repository].
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// PostgresStoryRepository implements [StoryRepository].
type PostgresStoryRepository struct {
	db *pgxpool.Pool
}

func NewPostgresStoryRepository(db *pgxpool.Pool) *PostgresStoryRepository {
	return &PostgresStoryRepository{db: db}
}

// PostgresPartnershipRepository implements [PartnershipRepository].
type PostgresPartnershipRepository struct {
	db *pgxpool.Pool
}

func NewPostgresPartnershipRepository(db *pgxpool.Pool) *PostgresPartnershipRepository {
	return &PostgresPartnershipRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// # Aggregate Projection

// authorsJSON renders the linked authors of collection c.
var authorsJSON = fmt.Sprintf(`COALESCE((
		SELECT json_agg(json_build_object(
			'externalId', a.%s, 'name', a.%s, 'slug', a.%s, 'bio', a.%s,
			'imageUrl', a.%s, 'active', a.%s, 'createdAt', a.%s, 'updatedAt', a.%s
		) ORDER BY a.%s)
		FROM %s a
		JOIN %s al ON al.%s = a.%s
		WHERE al.%s = c.%s
	), '[]')`,
	schema.CollectionAuthor.ExternalID, schema.CollectionAuthor.Name, schema.CollectionAuthor.Slug,
	schema.CollectionAuthor.Bio, schema.CollectionAuthor.ImageURL, schema.CollectionAuthor.Active,
	schema.CollectionAuthor.CreatedAt, schema.CollectionAuthor.UpdatedAt,
	schema.CollectionAuthor.Name,
	schema.CollectionAuthor.Table,
	schema.CollectionAuthorLink.Table, schema.CollectionAuthorLink.AuthorID, schema.CollectionAuthor.ID,
	schema.CollectionAuthorLink.CollectionID, schema.Collection.ID,
)

// storyAuthorsJSON renders the bylines of story s ordered by sort order.
var storyAuthorsJSON = fmt.Sprintf(`COALESCE((
		SELECT json_agg(json_build_object('name', sa.%s, 'sortOrder', sa.%s) ORDER BY sa.%s, sa.%s)
		FROM %s sa
		WHERE sa.%s = s.%s
	), '[]')`,
	schema.CollectionStoryAuthor.Name, schema.CollectionStoryAuthor.SortOrder,
	schema.CollectionStoryAuthor.SortOrder, schema.CollectionStoryAuthor.ID,
	schema.CollectionStoryAuthor.Table,
	schema.CollectionStoryAuthor.StoryID, schema.CollectionStory.ID,
)

var storiesJSON = fmt.Sprintf(`COALESCE((
		SELECT json_agg(json_build_object(
			'externalId', s.%s, 'url', s.%s, 'title', s.%s, 'excerpt', s.%s,
			'imageUrl', s.%s, 'publisher', s.%s, 'sortOrder', s.%s, 'fromPartner', s.%s,
			'createdAt', s.%s, 'updatedAt', s.%s, 'authors', %s
		) ORDER BY s.%s, s.%s)
		FROM %s s
		WHERE s.%s = c.%s
	), '[]')`,
	schema.CollectionStory.ExternalID, schema.CollectionStory.URL, schema.CollectionStory.Title,
	schema.CollectionStory.Excerpt, schema.CollectionStory.ImageURL, schema.CollectionStory.Publisher,
	schema.CollectionStory.SortOrder, schema.CollectionStory.FromPartner,
	schema.CollectionStory.CreatedAt, schema.CollectionStory.UpdatedAt, storyAuthorsJSON,
	schema.CollectionStory.SortOrder, schema.CollectionStory.ID,
	schema.CollectionStory.Table,
	schema.CollectionStory.CollectionID, schema.Collection.ID,
)

var labelsJSON = fmt.Sprintf(`COALESCE((
		SELECT json_agg(json_build_object(
			'externalId', l.%s, 'name', l.%s, 'createdBy', l.%s, 'updatedBy', l.%s,
			'createdAt', l.%s, 'updatedAt', l.%s
		) ORDER BY l.%s)
		FROM %s l
		JOIN %s cl ON cl.%s = l.%s
		WHERE cl.%s = c.%s
	), '[]')`,
	schema.Label.ExternalID, schema.Label.Name, schema.Label.CreatedBy, schema.Label.UpdatedBy,
	schema.Label.CreatedAt, schema.Label.UpdatedAt,
	schema.Label.Name,
	schema.Label.Table,
	schema.CollectionLabel.Table, schema.CollectionLabel.LabelID, schema.Label.ID,
	schema.CollectionLabel.CollectionID, schema.Collection.ID,
)

var curationCategoryJSON = fmt.Sprintf(`(
		SELECT json_build_object('externalId', cc.%s, 'name', cc.%s, 'slug', cc.%s)
		FROM %s cc
		WHERE cc.%s = c.%s
	)`,
	schema.CurationCategory.ExternalID, schema.CurationCategory.Name, schema.CurationCategory.Slug,
	schema.CurationCategory.Table,
	schema.CurationCategory.ID, schema.Collection.CurationCategoryID,
)

// iabCategoryJSON renders the IAB category referenced by column fk of c.
func iabCategoryJSON(fk string) string {
	return fmt.Sprintf(`(
		SELECT json_build_object('externalId', ic.%s, 'name', ic.%s, 'slug', ic.%s)
		FROM %s ic
		WHERE ic.%s = c.%s
	)`,
		schema.IABCategory.ExternalID, schema.IABCategory.Name, schema.IABCategory.Slug,
		schema.IABCategory.Table,
		schema.IABCategory.ID, fk,
	)
}

// partnershipObject renders partnership p with its partner pr and owning
// collection pc. It is shared by the aggregate and the partnership store.
var partnershipObject = fmt.Sprintf(`json_build_object(
		'id', p.%s, 'externalId', p.%s, 'collectionId', p.%s,
		'collectionExternalId', pc.%s, 'collectionSlug', pc.%s,
		'type', p.%s, 'name', p.%s, 'url', p.%s, 'imageUrl', p.%s, 'blurb', p.%s,
		'createdAt', p.%s, 'updatedAt', p.%s,
		'partner', json_build_object(
			'externalId', pr.%s, 'name', pr.%s, 'slug', pr.%s, 'url', pr.%s,
			'imageUrl', pr.%s, 'blurb', pr.%s, 'createdAt', pr.%s, 'updatedAt', pr.%s
		)
	)`,
	schema.CollectionPartnership.ID, schema.CollectionPartnership.ExternalID, schema.CollectionPartnership.CollectionID,
	schema.Collection.ExternalID, schema.Collection.Slug,
	schema.CollectionPartnership.Type, schema.CollectionPartnership.Name, schema.CollectionPartnership.URL,
	schema.CollectionPartnership.ImageURL, schema.CollectionPartnership.Blurb,
	schema.CollectionPartnership.CreatedAt, schema.CollectionPartnership.UpdatedAt,
	schema.CollectionPartner.ExternalID, schema.CollectionPartner.Name, schema.CollectionPartner.Slug,
	schema.CollectionPartner.URL, schema.CollectionPartner.ImageURL, schema.CollectionPartner.Blurb,
	schema.CollectionPartner.CreatedAt, schema.CollectionPartner.UpdatedAt,
)

var partnershipFrom = fmt.Sprintf(`%s p
		JOIN %s pr ON pr.%s = p.%s
		JOIN %s pc ON pc.%s = p.%s`,
	schema.CollectionPartnership.Table,
	schema.CollectionPartner.Table, schema.CollectionPartner.ID, schema.CollectionPartnership.PartnerID,
	schema.Collection.Table, schema.Collection.ID, schema.CollectionPartnership.CollectionID,
)

var partnershipJSON = fmt.Sprintf(`(
		SELECT %s
		FROM %s
		WHERE p.%s = c.%s
	)`, partnershipObject, partnershipFrom, schema.CollectionPartnership.CollectionID, schema.Collection.ID)

// aggregateColumns is the select list scanned by [scanCollection].
var aggregateColumns = fmt.Sprintf(`
		c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s,
		c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s,
		%s AS authors,
		%s AS stories,
		%s AS labels,
		%s AS curation_category,
		%s AS iab_parent_category,
		%s AS iab_child_category,
		%s AS partnership`,
	schema.Collection.ID, schema.Collection.ExternalID, schema.Collection.Slug, schema.Collection.Title,
	schema.Collection.Excerpt, schema.Collection.Intro, schema.Collection.ImageURL, schema.Collection.Status,
	schema.Collection.Language, schema.Collection.PublishedAt, schema.Collection.CurationCategoryID,
	schema.Collection.IABParentCategoryID, schema.Collection.IABChildCategoryID,
	schema.Collection.CreatedAt, schema.Collection.UpdatedAt,
	authorsJSON, storiesJSON, labelsJSON, curationCategoryJSON,
	iabCategoryJSON(schema.Collection.IABParentCategoryID),
	iabCategoryJSON(schema.Collection.IABChildCategoryID),
	partnershipJSON,
)

// aggregateJSON holds the raw json columns of one aggregate row.
type aggregateJSON struct {
	authors          []byte
	stories          []byte
	labels           []byte
	curationCategory []byte
	iabParent        []byte
	iabChild         []byte
	partnership      []byte
}

// partnershipRecord mirrors [partnershipObject].
type partnershipRecord struct {
	ID                   int64           `json:"id"`
	ExternalID           string          `json:"externalId"`
	CollectionID         int64           `json:"collectionId"`
	CollectionExternalID string          `json:"collectionExternalId"`
	CollectionSlug       string          `json:"collectionSlug"`
	Type                 PartnershipType `json:"type"`
	Name                 *string         `json:"name"`
	URL                  *string         `json:"url"`
	ImageURL             *string         `json:"imageUrl"`
	Blurb                *string         `json:"blurb"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
	Partner              partner.Partner `json:"partner"`
}

func (record partnershipRecord) toPartnership() *Partnership {
	p := &Partnership{
		ID:                   record.ID,
		ExternalID:           record.ExternalID,
		CollectionID:         record.CollectionID,
		CollectionExternalID: record.CollectionExternalID,
		CollectionSlug:       record.CollectionSlug,
		Type:                 record.Type,
		Partner:              record.Partner,
		Overrides: Overrides{
			Name:     record.Name,
			URL:      record.URL,
			ImageURL: record.ImageURL,
			Blurb:    record.Blurb,
		},
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
	p.resolve()
	return p
}

func decodePartnership(raw []byte) (*Partnership, error) {
	var record partnershipRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, err
	}
	return record.toPartnership(), nil
}

func (raw aggregateJSON) hydrate(c *Collection) error {
	c.Authors = make([]author.Author, 0)
	c.Stories = make([]Story, 0)
	c.Labels = make([]label.Label, 0)

	if err := json.Unmarshal(raw.authors, &c.Authors); err != nil {
		return err
	}
	if err := json.Unmarshal(raw.stories, &c.Stories); err != nil {
		return err
	}
	for i := range c.Stories {
		c.Stories[i].CollectionID = c.ID
	}
	if err := json.Unmarshal(raw.labels, &c.Labels); err != nil {
		return err
	}

	if len(raw.curationCategory) > 0 {
		c.CurationCategory = &category.CurationCategory{}
		if err := json.Unmarshal(raw.curationCategory, c.CurationCategory); err != nil {
			return err
		}
		c.CurationCategory.ID = derefID(c.CurationCategoryID)
	}
	if len(raw.iabParent) > 0 {
		c.IABParentCategory = &category.IABCategory{}
		if err := json.Unmarshal(raw.iabParent, c.IABParentCategory); err != nil {
			return err
		}
		c.IABParentCategory.ID = derefID(c.IABParentCategoryID)
	}
	if len(raw.iabChild) > 0 {
		c.IABChildCategory = &category.IABCategory{}
		if err := json.Unmarshal(raw.iabChild, c.IABChildCategory); err != nil {
			return err
		}
		c.IABChildCategory.ID = derefID(c.IABChildCategoryID)
	}

	if len(raw.partnership) > 0 {
		p, err := decodePartnership(raw.partnership)
		if err != nil {
			return err
		}
		c.Partnership = p
	}

	return nil
}

func derefID(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}

// scanCollection scans [aggregateColumns] followed by any extra destinations.
func scanCollection(row scanner, c *Collection, extra ...any) error {
	var raw aggregateJSON

	dest := []any{
		&c.ID, &c.ExternalID, &c.Slug, &c.Title, &c.Excerpt, &c.Intro, &c.ImageURL, &c.Status,
		&c.Language, &c.PublishedAt, &c.CurationCategoryID, &c.IABParentCategoryID, &c.IABChildCategoryID,
		&c.CreatedAt, &c.UpdatedAt,
		&raw.authors, &raw.stories, &raw.labels, &raw.curationCategory, &raw.iabParent, &raw.iabChild,
		&raw.partnership,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return err
	}

	if err := raw.hydrate(c); err != nil {
		return fmt.Errorf("postgres: failed to decode collection %s: %w", c.ExternalID, err)
	}
	return nil
}

func scanCollections(rows pgx.Rows) ([]*Collection, int, error) {
	defer rows.Close()

	collections := make([]*Collection, 0)
	total := 0
	for rows.Next() {
		c := &Collection{}
		if err := scanCollection(rows, c, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_collection")
		}
		collections = append(collections, c)
	}

	return collections, total, dberr.Wrap(rows.Err(), "scan_collections")
}

// likePattern wraps s for a substring ILIKE match, escaping its wildcards.
func likePattern(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(s) + "%"
}
