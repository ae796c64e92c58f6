package collection

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/collections-api/internal/core/category"
	"github.com/taibuivan/collections-api/internal/platform/database/schema"
	"github.com/taibuivan/collections-api/internal/platform/dberr"
	"github.com/taibuivan/collections-api/internal/platform/postgres"
)

// # Collection Repository Implementation

func (repository *PostgresRepository) findOne(context context.Context, column, value, action string) (*Collection, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s c WHERE c.%s = $1`, aggregateColumns, schema.Collection.Table, column)

	c := &Collection{}
	err := scanCollection(postgres.Conn(context, repository.db).QueryRow(context, query, value), c)
	if dberr.IsNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return c, nil
}

// FindByExternalID loads the fully hydrated aggregate.
func (repository *PostgresRepository) FindByExternalID(context context.Context, externalID string) (*Collection, error) {
	return repository.findOne(context, schema.Collection.ExternalID, externalID, "get_collection")
}

func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Collection, error) {
	return repository.findOne(context, schema.Collection.Slug, slug, "get_collection_by_slug")
}

func (repository *PostgresRepository) SlugTaken(context context.Context, slug, excludeExternalID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s <> $2)`,
		schema.Collection.Table, schema.Collection.Slug, schema.Collection.ExternalID)

	var taken bool
	err := postgres.Conn(context, repository.db).QueryRow(context, query, slug, excludeExternalID).Scan(&taken)
	return taken, dberr.Wrap(err, "collection_slug_taken")
}

func (repository *PostgresRepository) Insert(context context.Context, c *Collection) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s,
			%s, %s, %s, %s, %s, %s
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING %s, %s, %s
	`,
		schema.Collection.Table,
		schema.Collection.ExternalID, schema.Collection.Slug, schema.Collection.Title, schema.Collection.Excerpt,
		schema.Collection.Intro, schema.Collection.ImageURL, schema.Collection.Status, schema.Collection.Language,
		schema.Collection.PublishedAt, schema.Collection.CurationCategoryID, schema.Collection.IABParentCategoryID,
		schema.Collection.IABChildCategoryID, schema.Collection.CreatedAt, schema.Collection.UpdatedAt,
		schema.Collection.ID, schema.Collection.CreatedAt, schema.Collection.UpdatedAt,
	)

	err := postgres.Conn(context, repository.db).QueryRow(context, query,
		c.ExternalID, c.Slug, c.Title, c.Excerpt, c.Intro, c.ImageURL, c.Status, c.Language,
		c.PublishedAt, c.CurationCategoryID, c.IABParentCategoryID, c.IABChildCategoryID,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return dberr.Wrap(err, "create_collection")
}

func (repository *PostgresRepository) Update(context context.Context, c *Collection) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8,
		    %s = $9, %s = $10, %s = $11, %s = $12, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.Collection.Table,
		schema.Collection.Slug, schema.Collection.Title, schema.Collection.Excerpt, schema.Collection.Intro,
		schema.Collection.ImageURL, schema.Collection.Status, schema.Collection.Language,
		schema.Collection.PublishedAt, schema.Collection.CurationCategoryID, schema.Collection.IABParentCategoryID,
		schema.Collection.IABChildCategoryID, schema.Collection.UpdatedAt,
		schema.Collection.ID,
		schema.Collection.UpdatedAt,
	)

	err := postgres.Conn(context, repository.db).QueryRow(context, query,
		c.ID, c.Slug, c.Title, c.Excerpt, c.Intro, c.ImageURL, c.Status, c.Language,
		c.PublishedAt, c.CurationCategoryID, c.IABParentCategoryID, c.IABChildCategoryID,
	).Scan(&c.UpdatedAt)
	if dberr.IsNoRows(err) {
		return ErrNotFound
	}
	return dberr.Wrap(err, "update_collection")
}

func (repository *PostgresRepository) UpdateImageURL(context context.Context, collectionID int64, imageURL string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.Collection.Table, schema.Collection.ImageURL, schema.Collection.UpdatedAt, schema.Collection.ID)

	tag, err := postgres.Conn(context, repository.db).Exec(context, query, collectionID, imageURL)
	if err != nil {
		return dberr.Wrap(err, "update_collection_image_url")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

/*
SetAuthors replaces the author links of a collection.

Description: Clears every link for the collection and queues the new ones in
a single pgx.Batch.
*/
func (repository *PostgresRepository) SetAuthors(context context.Context, collectionID int64, authorIDs []int64) error {
	conn := postgres.Conn(context, repository.db)

	clearQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CollectionAuthorLink.Table, schema.CollectionAuthorLink.CollectionID)
	if _, err := conn.Exec(context, clearQuery, collectionID); err != nil {
		return dberr.Wrap(err, "clear_collection_authors")
	}

	if len(authorIDs) == 0 {
		return nil
	}

	insert := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`,
		schema.CollectionAuthorLink.Table, schema.CollectionAuthorLink.CollectionID, schema.CollectionAuthorLink.AuthorID)

	batch := &pgx.Batch{}
	for _, authorID := range authorIDs {
		batch.Queue(insert, collectionID, authorID)
	}

	return dberr.Wrap(conn.SendBatch(context, batch).Close(), "link_collection_authors")
}

func (repository *PostgresRepository) ClearLabels(context context.Context, collectionID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CollectionLabel.Table, schema.CollectionLabel.CollectionID)

	_, err := postgres.Conn(context, repository.db).Exec(context, query, collectionID)
	return dberr.Wrap(err, "clear_collection_labels")
}

// AddLabels links labels to a collection, recording who attached them.
func (repository *PostgresRepository) AddLabels(context context.Context, collectionID int64, labelIDs []int64, createdBy string, createdAt time.Time) error {
	if len(labelIDs) == 0 {
		return nil
	}

	insert := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)`,
		schema.CollectionLabel.Table, schema.CollectionLabel.CollectionID, schema.CollectionLabel.LabelID,
		schema.CollectionLabel.CreatedBy, schema.CollectionLabel.CreatedAt)

	batch := &pgx.Batch{}
	for _, labelID := range labelIDs {
		batch.Queue(insert, collectionID, labelID, createdBy, createdAt)
	}

	return dberr.Wrap(postgres.Conn(context, repository.db).SendBatch(context, batch).Close(), "link_collection_labels")
}

/*
Search returns collections matching every supplied filter, most recently
updated first.

Description: The author filter keeps a collection only when all of its
authors' names contain the substring. Title and author matches are case
insensitive. Label filters match collections carrying any of the labels.
*/
func (repository *PostgresRepository) Search(context context.Context, filter SearchFilter, limit, offset int) ([]*Collection, int, error) {
	var where strings.Builder
	var args []any
	argID := 1

	where.WriteString("TRUE")

	if filter.Title != "" {
		where.WriteString(fmt.Sprintf(" AND c.%s ILIKE $%d", schema.Collection.Title, argID))
		args = append(args, likePattern(filter.Title))
		argID++
	}

	if filter.Status != "" {
		where.WriteString(fmt.Sprintf(" AND c.%s = $%d", schema.Collection.Status, argID))
		args = append(args, filter.Status)
		argID++
	}

	// Every linked author must match
	if filter.Author != "" {
		where.WriteString(fmt.Sprintf(`
			AND NOT EXISTS (
				SELECT 1 FROM %s al
				JOIN %s a ON a.%s = al.%s
				WHERE al.%s = c.%s AND a.%s NOT ILIKE $%d
			)`,
			schema.CollectionAuthorLink.Table,
			schema.CollectionAuthor.Table, schema.CollectionAuthor.ID, schema.CollectionAuthorLink.AuthorID,
			schema.CollectionAuthorLink.CollectionID, schema.Collection.ID, schema.CollectionAuthor.Name, argID,
		))
		args = append(args, likePattern(filter.Author))
		argID++
	}

	if len(filter.LabelExternalIDs) > 0 {
		where.WriteString(fmt.Sprintf(`
			AND EXISTS (
				SELECT 1 FROM %s cl
				JOIN %s l ON l.%s = cl.%s
				WHERE cl.%s = c.%s AND l.%s = ANY($%d)
			)`,
			schema.CollectionLabel.Table,
			schema.Label.Table, schema.Label.ID, schema.CollectionLabel.LabelID,
			schema.CollectionLabel.CollectionID, schema.Collection.ID, schema.Label.ExternalID, argID,
		))
		args = append(args, filter.LabelExternalIDs)
		argID++
	}

	query := fmt.Sprintf(`SELECT %s, COUNT(*) OVER() FROM %s c WHERE %s ORDER BY c.%s DESC, c.%s DESC LIMIT $%d OFFSET $%d`,
		aggregateColumns, schema.Collection.Table, where.String(),
		schema.Collection.UpdatedAt, schema.Collection.ID, argID, argID+1)

	rows, err := postgres.Conn(context, repository.db).Query(context, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "search_collections")
	}
	return repository.pageWithTotal(context, rows, offset, where.String(), args, "count_search_collections")
}

// ListPublished returns published collections in one language, newest first.
func (repository *PostgresRepository) ListPublished(context context.Context, language category.Language, limit, offset int) ([]*Collection, int, error) {
	where := fmt.Sprintf(`c.%s = $1 AND c.%s = $2`, schema.Collection.Status, schema.Collection.Language)
	args := []any{StatusPublished, language}

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER()
		FROM %s c
		WHERE %s
		ORDER BY c.%s DESC, c.%s DESC
		LIMIT $3 OFFSET $4
	`,
		aggregateColumns, schema.Collection.Table, where,
		schema.Collection.PublishedAt, schema.Collection.ID,
	)

	rows, err := postgres.Conn(context, repository.db).Query(context, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_published_collections")
	}
	return repository.pageWithTotal(context, rows, offset, where, args, "count_published_collections")
}

// pastLastPage reports whether an empty page was requested beyond the first,
// where COUNT(*) OVER() yields no row to read the total from.
func pastLastPage(found, offset int) bool {
	return found == 0 && offset > 0
}

// pageWithTotal scans a page. The window count is absent when the page lies
// past the end, so the total is then counted separately.
func (repository *PostgresRepository) pageWithTotal(context context.Context, rows pgx.Rows, offset int, where string, args []any, action string) ([]*Collection, int, error) {
	collections, total, err := scanCollections(rows)
	if err != nil || !pastLastPage(len(collections), offset) {
		return collections, total, err
	}

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s c WHERE %s`, schema.Collection.Table, where)
	if err := postgres.Conn(context, repository.db).QueryRow(context, query, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, action)
	}
	return collections, total, nil
}

func (repository *PostgresRepository) SlugsByAuthor(context context.Context, authorID int64) ([]string, error) {
	query := fmt.Sprintf(`SELECT c.%s FROM %s c JOIN %s al ON al.%s = c.%s WHERE al.%s = $1`,
		schema.Collection.Slug, schema.Collection.Table,
		schema.CollectionAuthorLink.Table, schema.CollectionAuthorLink.CollectionID, schema.Collection.ID,
		schema.CollectionAuthorLink.AuthorID,
	)
	return repository.slugs(context, query, authorID, "collection_slugs_by_author")
}

func (repository *PostgresRepository) SlugsByPartner(context context.Context, partnerID int64) ([]string, error) {
	query := fmt.Sprintf(`SELECT c.%s FROM %s c JOIN %s p ON p.%s = c.%s WHERE p.%s = $1`,
		schema.Collection.Slug, schema.Collection.Table,
		schema.CollectionPartnership.Table, schema.CollectionPartnership.CollectionID, schema.Collection.ID,
		schema.CollectionPartnership.PartnerID,
	)
	return repository.slugs(context, query, partnerID, "collection_slugs_by_partner")
}

func (repository *PostgresRepository) slugs(context context.Context, query string, id int64, action string) ([]string, error) {
	rows, err := postgres.Conn(context, repository.db).Query(context, query, id)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}

	slugs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return slugs, nil
}

/*
Delete removes a collection and everything it owns.

Description: Story bylines, stories, the partnership, label links and author
links are removed before the collection row, in one batch. Shared authors,
partners, labels and categories are untouched.
*/
func (repository *PostgresRepository) Delete(context context.Context, collectionID int64) error {
	batch := &pgx.Batch{}

	batch.Queue(fmt.Sprintf(`DELETE FROM %s WHERE %s IN (SELECT %s FROM %s WHERE %s = $1)`,
		schema.CollectionStoryAuthor.Table, schema.CollectionStoryAuthor.StoryID,
		schema.CollectionStory.ID, schema.CollectionStory.Table, schema.CollectionStory.CollectionID,
	), collectionID)
	batch.Queue(fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CollectionStory.Table, schema.CollectionStory.CollectionID), collectionID)
	batch.Queue(fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CollectionPartnership.Table, schema.CollectionPartnership.CollectionID), collectionID)
	batch.Queue(fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CollectionLabel.Table, schema.CollectionLabel.CollectionID), collectionID)
	batch.Queue(fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CollectionAuthorLink.Table, schema.CollectionAuthorLink.CollectionID), collectionID)
	batch.Queue(fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.Collection.Table, schema.Collection.ID), collectionID)

	return dberr.Wrap(postgres.Conn(context, repository.db).SendBatch(context, batch).Close(), "delete_collection")
}
