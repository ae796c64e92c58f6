package collection

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/collections-api/internal/platform/database/schema"
	"github.com/taibuivan/collections-api/internal/platform/dberr"
	"github.com/taibuivan/collections-api/internal/platform/postgres"
)

// # Story Repository Implementation

/*
FindByExternalID loads a story with its bylines and owning collection ids.

Returns:
  - *Story: The story, authors ordered by sort order
  - error: ErrStoryNotFound when absent
*/
func (repository *PostgresStoryRepository) FindByExternalID(context context.Context, externalID string) (*Story, error) {
	query := fmt.Sprintf(`
		SELECT
			s.%s, s.%s, s.%s, sc.%s, sc.%s,
			s.%s, s.%s, s.%s, s.%s, s.%s, s.%s, s.%s, s.%s, s.%s,
			%s AS authors
		FROM %s s
		JOIN %s sc ON sc.%s = s.%s
		WHERE s.%s = $1
	`,
		schema.CollectionStory.ID, schema.CollectionStory.ExternalID, schema.CollectionStory.CollectionID,
		schema.Collection.ExternalID, schema.Collection.Slug,
		schema.CollectionStory.URL, schema.CollectionStory.Title, schema.CollectionStory.Excerpt,
		schema.CollectionStory.ImageURL, schema.CollectionStory.Publisher, schema.CollectionStory.SortOrder,
		schema.CollectionStory.FromPartner, schema.CollectionStory.CreatedAt, schema.CollectionStory.UpdatedAt,
		storyAuthorsJSON,
		schema.CollectionStory.Table,
		schema.Collection.Table, schema.Collection.ID, schema.CollectionStory.CollectionID,
		schema.CollectionStory.ExternalID,
	)

	s := &Story{}
	var authors []byte
	err := postgres.Conn(context, repository.db).QueryRow(context, query, externalID).Scan(
		&s.ID, &s.ExternalID, &s.CollectionID, &s.CollectionExternalID, &s.CollectionSlug,
		&s.URL, &s.Title, &s.Excerpt, &s.ImageURL, &s.Publisher, &s.SortOrder,
		&s.FromPartner, &s.CreatedAt, &s.UpdatedAt,
		&authors,
	)
	if dberr.IsNoRows(err) {
		return nil, ErrStoryNotFound
	}
	if err != nil {
		return nil, dberr.Wrap(err, "get_story")
	}

	s.Authors = make([]StoryAuthor, 0)
	if err := json.Unmarshal(authors, &s.Authors); err != nil {
		return nil, dberr.Wrap(err, "decode_story_authors")
	}
	return s, nil
}

func (repository *PostgresStoryRepository) URLTaken(context context.Context, collectionID int64, url, excludeExternalID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2 AND %s <> $3)`,
		schema.CollectionStory.Table, schema.CollectionStory.CollectionID,
		schema.CollectionStory.URL, schema.CollectionStory.ExternalID)

	var taken bool
	err := postgres.Conn(context, repository.db).QueryRow(context, query, collectionID, url, excludeExternalID).Scan(&taken)
	return taken, dberr.Wrap(err, "story_url_taken")
}

func (repository *PostgresStoryRepository) Insert(context context.Context, s *Story) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING %s, %s, %s
	`,
		schema.CollectionStory.Table,
		schema.CollectionStory.ExternalID, schema.CollectionStory.CollectionID, schema.CollectionStory.URL,
		schema.CollectionStory.Title, schema.CollectionStory.Excerpt, schema.CollectionStory.ImageURL,
		schema.CollectionStory.Publisher, schema.CollectionStory.SortOrder, schema.CollectionStory.FromPartner,
		schema.CollectionStory.CreatedAt, schema.CollectionStory.UpdatedAt,
		schema.CollectionStory.ID, schema.CollectionStory.CreatedAt, schema.CollectionStory.UpdatedAt,
	)

	err := postgres.Conn(context, repository.db).QueryRow(context, query,
		s.ExternalID, s.CollectionID, s.URL, s.Title, s.Excerpt, s.ImageURL, s.Publisher, s.SortOrder, s.FromPartner,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return dberr.Wrap(err, "create_story")
}

func (repository *PostgresStoryRepository) Update(context context.Context, s *Story) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.CollectionStory.Table,
		schema.CollectionStory.URL, schema.CollectionStory.Title, schema.CollectionStory.Excerpt,
		schema.CollectionStory.ImageURL, schema.CollectionStory.Publisher, schema.CollectionStory.SortOrder,
		schema.CollectionStory.FromPartner, schema.CollectionStory.UpdatedAt,
		schema.CollectionStory.ID,
		schema.CollectionStory.UpdatedAt,
	)

	err := postgres.Conn(context, repository.db).QueryRow(context, query,
		s.ID, s.URL, s.Title, s.Excerpt, s.ImageURL, s.Publisher, s.SortOrder, s.FromPartner,
	).Scan(&s.UpdatedAt)
	if dberr.IsNoRows(err) {
		return ErrStoryNotFound
	}
	return dberr.Wrap(err, "update_story")
}

func (repository *PostgresStoryRepository) updateColumn(context context.Context, storyID int64, column string, value any, action string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.CollectionStory.Table, column, schema.CollectionStory.UpdatedAt, schema.CollectionStory.ID)

	tag, err := postgres.Conn(context, repository.db).Exec(context, query, storyID, value)
	if err != nil {
		return dberr.Wrap(err, action)
	}
	if tag.RowsAffected() == 0 {
		return ErrStoryNotFound
	}
	return nil
}

func (repository *PostgresStoryRepository) UpdateSortOrder(context context.Context, storyID int64, sortOrder int) error {
	return repository.updateColumn(context, storyID, schema.CollectionStory.SortOrder, sortOrder, "update_story_sort_order")
}

func (repository *PostgresStoryRepository) UpdateImageURL(context context.Context, storyID int64, imageURL string) error {
	return repository.updateColumn(context, storyID, schema.CollectionStory.ImageURL, imageURL, "update_story_image_url")
}

// ReplaceAuthors deletes every byline of the story and recreates the given list.
func (repository *PostgresStoryRepository) ReplaceAuthors(context context.Context, storyID int64, authors []StoryAuthor) error {
	conn := postgres.Conn(context, repository.db)

	clearQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CollectionStoryAuthor.Table, schema.CollectionStoryAuthor.StoryID)
	if _, err := conn.Exec(context, clearQuery, storyID); err != nil {
		return dberr.Wrap(err, "clear_story_authors")
	}

	if len(authors) == 0 {
		return nil
	}

	insert := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)`,
		schema.CollectionStoryAuthor.Table, schema.CollectionStoryAuthor.StoryID,
		schema.CollectionStoryAuthor.Name, schema.CollectionStoryAuthor.SortOrder)

	batch := &pgx.Batch{}
	for _, a := range authors {
		batch.Queue(insert, storyID, a.Name, a.SortOrder)
	}

	return dberr.Wrap(conn.SendBatch(context, batch).Close(), "create_story_authors")
}

// Delete removes the story bylines, then the story.
func (repository *PostgresStoryRepository) Delete(context context.Context, storyID int64) error {
	batch := &pgx.Batch{}
	batch.Queue(fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CollectionStoryAuthor.Table, schema.CollectionStoryAuthor.StoryID), storyID)
	batch.Queue(fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CollectionStory.Table, schema.CollectionStory.ID), storyID)

	return dberr.Wrap(postgres.Conn(context, repository.db).SendBatch(context, batch).Close(), "delete_story")
}

// ClearFromPartner resets the partner flag on every story of a collection.
func (repository *PostgresStoryRepository) ClearFromPartner(context context.Context, collectionID int64) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = FALSE, %s = NOW() WHERE %s = $1 AND %s`,
		schema.CollectionStory.Table, schema.CollectionStory.FromPartner, schema.CollectionStory.UpdatedAt,
		schema.CollectionStory.CollectionID, schema.CollectionStory.FromPartner)

	_, err := postgres.Conn(context, repository.db).Exec(context, query, collectionID)
	return dberr.Wrap(err, "clear_story_from_partner")
}
