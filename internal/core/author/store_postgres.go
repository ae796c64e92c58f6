package author

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/collections-api/internal/platform/apperr"
	"github.com/taibuivan/collections-api/internal/platform/database/schema"
	"github.com/taibuivan/collections-api/internal/platform/dberr"
	"github.com/taibuivan/collections-api/internal/platform/postgres"
)

// ErrNotFound is returned when no author matches the external id.
var ErrNotFound = apperr.NotFound("Collection author")

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var selectAuthor = fmt.Sprintf(`
	SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
	FROM %s
`,
	schema.CollectionAuthor.ID, schema.CollectionAuthor.ExternalID, schema.CollectionAuthor.Name,
	schema.CollectionAuthor.Slug, schema.CollectionAuthor.Bio, schema.CollectionAuthor.ImageURL,
	schema.CollectionAuthor.Active, schema.CollectionAuthor.CreatedAt, schema.CollectionAuthor.UpdatedAt,
	schema.CollectionAuthor.Table,
)

type scanner interface {
	Scan(dest ...any) error
}

func scanAuthor(row scanner, a *Author) error {
	return row.Scan(&a.ID, &a.ExternalID, &a.Name, &a.Slug, &a.Bio, &a.ImageURL, &a.Active, &a.CreatedAt, &a.UpdatedAt)
}

func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Author, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, COUNT(*) OVER()
		FROM %s
		ORDER BY %s ASC
		LIMIT $1 OFFSET $2
	`,
		schema.CollectionAuthor.ID, schema.CollectionAuthor.ExternalID, schema.CollectionAuthor.Name,
		schema.CollectionAuthor.Slug, schema.CollectionAuthor.Bio, schema.CollectionAuthor.ImageURL,
		schema.CollectionAuthor.Active, schema.CollectionAuthor.CreatedAt, schema.CollectionAuthor.UpdatedAt,
		schema.CollectionAuthor.Table, schema.CollectionAuthor.Name,
	)

	rows, err := postgres.Conn(context, repository.db).Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_authors")
	}
	defer rows.Close()

	authors := make([]*Author, 0)
	total := 0
	for rows.Next() {
		a := &Author{}
		if err := rows.Scan(&a.ID, &a.ExternalID, &a.Name, &a.Slug, &a.Bio, &a.ImageURL, &a.Active, &a.CreatedAt, &a.UpdatedAt, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_author")
		}
		authors = append(authors, a)
	}

	return authors, total, dberr.Wrap(rows.Err(), "list_authors")
}

func (repository *PostgresRepository) FindByExternalID(context context.Context, externalID string) (*Author, error) {
	query := selectAuthor + fmt.Sprintf(" WHERE %s = $1", schema.CollectionAuthor.ExternalID)

	a := &Author{}
	err := scanAuthor(postgres.Conn(context, repository.db).QueryRow(context, query, externalID), a)
	if dberr.IsNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, dberr.Wrap(err, "get_author")
	}
	return a, nil
}

func (repository *PostgresRepository) SlugTaken(context context.Context, slug, excludeExternalID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s <> $2)`,
		schema.CollectionAuthor.Table, schema.CollectionAuthor.Slug, schema.CollectionAuthor.ExternalID,
	)

	var taken bool
	err := postgres.Conn(context, repository.db).QueryRow(context, query, slug, excludeExternalID).Scan(&taken)
	return taken, dberr.Wrap(err, "author_slug_taken")
}

func (repository *PostgresRepository) Insert(context context.Context, a *Author) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING %s, %s, %s
	`,
		schema.CollectionAuthor.Table, schema.CollectionAuthor.ExternalID, schema.CollectionAuthor.Name,
		schema.CollectionAuthor.Slug, schema.CollectionAuthor.Bio, schema.CollectionAuthor.ImageURL,
		schema.CollectionAuthor.Active, schema.CollectionAuthor.CreatedAt, schema.CollectionAuthor.UpdatedAt,
		schema.CollectionAuthor.ID, schema.CollectionAuthor.CreatedAt, schema.CollectionAuthor.UpdatedAt,
	)

	err := postgres.Conn(context, repository.db).QueryRow(context, query,
		a.ExternalID, a.Name, a.Slug, a.Bio, a.ImageURL, a.Active,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return dberr.Wrap(err, "create_author")
}

func (repository *PostgresRepository) Update(context context.Context, a *Author) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.CollectionAuthor.Table, schema.CollectionAuthor.Name, schema.CollectionAuthor.Slug,
		schema.CollectionAuthor.Bio, schema.CollectionAuthor.ImageURL, schema.CollectionAuthor.Active,
		schema.CollectionAuthor.UpdatedAt, schema.CollectionAuthor.ExternalID, schema.CollectionAuthor.UpdatedAt,
	)

	err := postgres.Conn(context, repository.db).QueryRow(context, query,
		a.ExternalID, a.Name, a.Slug, a.Bio, a.ImageURL, a.Active,
	).Scan(&a.UpdatedAt)
	if dberr.IsNoRows(err) {
		return ErrNotFound
	}
	return dberr.Wrap(err, "update_author")
}

func (repository *PostgresRepository) UpdateImageURL(context context.Context, externalID, imageURL string) (*Author, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = NOW()
		WHERE %s = $1
		RETURNING %s, %s, %s, %s, %s, %s, %s, %s, %s
	`,
		schema.CollectionAuthor.Table, schema.CollectionAuthor.ImageURL, schema.CollectionAuthor.UpdatedAt,
		schema.CollectionAuthor.ExternalID,
		schema.CollectionAuthor.ID, schema.CollectionAuthor.ExternalID, schema.CollectionAuthor.Name,
		schema.CollectionAuthor.Slug, schema.CollectionAuthor.Bio, schema.CollectionAuthor.ImageURL,
		schema.CollectionAuthor.Active, schema.CollectionAuthor.CreatedAt, schema.CollectionAuthor.UpdatedAt,
	)

	a := &Author{}
	err := scanAuthor(postgres.Conn(context, repository.db).QueryRow(context, query, externalID, imageURL), a)
	if dberr.IsNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, dberr.Wrap(err, "update_author_image_url")
	}
	return a, nil
}
