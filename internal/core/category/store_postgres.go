package category

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/collections-api/internal/platform/apperr"
	"github.com/taibuivan/collections-api/internal/platform/database/schema"
	"github.com/taibuivan/collections-api/internal/platform/dberr"
	"github.com/taibuivan/collections-api/internal/platform/postgres"
)

var (
	ErrCurationNotFound = apperr.NotFound("Curation category")
	ErrIABNotFound      = apperr.NotFound("IAB category")
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListCuration(context context.Context) ([]*CurationCategory, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		ORDER BY %s ASC;
	`,
		schema.CurationCategory.ID,
		schema.CurationCategory.ExternalID,
		schema.CurationCategory.Name,
		schema.CurationCategory.Slug,
		schema.CurationCategory.Table,
		schema.CurationCategory.Name,
	)

	rows, err := postgres.Conn(context, repository.db).Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_curation_categories")
	}
	defer rows.Close()

	categories := make([]*CurationCategory, 0)
	for rows.Next() {
		c := &CurationCategory{}
		if err := rows.Scan(&c.ID, &c.ExternalID, &c.Name, &c.Slug); err != nil {
			return nil, dberr.Wrap(err, "scan_curation_category")
		}
		categories = append(categories, c)
	}

	return categories, nil
}

func (repository *PostgresRepository) ListIAB(context context.Context) ([]*IABCategory, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		ORDER BY %s NULLS FIRST, %s ASC;
	`,
		schema.IABCategory.ID,
		schema.IABCategory.ExternalID,
		schema.IABCategory.Name,
		schema.IABCategory.Slug,
		schema.IABCategory.ParentID,
		schema.IABCategory.Table,
		schema.IABCategory.ParentID,
		schema.IABCategory.Name,
	)

	rows, err := postgres.Conn(context, repository.db).Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_iab_categories")
	}
	defer rows.Close()

	categories := make([]*IABCategory, 0)
	for rows.Next() {
		c := &IABCategory{}
		if err := rows.Scan(&c.ID, &c.ExternalID, &c.Name, &c.Slug, &c.ParentID); err != nil {
			return nil, dberr.Wrap(err, "scan_iab_category")
		}
		categories = append(categories, c)
	}

	return categories, nil
}

func (repository *PostgresRepository) FindCurationByExternalID(context context.Context, externalID string) (*CurationCategory, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s = $1;
	`,
		schema.CurationCategory.ID,
		schema.CurationCategory.ExternalID,
		schema.CurationCategory.Name,
		schema.CurationCategory.Slug,
		schema.CurationCategory.Table,
		schema.CurationCategory.ExternalID,
	)

	c := &CurationCategory{}
	err := postgres.Conn(context, repository.db).QueryRow(context, query, externalID).Scan(&c.ID, &c.ExternalID, &c.Name, &c.Slug)
	if dberr.IsNoRows(err) {
		return nil, ErrCurationNotFound
	}
	if err != nil {
		return nil, dberr.Wrap(err, "get_curation_category")
	}
	return c, nil
}

func (repository *PostgresRepository) FindIABByExternalID(context context.Context, externalID string) (*IABCategory, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1;
	`,
		schema.IABCategory.ID,
		schema.IABCategory.ExternalID,
		schema.IABCategory.Name,
		schema.IABCategory.Slug,
		schema.IABCategory.ParentID,
		schema.IABCategory.Table,
		schema.IABCategory.ExternalID,
	)

	c := &IABCategory{}
	err := postgres.Conn(context, repository.db).QueryRow(context, query, externalID).Scan(&c.ID, &c.ExternalID, &c.Name, &c.Slug, &c.ParentID)
	if dberr.IsNoRows(err) {
		return nil, ErrIABNotFound
	}
	if err != nil {
		return nil, dberr.Wrap(err, "get_iab_category")
	}
	return c, nil
}
