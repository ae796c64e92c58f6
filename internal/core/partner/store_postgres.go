// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package partner

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/collections-api/internal/platform/apperr"
	"github.com/taibuivan/collections-api/internal/platform/database/schema"
	"github.com/taibuivan/collections-api/internal/platform/dberr"
	"github.com/taibuivan/collections-api/internal/platform/postgres"
)

var ErrNotFound = apperr.NotFound("Collection partner")

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// partnerColumns follows the order of [schema.CollectionPartnerTable.Columns].
var partnerColumns = strings.Join(schema.CollectionPartner.Columns(), ", ")

type scanner interface {
	Scan(dest ...any) error
}

func scanPartner(row scanner, p *Partner, extra ...any) error {
	dest := []any{&p.ID, &p.ExternalID, &p.Name, &p.Slug, &p.URL, &p.ImageURL, &p.Blurb, &p.CreatedAt, &p.UpdatedAt}
	return row.Scan(append(dest, extra...)...)
}

func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Partner, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER()
		FROM %s
		ORDER BY %s ASC
		LIMIT $1 OFFSET $2
	`, partnerColumns, schema.CollectionPartner.Table, schema.CollectionPartner.Name)

	rows, err := postgres.Conn(context, repository.db).Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_partners")
	}
	defer rows.Close()

	partners := make([]*Partner, 0)
	total := 0
	for rows.Next() {
		p := &Partner{}
		if err := scanPartner(rows, p, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_partner")
		}
		partners = append(partners, p)
	}

	return partners, total, dberr.Wrap(rows.Err(), "list_partners")
}

func (repository *PostgresRepository) FindByExternalID(context context.Context, externalID string) (*Partner, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		partnerColumns, schema.CollectionPartner.Table, schema.CollectionPartner.ExternalID)

	p := &Partner{}
	err := scanPartner(postgres.Conn(context, repository.db).QueryRow(context, query, externalID), p)
	if dberr.IsNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, dberr.Wrap(err, "get_partner")
	}
	return p, nil
}

func (repository *PostgresRepository) SlugTaken(context context.Context, slug, excludeExternalID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s <> $2)`,
		schema.CollectionPartner.Table, schema.CollectionPartner.Slug, schema.CollectionPartner.ExternalID)

	var taken bool
	err := postgres.Conn(context, repository.db).QueryRow(context, query, slug, excludeExternalID).Scan(&taken)
	return taken, dberr.Wrap(err, "partner_slug_taken")
}

func (repository *PostgresRepository) Insert(context context.Context, p *Partner) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING %s, %s, %s
	`,
		schema.CollectionPartner.Table, schema.CollectionPartner.ExternalID, schema.CollectionPartner.Name,
		schema.CollectionPartner.Slug, schema.CollectionPartner.URL, schema.CollectionPartner.ImageURL,
		schema.CollectionPartner.Blurb, schema.CollectionPartner.CreatedAt, schema.CollectionPartner.UpdatedAt,
		schema.CollectionPartner.ID, schema.CollectionPartner.CreatedAt, schema.CollectionPartner.UpdatedAt,
	)

	err := postgres.Conn(context, repository.db).QueryRow(context, query,
		p.ExternalID, p.Name, p.Slug, p.URL, p.ImageURL, p.Blurb,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return dberr.Wrap(err, "create_partner")
}

func (repository *PostgresRepository) Update(context context.Context, p *Partner) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.CollectionPartner.Table, schema.CollectionPartner.Name, schema.CollectionPartner.Slug,
		schema.CollectionPartner.URL, schema.CollectionPartner.ImageURL, schema.CollectionPartner.Blurb,
		schema.CollectionPartner.UpdatedAt, schema.CollectionPartner.ExternalID, schema.CollectionPartner.UpdatedAt,
	)

	err := postgres.Conn(context, repository.db).QueryRow(context, query,
		p.ExternalID, p.Name, p.Slug, p.URL, p.ImageURL, p.Blurb,
	).Scan(&p.UpdatedAt)
	if dberr.IsNoRows(err) {
		return ErrNotFound
	}
	return dberr.Wrap(err, "update_partner")
}

func (repository *PostgresRepository) UpdateImageURL(context context.Context, externalID, imageURL string) (*Partner, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.CollectionPartner.Table, schema.CollectionPartner.ImageURL, schema.CollectionPartner.UpdatedAt,
		schema.CollectionPartner.ExternalID, partnerColumns,
	)

	p := &Partner{}
	err := scanPartner(postgres.Conn(context, repository.db).QueryRow(context, query, externalID, imageURL), p)
	if dberr.IsNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, dberr.Wrap(err, "update_partner_image_url")
	}
	return p, nil
}
