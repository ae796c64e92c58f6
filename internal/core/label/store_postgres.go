// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package label

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/collections-api/internal/platform/apperr"
	"github.com/taibuivan/collections-api/internal/platform/database/schema"
	"github.com/taibuivan/collections-api/internal/platform/dberr"
	"github.com/taibuivan/collections-api/internal/platform/postgres"
)

var ErrNotFound = apperr.NotFound("Label")

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var selectLabel = fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s, %s FROM %s`,
	schema.Label.ID, schema.Label.ExternalID, schema.Label.Name, schema.Label.CreatedBy,
	schema.Label.UpdatedBy, schema.Label.CreatedAt, schema.Label.UpdatedAt, schema.Label.Table,
)

func scanLabels(rows pgx.Rows) ([]*Label, error) {
	defer rows.Close()

	labels := make([]*Label, 0)
	for rows.Next() {
		l := &Label{}
		if err := rows.Scan(&l.ID, &l.ExternalID, &l.Name, &l.CreatedBy, &l.UpdatedBy, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_label")
		}
		labels = append(labels, l)
	}
	return labels, dberr.Wrap(rows.Err(), "scan_labels")
}

func (repository *PostgresRepository) List(context context.Context) ([]*Label, error) {
	query := selectLabel + fmt.Sprintf(" ORDER BY %s ASC", schema.Label.Name)

	rows, err := postgres.Conn(context, repository.db).Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_labels")
	}
	return scanLabels(rows)
}

func (repository *PostgresRepository) FindByExternalID(context context.Context, externalID string) (*Label, error) {
	query := selectLabel + fmt.Sprintf(" WHERE %s = $1", schema.Label.ExternalID)

	l := &Label{}
	err := postgres.Conn(context, repository.db).QueryRow(context, query, externalID).
		Scan(&l.ID, &l.ExternalID, &l.Name, &l.CreatedBy, &l.UpdatedBy, &l.CreatedAt, &l.UpdatedAt)
	if dberr.IsNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, dberr.Wrap(err, "get_label")
	}
	return l, nil
}

func (repository *PostgresRepository) FindByExternalIDs(context context.Context, externalIDs []string) ([]*Label, error) {
	if len(externalIDs) == 0 {
		return []*Label{}, nil
	}

	query := selectLabel + fmt.Sprintf(" WHERE %s = ANY($1)", schema.Label.ExternalID)

	rows, err := postgres.Conn(context, repository.db).Query(context, query, externalIDs)
	if err != nil {
		return nil, dberr.Wrap(err, "find_labels")
	}
	return scanLabels(rows)
}

func (repository *PostgresRepository) NameTaken(context context.Context, name, excludeExternalID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s <> $2)`,
		schema.Label.Table, schema.Label.Name, schema.Label.ExternalID)

	var taken bool
	err := postgres.Conn(context, repository.db).QueryRow(context, query, name, excludeExternalID).Scan(&taken)
	return taken, dberr.Wrap(err, "label_name_taken")
}

func (repository *PostgresRepository) InUse(context context.Context, labelID int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.CollectionLabel.Table, schema.CollectionLabel.LabelID)

	var inUse bool
	err := postgres.Conn(context, repository.db).QueryRow(context, query, labelID).Scan(&inUse)
	return inUse, dberr.Wrap(err, "label_in_use")
}

func (repository *PostgresRepository) Insert(context context.Context, l *Label) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING %s, %s, %s
	`,
		schema.Label.Table, schema.Label.ExternalID, schema.Label.Name, schema.Label.CreatedBy,
		schema.Label.CreatedAt, schema.Label.UpdatedAt,
		schema.Label.ID, schema.Label.CreatedAt, schema.Label.UpdatedAt,
	)

	err := postgres.Conn(context, repository.db).QueryRow(context, query, l.ExternalID, l.Name, l.CreatedBy).
		Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	return dberr.Wrap(err, "create_label")
}

func (repository *PostgresRepository) Update(context context.Context, l *Label) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.Label.Table, schema.Label.Name, schema.Label.UpdatedBy, schema.Label.UpdatedAt,
		schema.Label.ExternalID, schema.Label.UpdatedAt,
	)

	err := postgres.Conn(context, repository.db).QueryRow(context, query, l.ExternalID, l.Name, l.UpdatedBy).Scan(&l.UpdatedAt)
	if dberr.IsNoRows(err) {
		return ErrNotFound
	}
	return dberr.Wrap(err, "update_label")
}
