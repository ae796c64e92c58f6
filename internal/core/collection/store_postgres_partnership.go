package collection

import (
	"context"
	"fmt"

	"github.com/taibuivan/collections-api/internal/platform/database/schema"
	"github.com/taibuivan/collections-api/internal/platform/dberr"
	"github.com/taibuivan/collections-api/internal/platform/postgres"
)

// # Partnership Repository Implementation

func (repository *PostgresPartnershipRepository) findOne(context context.Context, where string, value any, action string) (*Partnership, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, partnershipObject, partnershipFrom, where)

	var raw []byte
	err := postgres.Conn(context, repository.db).QueryRow(context, query, value).Scan(&raw)
	if dberr.IsNoRows(err) {
		return nil, ErrPartnershipNotFound
	}
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}

	p, err := decodePartnership(raw)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return p, nil
}

// FindByExternalID returns the partnership with overrides resolved against its partner.
func (repository *PostgresPartnershipRepository) FindByExternalID(context context.Context, externalID string) (*Partnership, error) {
	return repository.findOne(context, "p."+schema.CollectionPartnership.ExternalID, externalID, "get_partnership")
}

func (repository *PostgresPartnershipRepository) FindByCollectionExternalID(context context.Context, collectionExternalID string) (*Partnership, error) {
	return repository.findOne(context, "pc."+schema.Collection.ExternalID, collectionExternalID, "get_collection_partnership")
}

func (repository *PostgresPartnershipRepository) Insert(context context.Context, p *Partnership) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING %s, %s, %s
	`,
		schema.CollectionPartnership.Table,
		schema.CollectionPartnership.ExternalID, schema.CollectionPartnership.CollectionID,
		schema.CollectionPartnership.PartnerID, schema.CollectionPartnership.Type,
		schema.CollectionPartnership.Name, schema.CollectionPartnership.URL,
		schema.CollectionPartnership.ImageURL, schema.CollectionPartnership.Blurb,
		schema.CollectionPartnership.CreatedAt, schema.CollectionPartnership.UpdatedAt,
		schema.CollectionPartnership.ID, schema.CollectionPartnership.CreatedAt, schema.CollectionPartnership.UpdatedAt,
	)

	err := postgres.Conn(context, repository.db).QueryRow(context, query,
		p.ExternalID, p.CollectionID, p.Partner.ID, p.Type,
		p.Overrides.Name, p.Overrides.URL, p.Overrides.ImageURL, p.Overrides.Blurb,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return dberr.Wrap(err, "create_partnership")
}

func (repository *PostgresPartnershipRepository) Update(context context.Context, p *Partnership) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.CollectionPartnership.Table,
		schema.CollectionPartnership.PartnerID, schema.CollectionPartnership.Type,
		schema.CollectionPartnership.Name, schema.CollectionPartnership.URL,
		schema.CollectionPartnership.ImageURL, schema.CollectionPartnership.Blurb,
		schema.CollectionPartnership.UpdatedAt,
		schema.CollectionPartnership.ID,
		schema.CollectionPartnership.UpdatedAt,
	)

	err := postgres.Conn(context, repository.db).QueryRow(context, query,
		p.ID, p.Partner.ID, p.Type,
		p.Overrides.Name, p.Overrides.URL, p.Overrides.ImageURL, p.Overrides.Blurb,
	).Scan(&p.UpdatedAt)
	if dberr.IsNoRows(err) {
		return ErrPartnershipNotFound
	}
	return dberr.Wrap(err, "update_partnership")
}

func (repository *PostgresPartnershipRepository) UpdateImageURL(context context.Context, partnershipID int64, imageURL string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.CollectionPartnership.Table, schema.CollectionPartnership.ImageURL,
		schema.CollectionPartnership.UpdatedAt, schema.CollectionPartnership.ID)

	tag, err := postgres.Conn(context, repository.db).Exec(context, query, partnershipID, imageURL)
	if err != nil {
		return dberr.Wrap(err, "update_partnership_image_url")
	}
	if tag.RowsAffected() == 0 {
		return ErrPartnershipNotFound
	}
	return nil
}

func (repository *PostgresPartnershipRepository) Delete(context context.Context, partnershipID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CollectionPartnership.Table, schema.CollectionPartnership.ID)

	tag, err := postgres.Conn(context, repository.db).Exec(context, query, partnershipID)
	if err != nil {
		return dberr.Wrap(err, "delete_partnership")
	}
	if tag.RowsAffected() == 0 {
		return ErrPartnershipNotFound
	}
	return nil
}
