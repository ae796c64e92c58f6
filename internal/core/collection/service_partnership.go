package collection

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/collections-api/internal/platform/apperr"
	"github.com/taibuivan/collections-api/internal/platform/validate"
	"github.com/taibuivan/collections-api/pkg/uuid"
)

// # Partnerships

func (service *Service) GetPartnership(context stdctx.Context, externalID string) (*Partnership, error) {
	return service.partnerships.FindByExternalID(context, externalID)
}

// GetPartnershipForCollection returns the partnership of a collection, or
// NOT_FOUND when it has none.
func (service *Service) GetPartnershipForCollection(context stdctx.Context, collectionExternalID string) (*Partnership, error) {
	return service.partnerships.FindByCollectionExternalID(context, collectionExternalID)
}

/*
CreatePartnership links a collection to a partner.

Description: Overrides are stored as given; a nil override falls back to the
partner's value when read.

Returns:
  - error: VALIDATION, NOT_FOUND (collection or partner), CONFLICT when the
    collection already has a partnership
*/
func (service *Service) CreatePartnership(context stdctx.Context, input CreatePartnershipInput) (*Partnership, error) {
	validator := &validate.Validator{}
	validator.
		Required(FieldCollectionExternalID, input.CollectionExternalID).
		Required(FieldPartnerExternalID, input.PartnerExternalID)
	if err := validator.Err(); err != nil {
		return nil, err
	}
	if err := validatePartnershipType(input.Type); err != nil {
		return nil, err
	}
	if err := validateOverrides(input.URL, input.ImageURL); err != nil {
		return nil, err
	}

	var created *Partnership
	err := service.tx.WithinTx(context, func(txCtx stdctx.Context) error {
		collection, err := service.repo.FindByExternalID(txCtx, input.CollectionExternalID)
		if err != nil {
			return err
		}
		if collection.Partnership != nil {
			return apperr.Conflict(fmt.Sprintf("Collection %q already has a partnership", collection.Slug))
		}

		p, err := service.partners.FindByExternalID(txCtx, input.PartnerExternalID)
		if err != nil {
			return err
		}

		partnership := &Partnership{
			ExternalID:   uuid.New(),
			CollectionID: collection.ID,
			Type:         input.Type,
			Partner:      *p,
			Overrides: Overrides{
				Name:     input.Name,
				URL:      input.URL,
				ImageURL: input.ImageURL,
				Blurb:    input.Blurb,
			},
		}
		if err := service.partnerships.Insert(txCtx, partnership); err != nil {
			return err
		}

		created, err = service.partnerships.FindByExternalID(txCtx, partnership.ExternalID)
		return err
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("collection_partnership_created",
		slog.String("external_id", created.ExternalID),
		slog.String("collection_id", created.CollectionExternalID),
		slog.String("partner_id", created.Partner.ExternalID),
	)

	service.invalidate(context, created.CollectionSlug)
	return created, nil
}

// UpdatePartnership rewrites the type, overrides and linked partner.
func (service *Service) UpdatePartnership(context stdctx.Context, input UpdatePartnershipInput) (*Partnership, error) {
	if strings.TrimSpace(input.ExternalID) == "" {
		return nil, validate.RequiredError(FieldExternalID, "externalId must be provided")
	}

	validator := &validate.Validator{}
	if err := validator.Required(FieldPartnerExternalID, input.PartnerExternalID).Err(); err != nil {
		return nil, err
	}
	if err := validatePartnershipType(input.Type); err != nil {
		return nil, err
	}
	if err := validateOverrides(input.URL, input.ImageURL); err != nil {
		return nil, err
	}

	var updated *Partnership
	err := service.tx.WithinTx(context, func(txCtx stdctx.Context) error {
		existing, err := service.partnerships.FindByExternalID(txCtx, input.ExternalID)
		if err != nil {
			return err
		}

		p, err := service.partners.FindByExternalID(txCtx, input.PartnerExternalID)
		if err != nil {
			return err
		}

		existing.Type = input.Type
		existing.Partner = *p
		existing.Overrides = Overrides{
			Name:     input.Name,
			URL:      input.URL,
			ImageURL: input.ImageURL,
			Blurb:    input.Blurb,
		}
		if err := service.partnerships.Update(txCtx, existing); err != nil {
			return err
		}

		updated, err = service.partnerships.FindByExternalID(txCtx, existing.ExternalID)
		return err
	})
	if err != nil {
		return nil, err
	}

	service.invalidate(context, updated.CollectionSlug)
	return updated, nil
}

// UpdatePartnershipImageURL sets only the image override.
func (service *Service) UpdatePartnershipImageURL(context stdctx.Context, input ImageURLInput) (*Partnership, error) {
	validator := &validate.Validator{}
	validator.Required(FieldExternalID, input.ExternalID).URL(FieldImageURL, input.ImageURL)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	var updated *Partnership
	err := service.tx.WithinTx(context, func(txCtx stdctx.Context) error {
		existing, err := service.partnerships.FindByExternalID(txCtx, input.ExternalID)
		if err != nil {
			return err
		}
		if err := service.partnerships.UpdateImageURL(txCtx, existing.ID, input.ImageURL); err != nil {
			return err
		}

		updated, err = service.partnerships.FindByExternalID(txCtx, existing.ExternalID)
		return err
	})
	if err != nil {
		return nil, err
	}

	service.invalidate(context, updated.CollectionSlug)
	return updated, nil
}

/*
DeletePartnership removes a partnership and clears the fromPartner flag on
every story of its collection.

Returns:
  - *Partnership: The snapshot taken before removal
*/
func (service *Service) DeletePartnership(context stdctx.Context, externalID string) (*Partnership, error) {
	var snapshot *Partnership
	err := service.tx.WithinTx(context, func(txCtx stdctx.Context) error {
		existing, err := service.partnerships.FindByExternalID(txCtx, externalID)
		if err != nil {
			return err
		}
		snapshot = existing

		if err := service.partnerships.Delete(txCtx, existing.ID); err != nil {
			return err
		}
		return service.stories.ClearFromPartner(txCtx, existing.CollectionID)
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("collection_partnership_deleted",
		slog.String("external_id", snapshot.ExternalID),
		slog.String("collection_id", snapshot.CollectionExternalID),
	)

	service.invalidate(context, snapshot.CollectionSlug)
	return snapshot, nil
}

func validateOverrides(url, imageURL *string) error {
	validator := &validate.Validator{}
	if url != nil {
		validator.URL(FieldURL, *url)
	}
	if imageURL != nil {
		validator.URL(FieldImageURL, *imageURL)
	}
	return validator.Err()
}
