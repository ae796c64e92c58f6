package partner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/collections-api/internal/platform/apperr"
	"github.com/taibuivan/collections-api/internal/platform/validate"
	"github.com/taibuivan/collections-api/pkg/pagination"
	"github.com/taibuivan/collections-api/pkg/slug"
	"github.com/taibuivan/collections-api/pkg/uuid"
)

// ChangeListener hears about edits to a partner. Partnerships resolve their
// display fields from it.
type ChangeListener interface {
	PartnerChanged(context context.Context, partnerID int64)
}

type Service struct {
	repo     Repository
	listener ChangeListener
	logger   *slog.Logger
}

func NewService(repo Repository, listener ChangeListener, logger *slog.Logger) *Service {
	return &Service{repo: repo, listener: listener, logger: logger}
}

func (service *Service) List(context context.Context, params pagination.Params) ([]*Partner, int, error) {
	return service.repo.List(context, params.PerPage, params.Offset())
}

func (service *Service) Get(context context.Context, externalID string) (*Partner, error) {
	return service.repo.FindByExternalID(context, externalID)
}

/*
Create registers a new partner profile.

Parameters:
  - context: context.Context
  - input: CreateInput (Slug is derived from Name when nil)

Returns:
  - *Partner: The stored partner
  - error: VALIDATION on bad fields, CONFLICT when the slug is taken
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Partner, error) {
	partner := &Partner{
		ExternalID: uuid.New(),
		Name:       strings.TrimSpace(input.Name),
		Slug:       resolveSlug(input.Slug, input.Name),
		URL:        strings.TrimSpace(input.URL),
		ImageURL:   input.ImageURL,
		Blurb:      input.Blurb,
	}

	if err := validatePartner(partner); err != nil {
		return nil, err
	}
	if err := service.ensureSlugAvailable(context, partner.Slug, ""); err != nil {
		return nil, err
	}

	if err := service.repo.Insert(context, partner); err != nil {
		return nil, err
	}

	service.logger.Info("collection_partner_created",
		slog.String("external_id", partner.ExternalID),
		slog.String("slug", partner.Slug),
	)
	return partner, nil
}

/*
Update rewrites a partner profile.

Returns:
  - error: VALIDATION when ExternalID is empty, NOT_FOUND, or CONFLICT when
    another partner owns the slug
*/
func (service *Service) Update(context context.Context, input UpdateInput) (*Partner, error) {
	if strings.TrimSpace(input.ExternalID) == "" {
		return nil, validate.RequiredError(FieldExternalID, "externalId must be provided")
	}

	existing, err := service.repo.FindByExternalID(context, input.ExternalID)
	if err != nil {
		return nil, err
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.Slug = resolveSlug(input.Slug, input.Name)
	existing.URL = strings.TrimSpace(input.URL)
	existing.ImageURL = input.ImageURL
	existing.Blurb = input.Blurb

	if err := validatePartner(existing); err != nil {
		return nil, err
	}
	if err := service.ensureSlugAvailable(context, existing.Slug, existing.ExternalID); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, existing); err != nil {
		return nil, err
	}

	service.logger.Info("collection_partner_updated", slog.String("external_id", existing.ExternalID))
	service.listener.PartnerChanged(context, existing.ID)
	return existing, nil
}

func (service *Service) UpdateImageURL(context context.Context, input ImageURLInput) (*Partner, error) {
	validator := &validate.Validator{}
	validator.Required(FieldExternalID, input.ExternalID).URL(FieldImageURL, input.ImageURL)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	updated, err := service.repo.UpdateImageURL(context, input.ExternalID, input.ImageURL)
	if err != nil {
		return nil, err
	}

	service.listener.PartnerChanged(context, updated.ID)
	return updated, nil
}

func (service *Service) ensureSlugAvailable(context context.Context, slug, excludeExternalID string) error {
	taken, err := service.repo.SlugTaken(context, slug, excludeExternalID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict(fmt.Sprintf("A partner with the slug %q already exists", slug))
	}
	return nil
}

func resolveSlug(explicit *string, name string) string {
	if explicit != nil && strings.TrimSpace(*explicit) != "" {
		return strings.TrimSpace(*explicit)
	}
	return slug.From(name)
}

func validatePartner(partner *Partner) error {
	validator := &validate.Validator{}

	validator.
		Required(FieldName, partner.Name).
		MaxLen(FieldName, partner.Name, 300).
		Required(FieldSlug, partner.Slug).
		URL(FieldURL, partner.URL)

	if partner.Slug != "" {
		validator.Slug(FieldSlug, partner.Slug)
	}
	if partner.ImageURL != nil {
		validator.URL(FieldImageURL, *partner.ImageURL)
	}

	return validator.Err()
}
