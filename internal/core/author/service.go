package author

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/collections-api/internal/platform/apperr"
	"github.com/taibuivan/collections-api/internal/platform/validate"
	"github.com/taibuivan/collections-api/pkg/pagination"
	"github.com/taibuivan/collections-api/pkg/pointer"
	"github.com/taibuivan/collections-api/pkg/slug"
	"github.com/taibuivan/collections-api/pkg/uuid"
)

// ChangeListener hears about edits to an author that other aggregates embed.
type ChangeListener interface {
	AuthorChanged(context context.Context, authorID int64)
}

type Service struct {
	repo     Repository
	listener ChangeListener
	logger   *slog.Logger
}

func NewService(repo Repository, listener ChangeListener, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		listener: listener,
		logger:   logger,
	}
}

func (service *Service) List(context context.Context, params pagination.Params) ([]*Author, int, error) {
	return service.repo.List(context, params.PerPage, params.Offset())
}

func (service *Service) Get(context context.Context, externalID string) (*Author, error) {
	return service.repo.FindByExternalID(context, externalID)
}

// Create stores a new author. The slug falls back to one derived from the
// name and must not be used by any other author.
func (service *Service) Create(context context.Context, input CreateInput) (*Author, error) {
	author := &Author{
		ExternalID: uuid.New(),
		Name:       strings.TrimSpace(input.Name),
		Slug:       resolveSlug(input.Slug, input.Name),
		Bio:        input.Bio,
		ImageURL:   input.ImageURL,
		Active:     pointer.Fallback(input.Active, true),
	}

	if err := validateAuthor(author); err != nil {
		return nil, err
	}

	if err := service.ensureSlugAvailable(context, author.Slug, ""); err != nil {
		return nil, err
	}

	if err := service.repo.Insert(context, author); err != nil {
		return nil, err
	}

	service.logger.Info("collection_author_created",
		slog.String("external_id", author.ExternalID),
		slog.String("slug", author.Slug),
	)
	return author, nil
}

// Update rewrites an author's profile. A slug collision with a different
// author is a conflict; keeping its own slug is not.
func (service *Service) Update(context context.Context, input UpdateInput) (*Author, error) {
	if strings.TrimSpace(input.ExternalID) == "" {
		return nil, validate.RequiredError(FieldExternalID, "externalId must be provided")
	}

	existing, err := service.repo.FindByExternalID(context, input.ExternalID)
	if err != nil {
		return nil, err
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.Slug = resolveSlug(input.Slug, input.Name)
	existing.Bio = input.Bio
	existing.ImageURL = input.ImageURL
	existing.Active = pointer.Fallback(input.Active, existing.Active)

	if err := validateAuthor(existing); err != nil {
		return nil, err
	}

	if err := service.ensureSlugAvailable(context, existing.Slug, existing.ExternalID); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, existing); err != nil {
		return nil, err
	}

	service.logger.Info("collection_author_updated", slog.String("external_id", existing.ExternalID))
	service.listener.AuthorChanged(context, existing.ID)
	return existing, nil
}

// UpdateImageURL writes only the image url.
func (service *Service) UpdateImageURL(context context.Context, input ImageURLInput) (*Author, error) {
	validator := &validate.Validator{}
	validator.Required(FieldExternalID, input.ExternalID).URL(FieldImageURL, input.ImageURL)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	updated, err := service.repo.UpdateImageURL(context, input.ExternalID, input.ImageURL)
	if err != nil {
		return nil, err
	}

	service.listener.AuthorChanged(context, updated.ID)
	return updated, nil
}

func (service *Service) ensureSlugAvailable(context context.Context, slug, excludeExternalID string) error {
	taken, err := service.repo.SlugTaken(context, slug, excludeExternalID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("An author with the slug \"" + slug + "\" already exists")
	}
	return nil
}

func resolveSlug(explicit *string, name string) string {
	if explicit != nil && strings.TrimSpace(*explicit) != "" {
		return strings.TrimSpace(*explicit)
	}
	return slug.From(name)
}

func validateAuthor(author *Author) error {
	validator := &validate.Validator{}

	validator.Required(FieldName, author.Name).MaxLen(FieldName, author.Name, 300)
	validator.Required(FieldSlug, author.Slug)
	if author.Slug != "" {
		validator.Slug(FieldSlug, author.Slug)
	}
	if author.ImageURL != nil {
		validator.URL(FieldImageURL, *author.ImageURL)
	}

	return validator.Err()
}
