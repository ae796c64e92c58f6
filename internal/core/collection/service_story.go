package collection

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/collections-api/internal/platform/apperr"
	"github.com/taibuivan/collections-api/internal/platform/validate"
	"github.com/taibuivan/collections-api/pkg/pointer"
	"github.com/taibuivan/collections-api/pkg/uuid"
)

// # Stories

func (service *Service) GetStory(context stdctx.Context, externalID string) (*Story, error) {
	return service.stories.FindByExternalID(context, externalID)
}

/*
CreateStory adds a story to a collection.

Description: The url must be unique inside the owning collection. SortOrder
defaults to 0 and FromPartner to false.

Returns:
  - *Story: The stored story, bylines ordered by sort order
  - error: VALIDATION, NOT_FOUND (collection), CONFLICT (url)
*/
func (service *Service) CreateStory(context stdctx.Context, input CreateStoryInput) (*Story, error) {
	validator := &validate.Validator{}
	if err := validator.Required(FieldCollectionExternalID, input.CollectionExternalID).Err(); err != nil {
		return nil, err
	}
	input.URL = strings.TrimSpace(input.URL)
	if err := validateStory(input.URL, input.Title, input.Excerpt, input.Publisher, input.ImageURL, input.SortOrder, input.Authors); err != nil {
		return nil, err
	}

	var created *Story
	err := service.tx.WithinTx(context, func(txCtx stdctx.Context) error {
		collection, err := service.repo.FindByExternalID(txCtx, input.CollectionExternalID)
		if err != nil {
			return err
		}

		if err := service.ensureStoryURLAvailable(txCtx, collection.ID, input.URL, ""); err != nil {
			return err
		}

		story := &Story{
			ExternalID:   uuid.New(),
			CollectionID: collection.ID,
			URL:          input.URL,
			Title:        input.Title,
			Excerpt:      input.Excerpt,
			ImageURL:     input.ImageURL,
			Publisher:    input.Publisher,
			SortOrder:    pointer.Val(input.SortOrder),
			FromPartner:  pointer.Val(input.FromPartner),
		}
		if err := service.stories.Insert(txCtx, story); err != nil {
			return err
		}
		if err := service.stories.ReplaceAuthors(txCtx, story.ID, input.Authors); err != nil {
			return err
		}

		created, err = service.stories.FindByExternalID(txCtx, story.ExternalID)
		return err
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("collection_story_created",
		slog.String("external_id", created.ExternalID),
		slog.String("collection_id", created.CollectionExternalID),
	)

	service.invalidate(context, created.CollectionSlug)
	return created, nil
}

/*
UpdateStory rewrites every field of a story and replaces its bylines.

Description: A nil SortOrder or FromPartner resets the field to its default;
use [Service.UpdateStorySortOrder] or [Service.UpdateStoryImageURL] to change
one field only.
*/
func (service *Service) UpdateStory(context stdctx.Context, input UpdateStoryInput) (*Story, error) {
	if strings.TrimSpace(input.ExternalID) == "" {
		return nil, validate.RequiredError(FieldExternalID, "externalId must be provided")
	}
	input.URL = strings.TrimSpace(input.URL)
	if err := validateStory(input.URL, input.Title, input.Excerpt, input.Publisher, input.ImageURL, input.SortOrder, input.Authors); err != nil {
		return nil, err
	}

	var updated *Story
	err := service.tx.WithinTx(context, func(txCtx stdctx.Context) error {
		existing, err := service.stories.FindByExternalID(txCtx, input.ExternalID)
		if err != nil {
			return err
		}

		if err := service.ensureStoryURLAvailable(txCtx, existing.CollectionID, input.URL, existing.ExternalID); err != nil {
			return err
		}

		existing.URL = input.URL
		existing.Title = input.Title
		existing.Excerpt = input.Excerpt
		existing.ImageURL = input.ImageURL
		existing.Publisher = input.Publisher
		existing.SortOrder = pointer.Val(input.SortOrder)
		existing.FromPartner = pointer.Val(input.FromPartner)

		if err := service.stories.Update(txCtx, existing); err != nil {
			return err
		}
		if err := service.stories.ReplaceAuthors(txCtx, existing.ID, input.Authors); err != nil {
			return err
		}

		updated, err = service.stories.FindByExternalID(txCtx, existing.ExternalID)
		return err
	})
	if err != nil {
		return nil, err
	}

	service.invalidate(context, updated.CollectionSlug)
	return updated, nil
}

// UpdateStorySortOrder changes only the sort order.
func (service *Service) UpdateStorySortOrder(context stdctx.Context, input StorySortOrderInput) (*Story, error) {
	validator := &validate.Validator{}
	validator.Required(FieldExternalID, input.ExternalID).Min(FieldSortOrder, input.SortOrder, 0)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return service.updateStoryField(context, input.ExternalID, func(txCtx stdctx.Context, story *Story) error {
		return service.stories.UpdateSortOrder(txCtx, story.ID, input.SortOrder)
	})
}

// UpdateStoryImageURL changes only the image url.
func (service *Service) UpdateStoryImageURL(context stdctx.Context, input ImageURLInput) (*Story, error) {
	validator := &validate.Validator{}
	validator.Required(FieldExternalID, input.ExternalID).URL(FieldImageURL, input.ImageURL)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return service.updateStoryField(context, input.ExternalID, func(txCtx stdctx.Context, story *Story) error {
		return service.stories.UpdateImageURL(txCtx, story.ID, input.ImageURL)
	})
}

func (service *Service) updateStoryField(context stdctx.Context, externalID string, write func(stdctx.Context, *Story) error) (*Story, error) {
	var updated *Story
	err := service.tx.WithinTx(context, func(txCtx stdctx.Context) error {
		existing, err := service.stories.FindByExternalID(txCtx, externalID)
		if err != nil {
			return err
		}
		if err := write(txCtx, existing); err != nil {
			return err
		}

		updated, err = service.stories.FindByExternalID(txCtx, externalID)
		return err
	})
	if err != nil {
		return nil, err
	}

	service.invalidate(context, updated.CollectionSlug)
	return updated, nil
}

// DeleteStory removes a story with its bylines and returns the snapshot taken
// before removal.
func (service *Service) DeleteStory(context stdctx.Context, externalID string) (*Story, error) {
	var snapshot *Story
	err := service.tx.WithinTx(context, func(txCtx stdctx.Context) error {
		existing, err := service.stories.FindByExternalID(txCtx, externalID)
		if err != nil {
			return err
		}
		snapshot = existing
		return service.stories.Delete(txCtx, existing.ID)
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("collection_story_deleted", slog.String("external_id", snapshot.ExternalID))

	service.invalidate(context, snapshot.CollectionSlug)
	return snapshot, nil
}

func (service *Service) ensureStoryURLAvailable(context stdctx.Context, collectionID int64, url, excludeExternalID string) error {
	taken, err := service.stories.URLTaken(context, collectionID, url, excludeExternalID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict(fmt.Sprintf("A story with the url %q already exists in this collection", url))
	}
	return nil
}
