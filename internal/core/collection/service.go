// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/taibuivan/collections-api/internal/core/author"
	"github.com/taibuivan/collections-api/internal/core/category"
	"github.com/taibuivan/collections-api/internal/core/label"
	"github.com/taibuivan/collections-api/internal/core/partner"
	"github.com/taibuivan/collections-api/internal/platform/apperr"
	"github.com/taibuivan/collections-api/internal/platform/constants"
	"github.com/taibuivan/collections-api/internal/platform/errtrack"
	"github.com/taibuivan/collections-api/internal/platform/postgres"
	"github.com/taibuivan/collections-api/internal/platform/sec"
	"github.com/taibuivan/collections-api/internal/platform/validate"
	"github.com/taibuivan/collections-api/pkg/pagination"
	"github.com/taibuivan/collections-api/pkg/slice"
	"github.com/taibuivan/collections-api/pkg/uuid"
)

// # Collaborators

type AuthorFinder interface {
	FindByExternalID(context stdctx.Context, externalID string) (*author.Author, error)
}

type PartnerFinder interface {
	FindByExternalID(context stdctx.Context, externalID string) (*partner.Partner, error)
}

type LabelFinder interface {
	FindByExternalIDs(context stdctx.Context, externalIDs []string) ([]*label.Label, error)
}

type CategoryFinder interface {
	FindCurationByExternalID(context stdctx.Context, externalID string) (*category.CurationCategory, error)
	FindIABByExternalID(context stdctx.Context, externalID string) (*category.IABCategory, error)
}

// EventPublisher delivers one event to the bus.
type EventPublisher interface {
	Publish(context stdctx.Context, detailType string, detail any) error
}

// Cache stores published aggregates by slug. Get returns nil, nil on a miss.
type Cache interface {
	Get(context stdctx.Context, slug string) (*Collection, error)
	Set(context stdctx.Context, collection *Collection) error
	Delete(context stdctx.Context, slugs ...string) error
}

// Dependencies groups everything [NewService] wires together.
type Dependencies struct {
	Collections  Repository
	Stories      StoryRepository
	Partnerships PartnershipRepository
	Authors      AuthorFinder
	Partners     PartnerFinder
	Labels       LabelFinder
	Categories   CategoryFinder
	Tx           postgres.Transactor
	Events       EventPublisher
	Reporter     errtrack.Reporter
	Cache        Cache
	Logger       *slog.Logger
}

// Settings are the tunables of the service.
type Settings struct {
	// LabelsLimit caps the labels of one collection.
	LabelsLimit int
	// PublishTimeout bounds a single event publish.
	PublishTimeout time.Duration
}

// # Service

type Service struct {
	repo         Repository
	stories      StoryRepository
	partnerships PartnershipRepository
	authors      AuthorFinder
	partners     PartnerFinder
	labels       LabelFinder
	categories   CategoryFinder
	tx           postgres.Transactor
	events       EventPublisher
	reporter     errtrack.Reporter
	cache        Cache
	logger       *slog.Logger

	labelsLimit    int
	publishTimeout time.Duration
	loadTimeout    time.Duration
	loader         singleflight.Group
	now            func() time.Time
}

func NewService(deps Dependencies, settings Settings) *Service {
	publishTimeout := settings.PublishTimeout
	if publishTimeout <= 0 {
		publishTimeout = constants.EventPublishTimeout
	}

	return &Service{
		repo:           deps.Collections,
		stories:        deps.Stories,
		partnerships:   deps.Partnerships,
		authors:        deps.Authors,
		partners:       deps.Partners,
		labels:         deps.Labels,
		categories:     deps.Categories,
		tx:             deps.Tx,
		events:         deps.Events,
		reporter:       deps.Reporter,
		cache:          deps.Cache,
		logger:         deps.Logger,
		labelsLimit:    settings.LabelsLimit,
		publishTimeout: publishTimeout,
		loadTimeout:    constants.PublicLoadTimeout,
		now:            time.Now,
	}
}

// # Reads

// Get returns the full aggregate regardless of status.
func (service *Service) Get(context stdctx.Context, externalID string) (*Collection, error) {
	return service.repo.FindByExternalID(context, externalID)
}

/*
Search lists collections matching the filter, most recently updated first.

Returns:
  - error: VALIDATION when no filter is supplied
*/
func (service *Service) Search(context stdctx.Context, filter SearchFilter, params pagination.Params) ([]*Collection, int, error) {
	if err := checkSearchFilter(filter); err != nil {
		return nil, 0, err
	}
	if filter.Status != "" {
		validator := &validate.Validator{}
		if err := validator.OneOf(FieldStatus, string(filter.Status), Statuses()...).Err(); err != nil {
			return nil, 0, err
		}
	}

	return service.repo.Search(context, filter, params.PerPage, params.Offset())
}

// # Writes

// relationRefs are the external-id references shared by create and update.
type relationRefs struct {
	author            string
	curationCategory  *string
	iabParentCategory *string
	iabChildCategory  *string
	labels            []string
}

// resolvedRefs are [relationRefs] looked up to internal rows.
type resolvedRefs struct {
	author            *author.Author
	curationCategory  *category.CurationCategory
	iabParentCategory *category.IABCategory
	iabChildCategory  *category.IABCategory
	labelIDs          []int64
}

/*
Create stores a new collection linked to one author.

Description: The slug must be unused; that is checked before the fields and
the label ceiling are validated. Status defaults to draft and language
to EN. An IAB child is linked only together with its parent. Label links
record the actor and the creation time.

Returns:
  - *Collection: The reloaded aggregate
  - error: CONFLICT (slug), VALIDATION, NOT_FOUND (a reference)
*/
func (service *Service) Create(context stdctx.Context, input CreateInput, actor sec.Actor) (*Collection, error) {
	if input.Status == "" {
		input.Status = StatusDraft
	}
	if input.Language == "" {
		input.Language = category.LanguageEN
	}
	input.Slug = strings.TrimSpace(input.Slug)
	input.Title = strings.TrimSpace(input.Title)

	refs := relationRefs{
		author:            input.AuthorExternalID,
		curationCategory:  input.CurationCategoryExternalID,
		iabParentCategory: input.IABParentCategoryExternalID,
		iabChildCategory:  input.IABChildCategoryExternalID,
		labels:            input.LabelExternalIDs,
	}

	var created *Collection
	err := service.tx.WithinTx(context, func(txCtx stdctx.Context) error {
		if err := service.ensureSlugAvailable(txCtx, input.Slug, ""); err != nil {
			return err
		}
		if err := validateCollection(input.Slug, input.Title, input.Status, input.Language, input.ImageURL, input.AuthorExternalID); err != nil {
			return err
		}
		if err := checkLabelLimit(input.LabelExternalIDs, service.labelsLimit); err != nil {
			return err
		}

		resolved, err := service.resolveRefs(txCtx, refs)
		if err != nil {
			return err
		}

		now := service.now()
		collection := &Collection{
			ExternalID: uuid.New(),
			Slug:       input.Slug,
			Title:      input.Title,
			Excerpt:    input.Excerpt,
			Intro:      input.Intro,
			ImageURL:   input.ImageURL,
			Status:     input.Status,
			Language:   input.Language,
		}
		if collection.Status == StatusPublished {
			collection.PublishedAt = &now
		}
		resolved.applyCategories(collection)

		if err := service.repo.Insert(txCtx, collection); err != nil {
			return err
		}
		if err := service.repo.SetAuthors(txCtx, collection.ID, []int64{resolved.author.ID}); err != nil {
			return err
		}
		if err := service.repo.AddLabels(txCtx, collection.ID, resolved.labelIDs, actor.Username, now); err != nil {
			return err
		}

		created, err = service.repo.FindByExternalID(txCtx, collection.ExternalID)
		return err
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("collection_created",
		slog.String("external_id", created.ExternalID),
		slog.String("slug", created.Slug),
		slog.String("status", string(created.Status)),
		slog.String("actor", actor.Username),
	)

	service.invalidate(context, created.Slug)
	service.notify(context, EventCollectionCreated, created)
	return created, nil
}

/*
Update rewrites a collection and its relations.

Description:
  - The author set is replaced by the single given author.
  - Curation and IAB references are connected when present, disconnected
    otherwise; the IAB child requires the parent.
  - Labels are cleared, then the supplied list (if any) is linked.
  - publishedAt is stamped only on the first move into published.

Returns:
  - error: NOT_FOUND, CONFLICT (slug), VALIDATION, checked in that order
*/
func (service *Service) Update(context stdctx.Context, input UpdateInput, actor sec.Actor) (*Collection, error) {
	if strings.TrimSpace(input.ExternalID) == "" {
		return nil, validate.RequiredError(FieldExternalID, "externalId must be provided")
	}
	input.Slug = strings.TrimSpace(input.Slug)
	input.Title = strings.TrimSpace(input.Title)

	refs := relationRefs{
		author:            input.AuthorExternalID,
		curationCategory:  input.CurationCategoryExternalID,
		iabParentCategory: input.IABParentCategoryExternalID,
		iabChildCategory:  input.IABChildCategoryExternalID,
		labels:            input.LabelExternalIDs,
	}

	var (
		updated      *Collection
		previousSlug string
	)
	err := service.tx.WithinTx(context, func(txCtx stdctx.Context) error {
		existing, err := service.repo.FindByExternalID(txCtx, input.ExternalID)
		if err != nil {
			return err
		}
		previousSlug = existing.Slug

		if input.Slug != existing.Slug {
			if err := service.ensureSlugAvailable(txCtx, input.Slug, existing.ExternalID); err != nil {
				return err
			}
		}

		validator := &validate.Validator{}
		if err := validator.Required(FieldStatus, string(input.Status)).Err(); err != nil {
			return err
		}
		if err := validateCollection(input.Slug, input.Title, input.Status, input.Language, input.ImageURL, input.AuthorExternalID); err != nil {
			return err
		}
		if err := checkLabelLimit(input.LabelExternalIDs, service.labelsLimit); err != nil {
			return err
		}

		resolved, err := service.resolveRefs(txCtx, refs)
		if err != nil {
			return err
		}

		now := service.now()
		if existing.Status != StatusPublished && input.Status == StatusPublished {
			existing.PublishedAt = &now
		}

		existing.Slug = input.Slug
		existing.Title = input.Title
		existing.Status = input.Status
		if input.Language != "" {
			existing.Language = input.Language
		}
		if input.Excerpt != nil {
			existing.Excerpt = input.Excerpt
		}
		if input.Intro != nil {
			existing.Intro = input.Intro
		}
		if input.ImageURL != nil {
			existing.ImageURL = input.ImageURL
		}
		resolved.applyCategories(existing)

		if err := service.repo.Update(txCtx, existing); err != nil {
			return err
		}
		if err := service.repo.SetAuthors(txCtx, existing.ID, []int64{resolved.author.ID}); err != nil {
			return err
		}
		if err := service.repo.ClearLabels(txCtx, existing.ID); err != nil {
			return err
		}
		if err := service.repo.AddLabels(txCtx, existing.ID, resolved.labelIDs, actor.Username, now); err != nil {
			return err
		}

		updated, err = service.repo.FindByExternalID(txCtx, existing.ExternalID)
		return err
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("collection_updated",
		slog.String("external_id", updated.ExternalID),
		slog.String("status", string(updated.Status)),
		slog.String("actor", actor.Username),
	)

	service.invalidate(context, previousSlug, updated.Slug)
	service.notify(context, EventCollectionUpdated, updated)
	return updated, nil
}

// UpdateImageURL writes only the image url and returns the reloaded aggregate.
func (service *Service) UpdateImageURL(context stdctx.Context, input ImageURLInput) (*Collection, error) {
	validator := &validate.Validator{}
	validator.Required(FieldExternalID, input.ExternalID).URL(FieldImageURL, input.ImageURL)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	var updated *Collection
	err := service.tx.WithinTx(context, func(txCtx stdctx.Context) error {
		existing, err := service.repo.FindByExternalID(txCtx, input.ExternalID)
		if err != nil {
			return err
		}

		if err := service.repo.UpdateImageURL(txCtx, existing.ID, input.ImageURL); err != nil {
			return err
		}

		updated, err = service.repo.FindByExternalID(txCtx, existing.ExternalID)
		return err
	})
	if err != nil {
		return nil, err
	}

	service.invalidate(context, updated.Slug)
	return updated, nil
}

// Delete removes a collection with its stories and partnership and returns
// the snapshot taken before removal.
func (service *Service) Delete(context stdctx.Context, externalID string, actor sec.Actor) (*Collection, error) {
	var snapshot *Collection
	err := service.tx.WithinTx(context, func(txCtx stdctx.Context) error {
		existing, err := service.repo.FindByExternalID(txCtx, externalID)
		if err != nil {
			return err
		}
		snapshot = existing
		return service.repo.Delete(txCtx, existing.ID)
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("collection_deleted",
		slog.String("external_id", snapshot.ExternalID),
		slog.String("actor", actor.Username),
	)

	service.invalidate(context, snapshot.Slug)
	return snapshot, nil
}

// # Helpers

func (service *Service) ensureSlugAvailable(context stdctx.Context, slug, excludeExternalID string) error {
	taken, err := service.repo.SlugTaken(context, slug, excludeExternalID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict(fmt.Sprintf("A collection with the slug %q already exists", slug))
	}
	return nil
}

// resolveRefs looks up every referenced row. The IAB child is ignored when
// no parent is given.
func (service *Service) resolveRefs(context stdctx.Context, refs relationRefs) (*resolvedRefs, error) {
	resolved := &resolvedRefs{}

	a, err := service.authors.FindByExternalID(context, refs.author)
	if err != nil {
		return nil, err
	}
	resolved.author = a

	if present(refs.curationCategory) {
		if resolved.curationCategory, err = service.categories.FindCurationByExternalID(context, *refs.curationCategory); err != nil {
			return nil, err
		}
	}

	if present(refs.iabParentCategory) {
		if resolved.iabParentCategory, err = service.categories.FindIABByExternalID(context, *refs.iabParentCategory); err != nil {
			return nil, err
		}
		if present(refs.iabChildCategory) {
			if resolved.iabChildCategory, err = service.categories.FindIABByExternalID(context, *refs.iabChildCategory); err != nil {
				return nil, err
			}
		}
	}

	wanted := slice.Unique(refs.labels)
	if len(wanted) > 0 {
		labels, err := service.labels.FindByExternalIDs(context, wanted)
		if err != nil {
			return nil, err
		}
		if len(labels) != len(wanted) {
			return nil, label.ErrNotFound
		}
		resolved.labelIDs = slice.Map(labels, func(l *label.Label) int64 { return l.ID })
	}

	return resolved, nil
}

// applyCategories connects the resolved categories and disconnects the rest.
func (resolved *resolvedRefs) applyCategories(c *Collection) {
	c.CurationCategoryID = nil
	c.IABParentCategoryID = nil
	c.IABChildCategoryID = nil

	if resolved.curationCategory != nil {
		c.CurationCategoryID = &resolved.curationCategory.ID
	}
	if resolved.iabParentCategory != nil {
		c.IABParentCategoryID = &resolved.iabParentCategory.ID
		if resolved.iabChildCategory != nil {
			c.IABChildCategoryID = &resolved.iabChildCategory.ID
		}
	}
}

func present(ref *string) bool {
	return ref != nil && strings.TrimSpace(*ref) != ""
}

// invalidate drops cached public copies. Failures only cost freshness until
// the entry expires, so they are logged.
func (service *Service) invalidate(context stdctx.Context, slugs ...string) {
	slugs = slice.Unique(slugs)
	if err := service.cache.Delete(context, slugs...); err != nil {
		service.logger.Warn("collection_cache_invalidate_failed",
			slog.Any("slugs", slugs),
			slog.String("error", err.Error()),
		)
	}
}
