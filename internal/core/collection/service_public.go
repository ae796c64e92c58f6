package collection

import (
	stdctx "context"
	"log/slog"

	"github.com/taibuivan/collections-api/internal/core/category"
	"github.com/taibuivan/collections-api/internal/platform/validate"
	"github.com/taibuivan/collections-api/pkg/pagination"
)

// # Public Reads

/*
GetPublishedBySlug serves a published collection to anonymous readers.

Description: Concurrent misses for one slug share a single database load.
The shared load runs detached from every caller with its own deadline, and
each caller stops waiting when its own context ends. Cache failures are
logged and fall through to PostgreSQL.

Returns:
  - *Collection: The aggregate with every story decorated with its item
  - error: NOT_FOUND when the slug is unknown or not published
*/
func (service *Service) GetPublishedBySlug(context stdctx.Context, slug string) (*Collection, error) {
	result := service.loader.DoChan(slug, func() (any, error) {
		loadCtx, cancel := stdctx.WithTimeout(stdctx.WithoutCancel(context), service.loadTimeout)
		defer cancel()
		return service.loadPublished(loadCtx, slug)
	})

	select {
	case <-context.Done():
		return nil, context.Err()
	case res := <-result:
		if res.Err != nil {
			return nil, res.Err
		}
		return decorateItems(res.Val.(*Collection)), nil
	}
}

func (service *Service) loadPublished(context stdctx.Context, slug string) (*Collection, error) {
	cached, err := service.cache.Get(context, slug)
	if err != nil {
		service.logger.Warn("collection_cache_read_failed",
			slog.String("slug", slug),
			slog.String("error", err.Error()),
		)
	}
	if cached != nil {
		return cached, nil
	}

	collection, err := service.repo.FindBySlug(context, slug)
	if err != nil {
		return nil, err
	}
	if collection.Status != StatusPublished {
		return nil, ErrNotFound
	}

	if err := service.cache.Set(context, collection); err != nil {
		service.logger.Warn("collection_cache_write_failed",
			slog.String("slug", slug),
			slog.String("error", err.Error()),
		)
	}

	return collection, nil
}

// ListPublished pages through published collections in one language, newest
// publication first. An empty language means EN.
func (service *Service) ListPublished(context stdctx.Context, language category.Language, params pagination.Params) ([]*Collection, int, error) {
	if language == "" {
		language = category.LanguageEN
	}

	validator := &validate.Validator{}
	validator.Custom(FieldLanguage, !language.Valid(), "Unsupported language")
	if err := validator.Err(); err != nil {
		return nil, 0, err
	}

	collections, total, err := service.repo.ListPublished(context, language, params.PerPage, params.Offset())
	if err != nil {
		return nil, 0, err
	}

	for i, c := range collections {
		collections[i] = decorateItems(c)
	}
	return collections, total, nil
}

// AuthorChanged drops cached copies of every collection bylined by the author.
func (service *Service) AuthorChanged(context stdctx.Context, authorID int64) {
	service.invalidateLinked(context, "author", authorID, service.repo.SlugsByAuthor)
}

// PartnerChanged drops cached copies of every collection partnered with the
// partner.
func (service *Service) PartnerChanged(context stdctx.Context, partnerID int64) {
	service.invalidateLinked(context, "partner", partnerID, service.repo.SlugsByPartner)
}

func (service *Service) invalidateLinked(context stdctx.Context, kind string, id int64, lookup func(stdctx.Context, int64) ([]string, error)) {
	slugs, err := lookup(context, id)
	if err != nil {
		service.logger.Warn("collection_cache_lookup_failed",
			slog.String("kind", kind),
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return
	}
	if len(slugs) == 0 {
		return
	}
	service.invalidate(context, slugs...)
}

// decorateItems returns a shallow copy whose stories carry their item. The
// input is left untouched since it may be shared by a singleflight call.
func decorateItems(c *Collection) *Collection {
	decorated := *c
	decorated.Stories = make([]Story, len(c.Stories))
	for i, story := range c.Stories {
		story.Item = &StoryItem{GivenURL: story.URL}
		decorated.Stories[i] = story
	}
	return &decorated
}
