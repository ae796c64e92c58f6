// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import (
	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/collections-api/internal/platform/middleware"
	"github.com/taibuivan/collections-api/internal/platform/sec"
)

// # Handler Implementation

// Handler implements the HTTP layer for collections, their stories and
// their partnerships.
type Handler struct {
	service *Service
}

// NewHandler constructs a collection [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterAdminRoutes attaches the curator endpoints. The caller is expected
// to have authenticated the request already.
//
// # Routing Strategy
//
//   - Reads: any authenticated role.
//   - Writes: [sec.RoleCurator] and above.
func (handler *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Route("/collections", func(collections chi.Router) {
		collections.Get("/search", handler.searchCollections)
		collections.Get("/{externalId}", handler.getCollection)
		collections.Get("/{externalId}/partnership", handler.getCollectionPartnership)

		collections.Group(func(curator chi.Router) {
			curator.Use(middleware.RequireRole(sec.RoleCurator))

			curator.Post("/", handler.createCollection)
			curator.Patch("/{externalId}", handler.updateCollection)
			curator.Patch("/{externalId}/image-url", handler.updateCollectionImageURL)
			curator.Delete("/{externalId}", handler.deleteCollection)
		})
	})

	router.Route("/stories", func(stories chi.Router) {
		stories.Get("/{externalId}", handler.getStory)

		stories.Group(func(curator chi.Router) {
			curator.Use(middleware.RequireRole(sec.RoleCurator))

			curator.Post("/", handler.createStory)
			curator.Patch("/{externalId}", handler.updateStory)
			curator.Patch("/{externalId}/sort-order", handler.updateStorySortOrder)
			curator.Patch("/{externalId}/image-url", handler.updateStoryImageURL)
			curator.Delete("/{externalId}", handler.deleteStory)
		})
	})

	router.Route("/partnerships", func(partnerships chi.Router) {
		partnerships.Get("/{externalId}", handler.getPartnership)

		partnerships.Group(func(curator chi.Router) {
			curator.Use(middleware.RequireRole(sec.RoleCurator))

			curator.Post("/", handler.createPartnership)
			curator.Patch("/{externalId}", handler.updatePartnership)
			curator.Patch("/{externalId}/image-url", handler.updatePartnershipImageURL)
			curator.Delete("/{externalId}", handler.deletePartnership)
		})
	})
}

// RegisterPublicRoutes attaches the anonymous read endpoints.
func (handler *Handler) RegisterPublicRoutes(router chi.Router) {
	router.Get("/collections", handler.listPublishedCollections)
	router.Get("/collections/{slug}", handler.getPublishedCollection)
}
