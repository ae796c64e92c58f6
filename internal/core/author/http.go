package author

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/collections-api/internal/platform/middleware"
	requestutil "github.com/taibuivan/collections-api/internal/platform/request"
	"github.com/taibuivan/collections-api/internal/platform/respond"
	"github.com/taibuivan/collections-api/internal/platform/sec"
	"github.com/taibuivan/collections-api/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listAuthors)
	router.Get("/{externalId}", handler.getAuthor)

	// Curator only
	router.Group(func(curatorRoute chi.Router) {
		curatorRoute.Use(middleware.RequireRole(sec.RoleCurator))

		curatorRoute.Post("/", handler.createAuthor)
		curatorRoute.Patch("/{externalId}", handler.updateAuthor)
		curatorRoute.Patch("/{externalId}/image-url", handler.updateAuthorImageURL)
	})
}

func (handler *Handler) listAuthors(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	authors, total, err := handler.service.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, authors, pagination.NewMeta(params.Page, params.PerPage, total))
}

func (handler *Handler) getAuthor(writer http.ResponseWriter, request *http.Request) {
	author, err := handler.service.Get(request.Context(), requestutil.Param(request, "externalId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, author)
}

func (handler *Handler) createAuthor(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	author, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, author)
}

func (handler *Handler) updateAuthor(writer http.ResponseWriter, request *http.Request) {
	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.ExternalID = requestutil.Param(request, "externalId")

	author, err := handler.service.Update(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, author)
}

func (handler *Handler) updateAuthorImageURL(writer http.ResponseWriter, request *http.Request) {
	var input ImageURLInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.ExternalID = requestutil.Param(request, "externalId")

	author, err := handler.service.UpdateImageURL(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, author)
}
