package partner

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
	router.Get("/", handler.listPartners)
	router.Get("/{externalId}", handler.getPartner)

	// Curator only
	router.Group(func(curatorRoute chi.Router) {
		curatorRoute.Use(middleware.RequireRole(sec.RoleCurator))

		curatorRoute.Post("/", handler.createPartner)
		curatorRoute.Patch("/{externalId}", handler.updatePartner)
		curatorRoute.Patch("/{externalId}/image-url", handler.updatePartnerImageURL)
	})
}

func (handler *Handler) listPartners(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	partners, total, err := handler.service.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, partners, pagination.NewMeta(params.Page, params.PerPage, total))
}

func (handler *Handler) getPartner(writer http.ResponseWriter, request *http.Request) {
	partner, err := handler.service.Get(request.Context(), requestutil.Param(request, "externalId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, partner)
}

func (handler *Handler) createPartner(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	partner, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, partner)
}

func (handler *Handler) updatePartner(writer http.ResponseWriter, request *http.Request) {
	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.ExternalID = requestutil.Param(request, "externalId")

	partner, err := handler.service.Update(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, partner)
}

func (handler *Handler) updatePartnerImageURL(writer http.ResponseWriter, request *http.Request) {
	var input ImageURLInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.ExternalID = requestutil.Param(request, "externalId")

	partner, err := handler.service.UpdateImageURL(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, partner)
}
