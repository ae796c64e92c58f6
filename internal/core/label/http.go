package label

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/collections-api/internal/platform/middleware"
	requestutil "github.com/taibuivan/collections-api/internal/platform/request"
	"github.com/taibuivan/collections-api/internal/platform/respond"
	"github.com/taibuivan/collections-api/internal/platform/sec"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listLabels)

	router.Group(func(curatorRoute chi.Router) {
		curatorRoute.Use(middleware.RequireRole(sec.RoleCurator))

		curatorRoute.Post("/", handler.createLabel)
		curatorRoute.Patch("/{externalId}", handler.updateLabel)
	})
}

func (handler *Handler) listLabels(writer http.ResponseWriter, request *http.Request) {
	labels, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, labels)
}

func (handler *Handler) createLabel(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	label, err := handler.service.Create(request.Context(), input, actor)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, label)
}

func (handler *Handler) updateLabel(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.ExternalID = requestutil.Param(request, "externalId")

	label, err := handler.service.Update(request.Context(), input, actor)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, label)
}
