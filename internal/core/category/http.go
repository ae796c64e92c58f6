package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/collections-api/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/curation-categories", handler.listCuration)
	router.Get("/iab-categories", handler.listIAB)
	router.Get("/languages", handler.listLanguages)
}

func (handler *Handler) listCuration(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.ListCuration(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

func (handler *Handler) listIAB(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.ListIAB(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

func (handler *Handler) listLanguages(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, Languages())
}
