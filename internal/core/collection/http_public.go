package collection

import (
	"net/http"

	"github.com/taibuivan/collections-api/internal/core/category"
	requestutil "github.com/taibuivan/collections-api/internal/platform/request"
	"github.com/taibuivan/collections-api/internal/platform/respond"
	"github.com/taibuivan/collections-api/pkg/pagination"
)

func (handler *Handler) listPublishedCollections(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	language := category.Language(requestutil.Query(request, "language"))

	collections, total, err := handler.service.ListPublished(request.Context(), language, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, collections, pagination.NewMeta(params.Page, params.PerPage, total))
}

func (handler *Handler) getPublishedCollection(writer http.ResponseWriter, request *http.Request) {
	collection, err := handler.service.GetPublishedBySlug(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, collection)
}
