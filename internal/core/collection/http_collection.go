package collection

import (
	"net/http"

	requestutil "github.com/taibuivan/collections-api/internal/platform/request"
	"github.com/taibuivan/collections-api/internal/platform/respond"
	"github.com/taibuivan/collections-api/pkg/pagination"
)

func (handler *Handler) searchCollections(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := SearchFilter{
		Author:           requestutil.Query(request, "author"),
		Title:            requestutil.Query(request, "title"),
		Status:           Status(requestutil.Query(request, "status")),
		LabelExternalIDs: requestutil.QueryList(request, "labelExternalIds"),
	}

	collections, total, err := handler.service.Search(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, collections, pagination.NewMeta(params.Page, params.PerPage, total))
}

func (handler *Handler) getCollection(writer http.ResponseWriter, request *http.Request) {
	collection, err := handler.service.Get(request.Context(), requestutil.Param(request, "externalId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, collection)
}

func (handler *Handler) getCollectionPartnership(writer http.ResponseWriter, request *http.Request) {
	partnership, err := handler.service.GetPartnershipForCollection(request.Context(), requestutil.Param(request, "externalId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, partnership)
}

func (handler *Handler) createCollection(writer http.ResponseWriter, request *http.Request) {
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

	collection, err := handler.service.Create(request.Context(), input, actor)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, collection)
}

func (handler *Handler) updateCollection(writer http.ResponseWriter, request *http.Request) {
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

	collection, err := handler.service.Update(request.Context(), input, actor)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, collection)
}

func (handler *Handler) updateCollectionImageURL(writer http.ResponseWriter, request *http.Request) {
	var input ImageURLInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.ExternalID = requestutil.Param(request, "externalId")

	collection, err := handler.service.UpdateImageURL(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, collection)
}

// deleteCollection answers with the removed aggregate rather than 204 so
// clients can offer an undo.
func (handler *Handler) deleteCollection(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	collection, err := handler.service.Delete(request.Context(), requestutil.Param(request, "externalId"), actor)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, collection)
}
