package collection

import (
	"net/http"

	requestutil "github.com/taibuivan/collections-api/internal/platform/request"
	"github.com/taibuivan/collections-api/internal/platform/respond"
)

func (handler *Handler) getPartnership(writer http.ResponseWriter, request *http.Request) {
	partnership, err := handler.service.GetPartnership(request.Context(), requestutil.Param(request, "externalId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, partnership)
}

func (handler *Handler) createPartnership(writer http.ResponseWriter, request *http.Request) {
	var input CreatePartnershipInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	partnership, err := handler.service.CreatePartnership(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, partnership)
}

func (handler *Handler) updatePartnership(writer http.ResponseWriter, request *http.Request) {
	var input UpdatePartnershipInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.ExternalID = requestutil.Param(request, "externalId")

	partnership, err := handler.service.UpdatePartnership(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, partnership)
}

func (handler *Handler) updatePartnershipImageURL(writer http.ResponseWriter, request *http.Request) {
	var input ImageURLInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.ExternalID = requestutil.Param(request, "externalId")

	partnership, err := handler.service.UpdatePartnershipImageURL(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, partnership)
}

func (handler *Handler) deletePartnership(writer http.ResponseWriter, request *http.Request) {
	partnership, err := handler.service.DeletePartnership(request.Context(), requestutil.Param(request, "externalId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, partnership)
}
