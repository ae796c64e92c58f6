package collection

import (
	"net/http"

	requestutil "github.com/taibuivan/collections-api/internal/platform/request"
	"github.com/taibuivan/collections-api/internal/platform/respond"
)

func (handler *Handler) getStory(writer http.ResponseWriter, request *http.Request) {
	story, err := handler.service.GetStory(request.Context(), requestutil.Param(request, "externalId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, story)
}

func (handler *Handler) createStory(writer http.ResponseWriter, request *http.Request) {
	var input CreateStoryInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	story, err := handler.service.CreateStory(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, story)
}

func (handler *Handler) updateStory(writer http.ResponseWriter, request *http.Request) {
	var input UpdateStoryInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.ExternalID = requestutil.Param(request, "externalId")

	story, err := handler.service.UpdateStory(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, story)
}

func (handler *Handler) updateStorySortOrder(writer http.ResponseWriter, request *http.Request) {
	var input StorySortOrderInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.ExternalID = requestutil.Param(request, "externalId")

	story, err := handler.service.UpdateStorySortOrder(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, story)
}

func (handler *Handler) updateStoryImageURL(writer http.ResponseWriter, request *http.Request) {
	var input ImageURLInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.ExternalID = requestutil.Param(request, "externalId")

	story, err := handler.service.UpdateStoryImageURL(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, story)
}

func (handler *Handler) deleteStory(writer http.ResponseWriter, request *http.Request) {
	story, err := handler.service.DeleteStory(request.Context(), requestutil.Param(request, "externalId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, story)
}
