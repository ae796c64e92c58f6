/*
Package image exposes the admin image upload endpoint.

Curators upload a file here first and then pass the returned url to the
image-url endpoints of collections, stories, authors and partners.
*/
package image

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/collections-api/internal/platform/apperr"
	"github.com/taibuivan/collections-api/internal/platform/constants"
	"github.com/taibuivan/collections-api/internal/platform/middleware"
	"github.com/taibuivan/collections-api/internal/platform/respond"
	"github.com/taibuivan/collections-api/internal/platform/sec"
	"github.com/taibuivan/collections-api/internal/platform/storage"
	"github.com/taibuivan/collections-api/internal/platform/validate"
)

// Uploader stores one image and describes where it landed.
type Uploader interface {
	UploadImage(ctx context.Context, body io.Reader) (*storage.Upload, error)
}

type Handler struct {
	uploader Uploader
}

func NewHandler(uploader Uploader) *Handler {
	return &Handler{uploader: uploader}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.With(middleware.RequireRole(sec.RoleCurator)).Post("/", handler.uploadImage)
}

// uploadImage reads the multipart field "image" and answers with its url.
func (handler *Handler) uploadImage(writer http.ResponseWriter, request *http.Request) {
	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxImageUploadBytes)

	file, _, err := request.FormFile(storage.FieldImage)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(writer, request, apperr.ValidationError("Image exceeds the upload limit"))
			return
		}
		respond.Error(writer, request, validate.RequiredError(storage.FieldImage, "An image file is required"))
		return
	}
	defer file.Close()

	upload, err := handler.uploader.UploadImage(request.Context(), file)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, upload)
}
