package image

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/collections-api/internal/platform/ctxutil"
	"github.com/taibuivan/collections-api/internal/platform/sec"
	"github.com/taibuivan/collections-api/internal/platform/storage"
)

type stubUploader struct {
	received []byte
}

func (uploader *stubUploader) UploadImage(_ context.Context, body io.Reader) (*storage.Upload, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	uploader.received = data
	return &storage.Upload{URL: "https://cdn.example.com/collections/images/x.png", Size: len(data)}, nil
}

func newRouter(uploader Uploader) chi.Router {
	router := chi.NewRouter()
	router.Route("/images", NewHandler(uploader).RegisterRoutes)
	return router
}

func multipartRequest(t *testing.T, field string, content []byte, role sec.UserRole) *http.Request {
	t.Helper()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile(field, "upload.png")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, form.Close())

	request := httptest.NewRequest(http.MethodPost, "/images", &body)
	request.Header.Set("Content-Type", form.FormDataContentType())
	claims := &sec.AuthClaims{UserID: "u-1", Username: "curator", Role: string(role)}
	return request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
}

func TestUploadImage(t *testing.T) {
	uploader := &stubUploader{}
	recorder := httptest.NewRecorder()

	newRouter(uploader).ServeHTTP(recorder, multipartRequest(t, storage.FieldImage, []byte("png-bytes"), sec.RoleCurator))

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, []byte("png-bytes"), uploader.received)
	assert.Contains(t, recorder.Body.String(), "https://cdn.example.com/collections/images/x.png")
}

func TestUploadImage_MissingField(t *testing.T) {
	recorder := httptest.NewRecorder()

	newRouter(&stubUploader{}).ServeHTTP(recorder, multipartRequest(t, "file", []byte("png-bytes"), sec.RoleCurator))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestUploadImage_ReadOnlyForbidden(t *testing.T) {
	uploader := &stubUploader{}
	recorder := httptest.NewRecorder()

	newRouter(uploader).ServeHTTP(recorder, multipartRequest(t, storage.FieldImage, []byte("png-bytes"), sec.RoleReadOnly))

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Nil(t, uploader.received)
}
