package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/collections-api/internal/platform/apperr"
)

// pngHeader is the 8 byte PNG signature followed by an IHDR chunk header.
var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52}

type fakePutObject struct {
	input *s3.PutObjectInput
	err   error
}

func (fake *fakePutObject) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	fake.input = params
	return &s3.PutObjectOutput{}, fake.err
}

func newTestUploader(client PutObjectAPI, endpoint string) *S3Uploader {
	return NewS3Uploader(client, "curation-images", "eu-central-1", endpoint, "collections/images/", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestUploadImage_PNG(t *testing.T) {
	fake := &fakePutObject{}

	upload, err := newTestUploader(fake, "").UploadImage(context.Background(), bytes.NewReader(pngHeader))
	require.NoError(t, err)

	assert.Equal(t, "image/png", upload.ContentType)
	assert.True(t, strings.HasPrefix(upload.Key, "collections/images/"))
	assert.True(t, strings.HasSuffix(upload.Key, ".png"))
	assert.Equal(t, "https://curation-images.s3.eu-central-1.amazonaws.com/"+upload.Key, upload.URL)

	require.NotNil(t, fake.input)
	assert.Equal(t, "curation-images", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "image/png", aws.ToString(fake.input.ContentType))
}

func TestUploadImage_CustomEndpoint(t *testing.T) {
	upload, err := newTestUploader(&fakePutObject{}, "http://localhost:4566/").UploadImage(context.Background(), bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4566/curation-images/"+upload.Key, upload.URL)
}

func TestUploadImage_RejectsNonImage(t *testing.T) {
	fake := &fakePutObject{}

	_, err := newTestUploader(fake, "").UploadImage(context.Background(), strings.NewReader("just some text"))
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	assert.Nil(t, fake.input)
}

func TestUploadImage_Empty(t *testing.T) {
	_, err := newTestUploader(&fakePutObject{}, "").UploadImage(context.Background(), strings.NewReader(""))
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestUploadImage_StorageFailure(t *testing.T) {
	fake := &fakePutObject{err: errors.New("access denied")}

	_, err := newTestUploader(fake, "").UploadImage(context.Background(), bytes.NewReader(pngHeader))
	assert.True(t, apperr.HasCode(err, apperr.CodeDependencyFailure))
}
