// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage uploads collection, story, author and partner images to S3
(or an S3-compatible endpoint) and returns their public URL.
*/
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/taibuivan/collections-api/internal/platform/apperr"
	"github.com/taibuivan/collections-api/internal/platform/validate"
)

// FieldImage is the multipart field carrying the upload.
const FieldImage = "image"

// PutObjectAPI is the slice of the S3 client used by [S3Uploader].
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Upload describes a stored image.
type Upload struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Size        int    `json:"size"`
}

// S3Uploader stores images under a key prefix in one bucket.
type S3Uploader struct {
	client   PutObjectAPI
	bucket   string
	region   string
	endpoint string
	prefix   string
	logger   *slog.Logger
}

// NewS3Uploader wraps an S3 client. endpoint is optional and, when set, is
// used as the public URL base instead of the virtual-hosted AWS host.
func NewS3Uploader(client PutObjectAPI, bucket, region, endpoint, prefix string, logger *slog.Logger) *S3Uploader {
	return &S3Uploader{
		client:   client,
		bucket:   bucket,
		region:   region,
		endpoint: strings.TrimSuffix(endpoint, "/"),
		prefix:   prefix,
		logger:   logger,
	}
}

// NewClient builds an S3 client. A non-empty endpoint switches to path-style
// addressing for S3-compatible stores.
func NewClient(ctx context.Context, region, endpoint string) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("storage: failed to load aws config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(options *s3.Options) {
		if endpoint != "" {
			options.BaseEndpoint = aws.String(endpoint)
			options.UsePathStyle = true
		}
	}), nil
}

// UploadImage sniffs the content type of body and stores it when it is an
// image. Anything else is rejected with a validation error before any call
// to S3 is made.
func (uploader *S3Uploader) UploadImage(ctx context.Context, body io.Reader) (*Upload, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, apperr.ValidationError("Could not read upload")
	}
	if len(data) == 0 {
		return nil, validate.RequiredError(FieldImage, "An image file is required")
	}

	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return nil, validate.RequiredError(FieldImage, fmt.Sprintf("Unsupported file type %s", detected.String()))
	}

	key := uploader.prefix + uuid.NewString() + detected.Extension()

	_, err = uploader.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(uploader.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(detected.String()),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return nil, apperr.DependencyFailure("Image storage", fmt.Errorf("storage: put object %s: %w", key, err))
	}

	uploader.logger.InfoContext(ctx, "image_uploaded",
		slog.String("key", key),
		slog.String("content_type", detected.String()),
		slog.Int("size", len(data)),
	)

	return &Upload{
		URL:         uploader.publicURL(key),
		Key:         key,
		ContentType: detected.String(),
		Size:        len(data),
	}, nil
}

func (uploader *S3Uploader) publicURL(key string) string {
	if uploader.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", uploader.endpoint, uploader.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", uploader.bucket, uploader.region, key)
}
