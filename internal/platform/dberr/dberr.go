// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/collections-api/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// Errors that already are an [apperr.AppError] pass through untouched.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	if apperr.IsAppError(err) {
		return err
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Unique constraint races that slipped past the service-level check
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.Code == pgerrcode.UniqueViolation {
		conflict := apperr.Conflict(conflictMessage(pgError.ConstraintName))
		conflict.Cause = err
		return conflict
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// IsNoRows reports whether err signals an empty result set.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// conflictMessage turns the constraint name into a client-safe message.
func conflictMessage(constraint string) string {
	switch constraint {
	case "collection_slug_key":
		return "A collection with this slug already exists"
	case "collectionauthor_slug_key":
		return "An author with this slug already exists"
	case "collectionpartner_slug_key":
		return "A partner with this slug already exists"
	case "label_name_key":
		return "A label with this name already exists"
	case "collectionstory_collectionid_url_key":
		return "A story with this URL already exists in this collection"
	case "collectionpartnership_collectionid_key":
		return "This collection already has a partnership"
	}
	return "Resource already exists"
}
