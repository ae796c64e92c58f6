// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// Pages are 1-based. Callers send "page" and "perPage" in the query string and
// receive a [Meta] block with the computed page count.
package pagination

import (
	"math"
	"net/http"

	"github.com/taibuivan/collections-api/pkg/convert"
)

const (
	// DefaultPerPage is the number of items per page if not specified.
	DefaultPerPage = 30
	// MaxPerPage is the upper bound for items per page.
	MaxPerPage = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Params holds a clamped page and page size.
type Params struct {
	Page    int
	PerPage int
}

// New clamps page and perPage into the accepted range.
//
// # Clamping
//
// Non-positive values fall back to [DefaultPage] and [DefaultPerPage];
// perPage above [MaxPerPage] is capped. page is capped so that [Params.Offset]
// never overflows.
func New(page, perPage int) Params {
	switch {
	case perPage < 1:
		perPage = DefaultPerPage
	case perPage > MaxPerPage:
		perPage = MaxPerPage
	}

	switch {
	case page < 1:
		page = DefaultPage
	case page > math.MaxInt/perPage:
		page = math.MaxInt / perPage
	}

	return Params{Page: page, PerPage: perPage}
}

// Offset returns the SQL OFFSET value derived from [Page] and [PerPage].
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PerPage
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"totalResults"`
	TotalPages int `json:"totalPages"`
}

// NewMeta constructs pagination metadata for a response.
func NewMeta(page, perPage, total int) Meta {
	totalPages := 0
	if perPage > 0 {
		totalPages = (total + perPage - 1) / perPage
	}

	return Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// FromRequest parses "page" and "perPage" query parameters from an HTTP request.
func FromRequest(r *http.Request) Params {
	return New(
		convert.ToIntD(r.URL.Query().Get("page"), DefaultPage),
		convert.ToIntD(r.URL.Query().Get("perPage"), DefaultPerPage),
	)
}
