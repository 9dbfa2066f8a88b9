// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/entradalive/entrada/auth"
	"github.com/entradalive/entrada/middleware"
	"github.com/entradalive/entrada/models"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

// parsePagination reads page/perPage query parameters with defaults.
func parsePagination(r *http.Request) (page, perPage int) {
	page = 1
	perPage = defaultPerPage

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("perPage"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			perPage = n
			if perPage > maxPerPage {
				perPage = maxPerPage
			}
		}
	}
	return page, perPage
}

// newPagination derives page metadata from a total row count.
func newPagination(page, perPage, total int) models.Pagination {
	pages := (total + perPage - 1) / perPage
	if pages == 0 {
		pages = 1
	}
	return models.Pagination{
		Page:    page,
		Pages:   pages,
		PerPage: perPage,
		Total:   total,
		HasNext: page < pages,
		HasPrev: page > 1,
	}
}

// requireAdmin validates the X-Admin-Key header. Writes a 401 and returns
// false when the key is missing or wrong.
func requireAdmin(w http.ResponseWriter, r *http.Request, salt string) bool {
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(adminKey, salt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return false
	}
	return true
}
