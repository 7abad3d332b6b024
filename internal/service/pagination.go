// Package service contains the application's business logic, wired between
// HTTP handlers, repositories, the tagged cache, and the moderation queue.
package service

import "time"

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

// ListParams are the pagination and filter parameters of a listing request.
type ListParams struct {
	Page    int
	PerPage int
	Search  string
	From    *time.Time
	To      *time.Time
}

// normalized clamps page and per-page into their allowed ranges.
func (p ListParams) normalized() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
	return p
}

// PageMeta describes one page of a listing. It is computed from the same
// query that produced the items, so a cached page carries the meta of its
// population time.
type PageMeta struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
}

// NewPageMeta computes pagination metadata for a total row count.
func NewPageMeta(page, perPage int, total int64) PageMeta {
	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}
	return PageMeta{
		CurrentPage: page,
		LastPage:    lastPage,
		PerPage:     perPage,
		Total:       total,
	}
}
