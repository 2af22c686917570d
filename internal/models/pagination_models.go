package models

import "math"

// PageParams carries 1-based page/limit values from the HTTP layer to the repositories.
type PageParams struct {
	Page  int
	Limit int
}

// NewPageParams falls back to page 1 and limit 10 for non-positive values.
// Page is clamped so Offset never exceeds math.MaxInt32.
func NewPageParams(page, limit int) PageParams {
	p := PageParams{Page: 1, Limit: 10}
	if page >= 1 {
		p.Page = page
	}
	if limit >= 1 {
		p.Limit = limit
	}
	if maxPage := math.MaxInt32/p.Limit + 1; p.Page > maxPage {
		p.Page = maxPage
	}
	return p
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages is ceil(total / limit).
func (p PageParams) TotalPages(total int) int {
	if p.Limit <= 0 || total <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}
