// Package models chứa các kiểu dùng chung cho layer repository/base (kết quả phân trang, media).
package models

import "math"

// PaginateResult là kết quả phân trang của một aggregation
type PaginateResult[T any] struct {
	Docs          []T    `json:"docs"`
	TotalDocs     int64  `json:"totalDocs"`
	Limit         int64  `json:"limit"`
	Page          int64  `json:"page"`
	TotalPages    int64  `json:"totalPages"`
	PagingCounter int64  `json:"pagingCounter"` // Số thứ tự (bắt đầu từ 1) của document đầu tiên trong trang
	HasPrevPage   bool   `json:"hasPrevPage"`
	HasNextPage   bool   `json:"hasNextPage"`
	PrevPage      *int64 `json:"prevPage"`
	NextPage      *int64 `json:"nextPage"`
}

// NewPaginateResult tính metadata phân trang.
// page/limit <= 0 được đưa về 1. totalPages = 0 khi không có document.
func NewPaginateResult[T any](docs []T, totalDocs, page, limit int64) *PaginateResult[T] {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	if docs == nil {
		docs = []T{}
	}

	var totalPages int64
	if totalDocs > 0 {
		totalPages = (totalDocs + limit - 1) / limit
	}

	result := &PaginateResult[T]{
		Docs:          docs,
		TotalDocs:     totalDocs,
		Limit:         limit,
		Page:          page,
		TotalPages:    totalPages,
		PagingCounter: pagingCounter(page, limit),
		HasPrevPage:   page > 1,
		HasNextPage:   page < totalPages,
	}
	if result.HasPrevPage {
		prev := page - 1
		result.PrevPage = &prev
	}
	if result.HasNextPage {
		next := page + 1
		result.NextPage = &next
	}
	return result
}

// pagingCounter = (page-1)*limit + 1, bão hòa ở MaxInt64 khi tràn
func pagingCounter(page, limit int64) int64 {
	if page-1 > (math.MaxInt64-1)/limit {
		return math.MaxInt64
	}
	return (page-1)*limit + 1
}
