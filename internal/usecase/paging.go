package usecase

import "math"

const (
	defaultPageSize = 20
	maxPageSize     = 100
	// maxPage keeps (Page-1)*PageSize inside int32 for every allowed page size.
	maxPage = math.MaxInt32 / maxPageSize
)

// Paging is a 1-based page request.
type Paging struct {
	Page     int
	PageSize int
}

func (p Paging) normalize() Paging {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > maxPage {
		p.Page = maxPage
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}

func (p Paging) offset() int {
	return (p.Page - 1) * p.PageSize
}

func totalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
