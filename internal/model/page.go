package model

// PageRequest selects one page of a listing. Page is 1-based.
type PageRequest struct {
	Page  int
	Limit int
}

// Skip is the number of items before the requested page.
func (p PageRequest) Skip() int64 {
	if p.Page < 1 {
		return 0
	}
	return int64(p.Page-1) * int64(p.Limit)
}

// Page is one page of a listing plus the navigation metadata clients need.
type Page[T any] struct {
	Items       []T   `json:"items"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int64 `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// NewPage fills in the derived fields. totalPages is ceil(total/limit).
func NewPage[T any](items []T, total int64, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	var pages int64
	if req.Limit > 0 {
		pages = (total + int64(req.Limit) - 1) / int64(req.Limit)
	}
	return Page[T]{
		Items:       items,
		TotalItems:  total,
		TotalPages:  pages,
		CurrentPage: req.Page,
		HasNextPage: int64(req.Page) < pages,
		HasPrevPage: req.Page > 1,
	}
}
