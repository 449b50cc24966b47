package store

// Default page window for list queries.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Pagination describes one page of a list result.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	Total       int  `json:"total"`
	Limit       int  `json:"limit"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// NormalizePage coerces non-positive page and limit values to their defaults.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return page, limit
}

// NewPagination computes the page bookkeeping for a list of total records
// viewed through the given page and limit.
func NewPagination(total, page, limit int) Pagination {
	page, limit = NormalizePage(page, limit)
	totalPages := (total + limit - 1) / limit
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		Total:       total,
		Limit:       limit,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}
