package store

// Audit log page sizes
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PaginationParams selects one page of a listing. Search matches the audit
// action or resource name.
type PaginationParams struct {
	Page     int
	PageSize int
	Search   string
}

// PaginationResult describes the page returned alongside a listing.
type PaginationResult struct {
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	HasPrev     bool  `json:"has_prev"`
	HasNext     bool  `json:"has_next"`
}

// NewPaginationParams clamps page to at least 1 and pageSize to
// [1, MaxPageSize], using DefaultPageSize when it is unset.
func NewPaginationParams(page, pageSize int, search string) PaginationParams {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return PaginationParams{
		Page:     max(page, 1),
		PageSize: min(pageSize, MaxPageSize),
		Search:   search,
	}
}

// Offset is the number of rows skipped before the page.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// CalculatePagination builds the metadata for a page of a listing with total
// rows. currentPage is clamped to the last page.
func CalculatePagination(total int64, currentPage, pageSize int) PaginationResult {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	currentPage = max(currentPage, 1)
	if totalPages > 0 {
		currentPage = min(currentPage, totalPages)
	}

	return PaginationResult{
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: currentPage,
		PageSize:    pageSize,
		HasPrev:     currentPage > 1,
		HasNext:     currentPage < totalPages,
	}
}
