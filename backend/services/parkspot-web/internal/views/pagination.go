package views

// Pagination is the page position of a list view. Pages are numbered from 1.
type Pagination struct {
	CurrentPage   int   `json:"currentPage"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	PageSize      int   `json:"pageSize"`
}

// HasPrev reports whether Previous is enabled.
func (p Pagination) HasPrev() bool { return p.CurrentPage > 1 }

// HasNext reports whether Next is enabled.
func (p Pagination) HasNext() bool { return p.CurrentPage < p.TotalPages }

// InRange reports whether page can be navigated to.
func (p Pagination) InRange(page int) bool { return page >= 1 && page <= p.TotalPages }

// PrevPage returns the page before the current one.
func (p Pagination) PrevPage() int { return p.CurrentPage - 1 }

// NextPage returns the page after the current one.
func (p Pagination) NextPage() int { return p.CurrentPage + 1 }

// Slice is one page of a collection held whole in memory.
type Slice[T any] struct {
	Items      []T
	Pagination Pagination
}

// Paginate slices items for page. Out of range pages are clamped to the nearest valid page, and an
// empty collection yields page 1 of 1.
func Paginate[T any](items []T, page, pageSize int) Slice[T] {
	const defaultPageSize = 10

	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return Slice[T]{
		Items: items[start:end],
		Pagination: Pagination{
			CurrentPage:   page,
			TotalPages:    totalPages,
			TotalElements: int64(total),
			PageSize:      pageSize,
		},
	}
}
