package domain

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is a clamped page request. Build it with NewPage.
type Page struct {
	Number int
	Limit  int
}

// NewPage clamps raw page/limit values: page below 1 becomes 1, a zero limit
// becomes DefaultLimit and the limit is bounded to [1, MaxLimit].
func NewPage(page, limit int) Page {
	if page < 1 {
		page = DefaultPage
	}
	switch {
	case limit == 0:
		limit = DefaultLimit
	case limit < 1:
		limit = 1
	case limit > MaxLimit:
		limit = MaxLimit
	}
	return Page{Number: page, Limit: limit}
}

// Offset is the number of rows skipped before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// Pagination is the page metadata attached to list responses.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// Paginate computes the metadata for total matching rows.
func (p Page) Paginate(total int64) Pagination {
	pages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Pagination{Page: p.Number, Limit: p.Limit, Total: total, TotalPages: pages}
}

// PageResult is one page of items plus its metadata.
type PageResult[T any] struct {
	Items      []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// NewPageResult wraps items; a nil slice is replaced so it encodes as [].
func NewPageResult[T any](items []T, total int64, p Page) *PageResult[T] {
	if items == nil {
		items = []T{}
	}
	return &PageResult[T]{Items: items, Pagination: p.Paginate(total)}
}
