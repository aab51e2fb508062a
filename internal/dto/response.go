package dto

// ── Pagination ──

// PaginationRequest is the common page query.
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1,max=1000000"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage returns the page, defaulting to 1.
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize returns the page size, defaulting to 20.
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// Bounds returns the slice bounds of the page within n items. Pages past the
// end yield an empty range; the arithmetic never overflows.
func (p *PaginationRequest) Bounds(n int) (int, int) {
	page, size := p.GetPage(), p.GetPageSize()
	start := n
	if page-1 <= n/size {
		start = min((page-1)*size, n)
	}
	end := n
	if size < n-start {
		end = start + size
	}
	return start, end
}
