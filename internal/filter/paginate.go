package filter

// Pagination is a resolved page window
type Pagination struct {
	Page     int
	PageSize int
	Pages    int
	Limit    int
	Offset   int
}

// Paginate clamps page into [1, pages]. size <= 0 returns everything as one page.
func Paginate(total, page, size int) Pagination {
	if size <= 0 {
		return Pagination{Page: 1, Pages: 1}
	}

	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	return Pagination{
		Page:     page,
		PageSize: size,
		Pages:    pages,
		Limit:    size,
		Offset:   (page - 1) * size,
	}
}
