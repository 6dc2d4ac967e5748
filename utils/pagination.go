package utils

import "math"

// ClampPage normalizes page/limit: page >= 1, 1 <= limit <= maxLimit.
// A limit of 0 falls back to defaultLimit.
func ClampPage(page, limit, defaultLimit, maxLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// TotalPages is at least 1 so that "page > totalPages" stays meaningful for
// empty result sets.
func TotalPages(total int64, limit int) int {
	pages := int(math.Ceil(float64(total) / float64(limit)))
	if pages < 1 {
		pages = 1
	}
	return pages
}
