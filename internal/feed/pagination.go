package feed

import "strconv"

// Default page sizes per listing.
const (
	DefaultPostLimit         = 20
	DefaultNotificationLimit = 20
	DefaultReelLimit         = 10
	DefaultProjectLimit      = 12

	maxLimit = 100
)

// Pagination is the 1-based page/limit pair shared by every listing.
type Pagination struct {
	Page  int
	Limit int
}

// ParsePagination reads page and limit query values. Missing, malformed or
// non-positive values fall back to page 1 and defaultLimit.
func ParsePagination(page, limit string, defaultLimit int) Pagination {
	p := Pagination{Page: 1, Limit: defaultLimit}
	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(limit); err == nil && n > 0 {
		p.Limit = n
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

// Skip is the number of items preceding the page.
func (p Pagination) Skip() int {
	return (p.Page - 1) * p.Limit
}

// HasMore approximates whether another page exists: true when the page came back full.
func (p Pagination) HasMore(returned int) bool {
	return returned == p.Limit
}
