// Package pagination carries page binding shared by list endpoints.
package pagination

import "strconv"

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Pagination binds the common page query parameters.
type Pagination struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size"`
}

// Limit clamps the requested page size into the allowed range.
func (p Pagination) Limit() int {
	if p.PageSize <= 0 {
		return DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		return MaxPageSize
	}
	return p.PageSize
}

// Offset decodes the page token. Tokens are plain integer offsets; a garbage
// token behaves like the first page rather than erroring.
func (p Pagination) Offset() int {
	if p.PageToken == "" {
		return 0
	}
	offset, err := strconv.Atoi(p.PageToken)
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

// NextToken returns the token for the page after an offset+count read, or ""
// when the read was short (no further page).
func (p Pagination) NextToken(count int) string {
	if count < p.Limit() {
		return ""
	}
	return strconv.Itoa(p.Offset() + count)
}
