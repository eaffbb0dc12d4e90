package store

import "strings"

// Offset pagination bounds for list endpoints
const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// ListParams contains parameters for offset-paginated queries
type ListParams struct {
	Search string // Case-insensitive substring
	Limit  int
	Offset int
}

// NewListParams clamps limit and offset into their valid ranges.
func NewListParams(search string, limit, offset int) ListParams {
	if limit < 1 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return ListParams{
		Search: search,
		Limit:  limit,
		Offset: offset,
	}
}

// likePattern builds a lowercase LIKE pattern matching s anywhere, with the
// LIKE wildcards in s escaped.
func likePattern(s string) string {
	escaped := make([]rune, 0, len(s)+2)
	escaped = append(escaped, '%')
	for _, r := range strings.ToLower(s) {
		switch r {
		case '%', '_', '\\':
			escaped = append(escaped, '\\')
		}
		escaped = append(escaped, r)
	}
	escaped = append(escaped, '%')
	return string(escaped)
}

