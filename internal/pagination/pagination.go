// Package pagination implements page/limit windowing over the post timeline.
package pagination

// Defaults for the list endpoint.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Params is a normalized page request.
type Params struct {
	Page  int
	Limit int
}

// NewParams normalizes raw query values: page below 1 falls back to 1,
// limit below 1 falls back to the default.
func NewParams(page, limit int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return Params{Page: page, Limit: limit}
}

// Offset returns how many items precede the requested page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination block returned alongside a page of posts.
type Meta struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalPosts  int  `json:"totalPosts"`
	HasMore     bool `json:"hasMore"`
}

// NewMeta computes page metadata for a total item count.
// totalPages is ceil(total/limit); hasMore holds only while further pages
// exist past the current window.
func NewMeta(p Params, total int) Meta {
	return Meta{
		CurrentPage: p.Page,
		TotalPages:  (total + p.Limit - 1) / p.Limit,
		TotalPosts:  total,
		HasMore:     p.Page*p.Limit < total,
	}
}
