package task

import "strings"

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// ListParams are the raw list options supplied by a client.
type ListParams struct {
	Page      int    `json:"page"`
	PerPage   int    `json:"per_page"`
	Completed *bool  `json:"completed,omitempty"`
	Search    string `json:"search,omitempty"`
}

// Query is a store-independent description of a task listing.
type Query struct {
	OwnerID   *uint
	Completed *bool
	Search    string
	Page      int
	PerPage   int
}

// BuildQuery scopes params to what caller may see and normalizes paging.
// Non-admin callers are always restricted to their own tasks.
func BuildQuery(caller Caller, params ListParams) Query {
	q := Query{
		Completed: params.Completed,
		Search:    params.Search,
		Page:      params.Page,
		PerPage:   params.PerPage,
	}

	if !caller.IsAdmin() {
		owner := caller.ID
		q.OwnerID = &owner
	}

	if q.Page < 1 {
		q.Page = 1
	}
	switch {
	case q.PerPage < 1:
		q.PerPage = DefaultPerPage
	case q.PerPage > MaxPerPage:
		q.PerPage = MaxPerPage
	}
	return q
}

// Limit is the page size.
func (q Query) Limit() int {
	return q.PerPage
}

// Offset is the number of rows skipped before the page.
func (q Query) Offset() int {
	return (q.Page - 1) * q.PerPage
}

// LikePattern returns a lower-cased LIKE pattern for Search with % and _
// escaped by a backslash. It is empty when no search was requested.
func (q Query) LikePattern() string {
	if q.Search == "" {
		return ""
	}
	escaped := likeEscaper.Replace(strings.ToLower(q.Search))
	return "%" + escaped + "%"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Pagination describes where a page sits in the full result set.
type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
}

// NewPagination computes page metadata for a query that matched total rows.
func NewPagination(q Query, total int64) Pagination {
	pages := 0
	if total > 0 {
		pages = int((total + int64(q.PerPage) - 1) / int64(q.PerPage))
	}
	return Pagination{
		Page:    q.Page,
		PerPage: q.PerPage,
		Total:   total,
		Pages:   pages,
		HasNext: q.Page < pages,
		HasPrev: q.Page > 1,
	}
}
