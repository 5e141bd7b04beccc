package pagination

import (
	"math"
	"net/http"
	"strconv"
)

const (
	// DefaultPage is the page used when none (or an invalid one) is supplied.
	DefaultPage = 1
	// DefaultLimit is the page size used when none (or an invalid one) is supplied.
	DefaultLimit = 10
	// MaxLimit caps the page size a client may request.
	MaxLimit = 100
	// MaxPage caps the page number so the skip offset fits in an int64.
	MaxPage = math.MaxInt32
)

// Params holds pagination parameters extracted from query strings.
type Params struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// DefaultParams returns the defaults used by list endpoints.
func DefaultParams() Params {
	return Params{Page: DefaultPage, Limit: DefaultLimit}
}

// Normalize replaces out-of-range values with defaults and clamps the page
// and the limit.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Skip returns the number of documents to skip for the page.
func (p Params) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// FromRequest extracts page and limit from an HTTP request.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()

	if page := r.URL.Query().Get("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 0 {
			p.Page = v
		}
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil && v > 0 {
			p.Limit = v
		}
	}

	return p.Normalize()
}

// Result is the list envelope returned by paginated endpoints.
type Result[T any] struct {
	List       []T   `json:"list"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
}

// NewResult creates a paginated result. A nil list is replaced with an empty
// one so the envelope always serializes "list" as an array.
func NewResult[T any](list []T, total int64, params Params) Result[T] {
	if list == nil {
		list = []T{}
	}
	return Result[T]{
		List:       list,
		Total:      total,
		TotalPages: TotalPages(total, params.Limit),
		Page:       params.Page,
		Limit:      params.Limit,
	}
}

// TotalPages returns ceil(total/limit), or 0 when limit is not positive.
func TotalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	l := int64(limit)
	return (total + l - 1) / l
}
