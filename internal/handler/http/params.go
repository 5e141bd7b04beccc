package http

import (
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/Vinhhoang-1312/apiskylarbox/pkg/errors"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/pagination"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/service"
)

// deletedResponse is written after a successful DELETE.
type deletedResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// listParams reads page, limit, search and sort from the query string.
func listParams(r *http.Request) service.ListParams {
	p := pagination.FromRequest(r)
	q := r.URL.Query()
	return service.ListParams{
		Page:   p.Page,
		Limit:  p.Limit,
		Search: strings.TrimSpace(q.Get("search")),
		Sort:   q.Get("sort"),
	}
}

// boolQuery parses an optional boolean query parameter. An absent parameter
// yields nil.
func boolQuery(r *http.Request, name string) (*bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, apperrors.InvalidInput(name + " must be true or false")
	}
	return &b, nil
}

// intQuery parses an optional integer query parameter, returning 0 when it
// is absent.
func intQuery(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperrors.InvalidInput(name + " must be a valid integer")
	}
	return n, nil
}

// tagsQuery accepts both ?tags=a,b and repeated ?tags=a&tags=b.
func tagsQuery(r *http.Request) []string {
	var tags []string
	for _, raw := range r.URL.Query()["tags"] {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	return tags
}
