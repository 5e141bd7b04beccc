package pagination

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, int64(0), p.Skip())
}

func TestFromRequest_Defaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	p := FromRequest(req)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
}

func TestFromRequest_CustomValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/products?page=3&limit=25", nil)
	p := FromRequest(req)

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 25, p.Limit)
	assert.Equal(t, int64(50), p.Skip())
}

func TestFromRequest_InvalidValues(t *testing.T) {
	tests := []struct {
		query string
		page  int
		limit int
	}{
		{"page=-1", 1, 10},
		{"page=0", 1, 10},
		{"page=abc", 1, 10},
		{"limit=0", 1, 10},
		{"limit=-5", 1, 10},
		{"limit=500", 1, 100},
		{"limit=100", 1, 100},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/blog?"+tt.query, nil)
			p := FromRequest(req)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.limit, p.Limit)
		})
	}
}

func TestFromRequest_HugePageDoesNotOverflowSkip(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/products?page=9223372036854775807&limit=100", nil)
	p := FromRequest(req)

	assert.Equal(t, MaxPage, p.Page)
	assert.Positive(t, p.Skip())
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, Params{Page: 1, Limit: 10}, Params{}.Normalize())
	assert.Equal(t, Params{Page: 4, Limit: 100}, Params{Page: 4, Limit: 1000}.Normalize())
}

func TestSkip(t *testing.T) {
	tests := []struct {
		page, limit int
		skip        int64
	}{
		{1, 10, 0},
		{2, 10, 10},
		{3, 25, 50},
		{5, 20, 80},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.skip, Params{Page: tt.page, Limit: tt.limit}.Skip())
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, int64(0), TotalPages(0, 10))
	assert.Equal(t, int64(1), TotalPages(1, 10))
	assert.Equal(t, int64(1), TotalPages(10, 10))
	assert.Equal(t, int64(2), TotalPages(11, 10))
	assert.Equal(t, int64(3), TotalPages(11, 5))
	assert.Equal(t, int64(0), TotalPages(11, 0))
}

func TestNewResult(t *testing.T) {
	result := NewResult([]string{"a", "b"}, 10, Params{Page: 2, Limit: 2})

	assert.Equal(t, []string{"a", "b"}, result.List)
	assert.Equal(t, int64(10), result.Total)
	assert.Equal(t, int64(5), result.TotalPages)
	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 2, result.Limit)
}

func TestNewResult_EnvelopeShape(t *testing.T) {
	result := NewResult[string](nil, 0, DefaultParams())

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"list":[],"total":0,"totalPages":0,"page":1,"limit":10}`, string(data))
}
