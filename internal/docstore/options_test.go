package docstore

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/Vinhhoang-1312/apiskylarbox/pkg/errors"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/pagination"
)

func TestParseSort(t *testing.T) {
	tests := []struct {
		expr string
		want []SortField
	}{
		{"", []SortField{}},
		{"-created_at", []SortField{Desc("created_at")}},
		{"sort_order created_at", []SortField{Asc("sort_order"), Asc("created_at")}},
		{"-view_count,+title", []SortField{Desc("view_count"), Asc("title")}},
		{"- name", []SortField{Asc("name")}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSort(tt.expr))
		})
	}
}

func TestProjection_Keeps(t *testing.T) {
	all := Projection{}
	assert.True(t, all.Keeps("content"))

	inc := Include("title", "sponsorship.type")
	assert.True(t, inc.Keeps("title"))
	assert.True(t, inc.Keeps("sponsorship"))
	assert.True(t, inc.Keeps(FieldID))
	assert.False(t, inc.Keeps("content"))

	exc := Exclude("content")
	assert.False(t, exc.Keeps("content"))
	assert.True(t, exc.Keeps("title"))
	assert.True(t, Exclude(FieldID).Keeps(FieldID))
}

func TestApplyFindOptions(t *testing.T) {
	o := ApplyFindOptions(WithSort(Desc("created_at")), WithLimit(5), WithSkip(10), WithProjection(Exclude("content")))

	assert.Equal(t, []SortField{Desc("created_at")}, o.Sort)
	assert.Equal(t, int64(5), o.Limit)
	assert.Equal(t, int64(10), o.Skip)
	assert.True(t, o.Projection.Exclude)
}

func TestCheckFields(t *testing.T) {
	assert.NoError(t, CheckFields(And(Eq("sponsorship.type", "gold"), Match("name", "x")), ParseSort("-created_at"), Set("stock", 1)))

	err := CheckFields(Eq("name'; DROP TABLE x; --", 1), nil, Update{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, 400, apperrors.HTTPStatus(err))
	assert.Error(t, CheckFields(nil, []SortField{Asc("a b")}, Update{}))
	assert.Error(t, CheckFields(nil, nil, Inc("$where", 1)))
}

func TestPageQuery_Params(t *testing.T) {
	p := PageQuery{Page: 0, Limit: -3}.Params()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)

	p = PageQuery{Page: 3, Limit: 20}.Params()
	assert.Equal(t, int64(40), p.Skip())

	p = PageQuery{Page: math.MaxInt, Limit: 100}.Params()
	assert.Equal(t, pagination.MaxPage, p.Page)
	assert.Positive(t, p.Skip())
}
