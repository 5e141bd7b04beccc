package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/docstore"
)

func TestCompileFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter docstore.Filter
		sql    string
		args   []any
	}{
		{
			name:   "match all",
			filter: docstore.All(),
			sql:    "TRUE",
		},
		{
			name:   "scalar or array element",
			filter: docstore.Eq("name", "Box"),
			sql:    "(doc @> $1::jsonb OR doc @> $2::jsonb)",
			args:   []any{`{"name":"Box"}`, `{"name":["Box"]}`},
		},
		{
			name:   "nested path",
			filter: docstore.Eq("sponsorship.type", "gold"),
			sql:    "(doc @> $1::jsonb OR doc @> $2::jsonb)",
			args:   []any{`{"sponsorship":{"type":"gold"}}`, `{"sponsorship":{"type":["gold"]}}`},
		},
		{
			name:   "nil matches missing",
			filter: docstore.Eq("deleted_at", nil),
			sql:    "(doc #> $1::text[] IS NULL OR doc #> $1::text[] = 'null'::jsonb)",
			args:   []any{[]string{"deleted_at"}},
		},
		{
			name:   "ne",
			filter: docstore.Ne("is_delete", true),
			sql:    "NOT (doc @> $1::jsonb OR doc @> $2::jsonb)",
			args:   []any{`{"is_delete":true}`, `{"is_delete":[true]}`},
		},
		{
			name:   "empty in",
			filter: docstore.In[string]("tags"),
			sql:    "FALSE",
		},
		{
			name:   "literal match",
			filter: docstore.Match("name", "(red)"),
			sql:    "COALESCE(doc #>> $1::text[], '') ~* $2",
			args:   []any{[]string{"name"}, `\(red\)`},
		},
		{
			name:   "and of or",
			filter: docstore.And(docstore.Eq("stock", 3), docstore.Search("box", "name", "description")),
			sql:    "((doc @> $1::jsonb OR doc @> $2::jsonb) AND (COALESCE(doc #>> $3::text[], '') ~* $4 OR COALESCE(doc #>> $5::text[], '') ~* $6))",
			args:   []any{`{"stock":3}`, `{"stock":[3]}`, []string{"name"}, "box", []string{"description"}, "box"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &args{}
			sql, err := compileFilter(tt.filter, a)
			require.NoError(t, err)
			assert.Equal(t, tt.sql, sql)
			assert.Equal(t, tt.args, a.vals)
		})
	}
}

func TestCompileFilter_ArrayValueUsesContainmentOnly(t *testing.T) {
	a := &args{}
	sql, err := compileFilter(docstore.Eq("tags", []string{"a", "b"}), a)
	require.NoError(t, err)
	assert.Equal(t, "doc @> $1::jsonb", sql)
	assert.Equal(t, []any{`{"tags":["a","b"]}`}, a.vals)
}

func TestCompileSort(t *testing.T) {
	assert.Equal(t, " ORDER BY id", compileSort(nil))
	assert.Equal(t, " ORDER BY doc #> '{sort_order}' ASC, doc #> '{created_at}' DESC, id",
		compileSort(docstore.ParseSort("sort_order -created_at")))
}

func TestCompileUpdate(t *testing.T) {
	a := &args{}
	expr, err := compileUpdate(docstore.Set("name", "x").Inc("view_count", 1), a)
	require.NoError(t, err)

	assert.Equal(t,
		"jsonb_set(jsonb_set(doc, $1::text[], $2::jsonb, true), $3::text[], "+
			"to_jsonb(COALESCE((doc #>> $3::text[])::numeric, 0) + $4::numeric), true)",
		expr)
	assert.Equal(t, []any{[]string{"name"}, `"x"`, []string{"view_count"}, 1}, a.vals)
}

func TestTableName(t *testing.T) {
	assert.Equal(t, "featured_boxes", TableName("FeaturedBoxes"))
	assert.Equal(t, "blog", TableName("Blog"))
	assert.Equal(t, "users", TableName("Users"))
}

func TestNew_RejectsUnsafeTable(t *testing.T) {
	_, err := New[struct{ docstore.Model }](nil, "Bad-Name")
	assert.Error(t, err)
}
