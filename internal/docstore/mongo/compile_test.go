package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/docstore"
)

func TestCompileFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter docstore.Filter
		want   bson.D
	}{
		{"all", nil, bson.D{}},
		{"eq", docstore.Eq("slug", "tet-box"), bson.D{{Key: "slug", Value: "tet-box"}}},
		{"ne", docstore.Ne("is_delete", true), bson.D{{Key: "is_delete", Value: bson.D{{Key: "$ne", Value: true}}}}},
		{"in", docstore.In("tags", "a", "b"), bson.D{{Key: "tags", Value: bson.D{{Key: "$in", Value: bson.A{"a", "b"}}}}}},
		{"empty in", docstore.In[string]("tags"), bson.D{{Key: "tags", Value: bson.D{{Key: "$in", Value: bson.A{}}}}}},
		{"literal match", docstore.Match("name", "a+b"), bson.D{{Key: "name", Value: bson.Regex{Pattern: `a\+b`, Options: "i"}}}},
		{
			"and",
			docstore.And(docstore.Eq("a", 1), docstore.Eq("b", 2)),
			bson.D{{Key: "$and", Value: bson.A{bson.D{{Key: "a", Value: 1}}, bson.D{{Key: "b", Value: 2}}}}},
		},
		{
			"or",
			docstore.Search("box", "name", "description"),
			bson.D{{Key: "$or", Value: bson.A{
				bson.D{{Key: "name", Value: bson.Regex{Pattern: "box", Options: "i"}}},
				bson.D{{Key: "description", Value: bson.Regex{Pattern: "box", Options: "i"}}},
			}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := compileFilter(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileSort(t *testing.T) {
	assert.Nil(t, compileSort(nil))
	assert.Equal(t, bson.D{{Key: "sort_order", Value: 1}, {Key: "created_at", Value: -1}},
		compileSort(docstore.ParseSort("sort_order,-created_at")))
}

func TestCompileProjection(t *testing.T) {
	assert.Nil(t, compileProjection(docstore.Projection{}))
	assert.Equal(t, bson.D{{Key: "content", Value: 0}}, compileProjection(docstore.Exclude("content")))
	assert.Equal(t, bson.D{{Key: "title", Value: 1}}, compileProjection(docstore.Include("title")))
}

func TestCompileUpdate(t *testing.T) {
	got := compileUpdate(docstore.Set("name", "x").Inc("like_count", 1))
	assert.Equal(t, bson.D{
		{Key: "$set", Value: bson.D{{Key: "name", Value: "x"}}},
		{Key: "$inc", Value: bson.D{{Key: "like_count", Value: 1}}},
	}, got)
	assert.Nil(t, compileUpdate(docstore.Update{}))
}
