package cache

import (
	"bytes"
	"context"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/docstore"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/docstore/memory"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/pagination"
)

type category struct {
	docstore.Model `bson:",inline"`
	Name           string `json:"name" bson:"name"`
}

// countingStore records how many reads reach the backing store.
type countingStore struct {
	docstore.Store[category]
	reads atomic.Int64
}

func (c *countingStore) FindOne(ctx context.Context, f docstore.Filter, p docstore.Projection) (*category, error) {
	c.reads.Add(1)
	return c.Store.FindOne(ctx, f, p)
}

func (c *countingStore) FindAll(ctx context.Context, f docstore.Filter, opts ...docstore.FindOption) (*docstore.List[category], error) {
	c.reads.Add(1)
	return c.Store.FindAll(ctx, f, opts...)
}

func (c *countingStore) FindWithPagination(ctx context.Context, q docstore.PageQuery) (*pagination.Result[category], error) {
	c.reads.Add(1)
	return c.Store.FindWithPagination(ctx, q)
}

func setup(t *testing.T) (*Store[category], *countingStore, *miniredis.Miniredis, *bytes.Buffer) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	var logs bytes.Buffer
	l := slog.New(slog.NewJSONHandler(&logs, nil))
	inner := &countingStore{Store: memory.New[category]("Categories")}
	return New[category](inner, rdb, "Categories", 0, l), inner, mr, &logs
}

func TestFindOne_SecondReadIsServedFromCache(t *testing.T) {
	s, inner, _, _ := setup(t)
	ctx := context.Background()
	in, err := s.Insert(ctx, &category{Name: "Gifts"})
	require.NoError(t, err)

	first, err := s.FindOne(ctx, docstore.ID(in.ID), docstore.Projection{})
	require.NoError(t, err)
	second, err := s.FindOne(ctx, docstore.ID(in.ID), docstore.Projection{})
	require.NoError(t, err)

	assert.Equal(t, int64(1), inner.reads.Load())
	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, in.ID, second.ID)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
}

func TestWritesInvalidate(t *testing.T) {
	s, inner, mr, _ := setup(t)
	ctx := context.Background()
	in, err := s.Insert(ctx, &category{Name: "Gifts"})
	require.NoError(t, err)

	_, err = s.FindAll(ctx, docstore.All())
	require.NoError(t, err)
	_, err = s.UpdateOne(ctx, docstore.ID(in.ID), docstore.Set("name", "Presents"))
	require.NoError(t, err)

	list, err := s.FindAll(ctx, docstore.All())
	require.NoError(t, err)
	require.Len(t, list.List, 1)
	assert.Equal(t, "Presents", list.List[0].Name)
	assert.Equal(t, int64(2), inner.reads.Load())

	version, err := mr.Get("docstore:Categories:version")
	require.NoError(t, err)
	assert.Equal(t, "2", version)
}

func TestUpdateAll_NoMatchKeepsCache(t *testing.T) {
	s, _, mr, _ := setup(t)
	ctx := context.Background()

	_, err := s.UpdateAll(ctx, docstore.Eq("name", "none"), docstore.Set("name", "x"))
	require.NoError(t, err)
	assert.False(t, mr.Exists("docstore:Categories:version"))
}

func TestMissIsNotCached(t *testing.T) {
	s, inner, _, _ := setup(t)
	ctx := context.Background()

	_, err := s.FindOne(ctx, docstore.ID("missing"), docstore.Projection{})
	assert.ErrorIs(t, err, docstore.ErrNoDocument)
	_, err = s.FindOne(ctx, docstore.ID("missing"), docstore.Projection{})
	assert.ErrorIs(t, err, docstore.ErrNoDocument)
	assert.Equal(t, int64(2), inner.reads.Load())
}

func TestPagination_DistinctQueriesDistinctKeys(t *testing.T) {
	s, inner, _, _ := setup(t)
	ctx := context.Background()
	_, err := s.InsertMany(ctx, []*category{{Name: "a"}, {Name: "b"}, {Name: "c"}})
	require.NoError(t, err)

	p1, err := s.FindWithPagination(ctx, docstore.PageQuery{Page: 1, Limit: 2})
	require.NoError(t, err)
	p2, err := s.FindWithPagination(ctx, docstore.PageQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	again, err := s.FindWithPagination(ctx, docstore.PageQuery{Page: 2, Limit: 2})
	require.NoError(t, err)

	assert.Len(t, p1.List, 2)
	assert.Len(t, p2.List, 1)
	assert.Equal(t, p2.List[0].Name, again.List[0].Name)
	assert.Equal(t, int64(3), again.Total)
	assert.Equal(t, int64(2), inner.reads.Load())
}

func TestRedisDown_FallsBackToStore(t *testing.T) {
	s, inner, mr, logs := setup(t)
	ctx := context.Background()
	in, err := s.Insert(ctx, &category{Name: "Gifts"})
	require.NoError(t, err)

	mr.Close()

	got, err := s.FindOne(ctx, docstore.ID(in.ID), docstore.Projection{})
	require.NoError(t, err)
	assert.Equal(t, "Gifts", got.Name)
	assert.Equal(t, int64(1), inner.reads.Load())
	assert.Contains(t, logs.String(), "docstore cache unavailable")

	_, err = s.Delete(ctx, docstore.ID(in.ID))
	require.NoError(t, err)
}
