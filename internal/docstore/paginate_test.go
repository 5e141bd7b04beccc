package docstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFinder struct {
	list     []box
	total    int64
	findErr  error
	countErr error
	lastOpts FindOptions
	counted  bool
}

func (s *stubFinder) Find(_ context.Context, _ Filter, o FindOptions) ([]box, error) {
	s.lastOpts = o
	return s.list, s.findErr
}

func (s *stubFinder) Count(context.Context, Filter) (int64, error) {
	s.counted = true
	return s.total, s.countErr
}

func TestPaginate_ComputesSkipAndTotals(t *testing.T) {
	fd := &stubFinder{list: []box{{Name: "a"}, {Name: "b"}}, total: 12}

	res, err := Paginate[box](context.Background(), fd, PageQuery{Page: 2, Limit: 5, Sort: ParseSort("-created_at")})
	require.NoError(t, err)

	assert.Equal(t, int64(5), fd.lastOpts.Skip)
	assert.Equal(t, int64(5), fd.lastOpts.Limit)
	assert.Equal(t, []SortField{Desc("created_at")}, fd.lastOpts.Sort)
	assert.Equal(t, int64(12), res.Total)
	assert.Equal(t, 3, res.TotalPages)
	assert.Len(t, res.List, 2)
}

func TestPaginate_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")

	_, err := Paginate[box](context.Background(), &stubFinder{countErr: boom}, PageQuery{})
	assert.ErrorIs(t, err, boom)

	_, err = Paginate[box](context.Background(), &stubFinder{findErr: boom}, PageQuery{})
	assert.ErrorIs(t, err, boom)
}

func TestFindAll_UnboundedSkipsCount(t *testing.T) {
	fd := &stubFinder{list: []box{{Name: "a"}}, total: 99}

	res, err := FindAll[box](context.Background(), fd, nil)
	require.NoError(t, err)
	assert.False(t, fd.counted)
	assert.Equal(t, int64(1), res.Total)
}

func TestFindAll_NilListBecomesEmpty(t *testing.T) {
	res, err := FindAll[box](context.Background(), &stubFinder{}, All(), WithLimit(3))
	require.NoError(t, err)
	assert.NotNil(t, res.List)
}

func TestFindOne_EmptyIsNoDocument(t *testing.T) {
	fd := &stubFinder{}
	_, err := FindOne[box](context.Background(), fd, ID("x"), Projection{})
	assert.ErrorIs(t, err, ErrNoDocument)
	assert.Equal(t, int64(1), fd.lastOpts.Limit)
}

func TestExists_ProjectsOnlyID(t *testing.T) {
	fd := &stubFinder{list: []box{{}}}
	ok, err := Exists[box](context.Background(), fd, ID("x"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Include(FieldID), fd.lastOpts.Projection)
}
