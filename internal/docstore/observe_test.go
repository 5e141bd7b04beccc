package docstore_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/docstore"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/docstore/memory"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/logger"
)

type note struct {
	docstore.Model `bson:",inline"`
	Text           string `bson:"text"`
}

func TestObserve_LogsEachOperation(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := docstore.Observe[note](memory.New[note]("Notes"), "memory", "Notes", l)
	ctx := logger.WithTracerID(context.Background(), "trace-1")

	in, err := s.Insert(ctx, &note{Text: "hello"})
	require.NoError(t, err)

	got, err := s.FindOne(ctx, docstore.ID(in.ID), docstore.Projection{})
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Text)

	out := buf.String()
	assert.Contains(t, out, `"msg":"docstore operation"`)
	assert.Contains(t, out, `"operation":"insert"`)
	assert.Contains(t, out, `"operation":"findOne"`)
	assert.Contains(t, out, `"collection":"Notes"`)
	assert.Contains(t, out, `"tracer_id":"trace-1"`)
}

func TestObserve_PassesResultsThrough(t *testing.T) {
	l := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	s := docstore.Observe[note](memory.New[note]("Notes"), "memory", "Notes", l)
	ctx := context.Background()

	_, err := s.FindOne(ctx, docstore.ID("missing"), docstore.Projection{})
	assert.ErrorIs(t, err, docstore.ErrNoDocument)

	res, err := s.InsertMany(ctx, []*note{{Text: "a"}, {Text: "b"}})
	require.NoError(t, err)
	assert.Len(t, res.IDs, 2)

	upd, err := s.UpdateAll(ctx, docstore.All(), docstore.Set("text", "z"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), upd.Matched)

	page, err := s.FindWithPagination(ctx, docstore.PageQuery{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 2, page.TotalPages)

	n, err := s.Count(ctx, docstore.Eq("text", "z"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	deleted, err := s.Delete(ctx, docstore.ID(res.IDs[0]))
	require.NoError(t, err)
	assert.Equal(t, "z", deleted.Text)

	ok, err := s.Exists(ctx, docstore.ID(res.IDs[0]))
	require.NoError(t, err)
	assert.False(t, ok)
}
