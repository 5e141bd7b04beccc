// Package cache decorates a document store with a Redis read-through cache.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/docstore"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/pagination"
)

// DefaultTTL bounds how long a cached read may be served.
const DefaultTTL = 5 * time.Minute

var lookups = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "docstore_cache_lookups_total",
		Help: "Document store cache lookups by result",
	},
	[]string{"collection", "result"},
)

// Store caches FindWithPagination, FindAll and FindOne results. Every
// successful write bumps a per-collection version that is part of each cache
// key, so entries written before the change are never read again and expire
// on their own. Redis failures fall back to the inner store.
type Store[T any] struct {
	inner      docstore.Store[T]
	rdb        redis.UniversalClient
	collection string
	ttl        time.Duration
	logger     *slog.Logger
}

var _ docstore.Store[struct{ docstore.Model }] = (*Store[struct{ docstore.Model }])(nil)

// New wraps inner.
func New[T any](inner docstore.Store[T], rdb redis.UniversalClient, collection string, ttl time.Duration, logger *slog.Logger) *Store[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store[T]{inner: inner, rdb: rdb, collection: collection, ttl: ttl, logger: logger}
}

func (s *Store[T]) versionKey() string {
	return "docstore:" + s.collection + ":version"
}

func (s *Store[T]) key(ctx context.Context, op string, parts ...any) (string, error) {
	version, err := s.rdb.Get(ctx, s.versionKey()).Result()
	if errors.Is(err, redis.Nil) {
		version, err = "0", nil
	}
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%#v", parts)))
	return fmt.Sprintf("docstore:%s:%s:%s:%s", s.collection, version, op, hex.EncodeToString(sum[:])), nil
}

// cached serves the result of op from Redis, or runs load and stores it.
func cached[T, R any](ctx context.Context, s *Store[T], op string, load func() (R, error), parts ...any) (R, error) {
	key, err := s.key(ctx, op, parts...)
	if err != nil {
		s.degraded(ctx, op, err)
		return load()
	}

	data, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var out R
		if uerr := json.Unmarshal(data, &out); uerr == nil {
			lookups.WithLabelValues(s.collection, "hit").Inc()
			return out, nil
		}
	case !errors.Is(err, redis.Nil):
		s.degraded(ctx, op, err)
		return load()
	}
	lookups.WithLabelValues(s.collection, "miss").Inc()

	out, err := load()
	if err != nil {
		return out, err
	}
	if data, merr := json.Marshal(out); merr == nil {
		if serr := s.rdb.Set(ctx, key, data, s.ttl).Err(); serr != nil {
			s.degraded(ctx, op, serr)
		}
	}
	return out, nil
}

func (s *Store[T]) degraded(ctx context.Context, op string, err error) {
	lookups.WithLabelValues(s.collection, "error").Inc()
	s.logger.WarnContext(ctx, "docstore cache unavailable",
		slog.String("collection", s.collection),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

func (s *Store[T]) invalidate(ctx context.Context) {
	if err := s.rdb.Incr(ctx, s.versionKey()).Err(); err != nil {
		s.degraded(ctx, "invalidate", err)
	}
}

func (s *Store[T]) FindWithPagination(ctx context.Context, q docstore.PageQuery) (*pagination.Result[T], error) {
	return cached(ctx, s, "page", func() (*pagination.Result[T], error) {
		return s.inner.FindWithPagination(ctx, q)
	}, q)
}

func (s *Store[T]) FindAll(ctx context.Context, f docstore.Filter, opts ...docstore.FindOption) (*docstore.List[T], error) {
	return cached(ctx, s, "all", func() (*docstore.List[T], error) {
		return s.inner.FindAll(ctx, f, opts...)
	}, f, docstore.ApplyFindOptions(opts...))
}

func (s *Store[T]) FindOne(ctx context.Context, f docstore.Filter, p docstore.Projection) (*T, error) {
	return cached(ctx, s, "one", func() (*T, error) {
		return s.inner.FindOne(ctx, f, p)
	}, f, p)
}

func (s *Store[T]) Count(ctx context.Context, f docstore.Filter) (int64, error) {
	return s.inner.Count(ctx, f)
}

func (s *Store[T]) Exists(ctx context.Context, f docstore.Filter) (bool, error) {
	return s.inner.Exists(ctx, f)
}

func (s *Store[T]) UpdateOne(ctx context.Context, f docstore.Filter, u docstore.Update, opts ...docstore.UpdateOption) (*T, error) {
	doc, err := s.inner.UpdateOne(ctx, f, u, opts...)
	if err == nil {
		s.invalidate(ctx)
	}
	return doc, err
}

func (s *Store[T]) UpdateAll(ctx context.Context, f docstore.Filter, u docstore.Update) (docstore.UpdateResult, error) {
	res, err := s.inner.UpdateAll(ctx, f, u)
	if err == nil && res.Matched > 0 {
		s.invalidate(ctx)
	}
	return res, err
}

func (s *Store[T]) Insert(ctx context.Context, doc *T) (*T, error) {
	out, err := s.inner.Insert(ctx, doc)
	if err == nil {
		s.invalidate(ctx)
	}
	return out, err
}

func (s *Store[T]) InsertMany(ctx context.Context, docs []*T) (docstore.InsertManyResult, error) {
	res, err := s.inner.InsertMany(ctx, docs)
	if err == nil {
		s.invalidate(ctx)
	}
	return res, err
}

func (s *Store[T]) Delete(ctx context.Context, f docstore.Filter) (*T, error) {
	doc, err := s.inner.Delete(ctx, f)
	if err == nil {
		s.invalidate(ctx)
	}
	return doc, err
}
