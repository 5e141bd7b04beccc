package docstore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Vinhhoang-1312/apiskylarbox/pkg/database"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/logger"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/pagination"
)

var (
	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docstore_operation_duration_seconds",
			Help:    "Duration of document store operations in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"collection", "operation"},
	)

	operationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docstore_operation_errors_total",
			Help: "Total number of failed document store operations",
		},
		[]string{"collection", "operation"},
	)
)

type observed[T any] struct {
	inner      Store[T]
	system     string
	collection string
	logger     *slog.Logger
}

// Observe decorates a store with a debug log line, a span and latency
// metrics per operation. A miss (ErrNoDocument) is not counted as an error.
func Observe[T any](inner Store[T], system, collection string, logger *slog.Logger) Store[T] {
	return &observed[T]{inner: inner, system: system, collection: collection, logger: logger}
}

func (o *observed[T]) run(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx, end := database.TraceQuery(ctx, o.system, o.collection+"."+op, "")
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	end(err)

	operationDuration.WithLabelValues(o.collection, op).Observe(elapsed.Seconds())
	failed := err != nil && !errors.Is(err, ErrNoDocument)
	if failed {
		operationErrors.WithLabelValues(o.collection, op).Inc()
	}

	if o.logger.Enabled(ctx, slog.LevelDebug) {
		attrs := []any{
			slog.String("collection", o.collection),
			slog.String("operation", op),
			slog.Duration("duration", elapsed),
			slog.String("tracer_id", logger.TracerIDFromContext(ctx)),
		}
		if failed {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		o.logger.DebugContext(ctx, "docstore operation", attrs...)
	}
	return err
}

func (o *observed[T]) FindWithPagination(ctx context.Context, q PageQuery) (res *pagination.Result[T], err error) {
	err = o.run(ctx, "findWithPagination", func(ctx context.Context) error {
		res, err = o.inner.FindWithPagination(ctx, q)
		return err
	})
	return res, err
}

func (o *observed[T]) FindAll(ctx context.Context, f Filter, opts ...FindOption) (res *List[T], err error) {
	err = o.run(ctx, "findAll", func(ctx context.Context) error {
		res, err = o.inner.FindAll(ctx, f, opts...)
		return err
	})
	return res, err
}

func (o *observed[T]) FindOne(ctx context.Context, f Filter, p Projection) (doc *T, err error) {
	err = o.run(ctx, "findOne", func(ctx context.Context) error {
		doc, err = o.inner.FindOne(ctx, f, p)
		return err
	})
	return doc, err
}

func (o *observed[T]) UpdateOne(ctx context.Context, f Filter, u Update, opts ...UpdateOption) (doc *T, err error) {
	err = o.run(ctx, "updateOne", func(ctx context.Context) error {
		doc, err = o.inner.UpdateOne(ctx, f, u, opts...)
		return err
	})
	return doc, err
}

func (o *observed[T]) UpdateAll(ctx context.Context, f Filter, u Update) (res UpdateResult, err error) {
	err = o.run(ctx, "updateAll", func(ctx context.Context) error {
		res, err = o.inner.UpdateAll(ctx, f, u)
		return err
	})
	return res, err
}

func (o *observed[T]) Insert(ctx context.Context, in *T) (doc *T, err error) {
	err = o.run(ctx, "insert", func(ctx context.Context) error {
		doc, err = o.inner.Insert(ctx, in)
		return err
	})
	return doc, err
}

func (o *observed[T]) InsertMany(ctx context.Context, docs []*T) (res InsertManyResult, err error) {
	err = o.run(ctx, "insertMany", func(ctx context.Context) error {
		res, err = o.inner.InsertMany(ctx, docs)
		return err
	})
	return res, err
}

func (o *observed[T]) Delete(ctx context.Context, f Filter) (doc *T, err error) {
	err = o.run(ctx, "delete", func(ctx context.Context) error {
		doc, err = o.inner.Delete(ctx, f)
		return err
	})
	return doc, err
}

func (o *observed[T]) Count(ctx context.Context, f Filter) (n int64, err error) {
	err = o.run(ctx, "count", func(ctx context.Context) error {
		n, err = o.inner.Count(ctx, f)
		return err
	})
	return n, err
}

func (o *observed[T]) Exists(ctx context.Context, f Filter) (ok bool, err error) {
	err = o.run(ctx, "exists", func(ctx context.Context) error {
		ok, err = o.inner.Exists(ctx, f)
		return err
	})
	return ok, err
}
