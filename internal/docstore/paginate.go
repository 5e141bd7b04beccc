package docstore

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Vinhhoang-1312/apiskylarbox/pkg/pagination"
)

// Finder is the read surface every backend provides. The shared helpers
// below build the paginated and counted reads on top of it.
type Finder[T any] interface {
	Find(ctx context.Context, f Filter, o FindOptions) ([]T, error)
	Count(ctx context.Context, f Filter) (int64, error)
}

// Paginate runs the count and the bounded fetch of q concurrently. The two
// reads are not taken from the same snapshot.
func Paginate[T any](ctx context.Context, fd Finder[T], q PageQuery) (*pagination.Result[T], error) {
	params := q.Params()
	f := Normalize(q.Filter)

	var (
		list  []T
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := fd.Count(gctx, f)
		total = n
		return err
	})
	g.Go(func() error {
		l, err := fd.Find(gctx, f, FindOptions{
			Projection: q.Projection,
			Sort:       q.Sort,
			Skip:       params.Skip(),
			Limit:      int64(params.Limit),
		})
		list = l
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := pagination.NewResult(list, total, params)
	return &res, nil
}

// FindAll fetches every matching document. Total is the count of all
// documents matching f, so it equals len(List) unless a limit or skip
// option narrowed the fetch.
func FindAll[T any](ctx context.Context, fd Finder[T], f Filter, opts ...FindOption) (*List[T], error) {
	o := ApplyFindOptions(opts...)
	f = Normalize(f)

	if o.Limit <= 0 && o.Skip <= 0 {
		list, err := fd.Find(ctx, f, o)
		if err != nil {
			return nil, err
		}
		if list == nil {
			list = []T{}
		}
		return &List[T]{List: list, Total: int64(len(list))}, nil
	}

	var (
		list  []T
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := fd.Count(gctx, f)
		total = n
		return err
	})
	g.Go(func() error {
		l, err := fd.Find(gctx, f, o)
		list = l
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if list == nil {
		list = []T{}
	}
	return &List[T]{List: list, Total: total}, nil
}

// FindOne returns the first match or ErrNoDocument.
func FindOne[T any](ctx context.Context, fd Finder[T], f Filter, p Projection) (*T, error) {
	list, err := fd.Find(ctx, Normalize(f), FindOptions{Projection: p, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNoDocument
	}
	return &list[0], nil
}

// Exists reports whether any document matches f.
func Exists[T any](ctx context.Context, fd Finder[T], f Filter) (bool, error) {
	list, err := fd.Find(ctx, Normalize(f), FindOptions{Projection: Include(FieldID), Limit: 1})
	if err != nil {
		return false, err
	}
	return len(list) > 0, nil
}
