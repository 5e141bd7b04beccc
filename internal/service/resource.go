// Package service holds the business logic of the catalog API.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/docstore"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/domain"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/event"
	apperrors "github.com/Vinhhoang-1312/apiskylarbox/pkg/errors"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/pagination"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/slug"
)

// ListParams are the paging and search parameters shared by list queries.
type ListParams struct {
	Page   int
	Limit  int
	Search string
	Sort   string
}

// resource is the storage and event plumbing shared by the catalog services.
type resource[T any] struct {
	store    docstore.Store[T]
	entity   string
	policy   domain.DeletePolicy
	producer event.Publisher
	logger   *slog.Logger
}

func newResource[T any](store docstore.Store[T], entity string, policy domain.DeletePolicy, producer event.Publisher, logger *slog.Logger) resource[T] {
	if policy == "" {
		policy = domain.DefaultDeletePolicies()[entity]
	}
	return resource[T]{store: store, entity: entity, policy: policy, producer: producer, logger: logger}
}

// live restricts f to documents that were not soft deleted.
func live(f docstore.Filter) docstore.Filter {
	return docstore.And(f, docstore.Eq(domain.FieldIsDelete, false))
}

// page runs a paginated listing. An explicit sort overrides def.
func (r *resource[T]) page(ctx context.Context, f docstore.Filter, params ListParams, def string, p docstore.Projection) (*pagination.Result[T], error) {
	sort, err := sortOrder(params.Sort, def)
	if err != nil {
		return nil, err
	}
	res, err := r.store.FindWithPagination(ctx, docstore.PageQuery{
		Filter:     live(f),
		Page:       params.Page,
		Limit:      params.Limit,
		Projection: p,
		Sort:       sort,
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.entity, err)
	}
	return res, nil
}

// sortOrder parses a client sort expression, falling back to def when it is
// blank. Only plain field paths are accepted.
func sortOrder(expr, def string) ([]docstore.SortField, error) {
	if strings.TrimSpace(expr) == "" {
		expr = def
	}
	fields := docstore.ParseSort(expr)
	for _, f := range fields {
		if !docstore.ValidField(f.Field) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid sort field %q", f.Field))
		}
	}
	return fields, nil
}

// all returns every live match, sorted by sort.
func (r *resource[T]) all(ctx context.Context, f docstore.Filter, sort string, opts ...docstore.FindOption) ([]T, error) {
	opts = append([]docstore.FindOption{docstore.WithSort(docstore.ParseSort(sort)...)}, opts...)
	res, err := r.store.FindAll(ctx, live(f), opts...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.entity, err)
	}
	return res.List, nil
}

// one returns the live document matching f; key names it in the not found
// error.
func (r *resource[T]) one(ctx context.Context, f docstore.Filter, key string) (*T, error) {
	doc, err := r.store.FindOne(ctx, live(f), docstore.Projection{})
	if err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return nil, apperrors.NotFound(r.entity, key)
		}
		return nil, fmt.Errorf("get %s: %w", r.entity, err)
	}
	return doc, nil
}

func (r *resource[T]) byID(ctx context.Context, id string) (*T, error) {
	return r.one(ctx, docstore.ID(id), id)
}

// nameOf looks up the stored name of id when it is needed.
func (r *resource[T]) nameOf(ctx context.Context, id string, name func(*T) string) func() (string, error) {
	return func() (string, error) {
		doc, err := r.byID(ctx, id)
		if err != nil {
			return "", err
		}
		return name(doc), nil
	}
}

// exists reports whether a live document matches f.
func (r *resource[T]) exists(ctx context.Context, f docstore.Filter) (bool, error) {
	ok, err := r.store.Exists(ctx, live(f))
	if err != nil {
		return false, fmt.Errorf("check %s exists: %w", r.entity, err)
	}
	return ok, nil
}

func (r *resource[T]) create(ctx context.Context, doc *T) (*T, error) {
	created, err := r.store.Insert(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", r.entity, err)
	}
	id := docstore.IDOf(created)
	r.publish(ctx, event.ActionCreated, id, created)
	r.logger.InfoContext(ctx, r.entity+" created", slog.String("id", id))
	return created, nil
}

func (r *resource[T]) update(ctx context.Context, id string, u docstore.Update) (*T, error) {
	if u.IsEmpty() {
		return r.byID(ctx, id)
	}
	updated, err := r.store.UpdateOne(ctx, live(docstore.ID(id)), u)
	if err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return nil, apperrors.NotFound(r.entity, id)
		}
		return nil, fmt.Errorf("update %s: %w", r.entity, err)
	}
	r.publish(ctx, event.ActionUpdated, id, updated)
	r.logger.InfoContext(ctx, r.entity+" updated", slog.String("id", id))
	return updated, nil
}

// increment atomically adds n to field of a live document.
func (r *resource[T]) increment(ctx context.Context, id, field string, n int64) (*T, error) {
	doc, err := r.store.UpdateOne(ctx, live(docstore.ID(id)), docstore.Inc(field, n))
	if err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return nil, apperrors.NotFound(r.entity, id)
		}
		return nil, fmt.Errorf("increment %s %s: %w", r.entity, field, err)
	}
	return doc, nil
}

// remove deletes id according to the entity's delete policy. Soft removing a
// document that is already removed succeeds without changing it.
func (r *resource[T]) remove(ctx context.Context, id string) error {
	if r.policy == domain.DeleteHard {
		if _, err := r.store.Delete(ctx, docstore.ID(id)); err != nil {
			if errors.Is(err, docstore.ErrNoDocument) {
				return apperrors.NotFound(r.entity, id)
			}
			return fmt.Errorf("delete %s: %w", r.entity, err)
		}
		r.removed(ctx, id, false)
		return nil
	}

	_, err := r.store.UpdateOne(ctx, live(docstore.ID(id)), docstore.Set(domain.FieldIsDelete, true))
	if err == nil {
		r.removed(ctx, id, true)
		return nil
	}
	if !errors.Is(err, docstore.ErrNoDocument) {
		return fmt.Errorf("soft delete %s: %w", r.entity, err)
	}

	found, err := r.store.Exists(ctx, docstore.ID(id))
	if err != nil {
		return fmt.Errorf("check %s exists: %w", r.entity, err)
	}
	if !found {
		return apperrors.NotFound(r.entity, id)
	}
	return nil
}

func (r *resource[T]) removed(ctx context.Context, id string, soft bool) {
	r.publish(ctx, event.ActionDeleted, id, event.DeletedData{ID: id, Soft: soft})
	r.logger.InfoContext(ctx, r.entity+" deleted",
		slog.String("id", id),
		slog.String("policy", string(r.policy)),
	)
}

// publish sends a domain event. Failures are logged and never returned.
func (r *resource[T]) publish(ctx context.Context, action, id string, data any) {
	if err := r.producer.PublishEntity(ctx, r.entity, action, id, data); err != nil {
		r.logger.ErrorContext(ctx, "failed to publish event",
			slog.String("event_type", event.EventType(r.entity, action)),
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
	}
}

// eqIf returns an equality filter, or nil when value is blank.
func eqIf(field, value string) docstore.Filter {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return docstore.Eq(field, strings.TrimSpace(value))
}

// flag returns an equality filter on a boolean, or nil when v is unset.
func flag(field string, v *bool) docstore.Filter {
	if v == nil {
		return nil
	}
	return docstore.Eq(field, *v)
}

// anyOf matches documents whose array field holds at least one of values.
func anyOf(field string, values []string) docstore.Filter {
	vs := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			vs = append(vs, v)
		}
	}
	if len(vs) == 0 {
		return nil
	}
	return docstore.In(field, vs...)
}

// patch accumulates the set fields of a partial update.
type patch struct {
	u docstore.Update
}

func (p *patch) str(field string, v *string) {
	if v != nil {
		p.u = p.u.Set(field, *v)
	}
}

func (p *patch) num(field string, v *int) {
	if v != nil {
		p.u = p.u.Set(field, *v)
	}
}

func (p *patch) boolean(field string, v *bool) {
	if v != nil {
		p.u = p.u.Set(field, *v)
	}
}

func (p *patch) list(field string, v *[]string) {
	if v != nil {
		vs := *v
		if vs == nil {
			vs = []string{}
		}
		p.u = p.u.Set(field, vs)
	}
}

func (p *patch) set(field string, v any) {
	p.u = p.u.Set(field, v)
}

// slugFrom sets the slug when either it or the name changes. A blank slug is
// generated from name, or from the stored name when name is unchanged.
func (p *patch) slugFrom(explicit *string, name string, stored func() (string, error)) error {
	if explicit == nil && name == "" {
		return nil
	}
	var value string
	if explicit != nil {
		value = *explicit
	}
	if strings.TrimSpace(value) == "" && name == "" {
		n, err := stored()
		if err != nil {
			return err
		}
		name = n
	}
	p.set(domain.FieldSlug, slug.Resolve(value, name))
	return nil
}
