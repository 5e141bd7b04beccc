// Package docstore is the generic access layer over one document collection.
// Entity services describe queries with the Filter, Update and FindOptions
// values of this package; backends compile them to their storage language.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/Vinhhoang-1312/apiskylarbox/pkg/errors"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/pagination"
)

// ErrNoDocument is returned when a single-document operation matches nothing.
var ErrNoDocument = errors.New("docstore: no document matched")

// Field names maintained by the access layer.
const (
	FieldID         = "_id"
	FieldCreatedAt  = "created_at"
	FieldLastUpdate = "last_update"
)

// Model is embedded by every stored document.
type Model struct {
	ID         string    `json:"_id" bson:"_id"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	LastUpdate time.Time `json:"last_update" bson:"last_update"`
}

// Base gives the access layer a handle on the embedded Model.
func (m *Model) Base() *Model { return m }

// Document is implemented by any struct embedding Model.
type Document interface {
	Base() *Model
}

// Store is the generic CRUD and pagination contract over one collection.
type Store[T any] interface {
	FindWithPagination(ctx context.Context, q PageQuery) (*pagination.Result[T], error)
	FindAll(ctx context.Context, f Filter, opts ...FindOption) (*List[T], error)
	FindOne(ctx context.Context, f Filter, p Projection) (*T, error)
	UpdateOne(ctx context.Context, f Filter, u Update, opts ...UpdateOption) (*T, error)
	UpdateAll(ctx context.Context, f Filter, u Update) (UpdateResult, error)
	Insert(ctx context.Context, doc *T) (*T, error)
	InsertMany(ctx context.Context, docs []*T) (InsertManyResult, error)
	Delete(ctx context.Context, f Filter) (*T, error)
	Count(ctx context.Context, f Filter) (int64, error)
	Exists(ctx context.Context, f Filter) (bool, error)
}

// PageQuery describes one page of a filtered, sorted listing.
type PageQuery struct {
	Filter     Filter
	Page       int
	Limit      int
	Projection Projection
	Sort       []SortField
}

// Params returns the normalized page and limit.
func (q PageQuery) Params() pagination.Params {
	p := pagination.Params{Page: q.Page, Limit: q.Limit}
	if p.Page < 1 {
		p.Page = pagination.DefaultPage
	}
	if p.Page > pagination.MaxPage {
		p.Page = pagination.MaxPage
	}
	if p.Limit < 1 {
		p.Limit = pagination.DefaultLimit
	}
	return p
}

// List is the result of FindAll.
type List[T any] struct {
	List  []T   `json:"list"`
	Total int64 `json:"total"`
}

// UpdateResult summarizes a bulk update.
type UpdateResult struct {
	Matched  int64 `json:"matched"`
	Modified int64 `json:"modified"`
}

// InsertManyResult holds the generated ids in input order.
type InsertManyResult struct {
	IDs []string `json:"ids"`
}

// Now is the access layer clock. BSON dates carry millisecond precision, so
// timestamps are truncated to keep round trips exact.
var Now = func() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Stamp assigns an id when missing and sets both timestamps.
func Stamp(doc any, now time.Time) {
	d, ok := doc.(Document)
	if !ok {
		return
	}
	m := d.Base()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = now
	m.LastUpdate = now
}

// IDOf returns the id of a stamped document.
func IDOf(doc any) string {
	if d, ok := doc.(Document); ok {
		return d.Base().ID
	}
	return ""
}

// StorageError wraps a driver failure so the HTTP layer reports it as a
// storage error. ErrNoDocument and invalid input pass through unchanged.
func StorageError(op, collection string, err error) error {
	if err == nil || errors.Is(err, ErrNoDocument) || errors.Is(err, apperrors.ErrInvalidInput) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s %s: %w", op, collection, err)
	}
	return apperrors.Storage(fmt.Errorf("%s %s: %w", op, collection, err))
}
