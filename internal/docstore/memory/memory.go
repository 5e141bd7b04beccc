// Package memory is a process-local document store used by tests and by
// development runs with STORE_DRIVER=memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/docstore"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/pagination"
)

// Store keeps documents as decoded BSON trees in insertion order.
type Store[T any] struct {
	mu         sync.RWMutex
	collection string
	docs       map[string]bson.M
	order      []string
}

var _ docstore.Store[struct{ docstore.Model }] = (*Store[struct{ docstore.Model }])(nil)

// New creates an empty collection.
func New[T any](collection string) *Store[T] {
	return &Store[T]{collection: collection, docs: make(map[string]bson.M)}
}

// Find returns the matching documents sorted, skipped and limited per o.
func (s *Store[T]) Find(ctx context.Context, f docstore.Filter, o docstore.FindOptions) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := docstore.CheckFields(f, o.Sort, docstore.Update{}); err != nil {
		return nil, err
	}

	s.mu.RLock()
	matched, err := s.match(docstore.Normalize(f))
	s.mu.RUnlock()
	if err != nil {
		return nil, docstore.StorageError("find", s.collection, err)
	}

	if len(o.Sort) > 0 {
		sort.SliceStable(matched, func(i, j int) bool {
			for _, sf := range o.Sort {
				a, _ := lookup(matched[i], sf.Field)
				b, _ := lookup(matched[j], sf.Field)
				c := compare(a, b)
				if c == 0 {
					continue
				}
				if sf.Descending {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	if o.Skip > 0 {
		if o.Skip >= int64(len(matched)) {
			matched = nil
		} else {
			matched = matched[o.Skip:]
		}
	}
	if o.Limit > 0 && int64(len(matched)) > o.Limit {
		matched = matched[:o.Limit]
	}

	out := make([]T, 0, len(matched))
	for _, m := range matched {
		doc, err := docstore.Decode[T](m, o.Projection)
		if err != nil {
			return nil, docstore.StorageError("find", s.collection, err)
		}
		out = append(out, *doc)
	}
	return out, nil
}

// match must be called with the lock held. The returned trees are shared
// with the store and must not be mutated.
func (s *Store[T]) match(f docstore.Filter) ([]bson.M, error) {
	var out []bson.M
	for _, id := range s.order {
		doc := s.docs[id]
		ok, err := matches(doc, f)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, doc)
		}
	}
	return out, nil
}

// Count returns the number of matching documents.
func (s *Store[T]) Count(ctx context.Context, f docstore.Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := docstore.CheckFields(f, nil, docstore.Update{}); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched, err := s.match(docstore.Normalize(f))
	if err != nil {
		return 0, docstore.StorageError("count", s.collection, err)
	}
	return int64(len(matched)), nil
}

func (s *Store[T]) FindWithPagination(ctx context.Context, q docstore.PageQuery) (*pagination.Result[T], error) {
	return docstore.Paginate[T](ctx, s, q)
}

func (s *Store[T]) FindAll(ctx context.Context, f docstore.Filter, opts ...docstore.FindOption) (*docstore.List[T], error) {
	return docstore.FindAll[T](ctx, s, f, opts...)
}

func (s *Store[T]) FindOne(ctx context.Context, f docstore.Filter, p docstore.Projection) (*T, error) {
	return docstore.FindOne[T](ctx, s, f, p)
}

func (s *Store[T]) Exists(ctx context.Context, f docstore.Filter) (bool, error) {
	return docstore.Exists[T](ctx, s, f)
}

// UpdateOne updates the first match in insertion order.
func (s *Store[T]) UpdateOne(ctx context.Context, f docstore.Filter, u docstore.Update, opts ...docstore.UpdateOption) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u = u.Touch()
	if err := docstore.CheckFields(f, nil, u); err != nil {
		return nil, err
	}
	o := docstore.ApplyUpdateOptions(opts...)

	s.mu.Lock()
	defer s.mu.Unlock()

	matched, err := s.match(docstore.Normalize(f))
	if err != nil {
		return nil, docstore.StorageError("updateOne", s.collection, err)
	}
	if len(matched) == 0 {
		return nil, docstore.ErrNoDocument
	}
	before := matched[0]
	after, err := s.updated(before, u)
	if err != nil {
		return nil, docstore.StorageError("updateOne", s.collection, err)
	}
	id, _ := before[docstore.FieldID].(string)
	s.docs[id] = after

	result := after
	if o.ReturnBefore {
		result = before
	}
	doc, err := docstore.Decode[T](result, docstore.Projection{})
	if err != nil {
		return nil, docstore.StorageError("updateOne", s.collection, err)
	}
	return doc, nil
}

// UpdateAll updates every match.
func (s *Store[T]) UpdateAll(ctx context.Context, f docstore.Filter, u docstore.Update) (docstore.UpdateResult, error) {
	if err := ctx.Err(); err != nil {
		return docstore.UpdateResult{}, err
	}
	u = u.Touch()
	if err := docstore.CheckFields(f, nil, u); err != nil {
		return docstore.UpdateResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	matched, err := s.match(docstore.Normalize(f))
	if err != nil {
		return docstore.UpdateResult{}, docstore.StorageError("updateAll", s.collection, err)
	}
	for _, before := range matched {
		after, err := s.updated(before, u)
		if err != nil {
			return docstore.UpdateResult{}, docstore.StorageError("updateAll", s.collection, err)
		}
		id, _ := before[docstore.FieldID].(string)
		s.docs[id] = after
	}
	n := int64(len(matched))
	return docstore.UpdateResult{Matched: n, Modified: n}, nil
}

func (s *Store[T]) updated(before bson.M, u docstore.Update) (bson.M, error) {
	after, err := docstore.ToM(before)
	if err != nil {
		return nil, err
	}
	if err := applyUpdate(after, u); err != nil {
		return nil, err
	}
	return after, nil
}

// Insert stamps and stores doc.
func (s *Store[T]) Insert(ctx context.Context, doc *T) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	docstore.Stamp(doc, docstore.Now())
	m, err := docstore.ToM(doc)
	if err != nil {
		return nil, docstore.StorageError("insert", s.collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.put(m); err != nil {
		return nil, docstore.StorageError("insert", s.collection, err)
	}
	return doc, nil
}

// InsertMany stores docs atomically: either all are stored or none.
func (s *Store[T]) InsertMany(ctx context.Context, docs []*T) (docstore.InsertManyResult, error) {
	if err := ctx.Err(); err != nil {
		return docstore.InsertManyResult{}, err
	}
	now := docstore.Now()
	trees := make([]bson.M, len(docs))
	ids := make([]string, len(docs))
	seen := make(map[string]bool, len(docs))
	for i, d := range docs {
		docstore.Stamp(d, now)
		m, err := docstore.ToM(d)
		if err != nil {
			return docstore.InsertManyResult{}, docstore.StorageError("insertMany", s.collection, err)
		}
		ids[i] = docstore.IDOf(d)
		if seen[ids[i]] {
			return docstore.InsertManyResult{}, docstore.StorageError("insertMany", s.collection, fmt.Errorf("duplicate id %s", ids[i]))
		}
		seen[ids[i]] = true
		trees[i] = m
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if _, exists := s.docs[id]; exists {
			return docstore.InsertManyResult{}, docstore.StorageError("insertMany", s.collection, fmt.Errorf("duplicate id %s", id))
		}
	}
	for _, m := range trees {
		_ = s.put(m)
	}
	return docstore.InsertManyResult{IDs: ids}, nil
}

func (s *Store[T]) put(m bson.M) error {
	id, _ := m[docstore.FieldID].(string)
	if id == "" {
		return fmt.Errorf("document has no string _id")
	}
	if _, exists := s.docs[id]; exists {
		return fmt.Errorf("duplicate id %s", id)
	}
	s.docs[id] = m
	s.order = append(s.order, id)
	return nil
}

// Delete removes and returns the first match.
func (s *Store[T]) Delete(ctx context.Context, f docstore.Filter) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := docstore.CheckFields(f, nil, docstore.Update{}); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	matched, err := s.match(docstore.Normalize(f))
	if err != nil {
		return nil, docstore.StorageError("delete", s.collection, err)
	}
	if len(matched) == 0 {
		return nil, docstore.ErrNoDocument
	}
	victim := matched[0]
	id, _ := victim[docstore.FieldID].(string)
	delete(s.docs, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	doc, err := docstore.Decode[T](victim, docstore.Projection{})
	if err != nil {
		return nil, docstore.StorageError("delete", s.collection, err)
	}
	return doc, nil
}
