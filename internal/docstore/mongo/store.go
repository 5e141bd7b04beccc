// Package mongo implements the document store on MongoDB.
package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/docstore"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/pagination"
)

// Store is a docstore.Store backed by one MongoDB collection.
type Store[T any] struct {
	coll *mongo.Collection
	name string
}

// New returns a store over db.collection.
func New[T any](db *mongo.Database, collection string) *Store[T] {
	return &Store[T]{coll: db.Collection(collection), name: collection}
}

// Find runs a bounded, sorted query.
func (s *Store[T]) Find(ctx context.Context, f docstore.Filter, o docstore.FindOptions) ([]T, error) {
	q, err := compileFilter(f)
	if err != nil {
		return nil, err
	}

	opts := options.Find()
	if sort := compileSort(o.Sort); sort != nil {
		opts.SetSort(sort)
	}
	if proj := compileProjection(o.Projection); proj != nil {
		opts.SetProjection(proj)
	}
	if o.Skip > 0 {
		opts.SetSkip(o.Skip)
	}
	if o.Limit > 0 {
		opts.SetLimit(o.Limit)
	}

	cur, err := s.coll.Find(ctx, q, opts)
	if err != nil {
		return nil, docstore.StorageError("find", s.name, err)
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, docstore.StorageError("find", s.name, err)
	}
	return out, nil
}

// Count counts matching documents.
func (s *Store[T]) Count(ctx context.Context, f docstore.Filter) (int64, error) {
	q, err := compileFilter(f)
	if err != nil {
		return 0, err
	}
	n, err := s.coll.CountDocuments(ctx, q)
	if err != nil {
		return 0, docstore.StorageError("count", s.name, err)
	}
	return n, nil
}

func (s *Store[T]) FindWithPagination(ctx context.Context, q docstore.PageQuery) (*pagination.Result[T], error) {
	return docstore.Paginate[T](ctx, s, q)
}

func (s *Store[T]) FindAll(ctx context.Context, f docstore.Filter, opts ...docstore.FindOption) (*docstore.List[T], error) {
	return docstore.FindAll[T](ctx, s, f, opts...)
}

func (s *Store[T]) Exists(ctx context.Context, f docstore.Filter) (bool, error) {
	return docstore.Exists[T](ctx, s, f)
}

// FindOne returns the first match or docstore.ErrNoDocument.
func (s *Store[T]) FindOne(ctx context.Context, f docstore.Filter, p docstore.Projection) (*T, error) {
	q, err := compileFilter(f)
	if err != nil {
		return nil, err
	}
	opts := options.FindOne()
	if proj := compileProjection(p); proj != nil {
		opts.SetProjection(proj)
	}

	var out T
	if err := s.coll.FindOne(ctx, q, opts).Decode(&out); err != nil {
		return nil, s.singleErr("findOne", err)
	}
	return &out, nil
}

// UpdateOne applies u to the first match with findOneAndUpdate.
func (s *Store[T]) UpdateOne(ctx context.Context, f docstore.Filter, u docstore.Update, opts ...docstore.UpdateOption) (*T, error) {
	q, err := compileFilter(f)
	if err != nil {
		return nil, err
	}
	o := docstore.ApplyUpdateOptions(opts...)

	fo := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if o.ReturnBefore {
		fo.SetReturnDocument(options.Before)
	}

	var out T
	if err := s.coll.FindOneAndUpdate(ctx, q, compileUpdate(u.Touch()), fo).Decode(&out); err != nil {
		return nil, s.singleErr("updateOne", err)
	}
	return &out, nil
}

// UpdateAll applies u to every match.
func (s *Store[T]) UpdateAll(ctx context.Context, f docstore.Filter, u docstore.Update) (docstore.UpdateResult, error) {
	q, err := compileFilter(f)
	if err != nil {
		return docstore.UpdateResult{}, err
	}
	res, err := s.coll.UpdateMany(ctx, q, compileUpdate(u.Touch()))
	if err != nil {
		return docstore.UpdateResult{}, docstore.StorageError("updateAll", s.name, err)
	}
	return docstore.UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

// Insert stamps and inserts doc.
func (s *Store[T]) Insert(ctx context.Context, doc *T) (*T, error) {
	docstore.Stamp(doc, docstore.Now())
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return nil, docstore.StorageError("insert", s.name, err)
	}
	return doc, nil
}

// InsertMany stamps and inserts docs in order.
func (s *Store[T]) InsertMany(ctx context.Context, docs []*T) (docstore.InsertManyResult, error) {
	if len(docs) == 0 {
		return docstore.InsertManyResult{IDs: []string{}}, nil
	}
	now := docstore.Now()
	batch := make([]any, len(docs))
	ids := make([]string, len(docs))
	for i, d := range docs {
		docstore.Stamp(d, now)
		batch[i] = d
		ids[i] = docstore.IDOf(d)
	}
	if _, err := s.coll.InsertMany(ctx, batch); err != nil {
		return docstore.InsertManyResult{}, docstore.StorageError("insertMany", s.name, err)
	}
	return docstore.InsertManyResult{IDs: ids}, nil
}

// Delete removes and returns the first match.
func (s *Store[T]) Delete(ctx context.Context, f docstore.Filter) (*T, error) {
	q, err := compileFilter(f)
	if err != nil {
		return nil, err
	}
	var out T
	if err := s.coll.FindOneAndDelete(ctx, q).Decode(&out); err != nil {
		return nil, s.singleErr("delete", err)
	}
	return &out, nil
}

func (s *Store[T]) singleErr(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return docstore.ErrNoDocument
	}
	return docstore.StorageError(op, s.name, err)
}

// Index describes a secondary index to create at startup.
type Index struct {
	Fields []string
	Unique bool
}

// EnsureIndexes creates the given indexes on collection. Creating an index
// that already exists is a no-op on the server.
func EnsureIndexes(ctx context.Context, db *mongo.Database, collection string, indexes ...Index) error {
	if len(indexes) == 0 {
		return nil
	}
	models := make([]mongo.IndexModel, 0, len(indexes))
	for _, idx := range indexes {
		keys := make(bson.D, 0, len(idx.Fields))
		for _, f := range idx.Fields {
			keys = append(keys, bson.E{Key: f, Value: 1})
		}
		m := mongo.IndexModel{Keys: keys}
		if idx.Unique {
			m.Options = options.Index().SetUnique(true)
		}
		models = append(models, m)
	}
	if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
		return docstore.StorageError("createIndexes", collection, err)
	}
	return nil
}
