// Package postgres implements the document store on PostgreSQL, keeping each
// document as relaxed Extended JSON in a jsonb column.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/docstore"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/pagination"
)

// DB is the subset of pgxpool.Pool the store needs.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store is a docstore.Store over one table of (id text, doc jsonb).
type Store[T any] struct {
	db    DB
	table string
	name  string
}

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// New returns a store over the table derived from collection.
func New[T any](db DB, collection string) (*Store[T], error) {
	table := TableName(collection)
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &Store[T]{db: db, table: table, name: collection}, nil
}

// TableName maps a collection name such as "FeaturedBoxes" to "featured_boxes".
func TableName(collection string) string {
	var b strings.Builder
	for i, r := range collection {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store[T]) where(f docstore.Filter, a *args) (string, error) {
	if err := docstore.CheckFields(f, nil, docstore.Update{}); err != nil {
		return "", err
	}
	return compileFilter(f, a)
}

// Find runs a bounded, sorted select.
func (s *Store[T]) Find(ctx context.Context, f docstore.Filter, o docstore.FindOptions) ([]T, error) {
	if err := docstore.CheckFields(nil, o.Sort, docstore.Update{}); err != nil {
		return nil, err
	}
	a := &args{}
	w, err := s.where(f, a)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf("SELECT doc FROM %s WHERE %s", s.table, w) + compileSort(o.Sort)
	if o.Limit > 0 {
		q += " LIMIT " + a.add(o.Limit)
	}
	if o.Skip > 0 {
		q += " OFFSET " + a.add(o.Skip)
	}

	rows, err := s.db.Query(ctx, q, a.vals...)
	if err != nil {
		return nil, docstore.StorageError("find", s.name, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, docstore.StorageError("find", s.name, err)
		}
		doc, err := decode[T](raw, o.Projection)
		if err != nil {
			return nil, docstore.StorageError("find", s.name, err)
		}
		out = append(out, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, docstore.StorageError("find", s.name, err)
	}
	return out, nil
}

// Count counts matching rows.
func (s *Store[T]) Count(ctx context.Context, f docstore.Filter) (int64, error) {
	a := &args{}
	w, err := s.where(f, a)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := s.db.QueryRow(ctx, fmt.Sprintf("SELECT count(*) FROM %s WHERE %s", s.table, w), a.vals...).Scan(&n); err != nil {
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

func (s *Store[T]) FindOne(ctx context.Context, f docstore.Filter, p docstore.Projection) (*T, error) {
	return docstore.FindOne[T](ctx, s, f, p)
}

func (s *Store[T]) Exists(ctx context.Context, f docstore.Filter) (bool, error) {
	return docstore.Exists[T](ctx, s, f)
}

// UpdateOne locks the first match and rewrites its document.
func (s *Store[T]) UpdateOne(ctx context.Context, f docstore.Filter, u docstore.Update, opts ...docstore.UpdateOption) (*T, error) {
	u = u.Touch()
	if err := docstore.CheckFields(nil, nil, u); err != nil {
		return nil, err
	}
	o := docstore.ApplyUpdateOptions(opts...)

	a := &args{}
	w, err := s.where(f, a)
	if err != nil {
		return nil, err
	}
	expr, err := compileUpdate(u, a)
	if err != nil {
		return nil, err
	}

	returning := s.table + ".doc"
	if o.ReturnBefore {
		returning = "target.prev"
	}
	q := fmt.Sprintf(
		"WITH target AS (SELECT id, doc AS prev FROM %[1]s WHERE %[2]s ORDER BY id LIMIT 1 FOR UPDATE) "+
			"UPDATE %[1]s SET doc = %[3]s FROM target WHERE %[1]s.id = target.id RETURNING %[4]s",
		s.table, w, expr, returning,
	)

	var raw []byte
	if err := s.db.QueryRow(ctx, q, a.vals...).Scan(&raw); err != nil {
		return nil, s.singleErr("updateOne", err)
	}
	doc, err := decode[T](raw, docstore.Projection{})
	if err != nil {
		return nil, docstore.StorageError("updateOne", s.name, err)
	}
	return doc, nil
}

// UpdateAll rewrites every match.
func (s *Store[T]) UpdateAll(ctx context.Context, f docstore.Filter, u docstore.Update) (docstore.UpdateResult, error) {
	u = u.Touch()
	if err := docstore.CheckFields(nil, nil, u); err != nil {
		return docstore.UpdateResult{}, err
	}
	a := &args{}
	w, err := s.where(f, a)
	if err != nil {
		return docstore.UpdateResult{}, err
	}
	expr, err := compileUpdate(u, a)
	if err != nil {
		return docstore.UpdateResult{}, err
	}

	tag, err := s.db.Exec(ctx, fmt.Sprintf("UPDATE %s SET doc = %s WHERE %s", s.table, expr, w), a.vals...)
	if err != nil {
		return docstore.UpdateResult{}, docstore.StorageError("updateAll", s.name, err)
	}
	n := tag.RowsAffected()
	return docstore.UpdateResult{Matched: n, Modified: n}, nil
}

// Insert stamps and inserts doc.
func (s *Store[T]) Insert(ctx context.Context, doc *T) (*T, error) {
	docstore.Stamp(doc, docstore.Now())
	data, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return nil, docstore.StorageError("insert", s.name, err)
	}
	q := fmt.Sprintf("INSERT INTO %s (id, doc) VALUES ($1, $2::jsonb)", s.table)
	if _, err := s.db.Exec(ctx, q, docstore.IDOf(doc), string(data)); err != nil {
		return nil, docstore.StorageError("insert", s.name, err)
	}
	return doc, nil
}

// InsertMany inserts docs with a single multi-row statement.
func (s *Store[T]) InsertMany(ctx context.Context, docs []*T) (docstore.InsertManyResult, error) {
	if len(docs) == 0 {
		return docstore.InsertManyResult{IDs: []string{}}, nil
	}
	now := docstore.Now()
	a := &args{}
	values := make([]string, len(docs))
	ids := make([]string, len(docs))
	for i, d := range docs {
		docstore.Stamp(d, now)
		data, err := bson.MarshalExtJSON(d, false, false)
		if err != nil {
			return docstore.InsertManyResult{}, docstore.StorageError("insertMany", s.name, err)
		}
		ids[i] = docstore.IDOf(d)
		values[i] = fmt.Sprintf("(%s, %s::jsonb)", a.add(ids[i]), a.add(string(data)))
	}

	q := fmt.Sprintf("INSERT INTO %s (id, doc) VALUES %s", s.table, strings.Join(values, ", "))
	if _, err := s.db.Exec(ctx, q, a.vals...); err != nil {
		return docstore.InsertManyResult{}, docstore.StorageError("insertMany", s.name, err)
	}
	return docstore.InsertManyResult{IDs: ids}, nil
}

// Delete removes and returns the first match.
func (s *Store[T]) Delete(ctx context.Context, f docstore.Filter) (*T, error) {
	a := &args{}
	w, err := s.where(f, a)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf("DELETE FROM %[1]s WHERE id = (SELECT id FROM %[1]s WHERE %[2]s ORDER BY id LIMIT 1) RETURNING doc", s.table, w)

	var raw []byte
	if err := s.db.QueryRow(ctx, q, a.vals...).Scan(&raw); err != nil {
		return nil, s.singleErr("delete", err)
	}
	doc, err := decode[T](raw, docstore.Projection{})
	if err != nil {
		return nil, docstore.StorageError("delete", s.name, err)
	}
	return doc, nil
}

func (s *Store[T]) singleErr(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return docstore.ErrNoDocument
	}
	return docstore.StorageError(op, s.name, err)
}

func decode[T any](raw []byte, p docstore.Projection) (*T, error) {
	m, err := docstore.ExtJSONToM(raw)
	if err != nil {
		return nil, err
	}
	return docstore.Decode[T](m, p)
}
