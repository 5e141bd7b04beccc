package docstore

import (
	"fmt"
	"regexp"
	"strings"

	apperrors "github.com/Vinhhoang-1312/apiskylarbox/pkg/errors"
)

// SortField is one key of a sort expression.
type SortField struct {
	Field      string
	Descending bool
}

// Asc sorts field ascending.
func Asc(field string) SortField { return SortField{Field: field} }

// Desc sorts field descending.
func Desc(field string) SortField { return SortField{Field: field, Descending: true} }

// ParseSort parses "-created_at name" style expressions; a leading "-" means
// descending. Commas are accepted as separators too.
func ParseSort(expr string) []SortField {
	parts := strings.FieldsFunc(expr, func(r rune) bool { return r == ' ' || r == ',' })
	out := make([]SortField, 0, len(parts))
	for _, p := range parts {
		switch {
		case strings.HasPrefix(p, "-"):
			if f := p[1:]; f != "" {
				out = append(out, Desc(f))
			}
		case strings.HasPrefix(p, "+"):
			if f := p[1:]; f != "" {
				out = append(out, Asc(f))
			}
		default:
			out = append(out, Asc(p))
		}
	}
	return out
}

// Projection selects the top-level fields returned. The zero value returns
// whole documents; _id is always returned.
type Projection struct {
	Fields  []string
	Exclude bool
}

// Include returns only the given fields.
func Include(fields ...string) Projection { return Projection{Fields: fields} }

// Exclude returns everything but the given fields.
func Exclude(fields ...string) Projection { return Projection{Fields: fields, Exclude: true} }

// IsZero reports whether p returns whole documents.
func (p Projection) IsZero() bool { return len(p.Fields) == 0 }

// Keeps reports whether top-level key survives the projection.
func (p Projection) Keeps(key string) bool {
	if p.IsZero() || key == FieldID {
		return true
	}
	for _, f := range p.Fields {
		if f == key || strings.HasPrefix(f, key+".") {
			return !p.Exclude
		}
	}
	return p.Exclude
}

// FindOptions controls FindAll.
type FindOptions struct {
	Projection Projection
	Sort       []SortField
	Skip       int64
	Limit      int64
}

// FindOption mutates FindOptions.
type FindOption func(*FindOptions)

// WithSort orders the results.
func WithSort(fields ...SortField) FindOption {
	return func(o *FindOptions) { o.Sort = fields }
}

// WithProjection restricts the returned fields.
func WithProjection(p Projection) FindOption {
	return func(o *FindOptions) { o.Projection = p }
}

// WithLimit bounds the number of documents fetched.
func WithLimit(n int64) FindOption {
	return func(o *FindOptions) { o.Limit = n }
}

// WithSkip skips the first n documents.
func WithSkip(n int64) FindOption {
	return func(o *FindOptions) { o.Skip = n }
}

// ApplyFindOptions folds opts into FindOptions.
func ApplyFindOptions(opts ...FindOption) FindOptions {
	var o FindOptions
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// ValidField reports whether field is a safe dotted path.
func ValidField(field string) bool {
	return fieldPattern.MatchString(field)
}

// CheckFields validates every field path used by a filter, sort and update.
func CheckFields(f Filter, sort []SortField, u Update) error {
	var bad []string
	check := func(field string) {
		if !ValidField(field) {
			bad = append(bad, field)
		}
	}
	WalkFields(f, check)
	for _, s := range sort {
		check(s.Field)
	}
	for _, fv := range u.Sets {
		check(fv.Field)
	}
	for _, fv := range u.Incs {
		check(fv.Field)
	}
	if len(bad) > 0 {
		return apperrors.InvalidInput(fmt.Sprintf("invalid field path %q", bad))
	}
	return nil
}

// WalkFields calls fn for every field referenced by f.
func WalkFields(f Filter, fn func(string)) {
	switch n := f.(type) {
	case EqFilter:
		fn(n.Field)
	case NeFilter:
		fn(n.Field)
	case InFilter:
		fn(n.Field)
	case MatchFilter:
		fn(n.Field)
	case AndFilter:
		for _, c := range n.Filters {
			WalkFields(c, fn)
		}
	case OrFilter:
		for _, c := range n.Filters {
			WalkFields(c, fn)
		}
	}
}
