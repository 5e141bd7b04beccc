package docstore

import "strings"

// Filter is a node of the query AST. Values are plain Go values; array
// fields match Eq and In when any element matches and dotted paths address
// nested fields.
type Filter interface {
	isFilter()
}

// EqFilter matches documents whose Field equals Value.
type EqFilter struct {
	Field string
	Value any
}

// NeFilter matches documents whose Field differs from Value.
type NeFilter struct {
	Field string
	Value any
}

// InFilter matches documents whose Field equals any of Values.
type InFilter struct {
	Field  string
	Values []any
}

// MatchFilter is a case-insensitive literal substring match.
type MatchFilter struct {
	Field string
	Text  string
}

// AndFilter matches when all children match. An empty AndFilter matches
// every document.
type AndFilter struct {
	Filters []Filter
}

// OrFilter matches when any child matches.
type OrFilter struct {
	Filters []Filter
}

func (EqFilter) isFilter()    {}
func (NeFilter) isFilter()    {}
func (InFilter) isFilter()    {}
func (MatchFilter) isFilter() {}
func (AndFilter) isFilter()   {}
func (OrFilter) isFilter()    {}

// All matches every document.
func All() Filter { return AndFilter{} }

// Eq builds an equality filter.
func Eq(field string, value any) Filter { return EqFilter{Field: field, Value: value} }

// Ne builds an inequality filter.
func Ne(field string, value any) Filter { return NeFilter{Field: field, Value: value} }

// ID matches the document with the given id.
func ID(id string) Filter { return Eq(FieldID, id) }

// In builds a membership filter.
func In[V any](field string, values ...V) Filter {
	vs := make([]any, len(values))
	for i, v := range values {
		vs[i] = v
	}
	return InFilter{Field: field, Values: vs}
}

// Match builds a case-insensitive substring filter. Regex metacharacters in
// text are matched literally.
func Match(field, text string) Filter { return MatchFilter{Field: field, Text: text} }

// Search ORs a Match on text across fields. A blank text matches everything.
func Search(text string, fields ...string) Filter {
	text = strings.TrimSpace(text)
	if text == "" || len(fields) == 0 {
		return All()
	}
	fs := make([]Filter, len(fields))
	for i, f := range fields {
		fs[i] = Match(f, text)
	}
	if len(fs) == 1 {
		return fs[0]
	}
	return OrFilter{Filters: fs}
}

// And combines filters, dropping nil and match-all children.
func And(filters ...Filter) Filter {
	out := make([]Filter, 0, len(filters))
	for _, f := range filters {
		if f == nil || IsAll(f) {
			continue
		}
		if a, ok := f.(AndFilter); ok {
			out = append(out, a.Filters...)
			continue
		}
		out = append(out, f)
	}
	if len(out) == 1 {
		return out[0]
	}
	return AndFilter{Filters: out}
}

// Or combines filters. A nil or match-all child makes the whole Or match all.
func Or(filters ...Filter) Filter {
	out := make([]Filter, 0, len(filters))
	for _, f := range filters {
		if f == nil || IsAll(f) {
			return All()
		}
		out = append(out, f)
	}
	if len(out) == 1 {
		return out[0]
	}
	return OrFilter{Filters: out}
}

// IsAll reports whether f matches every document.
func IsAll(f Filter) bool {
	if f == nil {
		return true
	}
	a, ok := f.(AndFilter)
	return ok && len(a.Filters) == 0
}

// Normalize returns All for a nil filter.
func Normalize(f Filter) Filter {
	if f == nil {
		return All()
	}
	return f
}
