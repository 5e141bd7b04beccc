package postgres

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/docstore"
)

// args accumulates positional query parameters.
type args struct {
	vals []any
}

func (a *args) add(v any) string {
	a.vals = append(a.vals, v)
	return fmt.Sprintf("$%d", len(a.vals))
}

func path(field string) []string {
	return strings.Split(field, ".")
}

// pathLiteral renders a validated field path as a text[] literal.
func pathLiteral(field string) string {
	return "'{" + strings.Join(path(field), ",") + "}'"
}

// extValue encodes v the way it appears inside a stored document.
func extValue(v any) (json.RawMessage, error) {
	data, err := bson.MarshalExtJSON(bson.D{{Key: "v", Value: v}}, false, false)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	return wrapper["v"], nil
}

// containment builds the jsonb document {"a":{"b":value}} for path a.b.
func containment(field string, value json.RawMessage) (string, error) {
	parts := path(field)
	cur := value
	for i := len(parts) - 1; i >= 0; i-- {
		b, err := json.Marshal(map[string]json.RawMessage{parts[i]: cur})
		if err != nil {
			return "", err
		}
		cur = b
	}
	return string(cur), nil
}

func compileFilter(f docstore.Filter, a *args) (string, error) {
	switch n := docstore.Normalize(f).(type) {
	case docstore.EqFilter:
		return compileEq(n.Field, n.Value, a)
	case docstore.NeFilter:
		eq, err := compileEq(n.Field, n.Value, a)
		if err != nil {
			return "", err
		}
		return "NOT " + eq, nil
	case docstore.InFilter:
		if len(n.Values) == 0 {
			return "FALSE", nil
		}
		parts := make([]string, 0, len(n.Values))
		for _, v := range n.Values {
			eq, err := compileEq(n.Field, v, a)
			if err != nil {
				return "", err
			}
			parts = append(parts, eq)
		}
		return "(" + strings.Join(parts, " OR ") + ")", nil
	case docstore.MatchFilter:
		return fmt.Sprintf("COALESCE(doc #>> %s::text[], '') ~* %s",
			a.add(path(n.Field)), a.add(regexp.QuoteMeta(n.Text))), nil
	case docstore.AndFilter:
		if len(n.Filters) == 0 {
			return "TRUE", nil
		}
		return compileJoin(n.Filters, " AND ", a)
	case docstore.OrFilter:
		return compileJoin(n.Filters, " OR ", a)
	default:
		return "", fmt.Errorf("unsupported filter %T", f)
	}
}

func compileJoin(filters []docstore.Filter, sep string, a *args) (string, error) {
	parts := make([]string, 0, len(filters))
	for _, c := range filters {
		s, err := compileFilter(c, a)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}

// compileEq matches a scalar directly or as an element of an array field.
// A nil value also matches a missing field.
func compileEq(field string, value any, a *args) (string, error) {
	if value == nil {
		p := a.add(path(field))
		return fmt.Sprintf("(doc #> %s::text[] IS NULL OR doc #> %s::text[] = 'null'::jsonb)", p, p), nil
	}
	v, err := extValue(value)
	if err != nil {
		return "", err
	}
	scalar, err := containment(field, v)
	if err != nil {
		return "", err
	}
	if len(v) > 0 && v[0] == '[' {
		return fmt.Sprintf("doc @> %s::jsonb", a.add(scalar)), nil
	}
	elem, err := containment(field, json.RawMessage("["+string(v)+"]"))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(doc @> %s::jsonb OR doc @> %s::jsonb)", a.add(scalar), a.add(elem)), nil
}

func compileSort(fields []docstore.SortField) string {
	parts := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		parts = append(parts, fmt.Sprintf("doc #> %s %s", pathLiteral(f.Field), dir))
	}
	parts = append(parts, "id")
	return " ORDER BY " + strings.Join(parts, ", ")
}

func compileUpdate(u docstore.Update, a *args) (string, error) {
	expr := "doc"
	for _, fv := range u.Sets {
		v, err := extValue(fv.Value)
		if err != nil {
			return "", err
		}
		expr = fmt.Sprintf("jsonb_set(%s, %s::text[], %s::jsonb, true)", expr, a.add(path(fv.Field)), a.add(string(v)))
	}
	for _, fv := range u.Incs {
		p := a.add(path(fv.Field))
		expr = fmt.Sprintf("jsonb_set(%s, %s::text[], to_jsonb(COALESCE((doc #>> %s::text[])::numeric, 0) + %s::numeric), true)",
			expr, p, p, a.add(fv.Value))
	}
	return expr, nil
}
