package memory

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/docstore"
)

func lookup(doc bson.M, path string) (any, bool) {
	var cur any = doc
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(bson.M)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func matches(doc bson.M, f docstore.Filter) (bool, error) {
	switch n := f.(type) {
	case docstore.EqFilter:
		return eq(doc, n.Field, n.Value)
	case docstore.NeFilter:
		ok, err := eq(doc, n.Field, n.Value)
		return !ok, err
	case docstore.InFilter:
		for _, v := range n.Values {
			ok, err := eq(doc, n.Field, v)
			if err != nil || ok {
				return ok, err
			}
		}
		return false, nil
	case docstore.MatchFilter:
		re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(n.Text))
		if err != nil {
			return false, err
		}
		v, _ := lookup(doc, n.Field)
		return anyElem(v, func(e any) bool {
			s, ok := e.(string)
			return ok && re.MatchString(s)
		}), nil
	case docstore.AndFilter:
		for _, c := range n.Filters {
			ok, err := matches(doc, c)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case docstore.OrFilter:
		for _, c := range n.Filters {
			ok, err := matches(doc, c)
			if err != nil || ok {
				return ok, err
			}
		}
		return false, nil
	case nil:
		return true, nil
	default:
		return false, fmt.Errorf("unsupported filter %T", f)
	}
}

func eq(doc bson.M, field string, value any) (bool, error) {
	want, err := docstore.NormalizeValue(value)
	if err != nil {
		return false, err
	}
	got, ok := lookup(doc, field)
	if !ok {
		return want == nil, nil
	}
	if equal(got, want) {
		return true, nil
	}
	if _, isArr := want.(bson.A); isArr {
		return false, nil
	}
	if arr, isArr := got.(bson.A); isArr {
		for _, e := range arr {
			if equal(e, want) {
				return true, nil
			}
		}
	}
	return false, nil
}

func anyElem(v any, pred func(any) bool) bool {
	if arr, ok := v.(bson.A); ok {
		for _, e := range arr {
			if pred(e) {
				return true
			}
		}
		return false
	}
	return pred(v)
}

func equal(a, b any) bool {
	if fa, ok := number(a); ok {
		fb, ok := number(b)
		return ok && fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// rank orders values of different kinds the way MongoDB does for the kinds
// the catalog stores.
func rank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case int32, int64, int, float64:
		return 1
	case string:
		return 2
	case bson.M:
		return 3
	case bson.A:
		return 4
	case bool:
		return 5
	case bson.DateTime, time.Time:
		return 6
	default:
		return 7
	}
}

func compare(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra - rb
	}
	switch x := a.(type) {
	case string:
		return strings.Compare(x, b.(string))
	case bool:
		y := b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case bson.DateTime:
		y, _ := b.(bson.DateTime)
		return cmpOrdered(int64(x), int64(y))
	}
	if fa, ok := number(a); ok {
		fb, _ := number(b)
		return cmpOrdered(fa, fb)
	}
	return 0
}

func cmpOrdered[N int64 | float64](a, b N) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func applyUpdate(doc bson.M, u docstore.Update) error {
	for _, fv := range u.Sets {
		v, err := docstore.NormalizeValue(fv.Value)
		if err != nil {
			return err
		}
		setPath(doc, fv.Field, v)
	}
	for _, fv := range u.Incs {
		delta, err := docstore.NormalizeValue(fv.Value)
		if err != nil {
			return err
		}
		d, ok := number(delta)
		if !ok {
			return fmt.Errorf("cannot increment %s by non-numeric %T", fv.Field, fv.Value)
		}
		cur, _ := lookup(doc, fv.Field)
		c := 0.0
		if cur != nil {
			if c, ok = number(cur); !ok {
				return fmt.Errorf("cannot increment non-numeric field %s", fv.Field)
			}
		}
		sum := c + d
		if sum == float64(int64(sum)) && isInt(cur) && isInt(delta) {
			setPath(doc, fv.Field, int64(sum))
		} else {
			setPath(doc, fv.Field, sum)
		}
	}
	return nil
}

func isInt(v any) bool {
	switch v.(type) {
	case nil, int32, int64, int:
		return true
	}
	return false
}

func setPath(doc bson.M, path string, v any) {
	parts := strings.Split(path, ".")
	cur := doc
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur[p].(bson.M)
		if !ok {
			next = bson.M{}
			cur[p] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = v
}
