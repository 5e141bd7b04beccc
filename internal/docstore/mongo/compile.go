package mongo

import (
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/docstore"
)

// compileFilter translates the filter AST into a MongoDB query document.
func compileFilter(f docstore.Filter) (bson.D, error) {
	switch n := docstore.Normalize(f).(type) {
	case docstore.EqFilter:
		return bson.D{{Key: n.Field, Value: n.Value}}, nil
	case docstore.NeFilter:
		return bson.D{{Key: n.Field, Value: bson.D{{Key: "$ne", Value: n.Value}}}}, nil
	case docstore.InFilter:
		values := bson.A(n.Values)
		if values == nil {
			values = bson.A{}
		}
		return bson.D{{Key: n.Field, Value: bson.D{{Key: "$in", Value: values}}}}, nil
	case docstore.MatchFilter:
		return bson.D{{Key: n.Field, Value: bson.Regex{Pattern: regexp.QuoteMeta(n.Text), Options: "i"}}}, nil
	case docstore.AndFilter:
		if len(n.Filters) == 0 {
			return bson.D{}, nil
		}
		parts, err := compileAll(n.Filters)
		if err != nil {
			return nil, err
		}
		return bson.D{{Key: "$and", Value: parts}}, nil
	case docstore.OrFilter:
		parts, err := compileAll(n.Filters)
		if err != nil {
			return nil, err
		}
		return bson.D{{Key: "$or", Value: parts}}, nil
	default:
		return nil, fmt.Errorf("unsupported filter %T", f)
	}
}

func compileAll(filters []docstore.Filter) (bson.A, error) {
	out := make(bson.A, 0, len(filters))
	for _, c := range filters {
		d, err := compileFilter(c)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func compileSort(fields []docstore.SortField) bson.D {
	if len(fields) == 0 {
		return nil
	}
	d := make(bson.D, 0, len(fields))
	for _, f := range fields {
		dir := 1
		if f.Descending {
			dir = -1
		}
		d = append(d, bson.E{Key: f.Field, Value: dir})
	}
	return d
}

func compileProjection(p docstore.Projection) bson.D {
	if p.IsZero() {
		return nil
	}
	flag := 1
	if p.Exclude {
		flag = 0
	}
	d := make(bson.D, 0, len(p.Fields))
	for _, f := range p.Fields {
		d = append(d, bson.E{Key: f, Value: flag})
	}
	return d
}

func compileUpdate(u docstore.Update) bson.D {
	var d bson.D
	if len(u.Sets) > 0 {
		set := make(bson.D, 0, len(u.Sets))
		for _, fv := range u.Sets {
			set = append(set, bson.E{Key: fv.Field, Value: fv.Value})
		}
		d = append(d, bson.E{Key: "$set", Value: set})
	}
	if len(u.Incs) > 0 {
		inc := make(bson.D, 0, len(u.Incs))
		for _, fv := range u.Incs {
			inc = append(inc, bson.E{Key: fv.Field, Value: fv.Value})
		}
		d = append(d, bson.E{Key: "$inc", Value: inc})
	}
	return d
}
