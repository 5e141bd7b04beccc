package docstore

import (
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ToM encodes a document through its bson tags into a map whose nested
// documents are bson.M and arrays bson.A.
func ToM(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return RawToM(raw)
}

// RawToM decodes a BSON document into a bson.M tree.
func RawToM(raw []byte) (bson.M, error) {
	var d bson.D
	if err := bson.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return toM(d), nil
}

// ExtJSONToM decodes relaxed or canonical Extended JSON into a bson.M tree.
func ExtJSONToM(data []byte) (bson.M, error) {
	var d bson.D
	if err := bson.UnmarshalExtJSON(data, false, &d); err != nil {
		return nil, fmt.Errorf("decode extended json: %w", err)
	}
	return toM(d), nil
}

// NormalizeValue converts a Go value to the representation it has inside a
// decoded bson.M, so filter operands compare equal to stored values.
func NormalizeValue(v any) (any, error) {
	m, err := ToM(bson.D{{Key: "v", Value: v}})
	if err != nil {
		return nil, err
	}
	return m["v"], nil
}

// Decode projects m and decodes it into a new T.
func Decode[T any](m bson.M, p Projection) (*T, error) {
	if !p.IsZero() {
		projected := make(bson.M, len(m))
		for k, v := range m {
			if p.Keeps(k) {
				projected[k] = v
			}
		}
		m = projected
	}
	raw, err := bson.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &out, nil
}

func toM(d bson.D) bson.M {
	m := make(bson.M, len(d))
	for _, e := range d {
		m[e.Key] = toTree(e.Value)
	}
	return m
}

func toTree(v any) any {
	switch x := v.(type) {
	case bson.D:
		return toM(x)
	case bson.M:
		out := make(bson.M, len(x))
		for k, e := range x {
			out[k] = toTree(e)
		}
		return out
	case bson.A:
		out := make(bson.A, len(x))
		for i, e := range x {
			out[i] = toTree(e)
		}
		return out
	default:
		return v
	}
}
