package docstore

import "sort"

// FieldValue pairs a dotted field path with a value.
type FieldValue struct {
	Field string
	Value any
}

// Update is a set of field assignments and numeric increments.
type Update struct {
	Sets []FieldValue
	Incs []FieldValue
}

// Set starts an update assigning value to field.
func Set(field string, value any) Update {
	return Update{}.Set(field, value)
}

// Inc starts an update incrementing field by n.
func Inc(field string, n any) Update {
	return Update{}.Inc(field, n)
}

// SetFields turns a bare field map into an implicit set. Keys are applied in
// sorted order so compiled statements are deterministic.
func SetFields(fields map[string]any) Update {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	u := Update{}
	for _, k := range keys {
		u = u.Set(k, fields[k])
	}
	return u
}

// Set adds an assignment. A later assignment to the same field wins.
func (u Update) Set(field string, value any) Update {
	sets := make([]FieldValue, 0, len(u.Sets)+1)
	for _, fv := range u.Sets {
		if fv.Field != field {
			sets = append(sets, fv)
		}
	}
	u.Sets = append(sets, FieldValue{Field: field, Value: value})
	return u
}

// Inc adds an increment.
func (u Update) Inc(field string, n any) Update {
	u.Incs = append(append([]FieldValue(nil), u.Incs...), FieldValue{Field: field, Value: n})
	return u
}

// IsEmpty reports whether u changes nothing.
func (u Update) IsEmpty() bool {
	return len(u.Sets) == 0 && len(u.Incs) == 0
}

// Touch returns u with last_update set to now.
func (u Update) Touch() Update {
	return u.Set(FieldLastUpdate, Now())
}

// UpdateOptions controls UpdateOne.
type UpdateOptions struct {
	ReturnBefore bool
}

// UpdateOption mutates UpdateOptions.
type UpdateOption func(*UpdateOptions)

// ReturnBefore makes UpdateOne return the pre-update document.
func ReturnBefore() UpdateOption {
	return func(o *UpdateOptions) { o.ReturnBefore = true }
}

// ApplyUpdateOptions folds opts into UpdateOptions.
func ApplyUpdateOptions(opts ...UpdateOption) UpdateOptions {
	var o UpdateOptions
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
