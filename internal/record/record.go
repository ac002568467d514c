package record

import (
	"fmt"
	"slices"
)

// Field is a single named value of a Record.
type Field struct {
	Name  string
	Value any
}

// Record is an insertion-ordered field mapping.
// The zero value is an empty record ready to use.
type Record struct {
	fields []Field
}

// New creates a Record holding the given fields in order.
// Later duplicates of a name overwrite the earlier value in place.
func New(fields ...Field) Record {
	var r Record
	for _, f := range fields {
		r.Set(f.Name, f.Value)
	}

	return r
}

// From creates a Record from alternating name/value pairs.
// It panics if a name is not a string or a value is missing.
func From(pairs ...any) Record {
	if len(pairs)%2 != 0 {
		panic("record.From requires an even number of arguments")
	}

	var r Record
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("record.From: field name at position %d is %T, not string", i, pairs[i]))
		}

		r.Set(name, pairs[i+1])
	}

	return r
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.fields)
}

// Get returns the value stored under name.
func (r Record) Get(name string) (any, bool) {
	idx := r.indexOf(name)
	if idx < 0 {
		return nil, false
	}

	return r.fields[idx].Value, true
}

// Has reports whether the record carries a field called name.
func (r Record) Has(name string) bool {
	return r.indexOf(name) >= 0
}

// Set stores value under name. Existing fields keep their position.
func (r *Record) Set(name string, value any) {
	if idx := r.indexOf(name); idx >= 0 {
		r.fields[idx].Value = value
		return
	}

	r.fields = append(r.fields, Field{Name: name, Value: value})
}

// Delete removes the named fields, ignoring names that are not present.
func (r *Record) Delete(names ...string) {
	r.fields = slices.DeleteFunc(r.fields, func(f Field) bool {
		return slices.Contains(names, f.Name)
	})

	if len(r.fields) == 0 {
		r.fields = nil
	}
}

// Keys returns the field names in order.
func (r Record) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Name
	}

	return keys
}

// Fields returns a copy of the fields in order.
func (r Record) Fields() []Field {
	return slices.Clone(r.fields)
}

// Clone returns a shallow copy whose field list can be modified
// without affecting r.
func (r Record) Clone() Record {
	return Record{fields: slices.Clone(r.fields)}
}

func (r Record) indexOf(name string) int {
	return slices.IndexFunc(r.fields, func(f Field) bool {
		return f.Name == name
	})
}
