// Package jsondoc holds an ordered in-memory model of a JSON document.
//
// Values are one of: *Object, *Array, string, bool, Number or nil (JSON null).
// Objects remember the order their keys appeared in the source document so a
// document can be edited and written back without reordering anything.
package jsondoc

import (
	"fmt"
	"strconv"
)

// Number is a JSON number kept as its source literal.
type Number string

// Float64 parses the literal as a float.
func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// Int64 parses the literal as an integer.
func (n Number) Int64() (int64, error) {
	return strconv.ParseInt(string(n), 10, 64)
}

// IsInteger reports whether the literal has no fraction or exponent part.
func (n Number) IsInteger() bool {
	for _, r := range n {
		switch r {
		case '.', 'e', 'E':
			return false
		}
	}
	return n != ""
}

// Object is a JSON object that preserves key insertion order.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Set stores v under key. Existing keys keep their position.
func (o *Object) Set(key string, v any) {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the keys in document order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of members.
func (o *Object) Len() int {
	return len(o.keys)
}

// Array is a JSON array. It is a pointer type so containers can grow in place.
type Array struct {
	Items []any
}

// NewArray creates an array holding items.
func NewArray(items ...any) *Array {
	return &Array{Items: items}
}

// Len returns the number of elements.
func (a *Array) Len() int {
	return len(a.Items)
}

// Kind names the JSON type of v.
func Kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case Number:
		return "number"
	case string:
		return "string"
	case *Array:
		return "array"
	case *Object:
		return "object"
	default:
		return fmt.Sprintf("unknown(%T)", v)
	}
}

// IsScalar reports whether v is a JSON scalar (including null).
func IsScalar(v any) bool {
	switch v.(type) {
	case nil, bool, Number, string:
		return true
	}
	return false
}

// Equal reports whether a and b are structurally equal. Object key order is
// significant.
func Equal(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		if !ok {
			return false
		}
		if av == bv {
			return true
		}
		af, aerr := av.Float64()
		bf, berr := bv.Float64()
		return aerr == nil && berr == nil && af == bf && av.IsInteger() == bv.IsInteger()
	case *Array:
		bv, ok := b.(*Array)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv, ok := b.(*Object)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for i, k := range av.keys {
			if bv.keys[i] != k {
				return false
			}
			if !Equal(av.values[k], bv.values[k]) {
				return false
			}
		}
		return true
	}
	return false
}
