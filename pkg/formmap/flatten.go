// Package formmap maps a nested JSON document to a flat list of editable
// fields addressed by path, and rebuilds a document from edited field values.
package formmap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pluqqy/tpmedit/pkg/jsondoc"
)

// Field is one editable leaf of a document.
type Field struct {
	Path FieldPath
	Kind Kind

	// Original is the leaf value as loaded.
	Original any

	// Fallback marks a leaf whose value is not a boolean, number or string
	// and is edited as its text rendering.
	Fallback bool
}

// Label is the name shown next to the field: the last key, or "[i]" for
// array elements.
func (f Field) Label() string {
	last, ok := f.Path.Last()
	if !ok {
		return "(root)"
	}
	if last.IsIndex() {
		return fmt.Sprintf("[%d]", last.Position())
	}
	return last.KeyName()
}

// Initial returns the raw edit value the field starts with: bool for
// Boolean, float64 for Number and string otherwise.
func (f Field) Initial() any {
	switch f.Kind {
	case KindBoolean:
		b, _ := f.Original.(bool)
		return b
	case KindNumber:
		n, _ := f.Original.(jsondoc.Number)
		v, _ := n.Float64()
		return v
	case KindScalarList:
		arr, _ := f.Original.(*jsondoc.Array)
		return JoinList(arr)
	}
	return scalarText(f.Original)
}

// Text renders the original value for display.
func (f Field) Text() string {
	switch f.Kind {
	case KindBoolean:
		return strconv.FormatBool(f.Initial().(bool))
	case KindNumber:
		return string(f.Original.(jsondoc.Number))
	}
	return f.Initial().(string)
}

// Flatten enumerates every leaf of v under prefix in depth-first document
// order. Objects recurse per key; arrays of objects recurse per index;
// arrays of scalars become a single list leaf.
func Flatten(v any, prefix FieldPath) []Field {
	var out []Field
	flatten(v, prefix, &out)
	return out
}

func flatten(v any, prefix FieldPath, out *[]Field) {
	switch val := v.(type) {
	case *jsondoc.Object:
		for _, k := range val.Keys() {
			child, _ := val.Get(k)
			flatten(child, prefix.Append(Key(k)), out)
		}
	case *jsondoc.Array:
		if allScalars(val) {
			*out = append(*out, Field{Path: prefix, Kind: KindScalarList, Original: val})
			return
		}
		for i, item := range val.Items {
			flatten(item, prefix.Append(Index(i)), out)
		}
	default:
		*out = append(*out, classify(val, prefix))
	}
}

// classify picks the primitive for a scalar. Booleans are checked before
// numbers so they never turn into numeric fields.
func classify(v any, path FieldPath) Field {
	switch val := v.(type) {
	case bool:
		return Field{Path: path, Kind: KindBoolean, Original: val}
	case jsondoc.Number:
		if _, err := val.Float64(); err == nil {
			return Field{Path: path, Kind: KindNumber, Original: val}
		}
		return Field{Path: path, Kind: KindText, Original: val, Fallback: true}
	case string:
		return Field{Path: path, Kind: KindText, Original: val}
	}
	return Field{Path: path, Kind: KindText, Original: v, Fallback: true}
}

func allScalars(arr *jsondoc.Array) bool {
	for _, item := range arr.Items {
		if !jsondoc.IsScalar(item) {
			return false
		}
	}
	return true
}

// JoinList renders a scalar array as comma separated text.
func JoinList(arr *jsondoc.Array) string {
	if arr == nil {
		return ""
	}
	parts := make([]string, len(arr.Items))
	for i, item := range arr.Items {
		parts[i] = scalarText(item)
	}
	return strings.Join(parts, ", ")
}

func scalarText(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(val)
	case jsondoc.Number:
		return string(val)
	case string:
		return val
	}
	return fmt.Sprint(v)
}
