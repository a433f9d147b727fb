package jsondoc

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned when the input is not a valid JSON document.
var ErrInvalidJSON = errors.New("invalid JSON")

// Parse decodes data into the ordered document model.
func Parse(data []byte) (any, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

// ParseObject decodes data and requires the top level to be an object.
func ParseObject(data []byte) (*Object, error) {
	v, err := Parse(data)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*Object)
	if !ok {
		return nil, fmt.Errorf("top level is %s, expected object", Kind(v))
	}
	return obj, nil
}

// FromResult converts a gjson result into the ordered model.
func FromResult(r gjson.Result) any {
	return fromResult(r)
}

func fromResult(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Number:
		return Number(r.Raw)
	case gjson.String:
		return r.String()
	}

	if r.IsArray() {
		arr := &Array{Items: []any{}}
		r.ForEach(func(_, value gjson.Result) bool {
			arr.Items = append(arr.Items, fromResult(value))
			return true
		})
		return arr
	}

	obj := NewObject()
	r.ForEach(func(key, value gjson.Result) bool {
		obj.Set(key.String(), fromResult(value))
		return true
	})
	return obj
}
