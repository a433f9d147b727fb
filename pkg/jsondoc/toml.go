package jsondoc

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
)

// MarshalTOML encodes v as a TOML document. TOML has no null, so object keys
// holding null are left out; a null inside an array is an error. TOML tables
// are written with sorted keys.
func MarshalTOML(v any) ([]byte, error) {
	table, ok := v.(*Object)
	if !ok {
		return nil, fmt.Errorf("a TOML document must be an object, not %s", Kind(v))
	}

	plain, err := toPlain(table)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(plain); err != nil {
		return nil, fmt.Errorf("failed to encode TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// toPlain converts v to the maps, slices and scalars the TOML encoder takes
func toPlain(v any) (any, error) {
	switch val := v.(type) {
	case bool, string:
		return val, nil
	case Number:
		if val.IsInteger() {
			if n, err := val.Int64(); err == nil {
				return n, nil
			}
		}
		return val.Float64()
	case *Array:
		out := make([]any, 0, len(val.Items))
		for i, item := range val.Items {
			if item == nil {
				return nil, fmt.Errorf("TOML cannot hold null at array index %d", i)
			}
			p, err := toPlain(item)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
		return out, nil
	case *Object:
		out := make(map[string]any, val.Len())
		for _, k := range val.Keys() {
			item, _ := val.Get(k)
			if item == nil {
				continue
			}
			p, err := toPlain(item)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[k] = p
		}
		return out, nil
	}
	return nil, fmt.Errorf("cannot convert %s to TOML", Kind(v))
}
