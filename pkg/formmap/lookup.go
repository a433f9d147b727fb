package formmap

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/pluqqy/tpmedit/pkg/jsondoc"
)

// ErrPathNotFound is returned when a path does not exist in a document.
var ErrPathNotFound = errors.New("path not found")

// Lookup follows path through root.
func Lookup(root any, path FieldPath) (any, error) {
	cur := root
	for i, seg := range path {
		switch c := cur.(type) {
		case *jsondoc.Object:
			if seg.IsIndex() {
				return nil, &ShapeError{Path: path[:i], Want: "array", Got: "object"}
			}
			v, ok := c.Get(seg.KeyName())
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path[:i+1])
			}
			cur = v
		case *jsondoc.Array:
			if !seg.IsIndex() {
				return nil, &ShapeError{Path: path[:i], Want: "object", Got: "array"}
			}
			if seg.Position() >= c.Len() {
				return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path[:i+1])
			}
			cur = c.Items[seg.Position()]
		default:
			return nil, fmt.Errorf("%w: %s is a %s", ErrPathNotFound, path[:i], jsondoc.Kind(cur))
		}
	}
	return cur, nil
}

// Resolve parses s against root: a digits-only segment is an index when it
// addresses an array and a key when it addresses an object.
func Resolve(root any, s string) (FieldPath, error) {
	parts, err := splitPath(s)
	if err != nil {
		return nil, err
	}

	path := make(FieldPath, 0, len(parts))
	cur := root
	for _, part := range parts {
		switch c := cur.(type) {
		case *jsondoc.Object:
			v, ok := c.Get(part)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path.Append(Key(part)))
			}
			path = path.Append(Key(part))
			cur = v
		case *jsondoc.Array:
			n, err := strconv.Atoi(part)
			if err != nil || n < 0 || n >= c.Len() {
				return nil, fmt.Errorf("%w: %s.%s", ErrPathNotFound, path, part)
			}
			path = path.Append(Index(n))
			cur = c.Items[n]
		default:
			return nil, fmt.Errorf("%w: %s is a %s", ErrPathNotFound, path, jsondoc.Kind(cur))
		}
	}
	return path, nil
}
