package formmap

import (
	"errors"
	"fmt"

	"github.com/pluqqy/tpmedit/pkg/jsondoc"
)

var (
	// ErrShapeConflict is returned when two paths disagree about whether a
	// prefix is an object, an array or a leaf.
	ErrShapeConflict = errors.New("shape conflict")

	// ErrEmptyPath is returned for an entry without segments.
	ErrEmptyPath = errors.New("empty field path")

	// ErrUnknownField is returned when a path names no field of a form.
	ErrUnknownField = errors.New("unknown field")
)

// ShapeError describes a shape conflict at Path.
type ShapeError struct {
	Path FieldPath
	Want string
	Got  string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s at %q: want %s, found %s", ErrShapeConflict, e.Path.String(), e.Want, e.Got)
}

func (e *ShapeError) Unwrap() error {
	return ErrShapeConflict
}

// Entry is one (path, value) pair collected from an edit surface.
type Entry struct {
	Path  FieldPath
	Value any
}

// Rebuild reconstructs a document from entries, materializing objects and
// arrays on demand. Array slots skipped on the way to a higher index are
// filled with empty objects for intermediate segments and null for final
// ones, so indexes must be visited in non-decreasing order per array to get
// a dense result.
func Rebuild(entries []Entry) (*jsondoc.Object, error) {
	b := NewBuilder()
	for _, e := range entries {
		if err := b.Set(e.Path, e.Value); err != nil {
			return nil, err
		}
	}
	return b.Root(), nil
}

// Builder accumulates entries into a document.
type Builder struct {
	root *jsondoc.Object

	// leaves holds list values written as leaves so they are never
	// mistaken for containers.
	leaves map[any]struct{}

	// nulls holds the paths of null leaves. Null array slots created by
	// growth are placeholders and are not listed.
	nulls map[string]struct{}
}

// NewBuilder starts an empty document.
func NewBuilder() *Builder {
	return &Builder{
		root:   jsondoc.NewObject(),
		leaves: make(map[any]struct{}),
		nulls:  make(map[string]struct{}),
	}
}

// Root returns the document built so far.
func (b *Builder) Root() *jsondoc.Object {
	return b.root
}

// Set writes v at path, creating containers as needed. Writing the same
// leaf twice keeps the last value.
func (b *Builder) Set(path FieldPath, v any) error {
	if len(path) == 0 {
		return ErrEmptyPath
	}

	var cur any = b.root
	for i := 0; i < len(path)-1; i++ {
		next, err := b.descend(cur, path[:i+1], path[i+1])
		if err != nil {
			return err
		}
		cur = next
	}
	if err := b.assign(cur, path, v); err != nil {
		return err
	}
	if isContainer(v) {
		b.leaves[v] = struct{}{}
	}
	if v == nil {
		b.nulls[pathKey(path)] = struct{}{}
	} else {
		delete(b.nulls, pathKey(path))
	}
	return nil
}

func (b *Builder) isLeaf(v any) bool {
	if !isContainer(v) {
		return false
	}
	_, ok := b.leaves[v]
	return ok
}

func (b *Builder) isNullLeaf(path FieldPath) bool {
	_, ok := b.nulls[pathKey(path)]
	return ok
}

// descend fetches or creates the container addressed by the last segment of
// at. The container type is decided by the segment that follows it.
func (b *Builder) descend(cur any, at FieldPath, next Segment) (any, error) {
	seg := at[len(at)-1]
	want := containerKind(next)

	var child any
	if seg.IsIndex() {
		arr, ok := cur.(*jsondoc.Array)
		if !ok {
			return nil, &ShapeError{Path: at.Parent(), Want: "array", Got: jsondoc.Kind(cur)}
		}
		for len(arr.Items) <= seg.Position() {
			arr.Items = append(arr.Items, jsondoc.NewObject())
		}
		child = arr.Items[seg.Position()]
		if child == nil && b.isNullLeaf(at) {
			return nil, &ShapeError{Path: at, Want: want, Got: "null"}
		}
		if child == nil || isEmptyObject(child) && want == "array" {
			child = newContainer(next)
			arr.Items[seg.Position()] = child
		}
	} else {
		obj, ok := cur.(*jsondoc.Object)
		if !ok {
			return nil, &ShapeError{Path: at.Parent(), Want: "object", Got: jsondoc.Kind(cur)}
		}
		existing, found := obj.Get(seg.KeyName())
		if found && existing == nil {
			return nil, &ShapeError{Path: at, Want: want, Got: "null"}
		}
		if !found {
			existing = newContainer(next)
			obj.Set(seg.KeyName(), existing)
		}
		child = existing
	}

	if b.isLeaf(child) {
		return nil, &ShapeError{Path: at, Want: want, Got: "leaf"}
	}
	if got := jsondoc.Kind(child); got != want {
		return nil, &ShapeError{Path: at, Want: want, Got: got}
	}
	return child, nil
}

func (b *Builder) assign(cur any, path FieldPath, v any) error {
	seg := path[len(path)-1]

	if seg.IsIndex() {
		arr, ok := cur.(*jsondoc.Array)
		if !ok {
			return &ShapeError{Path: path.Parent(), Want: "array", Got: jsondoc.Kind(cur)}
		}
		for len(arr.Items) <= seg.Position() {
			arr.Items = append(arr.Items, nil)
		}
		if existing := arr.Items[seg.Position()]; isContainer(existing) && !isEmptyObject(existing) && !b.isLeaf(existing) {
			return &ShapeError{Path: path, Want: "leaf", Got: jsondoc.Kind(existing)}
		}
		arr.Items[seg.Position()] = v
		return nil
	}

	obj, ok := cur.(*jsondoc.Object)
	if !ok {
		return &ShapeError{Path: path.Parent(), Want: "object", Got: jsondoc.Kind(cur)}
	}
	if existing, found := obj.Get(seg.KeyName()); found && isContainer(existing) && !b.isLeaf(existing) {
		return &ShapeError{Path: path, Want: "leaf", Got: jsondoc.Kind(existing)}
	}
	obj.Set(seg.KeyName(), v)
	return nil
}

func containerKind(next Segment) string {
	if next.IsIndex() {
		return "array"
	}
	return "object"
}

func newContainer(next Segment) any {
	if next.IsIndex() {
		return jsondoc.NewArray()
	}
	return jsondoc.NewObject()
}

func isContainer(v any) bool {
	switch v.(type) {
	case *jsondoc.Object, *jsondoc.Array:
		return true
	}
	return false
}

func isEmptyObject(v any) bool {
	obj, ok := v.(*jsondoc.Object)
	return ok && obj.Len() == 0
}
