package formmap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pluqqy/tpmedit/pkg/jsondoc"
)

// Form tracks the current raw value of every field of a document. Edits are
// recorded by path as they happen; Entries and Rebuild read from that mapping.
type Form struct {
	fields []Field
	values []any
	index  map[string]int
	bounds NumberBounds
}

// NewForm flattens doc into a form.
func NewForm(doc *jsondoc.Object, bounds NumberBounds) *Form {
	fields := Flatten(doc, nil)
	f := &Form{
		fields: fields,
		values: make([]any, len(fields)),
		index:  make(map[string]int, len(fields)),
		bounds: bounds,
	}
	for i, field := range fields {
		f.values[i] = field.Initial()
		f.index[pathKey(field.Path)] = i
	}
	return f
}

// pathKey builds a lookup key that cannot collide between keys and indexes.
func pathKey(p FieldPath) string {
	var b strings.Builder
	for _, seg := range p {
		if seg.IsIndex() {
			b.WriteString("\x00i")
			b.WriteString(strconv.Itoa(seg.Position()))
		} else {
			b.WriteString("\x00k")
			b.WriteString(seg.KeyName())
		}
	}
	return b.String()
}

// Fields returns all fields in document order.
func (f *Form) Fields() []Field {
	return f.fields
}

// Len returns the number of fields.
func (f *Form) Len() int {
	return len(f.fields)
}

// Bounds returns the limits applied to number fields.
func (f *Form) Bounds() NumberBounds {
	return f.bounds
}

// Lookup returns the field at path.
func (f *Form) Lookup(path FieldPath) (Field, bool) {
	i, ok := f.index[pathKey(path)]
	if !ok {
		return Field{}, false
	}
	return f.fields[i], true
}

// Value returns the current raw value at path.
func (f *Form) Value(path FieldPath) (any, bool) {
	i, ok := f.index[pathKey(path)]
	if !ok {
		return nil, false
	}
	return f.values[i], true
}

// DisplayValue renders the current value at path as text.
func (f *Form) DisplayValue(path FieldPath) string {
	i, ok := f.index[pathKey(path)]
	if !ok {
		return ""
	}
	switch v := f.values[i].(type) {
	case bool:
		return strconv.FormatBool(v)
	case float64:
		field := f.fields[i]
		if orig, ok := field.Original.(jsondoc.Number); ok {
			if of, err := orig.Float64(); err == nil && of == v {
				return string(orig)
			}
		}
		return string(FormatNumber(v))
	case string:
		return v
	}
	return fmt.Sprint(f.values[i])
}

func (f *Form) slot(path FieldPath, want Kind) (int, error) {
	i, ok := f.index[pathKey(path)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownField, path)
	}
	if got := f.fields[i].Kind; got != want {
		return 0, fmt.Errorf("%s is a %s field, not %s", path, got, want)
	}
	return i, nil
}

// SetBool records a toggle edit.
func (f *Form) SetBool(path FieldPath, v bool) error {
	i, err := f.slot(path, KindBoolean)
	if err != nil {
		return err
	}
	f.values[i] = v
	return nil
}

// SetNumber records a numeric edit, clamped to the form's bounds. It returns
// the stored value.
func (f *Form) SetNumber(path FieldPath, v float64) (float64, error) {
	i, err := f.slot(path, KindNumber)
	if err != nil {
		return 0, err
	}
	v = f.bounds.Clamp(v)
	f.values[i] = v
	return v, nil
}

// SetText records a text or list edit.
func (f *Form) SetText(path FieldPath, s string) error {
	i, ok := f.index[pathKey(path)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, path)
	}
	switch f.fields[i].Kind {
	case KindText, KindScalarList:
		f.values[i] = s
		return nil
	}
	return fmt.Errorf("%s is a %s field, not text", path, f.fields[i].Kind)
}

// Apply parses s according to the field's kind and records it. Booleans
// accept the usual strconv spellings; numbers are clamped.
func (f *Form) Apply(path FieldPath, s string) error {
	field, ok := f.Lookup(path)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, path)
	}
	switch field.Kind {
	case KindBoolean:
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("%s: %q is not a boolean", path, s)
		}
		return f.SetBool(path, b)
	case KindNumber:
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", path, s)
		}
		_, err = f.SetNumber(path, v)
		return err
	}
	return f.SetText(path, s)
}

// Reset restores the loaded value at path.
func (f *Form) Reset(path FieldPath) {
	if i, ok := f.index[pathKey(path)]; ok {
		f.values[i] = f.fields[i].Initial()
	}
}

// Changed reports whether the field at path differs from its loaded value.
func (f *Form) Changed(path FieldPath) bool {
	i, ok := f.index[pathKey(path)]
	return ok && f.values[i] != f.fields[i].Initial()
}

// Dirty reports whether any field was edited.
func (f *Form) Dirty() bool {
	for i := range f.fields {
		if f.values[i] != f.fields[i].Initial() {
			return true
		}
	}
	return false
}

// Entries coerces every field's current value, in document order.
func (f *Form) Entries() ([]Entry, error) {
	entries := make([]Entry, 0, len(f.fields))
	for i, field := range f.fields {
		v, err := field.ReadBack(f.values[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Path: field.Path, Value: v})
	}
	return entries, nil
}

// Rebuild produces the edited document.
func (f *Form) Rebuild() (*jsondoc.Object, error) {
	entries, err := f.Entries()
	if err != nil {
		return nil, err
	}
	return Rebuild(entries)
}

// Section is the group of fields sharing a top-level key.
type Section struct {
	Key    string
	Fields []Field
}

// Sections groups fields by their first segment, in document order.
func (f *Form) Sections() []Section {
	var out []Section
	pos := make(map[string]int)
	for _, field := range f.fields {
		if len(field.Path) == 0 {
			continue
		}
		key := field.Path[0].KeyName()
		i, ok := pos[key]
		if !ok {
			i = len(out)
			pos[key] = i
			out = append(out, Section{Key: key})
		}
		out[i].Fields = append(out[i].Fields, field)
	}
	return out
}
