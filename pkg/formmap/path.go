package formmap

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is one step of a FieldPath: either an object key or an array index.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key returns a segment addressing an object member.
func Key(k string) Segment {
	return Segment{key: k}
}

// Index returns a segment addressing an array element.
func Index(i int) Segment {
	return Segment{index: i, isIndex: true}
}

// IsIndex reports whether the segment addresses an array element.
func (s Segment) IsIndex() bool { return s.isIndex }

// KeyName returns the object key. Empty for index segments.
func (s Segment) KeyName() string { return s.key }

// Position returns the array index. Zero for key segments.
func (s Segment) Position() int { return s.index }

func (s Segment) String() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	return s.key
}

// FieldPath locates one leaf inside a document.
type FieldPath []Segment

// Append returns a new path with seg added. The receiver is never modified.
func (p FieldPath) Append(seg Segment) FieldPath {
	out := make(FieldPath, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// Parent returns the path without its last segment.
func (p FieldPath) Parent() FieldPath {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// Last returns the final segment.
func (p FieldPath) Last() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[len(p)-1], true
}

// Equal compares two paths segment by segment.
func (p FieldPath) Equal(o FieldPath) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether p starts with prefix.
func (p FieldPath) HasPrefix(prefix FieldPath) bool {
	return len(p) >= len(prefix) && p[:len(prefix)].Equal(prefix)
}

var pathEscaper = strings.NewReplacer(`\`, `\\`, ".", `\.`)

// String renders the path as dot separated segments, e.g. "curve.0.k".
// Dots and backslashes inside keys are escaped with a backslash.
func (p FieldPath) String() string {
	parts := make([]string, len(p))
	for i, seg := range p {
		if seg.isIndex {
			parts[i] = strconv.Itoa(seg.index)
		} else {
			parts[i] = pathEscaper.Replace(seg.key)
		}
	}
	return strings.Join(parts, ".")
}

// gjsonSpecial lists the characters gjson and sjson treat as path syntax.
const gjsonSpecial = `\.*?|#@!=<>%`

// GJSON renders the path in gjson query syntax.
func (p FieldPath) GJSON() string {
	return p.render(false)
}

// SJSON renders the path for sjson. Numeric-looking keys get a leading colon
// so sjson treats them as object members rather than array slots.
func (p FieldPath) SJSON() string {
	return p.render(true)
}

func (p FieldPath) render(forSet bool) string {
	parts := make([]string, len(p))
	for i, seg := range p {
		if seg.isIndex {
			parts[i] = strconv.Itoa(seg.index)
			continue
		}
		var b strings.Builder
		if forSet && isDigits(seg.key) {
			b.WriteByte(':')
		}
		for _, r := range seg.key {
			if strings.ContainsRune(gjsonSpecial, r) {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
		parts[i] = b.String()
	}
	return strings.Join(parts, ".")
}

// ParsePath reads the dot separated form produced by String. Segments made of
// digits only become indexes; a backslash escapes the next character. Use
// Resolve when the document is at hand, since numeric object keys are
// ambiguous without it.
func ParsePath(s string) (FieldPath, error) {
	parts, err := splitPath(s)
	if err != nil {
		return nil, err
	}

	path := make(FieldPath, 0, len(parts))
	for _, part := range parts {
		if isDigits(part) {
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("path %q: %w", s, err)
			}
			path = append(path, Index(n))
			continue
		}
		path = append(path, Key(part))
	}
	return path, nil
}

func splitPath(s string) ([]string, error) {
	if s == "" {
		return nil, fmt.Errorf("empty path")
	}

	var parts []string
	var cur strings.Builder
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '.':
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if escaped {
		return nil, fmt.Errorf("path %q ends with an escape", s)
	}
	parts = append(parts, cur.String())

	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("path %q has an empty segment", s)
		}
	}
	return parts, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
