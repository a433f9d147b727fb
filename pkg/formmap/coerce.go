package formmap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/pluqqy/tpmedit/pkg/jsondoc"
)

// ListSeparator splits list and comma-bearing text values on read-back.
const ListSeparator = ","

// ReadBack converts the raw edit value of f into a document value.
func (f Field) ReadBack(raw any) (any, error) {
	switch f.Kind {
	case KindBoolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("%s: expected bool, got %T", f.Path, raw)
		}
		return b, nil

	case KindNumber:
		v, ok := raw.(float64)
		if !ok {
			return nil, fmt.Errorf("%s: expected float64, got %T", f.Path, raw)
		}
		return f.numberValue(v), nil

	case KindText:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%s: expected string, got %T", f.Path, raw)
		}
		if f.Fallback && s == scalarText(f.Original) {
			return f.Original, nil
		}
		return CoerceText(s), nil

	case KindScalarList:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%s: expected string, got %T", f.Path, raw)
		}
		if orig, ok := f.Original.(*jsondoc.Array); ok && s == JoinList(orig) {
			return jsondoc.NewArray(append([]any(nil), orig.Items...)...), nil
		}
		return CoerceList(s), nil
	}
	return nil, fmt.Errorf("%s: unknown field kind %d", f.Path, f.Kind)
}

// numberValue keeps the original literal when the value is unchanged, keeps
// integers integral and keeps fractional fields fractional.
func (f Field) numberValue(v float64) jsondoc.Number {
	orig, _ := f.Original.(jsondoc.Number)
	if of, err := orig.Float64(); err == nil && of == v {
		return orig
	}
	if orig.IsInteger() && v == float64(int64(v)) {
		return jsondoc.Number(strconv.FormatInt(int64(v), 10))
	}
	return floatLiteral(v)
}

// FormatNumber renders v as the shortest JSON number literal.
func FormatNumber(v float64) jsondoc.Number {
	return jsondoc.Number(strconv.FormatFloat(v, 'f', -1, 64))
}

// floatLiteral is FormatNumber with a trailing ".0" for integral values.
func floatLiteral(v float64) jsondoc.Number {
	n := FormatNumber(v)
	if !strings.ContainsAny(string(n), ".eE") {
		n += ".0"
	}
	return n
}

// CoerceText returns s unchanged unless it contains the list separator, in
// which case it is read back as a list.
func CoerceText(s string) any {
	if !strings.Contains(s, ListSeparator) {
		return s
	}
	return CoerceList(s)
}

// CoerceList splits s on the separator and types every token: float when it
// has a fraction or exponent, int otherwise. If any token fails to parse the
// whole list falls back to the trimmed string tokens.
func CoerceList(s string) *jsondoc.Array {
	if strings.TrimSpace(s) == "" {
		return jsondoc.NewArray()
	}

	tokens := strings.Split(s, ListSeparator)
	for i := range tokens {
		tokens[i] = strings.TrimSpace(tokens[i])
	}

	items := make([]any, 0, len(tokens))
	for _, tok := range tokens {
		n, ok := parseToken(tok)
		if !ok {
			return stringTokens(tokens)
		}
		items = append(items, n)
	}
	return jsondoc.NewArray(items...)
}

func parseToken(tok string) (jsondoc.Number, bool) {
	if strings.ContainsAny(tok, ".eE") {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return "", false
		}
		if gjson.Valid(tok) {
			return jsondoc.Number(tok), true
		}
		return floatLiteral(f), true
	}
	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return "", false
	}
	return jsondoc.Number(strconv.FormatInt(n, 10)), true
}

func stringTokens(tokens []string) *jsondoc.Array {
	items := make([]any, len(tokens))
	for i, tok := range tokens {
		items[i] = tok
	}
	return jsondoc.NewArray(items...)
}
