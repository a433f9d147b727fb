package search

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FieldType is the attribute of a form field a condition looks at
type FieldType string

const (
	FieldPath    FieldType = "path"
	FieldKind    FieldType = "kind"
	FieldSection FieldType = "section"
	FieldValue   FieldType = "value"
	FieldAny     FieldType = "any" // bare words match path or value
)

// Operator represents a search operator
type Operator string

const (
	OperatorEquals      Operator = "="
	OperatorContains    Operator = "contains"
	OperatorGreaterThan Operator = ">"
	OperatorLessThan    Operator = "<"
	OperatorAND         Operator = "AND"
	OperatorOR          Operator = "OR"
)

// Condition represents a single search condition
type Condition struct {
	Field    FieldType
	Operator Operator
	Value    string
	Number   float64 // set for numeric comparisons
	Negate   bool
}

// Query represents a parsed search query
type Query struct {
	Conditions []Condition
	Logic      []Operator // between consecutive conditions
	Raw        string
}

// Parser handles parsing of search queries
type Parser struct {
	fieldPattern   *regexp.Regexp
	quotedPattern  *regexp.Regexp
	comparePattern *regexp.Regexp
}

// NewParser creates a new search query parser
func NewParser() *Parser {
	return &Parser{
		fieldPattern:   regexp.MustCompile(`^(\w+):(.+)$`),
		quotedPattern:  regexp.MustCompile(`^"([^"]*)"$`),
		comparePattern: regexp.MustCompile(`^([<>=])(.+)$`),
	}
}

// Parse parses a search query such as `kind:number value:>1 NOT section:tyres`.
// Conditions without an explicit operator are joined with AND.
func (p *Parser) Parse(input string) (*Query, error) {
	query := &Query{Raw: input}

	tokens := p.tokenize(input)
	expectCondition := true
	for i := 0; i < len(tokens); i++ {
		token := tokens[i]

		switch strings.ToUpper(token) {
		case "AND", "OR":
			if len(query.Conditions) == 0 || expectCondition {
				return nil, fmt.Errorf("unexpected operator %s", token)
			}
			query.Logic = append(query.Logic, Operator(strings.ToUpper(token)))
			expectCondition = true
			continue
		}

		negate := false
		if strings.ToUpper(token) == "NOT" {
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("NOT operator requires a condition")
			}
			token = tokens[i]
			negate = true
		}

		cond, err := p.parseCondition(token)
		if err != nil {
			return nil, err
		}
		cond.Negate = negate

		if !expectCondition {
			query.Logic = append(query.Logic, OperatorAND)
		}
		query.Conditions = append(query.Conditions, cond)
		expectCondition = false
	}

	if expectCondition && len(query.Logic) > 0 {
		return nil, fmt.Errorf("query ends with an operator")
	}
	return query, nil
}

// tokenize splits on spaces outside double quotes
func (p *Parser) tokenize(input string) []string {
	var tokens []string
	var current strings.Builder
	inQuotes := false

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range input {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)
		case r == ' ' && !inQuotes:
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return tokens
}

func (p *Parser) parseCondition(token string) (Condition, error) {
	matches := p.fieldPattern.FindStringSubmatch(token)
	if len(matches) != 3 {
		return Condition{Field: FieldAny, Operator: OperatorContains, Value: p.unquote(token)}, nil
	}

	field := strings.ToLower(matches[1])
	value := p.unquote(matches[2])

	switch FieldType(field) {
	case FieldPath:
		return Condition{Field: FieldPath, Operator: OperatorContains, Value: value}, nil
	case FieldKind:
		return Condition{Field: FieldKind, Operator: OperatorEquals, Value: strings.ToLower(value)}, nil
	case FieldSection:
		return Condition{Field: FieldSection, Operator: OperatorEquals, Value: value}, nil
	case FieldValue:
		return p.parseValueCondition(value)
	}
	return Condition{}, fmt.Errorf("unknown field: %s", field)
}

// parseValueCondition handles value:text, value:=3, value:>1.5 and value:<0
func (p *Parser) parseValueCondition(value string) (Condition, error) {
	matches := p.comparePattern.FindStringSubmatch(value)
	if len(matches) != 3 {
		return Condition{Field: FieldValue, Operator: OperatorContains, Value: value}, nil
	}

	op := Operator(matches[1])
	if op == OperatorEquals {
		return Condition{Field: FieldValue, Operator: OperatorEquals, Value: matches[2]}, nil
	}

	n, err := strconv.ParseFloat(matches[2], 64)
	if err != nil {
		return Condition{}, fmt.Errorf("invalid number in value:%s", value)
	}
	return Condition{Field: FieldValue, Operator: op, Value: matches[2], Number: n}, nil
}

func (p *Parser) unquote(s string) string {
	if matches := p.quotedPattern.FindStringSubmatch(s); len(matches) == 2 {
		return matches[1]
	}
	return s
}
