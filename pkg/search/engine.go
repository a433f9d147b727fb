package search

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pluqqy/tpmedit/pkg/formmap"
)

// Item is one searchable form field
type Item struct {
	Field   formmap.Field
	Path    string
	Section string
	Kind    string
	Value   string
}

// Engine searches the fields of a form
type Engine struct {
	items  []Item
	parser *Parser
}

// NewEngine indexes every field of form with its current value
func NewEngine(form *formmap.Form) *Engine {
	e := &Engine{parser: NewParser()}
	for _, f := range form.Fields() {
		item := Item{
			Field: f,
			Path:  f.Path.String(),
			Kind:  f.Kind.String(),
			Value: form.DisplayValue(f.Path),
		}
		if len(f.Path) > 0 {
			item.Section = f.Path[0].KeyName()
		}
		e.items = append(e.items, item)
	}
	return e
}

// Len returns the number of indexed fields
func (e *Engine) Len() int {
	return len(e.items)
}

// Search returns the fields matching queryStr in document order. An empty
// query matches everything.
func (e *Engine) Search(queryStr string) ([]Item, error) {
	query, err := e.parser.Parse(queryStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse query: %w", err)
	}

	var matches []int
	if len(query.Conditions) == 0 {
		for i := range e.items {
			matches = append(matches, i)
		}
	} else {
		conditionMatches := make([][]int, len(query.Conditions))
		for i, cond := range query.Conditions {
			m := e.evaluateCondition(cond)
			if cond.Negate {
				m = e.invertMatches(m)
			}
			conditionMatches[i] = m
		}
		matches = combineMatches(conditionMatches, query.Logic)
	}

	sort.Ints(matches)
	results := make([]Item, 0, len(matches))
	for _, idx := range matches {
		results = append(results, e.items[idx])
	}
	return results, nil
}

func (e *Engine) evaluateCondition(cond Condition) []int {
	var matches []int
	for i, item := range e.items {
		if matchItem(item, cond) {
			matches = append(matches, i)
		}
	}
	return matches
}

func matchItem(item Item, cond Condition) bool {
	needle := strings.ToLower(cond.Value)

	switch cond.Field {
	case FieldPath:
		return strings.Contains(strings.ToLower(item.Path), needle)
	case FieldKind:
		return item.Kind == needle
	case FieldSection:
		return item.Section == cond.Value
	case FieldAny:
		return strings.Contains(strings.ToLower(item.Path), needle) ||
			strings.Contains(strings.ToLower(item.Value), needle)
	case FieldValue:
		switch cond.Operator {
		case OperatorEquals:
			return strings.EqualFold(item.Value, cond.Value) || numbersEqual(item.Value, cond.Value)
		case OperatorGreaterThan, OperatorLessThan:
			if item.Field.Kind != formmap.KindNumber {
				return false
			}
			v, err := strconv.ParseFloat(item.Value, 64)
			if err != nil {
				return false
			}
			if cond.Operator == OperatorGreaterThan {
				return v > cond.Number
			}
			return v < cond.Number
		default:
			return strings.Contains(strings.ToLower(item.Value), needle)
		}
	}
	return false
}

func numbersEqual(a, b string) bool {
	x, err := strconv.ParseFloat(a, 64)
	if err != nil {
		return false
	}
	y, err := strconv.ParseFloat(b, 64)
	return err == nil && x == y
}

// combineMatches folds match sets left to right with the query's operators
func combineMatches(conditionMatches [][]int, operators []Operator) []int {
	if len(conditionMatches) == 0 {
		return nil
	}

	result := conditionMatches[0]
	for i := 1; i < len(conditionMatches); i++ {
		op := OperatorAND
		if i-1 < len(operators) {
			op = operators[i-1]
		}
		switch op {
		case OperatorAND:
			result = intersectSlices(result, conditionMatches[i])
		case OperatorOR:
			result = unionSlices(result, conditionMatches[i])
		}
	}
	return result
}

func (e *Engine) invertMatches(matches []int) []int {
	matchSet := make(map[int]bool, len(matches))
	for _, m := range matches {
		matchSet[m] = true
	}

	var inverted []int
	for i := range e.items {
		if !matchSet[i] {
			inverted = append(inverted, i)
		}
	}
	return inverted
}

func intersectSlices(a, b []int) []int {
	set := make(map[int]bool, len(a))
	for _, v := range a {
		set[v] = true
	}
	var out []int
	for _, v := range b {
		if set[v] {
			out = append(out, v)
		}
	}
	return out
}

func unionSlices(a, b []int) []int {
	set := make(map[int]bool, len(a)+len(b))
	out := make([]int, 0, len(a)+len(b))
	for _, v := range append(append([]int{}, a...), b...) {
		if !set[v] {
			set[v] = true
			out = append(out, v)
		}
	}
	return out
}
