package style

import (
	"strconv"
	"strings"

	"deckgen/content"
)

// Conditional rule operators.
const (
	OpEquals             = "equals"
	OpNotEquals          = "not_equals"
	OpContains           = "contains"
	OpNotContains        = "not_contains"
	OpGreaterThan        = "greater_than"
	OpLessThan           = "less_than"
	OpGreaterThanOrEqual = "greater_than_or_equal"
	OpLessThanOrEqual    = "less_than_or_equal"
)

// firstMatch evaluates rules in declaration order against the cell's literal
// value and returns the first matching rule, or nil. A later rule that also
// matches is never consulted.
func firstMatch(rules []content.Rule, value string) *content.Rule {
	for i := range rules {
		if ruleMatches(&rules[i].Condition, value) {
			return &rules[i]
		}
	}
	return nil
}

// ruleMatches evaluates one predicate. Numeric operators coerce the cell
// value to a number; a failed coercion makes the rule non-matching, it is
// not an error.
func ruleMatches(cond *content.RuleCondition, value string) bool {
	switch cond.Operator {
	case OpEquals:
		return value == cond.Value
	case OpNotEquals:
		return value != cond.Value
	case OpContains:
		return strings.Contains(value, cond.Value)
	case OpNotContains:
		return !strings.Contains(value, cond.Value)
	case OpGreaterThan, OpLessThan, OpGreaterThanOrEqual, OpLessThanOrEqual:
		left, ok := coerceNumber(value)
		if !ok {
			return false
		}
		right, ok := coerceNumber(cond.Value)
		if !ok {
			return false
		}
		switch cond.Operator {
		case OpGreaterThan:
			return left > right
		case OpLessThan:
			return left < right
		case OpGreaterThanOrEqual:
			return left >= right
		default:
			return left <= right
		}
	default:
		return false
	}
}

// coerceNumber parses a cell value as a number, tolerating the decorations
// common in report cells: surrounding space, thousands separators and a
// trailing percent sign.
func coerceNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
