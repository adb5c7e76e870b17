package usecases

import (
	"fmt"
	"strings"

	"github.com/schemaflow/schemaflow/internal/app/dto"
	"github.com/schemaflow/schemaflow/internal/core/expr"
	"github.com/schemaflow/schemaflow/internal/core/mapping"
)

// Evaluate turns one input record into an output record by applying
// every rule in the mapping set. It is stateless and side-effect-free so
// hosts may invoke it concurrently across records.
//
// Failure stays local to a field: an expression that cannot evaluate
// leaves its target field nil and records the error in FieldErrors while
// the rest of the record still evaluates. A direct copy of a missing
// source yields nil, matching a record that simply lacks the attribute.
func Evaluate(set mapping.Set, record map[string]interface{}) *dto.EvaluationResult {
	result := &dto.EvaluationResult{Record: make(map[string]interface{}, len(set))}
	for field, rule := range set {
		value, err := evaluateRule(rule, record)
		if err != nil {
			result.Record[field] = nil
			if result.FieldErrors == nil {
				result.FieldErrors = make(map[string]string)
			}
			result.FieldErrors[field] = err.Error()
			continue
		}
		result.Record[field] = value
	}
	return result
}

// evaluateRule computes one output value.
func evaluateRule(rule mapping.Rule, record map[string]interface{}) (interface{}, error) {
	switch rule.Kind {
	case mapping.KindDirect:
		if rule.IsMulti() {
			values := make([]interface{}, len(rule.Sources))
			for i, source := range rule.Sources {
				values[i] = record[source]
			}
			return values, nil
		}
		return record[rule.Source], nil

	case mapping.KindConstant:
		return rule.Value, nil

	case mapping.KindExpression:
		parsed, err := expr.Parse(rule.Expr)
		if err != nil {
			return nil, err
		}
		return parsed.Evaluate(record)

	case mapping.KindConcatenate:
		if len(rule.Sources) != 2 {
			return nil, mapping.ErrConcatenateArity
		}
		return stringify(record[rule.Sources[0]]) + rule.Separator + stringify(record[rule.Sources[1]]), nil

	case mapping.KindSplit:
		if rule.SplitOn == "" {
			return nil, mapping.ErrMissingSplitOn
		}
		parts := strings.Split(stringify(record[rule.Source]), rule.SplitOn)
		out := make([]interface{}, len(parts))
		for i, p := range parts {
			out[i] = p
		}
		return out, nil

	default:
		return nil, mapping.ErrUnknownRuleKind
	}
}

// stringify renders a record value the way string concatenation and
// splitting expect. Nil becomes the empty string rather than "<nil>".
func stringify(v interface{}) string {
	switch tv := v.(type) {
	case nil:
		return ""
	case string:
		return tv
	case float64:
		// Decoded JSON numbers: render integers without the trailing ".0".
		if tv == float64(int64(tv)) {
			return fmt.Sprintf("%d", int64(tv))
		}
		return fmt.Sprintf("%v", tv)
	default:
		return fmt.Sprintf("%v", tv)
	}
}
