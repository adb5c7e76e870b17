// Package mapping provides the attribute-mapping domain model: the
// closed set of rule variants describing how one output field is computed
// from an input record.
package mapping

import (
	"encoding/json"

	"github.com/schemaflow/schemaflow/internal/core/expr"
)

// RuleKind represents a mapping rule variant
type RuleKind string

const (
	// KindDirect copies one (or several) named input fields
	KindDirect RuleKind = "direct"
	// KindConstant emits a literal value untouched by the record
	KindConstant RuleKind = "constant"
	// KindExpression evaluates a restricted expression over the record
	KindExpression RuleKind = "expression"
	// KindConcatenate joins exactly two input fields with a separator
	KindConcatenate RuleKind = "concatenate"
	// KindSplit splits one input field into an array of parts
	KindSplit RuleKind = "split"
)

// IsValid reports whether k is one of the enumerated rule kinds.
func (k RuleKind) IsValid() bool {
	switch k {
	case KindDirect, KindConstant, KindExpression, KindConcatenate, KindSplit:
		return true
	}
	return false
}

// Rule is the tagged union over mapping variants. Exactly the fields
// relevant to Kind are populated; the JSON form carries only those.
type Rule struct {
	Kind      RuleKind `json:"type"`
	Source    string   `json:"source,omitempty"`
	Sources   []string `json:"sources,omitempty"`
	Value     string   `json:"value,omitempty"`
	Expr      string   `json:"expression,omitempty"`
	Separator string   `json:"separator,omitempty"`
	SplitOn   string   `json:"split_on,omitempty"`
}

// Direct builds a single-source direct copy rule.
func Direct(source string) Rule {
	return Rule{Kind: KindDirect, Source: source}
}

// DirectMulti builds a multi-source direct rule, used when the target
// field's type is array or object.
func DirectMulti(sources ...string) Rule {
	return Rule{Kind: KindDirect, Sources: sources}
}

// Constant builds a literal-value rule.
func Constant(value string) Rule {
	return Rule{Kind: KindConstant, Value: value}
}

// Expression builds an expression rule.
func Expression(src string) Rule {
	return Rule{Kind: KindExpression, Expr: src}
}

// Concatenate builds a two-source concatenation rule.
func Concatenate(a, b, separator string) Rule {
	return Rule{Kind: KindConcatenate, Sources: []string{a, b}, Separator: separator}
}

// Split builds a split rule producing an array of parts.
func Split(source, splitOn string) Rule {
	return Rule{Kind: KindSplit, Source: source, SplitOn: splitOn}
}

// IsMulti reports whether a direct rule addresses several sources.
func (r Rule) IsMulti() bool {
	return r.Kind == KindDirect && len(r.Sources) > 0
}

// Equal reports whether two rules are identical, including source order.
func (r Rule) Equal(other Rule) bool {
	if r.Kind != other.Kind || r.Source != other.Source || r.Value != other.Value ||
		r.Expr != other.Expr || r.Separator != other.Separator || r.SplitOn != other.SplitOn {
		return false
	}
	if len(r.Sources) != len(other.Sources) {
		return false
	}
	for i := range r.Sources {
		if r.Sources[i] != other.Sources[i] {
			return false
		}
	}
	return true
}

// Validate ensures structural integrity of the rule.
func (r Rule) Validate() error {
	switch r.Kind {
	case KindDirect:
		if r.Source == "" && len(r.Sources) == 0 {
			return ErrMissingSource
		}
	case KindConstant:
		// A constant may legitimately be the empty string.
	case KindExpression:
		if _, err := expr.Parse(r.Expr); err != nil {
			return err
		}
	case KindConcatenate:
		if len(r.Sources) != 2 || r.Sources[0] == "" || r.Sources[1] == "" {
			return ErrConcatenateArity
		}
	case KindSplit:
		if r.Source == "" {
			return ErrMissingSource
		}
		if r.SplitOn == "" {
			return ErrMissingSplitOn
		}
	default:
		return ErrUnknownRuleKind
	}
	return nil
}

// Fields returns the input-field names the rule depends on. Constants
// depend on nothing; malformed expressions report no dependencies and are
// caught by Validate instead.
func (r Rule) Fields() []string {
	switch r.Kind {
	case KindDirect:
		if r.IsMulti() {
			out := make([]string, len(r.Sources))
			copy(out, r.Sources)
			return out
		}
		return []string{r.Source}
	case KindConcatenate:
		out := make([]string, len(r.Sources))
		copy(out, r.Sources)
		return out
	case KindSplit:
		return []string{r.Source}
	case KindExpression:
		parsed, err := expr.Parse(r.Expr)
		if err != nil {
			return nil
		}
		return parsed.Fields()
	default:
		return nil
	}
}

// MarshalJSON keeps the wire form minimal per kind.
func (r Rule) MarshalJSON() ([]byte, error) {
	doc := map[string]interface{}{"type": string(r.Kind)}
	switch r.Kind {
	case KindDirect:
		if r.IsMulti() {
			doc["sources"] = r.Sources
		} else {
			doc["source"] = r.Source
		}
	case KindConstant:
		doc["value"] = r.Value
	case KindExpression:
		doc["expression"] = r.Expr
	case KindConcatenate:
		doc["sources"] = r.Sources
		if r.Separator != "" {
			doc["separator"] = r.Separator
		}
	case KindSplit:
		doc["source"] = r.Source
		doc["split_on"] = r.SplitOn
	}
	return json.Marshal(doc)
}
