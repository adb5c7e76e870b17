// Package expr implements the restricted expression grammar used by
// expression mapping rules. Expressions are HCL expression syntax
// evaluated over cty values: field references (row.<name>,
// source<N>.<name>), literals, arithmetic/comparison/logical operators,
// string templates, conditionals, and index access. Function calls are
// rejected at parse time, the eval context exposes no functions, and
// evaluation cannot touch the process, so a hostile expression degrades
// to a per-field error instead of a fault.
package expr

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// record roots recognized as input-field references.
var rootPattern = regexp.MustCompile(`^(row|source[0-9]+)$`)

// Expression is a parsed, analyzable mapping expression.
type Expression struct {
	src  string
	expr hclsyntax.Expression
}

// Parse parses src and rejects constructs outside the supported grammar.
func Parse(src string) (*Expression, error) {
	if src == "" {
		return nil, ErrEmptyExpression
	}
	parsed, diags := hclsyntax.ParseExpression([]byte(src), "mapping.expr", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, &ParseError{Expr: src, Detail: diags.Error()}
	}
	if calls := calledFunctions(parsed); len(calls) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrFunctionsNotAllowed, calls)
	}
	return &Expression{src: src, expr: parsed}, nil
}

// String returns the original expression text.
func (e *Expression) String() string {
	return e.src
}

// Fields returns the input-field names referenced by the expression:
// the attribute following a row.<name> or source<N>.<name> traversal.
// Results are unique and sorted.
func (e *Expression) Fields() []string {
	seen := make(map[string]struct{})
	for _, traversal := range e.expr.Variables() {
		root, ok := traversal[0].(hcl.TraverseRoot)
		if !ok || !rootPattern.MatchString(root.Name) {
			continue
		}
		if len(traversal) < 2 {
			continue
		}
		if attr, ok := traversal[1].(hcl.TraverseAttr); ok {
			seen[attr.Name] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Evaluate runs the expression against a read-only view of the input
// record. Every referenced root (row, source1, ...) resolves to the same
// record object. The input record is never mutated.
func (e *Expression) Evaluate(record map[string]interface{}) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &EvalError{Expr: e.src, Detail: fmt.Sprintf("panic during evaluation: %v", r)}
		}
	}()

	obj, err := recordToCty(record)
	if err != nil {
		return nil, &EvalError{Expr: e.src, Detail: err.Error()}
	}

	vars := make(map[string]cty.Value)
	for _, traversal := range e.expr.Variables() {
		if root, ok := traversal[0].(hcl.TraverseRoot); ok && rootPattern.MatchString(root.Name) {
			vars[root.Name] = obj
		}
	}

	val, diags := e.expr.Value(&hcl.EvalContext{Variables: vars})
	if diags.HasErrors() {
		return nil, &EvalError{Expr: e.src, Detail: diags.Error()}
	}
	native, err := ctyToNative(val)
	if err != nil {
		return nil, &EvalError{Expr: e.src, Detail: err.Error()}
	}
	return native, nil
}

// calledFunctions walks the syntax tree collecting function call names.
func calledFunctions(root hclsyntax.Expression) []string {
	w := &callWalker{}
	// Walk only returns diagnostics produced by the walker, which ours never emits.
	_ = hclsyntax.Walk(root, w)
	return w.names
}

type callWalker struct {
	names []string
}

func (w *callWalker) Enter(node hclsyntax.Node) hcl.Diagnostics {
	if call, ok := node.(*hclsyntax.FunctionCallExpr); ok {
		w.names = append(w.names, call.Name)
	}
	return nil
}

func (w *callWalker) Exit(node hclsyntax.Node) hcl.Diagnostics {
	return nil
}
