// Package expr defines expression-specific errors
package expr

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyExpression     = errors.New("empty expression")
	ErrFunctionsNotAllowed = errors.New("function calls are not allowed in mapping expressions")
)

// ParseError reports a malformed expression.
type ParseError struct {
	Expr   string
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid expression %q: %s", e.Expr, e.Detail)
}

// EvalError reports a per-record evaluation failure. It is non-fatal: the
// evaluator records it against the target field and keeps going.
type EvalError struct {
	Expr   string
	Detail string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("expression %q failed: %s", e.Expr, e.Detail)
}
