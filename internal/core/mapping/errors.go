// Package mapping defines domain-specific errors
package mapping

import "errors"

var (
	ErrUnknownRuleKind  = errors.New("unknown mapping rule kind")
	ErrMissingSource    = errors.New("mapping rule missing source field")
	ErrMissingSplitOn   = errors.New("split rule missing split_on delimiter")
	ErrConcatenateArity = errors.New("concatenate rule requires exactly two sources")
	ErrMalformedSet     = errors.New("malformed mapping set")
)
