// Package schema defines domain-specific errors
package schema

import "errors"

var (
	ErrEmptyFieldName   = errors.New("field name cannot be empty")
	ErrInvalidFieldType = errors.New("invalid field type")
	ErrDuplicateField   = errors.New("duplicate field name")
)
