// Package flow defines domain-specific errors
package flow

import "errors"

// Domain errors - DRY principle: defined once, used everywhere
var (
	// Flow errors
	ErrInvalidFlowName = errors.New("invalid flow name")
	ErrFlowNotFound    = errors.New("flow not found")

	// Node errors
	ErrNilNode         = errors.New("node cannot be nil")
	ErrInvalidNodeID   = errors.New("invalid node ID")
	ErrInvalidNodeName = errors.New("invalid node name")
	ErrInvalidNodeKind = errors.New("invalid node kind")
	ErrNodeNotFound    = errors.New("node not found")
	ErrDuplicateNode   = errors.New("duplicate node ID")

	// Edge errors
	ErrInvalidSource      = errors.New("invalid source node")
	ErrInvalidTarget      = errors.New("invalid target node")
	ErrSourceNodeNotFound = errors.New("source node not found")
	ErrTargetNodeNotFound = errors.New("target node not found")
	ErrEdgeNotFound       = errors.New("edge not found")
	ErrSelfLoop           = errors.New("self-loops are not allowed")
)
