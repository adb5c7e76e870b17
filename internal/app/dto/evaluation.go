package dto

import "time"

// EvaluationResult is the outcome of applying a mapping set to one input
// record. Per-field expression failures land in FieldErrors while the
// rest of the record still evaluates; the failed field is present in
// Record with a nil value.
type EvaluationResult struct {
	Record      map[string]interface{} `json:"record"`
	FieldErrors map[string]string      `json:"field_errors,omitempty"`
}

// OK reports whether every field evaluated cleanly.
func (r *EvaluationResult) OK() bool {
	return r != nil && len(r.FieldErrors) == 0
}

// RunState enumerates per-node execution states reported on the status
// channel.
type RunState string

const (
	RunStateRunning RunState = "running"
	RunStateSuccess RunState = "success"
	RunStateError   RunState = "error"
)

// RunStatus is one event on the per-node execution status feed. The
// batch evaluator emits one around each pass so a host executor can
// surface per-node run indicators.
type RunStatus struct {
	NodeID    string    `json:"node_id"`
	Status    RunState  `json:"status"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
