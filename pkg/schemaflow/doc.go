// Package schemaflow is the public facade over the schema propagation
// and attribute mapping engine.
//
// The engine keeps a consistent schema flowing through an arbitrary,
// user-edited flow graph: every mutation re-runs a topological schema
// inference pass, stale field mappings are pruned against the fresh
// schemas, and at run time a pure evaluator turns mapping rules plus
// input records into output records without ever faulting the host.
//
// Construct an Engine around a flow, mutate it through the embedded
// store, and read propagated schemas or evaluate records:
//
//	eng := schemaflow.NewEngine(f)
//	eng.Store().AddEdge(&schemaflow.Edge{Source: "file-1", Target: "transform-1"})
//	out, err := eng.Evaluate("transform-1", record)
package schemaflow
