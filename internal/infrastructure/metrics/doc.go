// Package metrics exposes expvar-published counters used by the schema
// propagation and mapping engine (propagation passes, pruned mappings,
// evaluated records). It intentionally avoids external dependencies and is
// consumed by the optional schemaflow-server for /debug/vars and /metrics
// endpoints.
package metrics
