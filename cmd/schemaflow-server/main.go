// Package main provides a minimal HTTP server exposing debug endpoints.
package main

import (
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof" // register /debug/pprof
	"os"
	"sort"
	"strings"
)

func main() {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintln(w, "schemaflow server is running. See /healthz, /debug/vars, /debug/pprof/")
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, "ok")
	})

	// Prometheus-compatible metrics endpoint (no external deps)
	mux.HandleFunc("/metrics", promMetricsHandler)

	// expvar and pprof register on the default mux
	mux.Handle("/debug/", http.DefaultServeMux)

	// Workload endpoints to generate metrics load
	mux.HandleFunc("/workload/propagate/start", wm.startPropagate)
	mux.HandleFunc("/workload/propagate/stop", wm.stopPropagate)
	mux.HandleFunc("/workload/evaluate/start", wm.startEvaluate)
	mux.HandleFunc("/workload/evaluate/stop", wm.stopEvaluate)

	addr := ":8080"
	if v := os.Getenv("SCHEMAFLOW_ADDR"); v != "" {
		addr = v
	}
	log.Printf("Starting schemaflow server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// promMetricsHandler renders known expvar metrics in Prometheus text format.
func promMetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	type meta struct {
		typ, help string
	}
	metas := map[string]meta{
		"schemaflow_propagations_total":        {typ: "counter", help: "Schema propagation passes executed"},
		"schemaflow_propagation_issues_total":  {typ: "counter", help: "Non-fatal propagation issues surfaced"},
		"schemaflow_nodes_resolved_total":      {typ: "counter", help: "Node schemas resolved"},
		"schemaflow_mappings_pruned_total":     {typ: "counter", help: "Stale mapping rules pruned"},
		"schemaflow_records_evaluated_total":   {typ: "counter", help: "Records evaluated against mapping sets"},
		"schemaflow_expression_errors_total":   {typ: "counter", help: "Per-field expression evaluation failures"},
		"schemaflow_store_notifications_total": {typ: "counter", help: "Store subscriber notifications delivered"},
	}

	// Collect variable names deterministically
	varNames := make([]string, 0, 64)
	expvar.Do(func(kv expvar.KeyValue) {
		varNames = append(varNames, kv.Key)
	})
	sort.Strings(varNames)

	for _, name := range varNames {
		v := expvar.Get(name)
		m, known := metas[name]
		if !known {
			// Minimal rendering: publish as an untyped gauge if numeric
			if iv, ok := v.(*expvar.Int); ok {
				_, _ = fmt.Fprintf(w, "# TYPE %s gauge\n", name)
				_, _ = fmt.Fprintf(w, "%s %s\n", name, iv.String())
			}
			continue
		}
		_, _ = fmt.Fprintf(w, "# HELP %s %s\n", name, sanitizeHelp(m.help))
		_, _ = fmt.Fprintf(w, "# TYPE %s %s\n", name, m.typ)
		_, _ = fmt.Fprintf(w, "%s %s\n", name, v.String())
	}
}

func sanitizeHelp(s string) string {
	// Replace newlines with spaces to satisfy Prometheus text format
	return strings.ReplaceAll(s, "\n", " ")
}
