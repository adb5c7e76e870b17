package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strconv"

	"github.com/schemaflow/schemaflow/internal/ctxlog"
	"github.com/schemaflow/schemaflow/pkg/schemaflow"
)

// runPropagate loads a flow document, runs one propagation pass, and
// prints every node's input/output schema plus any issues.
func runPropagate(ctx context.Context, path string, out io.Writer) error {
	logger := ctxlog.FromContext(ctx)

	f, err := loadFlow(path)
	if err != nil {
		return err
	}
	logger.Info("flow loaded", "flow", f.Name, "nodes", len(f.Nodes), "edges", len(f.Edges))

	eng := schemaflow.NewEngine(f)
	result := eng.Result()

	ids := make([]string, 0, len(result.Schemas))
	for id := range result.Schemas {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		ns := result.Schemas[id]
		fmt.Fprintf(out, "node %s (%s)\n", id, f.Nodes[id].Kind)
		fmt.Fprintf(out, "  input:  %s\n", formatSchema(ns.Input))
		fmt.Fprintf(out, "  output: %s\n", formatSchema(ns.Output))
	}
	for _, issue := range result.Issues {
		fmt.Fprintf(out, "issue: %s\n", issue)
	}
	return nil
}

// runEval loads a flow and a record file, then evaluates the node's
// mapping set over every record.
func runEval(ctx context.Context, flowPath, nodeID, recordsPath string, out io.Writer) error {
	logger := ctxlog.FromContext(ctx)

	f, err := loadFlow(flowPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(recordsPath)
	if err != nil {
		return fmt.Errorf("reading records: %w", err)
	}
	var records []map[string]interface{}
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("malformed records file: %w", err)
	}

	eng := schemaflow.NewEngine(f)
	results, err := eng.EvaluateBatchStatus(ctx, nodeID, records, envWorkers(), func(st schemaflow.RunStatus) {
		logger.Info("run status", "node", st.NodeID, "status", st.Status, "message", st.Message)
	})
	if err != nil {
		return err
	}
	logger.Info("batch evaluated", "node", nodeID, "records", len(records))

	encoder := json.NewEncoder(out)
	for _, r := range results {
		if err := encoder.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

func loadFlow(path string) (*schemaflow.Flow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading flow: %w", err)
	}
	return schemaflow.ParseFlow(data)
}

func formatSchema(s schemaflow.Schema) string {
	if len(s) == 0 {
		return "(empty)"
	}
	out := ""
	for i, field := range s {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s:%s", field.Name, field.Type)
	}
	return out
}

func envWorkers() int {
	if v := os.Getenv("SCHEMAFLOW_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return runtime.NumCPU()
}
