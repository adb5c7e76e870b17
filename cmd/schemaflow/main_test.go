package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFlowDoc = `{
  "id": "f1",
  "name": "customer import",
  "nodes": [
    {
      "id": "src",
      "kind": "file",
      "name": "CSV upload",
      "config": {
        "detected_schema": [
          {"name": "email", "type": "string"},
          {"name": "first", "type": "string"},
          {"name": "last", "type": "string"}
        ]
      }
    },
    {
      "id": "sink",
      "kind": "storage",
      "name": "Warehouse",
      "config": {
        "storage_mappings": {
          "contact": {"type": "direct", "source": "email"},
          "name": {"type": "concatenate", "sources": ["first", "last"], "separator": " "}
        }
      }
    }
  ],
  "edges": [
    {"id": "e1", "source": "src", "target": "sink"}
  ]
}`

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_Version(t *testing.T) {
	assert.Equal(t, 0, run([]string{"version"}))
}

func TestRun_Usage(t *testing.T) {
	assert.Equal(t, 2, run(nil))
	assert.Equal(t, 2, run([]string{"bogus"}))
	assert.Equal(t, 2, run([]string{"propagate"}))
	assert.Equal(t, 2, run([]string{"eval", "only-two", "args"}))
}

func TestRunPropagate(t *testing.T) {
	path := writeTempFile(t, "flow.json", testFlowDoc)

	var out bytes.Buffer
	require.NoError(t, runPropagate(context.Background(), path, &out))

	text := out.String()
	assert.Contains(t, text, "node src (file)")
	assert.Contains(t, text, "node sink (storage)")
	assert.Contains(t, text, "email:string")
	assert.Contains(t, text, "output: (empty)")
}

func TestRunPropagate_MissingFile(t *testing.T) {
	err := runPropagate(context.Background(), filepath.Join(t.TempDir(), "nope.json"), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRunPropagate_InvalidDocument(t *testing.T) {
	path := writeTempFile(t, "flow.json", `{"id":"f1"}`)
	err := runPropagate(context.Background(), path, &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid flow document")
}

func TestRunEval(t *testing.T) {
	flowPath := writeTempFile(t, "flow.json", testFlowDoc)
	recordsPath := writeTempFile(t, "records.json", `[
		{"email": "ada@example.com", "first": "Ada", "last": "Lovelace"},
		{"email": "alan@example.com", "first": "Alan", "last": "Turing"}
	]`)

	var out bytes.Buffer
	require.NoError(t, runEval(context.Background(), flowPath, "sink", recordsPath, &out))

	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var first struct {
		Record map[string]interface{} `json:"record"`
	}
	require.NoError(t, json.Unmarshal(lines[0], &first))
	assert.Equal(t, "ada@example.com", first.Record["contact"])
	assert.Equal(t, "Ada Lovelace", first.Record["name"])
}

func TestRunEval_MalformedRecords(t *testing.T) {
	flowPath := writeTempFile(t, "flow.json", testFlowDoc)
	recordsPath := writeTempFile(t, "records.json", `{"not": "an array"}`)

	err := runEval(context.Background(), flowPath, "sink", recordsPath, &bytes.Buffer{})
	assert.ErrorContains(t, err, "malformed records")
}

func TestEnvWorkers(t *testing.T) {
	t.Setenv("SCHEMAFLOW_WORKERS", "3")
	assert.Equal(t, 3, envWorkers())

	t.Setenv("SCHEMAFLOW_WORKERS", "not-a-number")
	assert.Greater(t, envWorkers(), 0, "invalid values fall back to a sane default")
}
