// Package main provides the schemaflow CLI: load a persisted flow,
// propagate schemas, and evaluate mapping sets against records.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/schemaflow/schemaflow/internal/ctxlog"
)

// Version information set during build
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

const usage = `schemaflow - schema propagation & attribute mapping engine

Usage:
  schemaflow propagate <flow.json>
  schemaflow eval <flow.json> <node-id> <records.json>
  schemaflow version

Environment:
  SCHEMAFLOW_LOG_LEVEL  debug|info|warn|error (default info)
  SCHEMAFLOW_WORKERS    worker count for eval batches (default NumCPU)
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Best-effort .env load; absence is not an error.
	_ = godotenv.Load()

	logger := newLogger(os.Getenv("SCHEMAFLOW_LOG_LEVEL"))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	switch args[0] {
	case "version":
		fmt.Printf("schemaflow %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
		return 0
	case "propagate":
		if len(args) != 2 {
			fmt.Fprint(os.Stderr, usage)
			return 2
		}
		if err := runPropagate(ctx, args[1], os.Stdout); err != nil {
			logger.Error("propagate failed", "error", err)
			return 1
		}
		return 0
	case "eval":
		if len(args) != 4 {
			fmt.Fprint(os.Stderr, usage)
			return 2
		}
		if err := runEval(ctx, args[1], args[2], args[3], os.Stdout); err != nil {
			logger.Error("eval failed", "error", err)
			return 1
		}
		return 0
	default:
		fmt.Fprint(os.Stderr, usage)
		return 2
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
