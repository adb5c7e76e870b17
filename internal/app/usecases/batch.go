package usecases

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/schemaflow/schemaflow/internal/app/dto"
	"github.com/schemaflow/schemaflow/internal/core/mapping"
	imetrics "github.com/schemaflow/schemaflow/internal/infrastructure/metrics"
)

// StatusFunc receives run-state transitions emitted while a batch
// evaluates on a node's behalf.
type StatusFunc func(dto.RunStatus)

// EvaluateBatch shards a batch of records across a bounded worker pool
// and evaluates each independently. The evaluator itself is pure, so
// records may run in any order; results are returned in input order.
// Cancellation is checked between records: a canceled context stops
// dispatching and leaves the remaining results nil.
func EvaluateBatch(ctx context.Context, set mapping.Set, records []map[string]interface{}, workers int) []*dto.EvaluationResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers < 1 {
			workers = 1
		}
	}
	if workers > len(records) {
		workers = len(records)
	}

	results := make([]*dto.EvaluationResult, len(records))
	if len(records) == 0 {
		return results
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = Evaluate(set, records[i])
				imetrics.IncRecordsEvaluated()
				if len(results[i].FieldErrors) > 0 {
					imetrics.AddExpressionErrors(int64(len(results[i].FieldErrors)))
				}
			}
		}()
	}

dispatch:
	for i := range records {
		select {
		case <-ctx.Done():
			break dispatch
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()
	return results
}

// EvaluateBatchStatus runs EvaluateBatch for one node while reporting
// run-state transitions on notify: running when dispatch starts, then
// success, or error when the context was canceled or any record carried
// field errors.
func EvaluateBatchStatus(ctx context.Context, nodeID string, set mapping.Set, records []map[string]interface{}, workers int, notify StatusFunc) []*dto.EvaluationResult {
	if notify == nil {
		return EvaluateBatch(ctx, set, records, workers)
	}

	notify(dto.RunStatus{NodeID: nodeID, Status: dto.RunStateRunning, Timestamp: time.Now()})
	results := EvaluateBatch(ctx, set, records, workers)

	failed := 0
	for _, r := range results {
		if r != nil && len(r.FieldErrors) > 0 {
			failed++
		}
	}
	switch {
	case ctx.Err() != nil:
		notify(dto.RunStatus{
			NodeID:    nodeID,
			Status:    dto.RunStateError,
			Message:   "evaluation canceled",
			Timestamp: time.Now(),
		})
	case failed > 0:
		notify(dto.RunStatus{
			NodeID:    nodeID,
			Status:    dto.RunStateError,
			Message:   fmt.Sprintf("%d of %d records had field errors", failed, len(results)),
			Timestamp: time.Now(),
		})
	default:
		notify(dto.RunStatus{NodeID: nodeID, Status: dto.RunStateSuccess, Timestamp: time.Now()})
	}
	return results
}
