package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/schemaflow/schemaflow/internal/app/services"
	"github.com/schemaflow/schemaflow/internal/app/usecases"
	"github.com/schemaflow/schemaflow/internal/core/flow"
	"github.com/schemaflow/schemaflow/internal/core/mapping"
)

// workloadManager drives synthetic propagation and evaluation loops so the
// metrics endpoints have live data to report.
type workloadManager struct {
	mu            sync.Mutex
	propagateStop context.CancelFunc
	evaluateStop  context.CancelFunc
}

var wm = &workloadManager{}

func (m *workloadManager) startPropagate(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.propagateStop != nil {
		http.Error(w, "propagate workload already running", http.StatusConflict)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.propagateStop = cancel
	go propagateLoop(ctx)
	_, _ = fmt.Fprintln(w, "propagate workload started")
}

func (m *workloadManager) stopPropagate(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.propagateStop == nil {
		http.Error(w, "propagate workload not running", http.StatusConflict)
		return
	}
	m.propagateStop()
	m.propagateStop = nil
	_, _ = fmt.Fprintln(w, "propagate workload stopped")
}

func (m *workloadManager) startEvaluate(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.evaluateStop != nil {
		http.Error(w, "evaluate workload already running", http.StatusConflict)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.evaluateStop = cancel
	go evaluateLoop(ctx)
	_, _ = fmt.Fprintln(w, "evaluate workload started")
}

func (m *workloadManager) stopEvaluate(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.evaluateStop == nil {
		http.Error(w, "evaluate workload not running", http.StatusConflict)
		return
	}
	m.evaluateStop()
	m.evaluateStop = nil
	_, _ = fmt.Fprintln(w, "evaluate workload stopped")
}

// propagateLoop repeatedly reconfigures a demo flow so every tick triggers a
// full schema recomputation in the store.
func propagateLoop(ctx context.Context) {
	store := services.NewFlowStore(nil, nil)
	src := &flow.Node{ID: "src", Kind: flow.KindFile, Name: "source", Config: map[string]interface{}{
		"detected_schema": []interface{}{
			map[string]interface{}{"name": "email", "type": "string"},
			map[string]interface{}{"name": "age", "type": "number"},
		},
	}}
	dst := &flow.Node{ID: "dst", Kind: flow.KindStorage, Name: "sink"}
	store.AddNode(src)
	store.AddNode(dst)
	store.AddEdge(&flow.Edge{ID: "e1", Source: "src", Target: "dst"})

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	i := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			i++
			store.ConfigureNode("src", map[string]interface{}{
				"detected_schema": []interface{}{
					map[string]interface{}{"name": "email", "type": "string"},
					map[string]interface{}{"name": fmt.Sprintf("col_%d", i%5), "type": "number"},
				},
			})
		}
	}
}

// evaluateLoop runs a mapping set over a synthetic batch on every tick.
func evaluateLoop(ctx context.Context) {
	set := mapping.Set{
		"contact": mapping.Direct("email"),
		"origin":  mapping.Constant("workload"),
		"label":   mapping.Concatenate("email", "age", " / "),
	}

	records := make([]map[string]interface{}, 0, 64)
	for i := 0; i < 64; i++ {
		records = append(records, map[string]interface{}{
			"email": fmt.Sprintf("user%d@example.com", i),
			"age":   float64(20 + i%40),
		})
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			usecases.EvaluateBatch(ctx, set, records, 4)
		}
	}
}
