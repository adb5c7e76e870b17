package metrics

import (
	"expvar"
)

// Propagation counters.
var (
	propagationsTotal      = new(expvar.Int)
	propagationIssuesTotal = new(expvar.Int)
	nodesResolvedTotal     = new(expvar.Int)
)

// Mapping and evaluation counters.
var (
	mappingsPrunedTotal     = new(expvar.Int)
	recordsEvaluatedTotal   = new(expvar.Int)
	expressionErrorsTotal   = new(expvar.Int)
	storeNotificationsTotal = new(expvar.Int)
)

func init() {
	expvar.Publish("schemaflow_propagations_total", propagationsTotal)
	expvar.Publish("schemaflow_propagation_issues_total", propagationIssuesTotal)
	expvar.Publish("schemaflow_nodes_resolved_total", nodesResolvedTotal)
	expvar.Publish("schemaflow_mappings_pruned_total", mappingsPrunedTotal)
	expvar.Publish("schemaflow_records_evaluated_total", recordsEvaluatedTotal)
	expvar.Publish("schemaflow_expression_errors_total", expressionErrorsTotal)
	expvar.Publish("schemaflow_store_notifications_total", storeNotificationsTotal)
}

// Propagation helpers

func IncPropagations() { propagationsTotal.Add(1) }

func AddPropagationIssues(n int64) { propagationIssuesTotal.Add(n) }

func AddNodesResolved(n int64) { nodesResolvedTotal.Add(n) }

// Mapping and evaluation helpers

func AddMappingsPruned(n int64) { mappingsPrunedTotal.Add(n) }

func IncRecordsEvaluated() { recordsEvaluatedTotal.Add(1) }

func AddExpressionErrors(n int64) { expressionErrorsTotal.Add(n) }

func IncStoreNotifications() { storeNotificationsTotal.Add(1) }
