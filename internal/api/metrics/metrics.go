// Package metrics defines all custom Prometheus metrics for the task API.
// It is the single source of truth for metric names, labels, and help strings.
// Metrics register themselves with the default registry via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskapi"

// TasksCreatedTotal counts tasks created through the service layer.
var TasksCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created.",
	},
)

// TasksUpdatedTotal counts successful partial updates.
var TasksUpdatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_updated_total",
		Help:      "Total number of tasks updated.",
	},
)

// TasksDeletedTotal counts single-task deletions that removed a task.
var TasksDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_deleted_total",
		Help:      "Total number of tasks deleted.",
	},
)

// TasksClearedTotal counts clear-completed sweeps that removed at least one task.
var TasksClearedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_cleared_total",
		Help:      "Total number of clear-completed sweeps that removed tasks.",
	},
)

// IdempotentReplaysTotal counts creates answered from the idempotency guard
// instead of the store.
var IdempotentReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotent_replays_total",
		Help:      "Total number of task creates replayed via Idempotency-Key.",
	},
)

// StorageFaultsTotal counts operations that hit an unavailable backend.
// Label:
//   - op: the storage operation that faulted (e.g. "create_task")
var StorageFaultsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "storage_faults_total",
		Help:      "Total number of storage operations that failed because the backend was unavailable.",
	},
	[]string{"op"},
)
