package batch

import "github.com/devtool-substrate/orchestrator/observability"

const (
	// EventBatchStart fires once before any operation is dispatched.
	EventBatchStart observability.EventType = "batch.start"

	// EventOperationComplete fires after each operation resolves,
	// successfully or not.
	EventOperationComplete observability.EventType = "batch.operation.complete"

	// EventBatchComplete fires once after the batch has fully resolved,
	// whether by completion, fail-fast abort, or cancellation.
	EventBatchComplete observability.EventType = "batch.complete"
)
