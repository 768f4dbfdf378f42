package migrate

import "time"

// EventKind enumerates the progress notifications a Manager emits while it
// runs. Listeners switch on the kind; there is no per-kind callback type.
type EventKind int

const (
	// EventApplyStart fires before a migration's up procedure runs.
	EventApplyStart EventKind = iota
	// EventApplied fires after a migration committed (schema and history).
	EventApplied
	// EventRevertStart fires before a migration's down procedure runs.
	EventRevertStart
	// EventReverted fires after a revert committed.
	EventReverted
	// EventFailed fires after a procedure error, once the transaction has
	// been rolled back.
	EventFailed
	// EventMissingRecord fires when a history entry has no matching
	// migration in the supplied set during a revert. The loop continues.
	EventMissingRecord
)

// String names the event kind for logs.
func (k EventKind) String() string {
	switch k {
	case EventApplyStart:
		return "apply.start"
	case EventApplied:
		return "applied"
	case EventRevertStart:
		return "revert.start"
	case EventReverted:
		return "reverted"
	case EventFailed:
		return "failed"
	case EventMissingRecord:
		return "missing.record"
	default:
		return "unknown"
	}
}

// Event is one progress notification.
type Event struct {
	Kind        EventKind
	Version     int64
	Description string
	Direction   Direction
	Elapsed     time.Duration // set on applied, reverted and failed events
	Err         error         // set on failed events
}

// EventFunc receives every event of a Manager operation, in order, on the
// calling goroutine. Register one with WithEvents.
type EventFunc func(Event)
