package engine

import "math/big"

// Status is the terminal state of processing one event.
type Status int

const (
	// StatusApplied means the transition was written (or the event was a
	// recognized duplicate and nothing needed to change).
	StatusApplied Status = iota
	// StatusRejected means a business rule refused the event; no write.
	StatusRejected
	// StatusDeferred means the store was unavailable after retries; the
	// event will be re-queued.
	StatusDeferred
)

// String returns the status name for logging.
func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusRejected:
		return "rejected"
	case StatusDeferred:
		return "deferred"
	default:
		return "unknown"
	}
}

// Reason qualifies a non-trivial outcome.
type Reason string

const (
	// ReasonNone is set on plain applies.
	ReasonNone Reason = ""
	// ReasonDuplicate marks a redelivered event ID that was already applied.
	ReasonDuplicate Reason = "duplicate"
	// ReasonInsufficientBalance marks a withdrawal larger than the balance.
	ReasonInsufficientBalance Reason = "insufficient_balance"
	// ReasonAccountNotFound marks a withdrawal against an unseen account.
	ReasonAccountNotFound Reason = "account_not_found"
	// ReasonStoreUnavailable marks retry exhaustion against the store.
	ReasonStoreUnavailable Reason = "store_unavailable"
	// ReasonUnknownKind marks an event kind the engine cannot dispatch.
	// The normalizer guarantees this never happens in the pipeline; it
	// covers direct callers handing in a hand-built event.
	ReasonUnknownKind Reason = "unknown_kind"
)

// Outcome is the typed result of processing one event. Never partial: either
// the new balance was written, or the stored state is untouched.
type Outcome struct {
	// Status is the terminal state.
	Status Status
	// Reason qualifies rejections, deferrals, and duplicate applies.
	Reason Reason
	// NewBalance is the balance after an apply. Nil unless Status is
	// StatusApplied (and may be nil on a duplicate apply when the current
	// balance could not be read back).
	NewBalance *big.Int
}

// applied builds an Applied outcome carrying the resulting balance.
func applied(b *big.Int) Outcome {
	return Outcome{Status: StatusApplied, NewBalance: b}
}

// rejected builds a Rejected outcome for a business-rule refusal.
func rejected(r Reason) Outcome {
	return Outcome{Status: StatusRejected, Reason: r}
}

// deferred builds a Deferred outcome for a transient store failure.
func deferred(r Reason) Outcome {
	return Outcome{Status: StatusDeferred, Reason: r}
}
