// Package engine implements the event-driven balance reconciliation core.
//
// The engine receives normalized events (deposits, withdrawals) and applies
// each one to exactly one account's balance as an atomic transition, under
// two invariants:
//
//   - a balance is never negative
//   - no two events for the same account are mid-update concurrently
//
// # Architecture
//
// Events enter through Submit, which hashes the account to one of N shard
// queues. Each shard is drained by a single worker goroutine, so all events
// for a given account are processed by one worker in delivery order. This
// gives per-account exclusivity and order preservation without locks around
// the store's read-modify-write cycle.
//
// Processing a single event yields a typed Outcome:
//
//   - Applied: the transition was written; NewBalance carries the result.
//   - Rejected: a business rule refused the event (insufficient balance,
//     withdrawal against an unknown account). No write happened.
//   - Deferred: the store was unavailable after bounded retries. The event
//     is re-queued after a delay rather than dropped.
//
// The processing function itself performs no logging; outcomes are logged
// once, at the worker boundary.
//
// # Duplicate Delivery
//
// The event source offers at-least-once delivery. Each worker keeps a
// bounded set of recently applied event IDs per account; redelivery of a
// known ID is a no-op reported as Applied with the current balance.
//
// # Usage
//
//	eng := engine.New(cfg, store, log)
//	eng.Start()
//	_ = eng.Submit(ctx, evt)
//	_ = eng.Close(30 * time.Second)
package engine
