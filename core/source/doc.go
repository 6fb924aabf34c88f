// Package source maintains the live subscription to the event source and
// feeds received events into the reconciliation pipeline.
//
// The event source publishes contract events as JSON documents on a Redis
// pub/sub channel named "<prefix>:<contract>". The manager subscribes to
// that channel, decodes and normalizes each payload, and submits the result
// to the engine. Malformed payloads are logged and dropped at this boundary;
// they never reach the engine.
//
// # Failure Model
//
// A failed or dropped subscription is re-established with exponential
// backoff and is never fatal once the process is up. Events missed during an
// outage are the source's redelivery responsibility. The only fatal check is
// the startup Ping, which confirms the source is reachable before the
// process commits to running.
//
// # Backpressure
//
// Submission into the engine blocks while the target shard queue is full,
// so a slow store slows intake instead of growing an unbounded buffer.
package source
