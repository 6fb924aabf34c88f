// Package snapshot periodically exports the full mirrored balance set to
// object storage.
//
// Snapshots exist for recovery and audit: if the mirror database is lost,
// the latest snapshot plus the source's redelivery window restores the view
// without replaying the full event history. Export is read-only with respect
// to balances and runs outside the reconciliation pipeline, so it never
// contends with event processing beyond ordinary store reads.
//
// Each export writes one JSON document named
//
//	<prefix>balances-<timestamp>-<id>.json
//
// containing the capture time and every account record. The exporter is
// disabled unless configured with an interval.
package snapshot
