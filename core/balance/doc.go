// Package balance provides the persistent store adapter for mirrored
// account balances.
//
// Balances are kept in a single `balances` table keyed by the lower-cased
// account address, with the amount stored as a decimal string so that
// arbitrary-precision token amounts survive round-trips unmodified.
//
// # Concurrency
//
// The adapter itself performs plain read and upsert operations. Read-modify-
// write safety is the reconciliation engine's responsibility: it serializes
// all operations for a given account, so the adapter never sees two
// concurrent writers for the same record.
//
// # Usage
//
//	store := balance.NewGormStore(db)
//	cur, err := store.Get(ctx, "0xabc...")
//	if errors.Is(err, balance.ErrNotFound) {
//	    // account has no record yet
//	}
package balance
