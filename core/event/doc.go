// Package event defines the internal event model and the normalizer that
// converts raw event-source payloads into it.
//
// The event source delivers contract events as JSON documents with a kind tag
// ("Deposit" or "WithdrawalProcessed"), an account address, and a decimal
// amount string. Normalize validates shape and numeric range and produces an
// Event, or a typed NormalizeError describing why the payload is unusable.
//
// Normalization is a pure transformation: it never touches the store or the
// transport, so malformed payloads can be dropped at the subscription boundary
// without any balance effect.
//
// # Address Normalization
//
// Account addresses are case-normalized to lower case so that distinct textual
// representations of the same address ("0xABC..." vs "0xabc...") map to a
// single balance record.
//
// # Usage
//
//	evt, err := event.Normalize(raw)
//	var nerr *event.NormalizeError
//	if errors.As(err, &nerr) {
//	    // log and drop; never reaches the engine
//	}
package event
