package event

import "math/big"

// Kind identifies the type of balance mutation an event represents.
type Kind string

const (
	// KindDeposit credits an account.
	KindDeposit Kind = "Deposit"
	// KindWithdrawal debits an account. The source tags these
	// "WithdrawalProcessed" because it only emits them after the on-chain
	// withdrawal has been executed.
	KindWithdrawal Kind = "WithdrawalProcessed"
)

// Raw is the inbound payload shape delivered by the event source.
// Amount is a base-10 unsigned integer string in the smallest currency unit.
type Raw struct {
	// Kind is the event kind tag.
	Kind string `json:"kind"`
	// Account is the address the event applies to, in any letter case.
	Account string `json:"account"`
	// Amount is the mutation amount as a decimal string.
	Amount string `json:"amount"`
	// EventID is the source-assigned unique identifier. Optional; events
	// without one cannot be de-duplicated on redelivery.
	EventID string `json:"eventId,omitempty"`
}

// Event is a normalized, validated balance mutation.
type Event struct {
	// Kind is the validated event kind.
	Kind Kind
	// Account is the lower-cased 0x-prefixed hex address.
	Account string
	// Amount is the mutation amount. Always > 0.
	Amount *big.Int
	// ID is the source-assigned event identifier, empty if the source
	// did not provide one.
	ID string
}
