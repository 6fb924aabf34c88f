package event

import (
	"fmt"
	"math/big"
	"strings"
)

// Reason classifies why a raw payload failed normalization.
type Reason string

const (
	// ReasonUnknownKind means the kind tag is not a recognized event kind.
	ReasonUnknownKind Reason = "unknown_kind"
	// ReasonMalformedAddress means the account is not a well-formed address.
	ReasonMalformedAddress Reason = "malformed_address"
	// ReasonMalformedAmount means the amount is not an unsigned integer > 0.
	ReasonMalformedAmount Reason = "malformed_amount"
)

// NormalizeError describes a raw payload that cannot enter the pipeline.
type NormalizeError struct {
	// Reason classifies the failure.
	Reason Reason
	// Field is the offending payload field.
	Field string
	// Value is the offending value, for logging.
	Value string
}

func (e *NormalizeError) Error() string {
	return fmt.Sprintf("normalize: %s (%s=%q)", e.Reason, e.Field, e.Value)
}

// addressLen is the length of a 0x-prefixed 20-byte hex address.
const addressLen = 42

// Normalize validates a raw payload and converts it into an Event.
// It is pure: no I/O, no logging, no mutation of the input.
func Normalize(raw Raw) (Event, error) {
	var kind Kind
	switch Kind(raw.Kind) {
	case KindDeposit:
		kind = KindDeposit
	case KindWithdrawal:
		kind = KindWithdrawal
	default:
		return Event{}, &NormalizeError{Reason: ReasonUnknownKind, Field: "kind", Value: raw.Kind}
	}

	account := strings.ToLower(strings.TrimSpace(raw.Account))
	if !validAddress(account) {
		return Event{}, &NormalizeError{Reason: ReasonMalformedAddress, Field: "account", Value: raw.Account}
	}

	amount, ok := parseAmount(raw.Amount)
	if !ok {
		return Event{}, &NormalizeError{Reason: ReasonMalformedAmount, Field: "amount", Value: raw.Amount}
	}

	return Event{
		Kind:    kind,
		Account: account,
		Amount:  amount,
		ID:      strings.TrimSpace(raw.EventID),
	}, nil
}

// validAddress reports whether s is a lower-cased 0x-prefixed hex address.
func validAddress(s string) bool {
	if len(s) != addressLen || !strings.HasPrefix(s, "0x") {
		return false
	}
	for _, c := range s[2:] {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// parseAmount parses a base-10 unsigned integer string strictly greater
// than zero. Signs, whitespace and non-decimal forms are rejected.
func parseAmount(s string) (*big.Int, bool) {
	if s == "" || s[0] == '+' || s[0] == '-' {
		return nil, false
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() <= 0 {
		return nil, false
	}
	return n, true
}
