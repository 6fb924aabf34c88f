package event

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const addr = "0x1234567890abcdef1234567890abcdef12345678"

func TestNormalize_Valid(t *testing.T) {
	tests := []struct {
		name string
		raw  Raw
		kind Kind
	}{
		{
			name: "Deposit",
			raw:  Raw{Kind: "Deposit", Account: addr, Amount: "100", EventID: "evt-1"},
			kind: KindDeposit,
		},
		{
			name: "Withdrawal",
			raw:  Raw{Kind: "WithdrawalProcessed", Account: addr, Amount: "42"},
			kind: KindWithdrawal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt, err := Normalize(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, evt.Kind)
			assert.Equal(t, addr, evt.Account)
			assert.Equal(t, tt.raw.Amount, evt.Amount.String())
			assert.Equal(t, tt.raw.EventID, evt.ID)
		})
	}
}

func TestNormalize_CaseNormalizesAddress(t *testing.T) {
	raw := Raw{
		Kind:    "Deposit",
		Account: "0x1234567890ABCDEF1234567890ABCDEF12345678",
		Amount:  "1",
	}

	evt, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, addr, evt.Account)
}

func TestNormalize_LargeAmount(t *testing.T) {
	// Amounts beyond 64 bits must survive normalization intact.
	raw := Raw{Kind: "Deposit", Account: addr, Amount: "340282366920938463463374607431768211455"}

	evt, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, raw.Amount, evt.Amount.String())
}

func TestNormalize_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		raw    Raw
		reason Reason
	}{
		{
			name:   "Unknown kind",
			raw:    Raw{Kind: "Transfer", Account: addr, Amount: "1"},
			reason: ReasonUnknownKind,
		},
		{
			name:   "Empty kind",
			raw:    Raw{Kind: "", Account: addr, Amount: "1"},
			reason: ReasonUnknownKind,
		},
		{
			name:   "Missing 0x prefix",
			raw:    Raw{Kind: "Deposit", Account: "1234567890abcdef1234567890abcdef12345678", Amount: "1"},
			reason: ReasonMalformedAddress,
		},
		{
			name:   "Too short",
			raw:    Raw{Kind: "Deposit", Account: "0xabc", Amount: "1"},
			reason: ReasonMalformedAddress,
		},
		{
			name:   "Non-hex characters",
			raw:    Raw{Kind: "Deposit", Account: "0xzz34567890abcdef1234567890abcdef12345678", Amount: "1"},
			reason: ReasonMalformedAddress,
		},
		{
			name:   "Empty amount",
			raw:    Raw{Kind: "Deposit", Account: addr, Amount: ""},
			reason: ReasonMalformedAmount,
		},
		{
			name:   "Zero amount",
			raw:    Raw{Kind: "Deposit", Account: addr, Amount: "0"},
			reason: ReasonMalformedAmount,
		},
		{
			name:   "Negative amount",
			raw:    Raw{Kind: "WithdrawalProcessed", Account: addr, Amount: "-5"},
			reason: ReasonMalformedAmount,
		},
		{
			name:   "Explicit plus sign",
			raw:    Raw{Kind: "Deposit", Account: addr, Amount: "+5"},
			reason: ReasonMalformedAmount,
		},
		{
			name:   "Non-numeric amount",
			raw:    Raw{Kind: "Deposit", Account: addr, Amount: "1.5e18"},
			reason: ReasonMalformedAmount,
		},
		{
			name:   "Hex amount",
			raw:    Raw{Kind: "Deposit", Account: addr, Amount: "0xff"},
			reason: ReasonMalformedAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.raw)
			require.Error(t, err)

			var nerr *NormalizeError
			require.True(t, errors.As(err, &nerr))
			assert.Equal(t, tt.reason, nerr.Reason)
		})
	}
}
