package balance

import (
	"context"
	"errors"
	"math/big"
	"time"
)

// ErrNotFound is returned by Get when the account has no balance record.
var ErrNotFound = errors.New("balance: account not found")

// Record is the persisted balance row for a single account.
type Record struct {
	// AccountID is the lower-cased account address.
	AccountID string `gorm:"primaryKey;size:42;column:account_id" json:"account_id"`
	// Balance is the current balance as a decimal string in the smallest
	// currency unit. Never negative.
	Balance string `gorm:"not null;column:balance" json:"balance"`
	// UpdatedAt is the time of the last applied mutation.
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName sets the table name for GORM.
func (Record) TableName() string {
	return "balances"
}

// Store is the persistence contract used by the reconciliation engine.
type Store interface {
	// Get returns the current balance for an account, or ErrNotFound if
	// the account has no record.
	Get(ctx context.Context, accountID string) (*big.Int, error)

	// Upsert writes the new balance for an account, creating the record
	// if it does not exist.
	Upsert(ctx context.Context, accountID string, amount *big.Int) error

	// All returns every balance record, ordered by account ID.
	// Used by the snapshot exporter.
	All(ctx context.Context) ([]Record, error)

	// Count returns the number of mirrored accounts.
	Count(ctx context.Context) (int64, error)
}
