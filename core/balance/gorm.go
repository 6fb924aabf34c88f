package balance

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is the GORM-backed implementation of Store.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by the given database connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Get returns the current balance for an account, or ErrNotFound.
func (s *GormStore) Get(ctx context.Context, accountID string) (*big.Int, error) {
	var rec Record
	err := s.db.WithContext(ctx).First(&rec, "account_id = ?", accountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get balance for %s: %w", accountID, err)
	}

	n, ok := new(big.Int).SetString(rec.Balance, 10)
	if !ok {
		// A non-decimal value in the column means the row was written by
		// something other than this service.
		return nil, fmt.Errorf("get balance for %s: corrupt stored value %q", accountID, rec.Balance)
	}
	return n, nil
}

// Upsert writes the new balance for an account, creating the record if needed.
func (s *GormStore) Upsert(ctx context.Context, accountID string, amount *big.Int) error {
	if amount.Sign() < 0 {
		return fmt.Errorf("upsert balance for %s: negative amount %s", accountID, amount)
	}

	rec := Record{
		AccountID: accountID,
		Balance:   amount.String(),
		UpdatedAt: time.Now().UTC(),
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"balance", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("upsert balance for %s: %w", accountID, err)
	}
	return nil
}

// All returns every balance record, ordered by account ID.
func (s *GormStore) All(ctx context.Context) ([]Record, error) {
	var recs []Record
	if err := s.db.WithContext(ctx).Order("account_id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	return recs, nil
}

// Count returns the number of mirrored accounts.
func (s *GormStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Record{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count balances: %w", err)
	}
	return n, nil
}
