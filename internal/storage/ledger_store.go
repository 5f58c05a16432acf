// Package storage defines the Ledger Store used by payment processing.
package storage

import (
	"context"
	"errors"

	"auth_pay_service/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a row looked up by primary key does not exist.
	ErrNotFound = errors.New("storage: record not found")
	// ErrDuplicateKey is returned when an insert violates a unique constraint.
	ErrDuplicateKey = errors.New("storage: duplicate key")
)

// LedgerStore opens units of work against users, accounts and transactions.
type LedgerStore interface {
	// WithinTx runs fn in one transaction. It commits when fn returns nil and
	// rolls back on error or panic.
	WithinTx(ctx context.Context, fn func(tx LedgerTx) error) error
}

// LedgerTx is the set of operations available inside a unit of work.
type LedgerTx interface {
	FindUser(id uint) (*domain.User, error)
	FindAccount(id uint) (*domain.Account, error)
	InsertTransaction(t *domain.Transaction) error
	IncrementAccountBalance(id uint, amount decimal.Decimal) error
}
