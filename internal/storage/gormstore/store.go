package gormstore

import (
	"context" // Request scoped context
	"errors"  // Error matching

	"auth_pay_service/internal/domain"  // Domain models
	"auth_pay_service/internal/storage" // Ledger store contract

	"github.com/shopspring/decimal" // Decimal amounts
	"gorm.io/gorm"                  // GORM ORM library
)

// Store is the relational Ledger Store backed by GORM
type Store struct {
	db *gorm.DB
}

// New wraps an open GORM connection. The connection must be opened with
// TranslateError enabled so unique violations surface as gorm.ErrDuplicatedKey.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithinTx runs fn inside db.Transaction, which commits on nil and rolls back otherwise
func (s *Store) WithinTx(ctx context.Context, fn func(tx storage.LedgerTx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ledgerTx{tx: tx})
	})
}

type ledgerTx struct {
	tx *gorm.DB
}

func (l *ledgerTx) FindUser(id uint) (*domain.User, error) {
	var user domain.User
	if err := l.tx.First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (l *ledgerTx) FindAccount(id uint) (*domain.Account, error) {
	var account domain.Account
	if err := l.tx.First(&account, id).Error; err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

func (l *ledgerTx) InsertTransaction(t *domain.Transaction) error {
	return translate(l.tx.Create(t).Error)
}

// IncrementAccountBalance adds amount in SQL so concurrent credits do not overwrite each other
func (l *ledgerTx) IncrementAccountBalance(id uint, amount decimal.Decimal) error {
	res := l.tx.Model(&domain.Account{}).Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// translate maps GORM errors onto the storage sentinels
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return storage.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return storage.ErrDuplicateKey
	default:
		return err
	}
}

var _ storage.LedgerStore = (*Store)(nil)
