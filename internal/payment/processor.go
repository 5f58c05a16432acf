package payment

import (
	"context" // Request scoped context
	"errors"  // Error matching
	"fmt"     // Error wrapping
	"time"    // Event timestamps

	"auth_pay_service/internal/domain"  // Domain models
	"auth_pay_service/internal/storage" // Ledger store contract

	"github.com/shopspring/decimal" // Decimal amounts
	"github.com/sirupsen/logrus"    // Logging library
)

// publishTimeout bounds event delivery after commit
const publishTimeout = 5 * time.Second

// Publisher receives an event for every committed payment
type Publisher interface {
	Publish(ctx context.Context, event domain.PaymentCompleted) error
}

// Processor applies signed payment webhooks to the ledger. It holds no
// mutable state and is safe for concurrent use.
type Processor struct {
	store     storage.LedgerStore // Ledger store
	signer    *Signer             // Webhook signature checker
	publisher Publisher           // Optional, nil disables events
}

// NewProcessor builds a Processor. publisher may be nil.
func NewProcessor(store storage.LedgerStore, signer *Signer, publisher Publisher) *Processor {
	return &Processor{store: store, signer: signer, publisher: publisher}
}

// ProcessPayment credits p.Amount to p.AccountID on behalf of caller and
// records the transaction under p.TransactionID. Checks run in order and the
// first failure is returned. The credit and the transaction row are written in
// one unit of work, so a duplicate token never leaves a credited balance.
// Callers validate the amount first: it must be positive and satisfy
// WebhookPayment.AmountFits.
func (p *Processor) ProcessPayment(ctx context.Context, payment domain.WebhookPayment, caller domain.Identity) (*domain.Transaction, error) {
	log := logrus.WithFields(logrus.Fields{
		"transaction_id": payment.TransactionID, // Idempotency key
		"account_id":     payment.AccountID,     // Target account
		"user_id":        payment.UserID,        // Signed user
		"caller_id":      caller.ID,             // Authenticated caller
	})

	if !p.signer.Verify(payment) {
		log.Warn("Payment rejected: invalid signature")
		return nil, ErrInvalidSignature
	}

	amount := decimal.NewFromFloat(payment.Amount)
	record := &domain.Transaction{
		TransactionID: payment.TransactionID,
		AccountID:     payment.AccountID,
		UserID:        payment.UserID,
		Amount:        amount,
	}

	err := p.store.WithinTx(ctx, func(tx storage.LedgerTx) error {
		user, err := tx.FindUser(payment.UserID)
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		} else if err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		if caller.ID != user.ID {
			return ErrIdentityMismatch
		}
		account, err := tx.FindAccount(payment.AccountID)
		if errors.Is(err, storage.ErrNotFound) {
			return ErrAccountNotFound
		} else if err != nil {
			return fmt.Errorf("find account: %w", err)
		}
		if account.UserID != caller.ID {
			return ErrAccountOwnershipMismatch
		}
		// Insert first: a duplicate token aborts before any credit is staged
		if err := tx.InsertTransaction(record); errors.Is(err, storage.ErrDuplicateKey) {
			return ErrDuplicateTransaction
		} else if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		if err := tx.IncrementAccountBalance(account.ID, amount); err != nil {
			return fmt.Errorf("increment balance: %w", err)
		}
		return nil
	})
	if err != nil {
		if IsRejection(err) {
			log.WithField("reason", err.Error()).Warn("Payment rejected")
		} else {
			log.WithField("error", err.Error()).Error("Payment failed")
		}
		return nil, err
	}

	log.WithField("amount", amount.String()).Info("Payment committed")
	p.publish(ctx, record)
	return record, nil
}

// publish reports a committed payment. The payment stands even if this fails,
// and a caller that goes away after commit does not cancel delivery.
func (p *Processor) publish(ctx context.Context, record *domain.Transaction) {
	if p.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	event := domain.PaymentCompleted{
		TransactionID: record.TransactionID,
		AccountID:     record.AccountID,
		UserID:        record.UserID,
		Amount:        record.Amount.String(),
		CompletedAt:   time.Now().UTC(),
	}
	if err := p.publisher.Publish(ctx, event); err != nil {
		logrus.WithFields(logrus.Fields{
			"transaction_id": record.TransactionID, // Idempotency key
			"error":          err.Error(),          // Error message
		}).Error("Failed to publish payment event")
	}
}
