package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of decimal places kept by the amount and balance columns
const AmountScale = 4

// maxAmount is the first value that no longer fits decimal(20, AmountScale)
var maxAmount = decimal.New(1, 20-AmountScale)

// WebhookPayment is an inbound payment notification, consumed once
type WebhookPayment struct {
	TransactionID string  `json:"transaction_id" binding:"required,uuid"` // Idempotency key
	AccountID     uint    `json:"account_id" binding:"required"`          // Account to credit
	UserID        uint    `json:"user_id" binding:"required"`             // Paying user
	Amount        float64 `json:"amount" binding:"required,gt=0"`         // Amount as signed by the originator
	Signature     string  `json:"signature" binding:"required"`           // Hex SHA-256 claimed by the originator
}

// AmountFits reports whether Amount is stored exactly, without rounding or overflow,
// in a decimal(20, AmountScale) column
func (p WebhookPayment) AmountFits() bool {
	d := decimal.NewFromFloat(p.Amount)
	return d.Exponent() >= -AmountScale && d.LessThan(maxAmount)
}

// PaymentCompleted is published after a payment commits
type PaymentCompleted struct {
	TransactionID string    `json:"transaction_id"`
	AccountID     uint      `json:"account_id"`
	UserID        uint      `json:"user_id"`
	Amount        string    `json:"amount"`
	CompletedAt   time.Time `json:"completed_at"`
}
