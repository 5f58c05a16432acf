package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction Model
type Transaction struct {
	ID            uint            `gorm:"primaryKey" json:"id"`                               // Primary key
	TransactionID string          `gorm:"size:36;uniqueIndex;not null" json:"transaction_id"` // Idempotency key from the originator
	AccountID     uint            `gorm:"index;not null" json:"account_id"`                   // Credited account
	UserID        uint            `gorm:"index;not null" json:"-"`                            // Paying user, hidden from responses
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`          // Credited amount, AmountScale places
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`                   // Timestamp of creation
}
