package domain

import "github.com/shopspring/decimal"

// Account Model
type Account struct {
	ID      uint            `gorm:"primaryKey" json:"id"`                               // Primary key
	UserID  uint            `gorm:"uniqueIndex;not null" json:"-"`                      // Owning user, one account per user
	Balance decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"total"` // Running balance, AmountScale places
}
