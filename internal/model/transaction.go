package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an immutable ledger line. Purchases record a positive
// amount (money deducted from the balance); manual payments record a
// negative amount and carry no product reference. Rows are only ever
// created, undone (latest row deleted) or bulk-purged — never updated.
//
// Both foreign keys are nullable: user_id survives user deletion history
// checks, upc_code is nil for payment rows.
type Transaction struct {
	ID              int64           `gorm:"primaryKey;autoIncrement"`
	UserID          *int64          `gorm:"index"`
	UPCCode         *string         `gorm:"size:50;index"`
	Amount          decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TransactionDate time.Time       `gorm:"not null;index"`

	User    *User    `gorm:"foreignKey:UserID"`
	Product *Product `gorm:"foreignKey:UPCCode;references:UPCCode"`
}

// IsPayment reports whether this row is a manual balance credit rather
// than a purchase. Payments are exactly the rows with no product.
func (t *Transaction) IsPayment() bool { return t.UPCCode == nil }
