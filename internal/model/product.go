package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable catalog item keyed by its UPC barcode.
// StockLevel is nil for untracked items (unlimited); a tracked count is
// never driven below zero by the engine.
type Product struct {
	UPCCode     string          `gorm:"size:50;primaryKey"`
	Description string          `gorm:"size:100;not null"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	StockLevel  *int
	// Category is display grouping only — no effect on pricing or permissions.
	Category    string `gorm:"size:50;index"`
	LastAudited *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Tracked reports whether stock is actively counted for this product.
func (p *Product) Tracked() bool { return p.StockLevel != nil }
