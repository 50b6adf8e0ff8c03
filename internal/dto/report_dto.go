package dto

import "github.com/shopspring/decimal"

// MonthlySummaryRow is one user's activity inside a reporting window.
// NetSpend is the plain signed sum of amounts: purchases (positive) net
// against payments (negative). Received and Spent split the same rows by
// the presence of a product reference.
type MonthlySummaryRow struct {
	UserID      int64           `json:"user_id"`
	DisplayName string          `json:"display_name"`
	NetSpend    decimal.Decimal `json:"net_spend"`
	Spent       decimal.Decimal `json:"spent"`
	Received    decimal.Decimal `json:"received"`
	Count       int64           `json:"count"`
}

type MonthlySummaryResponse struct {
	Year  int                 `json:"year"`
	Month int                 `json:"month"`
	Rows  []MonthlySummaryRow `json:"rows"`
	Total decimal.Decimal     `json:"total_net_spend"`
}
