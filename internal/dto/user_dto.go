package dto

import "github.com/shopspring/decimal"

type CreateUserRequest struct {
	FirstName string  `json:"first_name" validate:"required,max=50"`
	LastName  string  `json:"last_name"  validate:"max=50"`
	CardID    string  `json:"card_id"    validate:"required,max=50"`
	Email     *string `json:"email"      validate:"omitempty,email"`
	Phone     *string `json:"phone"      validate:"omitempty,max=30"`
	IsAdmin   bool    `json:"is_admin"`
}

// UpdateUserRequest patches only the supplied fields. CardID changes are
// accepted but collide against the unique index like any other write.
type UpdateUserRequest struct {
	FirstName    string  `json:"first_name" validate:"max=50"`
	LastName     *string `json:"last_name"  validate:"omitempty,max=50"`
	CardID       string  `json:"card_id"    validate:"max=50"`
	Email        *string `json:"email"      validate:"omitempty,email"`
	Phone        *string `json:"phone"      validate:"omitempty,max=30"`
	AvatarURL    *string `json:"avatar_url" validate:"omitempty,max=255"`
	IsAdmin      *bool   `json:"is_admin"`
	IsSuperAdmin *bool   `json:"is_super_admin"`
}

type UserResponse struct {
	ID           int64           `json:"id"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	CardID       string          `json:"card_id"`
	Balance      decimal.Decimal `json:"balance"`
	HasPIN       bool            `json:"has_pin"`
	LastSeen     string          `json:"last_seen,omitempty"`
	IsAdmin      bool            `json:"is_admin"`
	IsSuperAdmin bool            `json:"is_super_admin"`
	Email        *string         `json:"email,omitempty"`
	Phone        *string         `json:"phone,omitempty"`
	AvatarURL    *string         `json:"avatar_url,omitempty"`
}

// PaymentRequest records money physically received from a user (cash top-up).
// Amount is what was handed over — always positive; the ledger row is
// written with the negated amount.
type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

type SetPINRequest struct {
	PIN string `json:"pin" validate:"required,len=4,numeric"`
}

type TransactionResponse struct {
	ID              int64           `json:"id"`
	UserID          *int64          `json:"user_id,omitempty"`
	UPCCode         *string         `json:"upc_code,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate string          `json:"transaction_date"`
}
