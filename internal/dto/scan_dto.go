package dto

import "github.com/shopspring/decimal"

// ScanKind classifies the outcome of a barcode scan or PIN submission.
// The engine returns exactly one kind per call; callers switch on it and
// must only read the fields documented for that kind.
type ScanKind string

const (
	ScanLoggedIn    ScanKind = "logged_in"    // UserID, DisplayName, Balance
	ScanNeedsPIN    ScanKind = "needs_pin"    // UserID, DisplayName
	ScanPurchased   ScanKind = "purchased"    // Description, Balance
	ScanOutOfStock  ScanKind = "out_of_stock" // Description
	ScanNotFound    ScanKind = "not_found"    // no fields
	ScanPINRejected ScanKind = "pin_rejected" // UserID
)

// ScanResult is the tagged outcome of processing a scanned/typed code.
type ScanResult struct {
	Kind        ScanKind         `json:"kind"`
	UserID      *int64           `json:"user_id,omitempty"`
	DisplayName string           `json:"display_name,omitempty"`
	Description string           `json:"description,omitempty"`
	Balance     *decimal.Decimal `json:"balance,omitempty"`
}

type ScanRequest struct {
	Code string `json:"code" validate:"required"`
}

type PINRequest struct {
	PIN string `json:"pin" validate:"required,len=4,numeric"`
}

// UndoResult describes the reversed ledger entry. A nil result from the
// service means there was nothing to undo (a no-op, not an error).
type UndoResult struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	WasPayment  bool            `json:"was_payment"`
	Balance     decimal.Decimal `json:"balance"`
}

// ─── Kiosk main screen ───────────────────────────────────────────────────────

// UserTile is one entry on the kiosk's user grid, ordered by recent activity.
type UserTile struct {
	ID          int64   `json:"id"`
	DisplayName string  `json:"display_name"`
	CardID      string  `json:"card_id"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

type QuickItemTile struct {
	ID           int64  `json:"id"`
	Label        string `json:"label"`
	BarcodeValue string `json:"barcode_value"`
	ImageURL     string `json:"image_url,omitempty"`
}

// KioskState is everything the kiosk front end needs to render its screen.
type KioskState struct {
	User         *UserResponse   `json:"user,omitempty"`
	PendingPIN   *int64          `json:"pending_pin_user_id,omitempty"`
	LastItem     string          `json:"last_item,omitempty"`
	Users        []UserTile      `json:"users"`
	QuickItems   []QuickItemTile `json:"quick_items"`
	WallpaperURL string          `json:"wallpaper_url,omitempty"`
}
