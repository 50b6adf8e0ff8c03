package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is a person with a prepaid snack account. Identity at the kiosk is the
// barcode on their badge (CardID); the numeric ID is internal only.
// Balance is signed — overdraft is allowed, there is no floor.
type User struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	FirstName string `gorm:"size:50;not null"`
	LastName  string `gorm:"size:50"`
	CardID    string `gorm:"size:50;uniqueIndex;not null"`
	Balance   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	// PINHash is nil when no PIN is configured. When set it holds a
	// bcrypt hash of PIN+pepper — the raw PIN is never persisted.
	PINHash      *string `gorm:"size:100"`
	LastSeen     *time.Time
	IsAdmin      bool `gorm:"not null;default:false"`
	IsSuperAdmin bool `gorm:"not null;default:false"`
	// Notification targets — either may be absent.
	Email     *string `gorm:"size:100"`
	Phone     *string `gorm:"size:30"`
	AvatarURL *string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName is what the kiosk shows on the user tile.
func (u *User) DisplayName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// HasPIN reports whether direct card login is gated by a PIN challenge.
func (u *User) HasPIN() bool {
	return u.PINHash != nil && *u.PINHash != ""
}
