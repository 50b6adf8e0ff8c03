package model

// QuickItem is a product flagged for prominent display on the kiosk's main
// purchase grid. Tapping a tile submits BarcodeValue as if it were scanned.
type QuickItem struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Label        string `gorm:"size:50;not null"`
	BarcodeValue string `gorm:"size:50;not null"`
	ImageURL     string `gorm:"size:255"`
}
