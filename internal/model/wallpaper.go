package model

import "time"

// Wallpaper is a registered kiosk background image. At most one is active;
// the image file itself lives in external storage, only the URL is kept.
type Wallpaper struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"size:100;not null"`
	ImageURL  string `gorm:"size:255;not null"`
	Active    bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
}
