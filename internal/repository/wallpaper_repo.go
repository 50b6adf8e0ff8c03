package repository

import (
	"context"

	"github.com/kiwiiwik/snackshack-nz/internal/model"

	"gorm.io/gorm"
)

type WallpaperRepository interface {
	Create(ctx context.Context, w *model.Wallpaper) error
	List(ctx context.Context) ([]model.Wallpaper, error)
	FindByID(ctx context.Context, id int64) (*model.Wallpaper, error)
	// SetActive marks one wallpaper active and clears the flag everywhere else.
	SetActive(ctx context.Context, id int64) error
	FindActive(ctx context.Context) (*model.Wallpaper, error)
	Delete(ctx context.Context, id int64) error
}

type wallpaperRepo struct{ db *gorm.DB }

func NewWallpaperRepository(db *gorm.DB) WallpaperRepository { return &wallpaperRepo{db: db} }

func (r *wallpaperRepo) Create(ctx context.Context, w *model.Wallpaper) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *wallpaperRepo) List(ctx context.Context) ([]model.Wallpaper, error) {
	var ws []model.Wallpaper
	err := r.db.WithContext(ctx).Order("name ASC").Find(&ws).Error
	return ws, err
}

func (r *wallpaperRepo) FindByID(ctx context.Context, id int64) (*model.Wallpaper, error) {
	var w model.Wallpaper
	err := r.db.WithContext(ctx).First(&w, id).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *wallpaperRepo) SetActive(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Wallpaper{}).Where("active = true").
			Update("active", false).Error; err != nil {
			return err
		}
		return tx.Model(&model.Wallpaper{}).Where("id = ?", id).
			Update("active", true).Error
	})
}

func (r *wallpaperRepo) FindActive(ctx context.Context) (*model.Wallpaper, error) {
	var w model.Wallpaper
	err := r.db.WithContext(ctx).Where("active = true").First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *wallpaperRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Wallpaper{}, id).Error
}
