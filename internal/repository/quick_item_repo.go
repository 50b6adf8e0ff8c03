package repository

import (
	"context"

	"github.com/kiwiiwik/snackshack-nz/internal/model"

	"gorm.io/gorm"
)

type QuickItemRepository interface {
	Create(ctx context.Context, q *model.QuickItem) error
	List(ctx context.Context) ([]model.QuickItem, error)
	Update(ctx context.Context, q *model.QuickItem) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*model.QuickItem, error)
}

type quickItemRepo struct{ db *gorm.DB }

func NewQuickItemRepository(db *gorm.DB) QuickItemRepository { return &quickItemRepo{db: db} }

func (r *quickItemRepo) Create(ctx context.Context, q *model.QuickItem) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *quickItemRepo) List(ctx context.Context) ([]model.QuickItem, error) {
	var items []model.QuickItem
	err := r.db.WithContext(ctx).Order("label ASC").Find(&items).Error
	return items, err
}

func (r *quickItemRepo) Update(ctx context.Context, q *model.QuickItem) error {
	return r.db.WithContext(ctx).Save(q).Error
}

func (r *quickItemRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.QuickItem{}, id).Error
}

func (r *quickItemRepo) FindByID(ctx context.Context, id int64) (*model.QuickItem, error) {
	var q model.QuickItem
	err := r.db.WithContext(ctx).First(&q, id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}
