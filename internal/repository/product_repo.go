package repository

import (
	"context"
	"time"

	"github.com/kiwiiwik/snackshack-nz/internal/dto"
	"github.com/kiwiiwik/snackshack-nz/internal/model"

	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for the catalog.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByUPC(ctx context.Context, upc string) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	// ListLowStock returns tracked products at or below the threshold,
	// out-of-stock items first — the nightly report's restock section.
	ListLowStock(ctx context.Context, threshold int) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	// SetStock overwrites the tracked count after a manual audit and stamps
	// last_audited.
	SetStock(ctx context.Context, upc string, counted int, auditedAt time.Time) error
	// Delete refuses with ErrHasTransactions when ledger rows reference the product.
	Delete(ctx context.Context, upc string) error

	// Used inside transactions — callers must pass the tx instance.
	FindByUPCTx(tx *gorm.DB, upc string) (*model.Product, error)
	// DecrementStockTx takes one unit off a tracked count. The WHERE guard
	// makes concurrent purchases race safely: whoever loses gets
	// ErrStockDepleted and the surrounding transaction rolls back.
	DecrementStockTx(tx *gorm.DB, upc string) error
	IncrementStockTx(tx *gorm.DB, upc string) error

	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByUPC(ctx context.Context, upc string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("upc_code = ?", upc).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})

	if filter.Search != "" {
		q = q.Where("description ILIKE ? OR upc_code = ?", "%"+filter.Search+"%", filter.Search)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("description ASC").Limit(filter.Limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *productRepo) ListLowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("stock_level IS NOT NULL AND stock_level <= ?", threshold).
		Order("stock_level ASC, description ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) SetStock(ctx context.Context, upc string, counted int, auditedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("upc_code = ?", upc).
		Updates(map[string]interface{}{
			"stock_level":  counted,
			"last_audited": auditedAt,
		}).Error
}

func (r *productRepo) Delete(ctx context.Context, upc string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Transaction{}).Where("upc_code = ?", upc).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrHasTransactions
		}
		return tx.Where("upc_code = ?", upc).Delete(&model.Product{}).Error
	})
}

func (r *productRepo) FindByUPCTx(tx *gorm.DB, upc string) (*model.Product, error) {
	var p model.Product
	err := tx.Where("upc_code = ?", upc).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) DecrementStockTx(tx *gorm.DB, upc string) error {
	res := tx.Model(&model.Product{}).
		Where("upc_code = ? AND stock_level IS NOT NULL AND stock_level > 0", upc).
		Update("stock_level", gorm.Expr("stock_level - 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockDepleted
	}
	return nil
}

func (r *productRepo) IncrementStockTx(tx *gorm.DB, upc string) error {
	return tx.Model(&model.Product{}).
		Where("upc_code = ? AND stock_level IS NOT NULL", upc).
		Update("stock_level", gorm.Expr("stock_level + 1")).Error
}

func (r *productRepo) DB() *gorm.DB { return r.db }
