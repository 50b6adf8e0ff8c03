package repository

import (
	"context"
	"time"

	"github.com/kiwiiwik/snackshack-nz/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UserRepository defines the data access contract for user accounts.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByCardID(ctx context.Context, cardID string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	// ListRecent returns up to limit users ordered by last_seen descending —
	// the "frequently active" tiles on the kiosk grid.
	ListRecent(ctx context.Context, limit int) ([]model.User, error)
	ListSuperAdmins(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, u *model.User) error
	TouchLastSeen(ctx context.Context, id int64, ts time.Time) error
	SetPINHash(ctx context.Context, id int64, hash *string) error
	// Delete refuses with ErrHasTransactions when ledger rows reference the user.
	Delete(ctx context.Context, id int64) error

	// Used inside transactions — callers must pass the tx instance.
	// The delta is applied relative to the stored value, never read-modify-write.
	UpdateBalanceTx(tx *gorm.DB, id int64, delta decimal.Decimal) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type userRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepo{db: db} }

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) FindByCardID(ctx context.Context, cardID string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("card_id = ?", cardID).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Order("first_name ASC, last_name ASC").Find(&users).Error
	return users, err
}

func (r *userRepo) ListRecent(ctx context.Context, limit int) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Order("last_seen DESC NULLS LAST").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *userRepo) ListSuperAdmins(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Where("is_super_admin = true").Find(&users).Error
	return users, err
}

func (r *userRepo) Update(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *userRepo) TouchLastSeen(ctx context.Context, id int64, ts time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Update("last_seen", ts).Error
}

func (r *userRepo) SetPINHash(ctx context.Context, id int64, hash *string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Update("pin_hash", hash).Error
}

func (r *userRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Transaction{}).Where("user_id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrHasTransactions
		}
		return tx.Delete(&model.User{}, id).Error
	})
}

func (r *userRepo) UpdateBalanceTx(tx *gorm.DB, id int64, delta decimal.Decimal) error {
	return tx.Model(&model.User{}).Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", delta)).Error
}

func (r *userRepo) DB() *gorm.DB { return r.db }
