package repository

import (
	"context"
	"time"

	"github.com/kiwiiwik/snackshack-nz/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UserSummary is one user's aggregate over a reporting window, produced by
// a single grouped query. Net is the plain signed sum (purchases positive,
// payments negative); Spent and Received split the rows on the presence of
// a product reference.
type UserSummary struct {
	UserID    *int64
	FirstName string
	LastName  string
	Net       decimal.Decimal
	Spent     decimal.Decimal
	Received  decimal.Decimal
	Count     int64
}

// RangeTotals aggregates the whole ledger over a window.
type RangeTotals struct {
	Purchases decimal.Decimal
	Payments  decimal.Decimal
	Count     int64
}

// TransactionRepository defines the data access contract for the ledger.
// Rows are immutable: there is no Update — only create, delete-latest
// (undo) and bulk purge.
type TransactionRepository interface {
	FindLatestByUser(ctx context.Context, userID int64) (*model.Transaction, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]model.Transaction, error)
	ListRange(ctx context.Context, from, to time.Time) ([]model.Transaction, error)
	SummarizeRange(ctx context.Context, from, to time.Time) ([]UserSummary, error)
	TotalsRange(ctx context.Context, from, to time.Time) (*RangeTotals, error)
	// PurgeAll deletes every ledger row — the superadmin bulk purge.
	PurgeAll(ctx context.Context) (int64, error)

	// Used inside transactions — callers must pass the tx instance.
	CreateTx(tx *gorm.DB, t *model.Transaction) error
	DeleteTx(tx *gorm.DB, id int64) error

	DB() *gorm.DB
}

type transactionRepo struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db: db}
}

func (r *transactionRepo) FindLatestByUser(ctx context.Context, userID int64) (*model.Transaction, error) {
	var t model.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("transaction_date DESC, id DESC").
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transactionRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]model.Transaction, error) {
	var txns []model.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("transaction_date DESC, id DESC").
		Limit(limit).
		Find(&txns).Error
	return txns, err
}

func (r *transactionRepo) ListRange(ctx context.Context, from, to time.Time) ([]model.Transaction, error) {
	var txns []model.Transaction
	err := r.db.WithContext(ctx).
		Where("transaction_date >= ? AND transaction_date < ?", from, to).
		Order("transaction_date ASC, id ASC").
		Find(&txns).Error
	return txns, err
}

func (r *transactionRepo) SummarizeRange(ctx context.Context, from, to time.Time) ([]UserSummary, error) {
	var rows []UserSummary
	err := r.db.WithContext(ctx).Raw(`
		SELECT t.user_id,
		       COALESCE(u.first_name, '') AS first_name,
		       COALESCE(u.last_name, '')  AS last_name,
		       SUM(t.amount) AS net,
		       SUM(CASE WHEN t.upc_code IS NOT NULL THEN t.amount ELSE 0 END) AS spent,
		       SUM(CASE WHEN t.upc_code IS NULL THEN -t.amount ELSE 0 END)    AS received,
		       COUNT(*) AS count
		FROM transactions t
		LEFT JOIN users u ON u.id = t.user_id
		WHERE t.transaction_date >= ? AND t.transaction_date < ?
		GROUP BY t.user_id, u.first_name, u.last_name
		ORDER BY net DESC`, from, to).
		Scan(&rows).Error
	return rows, err
}

func (r *transactionRepo) TotalsRange(ctx context.Context, from, to time.Time) (*RangeTotals, error) {
	var totals RangeTotals
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(CASE WHEN upc_code IS NOT NULL THEN amount ELSE 0 END), 0) AS purchases,
		       COALESCE(SUM(CASE WHEN upc_code IS NULL THEN -amount ELSE 0 END), 0)    AS payments,
		       COUNT(*) AS count
		FROM transactions
		WHERE transaction_date >= ? AND transaction_date < ?`, from, to).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *transactionRepo) PurgeAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("1 = 1").Delete(&model.Transaction{})
	return res.RowsAffected, res.Error
}

func (r *transactionRepo) CreateTx(tx *gorm.DB, t *model.Transaction) error {
	return tx.Create(t).Error
}

func (r *transactionRepo) DeleteTx(tx *gorm.DB, id int64) error {
	return tx.Delete(&model.Transaction{}, id).Error
}

func (r *transactionRepo) DB() *gorm.DB { return r.db }
