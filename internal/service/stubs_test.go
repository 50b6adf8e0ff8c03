package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/kiwiiwik/snackshack-nz/internal/dto"
	"github.com/kiwiiwik/snackshack-nz/internal/model"
	"github.com/kiwiiwik/snackshack-nz/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repositories. DB() returns nil, so runTx executes callbacks
// directly without a real transaction.

type stubUserRepo struct {
	users     map[int64]*model.User
	nextID    int64
	deleteErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*model.User)}
}

func (r *stubUserRepo) add(u model.User) *model.User {
	if u.ID == 0 {
		r.nextID++
		u.ID = r.nextID
	} else if u.ID > r.nextID {
		r.nextID = u.ID
	}
	r.users[u.ID] = &u
	return &u
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	r.nextID++
	u.ID = r.nextID
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

// FindByID returns a copy so balance mutations only happen through
// UpdateBalanceTx, mirroring how a real row fetch behaves.
func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUserRepo) FindByCardID(_ context.Context, cardID string) (*model.User, error) {
	for _, u := range r.users {
		if u.CardID == cardID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FirstName < out[j].FirstName })
	return out, nil
}

func (r *stubUserRepo) ListRecent(_ context.Context, limit int) ([]model.User, error) {
	out, _ := r.List(context.Background())
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubUserRepo) ListSuperAdmins(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.IsSuperAdmin {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *stubUserRepo) TouchLastSeen(_ context.Context, id int64, ts time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.LastSeen = &ts
	return nil
}

func (r *stubUserRepo) SetPINHash(_ context.Context, id int64, hash *string) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PINHash = hash
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) UpdateBalanceTx(_ *gorm.DB, id int64, delta decimal.Decimal) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Balance = u.Balance.Add(delta)
	return nil
}

func (r *stubUserRepo) DB() *gorm.DB { return nil }

var _ repository.UserRepository = (*stubUserRepo)(nil)

type stubProductRepo struct {
	products map[string]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[string]*model.Product)}
}

func (r *stubProductRepo) add(p model.Product) *model.Product {
	r.products[p.UPCCode] = &p
	return &p
}

func (r *stubProductRepo) stock(upc string) *int {
	return r.products[upc].StockLevel
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	cp := *p
	r.products[p.UPCCode] = &cp
	return nil
}

func (r *stubProductRepo) FindByUPC(_ context.Context, upc string) (*model.Product, error) {
	p, ok := r.products[upc]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) List(_ context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.products {
		if filter.Search != "" && !strings.Contains(p.Description, filter.Search) && p.UPCCode != filter.Search {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) ListLowStock(_ context.Context, threshold int) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.StockLevel != nil && *p.StockLevel <= threshold {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	if _, ok := r.products[p.UPCCode]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *p
	r.products[p.UPCCode] = &cp
	return nil
}

func (r *stubProductRepo) SetStock(_ context.Context, upc string, counted int, auditedAt time.Time) error {
	p, ok := r.products[upc]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.StockLevel = &counted
	p.LastAudited = &auditedAt
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, upc string) error {
	delete(r.products, upc)
	return nil
}

func (r *stubProductRepo) FindByUPCTx(_ *gorm.DB, upc string) (*model.Product, error) {
	return r.FindByUPC(context.Background(), upc)
}

func (r *stubProductRepo) DecrementStockTx(_ *gorm.DB, upc string) error {
	p, ok := r.products[upc]
	if !ok || p.StockLevel == nil || *p.StockLevel <= 0 {
		return repository.ErrStockDepleted
	}
	n := *p.StockLevel - 1
	p.StockLevel = &n
	return nil
}

func (r *stubProductRepo) IncrementStockTx(_ *gorm.DB, upc string) error {
	p, ok := r.products[upc]
	if !ok || p.StockLevel == nil {
		return nil
	}
	n := *p.StockLevel + 1
	p.StockLevel = &n
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

type stubTransactionRepo struct {
	rows   []model.Transaction
	nextID int64
	// users lets SummarizeRange resolve names like the real LEFT JOIN does.
	users *stubUserRepo
}

func newStubTransactionRepo() *stubTransactionRepo { return &stubTransactionRepo{} }

func (r *stubTransactionRepo) FindLatestByUser(_ context.Context, userID int64) (*model.Transaction, error) {
	var latest *model.Transaction
	for i := range r.rows {
		t := &r.rows[i]
		if t.UserID == nil || *t.UserID != userID {
			continue
		}
		if latest == nil || t.TransactionDate.After(latest.TransactionDate) ||
			(t.TransactionDate.Equal(latest.TransactionDate) && t.ID > latest.ID) {
			latest = t
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *latest
	return &cp, nil
}

func (r *stubTransactionRepo) ListByUser(_ context.Context, userID int64, limit int) ([]model.Transaction, error) {
	var out []model.Transaction
	for _, t := range r.rows {
		if t.UserID != nil && *t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubTransactionRepo) ListRange(_ context.Context, from, to time.Time) ([]model.Transaction, error) {
	var out []model.Transaction
	for _, t := range r.rows {
		if !t.TransactionDate.Before(from) && t.TransactionDate.Before(to) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubTransactionRepo) SummarizeRange(ctx context.Context, from, to time.Time) ([]repository.UserSummary, error) {
	byUser := make(map[int64]*repository.UserSummary)
	var order []int64
	rows, _ := r.ListRange(ctx, from, to)
	for _, t := range rows {
		var id int64
		if t.UserID != nil {
			id = *t.UserID
		}
		s, ok := byUser[id]
		if !ok {
			s = &repository.UserSummary{UserID: t.UserID}
			if r.users != nil && t.UserID != nil {
				if u, exists := r.users.users[*t.UserID]; exists {
					s.FirstName = u.FirstName
					s.LastName = u.LastName
				}
			}
			byUser[id] = s
			order = append(order, id)
		}
		s.Net = s.Net.Add(t.Amount)
		if t.UPCCode != nil {
			s.Spent = s.Spent.Add(t.Amount)
		} else {
			s.Received = s.Received.Sub(t.Amount)
		}
		s.Count++
	}
	out := make([]repository.UserSummary, 0, len(byUser))
	for _, id := range order {
		out = append(out, *byUser[id])
	}
	return out, nil
}

func (r *stubTransactionRepo) TotalsRange(ctx context.Context, from, to time.Time) (*repository.RangeTotals, error) {
	totals := &repository.RangeTotals{}
	rows, _ := r.ListRange(ctx, from, to)
	for _, t := range rows {
		if t.UPCCode != nil {
			totals.Purchases = totals.Purchases.Add(t.Amount)
		} else {
			totals.Payments = totals.Payments.Sub(t.Amount)
		}
		totals.Count++
	}
	return totals, nil
}

func (r *stubTransactionRepo) PurgeAll(_ context.Context) (int64, error) {
	n := int64(len(r.rows))
	r.rows = nil
	return n, nil
}

func (r *stubTransactionRepo) CreateTx(_ *gorm.DB, t *model.Transaction) error {
	r.nextID++
	t.ID = r.nextID
	r.rows = append(r.rows, *t)
	return nil
}

func (r *stubTransactionRepo) DeleteTx(_ *gorm.DB, id int64) error {
	for i, t := range r.rows {
		if t.ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubTransactionRepo) DB() *gorm.DB { return nil }

var _ repository.TransactionRepository = (*stubTransactionRepo)(nil)

type stubQuickItemRepo struct {
	items  map[int64]*model.QuickItem
	nextID int64
}

func newStubQuickItemRepo() *stubQuickItemRepo {
	return &stubQuickItemRepo{items: make(map[int64]*model.QuickItem)}
}

func (r *stubQuickItemRepo) Create(_ context.Context, q *model.QuickItem) error {
	r.nextID++
	q.ID = r.nextID
	cp := *q
	r.items[q.ID] = &cp
	return nil
}

func (r *stubQuickItemRepo) List(_ context.Context) ([]model.QuickItem, error) {
	out := make([]model.QuickItem, 0, len(r.items))
	for _, q := range r.items {
		out = append(out, *q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func (r *stubQuickItemRepo) Update(_ context.Context, q *model.QuickItem) error {
	if _, ok := r.items[q.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *q
	r.items[q.ID] = &cp
	return nil
}

func (r *stubQuickItemRepo) Delete(_ context.Context, id int64) error {
	delete(r.items, id)
	return nil
}

func (r *stubQuickItemRepo) FindByID(_ context.Context, id int64) (*model.QuickItem, error) {
	q, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *q
	return &cp, nil
}

var _ repository.QuickItemRepository = (*stubQuickItemRepo)(nil)

type stubWallpaperRepo struct {
	walls  map[int64]*model.Wallpaper
	nextID int64
}

func newStubWallpaperRepo() *stubWallpaperRepo {
	return &stubWallpaperRepo{walls: make(map[int64]*model.Wallpaper)}
}

func (r *stubWallpaperRepo) Create(_ context.Context, w *model.Wallpaper) error {
	r.nextID++
	w.ID = r.nextID
	cp := *w
	r.walls[w.ID] = &cp
	return nil
}

func (r *stubWallpaperRepo) List(_ context.Context) ([]model.Wallpaper, error) {
	out := make([]model.Wallpaper, 0, len(r.walls))
	for _, w := range r.walls {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubWallpaperRepo) FindByID(_ context.Context, id int64) (*model.Wallpaper, error) {
	w, ok := r.walls[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *stubWallpaperRepo) SetActive(_ context.Context, id int64) error {
	for _, w := range r.walls {
		w.Active = w.ID == id
	}
	return nil
}

func (r *stubWallpaperRepo) FindActive(_ context.Context) (*model.Wallpaper, error) {
	for _, w := range r.walls {
		if w.Active {
			cp := *w
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubWallpaperRepo) Delete(_ context.Context, id int64) error {
	delete(r.walls, id)
	return nil
}

var _ repository.WallpaperRepository = (*stubWallpaperRepo)(nil)

// ── Shared helpers ────────────────────────────────────────────────────────────

func intp(n int) *int { return &n }

func strp(s string) *string { return &s }

func money(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
