package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/kiwiiwik/snackshack-nz/internal/dto"
	"github.com/kiwiiwik/snackshack-nz/internal/model"
	"github.com/kiwiiwik/snackshack-nz/internal/repository"
	"github.com/kiwiiwik/snackshack-nz/internal/session"
	"github.com/kiwiiwik/snackshack-nz/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// KioskService is the transaction engine behind the scan terminal. A scanned
// code resolves to exactly one tagged outcome: card match → login or PIN
// challenge, product match under an active identity → purchase, anything
// else → not found. All money/stock/ledger movement happens here and in
// Undo, nowhere else.
type KioskService interface {
	ProcessCode(ctx context.Context, sess *session.Session, code string) (*dto.ScanResult, error)
	VerifyPIN(ctx context.Context, sess *session.Session, pin string) (*dto.ScanResult, error)
	// Undo reverses the most recent ledger entry for the active identity.
	// A nil result with nil error means there was nothing to undo.
	Undo(ctx context.Context, sess *session.Session) (*dto.UndoResult, error)
	State(ctx context.Context, sess *session.Session) (*dto.KioskState, error)
}

type kioskService struct {
	users        repository.UserRepository
	products     repository.ProductRepository
	transactions repository.TransactionRepository
	quickItems   repository.QuickItemRepository
	wallpapers   repository.WallpaperRepository
	dispatcher   *worker.Dispatcher
	pepper       string
}

func NewKioskService(
	users repository.UserRepository,
	products repository.ProductRepository,
	transactions repository.TransactionRepository,
	quickItems repository.QuickItemRepository,
	wallpapers repository.WallpaperRepository,
	dispatcher *worker.Dispatcher,
	pepper string,
) KioskService {
	return &kioskService{
		users:        users,
		products:     products,
		transactions: transactions,
		quickItems:   quickItems,
		wallpapers:   wallpapers,
		dispatcher:   dispatcher,
		pepper:       pepper,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── ProcessCode ───────────────────────────────────────────────────────────────
// Interpretation order:
//  1. Card match — login, or PIN challenge when one is configured.
//  2. Product match under an active identity — purchase.
//  3. Neither — not found. An unrecognized code with nobody logged in is
//     ambiguous between "bad barcode" and "no one logged in yet", so it is
//     classified not_found rather than raised as an error.

func (s *kioskService) ProcessCode(ctx context.Context, sess *session.Session, code string) (*dto.ScanResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return &dto.ScanResult{Kind: dto.ScanNotFound}, nil
	}

	user, err := s.users.FindByCardID(ctx, code)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if user != nil {
		if user.HasPIN() {
			// Park the candidate so the UI can re-prompt without another
			// scan. No identity is granted yet.
			sess.PendingUserID = &user.ID
			return &dto.ScanResult{
				Kind:        dto.ScanNeedsPIN,
				UserID:      &user.ID,
				DisplayName: user.DisplayName(),
			}, nil
		}
		return s.establish(ctx, sess, user)
	}

	return s.purchase(ctx, sess, code)
}

// establish makes user the session's active identity and stamps last_seen.
// Switching identity overwrites whoever was logged in before.
func (s *kioskService) establish(ctx context.Context, sess *session.Session, user *model.User) (*dto.ScanResult, error) {
	now := time.Now().UTC()
	if err := s.users.TouchLastSeen(ctx, user.ID, now); err != nil {
		return nil, err
	}
	sess.Login(user.ID)
	balance := user.Balance
	return &dto.ScanResult{
		Kind:        dto.ScanLoggedIn,
		UserID:      &user.ID,
		DisplayName: user.DisplayName(),
		Balance:     &balance,
	}, nil
}

func (s *kioskService) purchase(ctx context.Context, sess *session.Session, code string) (*dto.ScanResult, error) {
	if sess.UserID == nil {
		return &dto.ScanResult{Kind: dto.ScanNotFound}, nil
	}

	product, err := s.products.FindByUPC(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &dto.ScanResult{Kind: dto.ScanNotFound}, nil
	}
	if err != nil {
		return nil, err
	}

	if product.Tracked() && *product.StockLevel <= 0 {
		log.Warn().
			Str("upc", product.UPCCode).
			Str("description", product.Description).
			Msg("purchase refused: out of stock")
		return &dto.ScanResult{Kind: dto.ScanOutOfStock, Description: product.Description}, nil
	}

	user, err := s.users.FindByID(ctx, *sess.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Active user deleted under an open session — drop the identity.
		sess.Logout()
		return &dto.ScanResult{Kind: dto.ScanNotFound}, nil
	}
	if err != nil {
		return nil, err
	}

	// Missing price sells as zero; overdraft is allowed, so there is no
	// balance check here and no PIN recheck either — the gate is at login.
	price := product.Price
	entry := model.Transaction{
		UserID:          &user.ID,
		UPCCode:         &product.UPCCode,
		Amount:          price,
		TransactionDate: time.Now().UTC(),
	}

	// Balance, stock and ledger move as one unit: all three or none.
	txErr := runTx(ctx, s.transactions.DB(), func(tx *gorm.DB) error {
		if err := s.users.UpdateBalanceTx(tx, user.ID, price.Neg()); err != nil {
			return err
		}
		if product.Tracked() {
			if err := s.products.DecrementStockTx(tx, product.UPCCode); err != nil {
				return err
			}
		}
		return s.transactions.CreateTx(tx, &entry)
	})
	if errors.Is(txErr, repository.ErrStockDepleted) {
		// Lost the race against another terminal for the final unit.
		return &dto.ScanResult{Kind: dto.ScanOutOfStock, Description: product.Description}, nil
	}
	if txErr != nil {
		return nil, txErr
	}

	balance := user.Balance.Sub(price)
	s.notify(ctx, user, worker.EventPurchase, product.Description, price, balance)
	return &dto.ScanResult{
		Kind:        dto.ScanPurchased,
		Description: product.Description,
		Balance:     &balance,
	}, nil
}

// ── VerifyPIN ─────────────────────────────────────────────────────────────────

func (s *kioskService) VerifyPIN(ctx context.Context, sess *session.Session, pin string) (*dto.ScanResult, error) {
	if sess.PendingUserID == nil {
		return &dto.ScanResult{Kind: dto.ScanNotFound}, nil
	}

	user, err := s.users.FindByID(ctx, *sess.PendingUserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sess.PendingUserID = nil
		return &dto.ScanResult{Kind: dto.ScanNotFound}, nil
	}
	if err != nil {
		return nil, err
	}

	if user.HasPIN() {
		if bcrypt.CompareHashAndPassword([]byte(*user.PINHash), []byte(pin+s.pepper)) != nil {
			// Candidate stays parked so the UI re-prompts for the same user.
			return &dto.ScanResult{Kind: dto.ScanPINRejected, UserID: &user.ID}, nil
		}
	}
	// PIN cleared between scan and submission falls through to direct login.
	return s.establish(ctx, sess, user)
}

// ── Undo ──────────────────────────────────────────────────────────────────────

func (s *kioskService) Undo(ctx context.Context, sess *session.Session) (*dto.UndoResult, error) {
	if sess.UserID == nil {
		return nil, nil
	}

	last, err := s.transactions.FindLatestByUser(ctx, *sess.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // nothing to undo — a no-op, not an error
	}
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, *sess.UserID)
	if err != nil {
		return nil, err
	}

	var description string
	txErr := runTx(ctx, s.transactions.DB(), func(tx *gorm.DB) error {
		// The signed-amount convention makes one addition reverse both
		// cases: a purchase (+) refunds, a payment (−) claws back.
		if err := s.users.UpdateBalanceTx(tx, user.ID, last.Amount); err != nil {
			return err
		}
		// Stock comes back only for purchases. Payment rows carry no
		// product and must never fabricate stock; a zero-price purchase
		// still consumed a unit and gets it back.
		if !last.IsPayment() {
			p, err := s.products.FindByUPCTx(tx, *last.UPCCode)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if p != nil {
				description = p.Description
				if p.Tracked() {
					if err := s.products.IncrementStockTx(tx, p.UPCCode); err != nil {
						return err
					}
				}
			}
		}
		return s.transactions.DeleteTx(tx, last.ID)
	})
	if txErr != nil {
		return nil, txErr
	}

	balance := user.Balance.Add(last.Amount)
	s.notify(ctx, user, worker.EventUndo, description, last.Amount, balance)
	return &dto.UndoResult{
		Amount:      last.Amount,
		Description: description,
		WasPayment:  last.IsPayment(),
		Balance:     balance,
	}, nil
}

// ── State ─────────────────────────────────────────────────────────────────────

// State assembles the kiosk main screen: active user with their last
// purchase, the recently-seen user grid, quick item tiles and the active
// wallpaper.
func (s *kioskService) State(ctx context.Context, sess *session.Session) (*dto.KioskState, error) {
	state := &dto.KioskState{PendingPIN: sess.PendingUserID}

	if sess.UserID != nil {
		user, err := s.users.FindByID(ctx, *sess.UserID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			sess.Logout()
		case err != nil:
			return nil, err
		default:
			resp := userToResponse(user)
			state.User = &resp
			if last, err := s.transactions.FindLatestByUser(ctx, user.ID); err == nil && last.UPCCode != nil {
				if p, err := s.products.FindByUPC(ctx, *last.UPCCode); err == nil {
					state.LastItem = p.Description
				}
			}
		}
	}

	recent, err := s.users.ListRecent(ctx, 30)
	if err != nil {
		return nil, err
	}
	state.Users = make([]dto.UserTile, 0, len(recent))
	for _, u := range recent {
		state.Users = append(state.Users, dto.UserTile{
			ID:          u.ID,
			DisplayName: u.DisplayName(),
			CardID:      u.CardID,
			AvatarURL:   u.AvatarURL,
		})
	}

	items, err := s.quickItems.List(ctx)
	if err != nil {
		return nil, err
	}
	state.QuickItems = make([]dto.QuickItemTile, 0, len(items))
	for _, q := range items {
		state.QuickItems = append(state.QuickItems, dto.QuickItemTile{
			ID:           q.ID,
			Label:        q.Label,
			BarcodeValue: q.BarcodeValue,
			ImageURL:     q.ImageURL,
		})
	}

	if w, err := s.wallpapers.FindActive(ctx); err == nil {
		state.WallpaperURL = w.ImageURL
	}

	return state, nil
}

// notify enqueues a fire-and-forget notification. Enqueue failures are
// logged and swallowed — delivery problems never reach the kiosk.
func (s *kioskService) notify(ctx context.Context, user *model.User, event, description string, amount, balance decimal.Decimal) {
	if s.dispatcher == nil {
		return
	}
	if user.Email == nil && user.Phone == nil {
		return
	}
	payload := worker.NotifyJobPayload{
		Event:       event,
		Name:        user.FirstName,
		Email:       user.Email,
		Phone:       user.Phone,
		Description: description,
		Amount:      amount,
		Balance:     balance,
	}
	if err := s.dispatcher.EnqueueNotify(ctx, payload); err != nil {
		log.Warn().Err(err).Str("event", event).Msg("notification enqueue failed")
	}
}
