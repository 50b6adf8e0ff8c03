package service

import (
	"context"
	"errors"
	"time"

	"github.com/kiwiiwik/snackshack-nz/internal/dto"
	"github.com/kiwiiwik/snackshack-nz/internal/model"
	"github.com/kiwiiwik/snackshack-nz/internal/repository"
	"github.com/kiwiiwik/snackshack-nz/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Sentinel errors surfaced to handlers for HTTP status mapping.
var (
	ErrForbidden     = errors.New("operation not permitted for this role")
	ErrInvalidPIN    = errors.New("PIN must be exactly 4 digits")
	ErrInvalidAmount = errors.New("amount must be greater than zero")
)

// AccountService covers everything about user accounts that is not the scan
// path: CRUD, cash top-ups, PIN management and ledger history.
type AccountService interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	GetUser(ctx context.Context, id int64) (*dto.UserResponse, error)
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
	UpdateUser(ctx context.Context, id int64, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, id int64) error

	// RecordPayment credits physically-received money onto the account and
	// writes a negative ledger row with no product reference.
	RecordPayment(ctx context.Context, userID int64, amount decimal.Decimal) (*dto.UserResponse, error)
	History(ctx context.Context, userID int64, limit int) ([]dto.TransactionResponse, error)

	SetPIN(ctx context.Context, userID int64, pin string) error
	// ClearPIN removes the gate. Clearing another admin's PIN requires the
	// actor to be a super admin; everyone may clear their own.
	ClearPIN(ctx context.Context, actorID, targetID int64) error

	// PurgeTransactions wipes the whole ledger. Balances are untouched —
	// they are the source of truth once the history is gone.
	PurgeTransactions(ctx context.Context) (int64, error)
}

type accountService struct {
	users        repository.UserRepository
	transactions repository.TransactionRepository
	dispatcher   *worker.Dispatcher
	pepper       string
}

func NewAccountService(
	users repository.UserRepository,
	transactions repository.TransactionRepository,
	dispatcher *worker.Dispatcher,
	pepper string,
) AccountService {
	return &accountService{
		users:        users,
		transactions: transactions,
		dispatcher:   dispatcher,
		pepper:       pepper,
	}
}

func (s *accountService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	user := model.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		CardID:    req.CardID,
		Balance:   decimal.Zero,
		IsAdmin:   req.IsAdmin,
		Email:     req.Email,
		Phone:     req.Phone,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return nil, err
	}
	resp := userToResponse(&user)
	return &resp, nil
}

func (s *accountService) GetUser(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := userToResponse(user)
	return &resp, nil
}

func (s *accountService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, userToResponse(&users[i]))
	}
	return out, nil
}

func (s *accountService) UpdateUser(ctx context.Context, id int64, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.CardID != "" {
		user.CardID = req.CardID
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}
	if req.IsSuperAdmin != nil {
		user.IsSuperAdmin = *req.IsSuperAdmin
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := userToResponse(user)
	return &resp, nil
}

func (s *accountService) DeleteUser(ctx context.Context, id int64) error {
	return s.users.Delete(ctx, id)
}

func (s *accountService) RecordPayment(ctx context.Context, userID int64, amount decimal.Decimal) (*dto.UserResponse, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry := model.Transaction{
		UserID:          &user.ID,
		UPCCode:         nil,
		Amount:          amount.Neg(),
		TransactionDate: time.Now().UTC(),
	}
	txErr := runTx(ctx, s.transactions.DB(), func(tx *gorm.DB) error {
		if err := s.users.UpdateBalanceTx(tx, user.ID, amount); err != nil {
			return err
		}
		return s.transactions.CreateTx(tx, &entry)
	})
	if txErr != nil {
		return nil, txErr
	}

	user.Balance = user.Balance.Add(amount)
	if s.dispatcher != nil && (user.Email != nil || user.Phone != nil) {
		err := s.dispatcher.EnqueueNotify(ctx, worker.NotifyJobPayload{
			Event:   worker.EventPayment,
			Name:    user.FirstName,
			Email:   user.Email,
			Phone:   user.Phone,
			Amount:  amount,
			Balance: user.Balance,
		})
		if err != nil {
			log.Warn().Err(err).Str("event", worker.EventPayment).Msg("notification enqueue failed")
		}
	}
	resp := userToResponse(user)
	return &resp, nil
}

func (s *accountService) History(ctx context.Context, userID int64, limit int) ([]dto.TransactionResponse, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	txns, err := s.transactions.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, dto.TransactionResponse{
			ID:              t.ID,
			UserID:          t.UserID,
			UPCCode:         t.UPCCode,
			Amount:          t.Amount,
			TransactionDate: t.TransactionDate.UTC().Format(time.RFC3339),
		})
	}
	return out, nil
}

func (s *accountService) SetPIN(ctx context.Context, userID int64, pin string) error {
	if !validPIN(pin) {
		return ErrInvalidPIN
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	// Peppered before hashing so leaked rows alone are not brute-forceable
	// across the tiny 4-digit space.
	hash, err := bcrypt.GenerateFromPassword([]byte(pin+s.pepper), 12)
	if err != nil {
		return err
	}
	h := string(hash)
	return s.users.SetPINHash(ctx, userID, &h)
}

func (s *accountService) ClearPIN(ctx context.Context, actorID, targetID int64) error {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	if actorID != targetID && (target.IsAdmin || target.IsSuperAdmin) {
		actor, err := s.users.FindByID(ctx, actorID)
		if err != nil {
			return err
		}
		if !actor.IsSuperAdmin {
			return ErrForbidden
		}
	}
	return s.users.SetPINHash(ctx, targetID, nil)
}

func (s *accountService) PurgeTransactions(ctx context.Context) (int64, error) {
	return s.transactions.PurgeAll(ctx)
}

func validPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func userToResponse(u *model.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		CardID:       u.CardID,
		Balance:      u.Balance,
		HasPIN:       u.HasPIN(),
		IsAdmin:      u.IsAdmin,
		IsSuperAdmin: u.IsSuperAdmin,
		Email:        u.Email,
		Phone:        u.Phone,
		AvatarURL:    u.AvatarURL,
	}
	if u.LastSeen != nil {
		resp.LastSeen = u.LastSeen.UTC().Format(time.RFC3339)
	}
	return resp
}
