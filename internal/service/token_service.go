package service

import (
	"context"
	"errors"
	"time"

	"github.com/kiwiiwik/snackshack-nz/internal/config"
	"github.com/kiwiiwik/snackshack-nz/internal/dto"
	"github.com/kiwiiwik/snackshack-nz/internal/middleware"
	"github.com/kiwiiwik/snackshack-nz/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials covers every login failure mode. The response is
// deliberately identical for unknown card, non-admin account, missing PIN
// and wrong PIN.
var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenService issues JWTs for the management API. Only admin accounts with
// a PIN configured can log in — the kiosk itself never uses tokens.
type TokenService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}

type tokenService struct {
	users  repository.UserRepository
	cfg    *config.Config
	pepper string
}

func NewTokenService(users repository.UserRepository, cfg *config.Config) TokenService {
	return &tokenService{users: users, cfg: cfg, pepper: cfg.PINPepper}
}

func (s *tokenService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.FindByCardID(ctx, req.CardID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !user.IsAdmin && !user.IsSuperAdmin {
		return nil, ErrInvalidCredentials
	}
	if !user.HasPIN() {
		// Admins must set a PIN before the management API opens to them.
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.PINHash), []byte(req.PIN+s.pepper)) != nil {
		log.Warn().Int64("user_id", user.ID).Msg("admin login rejected: wrong PIN")
		return nil, ErrInvalidCredentials
	}

	role := middleware.RoleAdmin
	if user.IsSuperAdmin {
		role = middleware.RoleSuperAdmin
	}

	expiresIn := time.Duration(s.cfg.JWTExpirationHours) * time.Hour
	now := time.Now().UTC()
	claims := middleware.JWTClaims{
		UserID: user.ID,
		Name:   user.DisplayName(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	log.Info().Int64("user_id", user.ID).Str("role", role).Msg("admin login")
	return &dto.LoginResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int(expiresIn.Seconds()),
		User:        userToResponse(user),
	}, nil
}
