package service

import (
	"context"
	"fmt"
	"time"

	"sms-payment-service/internal/core/domain"
	"sms-payment-service/internal/core/ports"
	"sms-payment-service/pkg/apperror"

	"github.com/shopspring/decimal"
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	userRepo ports.UserRepository
	hashSvc  ports.HashService
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(userRepo ports.UserRepository, hashSvc ports.HashService) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo: userRepo,
		hashSvc:  hashSvc,
	}
}

// Signup registers a new user and creates their ledger entry with a
// zero balance. Returns the generated user id.
func (s *AuthServiceImpl) Signup(ctx context.Context, req ports.SignupRequest) (int64, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("check email: %w", err))
	}
	if existing != nil {
		return 0, apperror.ErrEmailTaken()
	}

	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        req.Email,
		PasswordHash: passwordHash,
		Name:         req.Name,
		PhoneNumber:  req.PhoneNumber,
		Balance:      decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("create user: %w", err))
	}

	return user.ID, nil
}

// Login performs the bare login check: no tokens or sessions, just a
// credential match returning the user id.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (int64, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("get user by email: %w", err))
	}
	if user == nil {
		return 0, apperror.ErrEmailNotFound()
	}

	ok, err := s.hashSvc.Verify(password, user.PasswordHash)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !ok {
		return 0, apperror.ErrIncorrectPassword()
	}

	return user.ID, nil
}
