package service

import (
	"context"
	"fmt"

	"sms-payment-service/internal/core/domain"
	"sms-payment-service/internal/core/ports"
	"sms-payment-service/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const defaultHistoryLimit = 20

// AccountServiceImpl implements ports.AccountService: user lookup,
// manual balance credits, transfer history.
type AccountServiceImpl struct {
	userRepo ports.UserRepository
	txRepo   ports.TransactionRepository
	log      zerolog.Logger
}

// NewAccountService creates a new AccountServiceImpl.
func NewAccountService(userRepo ports.UserRepository, txRepo ports.TransactionRepository, log zerolog.Logger) *AccountServiceImpl {
	return &AccountServiceImpl{
		userRepo: userRepo,
		txRepo:   txRepo,
		log:      log,
	}
}

// GetUser fetches a ledger entry by id.
func (s *AccountServiceImpl) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrNotFound("User")
	}
	return user, nil
}

// AddBalance credits a user's balance as one atomic statement and
// returns the updated entry with the cumulative new balance.
func (s *AccountServiceImpl) AddBalance(ctx context.Context, id int64, amount decimal.Decimal) (*domain.User, error) {
	if !amount.IsPositive() {
		return nil, apperror.InvalidRequest("Amount must be positive")
	}

	user, err := s.userRepo.TopUp(ctx, id, amount)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("top up: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrNotFound("User")
	}

	s.log.Info().
		Int64("user_id", id).
		Str("amount", amount.String()).
		Str("new_balance", user.Balance.String()).
		Msg("balance credited")

	return user, nil
}

// ListTransfers returns a user's recent transfer history (both sides).
func (s *AccountServiceImpl) ListTransfers(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrNotFound("User")
	}

	transfers, err := s.txRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transfers: %w", err))
	}
	return transfers, nil
}
