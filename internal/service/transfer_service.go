package service

import (
	"context"
	"fmt"
	"time"

	"sms-payment-service/internal/core/domain"
	"sms-payment-service/internal/core/ports"
	"sms-payment-service/pkg/apperror"

	"github.com/rs/zerolog"
)

// TransferServiceImpl implements ports.TransferService: the balance
// transfer engine.
type TransferServiceImpl struct {
	userRepo   ports.UserRepository
	txRepo     ports.TransactionRepository
	transactor ports.DBTransactor
	notifier   ports.NotificationSink
	log        zerolog.Logger
}

// NewTransferService creates a new TransferServiceImpl.
func NewTransferService(
	userRepo ports.UserRepository,
	txRepo ports.TransactionRepository,
	transactor ports.DBTransactor,
	notifier ports.NotificationSink,
	log zerolog.Logger,
) *TransferServiceImpl {
	return &TransferServiceImpl{
		userRepo:   userRepo,
		txRepo:     txRepo,
		transactor: transactor,
		notifier:   notifier,
		log:        log,
	}
}

// Transfer validates the request and atomically moves funds between
// two ledger entries. Every attempt that reaches the engine's balance
// check leaves exactly one transaction record, whatever the outcome.
func (s *TransferServiceImpl) Transfer(ctx context.Context, req domain.TransferRequest) (*ports.TransferResult, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.InvalidRequest("Amount must be positive")
	}
	if req.SenderID == req.ReceiverID {
		return nil, apperror.InvalidRequest("Sender and receiver must differ")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock both rows in ascending id order so two opposing transfers
	// on the same pair cannot deadlock.
	firstID, secondID := req.SenderID, req.ReceiverID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}

	locked := make(map[int64]*domain.User, 2)
	for _, id := range []int64{firstID, secondID} {
		u, lockErr := s.userRepo.GetByIDForUpdate(ctx, dbTx, id)
		if lockErr != nil {
			s.log.Error().Err(lockErr).Int64("user_id", id).Msg("lock user row failed")
		}
		locked[id] = u
	}
	sender := locked[req.SenderID]
	receiver := locked[req.ReceiverID]

	// Funds check happens on the locked row, so a stale read can never
	// let two concurrent transfers both pass. An unknown sender reads
	// as no funds at all.
	if sender == nil || sender.Balance.LessThan(req.Amount) {
		_ = dbTx.Rollback(ctx)
		s.recordAttempt(ctx, req, domain.TransferStatusInsufficientBalance)
		s.notifier.Notify(ctx, req.SenderID, req.Amount, "unsuccessful", ports.DirectionSent)
		return nil, apperror.ErrInsufficientFunds(domain.StatusMessage(req.Amount, "unsuccessful"))
	}

	if receiver == nil {
		_ = dbTx.Rollback(ctx)
		return nil, s.failTransfer(ctx, req, fmt.Errorf("receiver %d not found", req.ReceiverID))
	}

	// Apply both mutations inside the one transaction; the debit's
	// guard re-checks the balance in its WHERE clause.
	if err := s.userRepo.Debit(ctx, dbTx, req.SenderID, req.Amount); err != nil {
		_ = dbTx.Rollback(ctx)
		return nil, s.failTransfer(ctx, req, err)
	}
	if err := s.userRepo.Credit(ctx, dbTx, req.ReceiverID, req.Amount); err != nil {
		_ = dbTx.Rollback(ctx)
		return nil, s.failTransfer(ctx, req, err)
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, s.failTransfer(ctx, req, fmt.Errorf("commit tx: %w", err))
	}

	txn := s.recordAttempt(ctx, req, domain.TransferStatusSuccessful)
	s.notifier.Notify(ctx, req.SenderID, req.Amount, "successful", ports.DirectionSent)
	s.notifier.Notify(ctx, req.ReceiverID, req.Amount, "successful", ports.DirectionReceived)

	s.log.Info().
		Int64("sender_id", req.SenderID).
		Int64("receiver_id", req.ReceiverID).
		Str("amount", req.Amount.String()).
		Msg("transfer completed")

	return &ports.TransferResult{
		Transaction: txn,
		Outcome:     domain.TransferOutcomeCompleted,
		Message:     domain.StatusMessage(req.Amount, "successful"),
	}, nil
}

// failTransfer records a failed attempt, notifies the sender, and
// builds the caller-facing error. The decision is already final when
// it runs; record and notification problems cannot change it.
func (s *TransferServiceImpl) failTransfer(ctx context.Context, req domain.TransferRequest, cause error) error {
	s.log.Error().Err(cause).
		Int64("sender_id", req.SenderID).
		Int64("receiver_id", req.ReceiverID).
		Msg("transfer failed, rolled back")

	s.recordAttempt(ctx, req, domain.TransferStatusFailed)
	s.notifier.Notify(ctx, req.SenderID, req.Amount, "failed", ports.DirectionSent)
	return apperror.ErrTransactionFailed(domain.StatusMessage(req.Amount, "failed"))
}

// recordAttempt appends to the transaction log on the pool, outside
// the transfer's (possibly rolled back) transaction. Append failures
// are logged but never block the outcome already decided.
func (s *TransferServiceImpl) recordAttempt(ctx context.Context, req domain.TransferRequest, status domain.TransferStatus) *domain.Transaction {
	txn := &domain.Transaction{
		SenderID:   req.SenderID,
		ReceiverID: req.ReceiverID,
		Amount:     req.Amount,
		Status:     status,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.txRepo.Append(ctx, txn); err != nil {
		s.log.Warn().Err(err).
			Int64("sender_id", req.SenderID).
			Str("status", string(status)).
			Msg("transaction log append failed")
	}
	return txn
}
