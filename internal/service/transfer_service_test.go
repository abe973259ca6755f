package service

import (
	"context"
	"errors"
	"testing"

	"sms-payment-service/internal/core/domain"
	"sms-payment-service/internal/core/ports"
	"sms-payment-service/internal/core/ports/mocks"
	"sms-payment-service/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type transferTestDeps struct {
	svc        *TransferServiceImpl
	userRepo   *mocks.MockUserRepository
	txRepo     *mocks.MockTransactionRepository
	transactor *mocks.MockDBTransactor
	notifier   *mocks.MockNotificationSink
	ctrl       *gomock.Controller
}

func setupTransferService(t *testing.T) *transferTestDeps {
	ctrl := gomock.NewController(t)
	d := &transferTestDeps{
		userRepo:   mocks.NewMockUserRepository(ctrl),
		txRepo:     mocks.NewMockTransactionRepository(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		notifier:   mocks.NewMockNotificationSink(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewTransferService(d.userRepo, d.txRepo, d.transactor, d.notifier, zerolog.Nop())
	return d
}

// mockTx implements pgx.Tx for testing
type mockTx struct{ pgx.Tx }

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return nil }

func userWithBalance(id int64, balance string) *domain.User {
	return &domain.User{
		ID:      id,
		Balance: decimal.RequireFromString(balance),
	}
}

func TestTransferService_Transfer_Success(t *testing.T) {
	d := setupTransferService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	amount := decimal.RequireFromString("100")
	req := domain.TransferRequest{SenderID: 5, ReceiverID: 9, Amount: amount}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	// Rows are locked lowest id first.
	gomock.InOrder(
		d.userRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(5)).Return(userWithBalance(5, "250"), nil),
		d.userRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(9)).Return(userWithBalance(9, "0"), nil),
	)
	d.userRepo.EXPECT().Debit(ctx, tx, int64(5), amount).Return(nil)
	d.userRepo.EXPECT().Credit(ctx, tx, int64(9), amount).Return(nil)
	d.txRepo.EXPECT().Append(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, txn *domain.Transaction) error {
			assert.Equal(t, int64(5), txn.SenderID)
			assert.Equal(t, int64(9), txn.ReceiverID)
			assert.Equal(t, domain.TransferStatusSuccessful, txn.Status)
			return nil
		})
	d.notifier.EXPECT().Notify(ctx, int64(5), amount, "successful", ports.DirectionSent)
	d.notifier.EXPECT().Notify(ctx, int64(9), amount, "successful", ports.DirectionReceived)

	result, err := d.svc.Transfer(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.TransferOutcomeCompleted, result.Outcome)
	assert.Equal(t, "100|successful", result.Message)
	assert.Equal(t, domain.TransferStatusSuccessful, result.Transaction.Status)
}

func TestTransferService_Transfer_LockOrderDescendingIDs(t *testing.T) {
	d := setupTransferService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	amount := decimal.RequireFromString("10")
	req := domain.TransferRequest{SenderID: 9, ReceiverID: 5, Amount: amount}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	// The lower id is still locked first even when it is the receiver.
	gomock.InOrder(
		d.userRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(5)).Return(userWithBalance(5, "0"), nil),
		d.userRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(9)).Return(userWithBalance(9, "50"), nil),
	)
	d.userRepo.EXPECT().Debit(ctx, tx, int64(9), amount).Return(nil)
	d.userRepo.EXPECT().Credit(ctx, tx, int64(5), amount).Return(nil)
	d.txRepo.EXPECT().Append(ctx, gomock.Any()).Return(nil)
	d.notifier.EXPECT().Notify(ctx, int64(9), amount, "successful", ports.DirectionSent)
	d.notifier.EXPECT().Notify(ctx, int64(5), amount, "successful", ports.DirectionReceived)

	result, err := d.svc.Transfer(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.TransferOutcomeCompleted, result.Outcome)
}

func TestTransferService_Transfer_InsufficientBalance(t *testing.T) {
	d := setupTransferService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	amount := decimal.RequireFromString("500")
	req := domain.TransferRequest{SenderID: 5, ReceiverID: 9, Amount: amount}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.userRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(5)).Return(userWithBalance(5, "100"), nil)
	d.userRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(9)).Return(userWithBalance(9, "0"), nil)
	d.txRepo.EXPECT().Append(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, txn *domain.Transaction) error {
			assert.Equal(t, domain.TransferStatusInsufficientBalance, txn.Status)
			return nil
		})
	d.notifier.EXPECT().Notify(ctx, int64(5), amount, "unsuccessful", ports.DirectionSent)

	result, err := d.svc.Transfer(ctx, req)
	assert.Nil(t, result)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INSUFFICIENT_FUNDS", appErr.Code)
	assert.Equal(t, "500|unsuccessful", appErr.Message)
}

func TestTransferService_Transfer_UnknownSender(t *testing.T) {
	d := setupTransferService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	amount := decimal.RequireFromString("50")
	req := domain.TransferRequest{SenderID: 404, ReceiverID: 9, Amount: amount}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.userRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(9)).Return(userWithBalance(9, "0"), nil)
	// Unknown sender reads as no funds at all.
	d.userRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(404)).Return(nil, nil)
	d.txRepo.EXPECT().Append(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, txn *domain.Transaction) error {
			assert.Equal(t, domain.TransferStatusInsufficientBalance, txn.Status)
			return nil
		})
	d.notifier.EXPECT().Notify(ctx, int64(404), amount, "unsuccessful", ports.DirectionSent)

	_, err := d.svc.Transfer(ctx, req)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INSUFFICIENT_FUNDS", appErr.Code)
}

func TestTransferService_Transfer_UnknownReceiver(t *testing.T) {
	d := setupTransferService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	amount := decimal.RequireFromString("50")
	req := domain.TransferRequest{SenderID: 5, ReceiverID: 404, Amount: amount}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.userRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(5)).Return(userWithBalance(5, "100"), nil)
	d.userRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(404)).Return(nil, nil)
	d.txRepo.EXPECT().Append(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, txn *domain.Transaction) error {
			assert.Equal(t, domain.TransferStatusFailed, txn.Status)
			return nil
		})
	d.notifier.EXPECT().Notify(ctx, int64(5), amount, "failed", ports.DirectionSent)

	_, err := d.svc.Transfer(ctx, req)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "TRANSACTION_FAILED", appErr.Code)
	assert.Equal(t, "50|failed", appErr.Message)
}

func TestTransferService_Transfer_DebitFails(t *testing.T) {
	d := setupTransferService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	amount := decimal.RequireFromString("20")
	req := domain.TransferRequest{SenderID: 5, ReceiverID: 9, Amount: amount}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.userRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(5)).Return(userWithBalance(5, "100"), nil)
	d.userRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(9)).Return(userWithBalance(9, "0"), nil)
	d.userRepo.EXPECT().Debit(ctx, tx, int64(5), amount).Return(errors.New("connection reset"))
	d.txRepo.EXPECT().Append(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, txn *domain.Transaction) error {
			assert.Equal(t, domain.TransferStatusFailed, txn.Status)
			return nil
		})
	d.notifier.EXPECT().Notify(ctx, int64(5), amount, "failed", ports.DirectionSent)

	_, err := d.svc.Transfer(ctx, req)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "TRANSACTION_FAILED", appErr.Code)
}

func TestTransferService_Transfer_CreditFails(t *testing.T) {
	d := setupTransferService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	amount := decimal.RequireFromString("20")
	req := domain.TransferRequest{SenderID: 5, ReceiverID: 9, Amount: amount}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.userRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(5)).Return(userWithBalance(5, "100"), nil)
	d.userRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(9)).Return(userWithBalance(9, "0"), nil)
	d.userRepo.EXPECT().Debit(ctx, tx, int64(5), amount).Return(nil)
	d.userRepo.EXPECT().Credit(ctx, tx, int64(9), amount).Return(errors.New("connection reset"))
	d.txRepo.EXPECT().Append(ctx, gomock.Any()).Return(nil)
	d.notifier.EXPECT().Notify(ctx, int64(5), amount, "failed", ports.DirectionSent)

	_, err := d.svc.Transfer(ctx, req)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "TRANSACTION_FAILED", appErr.Code)
}

func TestTransferService_Transfer_AppendFailureDoesNotBlockOutcome(t *testing.T) {
	d := setupTransferService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	amount := decimal.RequireFromString("10")
	req := domain.TransferRequest{SenderID: 5, ReceiverID: 9, Amount: amount}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.userRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(5)).Return(userWithBalance(5, "100"), nil)
	d.userRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(9)).Return(userWithBalance(9, "0"), nil)
	d.userRepo.EXPECT().Debit(ctx, tx, int64(5), amount).Return(nil)
	d.userRepo.EXPECT().Credit(ctx, tx, int64(9), amount).Return(nil)
	d.txRepo.EXPECT().Append(ctx, gomock.Any()).Return(errors.New("log table unavailable"))
	d.notifier.EXPECT().Notify(ctx, int64(5), amount, "successful", ports.DirectionSent)
	d.notifier.EXPECT().Notify(ctx, int64(9), amount, "successful", ports.DirectionReceived)

	result, err := d.svc.Transfer(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.TransferOutcomeCompleted, result.Outcome)
}

func TestTransferService_Transfer_NonPositiveAmount(t *testing.T) {
	d := setupTransferService(t)
	defer d.ctrl.Finish()

	for _, raw := range []string{"0", "-5"} {
		req := domain.TransferRequest{
			SenderID:   5,
			ReceiverID: 9,
			Amount:     decimal.RequireFromString(raw),
		}
		_, err := d.svc.Transfer(context.Background(), req)

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "INVALID_REQUEST", appErr.Code)
	}
}

func TestTransferService_Transfer_SelfTransfer(t *testing.T) {
	d := setupTransferService(t)
	defer d.ctrl.Finish()

	req := domain.TransferRequest{
		SenderID:   5,
		ReceiverID: 5,
		Amount:     decimal.RequireFromString("10"),
	}
	_, err := d.svc.Transfer(context.Background(), req)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INVALID_REQUEST", appErr.Code)
}

func TestTransferService_Transfer_BeginFails(t *testing.T) {
	d := setupTransferService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	req := domain.TransferRequest{
		SenderID:   5,
		ReceiverID: 9,
		Amount:     decimal.RequireFromString("10"),
	}
	d.transactor.EXPECT().Begin(ctx).Return(nil, errors.New("pool exhausted"))

	_, err := d.svc.Transfer(ctx, req)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "STORAGE_ERROR", appErr.Code)
}
