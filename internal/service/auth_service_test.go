package service

import (
	"context"
	"errors"
	"testing"

	"sms-payment-service/internal/core/domain"
	"sms-payment-service/internal/core/ports"
	"sms-payment-service/internal/core/ports/mocks"
	"sms-payment-service/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type authTestDeps struct {
	svc      *AuthServiceImpl
	userRepo *mocks.MockUserRepository
	hashSvc  *mocks.MockHashService
	ctrl     *gomock.Controller
}

func setupAuthService(t *testing.T) *authTestDeps {
	ctrl := gomock.NewController(t)
	d := &authTestDeps{
		userRepo: mocks.NewMockUserRepository(ctrl),
		hashSvc:  mocks.NewMockHashService(ctrl),
		ctrl:     ctrl,
	}
	d.svc = NewAuthService(d.userRepo, d.hashSvc)
	return d
}

func TestAuthService_Signup_Success(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	req := ports.SignupRequest{
		Email:       "alice@example.com",
		Password:    "s3cret-pass",
		Name:        "Alice",
		PhoneNumber: "+15550001111",
	}

	d.userRepo.EXPECT().GetByEmail(ctx, "alice@example.com").Return(nil, nil)
	d.hashSvc.EXPECT().Hash("s3cret-pass").Return("$argon2id$hash", nil)
	d.userRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, u *domain.User) error {
			assert.Equal(t, "alice@example.com", u.Email)
			assert.Equal(t, "$argon2id$hash", u.PasswordHash)
			assert.Equal(t, "+15550001111", u.PhoneNumber)
			assert.True(t, u.Balance.IsZero())
			u.ID = 42
			return nil
		})

	id, err := d.svc.Signup(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestAuthService_Signup_EmailTaken(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.userRepo.EXPECT().GetByEmail(ctx, "alice@example.com").
		Return(&domain.User{ID: 1, Email: "alice@example.com"}, nil)

	_, err := d.svc.Signup(ctx, ports.SignupRequest{Email: "alice@example.com", Password: "x"})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "EMAIL_TAKEN", appErr.Code)
}

func TestAuthService_Signup_HashFailure(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.userRepo.EXPECT().GetByEmail(ctx, gomock.Any()).Return(nil, nil)
	d.hashSvc.EXPECT().Hash(gomock.Any()).Return("", errors.New("entropy exhausted"))

	_, err := d.svc.Signup(ctx, ports.SignupRequest{Email: "a@b.c", Password: "x"})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "STORAGE_ERROR", appErr.Code)
}

func TestAuthService_Login_Success(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.userRepo.EXPECT().GetByEmail(ctx, "alice@example.com").
		Return(&domain.User{ID: 7, Email: "alice@example.com", PasswordHash: "$argon2id$hash"}, nil)
	d.hashSvc.EXPECT().Verify("s3cret-pass", "$argon2id$hash").Return(true, nil)

	id, err := d.svc.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.userRepo.EXPECT().GetByEmail(ctx, "nobody@example.com").Return(nil, nil)

	_, err := d.svc.Login(ctx, "nobody@example.com", "whatever")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.HTTPStatus)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.userRepo.EXPECT().GetByEmail(ctx, "alice@example.com").
		Return(&domain.User{ID: 7, PasswordHash: "$argon2id$hash"}, nil)
	d.hashSvc.EXPECT().Verify("wrong", "$argon2id$hash").Return(false, nil)

	_, err := d.svc.Login(ctx, "alice@example.com", "wrong")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 401, appErr.HTTPStatus)
}
