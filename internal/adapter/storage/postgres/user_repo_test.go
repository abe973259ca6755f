package postgres

import (
	"context"
	"testing"
	"time"

	"sms-payment-service/internal/core/domain"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(id int64, balance string) *domain.User {
	return &domain.User{
		ID:           id,
		Email:        "alice@example.com",
		PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$salt$hash",
		Name:         "Alice",
		PhoneNumber:  "+15550001111",
		Balance:      decimal.RequireFromString(balance),
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

func userColumnNames() []string {
	return []string{"id", "email", "password_hash", "name", "phone_number", "balance", "created_at", "updated_at"}
}

func userRow(u *domain.User) *pgxmock.Rows {
	return pgxmock.NewRows(userColumnNames()).AddRow(
		u.ID, u.Email, u.PasswordHash, u.Name,
		u.PhoneNumber, u.Balance, u.CreatedAt, u.UpdatedAt,
	)
}

func TestUserRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	u := newTestUser(0, "0")

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(u.Email, u.PasswordHash, u.Name, u.PhoneNumber,
			u.Balance, u.CreatedAt, u.UpdatedAt).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	err = repo.Create(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	u := newTestUser(5, "250.50")

	mock.ExpectQuery("SELECT .+ FROM users WHERE id").
		WithArgs(u.ID).
		WillReturnRows(userRow(u))

	result, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, u.ID, result.ID)
	assert.True(t, u.Balance.Equal(result.Balance))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM users WHERE id").
		WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows(userColumnNames()))

	result, err := repo.GetByID(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	u := newTestUser(5, "100")

	mock.ExpectQuery("SELECT .+ FROM users WHERE email").
		WithArgs(u.Email).
		WillReturnRows(userRow(u))

	result, err := repo.GetByEmail(context.Background(), u.Email)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, u.Email, result.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByIDForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	u := newTestUser(5, "100")

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM users WHERE id .+ FOR UPDATE").
		WithArgs(u.ID).
		WillReturnRows(userRow(u))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	result, err := repo.GetByIDForUpdate(context.Background(), tx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, u.ID, result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Debit_Guarded(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	amount := decimal.RequireFromString("40")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET balance = balance - .+ AND balance >=").
		WithArgs(amount, int64(5)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Debit(context.Background(), tx, 5, amount)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Debit_NoMatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	amount := decimal.RequireFromString("40")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET balance = balance -").
		WithArgs(amount, int64(5)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Debit(context.Background(), tx, 5, amount)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Credit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	amount := decimal.RequireFromString("40")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET balance = balance \\+").
		WithArgs(amount, int64(9)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Credit(context.Background(), tx, 9, amount)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_TopUp(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	amount := decimal.RequireFromString("50")
	u := newTestUser(3, "100")

	mock.ExpectQuery("UPDATE users SET balance = balance \\+ .+ RETURNING").
		WithArgs(amount, u.ID).
		WillReturnRows(userRow(u))

	result, err := repo.TopUp(context.Background(), u.ID, amount)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Balance.Equal(u.Balance))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_TopUp_UnknownID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	amount := decimal.RequireFromString("50")

	mock.ExpectQuery("UPDATE users SET balance = balance \\+ .+ RETURNING").
		WithArgs(amount, int64(404)).
		WillReturnRows(pgxmock.NewRows(userColumnNames()))

	result, err := repo.TopUp(context.Background(), 404, amount)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}
