package auth

import (
	"context"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"

	"github.com/careerbridge/careerbridge-api/internal/api"
)

func newMockRepo(t *testing.T) (*PostgresAuthRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	assert.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return NewPostgresAuthRepo(mockPool, slog.Default()), mockPool
}

func TestInsertDuplicate(t *testing.T) {
	repo, mockPool := newMockRepo(t)
	ctx := context.Background()

	account := &Account{
		ID:           uuid.New(),
		Username:     "jdoe",
		Email:        "jdoe@example.com",
		PasswordHash: "hash",
		Role:         RoleStudent,
		IsActive:     true,
	}

	mockPool.ExpectExec("INSERT INTO users").
		WithArgs(account.ID, account.Username, account.Fullname, account.Email,
			account.PasswordHash, account.Role, account.ProfilePicture, account.Bio,
			account.Location, account.Skills, account.SocialLinks, account.StudentInfo,
			account.RecruiterInfo, account.IsVerified, account.VerificationToken,
			account.IsActive, account.CreatedAt, account.UpdatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Insert(ctx, account)

	assert.ErrorIs(t, err, api.ErrConflict)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestConsumeVerificationToken(t *testing.T) {
	ctx := context.Background()

	t.Run("Consumed", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)

		mockPool.ExpectExec(regexp.QuoteMeta("UPDATE users")).
			WithArgs(pgxmock.AnyArg(), "tok123").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.ConsumeVerificationToken(ctx, "tok123"))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NoHolder", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)

		mockPool.ExpectExec(regexp.QuoteMeta("UPDATE users")).
			WithArgs(pgxmock.AnyArg(), "tok123").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		assert.ErrorIs(t, repo.ConsumeVerificationToken(ctx, "tok123"), api.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestConsumeResetToken(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("ValidToken", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)

		mockPool.ExpectExec(regexp.QuoteMeta("UPDATE users")).
			WithArgs("new-hash", now, "reset-tok", now).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.ConsumeResetToken(ctx, "reset-tok", "new-hash", now))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("ExpiredOrUnknown", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)

		mockPool.ExpectExec(regexp.QuoteMeta("UPDATE users")).
			WithArgs("new-hash", now, "reset-tok", now).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		assert.ErrorIs(t, repo.ConsumeResetToken(ctx, "reset-tok", "new-hash", now), api.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestFindByEmailNotFound(t *testing.T) {
	repo, mockPool := newMockRepo(t)
	ctx := context.Background()

	mockPool.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("nobody@example.com").
		WillReturnRows(mockPool.NewRows([]string{"id"}))

	account, err := repo.FindByEmail(ctx, "nobody@example.com")

	assert.Nil(t, account)
	assert.ErrorIs(t, err, api.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestDeactivate(t *testing.T) {
	repo, mockPool := newMockRepo(t)
	ctx := context.Background()
	id := uuid.New()

	mockPool.ExpectExec(regexp.QuoteMeta("UPDATE users SET is_active = FALSE")).
		WithArgs(pgxmock.AnyArg(), id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, repo.Deactivate(ctx, id))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
