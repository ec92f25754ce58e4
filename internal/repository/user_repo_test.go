package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM `users` WHERE email = ?").
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	user, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM `users` WHERE id = ?").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_Debit(t *testing.T) {
	t.Run("余额充足扣减成功", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectExec("UPDATE `users` SET").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Debit(context.Background(), db, "u1", 500)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("余额不足返回哨兵错误", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		// 条件更新没命中行，回查用户区分"没钱"和"没人"
		mock.ExpectExec("UPDATE `users` SET").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT (.+) FROM `users` WHERE id = ?").
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "balance"}).AddRow("u1", 100.0))

		err := repo.Debit(context.Background(), db, "u1", 500)
		assert.ErrorIs(t, err, ErrBalanceNotEnough)
	})

	t.Run("用户不存在返回哨兵错误", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectExec("UPDATE `users` SET").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT (.+) FROM `users` WHERE id = ?").
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		err := repo.Debit(context.Background(), db, "ghost", 500)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

// 重复提交未变化的资料时 MySQL 报 0 行受影响，不能当成用户不存在
func TestUserRepository_UpdateProfile_NoChangeIsNotAnError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE `users` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateProfile(context.Background(), "u1", "Ann", "Lee", "moderate")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByIDForUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM `users` WHERE id = (.+) FOR UPDATE").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "balance"}).AddRow("u1", 10000.0))

	user, err := repo.GetByIDForUpdate(context.Background(), db, "u1")
	require.NoError(t, err)
	assert.Equal(t, 10000.0, user.Balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}
