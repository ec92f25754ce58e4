package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionLogRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionLogRepository(db)

	statusCode := 400
	mock.ExpectQuery("SELECT count(.+) FROM `transaction_logs`").
		WithArgs("u1", statusCode).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT (.+) FROM `transaction_logs` (.+) ORDER BY created_at DESC").
		WithArgs("u1", statusCode).
		WillReturnRows(sqlmock.NewRows([]string{"id", "endpoint", "status_code"}).
			AddRow(1, "/api/investments", 400).
			AddRow(2, "/api/auth/login", 401))

	logs, total, err := repo.List(context.Background(), &TransactionLogFilter{
		UserID:     "u1",
		StatusCode: &statusCode,
		Page:       1,
		Limit:      20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, logs, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionLogRepository_ListErrors(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionLogRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM `transaction_logs` WHERE user_id = (.+) AND status_code >= ?").
		WithArgs("u1", 400).
		WillReturnRows(sqlmock.NewRows([]string{"endpoint", "status_code"}).
			AddRow("/api/investments", 400))

	logs, err := repo.ListErrors(context.Background(), "u1", 100)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 400, logs[0].StatusCode)
}
