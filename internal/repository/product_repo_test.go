package repository

import (
	"context"
	"testing"

	"wealthee/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository_List(t *testing.T) {
	t.Run("条件全部参数化", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewProductRepository(db)

		minYield := 5.0
		maxYield := 10.0

		mock.ExpectQuery("SELECT count(.+) FROM `investment_products`").
			WithArgs(true, "bond", "low", minYield, maxYield).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery("SELECT (.+) FROM `investment_products` (.+) ORDER BY annual_yield DESC").
			WithArgs(true, "bond", "low", minYield, maxYield).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("p1", "Gov Bond"))

		products, total, err := repo.List(context.Background(), &ProductFilter{
			Type:      "bond",
			RiskLevel: "low",
			MinYield:  &minYield,
			MaxYield:  &maxYield,
			Page:      1,
			Limit:     20,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, products, 1)
		assert.Equal(t, "Gov Bond", products[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("白名单外的排序字段回退默认", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewProductRepository(db)

		mock.ExpectQuery("SELECT count(.+) FROM `investment_products`").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		// 注入尝试直接被无视，排序回到 annual_yield DESC
		mock.ExpectQuery("SELECT (.+) ORDER BY annual_yield DESC").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, _, err := repo.List(context.Background(), &ProductFilter{
			SortBy: "name; DROP TABLE users--",
			Page:   1,
			Limit:  20,
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("白名单内的排序字段生效", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewProductRepository(db)

		mock.ExpectQuery("SELECT count(.+) FROM `investment_products`").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery("SELECT (.+) ORDER BY min_investment ASC").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, _, err := repo.List(context.Background(), &ProductFilter{
			SortBy: "min_investment",
			Order:  "ASC",
			Page:   1,
			Limit:  20,
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepository_GetActiveByID(t *testing.T) {
	t.Run("下架产品等同不存在", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewProductRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM `investment_products` WHERE id = (.+) AND is_active = ?").
			WithArgs("p1", true).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetActiveByID(context.Background(), "p1")
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

// 提交与库里一致的值时 MySQL 报 0 行受影响，幂等更新不等于产品不存在
func TestProductRepository_Update_NoChangeIsNotAnError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db)

	mock.ExpectExec("UPDATE `investment_products` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &model.Product{ID: "p1", Name: "Gov Bond"})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
