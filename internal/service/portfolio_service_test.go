package service

import (
	"context"
	"testing"

	"wealthee/internal/config"
	"wealthee/internal/infrastructure/ai"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summaryColumns() []string {
	return []string{
		"total_investments", "total_invested", "total_expected_returns",
		"average_yield", "active_investments", "matured_investments", "new_this_month",
	}
}

func TestPortfolioSummary(t *testing.T) {
	t.Run("有持仓", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewPortfolioService(db, NewAIService(ai.NewClient(&config.AIConfig{})))

		mock.ExpectQuery("SELECT COUNT(.+) FROM `investments`").
			WillReturnRows(sqlmock.NewRows(summaryColumns()).
				AddRow(3, 10000.0, 10900.0, 7.5, 2, 1, 1))

		summary, err := svc.Summary(context.Background(), "user-1")
		require.NoError(t, err)

		assert.Equal(t, 10000.0, summary.TotalValue)
		assert.Equal(t, 10900.0, summary.ExpectedReturns)
		assert.InDelta(t, 9.0, summary.TotalGains, 0.001)
		assert.Equal(t, 7.5, summary.AverageYield)
		assert.Equal(t, int64(2), summary.ActiveInvestments)
		assert.Equal(t, int64(1), summary.MaturedInvestments)
		assert.Equal(t, int64(1), summary.NewThisMonth)
	})

	t.Run("空仓不做除零", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewPortfolioService(db, NewAIService(ai.NewClient(&config.AIConfig{})))

		mock.ExpectQuery("SELECT COUNT(.+) FROM `investments`").
			WillReturnRows(sqlmock.NewRows(summaryColumns()).
				AddRow(0, 0.0, 0.0, 0.0, 0, 0, 0))

		summary, err := svc.Summary(context.Background(), "user-1")
		require.NoError(t, err)

		assert.Equal(t, 0.0, summary.TotalValue)
		assert.Equal(t, 0.0, summary.TotalGains)
		assert.Equal(t, 0.0, summary.AverageYield)
	})
}

func TestPortfolioInsights_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewPortfolioService(db, NewAIService(ai.NewClient(&config.AIConfig{})))

	mock.ExpectQuery("SELECT investments(.+) FROM `investments`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	view, err := svc.Insights(context.Background(), "user-1", "moderate")
	require.NoError(t, err)

	assert.Equal(t, "No active investments", view.Message)
	assert.Equal(t, 0, view.Holdings)
	assert.Equal(t, 0.0, view.TotalValue)
	assert.Equal(t, 0.0, view.TotalGains)
	assert.Equal(t, "", view.PortfolioStrategy)
	assert.NotNil(t, view.RiskDistribution)
	assert.NotNil(t, view.RiskWarnings)
	assert.Empty(t, view.RiskWarnings)
	assert.Nil(t, view.Insights)
}

func TestPortfolioInsights_WithHoldings(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewPortfolioService(db, NewAIService(ai.NewClient(&config.AIConfig{})))

	mock.ExpectQuery("SELECT investments(.+) FROM `investments`").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "amount", "risk_level", "annual_yield",
		}).
			AddRow("inv-1", 5000.0, "low", 6.0).
			AddRow("inv-2", 3000.0, "high", 10.0))

	view, err := svc.Insights(context.Background(), "user-1", "moderate")
	require.NoError(t, err)

	assert.Equal(t, 2, view.Holdings)
	assert.Equal(t, 8000.0, view.TotalValue)
	assert.InDelta(t, 8.0, view.AverageYield, 0.001)
	assert.InDelta(t, 8.0, view.TotalGains, 0.001)

	// 外部服务不可用，结果必须是结构完整的降级变体
	require.NotNil(t, view.Insights)
	assert.Equal(t, InsightSourceFallback, view.Insights.Source)
	assert.NotEmpty(t, view.Insights.Insights)
	assert.NotEmpty(t, view.Insights.Recommendations)
}
