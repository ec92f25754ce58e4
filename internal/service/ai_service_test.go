package service

import (
	"context"
	"testing"

	"wealthee/internal/config"
	"wealthee/internal/infrastructure/ai"
	"wealthee/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 未配置 API key 时所有能力都走本地降级路径
func newOfflineAIService() *AIService {
	return NewAIService(ai.NewClient(&config.AIConfig{}))
}

func TestAnalyzePasswordStrength_Fallback(t *testing.T) {
	s := newOfflineAIService()
	ctx := context.Background()

	tests := []struct {
		name     string
		password string
		score    int
		strength string
	}{
		{"全部规则命中", "Str0ng!Password", 100, "strong"},
		{"缺特殊字符", "Password1234", 85, "strong"},
		{"八位混合", "Abcdef1!", 90, "strong"},
		{"纯小写短密码", "abc", 20, "weak"},
		{"纯数字", "12345678", 35, "weak"},
		{"小写加数字八位", "abcdef12", 55, "weak"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := s.AnalyzePasswordStrength(ctx, tt.password)
			assert.Equal(t, tt.score, a.Score)
			assert.Equal(t, tt.strength, a.Strength)
			assert.Equal(t, len(tt.password), a.Length)
		})
	}
}

func TestAnalyzePasswordStrength_Suggestions(t *testing.T) {
	s := newOfflineAIService()

	a := s.AnalyzePasswordStrength(context.Background(), "abc")
	assert.Contains(t, a.Issues, "Password too short (minimum 8 characters)")
	assert.Contains(t, a.Suggestions, "Add uppercase letters (A-Z)")
	assert.Contains(t, a.Suggestions, "Add numbers (0-9)")
	assert.Contains(t, a.Suggestions, "Add special characters (!@#$%^&*)")
	assert.False(t, a.HasUppercase)
	assert.True(t, a.HasLowercase)
}

func TestGeneratePortfolioInsights_Fallback(t *testing.T) {
	s := newOfflineAIService()

	investments := []*model.InvestmentDetail{
		{Investment: model.Investment{Amount: 5000}, RiskLevel: "low", AnnualYield: 6},
		{Investment: model.Investment{Amount: 3000}, RiskLevel: "high", AnnualYield: 10},
	}

	insights := s.GeneratePortfolioInsights(context.Background(), investments, model.RiskAppetiteModerate)
	require.NotNil(t, insights)

	assert.Equal(t, InsightSourceFallback, insights.Source)
	assert.Equal(t, float64(50), insights.RiskDistribution["low"])
	assert.Equal(t, float64(50), insights.RiskDistribution["high"])
	assert.Equal(t, float64(0), insights.RiskDistribution["moderate"])
	// 2 笔持仓：2*15+30 = 60
	assert.Equal(t, 60, insights.DiversificationScore)
	assert.Equal(t, float64(8), insights.ExpectedReturns.Annual)
	assert.InDelta(t, 8000*1.08, insights.ExpectedReturns.Total, 0.01)

	// 持仓少于 3 笔必须有高优先级的 opportunity 洞察
	var hasOpportunity bool
	for _, in := range insights.Insights {
		if in.Type == "opportunity" && in.Priority == "high" {
			hasOpportunity = true
		}
	}
	assert.True(t, hasOpportunity)
}

func TestGeneratePortfolioInsights_DiversificationCap(t *testing.T) {
	s := newOfflineAIService()

	var investments []*model.InvestmentDetail
	for i := 0; i < 6; i++ {
		investments = append(investments, &model.InvestmentDetail{
			Investment:  model.Investment{Amount: 1000},
			RiskLevel:   "moderate",
			AnnualYield: 7,
		})
	}

	insights := s.GeneratePortfolioInsights(context.Background(), investments, model.RiskAppetiteModerate)
	// 6*15+30 = 120，封顶 90
	assert.Equal(t, 90, insights.DiversificationScore)
	assert.Equal(t, float64(100), insights.RiskDistribution["moderate"])
}

func TestRecommendProducts_Fallback(t *testing.T) {
	s := newOfflineAIService()

	products := []*model.Product{
		{ID: "p1", Name: "Gov Bond", InvestmentType: model.InvestmentTypeBond},
		{ID: "p2", Name: "Tech ETF", InvestmentType: model.InvestmentTypeETF},
		{ID: "p3", Name: "Fixed Deposit", InvestmentType: model.InvestmentTypeFD},
		{ID: "p4", Name: "Index MF", InvestmentType: model.InvestmentTypeMF},
	}

	recs := s.RecommendProducts(context.Background(), model.RiskAppetiteLow, products)
	require.NotNil(t, recs)
	assert.Equal(t, InsightSourceFallback, recs.Source)

	// 低风险偏好只匹配 bond 和 fd
	require.Len(t, recs.Recommendations, 2)
	assert.Equal(t, "p1", recs.Recommendations[0].ProductID)
	assert.Equal(t, 85, recs.Recommendations[0].RecommendationScore)
	assert.Equal(t, "p3", recs.Recommendations[1].ProductID)
	assert.Equal(t, 80, recs.Recommendations[1].RecommendationScore)
	assert.Equal(t, "33%", recs.Recommendations[0].SuggestedAllocation)

	assert.Contains(t, recs.PortfolioStrategy, "capital preservation")
	assert.Len(t, recs.RiskWarnings, 3)
}

func TestRecommendProducts_HighRiskMapping(t *testing.T) {
	s := newOfflineAIService()

	products := []*model.Product{
		{ID: "p1", Name: "Gov Bond", InvestmentType: model.InvestmentTypeBond},
		{ID: "p2", Name: "Tech ETF", InvestmentType: model.InvestmentTypeETF},
	}

	recs := s.RecommendProducts(context.Background(), model.RiskAppetiteHigh, products)
	require.Len(t, recs.Recommendations, 1)
	assert.Equal(t, "p2", recs.Recommendations[0].ProductID)
	assert.Contains(t, recs.PortfolioStrategy, "growth maximization")
}

func TestGenerateProductDescription_Template(t *testing.T) {
	s := newOfflineAIService()

	desc := s.GenerateProductDescription(context.Background(), &model.Product{
		Name:           "Treasury Bond",
		InvestmentType: model.InvestmentTypeBond,
		AnnualYield:    6.5,
		RiskLevel:      "low",
		TenureMonths:   24,
	})
	assert.Equal(t, "Treasury Bond is a bond investment offering 6.50% annual returns with low risk level over 24 months.", desc)
}

func TestSummarizeErrors(t *testing.T) {
	s := newOfflineAIService()
	ctx := context.Background()

	t.Run("无错误", func(t *testing.T) {
		summary := s.SummarizeErrors(ctx, nil)
		assert.Equal(t, 0, summary.ErrorCount)
		assert.Equal(t, "No errors found in recent transactions.", summary.Summary)
	})

	t.Run("有错误走本地统计", func(t *testing.T) {
		msg := "Insufficient balance"
		logs := []*model.TransactionLog{
			{StatusCode: 400, ErrorMessage: &msg},
			{StatusCode: 500},
		}
		summary := s.SummarizeErrors(ctx, logs)
		assert.Equal(t, 2, summary.ErrorCount)
		assert.Equal(t, "Insufficient balance", summary.MostCommonError)
		assert.NotEmpty(t, summary.Recommendations)
	})
}
