package service

import (
	"context"
	"fmt"
	"time"

	"wealthee/internal/repository"

	"gorm.io/gorm"
)

// PortfolioSummary 持仓汇总视图
// TotalGains 是基于预期收益的"预计收益率"，不是已实现收益
type PortfolioSummary struct {
	TotalValue         float64 `json:"totalValue"`
	ExpectedReturns    float64 `json:"expectedReturns"`
	TotalGains         float64 `json:"totalGains"`
	AverageYield       float64 `json:"averageYield"`
	ActiveInvestments  int64   `json:"activeInvestments"`
	MaturedInvestments int64   `json:"maturedInvestments"`
	NewThisMonth       int64   `json:"newThisMonth"`
}

// InsightsView 洞察接口出参
type InsightsView struct {
	Message  string             `json:"message,omitempty"`
	Holdings int                `json:"holdings"`
	Insights *PortfolioInsights `json:"insights,omitempty"`

	// 空仓时的归零指标，结构上始终可解析
	TotalValue        float64            `json:"totalValue"`
	ExpectedReturns   float64            `json:"expectedReturns"`
	TotalGains        float64            `json:"totalGains"`
	AverageYield      float64            `json:"averageYield"`
	RiskDistribution  map[string]float64 `json:"riskDistribution"`
	PortfolioStrategy string             `json:"portfolioStrategy"`
	RiskWarnings      []string           `json:"riskWarnings"`
}

type PortfolioService struct {
	db             *gorm.DB
	investmentRepo *repository.InvestmentRepository
	aiService      *AIService
}

func NewPortfolioService(db *gorm.DB, aiService *AIService) *PortfolioService {
	return &PortfolioService{
		db:             db,
		investmentRepo: repository.NewInvestmentRepository(db),
		aiService:      aiService,
	}
}

// Summary 持仓汇总，一条聚合 SQL
func (s *PortfolioService) Summary(ctx context.Context, userID string) (*PortfolioSummary, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	row, err := s.investmentRepo.Summarize(ctx, userID, monthStart)
	if err != nil {
		return nil, fmt.Errorf("持仓汇总查询失败: %w", err)
	}

	summary := &PortfolioSummary{
		TotalValue:         row.TotalInvested,
		ExpectedReturns:    row.TotalExpectedReturns,
		AverageYield:       row.AverageYield,
		ActiveInvestments:  row.ActiveInvestments,
		MaturedInvestments: row.MaturedInvestments,
		NewThisMonth:       row.NewThisMonth,
	}

	// 空仓时收益率为 0，不做除零
	if row.TotalInvested > 0 {
		summary.TotalGains = (row.TotalExpectedReturns - row.TotalInvested) / row.TotalInvested * 100
	}

	return summary, nil
}

// Insights 持仓洞察
// 外部生成服务挂掉时由 AIService 降级，这条路径永远不返回 5xx
func (s *PortfolioService) Insights(ctx context.Context, userID, riskAppetite string) (*InsightsView, error) {
	investments, err := s.investmentRepo.ListActiveDetails(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("查询活跃持仓失败: %w", err)
	}

	if len(investments) == 0 {
		return emptyInsightsView(), nil
	}

	insights := s.aiService.GeneratePortfolioInsights(ctx, investments, riskAppetite)

	var totalValue, yieldSum float64
	for _, inv := range investments {
		totalValue += inv.Amount
		yieldSum += inv.AnnualYield
	}
	averageYield := yieldSum / float64(len(investments))

	view := &InsightsView{
		Holdings:         len(investments),
		Insights:         insights,
		TotalValue:       totalValue,
		ExpectedReturns:  insights.ExpectedReturns.Total,
		AverageYield:     averageYield,
		RiskDistribution: insights.RiskDistribution,
		RiskWarnings:     []string{},
	}
	if totalValue > 0 {
		view.TotalGains = (insights.ExpectedReturns.Total - totalValue) / totalValue * 100
	}
	return view, nil
}

// emptyInsightsView 空仓的规范返回：指标归零、分布为空、无洞察
func emptyInsightsView() *InsightsView {
	return &InsightsView{
		Message:           "No active investments",
		Holdings:          0,
		TotalValue:        0,
		ExpectedReturns:   0,
		TotalGains:        0,
		AverageYield:      0,
		RiskDistribution:  map[string]float64{},
		PortfolioStrategy: "",
		RiskWarnings:      []string{},
	}
}
