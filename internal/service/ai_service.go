package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"wealthee/internal/infrastructure/ai"
	"wealthee/internal/model"

	"github.com/rs/zerolog/log"
)

// ============================================================
// 外部文本生成服务封装
// ============================================================
//
// 所有方法遵循同一条铁律：外部服务挂了绝不能让请求失败。
// 每个能力都有一条确定性的本地降级路径，出参结构完全一致，
// Source 字段标记结果来源（ai / fallback），调用方按结构处理。

const (
	InsightSourceAI       = "ai"
	InsightSourceFallback = "fallback"
)

// PasswordAnalysis 密码强度分析结果
type PasswordAnalysis struct {
	Strength        string   `json:"strength"`
	Score           int      `json:"score"`
	Suggestions     []string `json:"suggestions"`
	Issues          []string `json:"issues"`
	HasUppercase    bool     `json:"hasUppercase"`
	HasLowercase    bool     `json:"hasLowercase"`
	HasNumbers      bool     `json:"hasNumbers"`
	HasSpecialChars bool     `json:"hasSpecialChars"`
	Length          int      `json:"length"`
}

// Insight 单条持仓洞察
type Insight struct {
	Type     string `json:"type"` // strength / weakness / opportunity / action
	Message  string `json:"message"`
	Priority string `json:"priority"` // low / medium / high
}

// Recommendation 持仓调整建议
type Recommendation struct {
	Action  string `json:"action"`
	Asset   string `json:"asset"`
	Reason  string `json:"reason"`
	Urgency string `json:"urgency"`
}

// ExpectedReturns 预期收益
type ExpectedReturns struct {
	Annual float64 `json:"annual"`
	Total  float64 `json:"total"`
}

// PortfolioInsights 持仓洞察视图
// Source 区分 AI 生成与本地降级两个变体
type PortfolioInsights struct {
	Source               string             `json:"source"`
	RiskDistribution     map[string]float64 `json:"riskDistribution"`
	DiversificationScore int                `json:"diversificationScore"`
	Insights             []Insight          `json:"insights"`
	Recommendations      []Recommendation   `json:"recommendations"`
	ExpectedReturns      ExpectedReturns    `json:"expectedReturns"`
	RiskAssessment       string             `json:"riskAssessment"`
}

// ProductRecommendation 单条产品推荐
type ProductRecommendation struct {
	ProductID           string `json:"productId"`
	Name                string `json:"name"`
	RecommendationScore int    `json:"recommendationScore"`
	Reason              string `json:"reason"`
	RiskAlignment       string `json:"riskAlignment"`
	SuggestedAllocation string `json:"suggestedAllocation"`
}

// ProductRecommendations 产品推荐结果
type ProductRecommendations struct {
	Source            string                  `json:"source"`
	Recommendations   []ProductRecommendation `json:"recommendations"`
	PortfolioStrategy string                  `json:"portfolioStrategy"`
	RiskWarnings      []string                `json:"riskWarnings"`
}

// ErrorSummary 错误日志摘要
type ErrorSummary struct {
	Summary         string   `json:"summary"`
	Patterns        []string `json:"patterns"`
	Recommendations []string `json:"recommendations"`
	CriticalIssues  []string `json:"criticalIssues,omitempty"`
	ErrorCount      int      `json:"errorCount"`
	MostCommonError string   `json:"mostCommonError,omitempty"`
}

type AIService struct {
	client *ai.Client
}

func NewAIService(client *ai.Client) *AIService {
	return &AIService{client: client}
}

// ------------------------------------------------------------
// 密码强度
// ------------------------------------------------------------

// AnalyzePasswordStrength 密码强度分析，任何外部错误都走本地规则
func (s *AIService) AnalyzePasswordStrength(ctx context.Context, password string) *PasswordAnalysis {
	if !s.client.Available() {
		return fallbackPasswordAnalysis(password)
	}

	prompt := fmt.Sprintf(`Analyze this password strength and respond with only valid JSON:
Password: %q

Required JSON format:
{
  "strength": "weak|medium|strong",
  "score": 0-100,
  "suggestions": ["suggestion1", "suggestion2"],
  "issues": ["issue1", "issue2"],
  "hasUppercase": true/false,
  "hasLowercase": true/false,
  "hasNumbers": true/false,
  "hasSpecialChars": true/false,
  "length": %d
}

JSON response:`, password, len(password))

	var analysis PasswordAnalysis
	if err := s.client.CompleteJSON(ctx, prompt, &analysis); err != nil {
		log.Warn().Err(err).Msg("密码强度分析降级到本地规则")
		return fallbackPasswordAnalysis(password)
	}
	if analysis.Score < 0 || analysis.Score > 100 || analysis.Strength == "" {
		return fallbackPasswordAnalysis(password)
	}
	return &analysis
}

var (
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	digitRe   = regexp.MustCompile(`\d`)
	specialRe = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

func fallbackPasswordAnalysis(password string) *PasswordAnalysis {
	a := &PasswordAnalysis{
		HasUppercase:    upperRe.MatchString(password),
		HasLowercase:    lowerRe.MatchString(password),
		HasNumbers:      digitRe.MatchString(password),
		HasSpecialChars: specialRe.MatchString(password),
		Length:          len(password),
		Suggestions:     []string{},
		Issues:          []string{},
	}

	score := 0
	switch {
	case a.Length >= 12:
		score += 30
	case a.Length >= 8:
		score += 20
	default:
		a.Issues = append(a.Issues, "Password too short (minimum 8 characters)")
	}

	if a.HasUppercase {
		score += 20
	} else {
		a.Suggestions = append(a.Suggestions, "Add uppercase letters (A-Z)")
	}
	if a.HasLowercase {
		score += 20
	} else {
		a.Suggestions = append(a.Suggestions, "Add lowercase letters (a-z)")
	}
	if a.HasNumbers {
		score += 15
	} else {
		a.Suggestions = append(a.Suggestions, "Add numbers (0-9)")
	}
	if a.HasSpecialChars {
		score += 15
	} else {
		a.Suggestions = append(a.Suggestions, "Add special characters (!@#$%^&*)")
	}

	a.Score = score
	switch {
	case score >= 80:
		a.Strength = "strong"
	case score >= 60:
		a.Strength = "medium"
	default:
		a.Strength = "weak"
	}
	return a
}

// ------------------------------------------------------------
// 持仓洞察
// ------------------------------------------------------------

// GeneratePortfolioInsights 持仓洞察，外部失败时本地算术降级
func (s *AIService) GeneratePortfolioInsights(ctx context.Context, investments []*model.InvestmentDetail, riskAppetite string) *PortfolioInsights {
	if !s.client.Available() {
		return fallbackPortfolioInsights(investments)
	}

	profile := map[string]interface{}{"risk_appetite": riskAppetite}
	sample := investments
	if len(sample) > 10 {
		sample = sample[:10]
	}
	profileJSON, _ := json.Marshal(profile)
	investJSON, _ := json.Marshal(sample)

	prompt := fmt.Sprintf(`Analyze this investment portfolio:

User: %s

Investments: %s

Respond with only valid JSON:

{
  "riskDistribution": {"low": 40, "moderate": 40, "high": 20},
  "diversificationScore": 75,
  "insights": [{"type": "strength", "message": "insight description", "priority": "medium"}],
  "recommendations": [{"action": "hold", "asset": "asset name", "reason": "explanation", "urgency": "low"}],
  "expectedReturns": {"annual": 8.5, "total": 25000},
  "riskAssessment": "overall assessment"
}

JSON response:`, profileJSON, investJSON)

	var insights PortfolioInsights
	if err := s.client.CompleteJSON(ctx, prompt, &insights); err != nil {
		log.Warn().Err(err).Msg("持仓洞察降级到本地计算")
		return fallbackPortfolioInsights(investments)
	}
	if insights.RiskDistribution == nil || len(insights.Insights) == 0 {
		return fallbackPortfolioInsights(investments)
	}
	insights.Source = InsightSourceAI
	return &insights
}

func fallbackPortfolioInsights(investments []*model.InvestmentDetail) *PortfolioInsights {
	n := len(investments)
	total := math.Max(float64(n), 1)

	var capital, yieldSum float64
	riskCount := map[string]int{"low": 0, "moderate": 0, "high": 0}
	for _, inv := range investments {
		capital += inv.Amount
		yieldSum += inv.AnnualYield
		if _, ok := riskCount[inv.RiskLevel]; ok {
			riskCount[inv.RiskLevel]++
		}
	}
	averageYield := yieldSum / total

	dist := map[string]float64{
		"low":      math.Round(float64(riskCount["low"]) / total * 100),
		"moderate": math.Round(float64(riskCount["moderate"]) / total * 100),
		"high":     math.Round(float64(riskCount["high"]) / total * 100),
	}

	diversification := n*15 + 30
	if diversification > 90 {
		diversification = 90
	}

	spread := "basic"
	if n > 3 {
		spread = "good"
	}
	insights := []Insight{
		{
			Type:     "strength",
			Message:  fmt.Sprintf("Portfolio shows %s diversification across %d investments", spread, n),
			Priority: "medium",
		},
	}
	if n < 3 {
		insights = append(insights, Insight{
			Type:     "opportunity",
			Message:  "Consider adding more investments to improve diversification",
			Priority: "high",
		})
	} else {
		insights = append(insights, Insight{
			Type:     "strength",
			Message:  "Well-diversified investment approach",
			Priority: "low",
		})
	}

	balance := "developing well"
	if n > 3 {
		balance = "well-balanced"
	}

	profile := "balanced"
	if dist["high"] > 50 {
		profile = "aggressive"
	} else if dist["low"] > 50 {
		profile = "conservative"
	}

	return &PortfolioInsights{
		Source:               InsightSourceFallback,
		RiskDistribution:     dist,
		DiversificationScore: diversification,
		Insights:             insights,
		Recommendations: []Recommendation{
			{
				Action:  "hold",
				Asset:   "Current portfolio",
				Reason:  fmt.Sprintf("Portfolio is %s", balance),
				Urgency: "low",
			},
		},
		ExpectedReturns: ExpectedReturns{
			Annual: averageYield,
			Total:  capital * (1 + averageYield/100),
		},
		RiskAssessment: fmt.Sprintf("Portfolio shows %s risk profile with average expected returns of %.1f%%", profile, averageYield),
	}
}

// ------------------------------------------------------------
// 产品推荐
// ------------------------------------------------------------

// 风险偏好到产品类型的映射
var riskTypeMapping = map[string][]string{
	model.RiskAppetiteLow:      {model.InvestmentTypeBond, model.InvestmentTypeFD},
	model.RiskAppetiteModerate: {model.InvestmentTypeMF, model.InvestmentTypeBond, model.InvestmentTypeFD},
	model.RiskAppetiteHigh:     {model.InvestmentTypeETF, model.InvestmentTypeMF},
}

// RecommendProducts 基于风险偏好的产品推荐，外部失败走规则降级
func (s *AIService) RecommendProducts(ctx context.Context, riskAppetite string, products []*model.Product) *ProductRecommendations {
	if !s.client.Available() {
		return fallbackProductRecommendations(riskAppetite, products)
	}

	sample := products
	if len(sample) > 5 {
		sample = sample[:5]
	}
	productJSON, _ := json.Marshal(sample)

	prompt := fmt.Sprintf(`As a financial advisor, recommend investment products for:
- Risk Appetite: %s
- Goals: Long-term wealth building

Available Products: %s

Respond with only valid JSON:
{
  "recommendations": [
    {
      "productId": "id",
      "name": "name",
      "recommendationScore": 85,
      "reason": "explanation",
      "riskAlignment": "alignment",
      "suggestedAllocation": "25%%"
    }
  ],
  "portfolioStrategy": "strategy explanation",
  "riskWarnings": ["warning1", "warning2"]
}

JSON response:`, riskAppetite, productJSON)

	var recs ProductRecommendations
	if err := s.client.CompleteJSON(ctx, prompt, &recs); err != nil {
		log.Warn().Err(err).Msg("产品推荐降级到规则匹配")
		return fallbackProductRecommendations(riskAppetite, products)
	}
	if len(recs.Recommendations) == 0 {
		return fallbackProductRecommendations(riskAppetite, products)
	}
	recs.Source = InsightSourceAI
	return &recs
}

func fallbackProductRecommendations(riskAppetite string, products []*model.Product) *ProductRecommendations {
	suitableTypes, ok := riskTypeMapping[riskAppetite]
	if !ok {
		suitableTypes = []string{model.InvestmentTypeBond}
	}
	suitable := map[string]bool{}
	for _, t := range suitableTypes {
		suitable[t] = true
	}

	allocation := 100
	if len(products) > 0 {
		allocation = 100 / min(3, len(products))
	}

	recommendations := []ProductRecommendation{}
	for _, p := range products {
		if !suitable[p.InvestmentType] {
			continue
		}
		recommendations = append(recommendations, ProductRecommendation{
			ProductID:           p.ID,
			Name:                p.Name,
			RecommendationScore: 85 - len(recommendations)*5,
			Reason:              fmt.Sprintf("Matches your %s risk appetite and investment profile", riskAppetite),
			RiskAlignment:       "Good alignment with your risk tolerance",
			SuggestedAllocation: fmt.Sprintf("%d%%", allocation),
		})
		if len(recommendations) == 3 {
			break
		}
	}

	focus := "balanced growth"
	switch riskAppetite {
	case model.RiskAppetiteLow:
		focus = "capital preservation"
	case model.RiskAppetiteHigh:
		focus = "growth maximization"
	}

	return &ProductRecommendations{
		Source:            InsightSourceFallback,
		Recommendations:   recommendations,
		PortfolioStrategy: fmt.Sprintf("Conservative %s risk strategy focused on %s", riskAppetite, focus),
		RiskWarnings: []string{
			"Past performance does not guarantee future results",
			"All investments carry inherent risks",
			"Consider diversification across asset classes",
		},
	}
}

// ------------------------------------------------------------
// 产品描述
// ------------------------------------------------------------

// GenerateProductDescription 产品描述生成，失败用模板兜底
func (s *AIService) GenerateProductDescription(ctx context.Context, p *model.Product) string {
	template := fmt.Sprintf("%s is a %s investment offering %.2f%% annual returns with %s risk level over %d months.",
		p.Name, p.InvestmentType, p.AnnualYield, p.RiskLevel, p.TenureMonths)

	if !s.client.Available() {
		return template
	}

	prompt := fmt.Sprintf(`Create a compelling investment product description for:

Name: %s
Type: %s
Annual Yield: %.2f%%
Risk Level: %s
Tenure: %d months
Min Investment: $%.2f

Write 150-200 words that explains benefits, highlights key features, mentions appropriate risk factors, and appeals to target investors.

Product Description:`, p.Name, p.InvestmentType, p.AnnualYield, p.RiskLevel, p.TenureMonths, p.MinInvestment)

	text, err := s.client.Complete(ctx, prompt)
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			log.Warn().Err(err).Msg("产品描述生成降级到模板")
		}
		return template
	}
	return strings.TrimSpace(text)
}

// ------------------------------------------------------------
// 错误日志摘要
// ------------------------------------------------------------

// SummarizeErrors 错误日志摘要
func (s *AIService) SummarizeErrors(ctx context.Context, errorLogs []*model.TransactionLog) *ErrorSummary {
	if len(errorLogs) == 0 {
		return &ErrorSummary{
			Summary:         "No errors found in recent transactions.",
			Patterns:        []string{},
			Recommendations: []string{"Continue following current practices"},
			ErrorCount:      0,
		}
	}

	mostCommon := "Unknown error"
	if errorLogs[0].ErrorMessage != nil && *errorLogs[0].ErrorMessage != "" {
		mostCommon = *errorLogs[0].ErrorMessage
	}

	if !s.client.Available() {
		return &ErrorSummary{
			Summary:         fmt.Sprintf("Found %d errors in recent transactions.", len(errorLogs)),
			Patterns:        []string{"Multiple error types detected"},
			Recommendations: []string{"Please review system logs manually"},
			ErrorCount:      len(errorLogs),
			MostCommonError: mostCommon,
		}
	}

	sample := errorLogs
	if len(sample) > 20 {
		sample = sample[:20]
	}
	logsJSON, _ := json.Marshal(sample)

	prompt := fmt.Sprintf(`Analyze these error logs and respond with only valid JSON:

Error Logs: %s

Required JSON format:
{
  "summary": "brief overview",
  "patterns": ["pattern1", "pattern2"],
  "recommendations": ["rec1", "rec2"],
  "criticalIssues": ["issue1", "issue2"],
  "errorCount": %d,
  "mostCommonError": "error description"
}

JSON response:`, logsJSON, len(errorLogs))

	var summary ErrorSummary
	if err := s.client.CompleteJSON(ctx, prompt, &summary); err != nil {
		log.Warn().Err(err).Msg("错误摘要降级到本地统计")
		return &ErrorSummary{
			Summary:         fmt.Sprintf("Analysis unavailable. Found %d errors.", len(errorLogs)),
			Patterns:        []string{"Unable to analyze patterns"},
			Recommendations: []string{"Please check system logs manually"},
			ErrorCount:      len(errorLogs),
		}
	}
	return &summary
}
