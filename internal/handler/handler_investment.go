package handler

import (
	"errors"

	"wealthee/internal/service"
	"wealthee/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type createInvestmentRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
}

// CreateInvestment 下单投资
func (h *Handler) CreateInvestment(c *gin.Context) {
	var req createInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user := currentUser(c)
	detail, err := h.investmentService.Invest(c.Request.Context(), user.ID, req.ProductID, req.Amount)
	if err != nil {
		var bounds *service.BoundsError
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			response.NotFound(c, err.Error())
		case errors.As(err, &bounds):
			response.BadRequest(c, bounds.Error())
		case errors.Is(err, service.ErrInsufficientBalance):
			response.BadRequest(c, err.Error())
		default:
			log.Error().Err(err).Str("user_id", user.ID).Str("product_id", req.ProductID).Msg("投资下单失败")
			response.ServerError(c)
		}
		return
	}

	response.Created(c, "Investment created successfully", gin.H{"investment": detail})
}

// ListInvestments 当前用户投资列表
func (h *Handler) ListInvestments(c *gin.Context) {
	user := currentUser(c)
	page, limit := pageParams(c)
	status := c.Query("status")

	investments, total, err := h.investmentService.ListUserInvestments(c.Request.Context(), user.ID, status, page, limit)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("查询投资列表失败")
		response.ServerError(c)
		return
	}

	response.OK(c, gin.H{
		"investments": investments,
		"pagination":  response.NewPagination(page, limit, total),
	})
}

// GetPortfolio 持仓汇总
func (h *Handler) GetPortfolio(c *gin.Context) {
	user := currentUser(c)
	summary, err := h.portfolioService.Summary(c.Request.Context(), user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("查询持仓汇总失败")
		response.ServerError(c)
		return
	}
	response.OK(c, summary)
}

// GetPortfolioInsights 持仓智能分析
func (h *Handler) GetPortfolioInsights(c *gin.Context) {
	user := currentUser(c)
	insights, err := h.portfolioService.Insights(c.Request.Context(), user.ID, user.RiskAppetite)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("生成持仓分析失败")
		response.ServerError(c)
		return
	}
	response.OK(c, insights)
}
