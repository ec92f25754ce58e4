package handler

import (
	"errors"
	"strconv"

	"wealthee/internal/repository"
	"wealthee/internal/service"
	"wealthee/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type productRequest struct {
	Name           string   `json:"name" binding:"required,min=2,max=255"`
	InvestmentType string   `json:"investment_type" binding:"required,oneof=bond fd mf etf other"`
	TenureMonths   int      `json:"tenure_months" binding:"required,min=1,max=120"`
	AnnualYield    float64  `json:"annual_yield" binding:"required,min=0,max=100"`
	RiskLevel      string   `json:"risk_level" binding:"required,oneof=low moderate high"`
	MinInvestment  float64  `json:"min_investment" binding:"omitempty,min=0"`
	MaxInvestment  *float64 `json:"max_investment" binding:"omitempty,min=0"`
	Description    string   `json:"description"`
}

func (r *productRequest) minOrDefault() float64 {
	if r.MinInvestment == 0 {
		return 1000
	}
	return r.MinInvestment
}

// validate 补充绑定标签做不了的跨字段校验
func (r *productRequest) validate() error {
	if r.MaxInvestment != nil && *r.MaxInvestment < r.minOrDefault() {
		return errors.New("max_investment must be greater than or equal to min_investment")
	}
	return nil
}

func (r *productRequest) toInput() *service.ProductInput {
	return &service.ProductInput{
		Name:           r.Name,
		InvestmentType: r.InvestmentType,
		TenureMonths:   r.TenureMonths,
		AnnualYield:    r.AnnualYield,
		RiskLevel:      r.RiskLevel,
		MinInvestment:  r.minOrDefault(),
		MaxInvestment:  r.MaxInvestment,
		Description:    r.Description,
	}
}

// ListProducts 产品列表，支持过滤和排序
func (h *Handler) ListProducts(c *gin.Context) {
	page, limit := pageParams(c)
	filter := &repository.ProductFilter{
		Type:      c.Query("type"),
		RiskLevel: c.Query("risk_level"),
		SortBy:    c.Query("sort_by"),
		Order:     c.Query("order"),
		Page:      page,
		Limit:     limit,
	}
	if v := c.Query("min_yield"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinYield = &f
		}
	}
	if v := c.Query("max_yield"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxYield = &f
		}
	}

	products, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("查询产品列表失败")
		response.ServerError(c)
		return
	}

	response.OK(c, gin.H{
		"products":   products,
		"pagination": response.NewPagination(page, limit, total),
	})
}

// GetProduct 产品详情，只返回在售产品
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.productService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.NotFound(c, "Product not found")
			return
		}
		log.Error().Err(err).Str("product_id", c.Param("id")).Msg("查询产品失败")
		response.ServerError(c)
		return
	}
	response.OK(c, gin.H{"product": product})
}

// GetRecommendations 按用户风险偏好推荐产品
func (h *Handler) GetRecommendations(c *gin.Context) {
	user := currentUser(c)
	recs, err := h.productService.Recommendations(c.Request.Context(), user.RiskAppetite)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("生成产品推荐失败")
		response.ServerError(c)
		return
	}

	response.OK(c, gin.H{
		"recommendations":   recs.Recommendations,
		"portfolioStrategy": recs.PortfolioStrategy,
		"riskWarnings":      recs.RiskWarnings,
		"userProfile": gin.H{
			"riskAppetite": user.RiskAppetite,
		},
	})
}

// CreateProduct 创建产品，管理员专用
func (h *Handler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("创建产品失败")
		response.ServerError(c)
		return
	}

	response.Created(c, "Product created successfully", gin.H{"product": product})
}

// UpdateProduct 更新产品，管理员专用
func (h *Handler) UpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.Update(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.NotFound(c, "Product not found")
			return
		}
		log.Error().Err(err).Str("product_id", c.Param("id")).Msg("更新产品失败")
		response.ServerError(c)
		return
	}

	response.OKWithMessage(c, "Product updated successfully", gin.H{"product": product})
}

// DeleteProduct 删除产品，管理员专用
func (h *Handler) DeleteProduct(c *gin.Context) {
	err := h.productService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.NotFound(c, "Product not found")
			return
		}
		log.Error().Err(err).Str("product_id", c.Param("id")).Msg("删除产品失败")
		response.ServerError(c)
		return
	}

	response.OKWithMessage(c, "Product deleted successfully", nil)
}

// GenerateDescription 生成产品描述，管理员专用
func (h *Handler) GenerateDescription(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	description := h.productService.GenerateDescription(c.Request.Context(), req.toInput())
	response.OK(c, gin.H{"description": description})
}
