package handler

import (
	"strconv"
	"time"

	"wealthee/internal/config"
	"wealthee/internal/infrastructure/ai"
	"wealthee/internal/infrastructure/email"
	"wealthee/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Handler 统一处理器，包含所有服务依赖
type Handler struct {
	db                *gorm.DB
	authService       *service.AuthService
	productService    *service.ProductService
	investmentService *service.InvestmentService
	portfolioService  *service.PortfolioService
	translogService   *service.TransactionLogService
}

// NewHandler 创建处理器实例
func NewHandler(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *Handler {
	aiService := service.NewAIService(ai.NewClient(&cfg.AI))
	emailSender := email.NewSender(&cfg.Email)

	return &Handler{
		db:                db,
		authService:       service.NewAuthService(db, cfg, aiService, emailSender),
		productService:    service.NewProductService(db, aiService),
		investmentService: service.NewInvestmentService(db, rdb, cfg),
		portfolioService:  service.NewPortfolioService(db, aiService),
		translogService:   service.NewTransactionLogService(db, aiService),
	}
}

// Health 健康检查
// GET /health
func (h *Handler) Health(c *gin.Context) {
	payload := gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "wealthee-backend",
		"version":   "1.0.0",
		"database":  "connected",
	}

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		payload["status"] = "unhealthy"
		payload["database"] = "disconnected"
		c.JSON(503, payload)
		return
	}

	c.JSON(200, payload)
}

// 分页参数的统一缺省值
func pageParams(c *gin.Context) (int, int) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return page, limit
}

func queryInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.DefaultQuery(key, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return n
}
