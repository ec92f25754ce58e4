package handler

import (
	"wealthee/internal/config"
	"wealthee/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// SetupRouter 配置路由
func SetupRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	// 设置 gin 为发布模式（减少日志输出）
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	h := NewHandler(db, rdb, cfg)
	txnLogger := NewTransactionLogger(repository.NewTransactionLogRepository(db))

	// 注册中间件，交易日志要包在最外层，panic 被内层 Recovery 兜住后照样落一条记录
	r.Use(txnLogger.Middleware())
	r.Use(RecoveryMiddleware())
	r.Use(CORSMiddleware())

	authRequired := AuthMiddleware(h.authService)
	adminRequired := AdminMiddleware()

	// API 路由组
	api := r.Group("/api")
	{
		// 认证相关
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
			auth.POST("/request-password-reset", h.RequestPasswordReset)
			auth.POST("/reset-password", h.ResetPassword)
			auth.GET("/profile", authRequired, h.GetProfile)
			auth.PUT("/profile", authRequired, h.UpdateProfile)
		}

		// 产品相关
		products := api.Group("/products", authRequired)
		{
			products.GET("", h.ListProducts)
			products.GET("/recommendations", h.GetRecommendations)
			products.GET("/:id", h.GetProduct)
			products.POST("", adminRequired, h.CreateProduct)
			products.PUT("/:id", adminRequired, h.UpdateProduct)
			products.DELETE("/:id", adminRequired, h.DeleteProduct)
			products.POST("/ai-generate-description", adminRequired, h.GenerateDescription)
		}

		// 投资相关
		investments := api.Group("/investments", authRequired)
		{
			investments.POST("", h.CreateInvestment)
			investments.GET("", h.ListInvestments)
			investments.GET("/portfolio", h.GetPortfolio)
			investments.GET("/portfolio/insights", h.GetPortfolioInsights)
		}

		// 交易日志
		logs := api.Group("/transaction-logs", authRequired)
		{
			logs.GET("", h.ListTransactionLogs)
			logs.GET("/error-summary", h.GetErrorSummary)
		}
	}

	// 健康检查
	r.GET("/health", h.Health)

	return r
}
