package handler

import (
	"strconv"

	"wealthee/internal/repository"
	"wealthee/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ListTransactionLogs 当前用户的请求日志，支持按状态码、邮箱过滤
func (h *Handler) ListTransactionLogs(c *gin.Context) {
	user := currentUser(c)
	page, limit := pageParams(c)

	// 默认查自己，显式传 userId 时查指定用户
	userID := c.Query("userId")
	if userID == "" {
		userID = user.ID
	}

	filter := &repository.TransactionLogFilter{
		UserID: userID,
		Email:  c.Query("email"),
		Page:   page,
		Limit:  limit,
	}
	if v := c.Query("status_code"); v != "" {
		if code, err := strconv.Atoi(v); err == nil {
			filter.StatusCode = &code
		}
	}

	logs, total, err := h.translogService.List(c.Request.Context(), filter)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("查询请求日志失败")
		response.ServerError(c)
		return
	}

	response.OK(c, gin.H{
		"logs":       logs,
		"pagination": response.NewPagination(page, limit, total),
	})
}

// GetErrorSummary 最近错误日志的摘要分析
func (h *Handler) GetErrorSummary(c *gin.Context) {
	user := currentUser(c)
	summary, err := h.translogService.ErrorSummary(c.Request.Context(), user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("生成错误摘要失败")
		response.ServerError(c)
		return
	}
	response.OK(c, summary)
}
