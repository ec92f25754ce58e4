package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"time"

	"wealthee/internal/model"
	"wealthee/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// bodyLogWriter 包一层 ResponseWriter，写出的同时留一份响应体副本
type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyLogWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// TransactionLogger 交易日志中间件
//
// 每个请求落一条 transaction_logs 审计记录：
//   - 请求体只记非 GET 请求
//   - 状态码 >= 400 时从响应 JSON 的 message 字段提取错误信息
//   - 落库失败只记日志，绝不影响响应本身
type TransactionLogger struct {
	translogRepo *repository.TransactionLogRepository
}

func NewTransactionLogger(translogRepo *repository.TransactionLogRepository) *TransactionLogger {
	return &TransactionLogger{translogRepo: translogRepo}
}

func (t *TransactionLogger) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var requestBody []byte
		if c.Request.Method != "GET" && c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			// 读完要放回去，后面的 handler 还要绑定
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		blw := &bodyLogWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = blw

		c.Next()

		entry := t.buildEntry(c, requestBody, blw.body.Bytes(), time.Since(start))

		// 异步落库，不占用请求路径
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := t.translogRepo.Create(ctx, entry); err != nil {
				log.Error().Err(err).Str("endpoint", entry.Endpoint).Msg("交易日志落库失败")
			}
		}()
	}
}

// buildEntry 从请求上下文组装一条日志记录，独立出来便于同步测试
func (t *TransactionLogger) buildEntry(c *gin.Context, requestBody, responseBody []byte, latency time.Duration) *model.TransactionLog {
	entry := &model.TransactionLog{
		Endpoint:     c.Request.URL.RequestURI(),
		HTTPMethod:   c.Request.Method,
		StatusCode:   c.Writer.Status(),
		ResponseTime: latency.Milliseconds(),
		IPAddress:    c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
	}

	if user := currentUser(c); user != nil {
		entry.UserID = &user.ID
		entry.Email = &user.Email
	}

	if len(requestBody) > 0 {
		body := string(requestBody)
		entry.RequestBody = &body
	}
	if len(responseBody) > 0 {
		body := string(responseBody)
		entry.ResponseBody = &body
	}

	if entry.StatusCode >= 400 {
		msg := extractErrorMessage(responseBody)
		entry.ErrorMessage = &msg
	}

	return entry
}

// extractErrorMessage 从响应 JSON 里取 message 字段，取不到就给兜底文案
func extractErrorMessage(responseBody []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(responseBody, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return "Unknown error"
}
