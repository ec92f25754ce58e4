package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wealthee/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestProductRequestValidate(t *testing.T) {
	maxOf := func(v float64) *float64 { return &v }

	t.Run("上限低于下限拒绝", func(t *testing.T) {
		req := &productRequest{MinInvestment: 5000, MaxInvestment: maxOf(1000)}
		assert.Error(t, req.validate())
	})

	t.Run("下限省略时按默认值 1000 比较", func(t *testing.T) {
		req := &productRequest{MaxInvestment: maxOf(500)}
		assert.Error(t, req.validate())
	})

	t.Run("上限等于下限通过", func(t *testing.T) {
		req := &productRequest{MinInvestment: 1000, MaxInvestment: maxOf(1000)}
		assert.NoError(t, req.validate())
	})

	t.Run("无上限通过", func(t *testing.T) {
		req := &productRequest{MinInvestment: 5000}
		assert.NoError(t, req.validate())
	})
}

func TestCreateProduct_MaxBelowMin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock := newMockDB(t)
	h := NewHandler(db, nil, &config.Config{})

	r := gin.New()
	r.POST("/api/products", h.CreateProduct)
	r.PUT("/api/products/:id", h.UpdateProduct)

	body := `{"name":"Gov Bond","investment_type":"bond","tenure_months":12,"annual_yield":6,"risk_level":"low","min_investment":5000,"max_investment":1000}`

	for _, tc := range []struct {
		method string
		path   string
	}{
		{"POST", "/api/products"},
		{"PUT", "/api/products/p1"},
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "max_investment must be greater than or equal to min_investment")
	}

	// 校验失败的请求不应触达数据库
	assert.NoError(t, mock.ExpectationsWereMet())
}
