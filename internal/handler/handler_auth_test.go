package handler

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// 姓氏可以不填，也可以显式传空串
func TestRegisterRequest_AllowsEmptyLastName(t *testing.T) {
	gin.SetMode(gin.TestMode)

	bind := func(body string) error {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		var req registerRequest
		return c.ShouldBindJSON(&req)
	}

	assert.NoError(t, bind(`{"first_name":"Ann","last_name":"","email":"ann@example.com","password":"Str0ng!Password"}`))
	assert.NoError(t, bind(`{"first_name":"Ann","email":"ann@example.com","password":"Str0ng!Password"}`))
	assert.Error(t, bind(`{"first_name":"Ann","last_name":"`+strings.Repeat("a", 101)+`","email":"ann@example.com","password":"Str0ng!Password"}`))
}
