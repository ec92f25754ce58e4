package handler

import (
	"errors"
	"net/http"

	"wealthee/internal/model"
	"wealthee/internal/repository"
	"wealthee/internal/service"
	"wealthee/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type registerRequest struct {
	FirstName    string `json:"first_name" binding:"required,min=2,max=50"`
	LastName     string `json:"last_name" binding:"omitempty,max=100"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	RiskAppetite string `json:"risk_appetite" binding:"omitempty,oneof=low moderate high"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	FirstName    string `json:"first_name" binding:"required,min=2,max=50"`
	LastName     string `json:"last_name" binding:"omitempty,max=100"`
	RiskAppetite string `json:"risk_appetite" binding:"omitempty"`
}

type passwordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// Register 注册
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Register(c.Request.Context(), &service.RegisterRequest{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Password:     req.Password,
		RiskAppetite: req.RiskAppetite,
	})
	if err != nil {
		var weak *service.WeakPasswordError
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			response.Conflict(c, err.Error())
		case errors.As(err, &weak):
			// 密码太弱时把分析结果带回去，前端据此提示
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": weak.Error(),
				"passwordAnalysis": gin.H{
					"strength":    weak.Analysis.Strength,
					"score":       weak.Analysis.Score,
					"suggestions": weak.Analysis.Suggestions,
				},
			})
		default:
			log.Error().Err(err).Str("email", req.Email).Msg("注册失败")
			response.ServerError(c)
		}
		return
	}

	response.Created(c, "User registered successfully", gin.H{
		"user":             result.User,
		"token":            result.Token,
		"passwordAnalysis": result.PasswordAnalysis,
	})
}

// Login 登录
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, err.Error())
			return
		}
		log.Error().Err(err).Str("email", req.Email).Msg("登录失败")
		response.ServerError(c)
		return
	}

	response.OKWithMessage(c, "Login successful", gin.H{
		"user":  result.User,
		"token": result.Token,
	})
}

// GetProfile 查询当前用户资料
func (h *Handler) GetProfile(c *gin.Context) {
	user := currentUser(c)
	response.OK(c, gin.H{"user": user})
}

// UpdateProfile 更新当前用户资料
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.RiskAppetite != "" && !model.ValidRiskAppetite(req.RiskAppetite) {
		response.BadRequest(c, "Invalid risk appetite. Must be low, moderate, or high")
		return
	}

	user := currentUser(c)
	updated, err := h.authService.UpdateProfile(c.Request.Context(), user.ID, req.FirstName, req.LastName, req.RiskAppetite)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		log.Error().Err(err).Str("user_id", user.ID).Msg("更新资料失败")
		response.ServerError(c)
		return
	}

	response.OKWithMessage(c, "Profile updated successfully", gin.H{"user": updated})
}

// RequestPasswordReset 发起密码重置
// 无论邮箱是否存在都返回同一条文案，防止邮箱枚举
func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var req passwordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Email is required")
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		log.Error().Err(err).Msg("密码重置请求失败")
		response.ServerError(c)
		return
	}

	response.OKWithMessage(c, "If an account with that email exists, a password reset link has been sent.", nil)
}

// ResetPassword 用重置 token 设置新密码
func (h *Handler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Token and new password are required.")
		return
	}

	err := h.authService.ResetPassword(c.Request.Context(), req.Token, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidResetToken), errors.Is(err, service.ErrResetTokenExpired):
			response.BadRequest(c, err.Error())
		default:
			log.Error().Err(err).Msg("重置密码失败")
			response.ServerError(c)
		}
		return
	}

	response.OKWithMessage(c, "Password reset successful. You can now log in with your new password.", nil)
}
