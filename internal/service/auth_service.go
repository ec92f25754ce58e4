package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"wealthee/internal/config"
	"wealthee/internal/infrastructure/email"
	"wealthee/internal/model"
	"wealthee/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("User already exists with this email")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrInvalidResetToken  = errors.New("Invalid or expired token.")
	ErrResetTokenExpired  = errors.New("Token expired. Please request a new password reset.")
)

// WeakPasswordError 密码强度不达标，携带分析结果供客户端展示
type WeakPasswordError struct {
	Analysis *PasswordAnalysis
}

func (e *WeakPasswordError) Error() string {
	return "Password is too weak"
}

const bcryptCost = 12

// Claims JWT 载荷
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type RegisterRequest struct {
	FirstName    string
	LastName     string
	Email        string
	Password     string
	RiskAppetite string
}

// AuthResult 注册/登录返回：用户 + 签发的 token
type AuthResult struct {
	User             *model.User       `json:"user"`
	Token            string            `json:"token"`
	PasswordAnalysis *PasswordAnalysis `json:"passwordAnalysis,omitempty"`
}

type AuthService struct {
	db          *gorm.DB
	cfg         *config.Config
	userRepo    *repository.UserRepository
	aiService   *AIService
	emailSender *email.Sender
}

func NewAuthService(db *gorm.DB, cfg *config.Config, aiService *AIService, emailSender *email.Sender) *AuthService {
	return &AuthService{
		db:          db,
		cfg:         cfg,
		userRepo:    repository.NewUserRepository(db),
		aiService:   aiService,
		emailSender: emailSender,
	}
}

// signToken 签发 24 小时有效的 HS256 token
func (s *AuthService) signToken(user *model.User) (string, error) {
	ttl := time.Duration(s.cfg.Auth.TokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Auth.JWTSecret))
}

// Register 注册
// 密码强度门槛：分析得分 < 60 拒绝注册，分析结果随 400 返回
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	analysis := s.aiService.AnalyzePasswordStrength(ctx, req.Password)
	if analysis.Score < 60 {
		return nil, &WeakPasswordError{Analysis: analysis}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("密码哈希失败: %w", err)
	}

	riskAppetite := req.RiskAppetite
	if riskAppetite == "" {
		riskAppetite = model.RiskAppetiteModerate
	}

	user := &model.User{
		ID:           uuid.NewString(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
		RiskAppetite: riskAppetite,
		Balance:      s.cfg.Business.InitialBalance,
		Role:         model.RoleUser,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, fmt.Errorf("签发 token 失败: %w", err)
	}

	return &AuthResult{
		User:  user,
		Token: token,
		PasswordAnalysis: &PasswordAnalysis{
			Strength: analysis.Strength,
			Score:    analysis.Score,
		},
	}, nil
}

// Login 登录
// 用户不存在和密码错误返回同一个错误，不泄露邮箱是否注册
func (s *AuthService) Login(ctx context.Context, emailAddr, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, fmt.Errorf("签发 token 失败: %w", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// ParseToken 校验 token 并解出载荷
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非预期的签名算法: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Auth.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenMalformed
	}
	return claims, nil
}

// GetProfile 查询用户资料
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile 更新资料并返回最新用户
func (s *AuthService) UpdateProfile(ctx context.Context, userID, firstName, lastName, riskAppetite string) (*model.User, error) {
	if err := s.userRepo.UpdateProfile(ctx, userID, firstName, lastName, riskAppetite); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}

// RequestPasswordReset 发起密码重置
// 邮箱不存在也返回 nil：响应文案不区分，防止邮箱枚举
func (s *AuthService) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return fmt.Errorf("查询用户失败: %w", err)
	}
	if user == nil {
		return nil
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("生成重置 token 失败: %w", err)
	}
	resetToken := hex.EncodeToString(buf)

	ttl := time.Duration(s.cfg.Business.ResetTokenTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if err := s.userRepo.SetResetToken(ctx, user.ID, resetToken, time.Now().Add(ttl)); err != nil {
		return fmt.Errorf("保存重置 token 失败: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.cfg.Email.ClientOrigin, resetToken)

	// fire-and-forget，发信失败只记日志
	go func() {
		if err := s.emailSender.SendPasswordReset(user.Email, resetURL, user.FirstName); err != nil {
			log.Error().Err(err).Str("email", user.Email).Msg("发送重置邮件失败")
		}
	}()

	return nil
}

// ResetPassword 用重置 token 设置新密码
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.userRepo.GetByResetToken(ctx, token)
	if err != nil {
		return fmt.Errorf("查询 token 失败: %w", err)
	}
	if user == nil {
		return ErrInvalidResetToken
	}

	if user.ResetTokenExpiry == nil || time.Now().After(*user.ResetTokenExpiry) {
		return ErrResetTokenExpired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("密码哈希失败: %w", err)
	}

	return s.userRepo.ResetPassword(ctx, user.ID, string(hash))
}
