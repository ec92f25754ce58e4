package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wealthee/internal/config"
	"wealthee/internal/infrastructure/lock"
	"wealthee/internal/model"
	"wealthee/internal/repository"
	"wealthee/pkg/idgen"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound     = errors.New("Product not found")
	ErrInsufficientBalance = errors.New("Insufficient balance")
)

// BoundsError 投资金额越界（低于下限或高于上限）
type BoundsError struct {
	msg string
}

func (e *BoundsError) Error() string {
	return e.msg
}

type InvestmentService struct {
	db             *gorm.DB
	redisClient    *redis.Client
	cfg            *config.Config
	userRepo       *repository.UserRepository
	productRepo    *repository.ProductRepository
	investmentRepo *repository.InvestmentRepository
	outboxRepo     *repository.OutboxRepository
}

func NewInvestmentService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *InvestmentService {
	return &InvestmentService{
		db:             db,
		redisClient:    redisClient,
		cfg:            cfg,
		userRepo:       repository.NewUserRepository(db),
		productRepo:    repository.NewProductRepository(db),
		investmentRepo: repository.NewInvestmentRepository(db),
		outboxRepo:     repository.NewOutboxRepository(db),
	}
}

// ExpectedReturn 单利按月折算的到期预期收益
// expected = amount * (1 + (annual_yield/100 * tenure_months) / 12)
func ExpectedReturn(amount, annualYield float64, tenureMonths int) float64 {
	return amount * (1 + (annualYield/100*float64(tenureMonths))/12)
}

// Invest 创建投资
//
// 【关键点】投资是整个系统最核心的操作，需要保证：
// 1. 校验前置：产品状态、金额上下限、余额预检都在事务外完成，不合法的请求不碰事务
// 2. 原子性：投资落库和余额扣减必须同时成功或同时失败
// 3. 并发安全：事务内行锁重读余额，防止两个并发请求都用过期余额通过校验
func (s *InvestmentService) Invest(ctx context.Context, userID, productID string, amount float64) (*model.InvestmentDetail, error) {
	product, err := s.productRepo.GetActiveByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("查询产品失败: %w", err)
	}

	if amount < product.MinInvestment {
		return nil, &BoundsError{msg: fmt.Sprintf("Minimum investment amount is $%g", product.MinInvestment)}
	}
	if product.MaxInvestment != nil && amount > *product.MaxInvestment {
		return nil, &BoundsError{msg: fmt.Sprintf("Maximum investment amount is $%g", *product.MaxInvestment)}
	}

	// 余额预检，不足直接拒绝，省一次事务
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if user.Balance < amount {
		return nil, ErrInsufficientBalance
	}

	// 同一用户的并发投资在入口处串行化
	referenceNo := idgen.GenerateInvestmentNo()
	investLock := lock.NewInvestLock(s.redisClient, userID, referenceNo)
	if err := investLock.Lock(ctx, 100*time.Millisecond, 30); err != nil {
		return nil, fmt.Errorf("系统繁忙，请稍后重试: %w", err)
	}
	defer investLock.Unlock(ctx)

	investment := &model.Investment{
		ID:             uuid.NewString(),
		ReferenceNo:    referenceNo,
		UserID:         userID,
		ProductID:      productID,
		Amount:         amount,
		ExpectedReturn: ExpectedReturn(amount, product.AnnualYield, product.TenureMonths),
		MaturityDate:   time.Now().AddDate(0, product.TenureMonths, 0),
		Status:         model.InvestmentStatusActive,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// 行锁重读余额，预检通过不代表现在还够
		locked, err := s.userRepo.GetByIDForUpdate(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("锁定用户失败: %w", err)
		}
		if locked.Balance < amount {
			return ErrInsufficientBalance
		}

		if err := s.investmentRepo.Create(ctx, tx, investment); err != nil {
			return fmt.Errorf("创建投资记录失败: %w", err)
		}

		if err := s.userRepo.Debit(ctx, tx, userID, amount); err != nil {
			if errors.Is(err, repository.ErrBalanceNotEnough) {
				return ErrInsufficientBalance
			}
			return fmt.Errorf("扣款失败: %w", err)
		}

		msgPayload := map[string]interface{}{
			"event":           model.EventInvestmentCreated,
			"reference_no":    referenceNo,
			"user_id":         userID,
			"product_id":      productID,
			"amount":          amount,
			"expected_return": investment.ExpectedReturn,
			"invested_at":     time.Now().Format(time.RFC3339),
		}
		payloadBytes, _ := json.Marshal(msgPayload)

		outboxMsg := &model.OutboxMessage{
			MessageKey: referenceNo,
			Topic:      s.cfg.Kafka.Topic.InvestmentEvents,
			Payload:    string(payloadBytes),
			Status:     model.OutboxStatusPending,
		}
		if err := s.outboxRepo.Create(ctx, tx, outboxMsg); err != nil {
			return fmt.Errorf("写入消息失败: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	log.Info().
		Str("reference_no", referenceNo).
		Str("user_id", userID).
		Float64("amount", amount).
		Msg("投资成功")

	return s.investmentRepo.GetDetailByID(ctx, investment.ID)
}

// ListUserInvestments 用户投资列表
func (s *InvestmentService) ListUserInvestments(ctx context.Context, userID, status string, page, limit int) ([]*model.InvestmentDetail, int64, error) {
	return s.investmentRepo.ListByUser(ctx, userID, status, page, limit)
}
