package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wealthee/internal/model"
	"wealthee/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductInput struct {
	Name           string
	InvestmentType string
	TenureMonths   int
	AnnualYield    float64
	RiskLevel      string
	MinInvestment  float64
	MaxInvestment  *float64
	Description    string
}

type ProductService struct {
	db          *gorm.DB
	productRepo *repository.ProductRepository
	aiService   *AIService
}

func NewProductService(db *gorm.DB, aiService *AIService) *ProductService {
	return &ProductService{
		db:          db,
		productRepo: repository.NewProductRepository(db),
		aiService:   aiService,
	}
}

func (s *ProductService) List(ctx context.Context, f *repository.ProductFilter) ([]*model.Product, int64, error) {
	return s.productRepo.List(ctx, f)
}

func (s *ProductService) Get(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.productRepo.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// Create 创建产品，描述为空时自动生成
func (s *ProductService) Create(ctx context.Context, input *ProductInput) (*model.Product, error) {
	product := &model.Product{
		ID:             uuid.NewString(),
		Name:           input.Name,
		InvestmentType: input.InvestmentType,
		TenureMonths:   input.TenureMonths,
		AnnualYield:    input.AnnualYield,
		RiskLevel:      input.RiskLevel,
		MinInvestment:  input.MinInvestment,
		MaxInvestment:  input.MaxInvestment,
		Description:    input.Description,
		IsActive:       true,
	}

	if strings.TrimSpace(product.Description) == "" {
		product.Description = s.aiService.GenerateProductDescription(ctx, product)
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("创建产品失败: %w", err)
	}
	return product, nil
}

// Update 全量更新产品字段
func (s *ProductService) Update(ctx context.Context, id string, input *ProductInput) (*model.Product, error) {
	if _, err := s.productRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	product := &model.Product{
		ID:             id,
		Name:           input.Name,
		InvestmentType: input.InvestmentType,
		TenureMonths:   input.TenureMonths,
		AnnualYield:    input.AnnualYield,
		RiskLevel:      input.RiskLevel,
		MinInvestment:  input.MinInvestment,
		MaxInvestment:  input.MaxInvestment,
		Description:    input.Description,
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, id)
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	err := s.productRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return ErrProductNotFound
	}
	return err
}

// Recommendations 按用户风险偏好推荐产品
func (s *ProductService) Recommendations(ctx context.Context, riskAppetite string) (*ProductRecommendations, error) {
	products, err := s.productRepo.ListActiveByYield(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询产品失败: %w", err)
	}
	return s.aiService.RecommendProducts(ctx, riskAppetite, products), nil
}

// GenerateDescription 管理端单独生成描述（不落库）
func (s *ProductService) GenerateDescription(ctx context.Context, input *ProductInput) string {
	return s.aiService.GenerateProductDescription(ctx, &model.Product{
		Name:           input.Name,
		InvestmentType: input.InvestmentType,
		TenureMonths:   input.TenureMonths,
		AnnualYield:    input.AnnualYield,
		RiskLevel:      input.RiskLevel,
		MinInvestment:  input.MinInvestment,
	})
}
