package repository

import (
	"context"
	"errors"

	"wealthee/internal/model"

	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("产品不存在")
)

// 排序字段白名单，防止 SQL 注入
var productSortFields = map[string]bool{
	"annual_yield":   true,
	"risk_level":     true,
	"min_investment": true,
	"created_at":     true,
	"name":           true,
}

// ProductFilter 产品列表筛选条件
type ProductFilter struct {
	Type      string
	RiskLevel string
	MinYield  *float64
	MaxYield  *float64
	SortBy    string
	Order     string
	Page      int
	Limit     int
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// GetActiveByID 只返回上架产品，下架等同不存在
func (r *ProductRepository) GetActiveByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// List 条件筛选 + 白名单排序 + 分页，全部走参数化查询
func (r *ProductRepository) List(ctx context.Context, f *ProductFilter) ([]*model.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Product{}).Where("is_active = ?", true)

	if f.Type != "" {
		query = query.Where("investment_type = ?", f.Type)
	}
	if f.RiskLevel != "" {
		query = query.Where("risk_level = ?", f.RiskLevel)
	}
	if f.MinYield != nil {
		query = query.Where("annual_yield >= ?", *f.MinYield)
	}
	if f.MaxYield != nil {
		query = query.Where("annual_yield <= ?", *f.MaxYield)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := "annual_yield"
	if productSortFields[f.SortBy] {
		sortField = f.SortBy
	}
	sortOrder := "DESC"
	if f.Order == "ASC" {
		sortOrder = "ASC"
	}

	var products []*model.Product
	err := query.
		Order(sortField + " " + sortOrder).
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&products).Error

	return products, total, err
}

// ListActiveByYield 收益率倒序的全部上架产品（推荐引擎用）
func (r *ProductRepository) ListActiveByYield(ctx context.Context) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("annual_yield DESC").
		Find(&products).Error
	return products, err
}

func (r *ProductRepository) Update(ctx context.Context, product *model.Product) error {
	result := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":            product.Name,
			"investment_type": product.InvestmentType,
			"annual_yield":    product.AnnualYield,
			"risk_level":      product.RiskLevel,
			"tenure_months":   product.TenureMonths,
			"min_investment":  product.MinInvestment,
			"max_investment":  product.MaxInvestment,
			"description":     product.Description,
		})
	// 不看 RowsAffected：MySQL 对无变化的更新报 0 行，重复提交同样的值不是 not found
	return result.Error
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
