package repository

import (
	"context"
	"errors"
	"time"

	"wealthee/internal/model"

	"gorm.io/gorm"
)

var (
	ErrInvestmentNotFound = errors.New("投资记录不存在")
)

// PortfolioSummaryRow 持仓汇总聚合结果，一条 SQL 算完
type PortfolioSummaryRow struct {
	TotalInvestments     int64   `gorm:"column:total_investments"`
	TotalInvested        float64 `gorm:"column:total_invested"`
	TotalExpectedReturns float64 `gorm:"column:total_expected_returns"`
	AverageYield         float64 `gorm:"column:average_yield"`
	ActiveInvestments    int64   `gorm:"column:active_investments"`
	MaturedInvestments   int64   `gorm:"column:matured_investments"`
	NewThisMonth         int64   `gorm:"column:new_this_month"`
}

type InvestmentRepository struct {
	db *gorm.DB
}

func NewInvestmentRepository(db *gorm.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

func (r *InvestmentRepository) Create(ctx context.Context, tx *gorm.DB, investment *model.Investment) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(investment).Error
}

const investmentDetailSelect = "investments.*, p.name AS product_name, p.investment_type, p.risk_level, p.annual_yield"

// GetDetailByID 投资记录连表产品展示字段
func (r *InvestmentRepository) GetDetailByID(ctx context.Context, id string) (*model.InvestmentDetail, error) {
	var detail model.InvestmentDetail
	err := r.db.WithContext(ctx).
		Model(&model.Investment{}).
		Select(investmentDetailSelect).
		Joins("JOIN investment_products p ON p.id = investments.product_id").
		Where("investments.id = ?", id).
		Take(&detail).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvestmentNotFound
		}
		return nil, err
	}
	return &detail, nil
}

// ListByUser 用户投资列表，时间倒序分页，可按状态过滤
func (r *InvestmentRepository) ListByUser(ctx context.Context, userID, status string, page, limit int) ([]*model.InvestmentDetail, int64, error) {
	countQuery := r.db.WithContext(ctx).Model(&model.Investment{}).Where("user_id = ?", userID)
	if status != "" {
		countQuery = countQuery.Where("status = ?", status)
	}

	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).
		Model(&model.Investment{}).
		Select(investmentDetailSelect).
		Joins("JOIN investment_products p ON p.id = investments.product_id").
		Where("investments.user_id = ?", userID)
	if status != "" {
		query = query.Where("investments.status = ?", status)
	}

	var details []*model.InvestmentDetail
	err := query.
		Order("investments.invested_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&details).Error

	return details, total, err
}

// ListActiveDetails 用户全部活跃持仓（洞察计算用，不分页）
func (r *InvestmentRepository) ListActiveDetails(ctx context.Context, userID string) ([]*model.InvestmentDetail, error) {
	var details []*model.InvestmentDetail
	err := r.db.WithContext(ctx).
		Model(&model.Investment{}).
		Select(investmentDetailSelect).
		Joins("JOIN investment_products p ON p.id = investments.product_id").
		Where("investments.user_id = ? AND investments.status = ?", userID, model.InvestmentStatusActive).
		Find(&details).Error
	return details, err
}

// Summarize 持仓汇总，单条聚合查询
func (r *InvestmentRepository) Summarize(ctx context.Context, userID string, monthStart time.Time) (*PortfolioSummaryRow, error) {
	var row PortfolioSummaryRow
	err := r.db.WithContext(ctx).
		Model(&model.Investment{}).
		Select(`COUNT(*) AS total_investments,
			COALESCE(SUM(investments.amount), 0) AS total_invested,
			COALESCE(SUM(investments.expected_return), 0) AS total_expected_returns,
			COALESCE(AVG(p.annual_yield), 0) AS average_yield,
			COALESCE(SUM(CASE WHEN investments.status = 'active' THEN 1 ELSE 0 END), 0) AS active_investments,
			COALESCE(SUM(CASE WHEN investments.status = 'matured' THEN 1 ELSE 0 END), 0) AS matured_investments,
			COALESCE(SUM(CASE WHEN investments.invested_at >= ? THEN 1 ELSE 0 END), 0) AS new_this_month`, monthStart).
		Joins("JOIN investment_products p ON p.id = investments.product_id").
		Where("investments.user_id = ?", userID).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}
