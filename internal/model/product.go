package model

import (
	"time"
)

const (
	InvestmentTypeBond  = "bond"
	InvestmentTypeFD    = "fd"
	InvestmentTypeMF    = "mf"
	InvestmentTypeETF   = "etf"
	InvestmentTypeOther = "other"
)

// ValidInvestmentType 校验产品类型枚举值
func ValidInvestmentType(v string) bool {
	switch v {
	case InvestmentTypeBond, InvestmentTypeFD, InvestmentTypeMF, InvestmentTypeETF, InvestmentTypeOther:
		return true
	}
	return false
}

// Product 投资产品表
// 只有 admin 角色可以创建/修改/删除
type Product struct {
	ID             string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	InvestmentType string    `gorm:"type:enum('bond','fd','mf','etf','other');not null;index:idx_type_risk" json:"investment_type"`
	TenureMonths   int       `gorm:"not null" json:"tenure_months"`
	AnnualYield    float64   `gorm:"type:decimal(5,2);not null;index" json:"annual_yield"`
	RiskLevel      string    `gorm:"type:enum('low','moderate','high');not null;index:idx_type_risk" json:"risk_level"`
	MinInvestment  float64   `gorm:"type:decimal(12,2);default:1000.00" json:"min_investment"`
	MaxInvestment  *float64  `gorm:"type:decimal(12,2)" json:"max_investment"`
	Description    string    `gorm:"type:text" json:"description"`
	IsActive       bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string {
	return "investment_products"
}
