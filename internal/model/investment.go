package model

import (
	"time"
)

const (
	InvestmentStatusActive    = "active"
	InvestmentStatusMatured   = "matured"
	InvestmentStatusCancelled = "cancelled"
)

// Investment 投资记录表
// 创建后不可变，只有 status / actual_return 允许流转
type Investment struct {
	ID             string    `gorm:"type:char(36);primaryKey" json:"id"`
	ReferenceNo    string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"reference_no"`
	UserID         string    `gorm:"type:char(36);not null;index:idx_user_status" json:"user_id"`
	ProductID      string    `gorm:"type:char(36);not null;index" json:"product_id"`
	Amount         float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	ExpectedReturn float64   `gorm:"type:decimal(12,2)" json:"expected_return"`
	MaturityDate   time.Time `gorm:"type:date" json:"maturity_date"`
	Status         string    `gorm:"type:enum('active','matured','cancelled');default:'active';index:idx_user_status" json:"status"`
	ActualReturn   *float64  `gorm:"type:decimal(12,2)" json:"actual_return,omitempty"`
	Notes          string    `gorm:"type:text" json:"notes,omitempty"`
	InvestedAt     time.Time `gorm:"autoCreateTime;index" json:"invested_at"`
}

func (Investment) TableName() string {
	return "investments"
}

// InvestmentDetail 投资记录 + 产品展示字段（列表/创建返回用）
type InvestmentDetail struct {
	Investment
	ProductName    string  `json:"product_name"`
	InvestmentType string  `json:"investment_type"`
	RiskLevel      string  `json:"risk_level"`
	AnnualYield    float64 `json:"annual_yield"`
}
