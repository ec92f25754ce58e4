package model

import (
	"time"
)

const (
	RiskAppetiteLow      = "low"
	RiskAppetiteModerate = "moderate"
	RiskAppetiteHigh     = "high"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRiskAppetite 校验风险偏好枚举值
func ValidRiskAppetite(v string) bool {
	return v == RiskAppetiteLow || v == RiskAppetiteModerate || v == RiskAppetiteHigh
}

// User 用户表
// 余额只允许投资引擎扣减，其他路径一律只读
type User struct {
	ID               string     `gorm:"type:char(36);primaryKey" json:"id"`
	FirstName        string     `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName         string     `gorm:"type:varchar(100)" json:"last_name"`
	Email            string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash     string     `gorm:"type:varchar(255);not null" json:"-"`
	RiskAppetite     string     `gorm:"type:enum('low','moderate','high');default:'moderate'" json:"risk_appetite"`
	Balance          float64    `gorm:"type:decimal(12,2);not null;default:10000.00" json:"balance"`
	ResetToken       *string    `gorm:"type:varchar(255);index" json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
	Role             string     `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
