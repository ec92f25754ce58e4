package model

import (
	"time"
)

// TransactionLog 接口审计日志表
//
// 【重要】日志表设计原则：
// 1. 只追加，不修改，不删除 —— 保证审计可追溯
// 2. 每个请求恰好一条，响应返回后写入
// 3. user_id 可空 —— 用户删除后日志仍然保留
type TransactionLog struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       *string   `gorm:"type:char(36);index:idx_user_date" json:"user_id"`
	Email        *string   `gorm:"type:varchar(255)" json:"email"`
	Endpoint     string    `gorm:"type:varchar(255);not null;index:idx_endpoint_status" json:"endpoint"`
	HTTPMethod   string    `gorm:"type:varchar(10);not null" json:"http_method"`
	StatusCode   int       `gorm:"not null;index:idx_endpoint_status;index:idx_status_date" json:"status_code"`
	ResponseTime int64     `gorm:"not null;default:0" json:"response_time"`
	ErrorMessage *string   `gorm:"type:text" json:"error_message"`
	IPAddress    string    `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent    string    `gorm:"type:text" json:"user_agent"`
	RequestBody  *string   `gorm:"type:json" json:"request_body,omitempty"`
	ResponseBody *string   `gorm:"type:json" json:"response_body,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index:idx_user_date;index:idx_status_date" json:"created_at"`
}

func (TransactionLog) TableName() string {
	return "transaction_logs"
}
