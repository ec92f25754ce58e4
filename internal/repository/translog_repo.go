package repository

import (
	"context"

	"wealthee/internal/model"

	"gorm.io/gorm"
)

// TransactionLogFilter 审计日志筛选条件
type TransactionLogFilter struct {
	UserID     string
	Email      string
	StatusCode *int
	Page       int
	Limit      int
}

type TransactionLogRepository struct {
	db *gorm.DB
}

func NewTransactionLogRepository(db *gorm.DB) *TransactionLogRepository {
	return &TransactionLogRepository{db: db}
}

// Create 追加一条日志
// 绝不参与业务事务：日志失败不能回滚业务，业务回滚也不能抹掉日志
func (r *TransactionLogRepository) Create(ctx context.Context, entry *model.TransactionLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List 按用户/邮箱/状态码筛选，时间倒序分页
func (r *TransactionLogRepository) List(ctx context.Context, f *TransactionLogFilter) ([]*model.TransactionLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.TransactionLog{}).Where("user_id = ?", f.UserID)

	if f.Email != "" {
		query = query.Where("email = ?", f.Email)
	}
	if f.StatusCode != nil {
		query = query.Where("status_code = ?", *f.StatusCode)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []*model.TransactionLog
	err := query.
		Select("id, endpoint, http_method, status_code, response_time, error_message, created_at").
		Order("created_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&logs).Error

	return logs, total, err
}

// ListErrors 最近的错误日志（status >= 400），错误摘要用
func (r *TransactionLogRepository) ListErrors(ctx context.Context, userID string, limit int) ([]*model.TransactionLog, error) {
	var logs []*model.TransactionLog
	err := r.db.WithContext(ctx).
		Select("endpoint, http_method, status_code, error_message, created_at").
		Where("user_id = ? AND status_code >= ?", userID, 400).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
