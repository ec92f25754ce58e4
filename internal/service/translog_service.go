package service

import (
	"context"

	"wealthee/internal/model"
	"wealthee/internal/repository"

	"gorm.io/gorm"
)

type TransactionLogService struct {
	db           *gorm.DB
	translogRepo *repository.TransactionLogRepository
	aiService    *AIService
}

func NewTransactionLogService(db *gorm.DB, aiService *AIService) *TransactionLogService {
	return &TransactionLogService{
		db:           db,
		translogRepo: repository.NewTransactionLogRepository(db),
		aiService:    aiService,
	}
}

func (s *TransactionLogService) List(ctx context.Context, f *repository.TransactionLogFilter) ([]*model.TransactionLog, int64, error) {
	return s.translogRepo.List(ctx, f)
}

// ErrorSummary 最近 100 条错误日志的摘要
func (s *TransactionLogService) ErrorSummary(ctx context.Context, userID string) (*ErrorSummary, error) {
	errorLogs, err := s.translogRepo.ListErrors(ctx, userID, 100)
	if err != nil {
		return nil, err
	}
	return s.aiService.SummarizeErrors(ctx, errorLogs), nil
}
