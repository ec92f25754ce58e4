package job

import (
	"context"
	"time"

	"wealthee/internal/config"
	"wealthee/internal/infrastructure/mq"
	"wealthee/internal/model"
	"wealthee/internal/repository"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// OutboxSender 轮询 outbox 表，把待发消息推到 Kafka
type OutboxSender struct {
	db         *gorm.DB
	producer   sarama.SyncProducer
	outboxRepo *repository.OutboxRepository
	cfg        *config.Config
	stopCh     chan struct{}
	interval   time.Duration
	batchSize  int
}

func NewOutboxSender(db *gorm.DB, producer sarama.SyncProducer, cfg *config.Config) *OutboxSender {
	return &OutboxSender{
		db:         db,
		producer:   producer,
		outboxRepo: repository.NewOutboxRepository(db),
		cfg:        cfg,
		stopCh:     make(chan struct{}),
		interval:   100 * time.Millisecond,
		batchSize:  100,
	}
}

func (s *OutboxSender) Start(ctx context.Context) {
	log.Info().Msg("投资事件发送任务启动")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("收到停止信号，发送任务退出")
			return
		case <-s.stopCh:
			log.Info().Msg("发送任务停止")
			return
		case <-ticker.C:
			s.processPendingMessages(ctx)
		}
	}
}

func (s *OutboxSender) Stop() {
	close(s.stopCh)
}

func (s *OutboxSender) processPendingMessages(ctx context.Context) {
	messages, err := s.outboxRepo.GetPendingMessages(ctx, s.batchSize)
	if err != nil {
		log.Error().Err(err).Msg("查询待发消息失败")
		return
	}

	for _, msg := range messages {
		s.sendMessage(ctx, msg)
	}
}

func (s *OutboxSender) sendMessage(ctx context.Context, msg *model.OutboxMessage) {
	err := mq.SendMessage(s.producer, msg.Topic, msg.MessageKey, msg.Payload)

	if err == nil {
		if updateErr := s.outboxRepo.UpdateStatus(ctx, msg.ID, model.OutboxStatusSent); updateErr != nil {
			log.Error().Err(updateErr).Int64("id", msg.ID).Msg("更新消息状态失败")
		} else {
			log.Info().Int64("id", msg.ID).Str("topic", msg.Topic).Str("key", msg.MessageKey).Msg("投资事件发送成功")
		}
		return
	}

	log.Error().Err(err).Int64("id", msg.ID).Msg("投资事件发送失败")

	if err := s.outboxRepo.IncrementRetryCount(ctx, msg.ID); err != nil {
		log.Error().Err(err).Int64("id", msg.ID).Msg("增加重试次数失败")
	}

	if msg.RetryCount+1 >= s.cfg.Business.MaxRetryCount {
		if err := s.outboxRepo.MarkAsFailed(ctx, msg.ID); err != nil {
			log.Error().Err(err).Int64("id", msg.ID).Msg("标记消息失败状态失败")
		} else {
			log.Warn().Int64("id", msg.ID).Msg("消息超过最大重试次数，标记为失败")
		}
	}
}
