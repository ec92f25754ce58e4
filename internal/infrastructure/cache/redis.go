package cache

import (
	"context"
	"fmt"
	"time"

	"wealthee/internal/config"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

func InitRedis(cfg *config.RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("连接 Redis 失败")
	}

	log.Info().Msg("Redis 连接成功")
	return client
}
