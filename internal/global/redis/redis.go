package redis

import (
	"club-management-system/config"
	"club-management-system/internal/global/sentry"
	"club-management-system/internal/global/sentry/tracing"
	"context"
	"net"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Client 未配置 redis.host 时为 nil，调用方需要降级处理
var Client *redis.Client

func Init() error {
	cfg := config.Get()
	if cfg.Redis.Host == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if sentry.Enabled() {
		threshold := time.Duration(cfg.Sentry.Tracing.RedisSlowThresholdMs) * time.Millisecond
		client.AddHook(tracing.NewRedisHook(threshold))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return errors.Wrap(err, "连接 Redis 失败")
	}
	Client = client
	return nil
}

func Close() {
	if Client != nil {
		_ = Client.Close()
	}
}
