package tracing

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
)

// RedisHook 实现 redis.Hook，为命令和 pipeline 创建子 span
type RedisHook struct {
	slowThreshold time.Duration
}

func NewRedisHook(slowThreshold time.Duration) *RedisHook {
	return &RedisHook{slowThreshold: slowThreshold}
}

func (h *RedisHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *RedisHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		span, ctx := h.start(ctx, cmd.Name(), strings.ToUpper(cmd.Name()))
		start := time.Now()
		err := next(ctx, cmd)
		h.finish(span, start, err)
		return err
	}
}

func (h *RedisHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		names := make([]string, 0, len(cmds))
		for _, cmd := range cmds {
			names = append(names, strings.ToUpper(cmd.Name()))
		}
		span, ctx := h.start(ctx, "pipeline", strings.Join(names, " "))
		if span != nil {
			span.SetData("db.redis.pipeline_length", len(cmds))
		}
		start := time.Now()
		err := next(ctx, cmds)
		h.finish(span, start, err)
		return err
	}
}

func (h *RedisHook) start(ctx context.Context, op, description string) (*sentry.Span, context.Context) {
	parent := sentry.SpanFromContext(ctx)
	if parent == nil {
		return nil, ctx
	}
	span := parent.StartChild("db.redis")
	span.Description = description
	span.SetData("db.system", "redis")
	span.SetData("db.operation", op)
	return span, span.Context()
}

func (h *RedisHook) finish(span *sentry.Span, start time.Time, err error) {
	if span == nil {
		return
	}
	if h.slowThreshold > 0 && time.Since(start) < h.slowThreshold {
		span.Sampled = sentry.SampledFalse
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		span.Status = sentry.SpanStatusInternalError
		span.SetData("redis.error", err.Error())
	} else {
		span.Status = sentry.SpanStatusOK
	}
	span.Finish()
}
