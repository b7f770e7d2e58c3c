package httpclient

import (
	"club-management-system/config"
	"club-management-system/internal/global/sentry"
	"club-management-system/internal/global/sentry/tracing"
	"time"

	"github.com/go-resty/resty/v2"
)

var Client *resty.Client

func Init() {
	Client = New(time.Duration(config.Get().Notify.TimeoutSec) * time.Second)

	// 配置 Sentry 性能追踪（如果 Sentry 已启用）
	if sentry.Enabled() && config.Get().Sentry.Tracing.TraceHTTPCalls {
		tracing.SetupResty(Client)
	}
}

func New(timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetHeader("User-Agent", "club-management-system")
}
