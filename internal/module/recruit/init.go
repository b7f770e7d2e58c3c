package recruit

import (
	"club-management-system/config"
	"club-management-system/internal/global/httpclient"
	"club-management-system/internal/global/logger"
	"club-management-system/internal/global/middleware"
	"club-management-system/internal/global/notify"
	"log/slog"
)

var (
	log      = slog.Default()
	notifier *notify.Notifier
)

type ModuleRecruit struct {
	limiter *middleware.IPRateLimiter
}

func (m *ModuleRecruit) GetName() string {
	return "Recruit"
}

func (m *ModuleRecruit) Init() {
	log = logger.New("Recruit")
	cfg := config.Get()
	m.limiter = middleware.NewIPRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
	notifier = notify.New(httpclient.Client, cfg.Notify.WebhookURL)
	if notifier.Enabled() {
		log.Info("新简历通知已开启")
	}
}
