package user

import (
	"club-management-system/config"
	"club-management-system/internal/global/logger"
	"club-management-system/internal/global/middleware"
	"log/slog"
)

var log = slog.Default()

type ModuleUser struct {
	limiter *middleware.IPRateLimiter
}

func (u *ModuleUser) GetName() string {
	return "User"
}

func (u *ModuleUser) Init() {
	log = logger.New("User")
	cfg := config.Get().RateLimit
	u.limiter = middleware.NewIPRateLimiter(cfg.PerMinute, cfg.Burst)
}
