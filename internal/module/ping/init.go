package ping

import (
	"club-management-system/internal/global/logger"
	"log/slog"
)

var log = slog.Default()

const version = "1.0.0"

type ModulePing struct{}

func (p *ModulePing) GetName() string {
	return "Ping"
}

func (p *ModulePing) Init() {
	log = logger.New("Ping")
}
