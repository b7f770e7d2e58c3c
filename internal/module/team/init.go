package team

import (
	"club-management-system/internal/global/logger"
	"log/slog"
)

var log = slog.Default()

type ModuleTeam struct{}

func (t *ModuleTeam) GetName() string {
	return "Team"
}

func (t *ModuleTeam) Init() {
	log = logger.New("Team")
}
