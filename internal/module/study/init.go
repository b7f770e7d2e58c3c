package study

import (
	"club-management-system/internal/global/logger"
	"log/slog"
)

var log = slog.Default()

type ModuleStudy struct{}

func (s *ModuleStudy) GetName() string {
	return "Study"
}

func (s *ModuleStudy) Init() {
	log = logger.New("Study")
}
