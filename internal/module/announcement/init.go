package announcement

import (
	"club-management-system/internal/global/logger"
	"log/slog"
)

var log = slog.Default()

type ModuleAnnouncement struct{}

func (a *ModuleAnnouncement) GetName() string {
	return "Announcement"
}

func (a *ModuleAnnouncement) Init() {
	log = logger.New("Announcement")
}
