package module

import (
	"club-management-system/internal/module/announcement"
	"club-management-system/internal/module/ping"
	"club-management-system/internal/module/recruit"
	"club-management-system/internal/module/study"
	"club-management-system/internal/module/team"
	"club-management-system/internal/module/upload"
	"club-management-system/internal/module/user"

	"github.com/gin-gonic/gin"
)

type Module interface {
	GetName() string
	Init()
	InitRouter(r *gin.RouterGroup)
}

var Modules []Module

func registerModule(m []Module) {
	Modules = append(Modules, m...)
}

func init() {
	// Register your module here
	registerModule([]Module{
		&ping.ModulePing{},
		&user.ModuleUser{},
		&study.ModuleStudy{},
		&team.ModuleTeam{},
		&recruit.ModuleRecruit{},
		&announcement.ModuleAnnouncement{},
		&upload.ModuleUpload{},
	})
}
