package recruit

import (
	"club-management-system/internal/global/middleware"
	"club-management-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (m *ModuleRecruit) InitRouter(r *gin.RouterGroup) {
	recruitGroup := r.Group("/recruit")
	recruitGroup.GET("/settings", GetSettingsHandler)
	recruitGroup.POST("/resume", middleware.RateLimit(m.limiter), Submit)

	admin := recruitGroup.Group("", middleware.Auth(model.RoleAdmin))
	admin.PUT("/settings", UpdateSettingsHandler)
	admin.POST("/settings/sync", SyncSettingsHandler)
	admin.GET("/resume", List)
	admin.GET("/resume/export", Export)
	admin.GET("/resume/:id", Get)
	admin.PUT("/resume/:id/review", Review)
	admin.DELETE("/resume/:id", Delete)
}
