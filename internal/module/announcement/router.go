package announcement

import (
	"club-management-system/internal/global/middleware"
	"club-management-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (a *ModuleAnnouncement) InitRouter(r *gin.RouterGroup) {
	announcementGroup := r.Group("/announcement", middleware.OptionalAuth())
	announcementGroup.GET("", List)
	announcementGroup.GET("/:id", View)

	member := announcementGroup.Group("", middleware.Auth(model.RoleMember))
	member.POST("", Create)
	member.PUT("/:id", Update)
	member.DELETE("/:id", Delete)
}
