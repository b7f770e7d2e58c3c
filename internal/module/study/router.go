package study

import (
	"club-management-system/internal/global/middleware"
	"club-management-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (s *ModuleStudy) InitRouter(r *gin.RouterGroup) {
	studyGroup := r.Group("/study")
	studyGroup.GET("", List)
	studyGroup.GET("/:id", Get)
	studyGroup.GET("/:id/progress", ListProgressHandler)
	studyGroup.GET("/:id/resources", ListResourcesHandler)

	// 报名和退出只需要登录
	joined := studyGroup.Group("/:id/members", middleware.Auth(model.RoleGuest))
	joined.POST("", AddMemberHandler)
	joined.DELETE("/:member_id", RemoveMemberHandler)

	member := studyGroup.Group("", middleware.Auth(model.RoleMember))
	member.POST("", Create)
	member.PUT("/:id", Update)
	member.DELETE("/:id", Delete)
	member.PUT("/:id/members/:member_id/role", SetMemberRoleHandler)
	member.POST("/:id/progress", AddProgressHandler)
	member.DELETE("/:id/progress/:progress_id", DeleteProgressHandler)
	member.POST("/:id/resources", AttachResourceHandler)
	member.DELETE("/:id/resources/:resource_id", DeleteResourceHandler)
}
