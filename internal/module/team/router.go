package team

import (
	"club-management-system/internal/global/middleware"
	"club-management-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (t *ModuleTeam) InitRouter(r *gin.RouterGroup) {
	teamGroup := r.Group("/team")
	teamGroup.GET("", List)
	teamGroup.GET("/:id", Get)
	teamGroup.GET("/:id/members", ListMembersHandler)

	// 加入和退出只需要登录
	joined := teamGroup.Group("/:id/members", middleware.Auth(model.RoleGuest))
	joined.POST("", Join)
	joined.DELETE("/:user_id", RemoveMemberHandler)

	member := teamGroup.Group("", middleware.Auth(model.RoleMember))
	member.POST("", Create)
	member.PUT("/:id", Update)
	member.DELETE("/:id", Delete)
	member.POST("/:id/roles", CreateRoleHandler)
	member.PUT("/:id/roles/:role_id", UpdateRoleHandler)
	member.DELETE("/:id/roles/:role_id", DeleteRoleHandler)
}
