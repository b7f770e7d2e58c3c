package user

import (
	"club-management-system/internal/global/middleware"
	"club-management-system/internal/model"

	"github.com/gin-gonic/gin"
)

// InitRouter 用户、登录和会话相关的接口
func (u *ModuleUser) InitRouter(r *gin.RouterGroup) {
	userGroup := r.Group("/user")

	limited := userGroup.Group("", middleware.RateLimit(u.limiter))
	limited.POST("/register", Register)
	limited.POST("/login", Login)
	limited.POST("/refresh", Refresh)
	userGroup.POST("/logout", Logout)

	me := userGroup.Group("/me", middleware.Auth(model.RoleGuest))
	me.GET("", GetMe)
	me.PUT("", UpdateMe)
	me.DELETE("", DeleteMe)
	me.PUT("/password", ChangePasswordHandler)
	me.GET("/tokens", ListMyTokens)
	me.DELETE("/tokens/:id", RevokeMyToken)
	me.DELETE("/tokens", RevokeMyTokens)

	userGroup.GET("/:id", middleware.Auth(model.RoleGuest), GetProfile)

	admin := userGroup.Group("", middleware.Auth(model.RoleAdmin))
	admin.GET("", List)
	admin.PUT("/:id", UpdateUser)
	admin.PUT("/:id/role", SetRoleHandler)
	admin.DELETE("/:id", DeleteUser)
	admin.DELETE("/:id/purge", PurgeUserHandler)
}
