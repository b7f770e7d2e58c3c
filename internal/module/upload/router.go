package upload

import (
	"club-management-system/internal/global/middleware"
	"club-management-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (u *ModuleUpload) InitRouter(r *gin.RouterGroup) {
	uploadGroup := r.Group("/upload", middleware.Auth(model.RoleGuest))
	uploadGroup.POST("/presign", u.Presign)
	uploadGroup.POST("/file", u.File)
	uploadGroup.GET("/url", u.URL)
}
