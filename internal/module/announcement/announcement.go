package announcement

import (
	"club-management-system/internal/global/database"
	"club-management-system/internal/global/jwt"
	"club-management-system/internal/global/redis"
	"club-management-system/internal/global/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func Create(c *gin.Context) {
	var req AnnouncementInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	a, err := CreateAnnouncement(c.Request.Context(), database.DB, jwt.GetActor(c), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, a)
}

func List(c *gin.Context) {
	var f ListFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	page, err := ListAnnouncements(c.Request.Context(), database.DB, jwt.GetActor(c), f)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, page)
}

// View 查看详情并计入浏览量，登录用户按用户去重，游客按 IP 去重
func View(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	actor := jwt.GetActor(c)
	viewer := "ip:" + c.ClientIP()
	if actor.UserID != uuid.Nil {
		viewer = "user:" + actor.UserID.String()
	}
	a, err := ViewAnnouncement(c.Request.Context(), database.DB, redis.Client, actor, viewer, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, a)
}

func Update(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	var req AnnouncementUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	a, err := UpdateAnnouncement(c.Request.Context(), database.DB, jwt.GetActor(c), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, a)
}

func Delete(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	if err := DeleteAnnouncement(c.Request.Context(), database.DB, jwt.GetActor(c), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c)
}
