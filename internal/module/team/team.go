package team

import (
	"club-management-system/internal/global/database"
	"club-management-system/internal/global/jwt"
	"club-management-system/internal/global/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func Create(c *gin.Context) {
	var req TeamInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	t, err := CreateTeam(c.Request.Context(), database.DB, jwt.GetActor(c), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, t)
}

func List(c *gin.Context) {
	var f ListFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	page, err := ListTeams(c.Request.Context(), database.DB, f)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, page)
}

func Get(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	t, err := GetTeam(c.Request.Context(), database.DB, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, t)
}

func Update(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	var req TeamUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	t, err := UpdateTeam(c.Request.Context(), database.DB, jwt.GetActor(c), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, t)
}

func Delete(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	if err := DeleteTeam(c.Request.Context(), database.DB, jwt.GetActor(c), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c)
}

func CreateRoleHandler(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	var req RoleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	r, err := CreateRole(c.Request.Context(), database.DB, jwt.GetActor(c), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, r)
}

func UpdateRoleHandler(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	roleID, ok := response.ParamID(c, "role_id")
	if !ok {
		return
	}
	var req RoleUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	r, err := UpdateRole(c.Request.Context(), database.DB, jwt.GetActor(c), id, roleID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, r)
}

func DeleteRoleHandler(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	roleID, ok := response.ParamID(c, "role_id")
	if !ok {
		return
	}
	if err := DeleteRole(c.Request.Context(), database.DB, jwt.GetActor(c), id, roleID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c)
}

type joinReq struct {
	UserID *uuid.UUID `json:"user_id"` // 为空时为本人加入
	RoleID *uint      `json:"role_id"`
}

func Join(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	var req joinReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
			return
		}
	}
	actor := jwt.GetActor(c)
	userID := actor.UserID
	if req.UserID != nil {
		userID = *req.UserID
	}
	m, err := JoinTeam(c.Request.Context(), database.DB, actor, id, userID, req.RoleID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, m)
}

func RemoveMemberHandler(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("用户 id 格式错误"))
		return
	}
	if err := RemoveMember(c.Request.Context(), database.DB, jwt.GetActor(c), id, userID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c)
}

func ListMembersHandler(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	members, err := ListMembers(c.Request.Context(), database.DB, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, members)
}
