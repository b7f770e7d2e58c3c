package study

import (
	"club-management-system/internal/global/database"
	"club-management-system/internal/global/jwt"
	"club-management-system/internal/global/response"
	"club-management-system/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func Create(c *gin.Context) {
	var req StudyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	s, err := CreateStudy(c.Request.Context(), database.DB, jwt.GetActor(c), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, s)
}

func List(c *gin.Context) {
	var f ListFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	page, err := ListStudies(c.Request.Context(), database.DB, f)
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
	s, err := GetStudy(c.Request.Context(), database.DB, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, s)
}

func Update(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	var req StudyUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	s, err := UpdateStudy(c.Request.Context(), database.DB, jwt.GetActor(c), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, s)
}

func Delete(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	if err := DeleteStudy(c.Request.Context(), database.DB, jwt.GetActor(c), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c)
}

type addMemberReq struct {
	UserID *uuid.UUID `json:"user_id"` // 为空时为本人报名
}

func AddMemberHandler(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	var req addMemberReq
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
	m, err := AddMember(c.Request.Context(), database.DB, actor, id, userID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, m)
}

type setMemberRoleReq struct {
	Role string `json:"role" binding:"required"`
}

func SetMemberRoleHandler(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	memberID, ok := response.ParamID(c, "member_id")
	if !ok {
		return
	}
	var req setMemberRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	role, err := model.ParseStudyMemberRole(req.Role)
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips(err.Error()))
		return
	}
	m, err := SetMemberRole(c.Request.Context(), database.DB, jwt.GetActor(c), id, memberID, role)
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
	memberID, ok := response.ParamID(c, "member_id")
	if !ok {
		return
	}
	if err := RemoveMember(c.Request.Context(), database.DB, jwt.GetActor(c), id, memberID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c)
}

func AddProgressHandler(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	var req ProgressInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	p, err := AddProgress(c.Request.Context(), database.DB, jwt.GetActor(c), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, p)
}

func ListProgressHandler(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	list, err := ListProgress(c.Request.Context(), database.DB, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}

func DeleteProgressHandler(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	progressID, ok := response.ParamID(c, "progress_id")
	if !ok {
		return
	}
	if err := DeleteProgress(c.Request.Context(), database.DB, jwt.GetActor(c), id, progressID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c)
}

func AttachResourceHandler(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	var req ResourceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	r, err := AttachResource(c.Request.Context(), database.DB, jwt.GetActor(c), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, r)
}

type listResourcesReq struct {
	ProgressID *uint `form:"progress_id"`
}

func ListResourcesHandler(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	var req listResourcesReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	list, err := ListResources(c.Request.Context(), database.DB, id, req.ProgressID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}

func DeleteResourceHandler(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	resourceID, ok := response.ParamID(c, "resource_id")
	if !ok {
		return
	}
	if err := DeleteResource(c.Request.Context(), database.DB, jwt.GetActor(c), id, resourceID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c)
}
