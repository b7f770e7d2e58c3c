package user

import (
	"club-management-system/config"
	"club-management-system/internal/global/database"
	"club-management-system/internal/global/jwt"
	"club-management-system/internal/global/response"
	"club-management-system/internal/model"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func refreshExpiry() time.Duration {
	return time.Duration(config.Get().JWT.RefreshExpire) * time.Second
}

// Register 处理用户注册请求
func Register(c *gin.Context) {
	var req CreateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	u, err := CreateUser(c.Request.Context(), database.DB, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, u)
}

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 校验密码并签发访问令牌和刷新令牌
func Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	ctx := c.Request.Context()
	u, err := Authenticate(ctx, database.DB, req.Username, req.Password)
	if err != nil {
		response.Fail(c, err)
		return
	}
	pair, err := issuePair(ctx, database.DB, u, c.Request.UserAgent(), refreshExpiry())
	if err != nil {
		response.Fail(c, err)
		return
	}

	log.Info("用户登录成功", "user_id", u.ID, "role", u.Role)
	response.Success(c, pair)
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func Refresh(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	pair, err := Rotate(c.Request.Context(), database.DB, req.RefreshToken, c.Request.UserAgent(), refreshExpiry())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, pair)
}

// Logout 撤销传入的刷新令牌，令牌无效时同样返回成功
func Logout(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	ctx := c.Request.Context()
	t, err := ValidateRefreshToken(ctx, database.DB, req.RefreshToken)
	if err == nil {
		err = RevokeRefreshToken(ctx, database.DB, t.UserID, t.ID)
	}
	if err != nil && !errors.Is(err, response.ErrTokenInvalid) && !errors.Is(err, response.ErrNotFound) {
		response.Fail(c, err)
		return
	}
	response.Success(c)
}

func GetMe(c *gin.Context) {
	u, err := GetUser(c.Request.Context(), database.DB, jwt.GetActor(c).UserID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, u)
}

func UpdateMe(c *gin.Context) {
	actor := jwt.GetActor(c)
	updateProfile(c, actor, actor.UserID)
}

// UpdateUser 管理员修改任意用户资料
func UpdateUser(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	updateProfile(c, jwt.GetActor(c), id)
}

func updateProfile(c *gin.Context, actor model.Actor, id uuid.UUID) {
	var req ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	u, err := UpdateProfile(c.Request.Context(), database.DB, actor, id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, u)
}

func DeleteMe(c *gin.Context) {
	actor := jwt.GetActor(c)
	if err := SoftDeleteUser(c.Request.Context(), database.DB, actor, actor.UserID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c)
}

// ChangePasswordReq 定义修改密码请求的结构体
type ChangePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func ChangePasswordHandler(c *gin.Context) {
	var req ChangePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	actor := jwt.GetActor(c)
	if err := ChangePassword(c.Request.Context(), database.DB, actor.UserID, req.OldPassword, req.NewPassword); err != nil {
		response.Fail(c, err)
		return
	}
	log.Info("用户修改密码成功", "user_id", actor.UserID)
	response.Success(c)
}

func ListMyTokens(c *gin.Context) {
	tokens, err := ListTokens(c.Request.Context(), database.DB, jwt.GetActor(c).UserID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, tokens)
}

func RevokeMyToken(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	if err := RevokeRefreshToken(c.Request.Context(), database.DB, jwt.GetActor(c).UserID, id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c)
}

func RevokeMyTokens(c *gin.Context) {
	n, err := RevokeAllTokens(c.Request.Context(), database.DB, jwt.GetActor(c).UserID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"revoked": n})
}

// GetProfile 本人和管理员看到完整资料，其他人只看到公开字段
func GetProfile(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	u, err := GetUser(c.Request.Context(), database.DB, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if jwt.GetActor(c).Owns(id) {
		response.Success(c, u)
		return
	}
	response.Success(c, u.Public())
}

func List(c *gin.Context) {
	var f ListFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	page, err := ListUsers(c.Request.Context(), database.DB, f)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, page)
}

type setRoleReq struct {
	Role string `json:"role" binding:"required"`
}

func SetRoleHandler(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	var req setRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips(err.Error()))
		return
	}
	u, err := SetRole(c.Request.Context(), database.DB, jwt.GetActor(c), id, role)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, u)
}

func DeleteUser(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	if err := SoftDeleteUser(c.Request.Context(), database.DB, jwt.GetActor(c), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c)
}

func PurgeUserHandler(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	if err := PurgeUser(c.Request.Context(), database.DB, jwt.GetActor(c), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c)
}

func userIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("用户 id 格式错误"))
		return uuid.Nil, false
	}
	return id, true
}
