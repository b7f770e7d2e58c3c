package jwt

import (
	"club-management-system/internal/model"

	"github.com/gin-gonic/gin"
)

const payloadKey = "payload"

func SetUserPayload(c *gin.Context, claims *Claims) {
	c.Set(payloadKey, claims)
}

func GetUserPayload(c *gin.Context) (userPayload *Claims, exist bool) {
	payload, _ := c.Get(payloadKey)
	userPayload, exist = payload.(*Claims)
	return
}

// GetActor 当前请求的操作者，未登录时返回零值
func GetActor(c *gin.Context) model.Actor {
	claims, ok := GetUserPayload(c)
	if !ok {
		return model.Actor{}
	}
	return model.Actor{UserID: claims.UserID, Role: claims.Role}
}
