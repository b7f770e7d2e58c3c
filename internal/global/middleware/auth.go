package middleware

import (
	"club-management-system/internal/global/jwt"
	"club-management-system/internal/global/response"
	"club-management-system/internal/model"
	"strings"

	"github.com/gin-gonic/gin"
)

// Auth 要求请求携带有效的访问令牌，且角色不低于 minRole
func Auth(minRole model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c)
		if !ok {
			response.Fail(c, response.ErrTokenInvalid)
			return
		}
		if !claims.Role.AtLeast(minRole) {
			response.Fail(c, response.ErrForbidden)
			return
		}
		jwt.SetUserPayload(c, claims)
		c.Next()
	}
}

// OptionalAuth 携带有效令牌时记录用户信息，否则按游客处理
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := bearerClaims(c); ok {
			jwt.SetUserPayload(c, claims)
		}
		c.Next()
	}
}

func bearerClaims(c *gin.Context) (*jwt.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || token == "" {
		return nil, false
	}
	return jwt.ParseToken(token)
}
