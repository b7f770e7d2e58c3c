package jwt

import (
	"club-management-system/config"
	"club-management-system/internal/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const issuer = "club-management-system"

// Payload 访问令牌中携带的用户信息
type Payload struct {
	UserID uuid.UUID  `json:"user_id"`
	Role   model.Role `json:"role"`
}

type Claims struct {
	Payload
	jwt.RegisteredClaims
}

// CreateToken 使用全局配置签发访问令牌
func CreateToken(payload Payload) (string, error) {
	cfg := config.Get().JWT
	return Sign([]byte(cfg.AccessSecret), time.Duration(cfg.AccessExpire)*time.Second, payload, time.Now())
}

func Sign(secret []byte, ttl time.Duration, payload Payload, now time.Time) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("jwt access_secret 未配置")
	}
	claims := &Claims{
		Payload: payload,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   payload.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	return token, errors.WithStack(err)
}

// ParseToken 校验签名和有效期
func ParseToken(token string) (*Claims, bool) {
	return Parse([]byte(config.Get().JWT.AccessSecret), token)
}

func Parse(secret []byte, token string) (*Claims, bool) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !t.Valid || claims.UserID == uuid.Nil {
		return nil, false
	}
	return claims, true
}
