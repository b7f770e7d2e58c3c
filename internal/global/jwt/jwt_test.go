package jwt

import (
	"club-management-system/internal/model"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestSignAndParse(t *testing.T) {
	id := uuid.New()
	token, err := Sign(secret, time.Hour, Payload{UserID: id, Role: model.RoleMember}, time.Now())
	require.NoError(t, err)

	claims, ok := Parse(secret, token)
	require.True(t, ok)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, model.RoleMember, claims.Role)
	assert.Equal(t, id.String(), claims.Subject)
}

func TestParseRejects(t *testing.T) {
	id := uuid.New()
	valid, err := Sign(secret, time.Hour, Payload{UserID: id, Role: model.RoleAdmin}, time.Now())
	require.NoError(t, err)
	expired, err := Sign(secret, time.Minute, Payload{UserID: id}, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	anonymous, err := Sign(secret, time.Hour, Payload{}, time.Now())
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		Payload:          Payload{UserID: id, Role: model.RoleAdmin},
		RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer, ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	otherIssuer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Payload:          Payload{UserID: id},
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(secret)
	require.NoError(t, err)
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Payload:          Payload{UserID: id},
		RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer},
	}).SignedString(secret)
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret []byte
		token  string
	}{
		{"签名密钥不一致", []byte("other"), valid},
		{"已过期", secret, expired},
		{"缺少用户", secret, anonymous},
		{"none 算法", secret, none},
		{"签发方不一致", secret, otherIssuer},
		{"没有过期时间", secret, noExpiry},
		{"格式错误", secret, "not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Parse(tt.secret, tt.token)
			assert.False(t, ok)
		})
	}
}

func TestSignWithoutSecret(t *testing.T) {
	_, err := Sign(nil, time.Hour, Payload{UserID: uuid.New()}, time.Now())
	assert.Error(t, err)
}
