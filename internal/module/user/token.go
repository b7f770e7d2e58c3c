package user

import (
	"club-management-system/internal/global/jwt"
	"club-management-system/internal/global/response"
	"club-management-system/internal/model"
	"club-management-system/tools"
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// refreshTokenBytes 刷新令牌随机部分的长度
	refreshTokenBytes = 32
	// maxDeviceInfo device_info 列按字符计的长度
	maxDeviceInfo = 255
)

// truncateDeviceInfo 按字符截断，丢弃非法 UTF-8
func truncateDeviceInfo(s string) string {
	s = strings.ToValidUTF8(s, "")
	if utf8.RuneCountInString(s) <= maxDeviceInfo {
		return s
	}
	return string([]rune(s)[:maxDeviceInfo])
}

// IssueRefreshToken 签发刷新令牌，明文只在这里返回一次
func IssueRefreshToken(ctx context.Context, db *gorm.DB, userID uuid.UUID, deviceInfo string, expiry time.Duration) (string, *model.RefreshToken, error) {
	raw, err := tools.RandomToken(refreshTokenBytes)
	if err != nil {
		return "", nil, response.ErrServerInternal.WithOrigin(err)
	}
	db = db.WithContext(ctx)
	if err := model.RequireUser(db, userID); err != nil {
		return "", nil, response.FromDB(err, nil)
	}
	t := &model.RefreshToken{
		UserID:     userID,
		TokenHash:  tools.SHA256Hex(raw),
		DeviceInfo: truncateDeviceInfo(deviceInfo),
		ExpiresAt:  time.Now().Add(expiry),
	}
	if err := db.Create(t).Error; err != nil {
		return "", nil, response.FromDB(err, nil)
	}
	return raw, t, nil
}

// ValidateRefreshToken 已撤销或过期的令牌都视为无效，过期的顺手删除
func ValidateRefreshToken(ctx context.Context, db *gorm.DB, raw string) (*model.RefreshToken, error) {
	db = db.WithContext(ctx)
	var t model.RefreshToken
	err := db.Where("token_hash = ?", tools.SHA256Hex(raw)).First(&t).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, response.ErrTokenInvalid
	case err != nil:
		return nil, response.FromDB(err, nil)
	}

	now := time.Now()
	if t.Expired(now) {
		if err := db.Delete(&t).Error; err != nil {
			log.Error("删除过期令牌失败", "error", err, "token_id", t.ID)
		}
		return nil, response.ErrTokenInvalid
	}
	if err := db.Model(&t).Update("last_used_at", now).Error; err != nil {
		return nil, response.FromDB(err, nil)
	}
	t.LastUsedAt = &now
	return &t, nil
}

// RevokeRefreshToken 撤销单个令牌，userID 非空时只能撤销自己的
func RevokeRefreshToken(ctx context.Context, db *gorm.DB, userID uuid.UUID, tokenID uint) error {
	q := db.WithContext(ctx).Where("id = ?", tokenID)
	if userID != uuid.Nil {
		q = q.Where("user_id = ?", userID)
	}
	result := q.Delete(&model.RefreshToken{})
	if result.Error != nil {
		return response.FromDB(result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return response.ErrNotFound
	}
	return nil
}

// RevokeAllTokens 退出所有设备
func RevokeAllTokens(ctx context.Context, db *gorm.DB, userID uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.RefreshToken{})
	if result.Error != nil {
		return 0, response.FromDB(result.Error, nil)
	}
	return result.RowsAffected, nil
}

func ListTokens(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]model.RefreshToken, error) {
	var tokens []model.RefreshToken
	err := db.WithContext(ctx).
		Where("user_id = ? AND expires_at > ?", userID, time.Now()).
		Order("created_at DESC").
		Find(&tokens).Error
	if err != nil {
		return nil, response.FromDB(err, nil)
	}
	return tokens, nil
}

// TokenPair 登录和刷新返回的令牌
type TokenPair struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresAt    time.Time  `json:"refresh_expires_at"`
	UserID       uuid.UUID  `json:"user_id"`
	Role         model.Role `json:"role"`
}

func issuePair(ctx context.Context, db *gorm.DB, u *model.User, deviceInfo string, refreshExpiry time.Duration) (*TokenPair, error) {
	access, err := jwt.CreateToken(jwt.Payload{UserID: u.ID, Role: u.Role})
	if err != nil {
		return nil, response.ErrServerInternal.WithOrigin(err)
	}
	raw, t, err := IssueRefreshToken(ctx, db, u.ID, deviceInfo, refreshExpiry)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: raw,
		ExpiresAt:    t.ExpiresAt,
		UserID:       u.ID,
		Role:         u.Role,
	}, nil
}

// Rotate 用旧刷新令牌换一对新令牌，旧令牌立即失效
// 同一令牌并发刷新时只有删除成功的一方能拿到新令牌
func Rotate(ctx context.Context, db *gorm.DB, raw, deviceInfo string, refreshExpiry time.Duration) (*TokenPair, error) {
	// 在事务外校验，过期令牌的删除单独提交
	old, err := ValidateRefreshToken(ctx, db, raw)
	if err != nil {
		return nil, err
	}
	var pair *TokenPair
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(old)
		if result.Error != nil {
			return response.FromDB(result.Error, nil)
		}
		if result.RowsAffected == 0 {
			return response.ErrTokenInvalid
		}
		u, err := GetUser(ctx, tx, old.UserID)
		if err != nil {
			if errors.Is(err, response.ErrNotFound) {
				return response.ErrTokenInvalid
			}
			return err
		}
		pair, err = issuePair(ctx, tx, u, deviceInfo, refreshExpiry)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}
