package recruit

import (
	"club-management-system/internal/global/response"
	"club-management-system/internal/model"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	settingsCacheKey = "club:recruitment:settings"
	settingsCacheTTL = 10 * time.Minute
)

// GetSettings 读取招新配置，rdb 不为 nil 时先查缓存
func GetSettings(ctx context.Context, db *gorm.DB, rdb *redis.Client) (*model.RecruitmentSettings, error) {
	if rdb != nil {
		if b, err := rdb.Get(ctx, settingsCacheKey).Bytes(); err == nil {
			var s model.RecruitmentSettings
			if err := json.Unmarshal(b, &s); err == nil {
				return &s, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Warn("读取招新配置缓存失败", "error", err)
		}
	}

	var s model.RecruitmentSettings
	if err := db.WithContext(ctx).First(&s, model.RecruitmentSettingsID).Error; err != nil {
		return nil, response.FromDB(err, nil)
	}

	if rdb != nil {
		if b, err := json.Marshal(&s); err == nil {
			if err := rdb.Set(ctx, settingsCacheKey, b, settingsCacheTTL).Err(); err != nil {
				log.Warn("写入招新配置缓存失败", "error", err)
			}
		}
	}
	return &s, nil
}

func invalidateSettings(ctx context.Context, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	if err := rdb.Del(ctx, settingsCacheKey).Err(); err != nil {
		log.Warn("清除招新配置缓存失败", "error", err)
	}
}

// SettingsInput 整体替换招新配置
type SettingsInput struct {
	StartDate            *time.Time `json:"start_date"`
	EndDate              *time.Time `json:"end_date"`
	IsApplicationEnabled bool       `json:"is_application_enabled"`
	AutoEnableOnStart    bool       `json:"auto_enable_on_start"`
	AutoDisableOnEnd     bool       `json:"auto_disable_on_end"`
}

func UpdateSettings(ctx context.Context, db *gorm.DB, rdb *redis.Client, actor model.Actor, in SettingsInput) (*model.RecruitmentSettings, error) {
	if !actor.IsAdmin() {
		return nil, response.ErrForbidden
	}
	if in.StartDate != nil && in.EndDate != nil && !in.StartDate.Before(*in.EndDate) {
		return nil, response.ErrInvalidRequest.WithTips("开始时间必须早于结束时间")
	}

	s := &model.RecruitmentSettings{ID: model.RecruitmentSettingsID}
	err := db.WithContext(ctx).Model(s).
		Select("start_date", "end_date", "is_application_enabled", "auto_enable_on_start", "auto_disable_on_end", "updated_at").
		Updates(&model.RecruitmentSettings{
			StartDate:            in.StartDate,
			EndDate:              in.EndDate,
			IsApplicationEnabled: in.IsApplicationEnabled,
			AutoEnableOnStart:    in.AutoEnableOnStart,
			AutoDisableOnEnd:     in.AutoDisableOnEnd,
			UpdatedAt:            time.Now(),
		}).Error
	if err != nil {
		return nil, response.FromDB(err, nil)
	}
	invalidateSettings(ctx, rdb)

	log.Info("招新配置已更新", "enabled", in.IsApplicationEnabled, "operator", actor.UserID)
	return GetSettings(ctx, db, rdb)
}

// desiredEnabled 按自动开关计算 now 时刻应有的状态
func desiredEnabled(s *model.RecruitmentSettings, now time.Time) bool {
	enabled := s.IsApplicationEnabled
	if s.AutoEnableOnStart && s.StartDate != nil && !now.Before(*s.StartDate) &&
		(s.EndDate == nil || now.Before(*s.EndDate)) {
		enabled = true
	}
	if s.AutoDisableOnEnd && s.EndDate != nil && !now.Before(*s.EndDate) {
		enabled = false
	}
	return enabled
}

// SyncSettings 由定时任务调用，根据自动开关修改 is_application_enabled
// 读取配置时不会自动切换
func SyncSettings(ctx context.Context, db *gorm.DB, rdb *redis.Client, now time.Time) (changed bool, err error) {
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var s model.RecruitmentSettings
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, model.RecruitmentSettingsID).Error; err != nil {
			return response.FromDB(err, nil)
		}
		want := desiredEnabled(&s, now)
		if want == s.IsApplicationEnabled {
			return nil
		}
		if err := tx.Model(&s).Update("is_application_enabled", want).Error; err != nil {
			return response.FromDB(err, nil)
		}
		changed = true
		log.Info("招新开关自动切换", "enabled", want)
		return nil
	})
	if err != nil {
		return false, err
	}
	if changed {
		invalidateSettings(ctx, rdb)
	}
	return changed, nil
}

// RunSync 每隔 interval 执行一次 SyncSettings，直到 ctx 结束
func RunSync(ctx context.Context, db *gorm.DB, rdb *redis.Client, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if _, err := SyncSettings(ctx, db, rdb, now); err != nil && ctx.Err() == nil {
				log.Error("招新开关同步失败", "error", err)
			}
		}
	}
}
