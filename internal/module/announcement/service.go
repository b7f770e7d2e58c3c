package announcement

import (
	"club-management-system/internal/global/response"
	"club-management-system/internal/model"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// 同一访客 24 小时内只计一次浏览
const viewDedupTTL = 24 * time.Hour

type AnnouncementInput struct {
	Title     string     `json:"title" binding:"required"`
	Contents  string     `json:"contents" binding:"required"`
	Summary   *string    `json:"summary"`
	PublishAt *time.Time `json:"publish_at"` // 为空立即发布
}

func CreateAnnouncement(ctx context.Context, db *gorm.DB, actor model.Actor, in AnnouncementInput) (*model.Announcement, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || strings.TrimSpace(in.Contents) == "" {
		return nil, response.ErrInvalidRequest.WithTips("标题和内容不能为空")
	}
	db = db.WithContext(ctx)
	// 已注销用户手里未过期的访问令牌不能再发公告
	if err := model.RequireUser(db, actor.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.ErrUnauthorized.WithTips("作者不存在")
		}
		return nil, response.FromDB(err, nil)
	}
	a := &model.Announcement{
		UserID:    actor.UserID,
		Title:     title,
		Contents:  in.Contents,
		Summary:   in.Summary,
		PublishAt: in.PublishAt,
	}
	if err := db.Create(a).Error; err != nil {
		return nil, response.FromDB(err, response.ErrUnauthorized.WithTips("作者不存在"))
	}
	log.Info("发布公告", "announcement_id", a.ID, "author", actor.UserID, "scheduled", a.PublishAt != nil)
	return a, nil
}

func withAuthor(db *gorm.DB) *gorm.DB {
	return db.Preload("Author", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "username", "name", "profile_image")
	})
}

func getAnnouncement(db *gorm.DB, id uint) (*model.Announcement, error) {
	var a model.Announcement
	if err := withAuthor(db).First(&a, id).Error; err != nil {
		return nil, response.FromDB(err, nil)
	}
	return &a, nil
}

// visible 未发布的公告只有管理员和作者能看到
func visible(a *model.Announcement, actor model.Actor, now time.Time) bool {
	return a.Published(now) || actor.Owns(a.UserID)
}

type ListFilter struct {
	model.Page
	Keyword string `form:"keyword"`
	Author  string `form:"author"`
}

// ListAnnouncements 按发布时间倒序，非管理员只能看到已发布的
func ListAnnouncements(ctx context.Context, db *gorm.DB, actor model.Actor, f ListFilter) (model.PageResult[model.Announcement], error) {
	page := f.Page.Normalize()
	q := db.WithContext(ctx).Model(&model.Announcement{})
	if !actor.IsAdmin() {
		q = q.Where("publish_at IS NULL OR publish_at <= ?", time.Now())
	}
	if f.Author != "" {
		author, err := uuid.Parse(f.Author)
		if err != nil {
			return model.PageResult[model.Announcement]{}, response.ErrInvalidRequest.WithTips("author 不是合法的用户 ID")
		}
		q = q.Where("user_id = ?", author)
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		like := "%" + kw + "%"
		q = q.Where("title LIKE ? OR summary LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return model.PageResult[model.Announcement]{}, response.FromDB(err, nil)
	}
	var items []model.Announcement
	err := withAuthor(q).
		Order("COALESCE(publish_at, created_at) DESC").
		Order("id DESC").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&items).Error
	if err != nil {
		return model.PageResult[model.Announcement]{}, response.FromDB(err, nil)
	}
	return model.NewPageResult(items, total, page), nil
}

type AnnouncementUpdate struct {
	Title      *string    `json:"title"`
	Contents   *string    `json:"contents"`
	Summary    *string    `json:"summary"`
	PublishAt  *time.Time `json:"publish_at"`
	PublishNow bool       `json:"publish_now"` // 清空 publish_at，立即发布
}

func (u AnnouncementUpdate) columns() (map[string]any, error) {
	m := map[string]any{}
	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		if title == "" {
			return nil, errors.New("标题不能为空")
		}
		m["title"] = title
	}
	if u.Contents != nil {
		if strings.TrimSpace(*u.Contents) == "" {
			return nil, errors.New("内容不能为空")
		}
		m["contents"] = *u.Contents
	}
	if u.Summary != nil {
		m["summary"] = *u.Summary
	}
	switch {
	case u.PublishNow && u.PublishAt != nil:
		return nil, errors.New("publish_now 和 publish_at 不能同时设置")
	case u.PublishNow:
		m["publish_at"] = nil
	case u.PublishAt != nil:
		m["publish_at"] = *u.PublishAt
	}
	return m, nil
}

func UpdateAnnouncement(ctx context.Context, db *gorm.DB, actor model.Actor, id uint, in AnnouncementUpdate) (*model.Announcement, error) {
	columns, err := in.columns()
	if err != nil {
		return nil, response.ErrInvalidRequest.WithTips(err.Error())
	}
	db = db.WithContext(ctx)
	a, err := getAnnouncement(db, id)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(a.UserID) {
		return nil, response.ErrForbidden
	}
	if len(columns) > 0 {
		// views 不在可更新字段里
		if err := db.Model(&model.Announcement{}).Where("id = ?", id).Updates(columns).Error; err != nil {
			return nil, response.FromDB(err, nil)
		}
	}
	return getAnnouncement(db, id)
}

func DeleteAnnouncement(ctx context.Context, db *gorm.DB, actor model.Actor, id uint) error {
	db = db.WithContext(ctx)
	a, err := getAnnouncement(db, id)
	if err != nil {
		return err
	}
	if !actor.Owns(a.UserID) {
		return response.ErrForbidden
	}
	if err := db.Delete(&model.Announcement{}, id).Error; err != nil {
		return response.FromDB(err, nil)
	}
	log.Info("删除公告", "announcement_id", id, "operator", actor.UserID)
	return nil
}

func viewKey(id uint, viewer string) string {
	return fmt.Sprintf("club:announcement:view:%d:%s", id, viewer)
}

// ViewAnnouncement 读取公告并增加浏览量
// rdb 不为 nil 时同一 viewer 24 小时内重复浏览不计数，Redis 出错时照常计数
func ViewAnnouncement(ctx context.Context, db *gorm.DB, rdb *redis.Client, actor model.Actor, viewer string, id uint) (*model.Announcement, error) {
	db = db.WithContext(ctx)
	a, err := getAnnouncement(db, id)
	if err != nil {
		return nil, err
	}
	if !visible(a, actor, time.Now()) {
		return nil, response.ErrNotFound
	}

	count := true
	if rdb != nil && viewer != "" {
		first, err := rdb.SetNX(ctx, viewKey(id, viewer), 1, viewDedupTTL).Result()
		if err != nil {
			log.Warn("浏览去重失败", "error", err, "announcement_id", id)
		} else {
			count = first
		}
	}
	if !count {
		return a, nil
	}

	if err := db.Model(&model.Announcement{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error; err != nil {
		return nil, response.FromDB(err, nil)
	}
	a.Views++
	return a, nil
}
