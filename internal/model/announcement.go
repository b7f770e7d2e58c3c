package model

import (
	"time"

	"github.com/google/uuid"
)

type Announcement struct {
	Model
	// 作者，用户删除时级联删除
	UserID    uuid.UUID  `gorm:"type:char(36);not null;index" json:"user_id"`
	Title     string     `gorm:"type:varchar(200);not null" json:"title"`
	Contents  string     `gorm:"type:text;not null" json:"contents"`
	Summary   *string    `gorm:"type:varchar(500)" json:"summary"`
	Views     int64      `gorm:"not null;default:0" json:"views"`
	PublishAt *time.Time `json:"publish_at"` // 为空表示立即发布

	Author *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
}

// Published 在 now 时刻是否已经发布
func (a *Announcement) Published(now time.Time) bool {
	return a.PublishAt == nil || !a.PublishAt.After(now)
}
