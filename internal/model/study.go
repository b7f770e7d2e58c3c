package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Study struct {
	Model
	StudyName     string    `gorm:"type:varchar(100);not null" json:"study_name"`
	StartYear     *int      `json:"start_year"`
	Description   string    `gorm:"type:text" json:"description"`
	Tag           Tags      `gorm:"type:varchar(255)" json:"tag"` // 逗号拼接的多个标签
	RecruitCount  int       `gorm:"not null;default:0" json:"recruit_count"`
	Period        string    `gorm:"type:varchar(50)" json:"period"`
	// 未指定时等于创建时间
	ApplyDeadline time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"apply_deadline"`
	Location      string    `gorm:"type:varchar(100)" json:"location"`
	Method        string    `gorm:"type:varchar(50)" json:"method"`

	Members   []StudyMember `gorm:"foreignKey:StudyID" json:"members,omitempty"`
	Progress  []Progress    `gorm:"foreignKey:StudyID" json:"progress,omitempty"`
	Resources []Resource    `gorm:"foreignKey:StudyID" json:"resources,omitempty"`
}

// StudyMember 学习小组成员，两个外键都可为空且不级联
type StudyMember struct {
	Model
	UserID  *uuid.UUID      `gorm:"type:char(36);index" json:"user_id"`
	StudyID *uint           `gorm:"index" json:"study_id"`
	Role    StudyMemberRole `gorm:"type:varchar(20);not null;default:PENDING" json:"role"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// Progress 学习小组的一次进度记录
type Progress struct {
	Model
	StudyID      uint            `gorm:"not null;index" json:"study_id"`
	Title        string          `gorm:"type:varchar(200);not null" json:"title"`
	Content      string          `gorm:"type:text" json:"content"`
	WeekNo       *int            `json:"week_no"`
	ProgressDate *datatypes.Date `json:"progress_date"`
}

// Resource 学习资料，可以挂在小组下，也可以挂在某次进度下
// 进度被删除时 progress_id 置空，资料回到小组层级
type Resource struct {
	Model
	StudyID    uint           `gorm:"not null;index" json:"study_id"`
	ProgressID *uint          `gorm:"index" json:"progress_id"`
	Name       string         `gorm:"type:varchar(200);not null" json:"name"`
	Format     string         `gorm:"type:varchar(20)" json:"format"`
	DirPath    string         `gorm:"type:varchar(500);not null" json:"dir_path"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
