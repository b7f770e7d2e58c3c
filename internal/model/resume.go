package model

import (
	"time"
)

// Resume 招新简历，与用户表没有外键关联
type Resume struct {
	Model
	Name             string       `gorm:"type:varchar(50);not null" json:"name" excel:"姓名"`
	StudentNumber    string       `gorm:"type:varchar(20);not null;index" json:"student_number" excel:"学号"`
	Major            string       `gorm:"type:varchar(50)" json:"major" excel:"专业"`
	Phone            string       `gorm:"type:varchar(20)" json:"phone" excel:"电话"`
	TechStack        string       `gorm:"type:varchar(255)" json:"tech_stack" excel:"技术栈"`
	AreaOfInterest   string       `gorm:"type:varchar(255)" json:"area_of_interest" excel:"兴趣方向"`
	SelfIntroduction string       `gorm:"type:text" json:"self_introduction" excel:"自我介绍"`
	ClubExpectation  string       `gorm:"type:text" json:"club_expectation" excel:"期望"`
	SubmitYear       int          `gorm:"not null;index" json:"submit_year" excel:"提交年份"`
	ReviewStatus     ReviewStatus `gorm:"type:varchar(10);not null;default:pending" json:"review_status" excel:"审核状态"`
	ReviewComment    *string      `gorm:"type:text" json:"review_comment" excel:"审核意见"`
	ReviewedAt       *time.Time   `json:"reviewed_at" excel:"审核时间"`

	Projects []ResumeProject `gorm:"foreignKey:ResumeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"projects" excel:"-"`
	Awards   []ResumeAward   `gorm:"foreignKey:ResumeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"awards" excel:"-"`
}

type ResumeProject struct {
	ID           uint   `gorm:"primaryKey" json:"id" excel:"-"`
	ResumeID     uint   `gorm:"not null;index" json:"resume_id" excel:"简历ID"`
	Name         string `gorm:"type:varchar(100);not null" json:"name" excel:"项目名称"`
	Contribution int    `gorm:"not null;default:0" json:"contribution" excel:"贡献度(%)"` // 0-100
	Date         string `gorm:"type:varchar(50)" json:"date" excel:"时间"`
	Description  string `gorm:"type:text" json:"description" excel:"描述"`
	TechStack    string `gorm:"type:varchar(255)" json:"tech_stack" excel:"技术栈"`
}

type ResumeAward struct {
	ID          uint   `gorm:"primaryKey" json:"id" excel:"-"`
	ResumeID    uint   `gorm:"not null;index" json:"resume_id" excel:"简历ID"`
	Name        string `gorm:"type:varchar(100);not null" json:"name" excel:"奖项"`
	Institution string `gorm:"type:varchar(100)" json:"institution" excel:"颁发机构"`
	Date        string `gorm:"type:varchar(50)" json:"date" excel:"时间"`
	Description string `gorm:"type:text" json:"description" excel:"描述"`
}

// RecruitmentSettingsID 招新配置只有一行
const RecruitmentSettingsID uint = 1

// RecruitmentSettings 招新开关
// 两个 auto 开关只是提示，由定时任务读取后修改 is_application_enabled
type RecruitmentSettings struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	StartDate            *time.Time `json:"start_date"`
	EndDate              *time.Time `json:"end_date"`
	IsApplicationEnabled bool       `gorm:"not null;default:false" json:"is_application_enabled"`
	AutoEnableOnStart    bool       `gorm:"not null;default:false" json:"auto_enable_on_start"`
	AutoDisableOnEnd     bool       `gorm:"not null;default:false" json:"auto_disable_on_end"`
	UpdatedAt            time.Time  `json:"updated_at"`
}
