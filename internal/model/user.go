package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultProfileImage 未上传头像时的占位文件名
const DefaultProfileImage = "default_profile.png"

type User struct {
	ID       uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Username string    `gorm:"type:varchar(50);not null;uniqueIndex:uq_user_username" json:"username"`
	Password string    `gorm:"type:varchar(255);not null" json:"-"`
	Name     string    `gorm:"type:varchar(50);not null" json:"name"`
	Email    string    `gorm:"type:varchar(100);not null;uniqueIndex:uq_user_email" json:"email"`
	Role     Role      `gorm:"type:varchar(10);not null;default:GUEST" json:"role"`

	// 学号允许重复
	StudentNumber   *string                     `gorm:"type:varchar(20);index" json:"student_number"`
	Major           *string                     `gorm:"type:varchar(50)" json:"major"`
	JoinYear        *int                        `json:"join_year"`
	BirthDate       *datatypes.Date             `json:"birth_date"`
	Gender          *string                     `gorm:"type:varchar(10)" json:"gender"`
	TechStack       datatypes.JSONSlice[string] `json:"tech_stack"`
	EducationStatus *string                     `gorm:"type:varchar(20)" json:"education_status"`
	Company         *string                     `gorm:"type:varchar(100)" json:"company"`
	PortfolioLink   *string                     `gorm:"type:varchar(255)" json:"portfolio_link"`
	ProfileImage    string                      `gorm:"type:varchar(255);not null;default:default_profile.png" json:"profile_image"`

	Visibility

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// RequireUser 用户不存在或已注销时返回 gorm.ErrRecordNotFound
// 已注销的用户仍有物理行，外键约束不会拦截
func RequireUser(db *gorm.DB, id uuid.UUID) error {
	return db.Select("id").Where("id = ?", id).Take(&User{}).Error
}

// Visibility 个人资料各字段是否对其他成员公开
type Visibility struct {
	IsStudentNumberPublic   bool `gorm:"not null;default:false" json:"is_student_number_public"`
	IsMajorPublic           bool `gorm:"not null;default:false" json:"is_major_public"`
	IsJoinYearPublic        bool `gorm:"not null;default:false" json:"is_join_year_public"`
	IsBirthDatePublic       bool `gorm:"not null;default:false" json:"is_birth_date_public"`
	IsGenderPublic          bool `gorm:"not null;default:false" json:"is_gender_public"`
	IsTechStackPublic       bool `gorm:"not null;default:false" json:"is_tech_stack_public"`
	IsEducationStatusPublic bool `gorm:"not null;default:false" json:"is_education_status_public"`
	IsCompanyPublic         bool `gorm:"not null;default:false" json:"is_company_public"`
	IsPortfolioLinkPublic   bool `gorm:"not null;default:false" json:"is_portfolio_link_public"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleGuest
	}
	if u.ProfileImage == "" {
		u.ProfileImage = DefaultProfileImage
	}
	if u.TechStack == nil {
		u.TechStack = datatypes.JSONSlice[string]{}
	}
	return nil
}

// PublicProfile 其他成员可见的资料，未公开的字段置空
type PublicProfile struct {
	ID              uuid.UUID       `json:"id"`
	Username        string          `json:"username"`
	Name            string          `json:"name"`
	Role            Role            `json:"role"`
	ProfileImage    string          `json:"profile_image"`
	StudentNumber   *string         `json:"student_number,omitempty"`
	Major           *string         `json:"major,omitempty"`
	JoinYear        *int            `json:"join_year,omitempty"`
	BirthDate       *datatypes.Date `json:"birth_date,omitempty"`
	Gender          *string         `json:"gender,omitempty"`
	TechStack       []string        `json:"tech_stack,omitempty"`
	EducationStatus *string         `json:"education_status,omitempty"`
	Company         *string         `json:"company,omitempty"`
	PortfolioLink   *string         `json:"portfolio_link,omitempty"`
}

func (u *User) Public() PublicProfile {
	p := PublicProfile{
		ID:           u.ID,
		Username:     u.Username,
		Name:         u.Name,
		Role:         u.Role,
		ProfileImage: u.ProfileImage,
	}
	if u.IsStudentNumberPublic {
		p.StudentNumber = u.StudentNumber
	}
	if u.IsMajorPublic {
		p.Major = u.Major
	}
	if u.IsJoinYearPublic {
		p.JoinYear = u.JoinYear
	}
	if u.IsBirthDatePublic {
		p.BirthDate = u.BirthDate
	}
	if u.IsGenderPublic {
		p.Gender = u.Gender
	}
	if u.IsTechStackPublic {
		p.TechStack = u.TechStack
	}
	if u.IsEducationStatusPublic {
		p.EducationStatus = u.EducationStatus
	}
	if u.IsCompanyPublic {
		p.Company = u.Company
	}
	if u.IsPortfolioLinkPublic {
		p.PortfolioLink = u.PortfolioLink
	}
	return p
}

// RefreshToken 刷新令牌，只保存令牌的 SHA-256
type RefreshToken struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:char(36);not null;index" json:"user_id"`
	TokenHash  string     `gorm:"type:char(64);not null;uniqueIndex" json:"-"`
	DeviceInfo string     `gorm:"type:varchar(255)" json:"device_info"`
	ExpiresAt  time.Time  `gorm:"not null" json:"expires_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// Actor 发起操作的用户
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Owns 是否本人或管理员
func (a Actor) Owns(userID uuid.UUID) bool {
	return a.IsAdmin() || (a.UserID != uuid.Nil && a.UserID == userID)
}
