package user

import (
	"club-management-system/internal/global/response"
	"club-management-system/internal/model"
	"club-management-system/tools"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreateUserInput 注册信息，角色固定为 GUEST，由管理员后续调整
type CreateUserInput struct {
	Username      string  `json:"username" binding:"required"`
	Password      string  `json:"password" binding:"required"`
	Name          string  `json:"name" binding:"required"`
	Email         string  `json:"email" binding:"required,email"`
	StudentNumber *string `json:"student_number"`
	Major         *string `json:"major"`
	JoinYear      *int    `json:"join_year"`
}

func CreateUser(ctx context.Context, db *gorm.DB, in CreateUserInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateUsername(in.Username); err != nil {
		return nil, response.ErrInvalidRequest.WithTips(err.Error())
	}
	if err := validateEmail(in.Email); err != nil {
		return nil, response.ErrInvalidRequest.WithTips(err.Error())
	}
	if err := validatePasswordStrength(in.Password); err != nil {
		return nil, response.ErrInvalidRequest.WithTips(err.Error())
	}

	db = db.WithContext(ctx)
	if err := checkUnique(db, uuid.Nil, in.Username, in.Email); err != nil {
		return nil, err
	}

	hash, err := tools.PasswordEncrypt(in.Password)
	if err != nil {
		return nil, response.ErrServerInternal.WithOrigin(err)
	}
	u := &model.User{
		Username:      in.Username,
		Password:      hash,
		Name:          strings.TrimSpace(in.Name),
		Email:         in.Email,
		Role:          model.RoleGuest,
		StudentNumber: in.StudentNumber,
		Major:         in.Major,
		JoinYear:      in.JoinYear,
	}
	// 并发注册时以唯一约束为准
	if err := db.Create(u).Error; err != nil {
		return nil, response.FromDB(err, nil)
	}

	log.Info("用户注册成功", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// checkUnique 用户名和邮箱在包括已注销用户在内的所有用户中唯一
func checkUnique(db *gorm.DB, self uuid.UUID, username, email string) error {
	var count int64
	if username != "" {
		q := db.Unscoped().Model(&model.User{}).Where("username = ?", username)
		if self != uuid.Nil {
			q = q.Where("id <> ?", self)
		}
		if err := q.Count(&count).Error; err != nil {
			return response.FromDB(err, nil)
		}
		if count > 0 {
			return response.ErrConflict.WithTips("用户名已被使用")
		}
	}
	if email != "" {
		q := db.Unscoped().Model(&model.User{}).Where("email = ?", email)
		if self != uuid.Nil {
			q = q.Where("id <> ?", self)
		}
		if err := q.Count(&count).Error; err != nil {
			return response.FromDB(err, nil)
		}
		if count > 0 {
			return response.ErrConflict.WithTips("邮箱已被使用")
		}
	}
	return nil
}

// Authenticate 校验用户名密码，用户不存在和密码错误返回同一个错误
func Authenticate(ctx context.Context, db *gorm.DB, username, password string) (*model.User, error) {
	var u model.User
	err := db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&u).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, response.ErrInvalidPassword
	case err != nil:
		return nil, response.FromDB(err, nil)
	}
	if !tools.PasswordCompare(password, u.Password) {
		log.Warn("密码错误", "username", username)
		return nil, response.ErrInvalidPassword
	}
	return &u, nil
}

func GetUser(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.User, error) {
	var u model.User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, response.FromDB(err, nil)
	}
	return &u, nil
}

type ListFilter struct {
	model.Page
	Role    string `form:"role"`
	Keyword string `form:"keyword"`
}

func ListUsers(ctx context.Context, db *gorm.DB, f ListFilter) (model.PageResult[model.User], error) {
	page := f.Page.Normalize()
	q := db.WithContext(ctx).Model(&model.User{})
	if f.Role != "" {
		role, err := model.ParseRole(f.Role)
		if err != nil {
			return model.PageResult[model.User]{}, response.ErrInvalidRequest.WithTips(err.Error())
		}
		q = q.Where("role = ?", role)
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		like := "%" + kw + "%"
		q = q.Where("username LIKE ? OR name LIKE ? OR email LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return model.PageResult[model.User]{}, response.FromDB(err, nil)
	}
	var users []model.User
	if err := q.Order("created_at DESC").Offset(page.Offset()).Limit(page.PageSize).Find(&users).Error; err != nil {
		return model.PageResult[model.User]{}, response.FromDB(err, nil)
	}
	return model.NewPageResult(users, total, page), nil
}

// ProfileUpdate 部分更新，为 nil 的字段保持不变
type ProfileUpdate struct {
	Username        *string   `json:"username"`
	Name            *string   `json:"name"`
	Email           *string   `json:"email" binding:"omitempty,email"`
	StudentNumber   *string   `json:"student_number"`
	Major           *string   `json:"major"`
	JoinYear        *int      `json:"join_year"`
	BirthDate       *string   `json:"birth_date"` // 2006-01-02
	Gender          *string   `json:"gender"`
	TechStack       *[]string `json:"tech_stack"`
	EducationStatus *string   `json:"education_status"`
	Company         *string   `json:"company"`
	PortfolioLink   *string   `json:"portfolio_link"`
	ProfileImage    *string   `json:"profile_image"`

	IsStudentNumberPublic   *bool `json:"is_student_number_public"`
	IsMajorPublic           *bool `json:"is_major_public"`
	IsJoinYearPublic        *bool `json:"is_join_year_public"`
	IsBirthDatePublic       *bool `json:"is_birth_date_public"`
	IsGenderPublic          *bool `json:"is_gender_public"`
	IsTechStackPublic       *bool `json:"is_tech_stack_public"`
	IsEducationStatusPublic *bool `json:"is_education_status_public"`
	IsCompanyPublic         *bool `json:"is_company_public"`
	IsPortfolioLinkPublic   *bool `json:"is_portfolio_link_public"`
}

func (p ProfileUpdate) columns() (map[string]any, error) {
	m := map[string]any{}
	set := func(col string, v any, ok bool) {
		if ok {
			m[col] = v
		}
	}
	if p.Username != nil {
		if err := validateUsername(strings.TrimSpace(*p.Username)); err != nil {
			return nil, err
		}
		m["username"] = strings.TrimSpace(*p.Username)
	}
	if p.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*p.Email))
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		m["email"] = email
	}
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return nil, errors.New("姓名不能为空")
		}
		m["name"] = strings.TrimSpace(*p.Name)
	}
	if p.BirthDate != nil {
		if *p.BirthDate == "" {
			m["birth_date"] = nil
		} else {
			t, err := time.Parse(time.DateOnly, *p.BirthDate)
			if err != nil {
				return nil, errors.New("出生日期格式应为 YYYY-MM-DD")
			}
			m["birth_date"] = datatypes.Date(t)
		}
	}
	if p.TechStack != nil {
		m["tech_stack"] = datatypes.JSONSlice[string](*p.TechStack)
	}
	if p.ProfileImage != nil {
		img := strings.TrimSpace(*p.ProfileImage)
		if img == "" {
			img = model.DefaultProfileImage
		}
		m["profile_image"] = img
	}
	set("student_number", p.StudentNumber, p.StudentNumber != nil)
	set("major", p.Major, p.Major != nil)
	set("join_year", p.JoinYear, p.JoinYear != nil)
	set("gender", p.Gender, p.Gender != nil)
	set("education_status", p.EducationStatus, p.EducationStatus != nil)
	set("company", p.Company, p.Company != nil)
	set("portfolio_link", p.PortfolioLink, p.PortfolioLink != nil)

	flags := []struct {
		col string
		v   *bool
	}{
		{"is_student_number_public", p.IsStudentNumberPublic},
		{"is_major_public", p.IsMajorPublic},
		{"is_join_year_public", p.IsJoinYearPublic},
		{"is_birth_date_public", p.IsBirthDatePublic},
		{"is_gender_public", p.IsGenderPublic},
		{"is_tech_stack_public", p.IsTechStackPublic},
		{"is_education_status_public", p.IsEducationStatusPublic},
		{"is_company_public", p.IsCompanyPublic},
		{"is_portfolio_link_public", p.IsPortfolioLinkPublic},
	}
	for _, f := range flags {
		if f.v != nil {
			m[f.col] = *f.v
		}
	}
	return m, nil
}

// UpdateProfile 本人或管理员可以修改资料
func UpdateProfile(ctx context.Context, db *gorm.DB, actor model.Actor, userID uuid.UUID, in ProfileUpdate) (*model.User, error) {
	if !actor.Owns(userID) {
		return nil, response.ErrForbidden
	}
	columns, err := in.columns()
	if err != nil {
		return nil, response.ErrInvalidRequest.WithTips(err.Error())
	}

	db = db.WithContext(ctx)
	u, err := GetUser(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return u, nil
	}

	username, _ := columns["username"].(string)
	email, _ := columns["email"].(string)
	if err := checkUnique(db, userID, username, email); err != nil {
		return nil, err
	}

	if err := db.Model(u).Updates(columns).Error; err != nil {
		return nil, response.FromDB(err, nil)
	}
	return GetUser(ctx, db, userID)
}

func ChangePassword(ctx context.Context, db *gorm.DB, userID uuid.UUID, oldPassword, newPassword string) error {
	u, err := GetUser(ctx, db, userID)
	if err != nil {
		return err
	}
	if !tools.PasswordCompare(oldPassword, u.Password) {
		return response.ErrInvalidPassword
	}
	if err := validatePasswordStrength(newPassword); err != nil {
		return response.ErrInvalidRequest.WithTips(err.Error())
	}
	hash, err := tools.PasswordEncrypt(newPassword)
	if err != nil {
		return response.ErrServerInternal.WithOrigin(err)
	}

	// 修改密码后其他设备需要重新登录
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(u).Update("password", hash).Error; err != nil {
			return response.FromDB(err, nil)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.RefreshToken{}).Error; err != nil {
			return response.FromDB(err, nil)
		}
		return nil
	})
}

// SetRole 仅管理员可以调整角色
func SetRole(ctx context.Context, db *gorm.DB, actor model.Actor, userID uuid.UUID, role model.Role) (*model.User, error) {
	if !actor.IsAdmin() {
		return nil, response.ErrForbidden
	}
	if !role.Valid() {
		return nil, response.ErrInvalidRequest.WithTips("未知角色")
	}
	u, err := GetUser(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(u).Update("role", role).Error; err != nil {
		return nil, response.FromDB(err, nil)
	}
	u.Role = role
	log.Info("用户角色变更", "user_id", userID, "role", role, "operator", actor.UserID)
	return u, nil
}

// SoftDeleteUser 注销用户
// 刷新令牌和公告随之物理删除，团队与学习小组记录保留
func SoftDeleteUser(ctx context.Context, db *gorm.DB, actor model.Actor, userID uuid.UUID) error {
	if !actor.Owns(userID) {
		return response.ErrForbidden
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", userID).Delete(&model.User{})
		if result.Error != nil {
			return response.FromDB(result.Error, nil)
		}
		if result.RowsAffected == 0 {
			return response.ErrNotFound
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.RefreshToken{}).Error; err != nil {
			return response.FromDB(err, nil)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.Announcement{}).Error; err != nil {
			return response.FromDB(err, nil)
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Info("用户已注销", "user_id", userID, "operator", actor.UserID)
	return nil
}

// PurgeUser 物理删除用户，关联数据按外键策略处理
// 仍有学习小组成员记录时删除失败
func PurgeUser(ctx context.Context, db *gorm.DB, actor model.Actor, userID uuid.UUID) error {
	if !actor.IsAdmin() {
		return response.ErrForbidden
	}
	result := db.WithContext(ctx).Unscoped().Where("id = ?", userID).Delete(&model.User{})
	if result.Error != nil {
		return response.FromDB(result.Error, response.ErrHasDependents)
	}
	if result.RowsAffected == 0 {
		return response.ErrNotFound
	}
	log.Warn("用户已被彻底删除", "user_id", userID, "operator", actor.UserID)
	return nil
}
