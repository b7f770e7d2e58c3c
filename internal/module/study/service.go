package study

import (
	"club-management-system/internal/global/response"
	"club-management-system/internal/model"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StudyInput 创建学习小组的字段，apply_deadline 为空时取创建时间
type StudyInput struct {
	StudyName     string     `json:"study_name" binding:"required"`
	StartYear     *int       `json:"start_year"`
	Description   string     `json:"description"`
	Tag           model.Tags `json:"tag"`
	RecruitCount  int        `json:"recruit_count"`
	Period        string     `json:"period"`
	ApplyDeadline *time.Time `json:"apply_deadline"`
	Location      string     `json:"location"`
	Method        string     `json:"method"`
}

// CreateStudy 创建学习小组，创建者作为 LEADER 加入
func CreateStudy(ctx context.Context, db *gorm.DB, actor model.Actor, in StudyInput) (*model.Study, error) {
	in.StudyName = strings.TrimSpace(in.StudyName)
	if in.StudyName == "" {
		return nil, response.ErrInvalidRequest.WithTips("小组名称不能为空")
	}
	if in.RecruitCount < 0 {
		return nil, response.ErrInvalidRequest.WithTips("招募人数不能为负数")
	}

	now := time.Now()
	s := &model.Study{
		Model:         model.Model{CreatedAt: now, UpdatedAt: now},
		StudyName:     in.StudyName,
		StartYear:     in.StartYear,
		Description:   in.Description,
		Tag:           in.Tag,
		RecruitCount:  in.RecruitCount,
		Period:        in.Period,
		ApplyDeadline: now,
		Location:      in.Location,
		Method:        in.Method,
	}
	if in.ApplyDeadline != nil {
		s.ApplyDeadline = *in.ApplyDeadline
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(s).Error; err != nil {
			return response.FromDB(err, nil)
		}
		if actor.UserID == uuid.Nil {
			return nil
		}
		if err := model.RequireUser(tx, actor.UserID); err != nil {
			return response.FromDB(err, nil)
		}
		leader := &model.StudyMember{UserID: &actor.UserID, StudyID: &s.ID, Role: model.StudyRoleLeader}
		if err := tx.Create(leader).Error; err != nil {
			return response.FromDB(err, nil)
		}
		s.Members = []model.StudyMember{*leader}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info("学习小组创建成功", "study_id", s.ID, "name", s.StudyName, "leader", actor.UserID)
	return s, nil
}

func getStudy(db *gorm.DB, id uint) (*model.Study, error) {
	var s model.Study
	if err := db.First(&s, id).Error; err != nil {
		return nil, response.FromDB(err, nil)
	}
	return &s, nil
}

// canManage 管理员或该小组的 LEADER
func canManage(db *gorm.DB, actor model.Actor, studyID uint) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.UserID == uuid.Nil {
		return response.ErrForbidden
	}
	var n int64
	err := db.Model(&model.StudyMember{}).
		Where("study_id = ? AND user_id = ? AND role = ?", studyID, actor.UserID, model.StudyRoleLeader).
		Count(&n).Error
	if err != nil {
		return response.FromDB(err, nil)
	}
	if n == 0 {
		return response.ErrForbidden
	}
	return nil
}

// GetStudy 小组详情，附带成员、进度和未删除的资料
func GetStudy(ctx context.Context, db *gorm.DB, id uint) (*model.Study, error) {
	var s model.Study
	err := db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Members.User").
		Preload("Progress", func(db *gorm.DB) *gorm.DB { return db.Order("week_no, id") }).
		Preload("Resources", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&s, id).Error
	if err != nil {
		return nil, response.FromDB(err, nil)
	}
	return &s, nil
}

type ListFilter struct {
	model.Page
	Tag     string `form:"tag"`
	Year    *int   `form:"year"`
	Keyword string `form:"keyword"`
}

func ListStudies(ctx context.Context, db *gorm.DB, f ListFilter) (model.PageResult[model.Study], error) {
	page := f.Page.Normalize()
	q := db.WithContext(ctx).Model(&model.Study{})
	if tag := strings.TrimSpace(f.Tag); tag != "" {
		// tag 列是逗号拼接的字符串，两端补上逗号后按整项匹配
		q = q.Where("CONCAT(',', tag, ',') LIKE ?", "%,"+tag+",%")
	}
	if f.Year != nil {
		q = q.Where("start_year = ?", *f.Year)
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		like := "%" + kw + "%"
		q = q.Where("study_name LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return model.PageResult[model.Study]{}, response.FromDB(err, nil)
	}
	var studies []model.Study
	if err := q.Order("created_at DESC").Offset(page.Offset()).Limit(page.PageSize).Find(&studies).Error; err != nil {
		return model.PageResult[model.Study]{}, response.FromDB(err, nil)
	}
	return model.NewPageResult(studies, total, page), nil
}

// StudyUpdate 部分更新，为 nil 的字段保持不变
type StudyUpdate struct {
	StudyName     *string     `json:"study_name"`
	StartYear     *int        `json:"start_year"`
	Description   *string     `json:"description"`
	Tag           *model.Tags `json:"tag"`
	RecruitCount  *int        `json:"recruit_count"`
	Period        *string     `json:"period"`
	ApplyDeadline *time.Time  `json:"apply_deadline"`
	Location      *string     `json:"location"`
	Method        *string     `json:"method"`
}

func (u StudyUpdate) columns() (map[string]any, error) {
	m := map[string]any{}
	if u.StudyName != nil {
		name := strings.TrimSpace(*u.StudyName)
		if name == "" {
			return nil, errors.New("小组名称不能为空")
		}
		m["study_name"] = name
	}
	if u.RecruitCount != nil {
		if *u.RecruitCount < 0 {
			return nil, errors.New("招募人数不能为负数")
		}
		m["recruit_count"] = *u.RecruitCount
	}
	if u.Tag != nil {
		m["tag"] = *u.Tag
	}
	if u.StartYear != nil {
		m["start_year"] = *u.StartYear
	}
	if u.Description != nil {
		m["description"] = *u.Description
	}
	if u.Period != nil {
		m["period"] = *u.Period
	}
	if u.ApplyDeadline != nil {
		m["apply_deadline"] = *u.ApplyDeadline
	}
	if u.Location != nil {
		m["location"] = *u.Location
	}
	if u.Method != nil {
		m["method"] = *u.Method
	}
	return m, nil
}

func UpdateStudy(ctx context.Context, db *gorm.DB, actor model.Actor, id uint, in StudyUpdate) (*model.Study, error) {
	columns, err := in.columns()
	if err != nil {
		return nil, response.ErrInvalidRequest.WithTips(err.Error())
	}
	db = db.WithContext(ctx)
	s, err := getStudy(db, id)
	if err != nil {
		return nil, err
	}
	if err := canManage(db, actor, id); err != nil {
		return nil, err
	}
	if len(columns) > 0 {
		if err := db.Model(s).Updates(columns).Error; err != nil {
			return nil, response.FromDB(err, nil)
		}
	}
	return getStudy(db, id)
}

// DeleteStudy 仍有进度或未删除的资料时拒绝删除
// 成员记录和已软删除的资料在同一事务里先清理掉
func DeleteStudy(ctx context.Context, db *gorm.DB, actor model.Actor, id uint) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var s model.Study
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, id).Error; err != nil {
			return response.FromDB(err, nil)
		}
		if err := canManage(tx, actor, id); err != nil {
			return err
		}

		var progress, resources int64
		if err := tx.Model(&model.Progress{}).Where("study_id = ?", id).Count(&progress).Error; err != nil {
			return response.FromDB(err, nil)
		}
		if err := tx.Model(&model.Resource{}).Where("study_id = ?", id).Count(&resources).Error; err != nil {
			return response.FromDB(err, nil)
		}
		if progress > 0 || resources > 0 {
			return response.ErrHasDependents.WithTips("请先删除小组的进度和资料")
		}

		if err := tx.Where("study_id = ?", id).Delete(&model.StudyMember{}).Error; err != nil {
			return response.FromDB(err, nil)
		}
		if err := tx.Unscoped().Where("study_id = ?", id).Delete(&model.Resource{}).Error; err != nil {
			return response.FromDB(err, nil)
		}
		if err := tx.Delete(&s).Error; err != nil {
			return response.FromDB(err, response.ErrHasDependents)
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Info("学习小组已删除", "study_id", id, "operator", actor.UserID)
	return nil
}

// AddMember 以 PENDING 身份加入小组，不受招募人数限制
// 本人可以报名，替别人报名需要是 LEADER 或管理员
func AddMember(ctx context.Context, db *gorm.DB, actor model.Actor, studyID uint, userID uuid.UUID) (*model.StudyMember, error) {
	db = db.WithContext(ctx)
	if _, err := getStudy(db, studyID); err != nil {
		return nil, err
	}
	if actor.UserID == uuid.Nil || actor.UserID != userID {
		if err := canManage(db, actor, studyID); err != nil {
			return nil, err
		}
	}

	if err := model.RequireUser(db, userID); err != nil {
		return nil, response.FromDB(err, nil)
	}

	var n int64
	if err := db.Model(&model.StudyMember{}).Where("study_id = ? AND user_id = ?", studyID, userID).Count(&n).Error; err != nil {
		return nil, response.FromDB(err, nil)
	}
	if n > 0 {
		return nil, response.ErrConflict.WithTips("已经申请过该学习小组")
	}

	m := &model.StudyMember{UserID: &userID, StudyID: &studyID, Role: model.StudyRolePending}
	if err := db.Create(m).Error; err != nil {
		return nil, response.FromDB(err, nil)
	}
	log.Info("学习小组新增成员", "study_id", studyID, "user_id", userID)
	return m, nil
}

func getMember(db *gorm.DB, studyID, memberID uint) (*model.StudyMember, error) {
	var m model.StudyMember
	if err := db.Where("id = ? AND study_id = ?", memberID, studyID).First(&m).Error; err != nil {
		return nil, response.FromDB(err, nil)
	}
	return &m, nil
}

// SetMemberRole 调整成员角色
// 从 PENDING 转为占用名额的角色时，recruit_count 大于 0 则不能超员
func SetMemberRole(ctx context.Context, db *gorm.DB, actor model.Actor, studyID, memberID uint, role model.StudyMemberRole) (*model.StudyMember, error) {
	if !role.Valid() {
		return nil, response.ErrInvalidRequest.WithTips("未知的成员角色")
	}
	var m *model.StudyMember
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 锁住小组行，串行化同一小组的名额判断
		var s model.Study
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, studyID).Error; err != nil {
			return response.FromDB(err, nil)
		}
		if err := canManage(tx, actor, studyID); err != nil {
			return err
		}
		var err error
		if m, err = getMember(tx, studyID, memberID); err != nil {
			return err
		}

		if role.Active() && !m.Role.Active() && s.RecruitCount > 0 {
			var active int64
			err := tx.Model(&model.StudyMember{}).
				Where("study_id = ? AND role IN ?", studyID, []model.StudyMemberRole{model.StudyRoleMember, model.StudyRoleLeader}).
				Count(&active).Error
			if err != nil {
				return response.FromDB(err, nil)
			}
			if active >= int64(s.RecruitCount) {
				return response.ErrStudyFull
			}
		}

		if err := tx.Model(m).Update("role", role).Error; err != nil {
			return response.FromDB(err, nil)
		}
		m.Role = role
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info("学习小组成员角色变更", "study_id", studyID, "member_id", memberID, "role", role, "operator", actor.UserID)
	return m, nil
}

// RemoveMember 本人退出，或由 LEADER 和管理员移除
func RemoveMember(ctx context.Context, db *gorm.DB, actor model.Actor, studyID, memberID uint) error {
	db = db.WithContext(ctx)
	m, err := getMember(db, studyID, memberID)
	if err != nil {
		return err
	}
	self := m.UserID != nil && actor.UserID != uuid.Nil && *m.UserID == actor.UserID
	if !self {
		if err := canManage(db, actor, studyID); err != nil {
			return err
		}
	}
	if err := db.Delete(m).Error; err != nil {
		return response.FromDB(err, nil)
	}
	return nil
}
