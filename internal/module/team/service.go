package team

import (
	"club-management-system/internal/global/response"
	"club-management-system/internal/model"
	"club-management-system/tools"
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoleInput struct {
	RoleName     string `json:"role_name" binding:"required"`
	RecruitCount int    `json:"recruit_count"`
}

func (r RoleInput) validate() error {
	if strings.TrimSpace(r.RoleName) == "" {
		return errors.New("岗位名称不能为空")
	}
	if r.RecruitCount < 0 {
		return errors.New("招募人数不能为负数")
	}
	return nil
}

// TeamInput 创建团队的字段，日期格式为 YYYY-MM-DD
type TeamInput struct {
	Title            string              `json:"title" binding:"required"`
	Category         string              `json:"category"`
	PeriodStart      string              `json:"period_start"`
	PeriodEnd        string              `json:"period_end"`
	Deadline         string              `json:"deadline"`
	Description      string              `json:"description"`
	TechStack        model.Tags          `json:"tech_stack"`
	Tags             model.Tags          `json:"tags"`
	Goals            string              `json:"goals"`
	ExecutionType    model.ExecutionType `json:"execution_type"`
	SelectionProcess string              `json:"selection_process"`
	Link             string              `json:"link"`
	Contact          string              `json:"contact"`
	Status           model.TeamStatus    `json:"status"`
	ProjectImage     string              `json:"project_image"`
	LeaderID         *uuid.UUID          `json:"leader_id"` // 为空时由创建者担任
	Roles            []RoleInput         `json:"roles"`
}

func (in *TeamInput) toModel() (*model.Team, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, errors.New("标题不能为空")
	}
	if in.ExecutionType == "" {
		in.ExecutionType = model.ExecutionOnline
	}
	if !in.ExecutionType.Valid() {
		return nil, errors.New("execution_type 只能是 online、offline 或 hybrid")
	}
	if in.Status == "" {
		in.Status = model.TeamOpen
	}
	if !in.Status.Valid() {
		return nil, errors.New("status 只能是 open 或 closed")
	}
	for _, r := range in.Roles {
		if err := r.validate(); err != nil {
			return nil, err
		}
	}

	t := &model.Team{
		Title:            in.Title,
		Category:         in.Category,
		Description:      in.Description,
		TechStack:        in.TechStack,
		Tags:             in.Tags,
		Goals:            in.Goals,
		ExecutionType:    in.ExecutionType,
		SelectionProcess: in.SelectionProcess,
		Link:             in.Link,
		Contact:          in.Contact,
		Status:           in.Status,
		ProjectImage:     in.ProjectImage,
	}
	var err error
	if t.PeriodStart, err = tools.ParseDate(in.PeriodStart); err != nil {
		return nil, err
	}
	if t.PeriodEnd, err = tools.ParseDate(in.PeriodEnd); err != nil {
		return nil, err
	}
	if t.Deadline, err = tools.ParseDate(in.Deadline); err != nil {
		return nil, err
	}
	return t, nil
}

// CreateTeam 团队和初始岗位在同一事务里创建
// 队长只记录在 leader_id 上，是否加入成员表由队长自己决定
func CreateTeam(ctx context.Context, db *gorm.DB, actor model.Actor, in TeamInput) (*model.Team, error) {
	t, err := in.toModel()
	if err != nil {
		return nil, response.ErrInvalidRequest.WithTips(err.Error())
	}
	switch {
	case in.LeaderID != nil:
		if !actor.Owns(*in.LeaderID) {
			return nil, response.ErrForbidden.WithTips("只有管理员可以指定其他人为队长")
		}
		t.LeaderID = in.LeaderID
	case actor.UserID != uuid.Nil:
		t.LeaderID = &actor.UserID
	}
	for _, r := range in.Roles {
		t.Roles = append(t.Roles, model.TeamRole{RoleName: strings.TrimSpace(r.RoleName), RecruitCount: r.RecruitCount})
	}

	db = db.WithContext(ctx)
	if t.LeaderID != nil {
		if err := model.RequireUser(db, *t.LeaderID); err != nil {
			return nil, response.FromDB(err, nil)
		}
	}
	// Create 会在同一事务里写入 Roles
	if err := db.Create(t).Error; err != nil {
		return nil, response.FromDB(err, nil)
	}
	log.Info("团队创建成功", "team_id", t.ID, "title", t.Title, "roles", len(t.Roles))
	return t, nil
}

func getTeam(db *gorm.DB, id uint) (*model.Team, error) {
	var t model.Team
	if err := db.First(&t, id).Error; err != nil {
		return nil, response.FromDB(err, nil)
	}
	return &t, nil
}

// canManage 管理员或队长
func canManage(actor model.Actor, t *model.Team) error {
	if actor.IsAdmin() {
		return nil
	}
	if t.LeaderID != nil && actor.UserID != uuid.Nil && *t.LeaderID == actor.UserID {
		return nil
	}
	return response.ErrForbidden
}

func GetTeam(ctx context.Context, db *gorm.DB, id uint) (*model.Team, error) {
	var t model.Team
	err := db.WithContext(ctx).
		Preload("Leader").
		Preload("Roles", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Members.User").
		First(&t, id).Error
	if err != nil {
		return nil, response.FromDB(err, nil)
	}
	return &t, nil
}

type ListFilter struct {
	model.Page
	Status   string `form:"status"`
	Category string `form:"category"`
	Tag      string `form:"tag"`
	Keyword  string `form:"keyword"`
}

func ListTeams(ctx context.Context, db *gorm.DB, f ListFilter) (model.PageResult[model.Team], error) {
	page := f.Page.Normalize()
	q := db.WithContext(ctx).Model(&model.Team{})
	if f.Status != "" {
		status := model.TeamStatus(strings.ToLower(f.Status))
		if !status.Valid() {
			return model.PageResult[model.Team]{}, response.ErrInvalidRequest.WithTips("未知的团队状态")
		}
		q = q.Where("status = ?", status)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if tag := strings.TrimSpace(f.Tag); tag != "" {
		q = q.Where("CONCAT(',', tags, ',') LIKE ? OR CONCAT(',', tech_stack, ',') LIKE ?", "%,"+tag+",%", "%,"+tag+",%")
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		like := "%" + kw + "%"
		q = q.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return model.PageResult[model.Team]{}, response.FromDB(err, nil)
	}
	var teams []model.Team
	err := q.Preload("Roles", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Order("created_at DESC").Offset(page.Offset()).Limit(page.PageSize).
		Find(&teams).Error
	if err != nil {
		return model.PageResult[model.Team]{}, response.FromDB(err, nil)
	}
	return model.NewPageResult(teams, total, page), nil
}

// TeamUpdate 部分更新，日期传空串表示清空
type TeamUpdate struct {
	Title            *string              `json:"title"`
	Category         *string              `json:"category"`
	PeriodStart      *string              `json:"period_start"`
	PeriodEnd        *string              `json:"period_end"`
	Deadline         *string              `json:"deadline"`
	Description      *string              `json:"description"`
	TechStack        *model.Tags          `json:"tech_stack"`
	Tags             *model.Tags          `json:"tags"`
	Goals            *string              `json:"goals"`
	ExecutionType    *model.ExecutionType `json:"execution_type"`
	SelectionProcess *string              `json:"selection_process"`
	Link             *string              `json:"link"`
	Contact          *string              `json:"contact"`
	Status           *model.TeamStatus    `json:"status"`
	ProjectImage     *string              `json:"project_image"`
	LeaderID         *uuid.UUID           `json:"leader_id"`
}

func (u TeamUpdate) columns() (map[string]any, error) {
	m := map[string]any{}
	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		if title == "" {
			return nil, errors.New("标题不能为空")
		}
		m["title"] = title
	}
	if u.ExecutionType != nil {
		if !u.ExecutionType.Valid() {
			return nil, errors.New("execution_type 只能是 online、offline 或 hybrid")
		}
		m["execution_type"] = *u.ExecutionType
	}
	if u.Status != nil {
		if !u.Status.Valid() {
			return nil, errors.New("status 只能是 open 或 closed")
		}
		m["status"] = *u.Status
	}
	dates := []struct {
		col string
		v   *string
	}{
		{"period_start", u.PeriodStart},
		{"period_end", u.PeriodEnd},
		{"deadline", u.Deadline},
	}
	for _, d := range dates {
		v, set, err := tools.ParseOptionalDate(d.v)
		if err != nil {
			return nil, err
		}
		if set {
			m[d.col] = v
		}
	}
	if u.TechStack != nil {
		m["tech_stack"] = *u.TechStack
	}
	if u.Tags != nil {
		m["tags"] = *u.Tags
	}
	strs := []struct {
		col string
		v   *string
	}{
		{"category", u.Category},
		{"description", u.Description},
		{"goals", u.Goals},
		{"selection_process", u.SelectionProcess},
		{"link", u.Link},
		{"contact", u.Contact},
		{"project_image", u.ProjectImage},
	}
	for _, s := range strs {
		if s.v != nil {
			m[s.col] = *s.v
		}
	}
	return m, nil
}

// UpdateTeam 队长或管理员修改团队，更换队长时同步成员表里的 is_leader
func UpdateTeam(ctx context.Context, db *gorm.DB, actor model.Actor, id uint, in TeamUpdate) (*model.Team, error) {
	columns, err := in.columns()
	if err != nil {
		return nil, response.ErrInvalidRequest.WithTips(err.Error())
	}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t model.Team
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&t, id).Error; err != nil {
			return response.FromDB(err, nil)
		}
		if err := canManage(actor, &t); err != nil {
			return err
		}
		if in.LeaderID != nil {
			if err := model.RequireUser(tx, *in.LeaderID); err != nil {
				return response.FromDB(err, nil)
			}
			columns["leader_id"] = *in.LeaderID
		}
		if len(columns) == 0 {
			return nil
		}
		if err := tx.Model(&t).Updates(columns).Error; err != nil {
			return response.FromDB(err, nil)
		}
		if in.LeaderID != nil {
			err := tx.Model(&model.TeamMember{}).
				Where("team_id = ?", id).
				Update("is_leader", gorm.Expr("user_id = ?", *in.LeaderID)).Error
			if err != nil {
				return response.FromDB(err, nil)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return GetTeam(ctx, db, id)
}

// DeleteTeam 岗位和成员随团队级联删除
func DeleteTeam(ctx context.Context, db *gorm.DB, actor model.Actor, id uint) error {
	db = db.WithContext(ctx)
	t, err := getTeam(db, id)
	if err != nil {
		return err
	}
	if err := canManage(actor, t); err != nil {
		return err
	}
	if err := db.Delete(t).Error; err != nil {
		return response.FromDB(err, response.ErrHasDependents)
	}
	log.Info("团队已删除", "team_id", id, "operator", actor.UserID)
	return nil
}
